package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/core/services"
	"github.com/tallyspace/tallyspace/internal/dto"
)

type MovementServiceTestSuite struct {
	suite.Suite
	mockMovementRepo *MockMovementRepository
	mockAccountRepo  *MockAccountRepository
	mockActivityRepo *MockActivityRepository
	service          portssvc.MovementSvcFacade

	workspaceID string
	userID      string
	bankAccount domain.Account
}

func (suite *MovementServiceTestSuite) SetupTest() {
	suite.mockMovementRepo = new(MockMovementRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockActivityRepo = new(MockActivityRepository)
	suite.service = services.NewMovementService(suite.mockMovementRepo, suite.mockAccountRepo, suite.mockActivityRepo)

	suite.workspaceID = uuid.NewString()
	suite.userID = uuid.NewString()
	suite.bankAccount = domain.Account{
		AccountID:       uuid.NewString(),
		WorkspaceID:     suite.workspaceID,
		Name:            "Checking",
		AccountType:     domain.BankAccount,
		TracksMovements: true,
		IsActive:        true,
	}
}

func (suite *MovementServiceTestSuite) TestCreateMovement_Success() {
	ctx := context.Background()
	req := dto.CreateMovementRequest{
		MovementID: uuid.NewString(),
		AccountID:  suite.bankAccount.AccountID,
		Date:       time.Now().UTC().Add(-24 * time.Hour),
		Amount:     decimal.NewFromFloat(-42.10),
		Name:       "CARD PAYMENT SUPERMARKET",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workspaceID, req.AccountID).Return(&suite.bankAccount, nil).Once()
	suite.mockMovementRepo.On("SaveMovement", ctx,
		mock.MatchedBy(func(m domain.Movement) bool {
			return m.MovementID == req.MovementID && m.AccountID == req.AccountID
		}),
		mock.MatchedBy(func(e domain.SyncEvent) bool {
			return e.Type == domain.EventMovementCreated && e.WorkspaceID == suite.workspaceID
		}),
	).Return(nil).Once()
	suite.mockMovementRepo.On("FindLinksByMovement", ctx, req.MovementID).Return([]domain.MovementLink{}, nil).Once()

	movement, err := suite.service.CreateMovement(ctx, suite.workspaceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(req.MovementID, movement.MovementID)
	suite.Equal(string(domain.MovementIncomplete), movement.Status)

	suite.mockMovementRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *MovementServiceTestSuite) TestCreateMovement_RejectsNonTrackingAccount() {
	ctx := context.Background()
	cashAccount := domain.Account{
		AccountID:   uuid.NewString(),
		WorkspaceID: suite.workspaceID,
		AccountType: domain.Cash,
		IsActive:    true,
	}
	req := dto.CreateMovementRequest{
		MovementID: uuid.NewString(),
		AccountID:  cashAccount.AccountID,
		Date:       time.Now().UTC(),
		Amount:     decimal.NewFromInt(10),
		Name:       "misfiled",
	}

	suite.mockAccountRepo.On("FindAccountByID", ctx, suite.workspaceID, req.AccountID).Return(&cashAccount, nil).Once()

	_, err := suite.service.CreateMovement(ctx, suite.workspaceID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrValidation)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "SaveMovement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MovementServiceTestSuite) TestGetMovementByID_FullyAllocatedIsCompleted() {
	ctx := context.Background()
	movement := domain.Movement{
		MovementID:  uuid.NewString(),
		WorkspaceID: suite.workspaceID,
		AccountID:   suite.bankAccount.AccountID,
		Amount:      decimal.NewFromFloat(-42.10),
	}
	links := []domain.MovementLink{
		{LinkID: uuid.NewString(), MovementID: movement.MovementID, Amount: decimal.NewFromFloat(-40)},
		{LinkID: uuid.NewString(), MovementID: movement.MovementID, Amount: decimal.NewFromFloat(-2.10)},
	}

	suite.mockMovementRepo.On("FindMovementByID", ctx, suite.workspaceID, movement.MovementID).Return(&movement, nil).Once()
	suite.mockMovementRepo.On("FindLinksByMovement", ctx, movement.MovementID).Return(links, nil).Once()

	resp, err := suite.service.GetMovementByID(ctx, suite.workspaceID, movement.MovementID)

	suite.Require().NoError(err)
	suite.Equal(string(domain.MovementCompleted), resp.Status)
}

func (suite *MovementServiceTestSuite) TestCreateLink_RequiresExistingEndpoints() {
	ctx := context.Background()
	req := dto.CreateMovementLinkRequest{
		LinkID:     uuid.NewString(),
		ActivityID: uuid.NewString(),
		MovementID: uuid.NewString(),
		Amount:     decimal.NewFromInt(-40),
	}

	suite.mockMovementRepo.On("FindMovementByID", ctx, suite.workspaceID, req.MovementID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.CreateLink(ctx, suite.workspaceID, req, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockMovementRepo.AssertNotCalled(suite.T(), "SaveLink", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *MovementServiceTestSuite) TestCreateLink_Success() {
	ctx := context.Background()
	movement := domain.Movement{
		MovementID:  uuid.NewString(),
		WorkspaceID: suite.workspaceID,
		AccountID:   suite.bankAccount.AccountID,
		Amount:      decimal.NewFromInt(-40),
	}
	activity := domain.Activity{
		ActivityID:  uuid.NewString(),
		WorkspaceID: suite.workspaceID,
	}
	req := dto.CreateMovementLinkRequest{
		LinkID:     uuid.NewString(),
		ActivityID: activity.ActivityID,
		MovementID: movement.MovementID,
		Amount:     decimal.NewFromInt(-40),
	}

	suite.mockMovementRepo.On("FindMovementByID", ctx, suite.workspaceID, req.MovementID).Return(&movement, nil).Once()
	suite.mockActivityRepo.On("FindActivityByID", ctx, suite.workspaceID, req.ActivityID).Return(&activity, nil).Once()
	suite.mockMovementRepo.On("SaveLink", ctx, suite.workspaceID,
		mock.MatchedBy(func(l domain.MovementLink) bool {
			return l.LinkID == req.LinkID && l.Amount.Equal(req.Amount)
		}),
		mock.MatchedBy(func(e domain.SyncEvent) bool {
			return e.Type == domain.EventMovementLinkCreated
		}),
	).Return(nil).Once()

	link, err := suite.service.CreateLink(ctx, suite.workspaceID, req, suite.userID)

	suite.Require().NoError(err)
	suite.Equal(req.LinkID, link.LinkID)

	suite.mockMovementRepo.AssertExpectations(suite.T())
	suite.mockActivityRepo.AssertExpectations(suite.T())
}

func TestMovementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MovementServiceTestSuite))
}
