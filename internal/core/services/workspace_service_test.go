package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/tallyspace/tallyspace/internal/apperrors"
	"github.com/tallyspace/tallyspace/internal/core/domain"
	portssvc "github.com/tallyspace/tallyspace/internal/core/ports/services"
	"github.com/tallyspace/tallyspace/internal/core/services"
	"github.com/tallyspace/tallyspace/internal/dto"
)

type WorkspaceServiceTestSuite struct {
	suite.Suite
	mockRepo    *MockWorkspaceRepository
	service     portssvc.WorkspaceSvcFacade
	workspaceID string
	userID      string
}

func (suite *WorkspaceServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockWorkspaceRepository)
	suite.service = services.NewWorkspaceService(suite.mockRepo)
	suite.workspaceID = uuid.NewString()
	suite.userID = uuid.NewString()
}

func (suite *WorkspaceServiceTestSuite) TestCreateWorkspace_SeedsDefaultAccounts() {
	ctx := context.Background()
	req := dto.CreateWorkspaceRequest{Name: "Household", Description: "Shared finances"}

	var savedDefaults []domain.Account
	var savedMembership domain.UserWorkspace
	suite.mockRepo.On("SaveWorkspace", ctx, mock.AnythingOfType("domain.Workspace"), mock.AnythingOfType("domain.UserWorkspace"), mock.AnythingOfType("[]domain.Account")).
		Run(func(args mock.Arguments) {
			savedMembership = args.Get(2).(domain.UserWorkspace)
			savedDefaults = args.Get(3).([]domain.Account)
		}).
		Return(nil).Once()

	created, err := suite.service.CreateWorkspace(ctx, req, suite.userID)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.WorkspaceID)
	suite.Equal(req.Name, created.Name)

	suite.Equal(suite.userID, savedMembership.UserID)
	suite.Equal(domain.RoleAdmin, savedMembership.Role)

	suite.Require().Len(savedDefaults, len(domain.DefaultAccountTypes))
	seen := map[domain.AccountType]bool{}
	for _, account := range savedDefaults {
		suite.True(account.IsDefault)
		suite.True(account.IsActive)
		suite.False(account.TracksMovements)
		suite.True(account.StartingBalance.IsZero())
		suite.Equal(created.WorkspaceID, account.WorkspaceID)
		seen[account.AccountType] = true
	}
	for _, accountType := range domain.DefaultAccountTypes {
		suite.True(seen[accountType], "missing default account for type %s", accountType)
	}

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestAddUserToWorkspace_RequiresAdmin() {
	ctx := context.Background()
	membership := &domain.UserWorkspace{
		UserID:      suite.userID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleMember,
		JoinedAt:    time.Now().UTC(),
	}
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(membership, nil).Once()

	err := suite.service.AddUserToWorkspace(ctx, suite.workspaceID, dto.AddUserToWorkspaceRequest{
		UserID: uuid.NewString(),
		Role:   string(domain.RoleMember),
	}, suite.userID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestAddUserToWorkspace_NewMember() {
	ctx := context.Background()
	targetUserID := uuid.NewString()

	adminMembership := &domain.UserWorkspace{
		UserID:      suite.userID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleAdmin,
		JoinedAt:    time.Now().UTC(),
	}
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(adminMembership, nil).Once()
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, targetUserID, suite.workspaceID).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("AddUserToWorkspace", ctx, mock.MatchedBy(func(m domain.UserWorkspace) bool {
		return m.UserID == targetUserID && m.Role == domain.RoleReadOnly
	})).Return(nil).Once()

	err := suite.service.AddUserToWorkspace(ctx, suite.workspaceID, dto.AddUserToWorkspaceRequest{
		UserID: targetUserID,
		Role:   string(domain.RoleReadOnly),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestAddUserToWorkspace_ExistingMemberIsReroled() {
	ctx := context.Background()
	targetUserID := uuid.NewString()
	joined := time.Now().UTC().Add(-48 * time.Hour)

	adminMembership := &domain.UserWorkspace{
		UserID:      suite.userID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleAdmin,
		JoinedAt:    time.Now().UTC(),
	}
	existing := &domain.UserWorkspace{
		UserID:      targetUserID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleMember,
		JoinedAt:    joined,
	}
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(adminMembership, nil).Once()
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, targetUserID, suite.workspaceID).Return(existing, nil).Once()
	suite.mockRepo.On("UpdateUserWorkspaceRole", ctx, mock.MatchedBy(func(m domain.UserWorkspace) bool {
		return m.UserID == targetUserID && m.Role == domain.RoleRemoved && m.JoinedAt.Equal(joined)
	})).Return(nil).Once()

	err := suite.service.AddUserToWorkspace(ctx, suite.workspaceID, dto.AddUserToWorkspaceRequest{
		UserID: targetUserID,
		Role:   string(domain.RoleRemoved),
	}, suite.userID)

	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeMember_NonMember() {
	ctx := context.Background()
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.AuthorizeMember(ctx, suite.userID, suite.workspaceID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeMember_RemovedMember() {
	ctx := context.Background()
	removed := &domain.UserWorkspace{
		UserID:      suite.userID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleRemoved,
		JoinedAt:    time.Now().UTC(),
	}
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(removed, nil).Once()

	_, err := suite.service.AuthorizeMember(ctx, suite.userID, suite.workspaceID)

	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *WorkspaceServiceTestSuite) TestAuthorizeWriter_ReadOnlyMember() {
	ctx := context.Background()
	readonly := &domain.UserWorkspace{
		UserID:      suite.userID,
		WorkspaceID: suite.workspaceID,
		Role:        domain.RoleReadOnly,
		JoinedAt:    time.Now().UTC(),
	}
	suite.mockRepo.On("FindUserWorkspaceRole", ctx, suite.userID, suite.workspaceID).Return(readonly, nil).Twice()

	role, err := suite.service.AuthorizeMember(ctx, suite.userID, suite.workspaceID)
	suite.Require().NoError(err)
	suite.Equal(domain.RoleReadOnly, role)

	_, err = suite.service.AuthorizeWriter(ctx, suite.userID, suite.workspaceID)
	suite.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func TestWorkspaceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(WorkspaceServiceTestSuite))
}
