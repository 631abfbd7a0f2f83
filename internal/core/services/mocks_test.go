package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/tallyspace/tallyspace/internal/core/domain"
	portsrepo "github.com/tallyspace/tallyspace/internal/core/ports/repositories"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, workspaceID string, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, workspaceID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByWorkspace(ctx context.Context, workspaceID string) (map[string]domain.Account, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, workspaceID string) ([]domain.Account, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error {
	args := m.Called(ctx, account, event)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account, event domain.SyncEvent) error {
	args := m.Called(ctx, account, event)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, workspaceID string, accountID string, userID string, now time.Time, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, accountID, userID, now, event)
	return args.Error(0)
}

// --- Mock ActivityRepository ---

type MockActivityRepository struct {
	mock.Mock
}

var _ portsrepo.ActivityRepositoryFacade = (*MockActivityRepository)(nil)

func (m *MockActivityRepository) FindActivityByID(ctx context.Context, workspaceID string, activityID string) (*domain.Activity, error) {
	args := m.Called(ctx, workspaceID, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *MockActivityRepository) ListActivities(ctx context.Context, workspaceID string, limit int, offset int) ([]domain.Activity, error) {
	args := m.Called(ctx, workspaceID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func (m *MockActivityRepository) SaveActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) (int64, error) {
	args := m.Called(ctx, activity, event)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) UpdateActivity(ctx context.Context, activity domain.Activity, event domain.SyncEvent) error {
	args := m.Called(ctx, activity, event)
	return args.Error(0)
}

func (m *MockActivityRepository) DeleteActivity(ctx context.Context, workspaceID string, activityID string, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, activityID, event)
	return args.Error(0)
}

func (m *MockActivityRepository) SaveTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, txn, event)
	return args.Error(0)
}

func (m *MockActivityRepository) UpdateTransaction(ctx context.Context, workspaceID string, txn domain.Transaction, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, txn, event)
	return args.Error(0)
}

func (m *MockActivityRepository) DeleteTransaction(ctx context.Context, workspaceID string, activityID string, transactionID string, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, activityID, transactionID, event)
	return args.Error(0)
}

// --- Mock MovementRepository ---

type MockMovementRepository struct {
	mock.Mock
}

var _ portsrepo.MovementRepositoryFacade = (*MockMovementRepository)(nil)

func (m *MockMovementRepository) FindMovementByID(ctx context.Context, workspaceID string, movementID string) (*domain.Movement, error) {
	args := m.Called(ctx, workspaceID, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) ListMovements(ctx context.Context, workspaceID string, accountID string, limit int, offset int) ([]domain.Movement, error) {
	args := m.Called(ctx, workspaceID, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) FindLinkByID(ctx context.Context, linkID string) (*domain.MovementLink, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MovementLink), args.Error(1)
}

func (m *MockMovementRepository) FindLinksByActivity(ctx context.Context, activityID string) ([]domain.MovementLink, error) {
	args := m.Called(ctx, activityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MovementLink), args.Error(1)
}

func (m *MockMovementRepository) FindLinksByMovement(ctx context.Context, movementID string) ([]domain.MovementLink, error) {
	args := m.Called(ctx, movementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MovementLink), args.Error(1)
}

func (m *MockMovementRepository) SaveMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error {
	args := m.Called(ctx, movement, event)
	return args.Error(0)
}

func (m *MockMovementRepository) UpdateMovement(ctx context.Context, movement domain.Movement, event domain.SyncEvent) error {
	args := m.Called(ctx, movement, event)
	return args.Error(0)
}

func (m *MockMovementRepository) DeleteMovement(ctx context.Context, workspaceID string, movementID string, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, movementID, event)
	return args.Error(0)
}

func (m *MockMovementRepository) SaveLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, link, event)
	return args.Error(0)
}

func (m *MockMovementRepository) UpdateLink(ctx context.Context, workspaceID string, link domain.MovementLink, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, link, event)
	return args.Error(0)
}

func (m *MockMovementRepository) DeleteLink(ctx context.Context, workspaceID string, linkID string, event domain.SyncEvent) error {
	args := m.Called(ctx, workspaceID, linkID, event)
	return args.Error(0)
}

// --- Mock WorkspaceRepository ---

type MockWorkspaceRepository struct {
	mock.Mock
}

var _ portsrepo.WorkspaceRepositoryFacade = (*MockWorkspaceRepository)(nil)

func (m *MockWorkspaceRepository) FindWorkspaceByID(ctx context.Context, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListWorkspacesByUser(ctx context.Context, userID string) ([]domain.Workspace, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) FindUserWorkspaceRole(ctx context.Context, userID string, workspaceID string) (*domain.UserWorkspace, error) {
	args := m.Called(ctx, userID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserWorkspace), args.Error(1)
}

func (m *MockWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace, membership domain.UserWorkspace, defaults []domain.Account) error {
	args := m.Called(ctx, workspace, membership, defaults)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) AddUserToWorkspace(ctx context.Context, membership domain.UserWorkspace) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) UpdateUserWorkspaceRole(ctx context.Context, membership domain.UserWorkspace) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

// --- Mock UserRepository ---

type MockUserRepository struct {
	mock.Mock
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) FindRefreshTokenHash(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user domain.User, passwordHash string) error {
	args := m.Called(ctx, user, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRefreshTokenHash(ctx context.Context, userID string, hash string, now time.Time) error {
	args := m.Called(ctx, userID, hash, now)
	return args.Error(0)
}

type MockEventRepository struct {
	mock.Mock
}

var _ portsrepo.EventRepository = (*MockEventRepository)(nil)

func (m *MockEventRepository) ListEventsSince(ctx context.Context, workspaceID string, since time.Time) ([]domain.SyncEvent, error) {
	args := m.Called(ctx, workspaceID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncEvent), args.Error(1)
}
