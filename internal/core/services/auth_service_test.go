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
	"github.com/tallyspace/tallyspace/internal/utils"
)

const testJWTSecret = "test-secret-not-for-production"

type AuthServiceTestSuite struct {
	suite.Suite
	mockUserRepo *MockUserRepository
	service      portssvc.AuthSvcFacade
	userID       string
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.mockUserRepo = new(MockUserRepository)
	suite.service = services.NewAuthService(suite.mockUserRepo, testJWTSecret, 15*time.Minute, 720*time.Hour)
	suite.userID = uuid.NewString()
}

func (suite *AuthServiceTestSuite) TestRegister_HashesPassword() {
	ctx := context.Background()
	req := dto.RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "correct horse battery"}

	var savedHash string
	suite.mockUserRepo.On("SaveUser", ctx, mock.MatchedBy(func(u domain.User) bool {
		return u.Email == req.Email && u.UserID != ""
	}), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			savedHash = args.String(2)
		}).
		Return(nil).Once()

	user, err := suite.service.Register(ctx, req)

	suite.Require().NoError(err)
	suite.Equal(req.Email, user.Email)
	suite.NotEqual(req.Password, savedHash)
	suite.True(utils.CheckPasswordHash(req.Password, savedHash))

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	password := "correct horse battery"
	hash, err := utils.HashPassword(password)
	suite.Require().NoError(err)

	user := &domain.User{UserID: suite.userID, Name: "Ada", Email: "ada@example.com"}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, hash, nil).Once()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", ctx, suite.userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	tokens, err := suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: password})

	suite.Require().NoError(err)
	suite.NotEmpty(tokens.AccessToken)
	suite.NotEmpty(tokens.RefreshToken)

	// Access token must carry the user's identity.
	subject, err := utils.ParseAndValidateJWT(tokens.AccessToken, testJWTSecret)
	suite.Require().NoError(err)
	suite.Equal(suite.userID, subject)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("the real password")
	suite.Require().NoError(err)

	user := &domain.User{UserID: suite.userID, Email: "ada@example.com"}
	suite.mockUserRepo.On("FindUserByEmail", ctx, user.Email).Return(user, hash, nil).Once()

	_, err = suite.service.Login(ctx, dto.LoginRequest{Email: user.Email, Password: "a guess"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	ctx := context.Background()
	suite.mockUserRepo.On("FindUserByEmail", ctx, "nobody@example.com").Return(nil, "", apperrors.ErrNotFound).Once()

	_, err := suite.service.Login(ctx, dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_RotatesTokenPair() {
	ctx := context.Background()
	refreshToken, err := utils.GenerateJWT(suite.userID, testJWTSecret, time.Hour)
	suite.Require().NoError(err)

	suite.mockUserRepo.On("FindRefreshTokenHash", ctx, suite.userID).Return(utils.HashToken(refreshToken), nil).Once()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", ctx, suite.userID, mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil).Once()

	tokens, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: refreshToken})

	suite.Require().NoError(err)
	suite.NotEmpty(tokens.AccessToken)
	suite.NotEmpty(tokens.RefreshToken)

	suite.mockUserRepo.AssertExpectations(suite.T())
}

func (suite *AuthServiceTestSuite) TestRefresh_RevokedToken() {
	ctx := context.Background()
	refreshToken, err := utils.GenerateJWT(suite.userID, testJWTSecret, time.Hour)
	suite.Require().NoError(err)

	// Stored hash belongs to a different (newer) token.
	suite.mockUserRepo.On("FindRefreshTokenHash", ctx, suite.userID).Return(utils.HashToken("another token"), nil).Once()

	_, err = suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: refreshToken})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestRefresh_GarbageToken() {
	ctx := context.Background()

	_, err := suite.service.Refresh(ctx, dto.RefreshRequest{RefreshToken: "not a jwt"})

	suite.Require().ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *AuthServiceTestSuite) TestLogout_ClearsRefreshTokenHash() {
	ctx := context.Background()
	suite.mockUserRepo.On("UpdateRefreshTokenHash", ctx, suite.userID, "", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := suite.service.Logout(ctx, suite.userID)

	suite.Require().NoError(err)
	suite.mockUserRepo.AssertExpectations(suite.T())
}

func TestAuthServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
