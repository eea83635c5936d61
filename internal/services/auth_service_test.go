package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testAuthConfig = services.AuthConfig{
	AccessSecret:  "access_secret",
	RefreshSecret: "refresh_secret",
	AccessTTL:     15 * time.Minute,
	RefreshTTL:    24 * time.Hour,
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestAuthService_Signup(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "test@example.com" &&
			bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("Passw0rd!")) == nil
	})).Return(nil).Once()

	user, err := authService.Signup(ctx, services.SignupInput{
		Email: "  Test@Example.com ", Password: "Passw0rd!", FirstName: "Test", LastName: "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.NotEqual(t, "Passw0rd!", user.HashedPassword)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	mockRepo.On("Create", ctx, mock.Anything).Return(repositories.ErrDuplicate).Once()

	_, err := authService.Signup(ctx, services.SignupInput{Email: "taken@example.com", Password: "Passw0rd!"})
	assert.ErrorIs(t, err, services.ErrDuplicate)
	assert.Contains(t, err.Error(), "already registered")
}

func TestAuthService_Signin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	user := &models.User{ID: "user-1", Email: "test@example.com", HashedPassword: hashed(t, "Passw0rd!")}
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil)

	pair, err := authService.Signin(ctx, "test@example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := authService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, services.TokenTypeAccess, claims.Type)

	// Refresh token is not an access token
	_, err = authService.ValidateAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = authService.Signin(ctx, "test@example.com", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_Signin_UnknownEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@example.com").Return(nil, repositories.ErrNotFound).Once()

	_, err := authService.Signin(ctx, "nobody@example.com", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestAuthService_Signin_RepositoryError(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@example.com").Return(nil, errors.New("db down")).Once()

	_, err := authService.Signin(ctx, "a@example.com", "x")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testAuthConfig)
	ctx := context.Background()

	user := &models.User{ID: "user-1", Email: "test@example.com", HashedPassword: hashed(t, "Passw0rd!")}
	mockRepo.On("GetByEmail", ctx, "test@example.com").Return(user, nil).Once()
	mockRepo.On("GetByID", ctx, "user-1").Return(user, nil).Once()

	pair, err := authService.Signin(ctx, "test@example.com", "Passw0rd!")
	require.NoError(t, err)

	refreshed, err := authService.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	claims, err := authService.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	// An access token cannot be used to refresh
	_, err = authService.Refresh(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_ValidateAccessToken_Expired(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testAuthConfig)

	claims := services.Claims{
		Type: services.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testAuthConfig.AccessSecret))
	require.NoError(t, err)

	_, err = authService.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestAuthService_ValidateAccessToken_WrongAlgorithm(t *testing.T) {
	authService := services.NewAuthService(new(MockUserRepository), testAuthConfig)

	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "user-1", "typ": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = authService.ValidateAccessToken(token)
	assert.Error(t, err)
}
