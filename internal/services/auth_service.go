package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tokoshop/internal/models"
	"tokoshop/internal/repositories"

	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims issued by AuthService. Subject is the user id.
type Claims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenPair is returned on sign-in and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthConfig holds token signing settings. Access and refresh tokens use
// separate secrets.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// SignupInput is the data needed to register a user.
type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthService handles business logic for authentication and authorization.
type AuthService struct {
	userRepo repositories.UserRepository
	cfg      AuthConfig
	now      func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, cfg AuthConfig) *AuthService {
	return &AuthService{userRepo: userRepo, cfg: cfg, now: time.Now}
}

// Signup hashes the password and stores a new user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		HashedPassword: string(hashed),
		FirstName:      in.FirstName,
		LastName:       in.LastName,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, newError(ErrDuplicate, "email '%s' already registered", user.Email)
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}
	return user, nil
}

// Signin checks the credentials and issues a token pair. Unknown emails and
// wrong passwords fail the same way.
func (s *AuthService) Signin(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrInvalidCredentials, "invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, newError(ErrInvalidCredentials, "invalid credentials")
	}

	return s.issue(user.ID)
}

// Refresh verifies a refresh token and issues a fresh pair for its user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.parse(refreshToken, s.cfg.RefreshSecret, TokenTypeRefresh)
	if err != nil {
		log.Debug().Err(err).Msg("refresh token rejected")
		return nil, newError(ErrInvalidCredentials, "invalid refresh token")
	}

	if _, err := s.userRepo.GetByID(ctx, claims.Subject); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, newError(ErrInvalidCredentials, "invalid refresh token")
		}
		return nil, err
	}
	return s.issue(claims.Subject)
}

// ValidateAccessToken parses an access token and returns its claims.
func (s *AuthService) ValidateAccessToken(token string) (*Claims, error) {
	return s.parse(token, s.cfg.AccessSecret, TokenTypeAccess)
}

func (s *AuthService) issue(userID string) (*TokenPair, error) {
	access, err := s.sign(userID, TokenTypeAccess, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(userID, TokenTypeRefresh, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) sign(userID, typ, secret string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := Claims{
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", typ, err)
	}
	return signed, nil
}

func (s *AuthService) parse(tokenString, secret, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != wantType {
		return nil, fmt.Errorf("invalid token: expected %s token, got %q", wantType, claims.Type)
	}
	if claims.Subject == "" {
		return nil, errors.New("invalid token: missing subject")
	}
	return claims, nil
}
