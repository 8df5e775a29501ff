package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/anandsr-dev/movs-n-rec/internal/model"
	"github.com/anandsr-dev/movs-n-rec/internal/repository"
)

const bcryptCost = 10

// Claims are the JWT claims carried by both access and refresh tokens.
type Claims struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// userAuthStore is the persistence contract for signup/login flows.
type userAuthStore interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	FindByID(ctx context.Context, userID string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateRefreshToken(ctx context.Context, userID, token string) error
}

// AuthService issues and verifies HS256 token pairs and owns the
// signup/login/refresh/logout flows.
type AuthService struct {
	users userAuthStore

	accessSecret  []byte
	refreshSecret []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(users userAuthStore, accessSecret, refreshSecret string, accessExpiry, refreshExpiry time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Signup registers a new account with a bcrypt-hashed password.
func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (*model.UserResponse, error) {
	_, err := s.users.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	dob, err := time.Parse("2006-01-02", req.DOB)
	if err != nil {
		return nil, fmt.Errorf("%w: dob must be YYYY-MM-DD", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	genres := req.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}

	user, err := s.users.Create(ctx, &model.User{
		Username:       req.Username,
		PasswordHash:   string(hashed),
		Name:           req.Name,
		Email:          req.Email,
		DOB:            dob,
		Gender:         req.Gender,
		State:          req.State,
		Role:           model.RoleUser,
		FavoriteGenres: genres,
	})
	if err != nil {
		return nil, err
	}

	return formatUser(user), nil
}

// Login verifies credentials and issues a fresh token pair. The refresh
// token is persisted on the user so it can be rotated and revoked.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.users.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(ctx, user)
}

// Refresh rotates the token pair. The presented refresh token must
// verify and match the one stored on the user.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenResponse, error) {
	claims, err := s.verify(refreshToken, s.refreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", ErrInvalidCredentials)
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, fmt.Errorf("%w: refresh token revoked", ErrInvalidCredentials)
	}

	return s.issueTokens(ctx, user)
}

// Logout clears the stored refresh token, revoking the session.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return fmt.Errorf("%w: token required", ErrValidation)
	}
	claims, err := s.verify(refreshToken, s.refreshSecret)
	if err != nil {
		return fmt.Errorf("%w: invalid refresh token", ErrInvalidCredentials)
	}
	return s.users.UpdateRefreshToken(ctx, claims.UserID, "")
}

// VerifyAccessToken validates a bearer token and returns its claims.
// Used by the auth guard middleware.
func (s *AuthService) VerifyAccessToken(token string) (*Claims, error) {
	return s.verify(token, s.accessSecret)
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*model.TokenResponse, error) {
	now := time.Now()
	accessExp := now.Add(s.accessExpiry)

	access, err := s.sign(user, s.accessSecret, now, accessExp)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user, s.refreshSecret, now, now.Add(s.refreshExpiry))
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateRefreshToken(ctx, user.ID, refresh); err != nil {
		return nil, err
	}

	return &model.TokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Exp:          accessExp.Unix(),
	}, nil
}

func (s *AuthService) sign(user *model.User, secret []byte, now, expiry time.Time) (string, error) {
	claims := &Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiry),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (s *AuthService) verify(token string, secret []byte) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
