package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tilespeak/tilespeak-server/internal/auth"
	"github.com/tilespeak/tilespeak-server/internal/domain"
	apperrors "github.com/tilespeak/tilespeak-server/internal/errors"
	"github.com/tilespeak/tilespeak-server/internal/id"
	"github.com/tilespeak/tilespeak-server/internal/store"
)

// AuthService handles registration, login, and session issuance.
type AuthService struct {
	store  *store.Store
	tokens *auth.TokenService
	logger *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(s *store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{store: s, tokens: tokens, logger: logger}
}

// RegisterRequest is the payload for creating a new account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginRequest is the payload for authenticating.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session couples a user with a freshly issued session token.
type Session struct {
	User  *domain.User
	Token string
}

// Register creates a new user account and issues a session token.
// A duplicate email fails with ALREADY_EXISTS.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.Internal(err, "hashing password")
	}

	user := &domain.User{
		Email:        req.Email,
		PasswordHash: hash,
		Language:     domain.DefaultLanguage,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	user.ID, err = id.New(id.PrefixUser)
	if err != nil {
		return nil, apperrors.Internal(err, "generating user id")
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, apperrors.AlreadyExists("email already registered")
		}
		return nil, apperrors.Internal(err, "creating user")
	}

	token, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err, "issuing session token")
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// Login verifies credentials and issues a session token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, apperrors.InvalidCredentials("invalid email or password")
		}
		return nil, apperrors.Internal(err, "looking up user")
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Internal(err, "verifying password")
	}
	if !ok {
		return nil, apperrors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, apperrors.Internal(err, "recording login")
	}

	token, err := s.tokens.GenerateSessionToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err, "issuing session token")
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return &Session{User: user, Token: token}, nil
}

// GetUser fetches a user by ID for the current-user endpoint.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal(err, "fetching user")
	}
	return user, nil
}
