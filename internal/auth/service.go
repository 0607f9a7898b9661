package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hugh/go-taskboard/internal/database/models"
	"github.com/hugh/go-taskboard/internal/store"
)

var (
	ErrUserNotFound       = fmt.Errorf("user %w", store.ErrNotFound)
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	store   *store.Store
	jwt     *JWTService
	revoker *Revoker
	logger  *slog.Logger
}

func NewService(st *store.Store, jwt *JWTService, revoker *Revoker, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: st, jwt: jwt, revoker: revoker, logger: logger}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput identifies the user by username or email.
type LoginInput struct {
	Login    string
	Password string
}

type AuthResponse struct {
	Token     string       `json:"access_token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	User      *models.User `json:"-"`
}

// Register creates a user. Username and email clashes surface as
// store.ErrUsernameTaken and store.ErrEmailTaken.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (*AuthResponse, error) {
	user, err := s.store.FindUserByLogin(ctx, input.Login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}

	return &AuthResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: int64(s.jwt.Expiry().Seconds()),
		User:      user,
	}, nil
}

// Logout revokes the token described by claims until it would have expired
// anyway.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrMalformedClaims
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}

// Authenticate validates a bearer token, rejects revoked tokens and resolves
// the user it was issued to.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, *models.User, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("checking revocation: %w", err)
	}
	if revoked {
		return nil, nil, ErrRevokedToken
	}

	user, err := s.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return nil, nil, err
	}

	return claims, user, nil
}

func (s *Service) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns one page of the user directory and the total number of
// users.
func (s *Service) ListUsers(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	return s.store.ListUsers(ctx, offset, limit)
}

// ResetPassword replaces a user's password hash.
func (s *Service) ResetPassword(ctx context.Context, login, password string) error {
	user, err := s.store.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	if err := s.store.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		return err
	}

	s.logger.Info("password reset", "user_id", user.ID)
	return nil
}
