package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/flightdesk/internal/auth"
	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
	"github.com/rs/zerolog"
)

type AccountUseCase interface {
	CreateUser(ctx context.Context, username, password string, initialBalance int64) error
	Login(ctx context.Context, currentToken, username, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (domain.Session, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, username string) (string, error)
	GetSession(ctx context.Context, token string) (string, error)
	DeleteSession(ctx context.Context, token string) error
}

type AccountService struct {
	users    repository.UserRepository
	sessions SessionStore
	logger   zerolog.Logger
}

func NewAccountService(users repository.UserRepository, sessions SessionStore, logger zerolog.Logger) *AccountService {
	return &AccountService{users: users, sessions: sessions, logger: logger}
}

func (s *AccountService) CreateUser(ctx context.Context, username, password string, initialBalance int64) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}
	if initialBalance < 0 {
		return fmt.Errorf("%w: initial balance must be non-negative", domain.ErrValidation)
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return err
	}
	user := &domain.User{
		Username:     username,
		PasswordHash: auth.HashPassword(password, salt),
		Salt:         salt,
		Balance:      initialBalance,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info().Str("username", username).Msg("user created")
	return nil
}

// Login verifies the credentials and opens a fresh session. A caller that
// already holds a live session gets ErrAlreadyLoggedIn.
func (s *AccountService) Login(ctx context.Context, currentToken, username, password string) (string, error) {
	if currentToken != "" {
		if _, err := s.sessions.GetSession(ctx, currentToken); err == nil {
			return "", domain.ErrAlreadyLoggedIn
		}
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		// An unknown username and a wrong password are indistinguishable
		// to the caller.
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrLoginFailed
		}
		return "", err
	}
	if !auth.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return "", domain.ErrLoginFailed
	}

	token, err := s.sessions.CreateSession(ctx, username)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("username", username).Msg("logged in")
	return token, nil
}

func (s *AccountService) Logout(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// Resolve maps a session token to the authenticated caller.
func (s *AccountService) Resolve(ctx context.Context, token string) (domain.Session, error) {
	if token == "" {
		return domain.Session{}, domain.ErrNotAuthenticated
	}
	username, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			return domain.Session{}, err
		}
		return domain.Session{}, fmt.Errorf("resolve session: %w", err)
	}
	return domain.Session{Token: token, Username: username}, nil
}

var _ AccountUseCase = (*AccountService)(nil)
