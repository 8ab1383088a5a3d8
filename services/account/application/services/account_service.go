package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ghuser/itemtracker/pkg/auth"
	"github.com/ghuser/itemtracker/pkg/logger"
	accountdomain "github.com/ghuser/itemtracker/services/account/domain"
	"github.com/ghuser/itemtracker/services/account/domain/models"
	"github.com/ghuser/itemtracker/services/account/domain/repositories"
)

const meterName = "github.com/ghuser/itemtracker/services/account"

// Login attempt outcomes recorded on account.login.attempts.
const (
	loginResultSuccess = "success"
	loginResultInvalid = "invalid"
	loginResultError   = "error"
)

// AccountService registers users and verifies their credentials.
// Event publishing is handled by the repository layer (outbox pattern).
type AccountService struct {
	repo          repositories.UserRepository
	hasher        auth.PasswordHasher
	log           logger.Logger
	loginAttempts metric.Int64Counter
}

// NewAccountService returns an AccountService wired with the given repository
// and password hasher.
func NewAccountService(repo repositories.UserRepository, hasher auth.PasswordHasher, log logger.Logger) *AccountService {
	if log == nil {
		log = logger.Nop()
	}
	counter, err := otel.Meter(meterName).Int64Counter(
		"account.login.attempts",
		metric.WithDescription("Login attempts by result"),
	)
	if err != nil {
		log.Warn("login attempts counter unavailable", "error", err)
	}
	return &AccountService{repo: repo, hasher: hasher, log: log, loginAttempts: counter}
}

// Register creates a user and returns its id. Returns ErrMissingCredentials
// when either field is empty and ErrUserAlreadyExists when the username is
// taken; in both cases nothing is written.
func (s *AccountService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, accountdomain.ErrMissingCredentials
	}
	name, err := models.NewUsername(username)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", accountdomain.ErrMissingCredentials, err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return 0, accountdomain.ErrPasswordTooLong
		}
		return 0, fmt.Errorf("hash password: %w", err)
	}

	user, err := models.NewUser(name, hash)
	if err != nil {
		return 0, fmt.Errorf("new user: %w", err)
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, accountdomain.ErrUserAlreadyExists) {
			return 0, err
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user.ID, nil
}

// Verify checks username and password. An unknown username and a wrong
// password both yield ErrInvalidCredentials.
func (s *AccountService) Verify(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return accountdomain.ErrMissingCredentials
	}

	user, err := s.repo.GetByUsername(ctx, models.Username(username))
	if err != nil {
		if errors.Is(err, accountdomain.ErrUserNotFound) {
			s.hasher.CompareDummy(password)
			s.recordLogin(ctx, loginResultInvalid)
			return accountdomain.ErrInvalidCredentials
		}
		s.recordLogin(ctx, loginResultError)
		return fmt.Errorf("get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.recordLogin(ctx, loginResultInvalid)
			return accountdomain.ErrInvalidCredentials
		}
		s.recordLogin(ctx, loginResultError)
		return fmt.Errorf("compare password: %w", err)
	}

	s.recordLogin(ctx, loginResultSuccess)
	return nil
}

func (s *AccountService) recordLogin(ctx context.Context, result string) {
	if s.loginAttempts == nil {
		return
	}
	s.loginAttempts.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}
