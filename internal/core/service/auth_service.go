package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// TokenIssuer signs bearer tokens for an authenticated account.
type TokenIssuer interface {
	Issue(subject, name string) (string, time.Time, error)
}

// dummyHash is compared against when the login name is unknown so that the
// unknown-user path costs the same as the wrong-secret path.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-secret"), bcrypt.DefaultCost)

// AuthService implements registration and authentication.
type AuthService struct {
	repo   ports.AccountRepository
	tokens TokenIssuer
	cost   int
	logger zerolog.Logger
}

func NewAuthService(repo ports.AccountRepository, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, cost: bcrypt.DefaultCost, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	loginName := strings.TrimSpace(input.LoginName)
	if loginName == "" {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.NewValidationError("loginName is required")
	}
	if len(input.Secret) < domain.MinSecretLength {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.NewValidationError("secret must be at least 6 characters long")
	}
	if len(input.Secret) > domain.MaxSecretLength {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, domain.NewValidationError("secret must be at most 72 characters long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Secret), s.cost)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, err
	}

	account := &domain.Account{
		LoginName:    loginName,
		PasswordHash: string(hash),
		Profile:      input.Profile.WithDefaults(),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			s.logger.Info().Str("login_name", loginName).Msg("registration rejected: login name taken")
			return nil, err
		}
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
		s.logger.Error().Err(err).Msg("failed to create account")
		return nil, err
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info().Str("account_id", created.ID).Str("login_name", created.LoginName).Msg("account registered")
	return created, nil
}

// Authenticate verifies the credentials and issues a token. Unknown login
// names and wrong secrets both yield domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, loginName, secret string) (*ports.IssuedToken, *domain.Account, error) {
	if strings.TrimSpace(loginName) == "" || secret == "" {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return nil, nil, domain.ErrInvalidCredentials
	}

	account, err := s.repo.FindByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
			metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
			s.logger.Warn().Msg("invalid login attempt")
			return nil, nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(secret)) != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		s.logger.Warn().Msg("invalid login attempt")
		return nil, nil, domain.ErrInvalidCredentials
	}

	signed, expiresAt, err := s.tokens.Issue(account.ID, account.LoginName)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		return nil, nil, err
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info().Str("account_id", account.ID).Msg("token issued")
	return &ports.IssuedToken{Token: signed, ExpiresAt: expiresAt}, account, nil
}
