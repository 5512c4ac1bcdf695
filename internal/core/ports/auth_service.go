package ports

import (
	"context"
	"time"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// RegisterInput carries the registration request. Empty profile fields fall
// back to placeholders.
type RegisterInput struct {
	LoginName string
	Secret    string
	Profile   domain.Profile
}

// IssuedToken is a signed bearer token and its expiry.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Authenticate(ctx context.Context, loginName, secret string) (*IssuedToken, *domain.Account, error)
}
