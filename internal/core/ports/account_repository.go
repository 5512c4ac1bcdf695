package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// AccountRepository is the credential store.
type AccountRepository interface {
	// Create persists the account and returns it with its store-assigned ID.
	// A case-insensitive login name collision yields domain.ErrLoginNameTaken.
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	// FindByLoginName looks the account up case-insensitively and returns
	// domain.ErrAccountNotFound when there is none.
	FindByLoginName(ctx context.Context, loginName string) (*domain.Account, error)
}
