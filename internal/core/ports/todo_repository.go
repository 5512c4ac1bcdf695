package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// TodoRepository persists to-do items. Every lookup is scoped to an owner:
// an item owned by someone else is reported as domain.ErrTodoNotFound.
type TodoRepository interface {
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.TodoItem, error)
	FindByID(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error)
	// Create assigns ID and Version on the passed item.
	Create(ctx context.Context, item *domain.TodoItem) error
	// Update writes the mutable fields when the stored version equals
	// item.Version and bumps it. A version mismatch or a vanished row
	// yields domain.ErrConflict.
	Update(ctx context.Context, item *domain.TodoItem) error
	Delete(ctx context.Context, ownerID string, id int64) error
}
