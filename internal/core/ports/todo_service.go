package ports

import (
	"context"

	"github.com/todoapp/todo-api/internal/core/domain"
)

// CreateTodoInput carries the client-controlled fields of a new item.
type CreateTodoInput struct {
	Title       string
	Description string
	IsCompleted bool
	// IdempotencyKey, when set, makes repeated submissions return the first item.
	IdempotencyKey string
}

// TodoService defines the owner-scoped use cases for to-do items. ownerID
// is always the verified caller identity.
type TodoService interface {
	List(ctx context.Context, ownerID string) ([]*domain.TodoItem, error)
	Get(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error)
	Create(ctx context.Context, ownerID string, input CreateTodoInput) (item *domain.TodoItem, replayed bool, err error)
	Update(ctx context.Context, ownerID string, id int64, patch domain.TodoPatch) (*domain.TodoItem, error)
	Delete(ctx context.Context, ownerID string, id int64) error
	ToggleCompletion(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error)
}
