package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/todoapp/todo-api/internal/core/domain"
)

const todoColumns = `id, title, description, is_completed, created_at, completed_at, owner_id, version`

type TodoRepository struct {
	db DBTX
}

func NewTodoRepository(db DBTX) *TodoRepository {
	return &TodoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(row rowScanner) (*domain.TodoItem, error) {
	var (
		t           domain.TodoItem
		completedAt sql.NullTime
	)
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.IsCompleted, &t.CreatedAt, &completedAt, &t.OwnerID, &t.Version); err != nil {
		return nil, err
	}
	t.CreatedAt = t.CreatedAt.UTC()
	if completedAt.Valid {
		ts := completedAt.Time.UTC()
		t.CompletedAt = &ts
	}
	return &t, nil
}

// ListByOwner returns the owner's items ordered by id.
func (r *TodoRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+todoColumns+` FROM todo_items WHERE owner_id = $1 ORDER BY id`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.TodoItem, 0)
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		items = append(items, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

func (r *TodoRepository) FindByID(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+todoColumns+` FROM todo_items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	t, err := scanTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return t, nil
}

func (r *TodoRepository) Create(ctx context.Context, item *domain.TodoItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`INSERT INTO todo_items (owner_id, title, description, is_completed, created_at, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, version`

	err := r.db.QueryRowContext(ctx, query,
		item.OwnerID, item.Title, item.Description, item.IsCompleted, item.CreatedAt, item.CompletedAt,
	).Scan(&item.ID, &item.Version)
	if err != nil {
		return fmt.Errorf("insert todo: %w", err)
	}
	return nil
}

// Update writes the mutable columns guarded by the row version.
func (r *TodoRepository) Update(ctx context.Context, item *domain.TodoItem) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query :=
		`UPDATE todo_items
		 SET title = $1, description = $2, is_completed = $3, completed_at = $4, version = version + 1
		 WHERE id = $5 AND owner_id = $6 AND version = $7
		 RETURNING version`

	var version int64
	err := r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.IsCompleted, item.CompletedAt,
		item.ID, item.OwnerID, item.Version,
	).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update todo: %w", err)
	}
	item.Version = version
	return nil
}

func (r *TodoRepository) Delete(ctx context.Context, ownerID string, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM todo_items WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if n == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}
