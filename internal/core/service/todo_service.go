package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/todoapp/todo-api/internal/api/metrics"
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// TodoService implements the owner-scoped item use cases.
type TodoService struct {
	repo   ports.TodoRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewTodoService builds the service. idem may be nil, in which case
// Idempotency-Key headers are ignored.
func NewTodoService(repo ports.TodoRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, idem: idem, logger: logger, now: time.Now}
}

func (s *TodoService) List(ctx context.Context, ownerID string) ([]*domain.TodoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	items, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return items, nil
}

func (s *TodoService) Get(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return s.repo.FindByID(ctx, ownerID, id)
}

// Create stores a new item owned by ownerID. When the input carries an
// idempotency key already seen for this owner, the earlier item is returned
// and replayed is true.
func (s *TodoService) Create(ctx context.Context, ownerID string, input ports.CreateTodoInput) (*domain.TodoItem, bool, error) {
	if ownerID == "" {
		return nil, false, domain.ErrUnauthenticated
	}

	if existing := s.replay(ctx, ownerID, input.IdempotencyKey); existing != nil {
		metrics.ItemsCreatedTotal.WithLabelValues("true").Inc()
		return existing, true, nil
	}

	now := s.now().UTC()
	item := &domain.TodoItem{
		Title:       input.Title,
		Description: input.Description,
		CreatedAt:   now,
		OwnerID:     ownerID,
	}
	item.SetCompleted(input.IsCompleted, now)

	if err := s.repo.Create(ctx, item); err != nil {
		s.logger.Error().Err(err).Str("owner_id", ownerID).Msg("failed to create todo")
		return nil, false, fmt.Errorf("create todo: %w", err)
	}

	if input.IdempotencyKey != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, ownerID, input.IdempotencyKey, item.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", input.IdempotencyKey).Msg("failed to record idempotency key")
		}
	}

	metrics.ItemsCreatedTotal.WithLabelValues("false").Inc()
	if item.IsCompleted {
		metrics.ItemsCompletedTotal.Inc()
	}
	s.logger.Info().Int64("todo_id", item.ID).Str("owner_id", ownerID).Msg("todo created")
	return item, false, nil
}

// replay returns the item an earlier request with the same key created, or nil.
func (s *TodoService) replay(ctx context.Context, ownerID, key string) *domain.TodoItem {
	if key == "" || s.idem == nil {
		return nil
	}
	id, ok, err := s.idem.Lookup(ctx, ownerID, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
		return nil
	}
	if !ok {
		return nil
	}
	existing, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		// The remembered item was deleted since; treat the key as fresh.
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Int64("todo_id", id).Msg("idempotent replay")
	return existing
}

func (s *TodoService) Update(ctx context.Context, ownerID string, id int64, patch domain.TodoPatch) (*domain.TodoItem, error) {
	return s.mutate(ctx, ownerID, id, func(item *domain.TodoItem, now time.Time) {
		patch.Apply(item, now)
	})
}

func (s *TodoService) ToggleCompletion(ctx context.Context, ownerID string, id int64) (*domain.TodoItem, error) {
	return s.mutate(ctx, ownerID, id, func(item *domain.TodoItem, now time.Time) {
		item.Toggle(now)
	})
}

func (s *TodoService) Delete(ctx context.Context, ownerID string, id int64) error {
	if ownerID == "" {
		return domain.ErrUnauthenticated
	}
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return err
		}
		return fmt.Errorf("delete todo: %w", err)
	}
	metrics.ItemsDeletedTotal.Inc()
	s.logger.Info().Int64("todo_id", id).Str("owner_id", ownerID).Msg("todo deleted")
	return nil
}

// mutate loads the owned item, applies change and writes it back under the
// version check. A conflict is resolved by re-reading the row: if it is gone
// the caller gets ErrTodoNotFound, otherwise the change is re-applied to the
// fresh row once. A second conflict is returned as ErrConflict.
func (s *TodoService) mutate(ctx context.Context, ownerID string, id int64, change func(*domain.TodoItem, time.Time)) (*domain.TodoItem, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}

	item, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		wasCompleted := item.IsCompleted
		change(item, s.now())

		err = s.repo.Update(ctx, item)
		if err == nil {
			if !wasCompleted && item.IsCompleted {
				metrics.ItemsCompletedTotal.Inc()
			}
			s.logger.Info().
				Int64("todo_id", item.ID).
				Str("owner_id", ownerID).
				Bool("is_completed", item.IsCompleted).
				Msg("todo updated")
			return item, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return nil, fmt.Errorf("update todo: %w", err)
		}

		fresh, findErr := s.repo.FindByID(ctx, ownerID, id)
		if errors.Is(findErr, domain.ErrTodoNotFound) {
			metrics.UpdateConflictsTotal.WithLabelValues("vanished").Inc()
			return nil, domain.ErrTodoNotFound
		}
		if findErr != nil {
			return nil, fmt.Errorf("update todo: recheck: %w", findErr)
		}
		if attempt >= 1 {
			metrics.UpdateConflictsTotal.WithLabelValues("fatal").Inc()
			s.logger.Error().Int64("todo_id", id).Int64("version", fresh.Version).Msg("todo update conflict")
			return nil, fmt.Errorf("update todo %d: %w", id, domain.ErrConflict)
		}
		metrics.UpdateConflictsTotal.WithLabelValues("retried").Inc()
		item = fresh
	}
}
