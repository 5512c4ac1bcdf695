package handler

import (
	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createTodoRequest, idempotencyKey string) ports.CreateTodoInput {
	return ports.CreateTodoInput{
		Title:          req.Title,
		Description:    req.Description,
		IsCompleted:    req.IsCompleted,
		IdempotencyKey: idempotencyKey,
	}
}

func toPatch(req updateTodoRequest) domain.TodoPatch {
	return domain.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
	}
}

// --- Service result → HTTP response ---

func toTodoResponse(t *domain.TodoItem) todoResponse {
	resp := todoResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		IsCompleted: t.IsCompleted,
		CreatedAt:   t.CreatedAt.UTC(),
	}
	if t.CompletedAt != nil {
		ts := t.CompletedAt.UTC()
		resp.CompletedAt = &ts
	}
	return resp
}

func toTodoListResponse(items []*domain.TodoItem) []todoResponse {
	out := make([]todoResponse, len(items))
	for i, t := range items {
		out[i] = toTodoResponse(t)
	}
	return out
}
