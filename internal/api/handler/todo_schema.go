package handler

import "time"

// --- Request / Response types ---

// createTodoRequest deliberately has no owner field: ownership always comes
// from the verified token.
type createTodoRequest struct {
	Title       string `json:"title"       validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
	IsCompleted bool   `json:"isCompleted"`
}

// updateTodoRequest is a partial update: absent fields stay untouched.
type updateTodoRequest struct {
	ID          *int64  `json:"id"`
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	IsCompleted *bool   `json:"isCompleted"`
}

type todoResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsCompleted bool       `json:"isCompleted"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

type toggleResponse struct {
	IsCompleted bool   `json:"isCompleted"`
	Message     string `json:"message"`
}
