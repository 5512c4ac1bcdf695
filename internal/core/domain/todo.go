package domain

import "time"

// TodoItem is a single task owned by one account.
type TodoItem struct {
	ID          int64
	Title       string
	Description string
	IsCompleted bool
	CreatedAt   time.Time
	CompletedAt *time.Time
	OwnerID     string
	// Version is bumped by the store on every successful update.
	Version int64
}

// SetCompleted changes the completion flag and keeps CompletedAt in step:
// false→true stamps now unless a timestamp already exists, true→false clears it.
func (t *TodoItem) SetCompleted(completed bool, now time.Time) {
	if completed {
		if t.CompletedAt == nil {
			ts := now.UTC()
			t.CompletedAt = &ts
		}
	} else {
		t.CompletedAt = nil
	}
	t.IsCompleted = completed
}

// Toggle inverts the completion flag.
func (t *TodoItem) Toggle(now time.Time) {
	t.SetCompleted(!t.IsCompleted, now)
}

// TodoPatch names the fields an update may touch. A nil field was not
// provided; a non-nil empty string clears the field. Ownership is not
// patchable.
type TodoPatch struct {
	Title       *string
	Description *string
	IsCompleted *bool
}

// Apply merges the patch into t.
func (p TodoPatch) Apply(t *TodoItem, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsCompleted != nil {
		t.SetCompleted(*p.IsCompleted, now)
	}
}

// Empty reports whether the patch carries no fields.
func (p TodoPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.IsCompleted == nil
}
