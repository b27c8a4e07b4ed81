package domain

import (
	"context"
	"time"
)

// Todo is a single todo item. UserID is the owner, set at creation and never
// reassigned; only the owner may mutate or delete the item.
type Todo struct {
	ID        string
	Title     string
	Completed bool
	UserID    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoRepository defines persistence operations for todos.
type TodoRepository interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	ListByOwner(ctx context.Context, userID string) ([]Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id string) error
}
