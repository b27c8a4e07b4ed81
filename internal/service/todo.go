package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/rfoley/todo-api/internal/domain"
)

// minTitleLength is the shortest title a todo may carry.
const minTitleLength = 3

// AuthorizeOwner decides whether the authenticated user may mutate a resource
// owned by ownerID. It is a pure function so the ownership policy is testable
// independent of storage.
func AuthorizeOwner(ownerID, userID string) error {
	if ownerID != userID {
		return domain.ErrForbidden
	}
	return nil
}

// TodoService handles todo CRUD and the ownership policy for mutations.
type TodoService struct {
	todos domain.TodoRepository
}

// NewTodoService creates a new TodoService.
func NewTodoService(todos domain.TodoRepository) *TodoService {
	return &TodoService{todos: todos}
}

// Create creates a todo owned by userID. Completed defaults to false.
func (s *TodoService) Create(ctx context.Context, userID, title string) (*domain.Todo, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		Title:  title,
		UserID: userID,
	}

	if err := s.todos.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// ListByOwner returns all todos owned by userID.
func (s *TodoService) ListByOwner(ctx context.Context, userID string) ([]domain.Todo, error) {
	return s.todos.ListByOwner(ctx, userID)
}

// Update applies a partial update to the todo with the given id on behalf of
// userID. Nil fields are left unchanged. The todo must exist and be owned by
// userID; a title, when given, must satisfy the minimum length.
func (s *TodoService) Update(ctx context.Context, userID, id string, title *string, completed *bool) (*domain.Todo, error) {
	if title != nil {
		if err := validateTitle(*title); err != nil {
			return nil, err
		}
	}

	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeOwner(todo.UserID, userID); err != nil {
		return nil, err
	}

	if title != nil {
		todo.Title = *title
	}
	if completed != nil {
		todo.Completed = *completed
	}

	if err := s.todos.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes the todo with the given id on behalf of userID. The todo
// must exist and be owned by userID.
func (s *TodoService) Delete(ctx context.Context, userID, id string) error {
	todo, err := s.todos.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeOwner(todo.UserID, userID); err != nil {
		return err
	}

	return s.todos.Delete(ctx, id)
}

func validateTitle(title string) error {
	if utf8.RuneCountInString(title) < minTitleLength {
		return fmt.Errorf("%w: title must be at least %d characters", domain.ErrInvalidInput, minTitleLength)
	}
	return nil
}
