package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rfoley/todo-api/internal/domain"
	"github.com/rfoley/todo-api/internal/service"
	"github.com/rfoley/todo-api/internal/validate"
)

// TodoHandler handles todo CRUD requests. All routes run behind RequireAuth,
// so the request context always carries the authenticated user ID.
type TodoHandler struct {
	todos *service.TodoService
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(todos *service.TodoService) *TodoHandler {
	return &TodoHandler{todos: todos}
}

// HandleList returns the authenticated user's todos.
// GET /todos
func (h *TodoHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	todos, err := h.todos.ListByOwner(r.Context(), userID)
	if err != nil {
		slog.Error("list todos", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, toTodoDTOs(todos))
}

// HandleCreate creates a todo owned by the authenticated user.
// POST /todos
// Request:  {"title":"..."}
func (h *TodoHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.TodoCreate(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todos.Create(r.Context(), userID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create todo", "error", err)
		writeError(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleUpdate applies a partial update to a todo the authenticated user owns.
// PUT /todos/{id}
// Request:  {"title":"...?","completed":bool?} — omitted fields are unchanged.
func (h *TodoHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	id := r.PathValue("id")

	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.TodoUpdate(body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	todo, err := h.todos.Update(r.Context(), userID, id, req.Title, req.Completed)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Todo not found")
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "Unauthorized to update this todo")
		default:
			slog.Error("update todo", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, toTodoDTO(todo))
}

// HandleDelete removes a todo the authenticated user owns.
// DELETE /todos/{id}
func (h *TodoHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	id := r.PathValue("id")

	if err := h.todos.Delete(r.Context(), userID, id); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Todo not found")
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "Unauthorized to delete this todo")
		default:
			slog.Error("delete todo", "error", err)
			writeError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}
