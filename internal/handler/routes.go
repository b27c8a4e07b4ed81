package handler

import (
	"io/fs"
	"net/http"

	"github.com/rfoley/todo-api/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux. The static FS, if
// non-nil, is served for anything the API routes don't claim.
func RegisterRoutes(mux *http.ServeMux, auth *service.AuthService, todos *service.TodoService, metricsHandler http.Handler, static fs.FS) {
	authHandler := NewAuthHandler(auth)
	todoHandler := NewTodoHandler(todos)

	mux.HandleFunc("POST /signup", authHandler.HandleSignup)
	mux.HandleFunc("POST /login", authHandler.HandleLogin)

	mux.Handle("GET /todos", RequireAuth(auth, http.HandlerFunc(todoHandler.HandleList)))
	mux.Handle("POST /todos", RequireAuth(auth, http.HandlerFunc(todoHandler.HandleCreate)))
	mux.Handle("PUT /todos/{id}", RequireAuth(auth, http.HandlerFunc(todoHandler.HandleUpdate)))
	mux.Handle("DELETE /todos/{id}", RequireAuth(auth, http.HandlerFunc(todoHandler.HandleDelete)))

	mux.HandleFunc("GET /healthz", HandleHealthz)

	if metricsHandler != nil {
		mux.Handle("GET /metrics", metricsHandler)
	}

	if static != nil {
		mux.Handle("GET /", http.FileServerFS(static))
	}
}
