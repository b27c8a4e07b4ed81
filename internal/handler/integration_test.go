package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rfoley/todo-api/internal/handler"
	"github.com/rfoley/todo-api/internal/service"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.AuthService) {
	t.Helper()
	auth, todos := newTestServices(t)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, todos, nil, nil)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, auth
}

// doJSON issues a request with an optional JSON body and bearer token, and
// decodes the response body into a generic map.
func doJSON(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func doJSONList(t *testing.T, url, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	var decoded []map[string]any
	json.NewDecoder(resp.Body).Decode(&decoded)
	return resp.StatusCode, decoded
}

func loginFor(t *testing.T, srv *httptest.Server, email string) string {
	t.Helper()
	creds := map[string]string{"email": email, "password": "secret1"}

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", creds)
	if status != http.StatusOK {
		t.Fatalf("signup %s: expected 200, got %d", email, status)
	}

	status, body := doJSON(t, http.MethodPost, srv.URL+"/login", "", creds)
	if status != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, status)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("login %s: expected a token", email)
	}
	return token
}

func TestIntegration_SignupLoginTodoLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	// Signup and login.
	tokenA := loginFor(t, srv, "a@x.com")

	// Create a todo.
	status, todo := doJSON(t, http.MethodPost, srv.URL+"/todos", tokenA, map[string]string{"title": "Buy milk"})
	if status != http.StatusOK {
		t.Fatalf("create todo: expected 200, got %d", status)
	}
	if todo["completed"] != false {
		t.Fatal("new todo must not be completed")
	}
	id, _ := todo["id"].(string)
	if id == "" {
		t.Fatal("expected todo id")
	}

	// List contains it.
	status, list := doJSONList(t, srv.URL+"/todos", tokenA)
	if status != http.StatusOK {
		t.Fatalf("list todos: expected 200, got %d", status)
	}
	if len(list) != 1 || list[0]["title"] != "Buy milk" {
		t.Fatalf("expected the created todo in the list, got %v", list)
	}

	// A different user's token cannot delete it.
	tokenB := loginFor(t, srv, "b@x.com")
	status, body := doJSON(t, http.MethodDelete, srv.URL+"/todos/"+id, tokenB, nil)
	if status != http.StatusForbidden {
		t.Fatalf("cross-user delete: expected 403, got %d", status)
	}
	if body["error"] != "Unauthorized to delete this todo" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}

	// The owner can.
	status, body = doJSON(t, http.MethodDelete, srv.URL+"/todos/"+id, tokenA, nil)
	if status != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", status)
	}
	if body["message"] != "Todo deleted successfully" {
		t.Fatalf("unexpected delete message: %v", body["message"])
	}
}

func TestIntegration_SignupDuplicate(t *testing.T) {
	srv, _ := newTestServer(t)
	creds := map[string]string{"email": "dup@x.com", "password": "secret1"}

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", creds)
	if status != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", status)
	}

	status, body := doJSON(t, http.MethodPost, srv.URL+"/signup", "", creds)
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", status)
	}
	if body["error"] != "User already exists" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestIntegration_SignupValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"bad email", map[string]any{"email": "nope", "password": "secret1"}},
		{"short password", map[string]any{"email": "a@x.com", "password": "abc"}},
		{"missing fields", map[string]any{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, _ := doJSON(t, http.MethodPost, srv.URL+"/signup", "", tc.body)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
		})
	}
}

func TestIntegration_LoginBadCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	loginFor(t, srv, "creds@x.com")

	status, body := doJSON(t, http.MethodPost, srv.URL+"/login", "",
		map[string]string{"email": "creds@x.com", "password": "wrong-password"})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["error"] != "Invalid credentials" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func TestIntegration_TodosRequireToken(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/todos"},
		{http.MethodPost, "/todos"},
		{http.MethodPut, "/todos/some-id"},
		{http.MethodDelete, "/todos/some-id"},
	}

	for _, p := range paths {
		status, body := doJSON(t, p.method, srv.URL+p.path, "", nil)
		if status != http.StatusUnauthorized {
			t.Fatalf("%s %s without token: expected 401, got %d", p.method, p.path, status)
		}
		if body["error"] != "Unauthorized. No token provided" {
			t.Fatalf("unexpected error message: %v", body["error"])
		}
	}
}

func TestIntegration_TodosRejectTamperedToken(t *testing.T) {
	srv, _ := newTestServer(t)
	token := signupTamperedToken(t, srv)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/todos", token, nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", status)
	}
	if body["error"] != "Invalid or expired token" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}
}

func signupTamperedToken(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	token := loginFor(t, srv, "tampered@x.com")
	return token[:len(token)-4] + "XXXX"
}

func TestIntegration_PartialUpdate(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginFor(t, srv, "partial@x.com")

	status, todo := doJSON(t, http.MethodPost, srv.URL+"/todos", token, map[string]string{"title": "Buy milk"})
	if status != http.StatusOK {
		t.Fatalf("create todo: expected 200, got %d", status)
	}
	id := todo["id"].(string)

	// {completed: true} flips the flag and leaves the title alone.
	status, updated := doJSON(t, http.MethodPut, srv.URL+"/todos/"+id, token, map[string]any{"completed": true})
	if status != http.StatusOK {
		t.Fatalf("partial update: expected 200, got %d", status)
	}
	if updated["completed"] != true || updated["title"] != "Buy milk" {
		t.Fatalf("partial update broke fields: %v", updated)
	}

	// A two-character title fails validation and changes nothing.
	status, _ = doJSON(t, http.MethodPut, srv.URL+"/todos/"+id, token, map[string]any{"title": "ab"})
	if status != http.StatusBadRequest {
		t.Fatalf("short title: expected 400, got %d", status)
	}

	status, list := doJSONList(t, srv.URL+"/todos", token)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", status)
	}
	if list[0]["title"] != "Buy milk" || list[0]["completed"] != true {
		t.Fatalf("failed update must leave the todo unchanged: %v", list[0])
	}
}

func TestIntegration_CrossUserUpdateForbidden(t *testing.T) {
	srv, _ := newTestServer(t)
	tokenA := loginFor(t, srv, "owner@x.com")
	tokenB := loginFor(t, srv, "other@x.com")

	status, todo := doJSON(t, http.MethodPost, srv.URL+"/todos", tokenA, map[string]string{"title": "Alice task"})
	if status != http.StatusOK {
		t.Fatalf("create todo: expected 200, got %d", status)
	}
	id := todo["id"].(string)

	status, body := doJSON(t, http.MethodPut, srv.URL+"/todos/"+id, tokenB, map[string]any{"completed": true})
	if status != http.StatusForbidden {
		t.Fatalf("cross-user update: expected 403, got %d", status)
	}
	if body["error"] != "Unauthorized to update this todo" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}

	// The todo is unchanged for the owner.
	_, list := doJSONList(t, srv.URL+"/todos", tokenA)
	if list[0]["completed"] != false {
		t.Fatal("forbidden update must leave the todo unchanged")
	}
}

func TestIntegration_MissingTodo(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginFor(t, srv, "missing@x.com")

	status, body := doJSON(t, http.MethodDelete, srv.URL+"/todos/no-such-id", token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("delete missing: expected 404, got %d", status)
	}
	if body["error"] != "Todo not found" {
		t.Fatalf("unexpected error message: %v", body["error"])
	}

	status, _ = doJSON(t, http.MethodPut, srv.URL+"/todos/no-such-id", token, map[string]any{"completed": true})
	if status != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", status)
	}
}

func TestIntegration_TodoCreateValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	token := loginFor(t, srv, "create@x.com")

	status, _ := doJSON(t, http.MethodPost, srv.URL+"/todos", token, map[string]string{"title": "ab"})
	if status != http.StatusBadRequest {
		t.Fatalf("short title: expected 400, got %d", status)
	}

	status, _ = doJSON(t, http.MethodPost, srv.URL+"/todos", token, map[string]string{})
	if status != http.StatusBadRequest {
		t.Fatalf("missing title: expected 400, got %d", status)
	}
}
