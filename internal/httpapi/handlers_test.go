package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"todoapi.org/internal/audit"
	"todoapi.org/internal/auth"
	"todoapi.org/internal/students"
	"todoapi.org/internal/todos"
)

type stubAsker struct {
	reply string
	err   error
}

func (s stubAsker) Ask(ctx context.Context, message string) (string, error) {
	return s.reply, s.err
}

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T, opts ...func(*API)) *apiClient {
	t.Helper()

	users := auth.NewInMemoryStore()
	authSvc := auth.NewService(users, []byte("test-secret"), 24*time.Hour)
	if err := authSvc.EnsureAdmin(context.Background(), "admin", "admin-pass"); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}

	api := New(ReadyProbe{}, "test", authSvc,
		students.NewInMemory(), todos.NewInMemory(), audit.NewInMemory(),
		stubAsker{reply: "stub reply"}, nil)
	api.rateBurst = 1000
	api.ratePerSec = 1000
	for _, opt := range opts {
		opt(api)
	}

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	client := srv.Client()
	client.Jar = jar

	return &apiClient{
		baseURL: srv.URL,
		client:  client,
		t:       t,
	}
}

func (c *apiClient) do(method, path string, body any, params url.Values) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	var payload []byte
	if body != nil {
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(method, u.String(), bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) post(path string, body any) *http.Response {
	return c.do(http.MethodPost, path, body, nil)
}

func (c *apiClient) get(path string, params url.Values) *http.Response {
	return c.do(http.MethodGet, path, nil, params)
}

func (c *apiClient) login(username, password string) {
	c.t.Helper()
	resp := c.post("/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("login status: %d", resp.StatusCode)
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == sessionCookie && ck.Value != "" {
			return
		}
	}
	c.t.Fatalf("login did not set session cookie")
}

func decode[T any](t *testing.T, r *http.Response) T {
	t.Helper()
	defer r.Body.Close()
	var v T
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestLoginSetsCookieAndVerify(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.get("/api/auth/verify", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("missing user payload: %v", body)
	}
	if user["username"] != "admin" || user["role"] != "admin" {
		t.Fatalf("unexpected identity: %v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash exposed in response")
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/api/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["detail"] != "Invalid credentials" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/auth/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["message"] != "Successfully logged out" {
		t.Fatalf("unexpected message: %v", body["message"])
	}

	resp = api.get("/api/auth/verify", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", resp.StatusCode)
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/auth/register", map[string]string{
		"username": "worker",
		"email":    "worker@example.com",
		"password": "worker-pass",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Same username again is rejected.
	resp = api.post("/api/auth/register", map[string]string{
		"username": "worker",
		"email":    "worker2@example.com",
		"password": "worker-pass",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["detail"] != "Username already exists" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestRegisterForbiddenForPlainUser(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/auth/register", map[string]string{
		"username": "worker",
		"email":    "worker@example.com",
		"password": "worker-pass",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %d", resp.StatusCode)
	}

	api.login("worker", "worker-pass")
	resp = api.post("/api/auth/register", map[string]string{
		"username": "other",
		"email":    "other@example.com",
		"password": "other-pass",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestStudentTodoFlow(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	// Create a student.
	resp := api.post("/api/students", map[string]string{
		"student_name": "Dana",
		"email":        "dana@example.com",
		"phone":        "555-0101",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create student status: %d", resp.StatusCode)
	}
	st := decode[map[string]any](t, resp)
	if st["student_name"] != "Dana" {
		t.Fatalf("unexpected student: %v", st)
	}
	studentID := int64(st["id"].(float64))

	// Create a todo for it.
	resp = api.post("/api/todos", map[string]any{
		"student_id": studentID,
		"title":      "write report",
		"priority":   "high",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create todo status: %d", resp.StatusCode)
	}
	td := decode[map[string]any](t, resp)
	if td["status"] != "pending" {
		t.Fatalf("new todo must start pending: %v", td["status"])
	}
	todoID := int64(td["id"].(float64))

	// Partial update: status only, title unchanged.
	resp = api.do(http.MethodPut, "/api/todos/"+itoa(todoID), map[string]string{
		"status": "completed",
	}, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update todo status: %d", resp.StatusCode)
	}
	updated := decode[map[string]any](t, resp)
	if updated["status"] != "completed" || updated["title"] != "write report" {
		t.Fatalf("partial update broke fields: %v", updated)
	}

	// Filters: only completed todos of this student.
	resp = api.get("/api/todos", url.Values{
		"student_id": {itoa(studentID)},
		"status":     {"completed"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list todos status: %d", resp.StatusCode)
	}
	list := decode[[]map[string]any](t, resp)
	if len(list) != 1 {
		t.Fatalf("expected one filtered todo, got %d", len(list))
	}

	// Stats reflect the collection.
	resp = api.get("/api/todos/stats", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stats status: %d", resp.StatusCode)
	}
	stats := decode[map[string]any](t, resp)
	if stats["total"].(float64) != 1 || stats["completed"].(float64) != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
	if stats["high_priority"].(float64) != 1 {
		t.Fatalf("high priority count missing: %v", stats)
	}

	// Deleting the student leaves the todo delete path exercised too.
	resp = api.do(http.MethodDelete, "/api/todos/"+itoa(todoID), nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete todo status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.do(http.MethodDelete, "/api/students/"+itoa(studentID), nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete student status: %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.get("/api/students/"+itoa(studentID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateTodoUnknownStudent(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/todos", map[string]any{
		"student_id": 999,
		"title":      "orphan",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCreateTodoRejectsBadPriority(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/students", map[string]string{
		"student_name": "Dana",
		"email":        "dana@example.com",
	})
	st := decode[map[string]any](t, resp)

	resp = api.post("/api/todos", map[string]any{
		"student_id": int64(st["id"].(float64)),
		"title":      "x",
		"priority":   "urgent",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestAuditTrailRecordsMutations(t *testing.T) {
	api := newTestAPI(t)
	api.login("admin", "admin-pass")

	resp := api.post("/api/students", map[string]string{
		"student_name": "Dana",
		"email":        "dana@example.com",
	})
	st := decode[map[string]any](t, resp)
	id := itoa(int64(st["id"].(float64)))

	resp = api.do(http.MethodPut, "/api/students/"+id, map[string]string{
		"student_name": "Dana B",
	}, nil)
	resp.Body.Close()

	resp = api.do(http.MethodDelete, "/api/students/"+id, nil, nil)
	resp.Body.Close()

	resp = api.get("/api/audit", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit status: %d", resp.StatusCode)
	}
	page := decode[auditListResponse](t, resp)
	if page.Total != 3 {
		t.Fatalf("expected 3 audit entries, got %d", page.Total)
	}
	// Newest first: DELETE, UPDATE, INSERT.
	if page.Items[0].Action != "DELETE" || page.Items[2].Action != "INSERT" {
		t.Fatalf("unexpected ordering: %v %v", page.Items[0].Action, page.Items[2].Action)
	}
	if page.Items[1].OldData == nil || page.Items[1].NewData == nil {
		t.Fatalf("update entry missing snapshots")
	}
	if page.Items[0].ChangedBy == nil {
		t.Fatalf("actor not recorded")
	}
}

func TestChatEndpoint(t *testing.T) {
	api := newTestAPI(t)

	resp := api.post("/api/chat", map[string]string{"message": "hello"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chat status: %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["response"] != "stub reply" {
		t.Fatalf("unexpected reply: %v", body)
	}
}

func TestChatUpstreamFailure(t *testing.T) {
	api := newTestAPI(t, func(a *API) {
		a.chat = stubAsker{err: context.DeadlineExceeded}
	})

	resp := api.post("/api/chat", map[string]string{"message": "hello"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["detail"] != "AI service temporarily unavailable" {
		t.Fatalf("unexpected detail: %v", body["detail"])
	}
}

func TestProtectedRoutesRequireCookie(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/students", "/api/todos", "/api/audit", "/api/auth/verify"} {
		resp := api.get(path, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, resp.StatusCode)
		}
	}

	// Liveness and chat stay public.
	for _, path := range []string{"/health", "/"} {
		resp := api.get(path, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
