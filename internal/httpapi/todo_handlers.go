package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"todoapi.org/internal/audit"
	"todoapi.org/internal/students"
	"todoapi.org/internal/todos"
)

type createTodoRequest struct {
	StudentID   int64      `json:"student_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
}

func (a *API) handleTodosCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTodos(w, r)
	case http.MethodPost:
		a.createTodo(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleTodoResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/todos/")
	if raw == "stats" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.todoStats(w, r)
		return
	}
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid todo id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getTodo(w, r, id)
	case http.MethodPut:
		a.updateTodo(w, r, id)
	case http.MethodDelete:
		a.deleteTodo(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var f todos.Filter
	if raw := strings.TrimSpace(q.Get("student_id")); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "student_id must be a positive integer")
			return
		}
		f.StudentID = id
	}
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		if !todos.ValidStatus(s) {
			writeError(w, r, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = s
	}
	if p := strings.TrimSpace(q.Get("priority")); p != "" {
		if !todos.ValidPriority(p) {
			writeError(w, r, http.StatusBadRequest, "invalid priority filter")
			return
		}
		f.Priority = p
	}

	limit, err := parseIntParam(q.Get("limit"), 100, 1, 1000)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
		return
	}
	skip, err := parseIntParam(q.Get("skip"), 0, 0, 1<<30)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	f.Limit = limit
	f.Skip = skip

	list, err := a.todos.List(r.Context(), f)
	if err != nil {
		handleTodoError(w, r, err)
		return
	}
	if list == nil {
		list = []todos.Todo{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getTodo(w http.ResponseWriter, r *http.Request, id int64) {
	td, err := a.todos.Get(r.Context(), id)
	if err != nil {
		handleTodoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, td)
}

func (a *API) createTodo(w http.ResponseWriter, r *http.Request) {
	var req createTodoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, r, http.StatusBadRequest, "title is required")
		return
	}
	if req.StudentID <= 0 {
		writeError(w, r, http.StatusBadRequest, "student_id is required")
		return
	}
	if _, err := a.students.Get(r.Context(), req.StudentID); err != nil {
		if errors.Is(err, students.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "Student not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}

	td, err := a.todos.Create(r.Context(), todos.CreateInput{
		StudentID:   req.StudentID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if err != nil {
		handleTodoError(w, r, err)
		return
	}

	a.audit(r, "todos", td.ID, audit.ActionInsert, nil, audit.Snapshot(td))
	writeJSON(w, http.StatusCreated, td)
}

func (a *API) updateTodo(w http.ResponseWriter, r *http.Request, id int64) {
	var upd todos.Update
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	before, err := a.todos.Get(r.Context(), id)
	if err != nil {
		handleTodoError(w, r, err)
		return
	}

	td, err := a.todos.Update(r.Context(), id, upd)
	if err != nil {
		handleTodoError(w, r, err)
		return
	}

	a.audit(r, "todos", td.ID, audit.ActionUpdate, audit.Snapshot(before), audit.Snapshot(td))
	writeJSON(w, http.StatusOK, td)
}

func (a *API) deleteTodo(w http.ResponseWriter, r *http.Request, id int64) {
	td, err := a.todos.Delete(r.Context(), id)
	if err != nil {
		handleTodoError(w, r, err)
		return
	}

	a.audit(r, "todos", td.ID, audit.ActionDelete, audit.Snapshot(td), nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

func (a *API) todoStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.todos.Stats(r.Context(), time.Now().UTC())
	if err != nil {
		handleTodoError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func handleTodoError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, todos.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "Todo not found")
	case errors.Is(err, todos.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
