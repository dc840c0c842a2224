package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"todoapi.org/internal/audit"
	"todoapi.org/internal/auth"
	"todoapi.org/internal/students"
)

type createStudentRequest struct {
	Name  string `json:"student_name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (a *API) handleStudentsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listStudents(w, r)
	case http.MethodPost:
		a.createStudent(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPost)
	}
}

func (a *API) handleStudentResource(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimPrefix(r.URL.Path, "/api/students/")
	if raw == "" || strings.Contains(raw, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	id, err := parseID(raw)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid student id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		a.getStudent(w, r, id)
	case http.MethodPut:
		a.updateStudent(w, r, id)
	case http.MethodDelete:
		a.deleteStudent(w, r, id)
	default:
		methodNotAllowed(w, r, http.MethodGet, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) listStudents(w http.ResponseWriter, r *http.Request) {
	list, err := a.students.List(r.Context())
	if err != nil {
		handleStudentError(w, r, err)
		return
	}
	if list == nil {
		list = []students.Student{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *API) getStudent(w http.ResponseWriter, r *http.Request, id int64) {
	st, err := a.students.Get(r.Context(), id)
	if err != nil {
		handleStudentError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (a *API) createStudent(w http.ResponseWriter, r *http.Request) {
	var req createStudentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "student_name is required")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}

	owner, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "Not authenticated")
		return
	}

	st, err := a.students.Create(r.Context(), students.CreateInput{
		UserID: owner.ID,
		Name:   strings.TrimSpace(req.Name),
		Email:  strings.TrimSpace(req.Email),
		Phone:  strings.TrimSpace(req.Phone),
	})
	if err != nil {
		handleStudentError(w, r, err)
		return
	}

	a.audit(r, "students", st.ID, audit.ActionInsert, nil, audit.Snapshot(st))
	writeJSON(w, http.StatusCreated, st)
}

func (a *API) updateStudent(w http.ResponseWriter, r *http.Request, id int64) {
	var upd students.Update
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	before, err := a.students.Get(r.Context(), id)
	if err != nil {
		handleStudentError(w, r, err)
		return
	}

	st, err := a.students.Update(r.Context(), id, upd)
	if err != nil {
		handleStudentError(w, r, err)
		return
	}

	a.audit(r, "students", st.ID, audit.ActionUpdate, audit.Snapshot(before), audit.Snapshot(st))
	writeJSON(w, http.StatusOK, st)
}

func (a *API) deleteStudent(w http.ResponseWriter, r *http.Request, id int64) {
	st, err := a.students.Delete(r.Context(), id)
	if err != nil {
		handleStudentError(w, r, err)
		return
	}

	a.audit(r, "students", st.ID, audit.ActionDelete, audit.Snapshot(st), nil)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Student deleted successfully"})
}

func handleStudentError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, students.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "Student not found")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error")
}
