package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"todoapi.org/internal/audit"
	"todoapi.org/internal/auth"
	"todoapi.org/internal/obs"
	"todoapi.org/internal/students"
	"todoapi.org/internal/todos"
)

// Asker relays a chat message to the generative backend.
type Asker interface {
	Ask(ctx context.Context, message string) (string, error)
}

// ReadyProbe checks downstream readiness (DB ping when configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux         *http.ServeMux
	readyProbe  ReadyProbe
	version     string
	auth        *auth.Service
	students    students.Service
	todos       todos.Service
	trail       audit.Recorder
	chat        Asker
	corsOrigins []string

	rateBurst  int
	ratePerSec int
}

func New(rp ReadyProbe, version string, authSvc *auth.Service, studentSvc students.Service, todoSvc todos.Service, trail audit.Recorder, chatClient Asker, corsOrigins []string) *API {
	a := &API{
		mux:         http.NewServeMux(),
		readyProbe:  rp,
		version:     version,
		auth:        authSvc,
		students:    studentSvc,
		todos:       todoSvc,
		trail:       trail,
		chat:        chatClient,
		corsOrigins: corsOrigins,
		rateBurst:   20,
		ratePerSec:  10,
	}

	a.mux.HandleFunc("/health", a.Health)
	a.mux.HandleFunc("/ready", a.Ready)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/api/auth/login", a.handleLogin)
	a.mux.HandleFunc("/api/auth/register", a.handleRegister)
	a.mux.HandleFunc("/api/auth/verify", a.handleVerify)
	a.mux.HandleFunc("/api/auth/logout", a.handleLogout)

	a.mux.HandleFunc("/api/students", a.handleStudentsCollection)
	a.mux.HandleFunc("/api/students/", a.handleStudentResource)

	a.mux.HandleFunc("/api/todos", a.handleTodosCollection)
	a.mux.HandleFunc("/api/todos/", a.handleTodoResource)

	a.mux.HandleFunc("/api/audit", a.handleAuditList)
	a.mux.HandleFunc("/api/chat", a.handleChat)

	a.mux.HandleFunc("/", a.Root)

	return a
}

// Handler assembles the middleware chain around the mux.
func (a *API) Handler() http.Handler {
	h := obs.Instrument(a.withAuth(a.mux))
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, 1<<20)
	h = CORS(h, a.corsOrigins)
	h = SecurityHeaders(h)
	h = LoggingJSON(h)
	return RequestID(h)
}

func (a *API) Root(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "todo-api",
		"version": a.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "todo-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// audit records a trail entry for a completed mutation. Failures are
// logged and counted, never surfaced to the caller.
func (a *API) audit(r *http.Request, table string, recordID int64, action string, oldData, newData json.RawMessage) {
	if a.trail == nil {
		return
	}
	e := &audit.Entry{
		TableName: table,
		RecordID:  recordID,
		Action:    action,
		OldData:   oldData,
		NewData:   newData,
		IPAddress: clientIP(r),
	}
	if u, ok := auth.UserFromContext(r.Context()); ok {
		id := u.ID
		e.ChangedBy = &id
	}
	if err := a.trail.Record(r.Context(), e); err != nil {
		obs.AuditWriteFailed()
		obs.Logger().Warn("audit write failed",
			zap.String("table", table),
			zap.Int64("record_id", recordID),
			zap.Error(err))
	}
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"detail": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func parseIntParam(raw string, def, min, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return def, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("must be an integer")
	}
	if val < min || val > max {
		return 0, errors.New("out of range")
	}
	return val, nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid identifier")
	}
	return id, nil
}
