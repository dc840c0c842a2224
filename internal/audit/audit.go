// Package audit implements the append-only trail of data-mutating
// actions. Writes are best-effort: a failed audit append never fails
// the mutation that triggered it.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Actions recorded against the trail.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Listing bounds.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

var ErrInvalidInput = errors.New("audit: invalid input")

// Entry is one immutable audit record.
type Entry struct {
	ID        int64           `json:"id"`
	TableName string          `json:"table_name"`
	RecordID  int64           `json:"record_id"`
	Action    string          `json:"action"`
	OldData   json.RawMessage `json:"old_data,omitempty"`
	NewData   json.RawMessage `json:"new_data,omitempty"`
	ChangedBy *int64          `json:"changed_by,omitempty"`
	IPAddress string          `json:"ip_address,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recorder appends and lists audit entries.
type Recorder interface {
	// Record appends a new entry, assigning ID and CreatedAt.
	Record(ctx context.Context, e *Entry) error

	// List returns entries newest-first, ordered by (created_at desc,
	// id desc) so pages partition the set without duplicates or gaps.
	// Also returns the total number of entries.
	List(ctx context.Context, limit, offset int) ([]Entry, int, error)
}

// ClampLimit normalizes a requested page size into [1, MaxLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Snapshot marshals a row state for the old_data/new_data columns.
// Marshal failure degrades to a missing snapshot rather than an error;
// the trail is best-effort by contract.
func Snapshot(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}
