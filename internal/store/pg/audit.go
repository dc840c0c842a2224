package pg

import (
	"context"
	"database/sql"

	"todoapi.org/internal/audit"
)

// AuditRepo implements audit.Recorder.
type AuditRepo struct{ db *sql.DB }

var _ audit.Recorder = (*AuditRepo)(nil)

func (r *AuditRepo) Record(ctx context.Context, e *audit.Entry) error {
	if e.TableName == "" || e.Action == "" {
		return audit.ErrInvalidInput
	}
	var oldJSON, newJSON any
	if len(e.OldData) > 0 {
		oldJSON = []byte(e.OldData)
	}
	if len(e.NewData) > 0 {
		newJSON = []byte(e.NewData)
	}
	return r.db.QueryRowContext(ctx, `
		insert into audit_log(table_name, record_id, action, old_data, new_data, changed_by, ip_address)
		values($1, $2, $3, $4, $5, $6, nullif($7, ''))
		returning id, created_at
	`, e.TableName, e.RecordID, e.Action, oldJSON, newJSON, e.ChangedBy, e.IPAddress).Scan(&e.ID, &e.CreatedAt)
}

func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]audit.Entry, int, error) {
	limit = audit.ClampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `select count(*) from audit_log`).Scan(&total); err != nil {
		return nil, 0, err
	}

	// (created_at desc, id desc) is a total order: ties on timestamp
	// cannot shuffle rows between pages.
	rows, err := r.db.QueryContext(ctx, `
		select id, table_name, record_id, action, old_data, new_data, changed_by, coalesce(ip_address, ''), created_at
		from audit_log
		order by created_at desc, id desc
		limit $1 offset $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []audit.Entry
	for rows.Next() {
		var (
			e         audit.Entry
			oldData   []byte
			newData   []byte
			changedBy sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.TableName, &e.RecordID, &e.Action, &oldData, &newData, &changedBy, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		if len(oldData) > 0 {
			e.OldData = oldData
		}
		if len(newData) > 0 {
			e.NewData = newData
		}
		if changedBy.Valid {
			v := changedBy.Int64
			e.ChangedBy = &v
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}
