package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoapi.org/internal/todos"
)

// TodoRepo implements todos.Service.
type TodoRepo struct{ db *sql.DB }

var _ todos.Service = (*TodoRepo)(nil)

const todoColumns = `id, student_id, title, coalesce(description, ''), status, priority, due_date, created_at, updated_at`

func scanTodo(row interface{ Scan(...any) error }) (todos.Todo, error) {
	var (
		t   todos.Todo
		due sql.NullTime
	)
	err := row.Scan(&t.ID, &t.StudentID, &t.Title, &t.Description, &t.Status, &t.Priority, &due, &t.CreatedAt, &t.UpdatedAt)
	if due.Valid {
		d := due.Time
		t.DueDate = &d
	}
	return t, err
}

func (r *TodoRepo) List(ctx context.Context, f todos.Filter) ([]todos.Todo, error) {
	var (
		where []string
		args  []any
		idx   = 1
	)
	if f.StudentID != 0 {
		where = append(where, fmt.Sprintf("student_id = $%d", idx))
		args = append(args, f.StudentID)
		idx++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", idx))
		args = append(args, f.Status)
		idx++
	}
	if f.Priority != "" {
		where = append(where, fmt.Sprintf("priority = $%d", idx))
		args = append(args, f.Priority)
		idx++
	}
	query := `select ` + todoColumns + ` from todos`
	if len(where) > 0 {
		query += " where " + strings.Join(where, " and ")
	}
	query += " order by id"
	if f.Limit > 0 {
		query += fmt.Sprintf(" limit $%d", idx)
		args = append(args, f.Limit)
		idx++
	}
	if f.Skip > 0 {
		query += fmt.Sprintf(" offset $%d", idx)
		args = append(args, f.Skip)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []todos.Todo
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TodoRepo) Get(ctx context.Context, id int64) (todos.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx, `
		select `+todoColumns+` from todos where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return todos.Todo{}, todos.ErrNotFound
	}
	return t, err
}

func (r *TodoRepo) Create(ctx context.Context, in todos.CreateInput) (todos.Todo, error) {
	if err := todos.NormalizeCreate(&in); err != nil {
		return todos.Todo{}, err
	}
	var due sql.NullTime
	if in.DueDate != nil {
		due = sql.NullTime{Time: *in.DueDate, Valid: true}
	}
	t, err := scanTodo(r.db.QueryRowContext(ctx, `
		insert into todos(student_id, title, description, status, priority, due_date)
		values($1, $2, nullif($3, ''), $4, $5, $6)
		returning `+todoColumns,
		in.StudentID, in.Title, in.Description, todos.StatusPending, in.Priority, due))
	return t, err
}

func (r *TodoRepo) Update(ctx context.Context, id int64, upd todos.Update) (todos.Todo, error) {
	if err := todos.ValidateUpdate(upd); err != nil {
		return todos.Todo{}, err
	}
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.StudentID != nil {
		sets = append(sets, fmt.Sprintf("student_id = $%d", idx))
		args = append(args, *upd.StudentID)
		idx++
	}
	if upd.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", idx))
		args = append(args, *upd.Title)
		idx++
	}
	if upd.Description != nil {
		sets = append(sets, fmt.Sprintf("description = nullif($%d, '')", idx))
		args = append(args, *upd.Description)
		idx++
	}
	if upd.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", idx))
		args = append(args, *upd.Status)
		idx++
	}
	if upd.Priority != nil {
		sets = append(sets, fmt.Sprintf("priority = $%d", idx))
		args = append(args, *upd.Priority)
		idx++
	}
	if upd.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", idx))
		args = append(args, *upd.DueDate)
		idx++
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`update todos set %s where id = $%d returning `+todoColumns, strings.Join(sets, ", "), idx)

	t, err := scanTodo(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return todos.Todo{}, todos.ErrNotFound
	}
	return t, err
}

func (r *TodoRepo) Delete(ctx context.Context, id int64) (todos.Todo, error) {
	t, err := scanTodo(r.db.QueryRowContext(ctx, `
		delete from todos where id = $1
		returning `+todoColumns,
		id))
	if errors.Is(err, sql.ErrNoRows) {
		return todos.Todo{}, todos.ErrNotFound
	}
	return t, err
}

func (r *TodoRepo) Stats(ctx context.Context, now time.Time) (todos.Stats, error) {
	var st todos.Stats
	err := r.db.QueryRowContext(ctx, `
		select
			count(*),
			count(*) filter (where status = 'pending'),
			count(*) filter (where status = 'in_progress'),
			count(*) filter (where status = 'completed'),
			count(*) filter (where due_date is not null and due_date < $1),
			count(*) filter (where priority in ('high', 'critical'))
		from todos
	`, now).Scan(&st.Total, &st.Pending, &st.InProgress, &st.Completed, &st.Overdue, &st.HighPriority)
	return st, err
}
