package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"todoapi.org/internal/students"
)

// StudentRepo implements students.Service.
type StudentRepo struct{ db *sql.DB }

var _ students.Service = (*StudentRepo)(nil)

const studentColumns = `id, user_id, student_name, email, coalesce(phone, ''), created_at, updated_at`

func scanStudent(row interface{ Scan(...any) error }) (students.Student, error) {
	var st students.Student
	err := row.Scan(&st.ID, &st.UserID, &st.Name, &st.Email, &st.Phone, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func (r *StudentRepo) List(ctx context.Context) ([]students.Student, error) {
	rows, err := r.db.QueryContext(ctx, `
		select `+studentColumns+` from students order by id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []students.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (r *StudentRepo) Get(ctx context.Context, id int64) (students.Student, error) {
	st, err := scanStudent(r.db.QueryRowContext(ctx, `
		select `+studentColumns+` from students where id = $1
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return students.Student{}, students.ErrNotFound
	}
	return st, err
}

func (r *StudentRepo) Create(ctx context.Context, in students.CreateInput) (students.Student, error) {
	st, err := scanStudent(r.db.QueryRowContext(ctx, `
		insert into students(user_id, student_name, email, phone)
		values($1, $2, $3, nullif($4, ''))
		returning `+studentColumns+`
	`, in.UserID, in.Name, in.Email, in.Phone))
	return st, err
}

func (r *StudentRepo) Update(ctx context.Context, id int64, upd students.Update) (students.Student, error) {
	var (
		sets []string
		args []any
		idx  = 1
	)
	if upd.Name != nil {
		sets = append(sets, fmt.Sprintf("student_name = $%d", idx))
		args = append(args, *upd.Name)
		idx++
	}
	if upd.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", idx))
		args = append(args, *upd.Email)
		idx++
	}
	if upd.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = nullif($%d, '')", idx))
		args = append(args, *upd.Phone)
		idx++
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}
	sets = append(sets, "updated_at = now()")
	args = append(args, id)
	query := fmt.Sprintf(`update students set %s where id = $%d returning `+studentColumns, strings.Join(sets, ", "), idx)

	st, err := scanStudent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return students.Student{}, students.ErrNotFound
	}
	return st, err
}

func (r *StudentRepo) Delete(ctx context.Context, id int64) (students.Student, error) {
	st, err := scanStudent(r.db.QueryRowContext(ctx, `
		delete from students where id = $1
		returning `+studentColumns,
		id))
	if errors.Is(err, sql.ErrNoRows) {
		return students.Student{}, students.ErrNotFound
	}
	return st, err
}
