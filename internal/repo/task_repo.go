package repo

import (
	"context"
	"time"

	dom "taskplanner/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskRepo provides task persistence. All reads and writes are scoped by the
// owning user; a missing or foreign row surfaces as pgx.ErrNoRows.
type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Task, error)
	List(ctx context.Context, userID int64) ([]dom.Task, error)
	// ListOpen returns the user's non-completed tasks ordered by
	// (start_date, id) ascending. The overlap check relies on that order to
	// report conflicts deterministically.
	ListOpen(ctx context.Context, userID int64) ([]dom.Task, error)
	Update(ctx context.Context, t dom.Task) (dom.Task, error)
	// Delete removes the row and reports whether anything was deleted.
	Delete(ctx context.Context, userID, id int64) (bool, error)
	Search(ctx context.Context, userID int64, start, end *time.Time) ([]dom.Task, error)
}

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

const taskColumns = `id, user_id, title, description, start_date, due_date, completed, created_at, updated_at`

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		INSERT INTO tasks (user_id, title, description, start_date, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns
	var out dom.Task
	err := r.db.QueryRow(ctx, query,
		t.UserID, t.Title, t.Description, t.StartDate, t.DueDate, t.Completed,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.StartDate,
		&out.DueDate, &out.Completed, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id int64) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&t.ID, &t.UserID, &t.Title, &t.Description, &t.StartDate,
		&t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

func (r *PGTaskRepo) List(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1
		ORDER BY start_date ASC, due_date ASC NULLS LAST, id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PGTaskRepo) ListOpen(ctx context.Context, userID int64) ([]dom.Task, error) {
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1 AND completed = FALSE
		ORDER BY start_date ASC, id ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func (r *PGTaskRepo) Update(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, start_date = $5, due_date = $6, completed = $7, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + taskColumns
	var out dom.Task
	err := r.db.QueryRow(ctx, query,
		t.ID, t.UserID, t.Title, t.Description, t.StartDate, t.DueDate, t.Completed,
	).Scan(
		&out.ID, &out.UserID, &out.Title, &out.Description, &out.StartDate,
		&out.DueDate, &out.Completed, &out.CreatedAt, &out.UpdatedAt,
	)
	return out, err
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id int64) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGTaskRepo) Search(ctx context.Context, userID int64, start, end *time.Time) ([]dom.Task, error) {
	// Both filters are optional and compose with AND. A null due date is
	// open-ended and always passes the end filter.
	query := `
		SELECT ` + taskColumns + ` FROM tasks
		WHERE user_id = $1
		  AND ($2::date IS NULL OR start_date >= $2)
		  AND ($3::date IS NULL OR due_date <= $3 OR due_date IS NULL)
		ORDER BY start_date ASC, due_date ASC NULLS LAST, id ASC`
	rows, err := r.db.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTasks(rows)
}

func scanTasks(rows pgx.Rows) ([]dom.Task, error) {
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &t.StartDate,
			&t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}
