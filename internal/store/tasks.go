package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Task represents a row in the tasks table.
type Task struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Completed bool      `db:"completed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TaskStore is the sqlx-backed implementation of TaskStoreIface.
type TaskStore struct {
	db *sqlx.DB
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db *sqlx.DB) *TaskStore {
	return &TaskStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *TaskStore) q(query string) string { return s.db.Rebind(query) }

// Create validates title and inserts a new, not yet completed task.
func (s *TaskStore) Create(ctx context.Context, title string) (*Task, error) {
	title, err := NormalizeTitle(title)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx, s.q(`
		INSERT INTO tasks (id, title, completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`), id, title, false, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID returns the task matching id, or ErrNotFound.
func (s *TaskStore) GetByID(ctx context.Context, id string) (*Task, error) {
	var t Task
	err := s.db.GetContext(ctx, &t, s.q(`SELECT * FROM tasks WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListAll returns every task, oldest first.
func (s *TaskStore) ListAll(ctx context.Context) ([]*Task, error) {
	var tasks []*Task
	err := s.db.SelectContext(ctx, &tasks, `SELECT * FROM tasks ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// ListPage returns up to limit tasks starting at offset, in ListAll order.
func (s *TaskStore) ListPage(ctx context.Context, offset, limit int) ([]*Task, error) {
	var tasks []*Task
	err := s.db.SelectContext(ctx, &tasks, s.q(`
		SELECT * FROM tasks ORDER BY created_at ASC, id ASC LIMIT ? OFFSET ?
	`), limit, offset)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Toggle flips the completed flag of the task and returns the updated record.
// The flip happens in a single UPDATE, so concurrent toggles never lose a write.
func (s *TaskStore) Toggle(ctx context.Context, id string) (*Task, error) {
	res, err := s.db.ExecContext(ctx, s.q(`
		UPDATE tasks SET completed = NOT completed, updated_at = ? WHERE id = ?
	`), time.Now().UTC(), id)
	if err != nil {
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// Delete removes the task, or returns ErrNotFound when nothing matched.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, s.q(`DELETE FROM tasks WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of tasks.
func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM tasks`)
	return n, err
}
