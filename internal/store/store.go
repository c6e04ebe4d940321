package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")
)

// TaskStoreIface exposes all task data operations.
// No handler MAY query the DB directly; all access goes through this interface.
type TaskStoreIface interface {
	Create(ctx context.Context, title string) (*Task, error)
	GetByID(ctx context.Context, id string) (*Task, error)
	ListAll(ctx context.Context) ([]*Task, error)
	ListPage(ctx context.Context, offset, limit int) ([]*Task, error)
	Toggle(ctx context.Context, id string) (*Task, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
