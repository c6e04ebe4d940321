package store_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/joestump/joe-tasks/internal/store"
	"github.com/joestump/joe-tasks/internal/testutil"
)

func newTaskStore(t *testing.T) *store.TaskStore {
	t.Helper()
	return store.NewTaskStore(testutil.NewTestDB(t))
}

func TestTaskStore_Create(t *testing.T) {
	ts := newTaskStore(t)

	task, err := ts.Create(context.Background(), "  Buy milk  ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.ID == "" {
		t.Error("expected non-empty ID")
	}
	if task.Title != "Buy milk" {
		t.Errorf("title = %q, want %q", task.Title, "Buy milk")
	}
	if task.Completed {
		t.Error("new task should not be completed")
	}
}

func TestTaskStore_Create_Validation(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	if _, err := ts.Create(ctx, "   "); !errors.Is(err, store.ErrTitleEmpty) {
		t.Errorf("Create(blank) = %v, want ErrTitleEmpty", err)
	}
	if _, err := ts.Create(ctx, strings.Repeat("x", store.MaxTitleLength+1)); !errors.Is(err, store.ErrTitleTooLong) {
		t.Errorf("Create(long) = %v, want ErrTitleTooLong", err)
	}
	if _, err := ts.Create(ctx, strings.Repeat("x", store.MaxTitleLength)); err != nil {
		t.Errorf("Create(max length) = %v, want nil", err)
	}
}

func TestTaskStore_GetByID_NotFound(t *testing.T) {
	ts := newTaskStore(t)

	_, err := ts.GetByID(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestTaskStore_ListAll_OldestFirst(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		if _, err := ts.Create(ctx, title); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
	}

	tasks, err := ts.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 3 {
		t.Fatalf("len(tasks) = %d, want 3", len(tasks))
	}
	if tasks[0].Title != "first" || tasks[2].Title != "third" {
		t.Errorf("order = [%s %s %s], want [first second third]", tasks[0].Title, tasks[1].Title, tasks[2].Title)
	}
}

func TestTaskStore_ListPage(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	for _, title := range []string{"a", "b", "c", "d", "e"} {
		if _, err := ts.Create(ctx, title); err != nil {
			t.Fatalf("Create(%q): %v", title, err)
		}
	}

	page, err := ts.ListPage(ctx, 2, 2)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
	if page[0].Title != "c" || page[1].Title != "d" {
		t.Errorf("page = [%s %s], want [c d]", page[0].Title, page[1].Title)
	}

	tail, err := ts.ListPage(ctx, 4, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	if len(tail) != 1 {
		t.Errorf("len(tail) = %d, want 1", len(tail))
	}
}

func TestTaskStore_Toggle(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	task, err := ts.Create(ctx, "flip me")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	on, err := ts.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if !on.Completed {
		t.Error("first toggle should complete the task")
	}

	off, err := ts.Toggle(ctx, task.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if off.Completed {
		t.Error("second toggle should reopen the task")
	}
}

func TestTaskStore_Toggle_NotFound(t *testing.T) {
	ts := newTaskStore(t)

	_, err := ts.Toggle(context.Background(), "nonexistent")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Toggle(nonexistent) = %v, want ErrNotFound", err)
	}
}

func TestTaskStore_Toggle_Concurrent(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	task, err := ts.Create(ctx, "busy")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// an even number of flips must land back on the starting state
	const flips = 10
	var wg sync.WaitGroup
	for range flips {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := ts.Toggle(ctx, task.ID); err != nil {
				t.Errorf("Toggle: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := ts.GetByID(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Completed {
		t.Error("completed = true after an even number of toggles")
	}
}

func TestTaskStore_Delete(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	task, err := ts.Create(ctx, "doomed")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := ts.Delete(ctx, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := ts.GetByID(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if err := ts.Delete(ctx, task.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestTaskStore_Count(t *testing.T) {
	ts := newTaskStore(t)
	ctx := context.Background()

	for _, title := range []string{"one", "two"} {
		if _, err := ts.Create(ctx, title); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	n, err := ts.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}
