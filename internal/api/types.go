package api

import (
	"time"

	"github.com/joestump/joe-tasks/internal/store"
)

// CreateTaskRequest is the request body for POST /api/v1/tasks.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// TaskResponse is the JSON representation of a single task.
type TaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TaskListResponse is the paginated response for GET /api/v1/tasks.
type TaskListResponse struct {
	Tasks      []TaskResponse `json:"tasks"`
	NextCursor *string        `json:"next_cursor"`
}

// ToggleResponse is returned by POST /api/v1/tasks/{id}/toggle. Status is
// always "success", mirroring the web toggle endpoint.
type ToggleResponse struct {
	Status string       `json:"status"`
	Task   TaskResponse `json:"task"`
}

func toTaskResponse(t *store.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
