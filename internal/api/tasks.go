package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/go-pkgz/lgr"

	"github.com/joestump/joe-tasks/internal/metrics"
	"github.com/joestump/joe-tasks/internal/store"
)

// tasksAPIHandler provides REST handlers for task management.
type tasksAPIHandler struct {
	tasks store.TaskStoreIface
}

// registerTaskRoutes registers task routes on r.
func registerTaskRoutes(r chi.Router, tasks store.TaskStoreIface) {
	h := &tasksAPIHandler{tasks: tasks}
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)
	r.Get("/tasks/{id}", h.Get)
	r.Post("/tasks/{id}/toggle", h.Toggle)
	r.Delete("/tasks/{id}", h.Delete)
}

// List returns one page of tasks, oldest first.
// GET /api/v1/tasks
//
// @Summary      List tasks
// @Description  Returns tasks oldest first. Pass next_cursor back as cursor for the following page.
// @Tags         Tasks
// @Produce      json
// @Param        limit   query     int     false  "Page size (default 50, max 200)"
// @Param        cursor  query     string  false  "Opaque cursor from a previous page"
// @Success      200     {object}  TaskListResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /tasks [get]
func (h *tasksAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit := parsePagination(r)
	offset, ok := decodeCursor(cursor)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid cursor", "BAD_REQUEST")
		return
	}

	// one extra row tells whether another page exists
	tasks, err := h.tasks.ListPage(r.Context(), offset, limit+1)
	if err != nil {
		log.Printf("[WARN] list tasks: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	resp := TaskListResponse{Tasks: make([]TaskResponse, 0, min(len(tasks), limit))}
	if len(tasks) > limit {
		next := encodeCursor(offset + limit)
		resp.NextCursor = &next
		tasks = tasks[:limit]
	}
	for _, t := range tasks {
		resp.Tasks = append(resp.Tasks, toTaskResponse(t))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create adds a new task.
// POST /api/v1/tasks
//
// @Summary      Create a task
// @Description  Creates an open task. The title is trimmed, required and at most 100 characters.
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        body  body      CreateTaskRequest  true  "Task to create"
// @Success      201   {object}  TaskResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /tasks [post]
func (h *tasksAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "BAD_REQUEST")
		return
	}

	task, err := h.tasks.Create(r.Context(), req.Title)
	switch {
	case errors.Is(err, store.ErrTitleEmpty), errors.Is(err, store.ErrTitleTooLong):
		writeError(w, http.StatusBadRequest, err.Error(), "INVALID_TITLE")
		return
	case err != nil:
		log.Printf("[WARN] create task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.TasksCreatedTotal.Inc()
	metrics.RefreshTasks(r.Context(), h.tasks)
	writeJSON(w, http.StatusCreated, toTaskResponse(task))
}

// Get returns a single task.
// GET /api/v1/tasks/{id}
//
// @Summary      Get a task
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  TaskResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id} [get]
func (h *tasksAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.GetByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found", "NOT_FOUND")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, toTaskResponse(task))
}

// Toggle flips a task's completed flag.
// POST /api/v1/tasks/{id}/toggle
//
// @Summary      Toggle a task
// @Description  Flips the completed flag and returns the updated task.
// @Tags         Tasks
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  ToggleResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id}/toggle [post]
func (h *tasksAPIHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	task, err := h.tasks.Toggle(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		metrics.TogglesTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		writeError(w, http.StatusNotFound, "task not found", "NOT_FOUND")
		return
	}
	if err != nil {
		metrics.TogglesTotal.WithLabelValues(metrics.ResultError).Inc()
		log.Printf("[WARN] toggle task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.TogglesTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	writeJSON(w, http.StatusOK, ToggleResponse{Status: "success", Task: toTaskResponse(task)})
}

// Delete removes a task.
// DELETE /api/v1/tasks/{id}
//
// @Summary      Delete a task
// @Tags         Tasks
// @Param        id   path  string  true  "Task ID"
// @Success      204
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /tasks/{id} [delete]
func (h *tasksAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.tasks.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("[WARN] delete task: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
		return
	}

	metrics.TasksDeletedTotal.Inc()
	metrics.RefreshTasks(r.Context(), h.tasks)
	w.WriteHeader(http.StatusNoContent)
}
