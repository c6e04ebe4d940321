package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	log "github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"

	"github.com/joestump/joe-tasks/internal/auth"
	"github.com/joestump/joe-tasks/internal/metrics"
	"github.com/joestump/joe-tasks/internal/store"
)

// IndexPage is the template data for the task list.
type IndexPage struct {
	BasePage
	Tasks    []*store.Task
	MaxTitle int
}

// TasksHandler serves the task list and its form and toggle endpoints.
type TasksHandler struct {
	tasks    store.TaskStoreIface
	sessions *scs.SessionManager
}

// NewTasksHandler creates a new TasksHandler.
func NewTasksHandler(ts store.TaskStoreIface, sm *scs.SessionManager) *TasksHandler {
	return &TasksHandler{tasks: ts, sessions: sm}
}

// Index renders every task along with the add form and any pending flash.
func (h *TasksHandler) Index(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.ListAll(r.Context())
	if err != nil {
		log.Printf("[WARN] list tasks: %v", err)
		http.Error(w, "could not load tasks", http.StatusInternalServerError)
		return
	}

	user := auth.UserFromContext(r.Context())
	render(w, "index.html", IndexPage{
		BasePage: newBasePage(user, popFlash(r.Context(), h.sessions)),
		Tasks:    tasks,
		MaxTitle: store.MaxTitleLength,
	})
}

// Add processes the add-task form and redirects back to the list.
func (h *TasksHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	task, err := h.tasks.Create(r.Context(), r.PostFormValue("title"))
	switch {
	case errors.Is(err, store.ErrTitleEmpty), errors.Is(err, store.ErrTitleTooLong):
		putFlash(r.Context(), h.sessions, "danger", "Error adding task!")
	case err != nil:
		log.Printf("[WARN] create task: %v", err)
		putFlash(r.Context(), h.sessions, "danger", "Error adding task!")
	default:
		log.Printf("[DEBUG] created task %s", task.ID)
		metrics.TasksCreatedTotal.Inc()
		metrics.RefreshTasks(r.Context(), h.tasks)
		putFlash(r.Context(), h.sessions, "success", "Task added successfully!")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Toggle flips a task's completed flag and answers with
// {"status":"success","completed":<bool>}. Unknown ids get a 404 error body
// without a status field.
func (h *TasksHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() { metrics.ToggleDuration.Observe(time.Since(start).Seconds()) }()

	id := chi.URLParam(r, "id")
	task, err := h.tasks.Toggle(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		metrics.TogglesTotal.WithLabelValues(metrics.ResultNotFound).Inc()
		rest.SendErrorJSON(w, r, log.Default(), http.StatusNotFound, err, "task not found")
		return
	}
	if err != nil {
		metrics.TogglesTotal.WithLabelValues(metrics.ResultError).Inc()
		rest.SendErrorJSON(w, r, log.Default(), http.StatusInternalServerError, err, "failed to toggle task")
		return
	}

	log.Printf("[DEBUG] toggled task %s, completed=%t", task.ID, task.Completed)
	metrics.TogglesTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	rest.RenderJSON(w, rest.JSON{"status": "success", "completed": task.Completed})
}

// Delete removes a task and redirects back to the list.
func (h *TasksHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := h.tasks.Delete(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("[WARN] delete task %s: %v", id, err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}

	metrics.TasksDeletedTotal.Inc()
	metrics.RefreshTasks(r.Context(), h.tasks)
	putFlash(r.Context(), h.sessions, "info", "Task deleted successfully!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
