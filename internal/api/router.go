package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/joestump/joe-tasks/internal/store"
)

// Deps holds all dependencies required to build the API router.
type Deps struct {
	// AuthMiddleware guards every route; nil leaves the API open.
	AuthMiddleware func(http.Handler) http.Handler
	TaskStore      store.TaskStoreIface
	// AllowedOrigins enables CORS for browser clients on other origins.
	AllowedOrigins []string
}

// NewAPIRouter creates a chi sub-router for /api/v1.
// All routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	r := chi.NewRouter()
	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           300,
		}).Handler)
	}
	r.Use(jsonContentType)
	if deps.AuthMiddleware != nil {
		r.Use(deps.AuthMiddleware)
	}

	registerTaskRoutes(r, deps.TaskStore)
	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
