package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-pkgz/rest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/joestump/joe-tasks/docs/swagger"
	"github.com/joestump/joe-tasks/internal/api"
	"github.com/joestump/joe-tasks/internal/auth"
	"github.com/joestump/joe-tasks/internal/build"
	"github.com/joestump/joe-tasks/internal/store"
	"github.com/joestump/joe-tasks/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthHandlers   *auth.Handlers   // nil disables login
	AuthMiddleware *auth.Middleware // nil disables login
	TaskStore      store.TaskStoreIface
	AllowedOrigins []string // CORS origins for /api/v1
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(rest.AppInfo("joe-tasks", "joestump", build.Version))
	r.Use(rest.Ping)
	r.Use(deps.SessionManager.LoadAndSave)

	// fs.Sub so the file server sees css/app.css, not static/css/app.css
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))
	r.Handle("/metrics", promhttp.Handler())

	authEnabled := deps.AuthHandlers != nil && deps.AuthMiddleware != nil
	if authEnabled {
		r.Get("/auth/login", deps.AuthHandlers.Login)
		r.Get("/auth/callback", deps.AuthHandlers.Callback)
		r.Post("/auth/logout", deps.AuthHandlers.Logout)
	}

	tasks := NewTasksHandler(deps.TaskStore, deps.SessionManager)
	r.Group(func(r chi.Router) {
		if authEnabled {
			r.Use(deps.AuthMiddleware.RequireAuth)
		}
		r.Get("/", tasks.Index)
		r.Post("/add", tasks.Add)
		r.Post("/toggle/{id}", tasks.Toggle)
		r.Post("/delete/{id}", tasks.Delete)
	})

	r.Get("/api/docs/*", httpSwagger.WrapHandler)

	apiDeps := api.Deps{TaskStore: deps.TaskStore, AllowedOrigins: deps.AllowedOrigins}
	if authEnabled {
		apiDeps.AuthMiddleware = deps.AuthMiddleware.RequireAPIAuth
	}
	r.Mount("/api/v1", api.NewAPIRouter(apiDeps))

	return r
}
