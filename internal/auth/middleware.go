package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/joe-tasks/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware provides HTTP middleware for authentication and authorization.
type Middleware struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager, us *store.UserStore) *Middleware {
	return &Middleware{sessions: sm, users: us}
}

// RequireAuth redirects to /auth/login if no valid session exists.
// On success, sets the *store.User on the request context.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.sessionUser(r)
		if !ok {
			http.Redirect(w, r, "/auth/login?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// RequireAPIAuth is RequireAuth for JSON clients: it answers 401 instead of redirecting.
func (m *Middleware) RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := m.sessionUser(r)
		if !ok {
			writeUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// sessionUser loads the user referenced by the session. A session pointing at
// a deleted user is destroyed.
func (m *Middleware) sessionUser(r *http.Request) (*store.User, bool) {
	userID := m.sessions.GetString(r.Context(), SessionUserIDKey)
	if userID == "" {
		return nil, false
	}
	user, err := m.users.GetByID(r.Context(), userID)
	if err != nil {
		_ = m.sessions.Destroy(r.Context())
		return nil, false
	}
	return user, true
}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *store.User) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}

// writeUnauthorized writes a 401 JSON response in the API error format.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized", "code": "UNAUTHORIZED"})
}
