package api_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/joestump/joe-tasks/internal/api"
	"github.com/joestump/joe-tasks/internal/auth"
	"github.com/joestump/joe-tasks/internal/store"
	"github.com/joestump/joe-tasks/internal/testutil"
)

// testEnv holds the stores and router needed for API integration tests.
type testEnv struct {
	Router    http.Handler
	TaskStore *store.TaskStore
	UserStore *store.UserStore
	Sessions  *scs.SessionManager
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the API router with real stores. With requireAuth the router
// is guarded by the session middleware, as it is when OIDC is configured.
func newTestEnv(t *testing.T, requireAuth bool) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	ts := store.NewTaskStore(db)
	us := store.NewUserStore(db)
	sm := scs.New()

	deps := api.Deps{TaskStore: ts}
	if requireAuth {
		deps.AuthMiddleware = auth.NewMiddleware(sm, us).RequireAPIAuth
	}

	return &testEnv{
		Router:    sm.LoadAndSave(api.NewAPIRouter(deps)),
		TaskStore: ts,
		UserStore: us,
		Sessions:  sm,
	}
}

// seedTask creates a task and returns it.
func seedTask(t *testing.T, env *testEnv, title string) *store.Task {
	t.Helper()
	task, err := env.TaskStore.Create(context.Background(), title)
	if err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

// loginCookie creates a user and a session for it, returning the session cookie.
func loginCookie(t *testing.T, env *testEnv, email string) *http.Cookie {
	t.Helper()
	ctx := context.Background()
	u, err := env.UserStore.Upsert(ctx, "test", "sub-"+email, email, "Test User", "")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	ctx, err = env.Sessions.Load(ctx, "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	env.Sessions.Put(ctx, auth.SessionUserIDKey, u.ID)
	token, _, err := env.Sessions.Commit(ctx)
	if err != nil {
		t.Fatalf("commit session: %v", err)
	}
	return &http.Cookie{Name: env.Sessions.Cookie.Name, Value: token}
}
