package toggle

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taskSite serves a tiny task list page and its toggle endpoint.
type taskSite struct {
	mu    sync.Mutex
	done  map[string]bool
	order []string
}

func newTaskSite(ids ...string) *taskSite {
	return &taskSite{done: map[string]bool{}, order: ids}
}

func (s *taskSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/":
		var sb strings.Builder
		sb.WriteString(`<!doctype html><html><body><ul>`)
		for _, id := range s.order {
			state := "open"
			if s.done[id] {
				state = "done"
			}
			fmt.Fprintf(&sb, `<li><span class="state" data-task="%s">%s</span>`, id, state)
			fmt.Fprintf(&sb, `<button class="btn toggle" data-id="%s">Toggle</button>`, id)
			fmt.Fprintf(&sb, `<button class="toggler" data-id="x%s">Nope</button></li>`, id)
		}
		sb.WriteString(`</ul></body></html>`)
		_, _ = io.WriteString(w, sb.String())
	case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/toggle/"):
		id := strings.TrimPrefix(r.URL.Path, "/toggle/")
		if !slices.Contains(s.order, id) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"error":"task not found"}`)
			return
		}
		s.done[id] = !s.done[id]
		_, _ = fmt.Fprintf(w, `{"status":"success","completed":%t}`, s.done[id])
	default:
		http.NotFound(w, r)
	}
}

func newSitePage(t *testing.T, site http.Handler) (*Page, *Controller) {
	t.Helper()
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)

	page := NewPage(srv.URL+"/", srv.Client())
	ctrl := New(srv.URL, page, WithClient(srv.Client()))
	ctrl.Attach(page)
	return page, ctrl
}

func TestPage_QueryAllMatchesClassTokens(t *testing.T) {
	page, _ := newSitePage(t, newTaskSite("1", "2"))
	require.NoError(t, page.Load(context.Background()))

	els := page.QueryAll("toggle")
	require.Len(t, els, 2)
	assert.Equal(t, "1", els[0].Data("id"))
	assert.Equal(t, "2", els[1].Data("id"))
	assert.Empty(t, page.QueryAll("missing"))
}

func TestPage_ClickTogglesAndReloads(t *testing.T) {
	page, ctrl := newSitePage(t, newTaskSite("1", "2"))
	require.NoError(t, page.Load(context.Background()))
	assert.Equal(t, 1, page.Loads())
	assert.Equal(t, "open", page.Find("task", "1").Text())

	btn := page.Find("id", "1")
	require.NotNil(t, btn)
	btn.Click()
	ctrl.Wait()

	assert.Equal(t, 2, page.Loads())
	assert.Equal(t, "done", page.Find("task", "1").Text())
	assert.Equal(t, "open", page.Find("task", "2").Text())

	// the reloaded tree is bound again
	page.Find("id", "1").Click()
	ctrl.Wait()
	assert.Equal(t, 3, page.Loads())
	assert.Equal(t, "open", page.Find("task", "1").Text())
}

func TestPage_UnknownTaskDoesNotReload(t *testing.T) {
	page, ctrl := newSitePage(t, newTaskSite("1"))
	require.NoError(t, page.Load(context.Background()))

	btn := page.Find("id", "1")
	require.NotNil(t, btn)
	btn.SetData("id", "999")
	btn.Click()
	ctrl.Wait()

	assert.Equal(t, 1, page.Loads())
}

func TestPage_SetDataWhileQuerying(t *testing.T) {
	page, _ := newSitePage(t, newTaskSite("1", "2"))
	require.NoError(t, page.Load(context.Background()))
	btn := page.Find("id", "2")
	require.NotNil(t, btn)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 100 {
			btn.SetData("id", fmt.Sprintf("2-%d", i))
		}
	}()
	go func() {
		defer wg.Done()
		for range 100 {
			_ = page.QueryAll("toggle")
			_ = page.Find("id", "1")
		}
	}()
	wg.Wait()

	assert.Equal(t, "2-99", btn.Data("id"))
	assert.Same(t, btn, page.Find("id", "2-99"))
	assert.Len(t, page.QueryAll("toggle"), 2)
}

func TestPage_NonToggleElementsAreNotBound(t *testing.T) {
	page, ctrl := newSitePage(t, newTaskSite("1"))
	require.NoError(t, page.Load(context.Background()))

	page.Find("id", "x1").Click()
	ctrl.Wait()
	assert.Equal(t, 1, page.Loads())
}

func TestPage_LoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	page := NewPage(srv.URL, srv.Client())
	fired := false
	page.OnReady(func() { fired = true })

	err := page.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
	assert.False(t, fired)
	assert.Zero(t, page.Loads())
	assert.Nil(t, page.Find("id", "1"))
	assert.Empty(t, page.QueryAll("toggle"))
}

func TestPage_ReloadFailureKeepsTree(t *testing.T) {
	site := newTaskSite("1")
	srv := httptest.NewServer(site)
	page := NewPage(srv.URL+"/", srv.Client())
	require.NoError(t, page.Load(context.Background()))
	srv.Close()

	page.Reload()
	assert.Equal(t, 1, page.Loads())
	assert.NotNil(t, page.Find("id", "1"))
}
