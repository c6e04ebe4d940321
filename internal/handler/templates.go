package handler

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	log "github.com/go-pkgz/lgr"

	"github.com/joestump/joe-tasks/internal/build"
	"github.com/joestump/joe-tasks/internal/store"
	"github.com/joestump/joe-tasks/web"
)

// BasePage carries layout-level data available to every template.
type BasePage struct {
	User    *store.User // nil when auth is disabled or for anonymous pages
	Flash   *Flash
	Version string
}

func newBasePage(user *store.User, flash *Flash) BasePage {
	return BasePage{User: user, Flash: flash, Version: build.Version}
}

// pageCache maps a render key (e.g. "index.html") to a compiled template set
// containing base.html + partials + that one page file. Each page gets its own
// set so {{define "content"}} blocks don't collide.
var pageCache map[string]*template.Template

func init() {
	cache, err := buildPageCache(web.TemplateFS)
	if err != nil {
		panic("build page cache: " + err.Error())
	}
	pageCache = cache
}

func buildPageCache(fsys fs.FS) (map[string]*template.Template, error) {
	partials, err := fs.Glob(fsys, "templates/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob partials: %w", err)
	}

	cache := make(map[string]*template.Template)
	err = fs.WalkDir(fsys, "templates/pages", func(p string, d fs.DirEntry, e error) error {
		if e != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return e
		}

		files := make([]string, 0, 2+len(partials))
		files = append(files, "templates/base.html")
		files = append(files, partials...)
		files = append(files, p)

		t, err := template.New("").ParseFS(fsys, files...)
		if err != nil {
			return fmt.Errorf("parse %s: %w", p, err)
		}

		rel, _ := strings.CutPrefix(p, "templates/pages/")
		cache[rel] = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return cache, nil
}

// Flash represents a one-time notification message shown to the user.
type Flash struct {
	Type    string // "success", "danger", "info"
	Message string
}

// render executes a full-page template (base layout + named page).
func render(w http.ResponseWriter, tmpl string, data any) {
	t, ok := pageCache[tmpl]
	if !ok {
		http.Error(w, "template not found: "+tmpl, http.StatusInternalServerError)
		return
	}

	// a failing template must not leave half a page behind
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Printf("[WARN] render %s: %v", tmpl, err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		log.Printf("[WARN] write %s: %v", tmpl, err)
	}
}
