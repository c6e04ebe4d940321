// Package toggle binds task toggle controls to the /toggle/{id} endpoint.
//
// A Controller is attached to a Document once at startup. When the document
// reports ready it snapshots every element carrying the toggle class and binds
// one click listener to each. A click reads the element's task id, posts it to
// the server in the background and reloads the view when the server answers
// {"status":"success"}. Every other outcome is dropped without a trace.
package toggle

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

const (
	// DefaultClass marks elements the controller binds to.
	DefaultClass = "toggle"
	// DefaultDataKey names the data attribute holding the task id.
	DefaultDataKey = "id"
	// StatusSuccess is the only status value that triggers a reload.
	StatusSuccess = "success"
)

// Element is a toggle control in a Document.
type Element interface {
	// Data returns the value of the data attribute named key ("id" reads data-id).
	Data(key string) string
	// OnClick registers fn to run each time the element is activated.
	OnClick(fn func())
}

// Document is the view hosting toggle controls.
type Document interface {
	// OnReady registers fn to run once the document structure is parsed.
	OnReady(fn func())
	// QueryAll returns the elements carrying class at call time.
	QueryAll(class string) []Element
}

// Reloader performs a full reload of the current view.
type Reloader interface {
	Reload()
}

// Doer sends HTTP requests, *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Result is the toggle endpoint's response body. Only Status is consumed.
type Result struct {
	Status string `json:"status"`
}

// OK reports whether the server confirmed the toggle.
func (r Result) OK() bool { return r.Status == StatusSuccess }

// Option customizes a Controller.
type Option func(*Controller)

// WithClient sets the HTTP client used for toggle requests.
func WithClient(d Doer) Option {
	return func(c *Controller) { c.client = d }
}

// WithClass changes the class selecting toggle elements.
func WithClass(class string) Option {
	return func(c *Controller) { c.class = class }
}

// WithDataKey changes the data attribute holding the task id.
func WithDataKey(key string) Option {
	return func(c *Controller) { c.dataKey = key }
}

// Controller wires toggle elements to the server's toggle endpoint.
type Controller struct {
	baseURL  string
	reloader Reloader
	client   Doer
	class    string
	dataKey  string

	inflight sync.WaitGroup
}

// New makes a Controller posting to baseURL + "/toggle/{id}" and calling
// reloader after each confirmed toggle. No request timeout is applied unless
// the supplied client carries one.
func New(baseURL string, reloader Reloader, opts ...Option) *Controller {
	c := &Controller{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		reloader: reloader,
		client:   http.DefaultClient,
		class:    DefaultClass,
		dataKey:  DefaultDataKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Attach registers the controller with doc. Binding happens when doc fires
// its ready hook, and covers only the elements present at that moment.
func (c *Controller) Attach(doc Document) {
	doc.OnReady(func() { c.bind(doc) })
}

func (c *Controller) bind(doc Document) {
	for _, el := range doc.QueryAll(c.class) {
		el.OnClick(func() { c.click(el) })
	}
}

// click fires one background request. The id is read at click time so an
// element whose data changed since binding posts its current id.
func (c *Controller) click(el Element) {
	id := el.Data(c.dataKey)
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		res, err := c.Toggle(context.Background(), id)
		if err != nil || !res.OK() {
			return
		}
		c.reloader.Reload()
	}()
}

// Wait blocks until every request started by a click has been handled.
func (c *Controller) Wait() {
	c.inflight.Wait()
}

// Toggle posts an empty request to /toggle/{id} and decodes the reply.
// The HTTP status code is not inspected: a body without status "success"
// is simply not OK.
func (c *Controller) Toggle(ctx context.Context, id string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/toggle/"+id, http.NoBody)
	if err != nil {
		return Result{}, fmt.Errorf("build toggle request for %q: %w", id, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("toggle %q: %w", id, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read toggle response for %q: %w", id, err)
	}

	// the whole body must be a single JSON value, trailing data is a parse failure
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("decode toggle response for %q: %w", id, err)
	}
	return res, nil
}
