package toggle

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// Page is a headless Document and Reloader over a server-rendered HTML page.
// Load fetches and parses the page and then fires the ready hooks, the way a
// browser fires DOMContentLoaded before subresources arrive. Reload repeats
// that: listeners bound to the old tree are dropped along with it.
type Page struct {
	url    string
	client Doer

	mu    sync.Mutex
	root  *html.Node
	nodes map[*html.Node]*Node
	ready []func()
	loads int
}

// NewPage returns an unloaded Page for pageURL.
func NewPage(pageURL string, client Doer) *Page {
	if client == nil {
		client = http.DefaultClient
	}
	return &Page{url: pageURL, client: client}
}

// OnReady registers fn to run after every successful load.
func (p *Page) OnReady(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = append(p.ready, fn)
}

// QueryAll returns the elements of the current tree whose class list contains class.
func (p *Page) QueryAll(class string) []Element {
	p.mu.Lock()
	defer p.mu.Unlock()

	var res []Element
	p.walk(func(n *html.Node) bool {
		if slices.Contains(strings.Fields(attr(n, "class")), class) {
			res = append(res, p.wrap(n))
		}
		return true
	})
	return res
}

// Find returns the first element whose data-key attribute equals value, or nil.
func (p *Page) Find(key, value string) *Node {
	p.mu.Lock()
	defer p.mu.Unlock()

	var found *Node
	p.walk(func(n *html.Node) bool {
		if v, ok := lookupAttr(n, "data-"+key); ok && v == value {
			found = p.wrap(n)
			return false
		}
		return true
	})
	return found
}

// Loads reports how many times the page has been loaded successfully.
func (p *Page) Loads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loads
}

// Load fetches and parses the page, then runs the ready hooks.
func (p *Page) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, http.NoBody)
	if err != nil {
		return fmt.Errorf("build page request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch page: unexpected status %d", resp.StatusCode)
	}
	root, err := html.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("parse page: %w", err)
	}

	p.mu.Lock()
	p.root = root
	p.nodes = make(map[*html.Node]*Node)
	p.loads++
	hooks := slices.Clone(p.ready)
	p.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	return nil
}

// Reload loads the page again. A failed reload leaves the current tree in place.
func (p *Page) Reload() {
	_ = p.Load(context.Background())
}

// walk visits element nodes depth-first until fn returns false. Caller holds p.mu.
func (p *Page) walk(fn func(*html.Node) bool) {
	if p.root == nil {
		return
	}
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && !fn(n) {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	visit(p.root)
}

// wrap returns the one Node wrapper for n in the current tree. Caller holds p.mu.
func (p *Page) wrap(n *html.Node) *Node {
	if w, ok := p.nodes[n]; ok {
		return w
	}
	w := &Node{node: n, tree: &p.mu}
	p.nodes[n] = w
	return w
}

// Node is an element of a Page.
// Attributes and text belong to the page tree and are guarded by the page's
// lock. The node's own lock covers its listeners only.
type Node struct {
	tree *sync.Mutex
	node *html.Node

	mu        sync.Mutex
	listeners []func()
}

// Data returns the data-key attribute, or "" when absent.
func (n *Node) Data(key string) string {
	n.tree.Lock()
	defer n.tree.Unlock()
	return attr(n.node, "data-"+key)
}

// SetData sets the data-key attribute.
func (n *Node) SetData(key, value string) {
	n.tree.Lock()
	defer n.tree.Unlock()
	name := "data-" + key
	for i := range n.node.Attr {
		if n.node.Attr[i].Key == name {
			n.node.Attr[i].Val = value
			return
		}
	}
	n.node.Attr = append(n.node.Attr, html.Attribute{Key: name, Val: value})
}

// Text returns the concatenated text content of the element.
func (n *Node) Text() string {
	n.tree.Lock()
	defer n.tree.Unlock()
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(h *html.Node) {
		if h.Type == html.TextNode {
			sb.WriteString(h.Data)
		}
		for c := h.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n.node)
	return strings.TrimSpace(sb.String())
}

// OnClick registers fn as a click listener.
func (n *Node) OnClick(fn func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, fn)
}

// Click dispatches a click to every registered listener, in registration order.
func (n *Node) Click() {
	n.mu.Lock()
	listeners := slices.Clone(n.listeners)
	n.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
