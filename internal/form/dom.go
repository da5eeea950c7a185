package form

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"golang.org/x/net/html"
)

// ErrTargetNotFound is returned when a swap names an element that is not in
// the document.
var ErrTargetNotFound = errors.New("target element not found")

// Event is delivered to listeners registered on an element.
type Event struct {
	Type string
	// Target is the node the event was dispatched to.
	Target *html.Node
	// CurrentTarget is the element whose listener is running.
	CurrentTarget *html.Node
}

// Listener handles an event. It runs while the document lock is held and
// must only touch nodes, never call back into Document methods.
type Listener func(ctx context.Context, ev Event)

type listenerKey struct {
	elementID string
	eventType string
	name      string
}

// Document is an HTML page guarded by a single lock. Every controller step
// and every swap runs as one critical section, the way a browser runs one
// task at a time on its event loop.
type Document struct {
	mu        sync.Mutex
	root      *html.Node
	listeners map[listenerKey]Listener
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	return &Document{
		root:      root,
		listeners: make(map[listenerKey]Listener),
	}, nil
}

// ParseString is Parse for in-memory markup.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Do runs fn with exclusive access to the document tree.
func (d *Document) Do(fn func(root *html.Node)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	fn(d.root)
}

// AddEventListener registers fn for eventType on the element with the given
// id. A listener registered again under the same name replaces the previous
// one, so rebinding never stacks handlers. Listeners are keyed by element id
// and survive replacement of the element itself.
func (d *Document) AddEventListener(elementID, eventType, name string, fn Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.listeners[listenerKey{elementID: elementID, eventType: eventType, name: name}] = fn
}

// ListenerCount returns how many listeners are registered for eventType on
// the element with the given id.
func (d *Document) ListenerCount(elementID, eventType string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for k := range d.listeners {
		if k.elementID == elementID && k.eventType == eventType {
			n++
		}
	}
	return n
}

// Dispatch delivers an event to target and then bubbles it up through its
// ancestors, invoking listeners registered on any element with an id.
func (d *Document) Dispatch(ctx context.Context, eventType string, target *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for n := target; n != nil; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		id, ok := attr(n, "id")
		if !ok || id == "" {
			continue
		}

		for _, fn := range d.listenersFor(id, eventType) {
			fn(ctx, Event{Type: eventType, Target: target, CurrentTarget: n})
		}
	}
}

func (d *Document) listenersFor(id, eventType string) []Listener {
	var names []string
	for k := range d.listeners {
		if k.elementID == id && k.eventType == eventType {
			names = append(names, k.name)
		}
	}
	sort.Strings(names)

	fns := make([]Listener, 0, len(names))
	for _, name := range names {
		fns = append(fns, d.listeners[listenerKey{elementID: id, eventType: eventType, name: name}])
	}
	return fns
}

// Swap replaces the element with the given id (outerHTML) or its children
// (innerHTML) with markup.
func (d *Document) Swap(id string, markup string, style SwapStyle) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := elementByID(d.root, id)
	if target == nil {
		return fmt.Errorf("%w: #%s", ErrTargetNotFound, id)
	}

	switch style {
	case SwapInnerHTML:
		nodes, err := html.ParseFragment(strings.NewReader(markup), target)
		if err != nil {
			return fmt.Errorf("failed to parse fragment for #%s: %w", id, err)
		}
		removeChildren(target)
		for _, n := range nodes {
			target.AppendChild(n)
		}

	default:
		parent := target.Parent
		if parent == nil {
			return fmt.Errorf("%w: #%s has no parent", ErrTargetNotFound, id)
		}
		nodes, err := html.ParseFragment(strings.NewReader(markup), parent)
		if err != nil {
			return fmt.Errorf("failed to parse fragment for #%s: %w", id, err)
		}
		for _, n := range nodes {
			parent.InsertBefore(n, target)
		}
		parent.RemoveChild(target)
	}

	return nil
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return html.Render(w, d.root)
}

// RenderElement writes the outer HTML of the element with the given id.
func (d *Document) RenderElement(w io.Writer, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := elementByID(d.root, id)
	if n == nil {
		return fmt.Errorf("%w: #%s", ErrTargetNotFound, id)
	}

	return html.Render(w, n)
}

// OuterHTML returns the markup of the element with the given id, or "" if
// it does not exist.
func (d *Document) OuterHTML(id string) string {
	var buf bytes.Buffer
	if err := d.RenderElement(&buf, id); err != nil {
		return ""
	}
	return buf.String()
}

// Text returns the text content of the element with the given id.
func (d *Document) Text(id string) (string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := elementByID(d.root, id)
	if n == nil {
		return "", false
	}
	return textContent(n), true
}

// Disabled reports whether the element with the given id carries the
// disabled attribute.
func (d *Document) Disabled(id string) (disabled, found bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := elementByID(d.root, id)
	if n == nil {
		return false, false
	}
	_, disabled = attr(n, "disabled")
	return disabled, true
}

// Node helpers. Callers hold the document lock.

func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

func elementByID(root *html.Node, id string) *html.Node {
	var found *html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

func elementsByTag(root *html.Node, tag string) []*html.Node {
	var nodes []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && n.Data == tag {
				nodes = append(nodes, n)
			}
			return true
		})
	}
	return nodes
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Key != key {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	v, _ := attr(n, "class")
	setAttr(n, "class", strings.TrimSpace(v+" "+class))
}

func removeClass(n *html.Node, class string) {
	v, ok := attr(n, "class")
	if !ok {
		return
	}
	var kept []string
	for _, c := range strings.Fields(v) {
		if c != class {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		removeAttr(n, "class")
		return
	}
	setAttr(n, "class", strings.Join(kept, " "))
}

func removeChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = n.FirstChild {
		n.RemoveChild(c)
	}
}

func setText(n *html.Node, text string) {
	removeChildren(n)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

func textContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
