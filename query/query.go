// Package query provides the DOM sugar that sits next to on/off: selector
// lookup, element lists with fan-out binding, and small manipulation and
// traversal helpers.
package query

import (
	"go.uber.org/zap"

	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/events"
)

// Query binds the helpers to an events.Binder.
type Query struct {
	binder          *events.Binder
	releaseOnRemove bool
	logger          *zap.Logger
}

// Option configures a Query.
type Option func(*Query)

// WithReleaseOnRemove makes Remove release the registries of the removed
// subtree.
func WithReleaseOnRemove(release bool) Option {
	return func(q *Query) { q.releaseOnRemove = release }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(q *Query) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New creates a Query over binder.
func New(binder *events.Binder, opts ...Option) *Query {
	q := &Query{binder: binder, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(q)
	}
	q.logger = q.logger.Named("query")
	return q
}

// Binder returns the binder used by On and Off.
func (q *Query) Binder() *events.Binder { return q.binder }

// Wrap returns the on/off surface of a single target.
func (q *Query) Wrap(t events.Target) *events.Wrapper { return q.binder.Wrap(t) }

// Find returns the descendants of root matching selector, in tree order.
// root is a *dom.Document, *dom.Element or *dom.Node. An invalid selector
// yields an empty list.
func (q *Query) Find(root any, selector string) *List {
	n := rootNode(root)
	if n == nil {
		return q.List()
	}
	found, err := css.QuerySelectorAll(n, selector)
	if err != nil {
		q.logger.Debug("find failed", zap.String("selector", selector), zap.Error(err))
		return q.List()
	}
	return q.List(found...)
}

// List wraps elements in a List.
func (q *Query) List(elements ...*dom.Element) *List {
	var els []*dom.Element
	for _, el := range elements {
		if el != nil {
			els = append(els, el)
		}
	}
	return &List{q: q, elements: els}
}

// AppendTo appends el to dest. dest is an element, a non-empty List, or a
// selector resolved against el's document. Unresolvable destinations are
// ignored.
func (q *Query) AppendTo(el *dom.Element, dest any) *dom.Element {
	parent := q.resolve(el, dest)
	if el == nil || parent == nil {
		return el
	}
	if _, err := parent.AsNode().AppendChildWithError(el.AsNode()); err != nil {
		q.logger.Debug("appendTo rejected", zap.Error(err))
	}
	return el
}

// InsertAfter inserts el right after dest. Nothing happens when dest is the
// last child of its parent.
func (q *Query) InsertAfter(el *dom.Element, dest any) *dom.Element {
	ref := q.resolve(el, dest)
	if el == nil || ref == nil {
		return el
	}
	next := ref.AsNode().NextSibling()
	parent := ref.AsNode().ParentNode()
	if next == nil || parent == nil {
		return el
	}
	if _, err := parent.InsertBeforeWithError(el.AsNode(), next); err != nil {
		q.logger.Debug("insertAfter rejected", zap.Error(err))
	}
	return el
}

// Remove detaches el from its parent. With WithReleaseOnRemove the
// registries of el and its descendants are released as well.
func (q *Query) Remove(el *dom.Element) {
	if el == nil {
		return
	}
	el.Remove()
	if !q.releaseOnRemove {
		return
	}
	q.binder.Release(el)
	for _, n := range el.AsNode().Descendants() {
		q.binder.Release(n)
	}
}

// Ready runs cb once the document is interactive: immediately when it
// already is, otherwise on DOMContentLoaded. On a legacy backend it waits
// for readystatechange to reach "complete" instead.
func (q *Query) Ready(doc *dom.Document, cb func()) {
	if doc == nil || cb == nil {
		return
	}
	if state := doc.ReadyState(); state == dom.ReadyStateInteractive || state == dom.ReadyStateComplete {
		cb()
		return
	}
	if q.binder.Backend().Name() == string(events.ModeLegacy) {
		w := q.binder.Wrap(doc)
		var l *dom.FuncListener
		l = dom.NewEventListener(func(dom.EventTarget, *dom.Event) any {
			if doc.ReadyState() == dom.ReadyStateComplete {
				w.UnbindHandler("readystatechange", l)
				cb()
			}
			return nil
		})
		w.Bind("readystatechange", l)
		return
	}
	q.binder.Wrap(doc).Bind("DOMContentLoaded", callback(cb), events.Options{Once: true})
}

// Load runs cb once the window's document is complete: immediately when it
// already is, otherwise on the window load event.
func (q *Query) Load(win *dom.Window, cb func()) {
	if win == nil || cb == nil {
		return
	}
	if doc := win.Document(); doc != nil && doc.ReadyState() == dom.ReadyStateComplete {
		cb()
		return
	}
	q.binder.Wrap(win).Bind("load", callback(cb), events.Options{Once: true})
}

func callback(cb func()) *dom.FuncListener {
	return dom.NewEventListener(func(dom.EventTarget, *dom.Event) any {
		cb()
		return nil
	})
}

// resolve turns an appendTo/insertAfter destination into an element.
func (q *Query) resolve(el *dom.Element, dest any) *dom.Element {
	switch d := dest.(type) {
	case *dom.Element:
		return d
	case *List:
		return d.Item(0)
	case string:
		if el == nil {
			return nil
		}
		doc := el.AsNode().OwnerDocument()
		if doc == nil {
			return nil
		}
		return q.Find(doc, d).Item(0)
	}
	return nil
}

func rootNode(root any) *dom.Node {
	switch r := root.(type) {
	case *dom.Document:
		if r != nil {
			return r.AsNode()
		}
	case *dom.Element:
		if r != nil {
			return r.AsNode()
		}
	case *dom.Node:
		return r
	}
	return nil
}
