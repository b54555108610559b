package query

import (
	"reflect"

	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
)

// Index returns the position of el among its parent's element children, or
// -1 when it has no parent.
func Index(el *dom.Element) int {
	if el == nil {
		return -1
	}
	return el.Index()
}

// Parents returns the ancestors of el, nearest first.
func Parents(el *dom.Element) []*dom.Element {
	if el == nil {
		return nil
	}
	return el.Parents()
}

// Is tests target against other. Elements match a selector string; windows,
// documents and everything else compare by identity.
func Is(target, other any) bool {
	if el, ok := target.(*dom.Element); ok && el != nil {
		if selector, ok := other.(string); ok {
			return css.Matches(el, selector)
		}
	}
	return sameTarget(target, other)
}

func sameTarget(a, b any) bool {
	a, b = nodeView(a), nodeView(b)
	if a == nil || b == nil {
		return false
	}
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

// nodeView maps a *dom.Node to its *dom.Element or *dom.Document view.
func nodeView(v any) any {
	if n, ok := v.(*dom.Node); ok && n != nil {
		return n.AsEventTarget()
	}
	return v
}
