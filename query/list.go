package query

import (
	"github.com/chrisuehlinger/domsugar/dom"
)

// List is an ordered set of elements. Binding methods fan out to every
// element; manipulation methods act on the first one.
type List struct {
	q        *Query
	elements []*dom.Element
}

// Len returns the number of elements.
func (l *List) Len() int { return len(l.elements) }

// Item returns the i-th element, or nil when out of range.
func (l *List) Item(i int) *dom.Element {
	if i < 0 || i >= len(l.elements) {
		return nil
	}
	return l.elements[i]
}

// Elements returns a copy of the elements.
func (l *List) Elements() []*dom.Element {
	out := make([]*dom.Element, len(l.elements))
	copy(out, l.elements)
	return out
}

// Index is 0 for a non-empty list and -1 otherwise.
func (l *List) Index() int {
	if len(l.elements) == 0 {
		return -1
	}
	return 0
}

// Find returns the descendants of every element that match selector,
// without duplicates, in the order they are found. Like document.find, it
// returns the matches themselves; Has keeps the list elements instead.
func (l *List) Find(selector string) *List {
	seen := make(map[*dom.Element]bool)
	var out []*dom.Element
	for _, el := range l.elements {
		for _, found := range l.q.Find(el, selector).elements {
			if !seen[found] {
				seen[found] = true
				out = append(out, found)
			}
		}
	}
	return l.q.List(out...)
}

// Has returns the elements of l that have at least one descendant matching
// selector, in list order.
func (l *List) Has(selector string) *List {
	var out []*dom.Element
	for _, el := range l.elements {
		if l.q.Find(el, selector).Len() > 0 {
			out = append(out, el)
		}
	}
	return l.q.List(out...)
}

// Is reports whether any element matches selector.
func (l *List) Is(selector string) bool {
	for _, el := range l.elements {
		if Is(el, selector) {
			return true
		}
	}
	return false
}

// On binds on every element. See events.Wrapper.On for the shapes.
func (l *List) On(args ...any) *List {
	for _, el := range l.elements {
		l.q.binder.Wrap(el).On(args...)
	}
	return l
}

// Off unbinds on every element. See events.Wrapper.Off for the shapes.
func (l *List) Off(args ...any) *List {
	for _, el := range l.elements {
		l.q.binder.Wrap(el).Off(args...)
	}
	return l
}

// Remove removes every element, last first.
func (l *List) Remove() {
	for i := len(l.elements) - 1; i >= 0; i-- {
		l.q.Remove(l.elements[i])
	}
}

// AppendTo appends the first element to dest.
func (l *List) AppendTo(dest any) *List {
	if len(l.elements) > 0 {
		l.q.AppendTo(l.elements[0], dest)
	}
	return l
}

// InsertAfter inserts the first element after dest.
func (l *List) InsertAfter(dest any) *List {
	if len(l.elements) > 0 {
		l.q.InsertAfter(l.elements[0], dest)
	}
	return l
}
