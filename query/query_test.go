package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/events"
	"github.com/chrisuehlinger/domsugar/html"
)

const page = `<!DOCTYPE html>
<html><body>
<ul id="list"><li class="item">a</li><li class="item"><span>b</span></li><li>c</li></ul>
<div id="box"><p>one</p></div>
</body></html>`

func setup(t *testing.T, backend events.Backend, opts ...Option) (*Query, *dom.Document, *dom.Window) {
	t.Helper()
	doc, err := html.Parse(page)
	require.NoError(t, err)
	win := dom.NewWindow(doc)
	binder := events.NewBinder(backend, css.NewMatcher())
	return New(binder, opts...), doc, win
}

func TestFind(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})

	items := q.Find(doc, "li.item")
	assert.Equal(t, 2, items.Len())
	assert.Equal(t, 0, items.Index())
	assert.Nil(t, items.Item(5))

	spans := q.Find(doc, "ul").Find("span")
	require.Equal(t, 1, spans.Len())
	assert.Equal(t, "b", spans.Item(0).TextContent())

	assert.Equal(t, 0, q.Find(doc, "li[").Len())
	assert.Equal(t, -1, q.Find(doc, "table").Index())
	assert.Equal(t, 0, q.Find(nil, "li").Len())

	both := q.Find(doc, "li").Find("span, li")
	assert.Equal(t, 1, both.Len(), "descendants only, without duplicates")
}

func TestListHas(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})

	withSpan := q.Find(doc, "li").Has("span")
	require.Equal(t, 1, withSpan.Len())
	assert.Same(t, q.Find(doc, "li").Item(1), withSpan.Item(0))

	assert.Equal(t, 2, q.Find(doc, "ul, div").Has("li, p").Len())
	assert.Equal(t, 0, q.Find(doc, "li").Has("li").Len(), "the element itself does not count")
	assert.Equal(t, 0, q.Find(doc, "table").Has("span").Len())
}

func TestListOnOff(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})
	var count int
	h := dom.NewEventListener(func(dom.EventTarget, *dom.Event) any {
		count++
		return nil
	})

	items := q.Find(doc, "li").On("click", h)
	for _, el := range items.Elements() {
		el.DispatchEvent(dom.NewEvent("click", dom.EventInit{}))
	}
	assert.Equal(t, 3, count)

	items.Off("click", h)
	for _, el := range items.Elements() {
		assert.Equal(t, 0, dom.ListenerCount(el, "click"))
	}
}

func TestDelegationThroughList(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})
	var got []string
	h := dom.NewEventListener(func(this dom.EventTarget, e *dom.Event) any {
		got = append(got, this.(*dom.Element).TextContent())
		return nil
	})

	q.Find(doc, "#list").On("click", ".item", h)
	for _, li := range q.Find(doc, "li").Elements() {
		li.DispatchEvent(dom.NewEvent("click", dom.EventInit{Bubbles: true}))
	}
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestAppendToAndInsertAfter(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})
	box := doc.GetElementById("box")
	list := doc.GetElementById("list")

	p := doc.CreateElement("p")
	q.AppendTo(p, "#list")
	assert.Same(t, list, p.ParentElement())
	assert.Equal(t, 3, Index(p))

	q.AppendTo(p, box)
	assert.Same(t, box, p.ParentElement())

	last := list.LastElementChild()
	moved := doc.CreateElement("li")
	q.InsertAfter(moved, last)
	assert.Nil(t, moved.ParentElement(), "no next sibling, nothing happens")

	first := list.FirstElementChild()
	q.InsertAfter(moved, first)
	assert.Same(t, list, moved.ParentElement())
	assert.Equal(t, 1, Index(moved))

	q.List(doc.CreateElement("em")).AppendTo(q.Find(doc, "#box"))
	assert.Equal(t, "em", box.LastElementChild().LocalName())

	q.AppendTo(p, "#missing")
	assert.Same(t, box, p.ParentElement())
	q.AppendTo(list, list.FirstElementChild())
	assert.Same(t, doc.Body(), list.ParentElement(), "hierarchy errors are ignored")
}

func TestRemoveReleasesRegistries(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{}, WithReleaseOnRemove(true))
	list := doc.GetElementById("list")
	span := q.Find(doc, "span").Item(0)
	h := dom.NewEventListener(func(dom.EventTarget, *dom.Event) any { return nil })

	q.Wrap(list).On("click", h)
	q.Wrap(span).On("click", h)
	require.Equal(t, 2, q.Binder().Targets())

	q.Remove(list)
	assert.Nil(t, list.ParentElement())
	assert.Equal(t, 0, q.Binder().Targets())
	assert.Equal(t, 0, dom.ListenerCount(span, "click"))
}

func TestRemoveKeepsRegistriesByDefault(t *testing.T) {
	q, doc, _ := setup(t, events.NativeBackend{})
	h := dom.NewEventListener(func(dom.EventTarget, *dom.Event) any { return nil })

	items := q.Find(doc, "li").On("click", h)
	items.Remove()

	assert.Equal(t, 0, q.Find(doc, "li").Len())
	assert.Equal(t, 3, q.Binder().Targets())
}

func TestTraversal(t *testing.T) {
	q, doc, win := setup(t, events.NativeBackend{})
	span := q.Find(doc, "span").Item(0)

	parents := Parents(span)
	require.Len(t, parents, 4)
	assert.Equal(t, "li", parents[0].LocalName())
	assert.Equal(t, "html", parents[3].LocalName())

	assert.Equal(t, -1, Index(doc.CreateElement("p")))
	assert.Equal(t, -1, Index(nil))
	assert.Nil(t, Parents(nil))

	assert.True(t, Is(span, "li > span"))
	assert.False(t, Is(span, "p"))
	assert.True(t, Is(win, win))
	assert.False(t, Is(win, doc))
	assert.True(t, Is(doc, doc.AsNode()))
	assert.True(t, Is(span.AsNode(), span))
	assert.False(t, Is(doc, "html"))
	assert.False(t, Is(nil, nil))
	assert.True(t, q.Find(doc, "li").Is(".item"))
}

func TestReadyAndLoad(t *testing.T) {
	for _, backend := range []events.Backend{events.NativeBackend{}, events.LegacyBackend{}} {
		t.Run(backend.Name(), func(t *testing.T) {
			q, doc, win := setup(t, backend)
			var log []string

			q.Ready(doc, func() { log = append(log, "ready") })
			q.Load(win, func() { log = append(log, "load") })
			assert.Empty(t, log)

			doc.SetReadyState(dom.ReadyStateInteractive)
			win.Load()
			win.Load()

			assert.Equal(t, []string{"ready", "load"}, log)
			reg, _ := q.Binder().Lookup(doc)
			assert.Equal(t, 0, reg.Len(), "one-shot bindings are gone")

			q.Ready(doc, func() { log = append(log, "late-ready") })
			q.Load(win, func() { log = append(log, "late-load") })
			assert.Equal(t, []string{"ready", "load", "late-ready", "late-load"}, log)
		})
	}
}
