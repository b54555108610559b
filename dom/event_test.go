package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recorder(log *[]string, label string) *FuncListener {
	return NewEventListener(func(this EventTarget, e *Event) any {
		*log = append(*log, label)
		return nil
	})
}

func TestDispatch_PhasesOrder(t *testing.T) {
	doc, win, list, items := buildTree(t)
	var log []string

	win.AddEventListener("click", recorder(&log, "window-capture"), ListenerOptions{Capture: true})
	win.AddEventListener("click", recorder(&log, "window-bubble"), ListenerOptions{})
	doc.AddEventListener("click", recorder(&log, "document-bubble"), ListenerOptions{})
	list.AddEventListener("click", recorder(&log, "list-capture"), ListenerOptions{Capture: true})
	list.AddEventListener("click", recorder(&log, "list-bubble"), ListenerOptions{})
	items[0].AddEventListener("click", recorder(&log, "target"), ListenerOptions{})

	items[0].DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, []string{
		"window-capture", "list-capture", "target",
		"list-bubble", "document-bubble", "window-bubble",
	}, log)
}

func TestDispatch_NonBubblingStaysAtTarget(t *testing.T) {
	_, _, list, items := buildTree(t)
	var log []string
	list.AddEventListener("focus", recorder(&log, "list"), ListenerOptions{})
	items[0].AddEventListener("focus", recorder(&log, "item"), ListenerOptions{})

	items[0].DispatchEvent(NewEvent("focus", EventInit{}))
	assert.Equal(t, []string{"item"}, log)
}

func TestDispatch_TargetAndThis(t *testing.T) {
	_, _, list, items := buildTree(t)
	var gotThis, gotTarget, gotCurrent EventTarget
	list.AddEventListener("click", NewEventListener(func(this EventTarget, e *Event) any {
		gotThis, gotTarget, gotCurrent = this, e.Target(), e.CurrentTarget()
		return nil
	}), ListenerOptions{})

	items[2].DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))

	assert.Equal(t, EventTarget(list), gotThis)
	assert.Equal(t, EventTarget(items[2]), gotTarget)
	assert.Equal(t, EventTarget(list), gotCurrent)
}

func TestListener_DedupAndRemove(t *testing.T) {
	_, _, list, _ := buildTree(t)
	var log []string
	l := recorder(&log, "x")

	list.AddEventListener("click", l, ListenerOptions{})
	list.AddEventListener("click", l, ListenerOptions{})
	list.AddEventListener("click", l, ListenerOptions{Capture: true})
	assert.Equal(t, 2, ListenerCount(list, "click"))

	list.RemoveEventListener("click", l, ListenerOptions{})
	assert.Equal(t, 1, ListenerCount(list, "click"))
	list.RemoveEventListener("click", l, ListenerOptions{Capture: true})
	assert.Equal(t, 0, ListenerCount(list, ""))
}

func TestListener_Once(t *testing.T) {
	_, _, list, _ := buildTree(t)
	var log []string
	list.AddEventListener("ping", recorder(&log, "once"), ListenerOptions{Once: true})

	list.DispatchEvent(NewEvent("ping", EventInit{}))
	list.DispatchEvent(NewEvent("ping", EventInit{}))

	assert.Equal(t, []string{"once"}, log)
	assert.Equal(t, 0, ListenerCount(list, "ping"))
}

func TestListener_PassiveIgnoresPreventDefault(t *testing.T) {
	_, _, list, _ := buildTree(t)
	list.AddEventListener("wheel", NewEventListener(func(this EventTarget, e *Event) any {
		e.PreventDefault()
		return nil
	}), ListenerOptions{Passive: true})

	ok := list.DispatchEvent(NewEvent("wheel", EventInit{Cancelable: true}))
	assert.True(t, ok)
}

func TestListener_PreventDefault(t *testing.T) {
	_, _, list, _ := buildTree(t)
	list.AddEventListener("submit", NewEventListener(func(this EventTarget, e *Event) any {
		e.PreventDefault()
		return nil
	}), ListenerOptions{})

	assert.False(t, list.DispatchEvent(NewEvent("submit", EventInit{Cancelable: true})))
	assert.True(t, list.DispatchEvent(NewEvent("submit", EventInit{})))
}

func TestListener_StopImmediatePropagation(t *testing.T) {
	doc, _, list, _ := buildTree(t)
	var log []string
	list.AddEventListener("click", NewEventListener(func(this EventTarget, e *Event) any {
		log = append(log, "first")
		e.StopImmediatePropagation()
		return nil
	}), ListenerOptions{})
	list.AddEventListener("click", recorder(&log, "second"), ListenerOptions{})
	doc.AddEventListener("click", recorder(&log, "document"), ListenerOptions{})

	list.DispatchEvent(NewEvent("click", EventInit{Bubbles: true}))
	assert.Equal(t, []string{"first"}, log)
}

func TestListener_RemovedDuringDispatchDoesNotRun(t *testing.T) {
	_, _, list, _ := buildTree(t)
	var log []string
	second := recorder(&log, "second")
	list.AddEventListener("click", NewEventListener(func(this EventTarget, e *Event) any {
		log = append(log, "first")
		list.RemoveEventListener("click", second, ListenerOptions{})
		return nil
	}), ListenerOptions{})
	list.AddEventListener("click", second, ListenerOptions{})

	list.DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, []string{"first"}, log)
}

func TestLegacyAttachDetach(t *testing.T) {
	_, win, _, items := buildTree(t)
	var log []string
	l := recorder(&log, "legacy")

	assert.False(t, items[0].AttachEvent("click", l), "names without the on prefix are rejected")
	require.True(t, items[0].AttachEvent("onclick", l))
	items[0].DispatchEvent(NewEvent("click", EventInit{}))
	items[0].DetachEvent("onclick", l)
	items[0].DispatchEvent(NewEvent("click", EventInit{}))
	assert.Equal(t, []string{"legacy"}, log)

	require.True(t, win.AttachEvent("onload", l))
	assert.Equal(t, 1, ListenerCount(win, "load"))
}

func TestReadyStateEvents(t *testing.T) {
	doc, win, _, _ := buildTree(t)
	var log []string
	doc.AddEventListener("DOMContentLoaded", recorder(&log, "ready"), ListenerOptions{})
	win.AddEventListener("DOMContentLoaded", recorder(&log, "ready-window"), ListenerOptions{})
	win.AddEventListener("load", recorder(&log, "load"), ListenerOptions{})

	doc.SetReadyState(ReadyStateInteractive)
	doc.SetReadyState(ReadyStateComplete)
	doc.SetReadyState(ReadyStateComplete)

	assert.Equal(t, []string{"ready", "ready-window", "load"}, log)
}

func TestWindowLoad(t *testing.T) {
	doc, win, _, _ := buildTree(t)
	var log []string
	doc.AddEventListener("readystatechange", recorder(&log, "state"), ListenerOptions{})
	doc.AddEventListener("DOMContentLoaded", recorder(&log, "ready"), ListenerOptions{})
	win.AddEventListener("load", recorder(&log, "load"), ListenerOptions{})

	win.Load()
	win.Load()

	assert.Equal(t, ReadyStateComplete, doc.ReadyState())
	assert.Equal(t, []string{"state", "ready", "load"}, log)
}

func TestComposedPath(t *testing.T) {
	doc, win, list, items := buildTree(t)
	var path []EventTarget
	items[1].AddEventListener("click", NewEventListener(func(this EventTarget, e *Event) any {
		path = e.ComposedPath()
		return nil
	}), ListenerOptions{})

	ev := NewEvent("click", EventInit{})
	items[1].DispatchEvent(ev)

	require.Len(t, path, 6)
	assert.Equal(t, EventTarget(items[1]), path[0])
	assert.Equal(t, EventTarget(list), path[1])
	assert.Equal(t, EventTarget(doc), path[4])
	assert.Equal(t, EventTarget(win), path[5])
	assert.Empty(t, ev.ComposedPath())
}

func TestSameListener(t *testing.T) {
	a := NewEventListener(nil)
	b := NewEventListener(nil)
	assert.True(t, SameListener(a, a))
	assert.False(t, SameListener(a, b))
	assert.False(t, SameListener(a, nil))
	assert.True(t, SameListener(nil, nil))
}
