package js

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/chrisuehlinger/domsugar/css"
	"github.com/chrisuehlinger/domsugar/dom"
	"github.com/chrisuehlinger/domsugar/events"
	"github.com/chrisuehlinger/domsugar/html"
	"github.com/chrisuehlinger/domsugar/query"
)

const page = `<!DOCTYPE html>
<html><body>
<ul id="list"><li class="item">a</li><li class="item"><span>b</span></li><li>c</li></ul>
<div id="box"><p>one</p></div>
</body></html>`

type fixture struct {
	r   *Runtime
	q   *query.Query
	doc *dom.Document
	win *dom.Window
}

func setup(t *testing.T, backend events.Backend) *fixture {
	t.Helper()
	doc, err := html.Parse(page)
	require.NoError(t, err)
	win := dom.NewWindow(doc)

	logger := zaptest.NewLogger(t)
	binder := events.NewBinder(backend, css.NewMatcher(), events.WithLogger(logger))
	q := query.New(binder, query.WithReleaseOnRemove(true), query.WithLogger(logger))
	r := NewRuntime(logger)
	NewDOMBinder(r, q).Install(win)
	return &fixture{r: r, q: q, doc: doc, win: win}
}

func (f *fixture) run(t *testing.T, code string) goja.Value {
	t.Helper()
	v, err := f.r.Execute(code)
	require.NoError(t, err)
	return v
}

func (f *fixture) click(t *testing.T, selector string) {
	t.Helper()
	el := f.q.Find(f.doc, selector).Item(0)
	require.NotNil(t, el, selector)
	el.DispatchEvent(dom.NewEvent("click", dom.EventInit{Bubbles: true, Cancelable: true}))
}

func TestGlobals(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	assert.True(t, f.run(t, "window.document === document").ToBoolean())
	assert.True(t, f.run(t, "document.defaultView === window").ToBoolean())
	assert.True(t, f.run(t, "document.body instanceof Element && document instanceof Node").ToBoolean())
	assert.True(t, f.run(t, "document.body === document.find('body')").ToBoolean(), "bound objects are cached")
	assert.Equal(t, "loading", f.run(t, "document.readyState").String())
	assert.True(t, f.run(t, "window instanceof EventTarget").ToBoolean())
	_, err := f.r.Execute("new Element()")
	assert.Error(t, err)
}

func TestFindShapes(t *testing.T) {
	f := setup(t, events.NativeBackend{})

	assert.Equal(t, "UL", f.run(t, "document.find('#list').tagName").String(), "a single match is the element")
	assert.Equal(t, int64(3), f.run(t, "document.find('li').length").ToInteger())
	assert.True(t, f.run(t, "document.find('li') instanceof ElementList").ToBoolean())
	assert.Equal(t, int64(0), f.run(t, "document.find('table').length").ToInteger())
	assert.Equal(t, int64(0), f.run(t, "document.find('li[').length").ToInteger())
	assert.Equal(t, "SPAN", f.run(t, "document.find('#list').find('span').tagName").String())
	assert.Equal(t, "b", f.run(t, "document.find('li')[1].textContent").String())
	assert.True(t, f.run(t, "var ul = document.find('#list'); ul[0] === ul && ul.length === 1").ToBoolean())
	assert.Equal(t, "LI", f.run(t, "document.find('li').has('span').tagName").String(), "has keeps the containing element")
	assert.Equal(t, int64(0), f.run(t, "document.find('li').has('p').length").ToInteger())
}

func TestFindAlias(t *testing.T) {
	f := setup(t, events.NativeBackend{})

	assert.True(t, f.run(t, "document.find.getAlias() === undefined").ToBoolean())
	f.run(t, "document.find.setAlias('$')")
	assert.Equal(t, "$", f.run(t, "document.find.getAlias()").String())
	assert.Equal(t, "UL", f.run(t, "$('#list').tagName").String())

	f.run(t, "document.find.setAlias('q')")
	assert.True(t, f.run(t, "typeof $ === 'undefined' && q('li').length === 3").ToBoolean())
}

func TestDirectHandler(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var calls = 0, self = null, type = '';
		function h(e) { calls++; self = this; type = e.type; }
		var ret = document.body.on('click', h);
		document.body.on('click', h);
	`)
	assert.True(t, f.run(t, "ret === document.body").ToBoolean(), "on chains")

	f.click(t, "body")
	assert.Equal(t, int64(1), f.run(t, "calls").ToInteger(), "duplicates register once")
	assert.True(t, f.run(t, "self === document.body").ToBoolean())
	assert.Equal(t, "click", f.run(t, "type").String())

	f.click(t, "span")
	assert.Equal(t, int64(2), f.run(t, "calls").ToInteger(), "bubbles to body")

	f.run(t, "document.body.off('click', h)")
	f.click(t, "body")
	assert.Equal(t, int64(2), f.run(t, "calls").ToInteger())
}

func TestDelegatedHandler(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var hits = [];
		function h(e) { hits.push(this.tagName + ':' + this.textContent + ':' + (e.target === this)); }
		document.find('#list').on('click', '.item', h);
	`)

	f.click(t, "li.item")
	f.click(t, "li:not(.item)")
	f.click(t, "#list")
	f.click(t, "span")
	assert.Equal(t, "LI:a:true", f.run(t, "hits.join(',')").String())

	f.run(t, "document.find('#list').off('click', h)")
	f.click(t, "li.item")
	assert.Equal(t, int64(1), f.run(t, "hits.length").ToInteger(), "off without selector removes delegated bindings")
}

func TestListOnOff(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var n = 0;
		function h() { n++; }
		var items = document.find('li.item');
		var chained = items.on('click mouseover', h) === items;
	`)
	assert.True(t, f.run(t, "chained").ToBoolean())

	f.run(t, "items[0].dispatchEvent(new Event('click')); items[1].dispatchEvent(new Event('mouseover'))")
	assert.Equal(t, int64(2), f.run(t, "n").ToInteger())

	f.run(t, "items.off('click'); items[0].dispatchEvent(new Event('click')); items[0].dispatchEvent(new Event('mouseover'))")
	assert.Equal(t, int64(3), f.run(t, "n").ToInteger())

	f.run(t, "items.off(); items[0].dispatchEvent(new Event('mouseover'))")
	assert.Equal(t, int64(3), f.run(t, "n").ToInteger())
}

func TestHandleEventObjectAndOptions(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var obj = { n: 0, handleEvent: function (e) { this.n++; } };
		document.body.on('click', obj, { once: true });
	`)
	f.click(t, "body")
	f.click(t, "body")
	assert.Equal(t, int64(1), f.run(t, "obj.n").ToInteger())

	f.run(t, "document.body.on('click', 'not a handler'); document.body.on()")
	f.click(t, "body")
	assert.Empty(t, f.r.Errors(), "malformed calls are ignored")
}

func TestNativeListenerMethods(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var n = 0, phase = -1;
		function h(e) { n++; phase = e.eventPhase; }
		document.body.addEventListener('ping', h);
		document.body.addEventListener('ping', h);
		var once = 0;
		document.body.addEventListener('ping', function () { once++; }, { once: true });
	`)
	assert.True(t, f.run(t, "document.body.dispatchEvent(new Event('ping'))").ToBoolean())
	f.run(t, "document.body.dispatchEvent(new Event('ping'))")
	assert.Equal(t, int64(2), f.run(t, "n").ToInteger())
	assert.Equal(t, int64(1), f.run(t, "once").ToInteger())
	assert.Equal(t, int64(2), f.run(t, "phase").ToInteger(), "AT_TARGET")

	f.run(t, "document.body.removeEventListener('ping', h); document.body.dispatchEvent(new Event('ping'))")
	assert.Equal(t, int64(2), f.run(t, "n").ToInteger())

	_, err := f.r.Execute("document.body.dispatchEvent({})")
	assert.Error(t, err)
}

func TestEventObject(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var seen = {};
		document.body.on('ping', function (e) {
			seen.detail = e.detail.x;
			seen.target = e.target === document.find('#box');
			seen.current = e.currentTarget === document.body;
			seen.path = e.composedPath().length;
			e.preventDefault();
		});
		var ev = new CustomEvent('ping', { bubbles: true, cancelable: true, detail: { x: 5 } });
		var result = document.find('#box').dispatchEvent(ev);
	`)
	assert.Equal(t, int64(5), f.run(t, "seen.detail").ToInteger())
	assert.True(t, f.run(t, "seen.target && seen.current").ToBoolean())
	assert.Equal(t, int64(5), f.run(t, "seen.path").ToInteger(), "div, body, html, document, window")
	assert.True(t, f.run(t, "!result && ev.defaultPrevented").ToBoolean())
	assert.True(t, f.run(t, "ev instanceof CustomEvent && ev instanceof Event").ToBoolean())
	assert.True(t, f.run(t, "new Event('x').detail === null && !new Event('x').bubbles").ToBoolean())
	assert.Equal(t, int64(3), f.run(t, "Event.prototype.BUBBLING_PHASE").ToInteger())

	_, err := f.r.Execute("new Event()")
	assert.Error(t, err)
}

func TestHandlerErrorsAreCollected(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var after = 0;
		document.body.on('click', function () { throw new Error('boom'); });
		document.body.on('click', function () { after++; });
	`)
	f.click(t, "body")

	errs := f.r.Errors()
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "boom")
	assert.Equal(t, int64(1), f.run(t, "after").ToInteger())
}

func TestManipulation(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var p = document.createElement('p');
		p.id = 'new';
		p.appendTo('#box');
	`)
	assert.Equal(t, int64(2), f.run(t, "document.find('#box p').length").ToInteger())
	assert.Equal(t, int64(1), f.run(t, "p.index").ToInteger())

	f.run(t, "p.insertAfter(document.find('#list'))")
	assert.True(t, f.run(t, "p.parentElement === document.body").ToBoolean())
	assert.Equal(t, int64(1), f.run(t, "p.index").ToInteger())
	assert.Equal(t, "BODY,HTML", f.run(t, "var ps = p.parents; ps[0].tagName + ',' + ps[1].tagName").String())

	f.run(t, "document.find('li').appendTo(document.find('#box'))")
	assert.True(t, f.run(t, "document.find('#box li').tagName === 'LI'").ToBoolean(), "a list moves its first element")

	el := f.doc.GetElementById("new")
	require.NotNil(t, el)
	f.run(t, "p.on('click', function () {})")
	_, ok := f.q.Binder().Lookup(el)
	require.True(t, ok)

	f.run(t, "p.remove()")
	assert.True(t, f.run(t, "document.getElementById('new') === null").ToBoolean())
	_, ok = f.q.Binder().Lookup(el)
	assert.False(t, ok, "removal releases the registry")

	f.run(t, "document.find('#box p').remove()")
	assert.Equal(t, int64(0), f.run(t, "document.find('#box p').length").ToInteger())
}

func TestIs(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	assert.True(t, f.run(t, "document.find('#list').is('ul#list')").ToBoolean())
	assert.False(t, f.run(t, "document.find('#list').is('div')").ToBoolean())
	assert.False(t, f.run(t, "document.body.is(document)").ToBoolean())
	assert.True(t, f.run(t, "document.is(document) && window.is(window)").ToBoolean())
	assert.False(t, f.run(t, "window.is(document)").ToBoolean())
	assert.True(t, f.run(t, "document.find('li').is('.item')").ToBoolean())
	assert.True(t, f.run(t, "document.body.is(document.body)").ToBoolean())
}

func TestReadyAndLoad(t *testing.T) {
	for _, backend := range []events.Backend{events.NativeBackend{}, events.LegacyBackend{}} {
		t.Run(backend.Name(), func(t *testing.T) {
			f := setup(t, backend)
			f.run(t, `
				var order = [];
				document.ready(function () { order.push('ready:' + (this === document)); });
				window.load(function () { order.push('load'); });
			`)
			assert.Equal(t, "", f.run(t, "order.join(',')").String())

			f.win.Load()
			assert.Equal(t, "ready:true,load", f.run(t, "order.join(',')").String())

			f.run(t, "document.ready(function () { order.push('late'); }); window.load(function () { order.push('late-load'); })")
			assert.Equal(t, "ready:true,load,late,late-load", f.run(t, "order.join(',')").String())
		})
	}
}

func TestLegacyBackendFromScript(t *testing.T) {
	f := setup(t, events.LegacyBackend{})
	f.run(t, `
		var n = 0;
		function h() { n++; }
		document.body.on('click', h, true);
	`)
	f.click(t, "span")
	assert.Equal(t, int64(1), f.run(t, "n").ToInteger())

	body := f.doc.Body()
	assert.Equal(t, 1, dom.ListenerCount(body, "click"))
	f.run(t, "document.body.off('click', h)")
	assert.Equal(t, 0, dom.ListenerCount(body, "click"))
}

func TestElementProperties(t *testing.T) {
	f := setup(t, events.NativeBackend{})
	f.run(t, `
		var box = document.getElementById('box');
		box.className = 'a b';
		box.classList.add('c');
		box.classList.remove('a');
		box.setAttribute('data-x', '1');
	`)
	assert.Equal(t, "b c", f.run(t, "box.className").String())
	assert.True(t, f.run(t, "box.classList.contains('c') && box.classList.length === 2").ToBoolean())
	assert.Equal(t, "1", f.run(t, "box.getAttribute('data-x')").String())
	assert.True(t, f.run(t, "box.getAttribute('nope') === null").ToBoolean())
	assert.Equal(t, int64(1), f.run(t, "box.children.length").ToInteger())
	assert.Equal(t, "box", f.run(t, "document.querySelector('div').id").String())
	assert.Equal(t, int64(3), f.run(t, "document.querySelectorAll('li').length").ToInteger())
	assert.True(t, f.run(t, "document.querySelector('table') === null").ToBoolean())
	assert.True(t, f.run(t, "document.body.contains(box) && !box.contains(document.body)").ToBoolean())
	assert.Equal(t, int64(1), f.run(t, "box.nodeType").ToInteger())
	assert.Equal(t, int64(9), f.run(t, "document.nodeType").ToInteger())

	f.run(t, "box.textContent = 'replaced'")
	assert.Equal(t, "replaced", f.doc.GetElementById("box").TextContent())
}
