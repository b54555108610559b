package events

import "github.com/chrisuehlinger/domsugar/dom"

// Matcher tests an event origin against a selector. Origins that are not
// elements never match.
type Matcher interface {
	Matches(target dom.EventTarget, selector string) bool
}

// MatcherFunc adapts a function to Matcher.
type MatcherFunc func(target dom.EventTarget, selector string) bool

// Matches calls f(target, selector).
func (f MatcherFunc) Matches(target dom.EventTarget, selector string) bool {
	return f(target, selector)
}

// delegateProxy runs handler only when the event originated on an element
// matching selector, with that element as this.
type delegateProxy struct {
	selector string
	handler  Handler
	matcher  Matcher
}

func (p *delegateProxy) HandleEvent(_ dom.EventTarget, e *dom.Event) any {
	origin := e.Target()
	if origin == nil || !p.matcher.Matches(origin, p.selector) {
		return nil
	}
	return p.handler.HandleEvent(origin, e)
}

// Handler returns the wrapped user handler.
func (p *delegateProxy) Handler() Handler { return p.handler }

// onceListener retires its descriptor on first delivery, before the wrapped
// listener runs. Native hosts have already dropped the registration by then;
// legacy hosts have not, so retire also deregisters.
type onceListener struct {
	binder   *Binder
	registry *Registry
	desc     *Descriptor
	inner    dom.EventListener
}

func (o *onceListener) HandleEvent(this dom.EventTarget, e *dom.Event) any {
	if !o.binder.retire(o.registry, o.desc) {
		return nil
	}
	return o.inner.HandleEvent(this, e)
}
