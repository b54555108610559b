// Package events implements per-target listener registries with jQuery-style
// on/off binding and selector-based delegation.
//
// A Binder owns one Registry per target in a side-table. Bind normalizes its
// arguments into Descriptors, skips duplicates of the same (type, selector,
// handler) triple, wraps delegated handlers in a proxy and forwards the
// result to a Backend. Unbind selects descriptors by partial key, forwards
// their removal to the Backend and prunes them.
//
//	b, err := events.NewBinderFor(events.ModeAuto, doc, css.NewMatcher())
//	if err != nil {
//		return err
//	}
//	b.Wrap(list).
//		BindDelegate("click", "li.item", h).
//		Bind("keydown", k)
package events
