package dom

// Window is the top of the propagation path for every node of its document.
type Window struct {
	document  *Document
	listeners *listenerStore
}

// NewWindow creates a window for doc and links the document to it.
func NewWindow(doc *Document) *Window {
	w := &Window{
		document:  doc,
		listeners: newListenerStore(),
	}
	if doc != nil {
		doc.AsNode().documentData.window = w
	}
	return w
}

// Document returns the window's document.
func (w *Window) Document() *Document {
	return w.document
}

// AddEventListener registers l on the window.
func (w *Window) AddEventListener(eventType string, l EventListener, opts ListenerOptions) {
	w.listeners.add(eventType, l, opts)
}

// RemoveEventListener unregisters l from the window.
func (w *Window) RemoveEventListener(eventType string, l EventListener, opts ListenerOptions) {
	w.listeners.remove(eventType, l, opts.Capture)
}

// DispatchEvent dispatches e with the window as target.
func (w *Window) DispatchEvent(e *Event) bool {
	return dispatch(w, e)
}

// AttachEvent is the legacy registration primitive.
func (w *Window) AttachEvent(name string, l EventListener) bool {
	return w.listeners.attach(name, l)
}

// DetachEvent is the legacy removal primitive.
func (w *Window) DetachEvent(name string, l EventListener) {
	w.listeners.detach(name, l)
}

func (w *Window) eventStore() *listenerStore {
	return w.listeners
}

func (w *Window) parentTarget() EventTarget {
	return nil
}

// Load completes the document, firing whatever ready-state events are still
// pending, window load included.
func (w *Window) Load() {
	if w.document != nil {
		w.document.SetReadyState(ReadyStateComplete)
	}
}
