package events

import (
	"github.com/pkg/errors"

	"github.com/chrisuehlinger/domsugar/dom"
)

// Backend is the host's add/remove-listener primitive.
type Backend interface {
	Register(target Target, eventType string, l dom.EventListener, opts Options) error
	Deregister(target Target, eventType string, l dom.EventListener, opts Options) error
	Name() string
}

// Mode selects how the backend is chosen.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeNative Mode = "native"
	ModeLegacy Mode = "legacy"
)

// NativeBackend drives AddEventListener/RemoveEventListener.
type NativeBackend struct{}

func (NativeBackend) Name() string { return string(ModeNative) }

func (NativeBackend) Register(target Target, eventType string, l dom.EventListener, opts Options) error {
	et, ok := target.(dom.EventTarget)
	if !ok {
		return errors.Wrapf(ErrTargetUnsupported, "%T has no addEventListener", target)
	}
	et.AddEventListener(eventType, l, opts)
	return nil
}

func (NativeBackend) Deregister(target Target, eventType string, l dom.EventListener, opts Options) error {
	et, ok := target.(dom.EventTarget)
	if !ok {
		return errors.Wrapf(ErrTargetUnsupported, "%T has no removeEventListener", target)
	}
	et.RemoveEventListener(eventType, l, opts)
	return nil
}

// LegacyBackend drives AttachEvent/DetachEvent. Event names get the "on"
// prefix and options are dropped, so capture and passive are lost; once is
// still honored because the Binder prunes once-descriptors itself.
type LegacyBackend struct{}

func (LegacyBackend) Name() string { return string(ModeLegacy) }

func (LegacyBackend) Register(target Target, eventType string, l dom.EventListener, _ Options) error {
	lt, ok := target.(dom.LegacyEventTarget)
	if !ok {
		return errors.Wrapf(ErrTargetUnsupported, "%T has no attachEvent", target)
	}
	if !lt.AttachEvent(legacyName(eventType), l) {
		return errors.Wrapf(ErrTargetUnsupported, "attachEvent rejected %q", eventType)
	}
	return nil
}

func (LegacyBackend) Deregister(target Target, eventType string, l dom.EventListener, _ Options) error {
	lt, ok := target.(dom.LegacyEventTarget)
	if !ok {
		return errors.Wrapf(ErrTargetUnsupported, "%T has no detachEvent", target)
	}
	lt.DetachEvent(legacyName(eventType), l)
	return nil
}

func legacyName(eventType string) string {
	return "on" + eventType
}

// DetectBackend inspects sample once and returns the backend its host
// supports, preferring the native surface.
func DetectBackend(sample any) (Backend, error) {
	if _, ok := sample.(dom.EventTarget); ok {
		return NativeBackend{}, nil
	}
	if _, ok := sample.(dom.LegacyEventTarget); ok {
		return LegacyBackend{}, nil
	}
	return nil, errors.Wrapf(ErrUnsupportedBackend, "%T", sample)
}

// BackendFor resolves mode against sample. A forced mode still fails when
// sample lacks that surface.
func BackendFor(mode Mode, sample any) (Backend, error) {
	switch mode {
	case ModeAuto, "":
		return DetectBackend(sample)
	case ModeNative:
		if _, ok := sample.(dom.EventTarget); !ok {
			return nil, errors.Wrapf(ErrUnsupportedBackend, "%T has no addEventListener", sample)
		}
		return NativeBackend{}, nil
	case ModeLegacy:
		if _, ok := sample.(dom.LegacyEventTarget); !ok {
			return nil, errors.Wrapf(ErrUnsupportedBackend, "%T has no attachEvent", sample)
		}
		return LegacyBackend{}, nil
	}
	return nil, errors.Wrapf(ErrInvalidMode, "%q", mode)
}
