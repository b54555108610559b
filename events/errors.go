package events

import "github.com/pkg/errors"

var (
	// ErrUnsupportedBackend is returned when a host offers neither the native
	// nor the legacy registration surface.
	ErrUnsupportedBackend = errors.New("events: no supported dispatch backend")

	// ErrTargetUnsupported is returned by a Backend when one target lacks the
	// surface the backend drives.
	ErrTargetUnsupported = errors.New("events: target does not support backend")

	// ErrInvalidMode is returned by BackendFor for an unknown mode.
	ErrInvalidMode = errors.New("events: invalid backend mode")
)
