// Package capture abstracts the physical capture device. Guests normally
// capture in their own browser and POST frames to the booth API; kiosk
// installs use a Device wired to locally spooled frames instead.
package capture

import (
	"errors"
	"image"
)

type Facing string

const (
	FacingFront Facing = "front"
	FacingBack  Facing = "back"
)

// ErrPermissionDenied means the device refused access. Fatal to the capture
// path, surfaced to the user, never retried automatically.
var ErrPermissionDenied = errors.New("capture device access denied")

// ErrNoFrame means the device had nothing to grab.
var ErrNoFrame = errors.New("no frame available")

// Stream is an acquired capture session. Close releases the underlying
// device and must run on every exit path; holding a camera lock after
// navigation is a bug.
type Stream interface {
	GrabFrame() (image.Image, error)
	Close() error
}

type Device interface {
	Acquire(facing Facing) (Stream, error)
}

// WithStream scopes a device acquisition: the stream is released whatever fn
// does, including panics.
func WithStream(d Device, facing Facing, fn func(Stream) error) error {
	stream, err := d.Acquire(facing)
	if err != nil {
		return err
	}
	defer stream.Close()
	return fn(stream)
}
