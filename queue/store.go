// Package queue holds captures taken at the booth until the background
// uploader confirms them with the backend. The store survives process
// restarts and keeps strict FIFO order per event.
package queue

import (
	"errors"

	"github.com/snapbooth/snapbooth/models"
)

// ErrEmpty is returned by PeekOldest when no capture is queued for the event.
var ErrEmpty = errors.New("capture queue is empty")

// Store is the durable local capture queue. Captures are appended by the
// capture path and drained head-first by the uploader; Remove and
// SetFailureCount are no-ops for unknown IDs so the uploader can race with
// itself across ticks without erroring.
type Store interface {
	Enqueue(capture models.PendingCapture) error
	PeekOldest(eventID string) (models.PendingCapture, error)
	Remove(id string) error
	SetFailureCount(id string, n int) error
	Count(eventID string) (int, error)
	// Events lists event IDs that currently have queued captures.
	Events() ([]string, error)
	Close() error
}
