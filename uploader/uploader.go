// Package uploader drains the local capture queue into the backend, one
// item at a time. It is the only component that mutates queued captures.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nfnt/resize"
	"github.com/pkg/errors"

	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/filters"
	"github.com/snapbooth/snapbooth/models"
	"github.com/snapbooth/snapbooth/queue"
	"github.com/snapbooth/snapbooth/services"
)

const (
	// MaxAttempts is how many recoverable failures a capture survives before
	// it is dropped. The drop is logged, never surfaced: accepted data loss.
	MaxAttempts = 3

	thumbnailEdge = 480
)

type Uploader struct {
	store   queue.Store
	remote  services.RemotePhotoService
	logger  *slog.Logger
	timeout time.Duration

	// inFlight is the single-flight guard: however often the tick fires,
	// at most one upload attempt runs at a time.
	inFlight atomic.Bool

	onConfirmed func(photo models.Photo)
}

func New(store queue.Store, remote services.RemotePhotoService, timeout time.Duration, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{
		store:   store,
		remote:  remote,
		timeout: timeout,
		logger:  logger,
	}
}

// OnConfirmed registers a callback invoked after a capture is confirmed
// (inserted, or found to be a duplicate of a prior attempt).
func (u *Uploader) OnConfirmed(fn func(photo models.Photo)) {
	u.onConfirmed = fn
}

// Run ticks once immediately, then on every interval until ctx is done. The
// loop is deliberately polling rather than enqueue-driven; the FIFO ordering
// argument depends on it.
func (u *Uploader) Run(ctx context.Context, interval time.Duration) {
	u.Tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.Tick(ctx)
		}
	}
}

// Tick attempts at most one upload: the oldest capture of the first event
// with queued work. If an attempt is already in flight the tick is a no-op.
func (u *Uploader) Tick(ctx context.Context) {
	if !u.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer u.inFlight.Store(false)

	events, err := u.store.Events()
	if err != nil {
		u.logger.Error("listing queued events failed", "err", err)
		return
	}

	for _, eventID := range events {
		capture, err := u.store.PeekOldest(eventID)
		if errors.Is(err, queue.ErrEmpty) {
			continue
		}
		if err != nil {
			u.logger.Error("peek failed", "event_id", eventID, "err", err)
			continue
		}
		u.process(ctx, capture)
		return
	}
}

func (u *Uploader) process(parent context.Context, capture models.PendingCapture) {
	ctx, cancel := context.WithTimeout(parent, u.timeout)
	defer cancel()

	log := u.logger.With("capture_id", capture.ID, "event_id", capture.EventID)

	payload, err := filters.DecodeBase64Payload(capture.ImageData)
	if err != nil {
		u.fail(capture, log, errors.Wrap(err, "decode image data"))
		return
	}

	key := fmt.Sprintf("events/%s/%s.jpg", capture.EventID, capture.ID)
	reference, err := u.remote.UploadBinary(ctx, key, payload, "image/jpeg")
	if err != nil {
		u.fail(capture, log, errors.Wrap(err, "upload binary"))
		return
	}

	// Thumbnail is best-effort; the gallery falls back to the full-size
	// object when it is missing.
	thumbRef := u.uploadThumbnail(ctx, capture, payload, log)

	deviceID := capture.DeviceID
	photo := models.Photo{
		EventID:       capture.EventID,
		DeviceID:      &deviceID,
		UploadKey:     capture.ID,
		StoragePath:   reference,
		ThumbnailPath: thumbRef,
		UploadedAt:    time.Now().UTC(),
	}

	err = u.remote.InsertPhotoRecord(ctx, &photo)
	switch {
	case err == nil:
		if removeErr := u.store.Remove(capture.ID); removeErr != nil {
			log.Error("confirmed capture could not be dequeued", "err", removeErr)
			return
		}
		log.Info("capture confirmed", "photo_id", photo.ID, "storage_path", reference)
		if u.onConfirmed != nil {
			u.onConfirmed(photo)
		}
	case errors.Is(err, apperrors.ErrDuplicateConflict):
		// Already recorded by a prior attempt. Success-equivalent: drop the
		// queued item without touching the failure counter.
		if removeErr := u.store.Remove(capture.ID); removeErr != nil {
			log.Error("duplicate capture could not be dequeued", "err", removeErr)
			return
		}
		log.Info("capture already uploaded, dropped from queue")
	default:
		u.fail(capture, log, errors.Wrap(err, "insert photo record"))
	}
}

// fail counts one recoverable failure. The item stays at the head of the
// queue until it succeeds, conflicts, or burns all attempts.
func (u *Uploader) fail(capture models.PendingCapture, log *slog.Logger, cause error) {
	attempts := capture.FailureCount + 1
	if attempts >= MaxAttempts {
		if err := u.store.Remove(capture.ID); err != nil {
			log.Error("exhausted capture could not be dequeued", "err", err)
			return
		}
		log.Warn("dropping capture after repeated failures", "attempts", attempts, "err", cause)
		return
	}

	if err := u.store.SetFailureCount(capture.ID, attempts); err != nil {
		log.Error("failure count update failed", "err", err)
		return
	}
	log.Warn("upload attempt failed, will retry", "attempts", attempts, "err", cause)
}

func (u *Uploader) uploadThumbnail(ctx context.Context, capture models.PendingCapture, payload []byte, log *slog.Logger) string {
	img, _, err := image.Decode(bytes.NewReader(payload))
	if err != nil {
		log.Warn("thumbnail decode failed", "err", err)
		return ""
	}

	thumb := resize.Thumbnail(thumbnailEdge, thumbnailEdge, img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: 80}); err != nil {
		log.Warn("thumbnail encode failed", "err", err)
		return ""
	}

	key := fmt.Sprintf("events/%s/thumbs/%s.jpg", capture.EventID, capture.ID)
	reference, err := u.remote.UploadBinary(ctx, key, buf.Bytes(), "image/jpeg")
	if err != nil {
		log.Warn("thumbnail upload failed", "err", err)
		return ""
	}
	return reference
}
