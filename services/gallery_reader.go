package services

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/snapbooth/snapbooth/models"
)

// GalleryReader accumulates pages for one event the way an infinite-scroll
// view consumes them. Overlapping loads triggered by rapid scroll events are
// collapsed by a single-flight flag, mirroring the uploader's guard.
type GalleryReader struct {
	svc     GalleryService
	eventID string

	inFlight atomic.Bool

	mu      sync.Mutex
	photos  []models.Photo
	page    int
	hasMore bool
}

func (s *galleryService) NewReader(eventID string) *GalleryReader {
	return &GalleryReader{
		svc:     s,
		eventID: eventID,
		hasMore: true,
	}
}

// LoadPage fetches the given page. Page 0 replaces the accumulated list,
// later pages append. A load already in flight makes this a no-op. Read
// failures degrade to the current (possibly partial) list and a log entry;
// they are never surfaced.
func (r *GalleryReader) LoadPage(ctx context.Context, pageIndex int) {
	if !r.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer r.inFlight.Store(false)

	photos, hasMore, err := r.svc.ListPage(ctx, r.eventID, pageIndex)
	if err != nil {
		slog.Error("gallery page load failed", "event_id", r.eventID, "page", pageIndex, "err", err)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if pageIndex == 0 {
		r.photos = photos
	} else {
		r.photos = append(r.photos, photos...)
	}
	r.page = pageIndex
	r.hasMore = hasMore
}

// LoadMore fetches the next page if one is expected.
func (r *GalleryReader) LoadMore(ctx context.Context) {
	r.mu.Lock()
	next := r.page + 1
	more := r.hasMore
	empty := len(r.photos) == 0
	r.mu.Unlock()

	if !more {
		return
	}
	if empty {
		next = 0
	}
	r.LoadPage(ctx, next)
}

func (r *GalleryReader) Photos() []models.Photo {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Photo, len(r.photos))
	copy(out, r.photos)
	return out
}

func (r *GalleryReader) HasMore() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasMore
}
