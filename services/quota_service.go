package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/snapbooth/snapbooth/queue"
)

// QuotaService answers how many more photos a device may take for an event.
// Remaining is limit minus queued-locally plus confirmed-remotely; the remote
// term is cached and refreshed on an interval, so a device can transiently
// overshoot by a small margin. That race is accepted.
type QuotaService interface {
	Remaining(ctx context.Context, eventID, deviceID string) (int, error)
	// NoteConfirmed keeps the cached remote count in step when the uploader
	// confirms a photo, without forcing a round trip.
	NoteConfirmed(eventID, deviceID string)
	// Invalidate drops the cached count, e.g. after a gallery delete.
	Invalidate(eventID, deviceID string)
}

type cachedCount struct {
	count     int
	fetchedAt time.Time
}

type quotaService struct {
	store   queue.Store
	remote  RemotePhotoService
	limit   int
	refresh time.Duration

	mu    sync.Mutex
	cache map[string]cachedCount
}

func NewQuotaService(store queue.Store, remote RemotePhotoService, limit int, refresh time.Duration) QuotaService {
	return &quotaService{
		store:   store,
		remote:  remote,
		limit:   limit,
		refresh: refresh,
		cache:   make(map[string]cachedCount),
	}
}

func (s *quotaService) Remaining(ctx context.Context, eventID, deviceID string) (int, error) {
	pending, err := s.store.Count(eventID)
	if err != nil {
		return 0, err
	}

	confirmed := s.confirmedCount(ctx, eventID, deviceID)

	remaining := s.limit - (pending + confirmed)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (s *quotaService) confirmedCount(ctx context.Context, eventID, deviceID string) int {
	key := eventID + "/" + deviceID

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok && time.Since(cached.fetchedAt) < s.refresh {
		return cached.count
	}

	count, err := s.remote.CountPhotos(ctx, eventID, deviceID)
	if err != nil {
		// Stale beats blocked: keep serving the last known count.
		slog.Warn("remote photo count failed, using cached value", "event_id", eventID, "device_id", deviceID, "err", err)
		return cached.count
	}

	s.mu.Lock()
	s.cache[key] = cachedCount{count: count, fetchedAt: time.Now()}
	s.mu.Unlock()
	return count
}

func (s *quotaService) NoteConfirmed(eventID, deviceID string) {
	key := eventID + "/" + deviceID
	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.cache[key]; ok {
		cached.count++
		s.cache[key] = cached
	}
}

func (s *quotaService) Invalidate(eventID, deviceID string) {
	key := eventID + "/" + deviceID
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, key)
}
