package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/models"
)

// GalleryPageSize is how many photos one page load returns.
const GalleryPageSize = 20

// ExportItem is one entry of a bulk-export listing; consumers feed these to
// whatever ZIP/collage tooling they run.
type ExportItem struct {
	PhotoID string `json:"photo_id"`
	URL     string `json:"url"`
}

// GalleryService is the read/delete path over confirmed photos.
type GalleryService interface {
	// ListPage returns one newest-first page and whether more pages are
	// likely. The has-more flag is a heuristic: a page exactly at the
	// boundary triggers one extra empty fetch, which reports no-more.
	ListPage(ctx context.Context, eventID string, pageIndex int) ([]models.Photo, bool, error)
	NewReader(eventID string) *GalleryReader
	ResolveDisplayURL(storagePath string) string
	// Delete removes a photo the calling device owns. The storage object is
	// removed first; if that fails the record is deleted anyway and the
	// orphan logged. A record delete failure keeps the photo visible.
	Delete(ctx context.Context, photoID, callerDeviceID string) error
	React(ctx context.Context, photoID, kind string) error
	View(ctx context.Context, photoID string) error
	Export(ctx context.Context, eventID string) ([]ExportItem, error)
}

type galleryService struct {
	remote RemotePhotoService
	quota  QuotaService

	urlMu    sync.RWMutex
	urlCache map[string]string
}

func NewGalleryService(remote RemotePhotoService, quota QuotaService) GalleryService {
	return &galleryService{
		remote:   remote,
		quota:    quota,
		urlCache: make(map[string]string),
	}
}

func (s *galleryService) ListPage(ctx context.Context, eventID string, pageIndex int) ([]models.Photo, bool, error) {
	photos, err := s.remote.QueryPhotos(ctx, eventID, pageIndex*GalleryPageSize, GalleryPageSize)
	if err != nil {
		return nil, false, errors.Wrap(err, "failed to load gallery page")
	}
	hasMore := len(photos) == GalleryPageSize
	return photos, hasMore, nil
}

// ResolveDisplayURL is pure and safe to memoize: absolute references pass
// through, relative storage paths resolve once through the object store.
func (s *galleryService) ResolveDisplayURL(storagePath string) string {
	if strings.HasPrefix(storagePath, "http://") || strings.HasPrefix(storagePath, "https://") {
		return storagePath
	}

	s.urlMu.RLock()
	cached, ok := s.urlCache[storagePath]
	s.urlMu.RUnlock()
	if ok {
		return cached
	}

	resolved := s.remote.ResolvePublicURL(storagePath)
	s.urlMu.Lock()
	s.urlCache[storagePath] = resolved
	s.urlMu.Unlock()
	return resolved
}

func (s *galleryService) Delete(ctx context.Context, photoID, callerDeviceID string) error {
	photo, err := s.remote.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}

	// Device-local ownership check only. There is no server-enforced
	// authorization behind this; see the router notes.
	if photo.DeviceID == nil || *photo.DeviceID != callerDeviceID {
		return apperrors.ErrDeleteForbidden
	}

	// Storage first. An orphaned object is an accepted cost, a dangling
	// record is not.
	if err := s.remote.DeleteStorageObject(ctx, photo.StoragePath); err != nil {
		slog.Warn("storage delete failed, record will be removed anyway", "photo_id", photoID, "err", err)
	}
	if photo.ThumbnailPath != "" {
		if err := s.remote.DeleteStorageObject(ctx, photo.ThumbnailPath); err != nil {
			slog.Warn("thumbnail delete failed", "photo_id", photoID, "err", err)
		}
	}

	if err := s.remote.DeleteRecord(ctx, photoID); err != nil {
		slog.Error("photo record delete failed", "photo_id", photoID, "err", err)
		return apperrors.ErrDeleteFailed
	}

	s.quota.Invalidate(photo.EventID, callerDeviceID)
	return nil
}

func (s *galleryService) React(ctx context.Context, photoID, kind string) error {
	return s.remote.IncrementReaction(ctx, photoID, kind)
}

func (s *galleryService) View(ctx context.Context, photoID string) error {
	return s.remote.IncrementViews(ctx, photoID)
}

func (s *galleryService) Export(ctx context.Context, eventID string) ([]ExportItem, error) {
	var items []ExportItem
	for page := 0; ; page++ {
		photos, hasMore, err := s.ListPage(ctx, eventID, page)
		if err != nil {
			return nil, err
		}
		for _, p := range photos {
			items = append(items, ExportItem{
				PhotoID: p.ID,
				URL:     s.ResolveDisplayURL(p.StoragePath),
			})
		}
		if !hasMore {
			return items, nil
		}
	}
}
