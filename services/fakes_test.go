package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"

	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/models"
)

// fakeRemote is an in-memory RemotePhotoService. Photos are served
// newest-first in the order of the backing slice.
type fakeRemote struct {
	mu     sync.Mutex
	photos []models.Photo

	countErr     error
	deleteObjErr error
	deleteRecErr error

	resolveCalls int
	countCalls   int
}

func (f *fakeRemote) UploadBinary(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	return key, nil
}

func (f *fakeRemote) InsertPhotoRecord(ctx context.Context, photo *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, *photo)
	return nil
}

func (f *fakeRemote) QueryPhotos(ctx context.Context, eventID string, offset, limit int) ([]models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var matched []models.Photo
	for _, p := range f.photos {
		if p.EventID == eventID {
			matched = append(matched, p)
		}
	}
	if offset >= len(matched) {
		return nil, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (f *fakeRemote) CountPhotos(ctx context.Context, eventID, deviceID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	count := 0
	for _, p := range f.photos {
		if p.EventID == eventID && p.DeviceID != nil && *p.DeviceID == deviceID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRemote) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.photos {
		if f.photos[i].ID == id {
			photo := f.photos[i]
			return &photo, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeRemote) DeleteStorageObject(ctx context.Context, reference string) error {
	return f.deleteObjErr
}

func (f *fakeRemote) DeleteRecord(ctx context.Context, id string) error {
	if f.deleteRecErr != nil {
		return f.deleteRecErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.photos {
		if f.photos[i].ID == id {
			f.photos = append(f.photos[:i], f.photos[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeRemote) IncrementReaction(ctx context.Context, id, kind string) error { return nil }
func (f *fakeRemote) IncrementViews(ctx context.Context, id string) error          { return nil }

func (f *fakeRemote) ResolvePublicURL(reference string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resolveCalls++
	return "https://cdn.example.com/" + reference
}

func (f *fakeRemote) addPhotos(eventID, deviceID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := 0; i < n; i++ {
		id := deviceID
		f.photos = append(f.photos, models.Photo{
			ID:          eventID + "-" + deviceID + "-" + string(rune('a'+i%26)) + string(rune('a'+i/26)),
			EventID:     eventID,
			DeviceID:    &id,
			StoragePath: "events/" + eventID + "/x.jpg",
		})
	}
}

func jpegBase64(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for x := 0; x < 16; x++ {
		for y := 0; y < 16; y++ {
			img.Set(x, y, color.RGBA{R: 120, G: 80, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg fixture: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}
