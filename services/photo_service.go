package services

import (
	"context"

	"github.com/snapbooth/snapbooth/config"
	"github.com/snapbooth/snapbooth/db"
	"github.com/snapbooth/snapbooth/models"
)

// RemotePhotoService is the backend collaborator the booth pipeline talks to:
// object storage for the bytes, the photo table for the records. The uploader,
// quota tracker and gallery all depend on this interface, not on S3 or GORM.
type RemotePhotoService interface {
	UploadBinary(ctx context.Context, key string, payload []byte, contentType string) (string, error)
	// InsertPhotoRecord returns apperrors.ErrDuplicateConflict when a record
	// for the same upload key already exists.
	InsertPhotoRecord(ctx context.Context, photo *models.Photo) error
	QueryPhotos(ctx context.Context, eventID string, offset, limit int) ([]models.Photo, error)
	CountPhotos(ctx context.Context, eventID, deviceID string) (int, error)
	GetPhoto(ctx context.Context, id string) (*models.Photo, error)
	DeleteStorageObject(ctx context.Context, reference string) error
	DeleteRecord(ctx context.Context, id string) error
	IncrementReaction(ctx context.Context, id, kind string) error
	IncrementViews(ctx context.Context, id string) error
	ResolvePublicURL(reference string) string
}

type photoService struct {
	objects   *db.ObjectStore
	photoRepo db.PhotoRepository
	conf      *config.Config
}

func NewPhotoService(objects *db.ObjectStore, photoRepo db.PhotoRepository, conf *config.Config) RemotePhotoService {
	return &photoService{
		objects:   objects,
		photoRepo: photoRepo,
		conf:      conf,
	}
}

func (s *photoService) UploadBinary(ctx context.Context, key string, payload []byte, contentType string) (string, error) {
	return s.objects.UploadBytes(ctx, key, payload, contentType)
}

func (s *photoService) InsertPhotoRecord(ctx context.Context, photo *models.Photo) error {
	return s.photoRepo.SavePhoto(photo)
}

func (s *photoService) QueryPhotos(ctx context.Context, eventID string, offset, limit int) ([]models.Photo, error) {
	return s.photoRepo.ListPhotosByEvent(eventID, offset, limit)
}

func (s *photoService) CountPhotos(ctx context.Context, eventID, deviceID string) (int, error) {
	return s.photoRepo.CountPhotosByDevice(eventID, deviceID)
}

func (s *photoService) GetPhoto(ctx context.Context, id string) (*models.Photo, error) {
	return s.photoRepo.GetPhotoByID(id)
}

func (s *photoService) DeleteStorageObject(ctx context.Context, reference string) error {
	return s.objects.DeleteObject(ctx, reference)
}

func (s *photoService) DeleteRecord(ctx context.Context, id string) error {
	return s.photoRepo.DeletePhoto(id)
}

func (s *photoService) IncrementReaction(ctx context.Context, id, kind string) error {
	return s.photoRepo.IncrementReaction(id, kind)
}

func (s *photoService) IncrementViews(ctx context.Context, id string) error {
	return s.photoRepo.IncrementViews(id)
}

func (s *photoService) ResolvePublicURL(reference string) string {
	return s.objects.ResolvePublicURL(reference)
}
