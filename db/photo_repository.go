package db

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/models"
	"gorm.io/gorm"
)

type PhotoRepository interface {
	SavePhoto(photo *models.Photo) error
	GetPhotoByID(id string) (*models.Photo, error)
	ListPhotosByEvent(eventID string, offset, limit int) ([]models.Photo, error)
	CountPhotosByDevice(eventID, deviceID string) (int, error)
	CountPhotosByEvent(eventID string) (int, error)
	DeletePhoto(id string) error
	IncrementReaction(id, kind string) error
	IncrementViews(id string) error
}

type photoRepo struct {
	DB *gorm.DB
}

func NewPhotoRepo(db *GormDB) PhotoRepository {
	return &photoRepo{db.DB}
}

// SavePhoto inserts a confirmed photo record. A second insert for the same
// upload key trips the unique index and comes back as
// apperrors.ErrDuplicateConflict so the uploader can treat the attempt as
// already done.
func (repo *photoRepo) SavePhoto(photo *models.Photo) error {
	if photo.ID == "" {
		photo.ID = uuid.New().String()
	}
	if photo.UploadedAt.IsZero() {
		photo.UploadedAt = time.Now().UTC()
	}

	if err := repo.DB.Create(photo).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.ErrDuplicateConflict
		}
		return errors.Wrap(err, "failed to insert photo record")
	}
	return nil
}

func (repo *photoRepo) GetPhotoByID(id string) (*models.Photo, error) {
	var photo models.Photo
	err := repo.DB.First(&photo, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get photo")
	}
	return &photo, nil
}

func (repo *photoRepo) ListPhotosByEvent(eventID string, offset, limit int) ([]models.Photo, error) {
	var photos []models.Photo
	err := repo.DB.Where("event_id = ?", eventID).
		Order("uploaded_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&photos).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list photos")
	}
	return photos, nil
}

func (repo *photoRepo) CountPhotosByDevice(eventID, deviceID string) (int, error) {
	var count int64
	err := repo.DB.Model(&models.Photo{}).
		Where("event_id = ? AND device_id = ?", eventID, deviceID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count photos for device")
	}
	return int(count), nil
}

func (repo *photoRepo) CountPhotosByEvent(eventID string) (int, error) {
	var count int64
	err := repo.DB.Model(&models.Photo{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	if err != nil {
		return 0, errors.Wrap(err, "failed to count photos for event")
	}
	return int(count), nil
}

func (repo *photoRepo) DeletePhoto(id string) error {
	result := repo.DB.Delete(&models.Photo{}, "id = ?", id)
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to delete photo record")
	}
	return nil
}

func (repo *photoRepo) IncrementReaction(id, kind string) error {
	valid := false
	for _, k := range models.ReactionKinds {
		if k == kind {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown reaction kind: %s", kind)
	}

	column := "reaction_" + kind
	result := repo.DB.Model(&models.Photo{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment reaction")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (repo *photoRepo) IncrementViews(id string) error {
	result := repo.DB.Model(&models.Photo{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to increment views")
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
