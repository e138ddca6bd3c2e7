package db

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/snapbooth/snapbooth/apperrors"
	"github.com/snapbooth/snapbooth/models"
	"gorm.io/gorm"
)

type EventRepository interface {
	CreateEvent(event *models.Event) error
	GetEventBySlug(slug string) (*models.Event, error)
	GetEventByID(id string) (*models.Event, error)
}

type eventRepo struct {
	DB *gorm.DB
}

func NewEventRepo(db *GormDB) EventRepository {
	return &eventRepo{db.DB}
}

func (repo *eventRepo) CreateEvent(event *models.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := repo.DB.Create(event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.New("event slug already taken", 409)
		}
		return errors.Wrap(err, "failed to create event")
	}
	return nil
}

func (repo *eventRepo) GetEventBySlug(slug string) (*models.Event, error) {
	var event models.Event
	err := repo.DB.First(&event, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get event")
	}
	return &event, nil
}

func (repo *eventRepo) GetEventByID(id string) (*models.Event, error) {
	var event models.Event
	err := repo.DB.First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, errors.Wrap(err, "failed to get event")
	}
	return &event, nil
}
