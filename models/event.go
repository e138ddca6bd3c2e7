package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a booth session guests join by scanning its QR code.
type Event struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Slug      string    `gorm:"not null;uniqueIndex" json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}
