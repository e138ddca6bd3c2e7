package models

import "time"

// Photo is a confirmed, server-acknowledged capture visible in the event
// gallery. UploadKey carries the booth-generated capture ID; its unique index
// is what turns a replayed upload attempt into a duplicate conflict instead
// of a second record.
type Photo struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	EventID       string    `gorm:"not null;type:varchar(36);index:idx_photos_event_uploaded,priority:1" json:"event_id"`
	DeviceID      *string   `gorm:"type:varchar(64);index" json:"device_id"`
	UploadKey     string    `gorm:"not null;uniqueIndex" json:"upload_key"`
	StoragePath   string    `gorm:"not null" json:"storage_path"`
	ThumbnailPath string    `json:"thumbnail_path"`
	UploadedAt    time.Time `gorm:"index:idx_photos_event_uploaded,priority:2,sort:desc" json:"uploaded_at"`
	Reactions     Reactions `gorm:"embedded;embeddedPrefix:reaction_" json:"reactions"`
	Views         int       `json:"views"`
}

// Reactions is the fixed set of named counters guests can bump on a photo.
type Reactions struct {
	Heart int `json:"heart"`
	Laugh int `json:"laugh"`
	Wow   int `json:"wow"`
	Clap  int `json:"clap"`
}

// ReactionKinds lists the accepted reaction names, matching the Reactions
// columns.
var ReactionKinds = []string{"heart", "laugh", "wow", "clap"}
