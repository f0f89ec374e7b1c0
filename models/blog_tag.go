package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogTag is a normalized label shared across posts. Tags are created lazily
// the first time a post references them by name and are never deleted when
// the last referencing post goes away.
type BlogTag struct {
	ID   uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex"`
	Slug string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`

	Posts []BlogPost `json:"-" gorm:"many2many:post_tags"`
}

func (t *BlogTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
