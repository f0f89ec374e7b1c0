package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	ID              uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Slug            string     `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Title           string     `json:"title" db:"title" gorm:"type:text;not null"`
	Excerpt         *string    `json:"excerpt,omitempty" db:"excerpt" gorm:"type:text"`
	Content         string     `json:"content" db:"content" gorm:"type:text;not null"`
	CoverImagePath  *string    `json:"cover_image_path,omitempty" db:"cover_image_path" gorm:"type:text"`
	MetaTitle       *string    `json:"meta_title,omitempty" db:"meta_title" gorm:"type:text"`
	MetaDescription *string    `json:"meta_description,omitempty" db:"meta_description" gorm:"type:text"`
	IsPublished     bool       `json:"is_published" db:"is_published" gorm:"not null;default:false"`
	PublishedAt     *time.Time `json:"published_at,omitempty" db:"published_at" gorm:"type:timestamp"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at" gorm:"type:timestamp;not null;autoCreateTime"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null;autoUpdateTime"`

	Tags []BlogTag `json:"tags,omitempty" gorm:"many2many:post_tags"`
}

func (p *BlogPost) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
