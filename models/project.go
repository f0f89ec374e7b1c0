package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project represents a portfolio entry with its uploaded images and
// optional code snippets
type Project struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string    `json:"title" db:"title" gorm:"type:text;not null"`
	Slug            string    `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description     string    `json:"description" db:"description" gorm:"type:text;not null"`
	LongDescription *string   `json:"long_description,omitempty" db:"long_description" gorm:"type:text"`
	Technologies    *string   `json:"technologies,omitempty" db:"technologies" gorm:"type:text"`
	GithubURL       *string   `json:"github_url,omitempty" db:"github_url" gorm:"type:text"`
	WebsiteURL      *string   `json:"website_url,omitempty" db:"website_url" gorm:"type:text"`
	CategorySlug    string    `json:"category_slug" db:"category_slug" gorm:"type:text;not null"`
	// CreatedAt doubles as the user-editable publish date shown on the site.
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`

	Images []ProjectImage `json:"images,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
	Code   []ProjectCode  `json:"code,omitempty" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// ProjectImage is a stored image reference belonging to a project. ImagePath
// holds the generated on-disk filename, never the uploader's original name.
type ProjectImage struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_image_project_id"`
	ImagePath string    `json:"image_path" db:"image_path" gorm:"type:text;not null"`
	Caption   *string   `json:"caption,omitempty" db:"caption" gorm:"type:text"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID"`
}

func (i *ProjectImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// ProjectCode is an optional labeled code snippet attached to a project.
// Schema only; no route exercises it yet.
type ProjectCode struct {
	ID          uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID   uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_code_project_id"`
	FileName    string    `json:"file_name" db:"file_name" gorm:"type:text"`
	Language    string    `json:"language" db:"language" gorm:"type:text"`
	CodeSnippet string    `json:"code_snippet" db:"code_snippet" gorm:"type:text"`

	Project Project `json:"-" gorm:"foreignKey:ProjectID;references:ID"`
}

func (c *ProjectCode) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
