package database

import (
	"errors"

	"github.com/angelbv/cvweb-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns all projects ordered most recent first.
func (r *ProjectRepo) FindAll() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Preload("Images").Order("created_at DESC").Find(&projects).Error
	return projects, err
}

// FindByID returns a project with its images, or nil when absent.
func (r *ProjectRepo) FindByID(id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Images").Preload("Code").First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its unique slug, or nil when absent.
func (r *ProjectRepo) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Images").Preload("Code").Where("slug = ?", slug).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// CategoryCounts returns the number of projects per category slug.
func (r *ProjectRepo) CategoryCounts() (map[string]int, error) {
	type row struct {
		CategorySlug string
		N            int
	}
	var rows []row
	err := r.db.Model(&models.Project{}).
		Select("category_slug, COUNT(*) AS n").
		Group("category_slug").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, rw := range rows {
		counts[rw.CategorySlug] = rw.N
	}
	return counts, nil
}
