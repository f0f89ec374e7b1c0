package database

import (
	"errors"

	"github.com/angelbv/cvweb-backend/models"
	"gorm.io/gorm"
)

type BlogTagRepo struct {
	db *gorm.DB
}

func NewBlogTagRepo(db *gorm.DB) *BlogTagRepo {
	return &BlogTagRepo{db}
}

// FindAll returns all tags ordered by display name.
func (r *BlogTagRepo) FindAll() ([]*models.BlogTag, error) {
	var tags []*models.BlogTag
	err := r.db.Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindBySlug returns the tag with that slug, or nil when absent.
func (r *BlogTagRepo) FindBySlug(slug string) (*models.BlogTag, error) {
	var tag models.BlogTag
	err := r.db.Where("slug = ?", slug).First(&tag).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// PostCounts returns, per tag slug, how many posts reference the tag.
// Drafts are counted only when includeDrafts is set.
func (r *BlogTagRepo) PostCounts(includeDrafts bool) (map[string]int, error) {
	type row struct {
		Slug string
		N    int
	}
	query := r.db.Model(&models.BlogTag{}).
		Select("blog_tags.slug, COUNT(blog_posts.id) AS n").
		Joins("LEFT JOIN post_tags ON post_tags.blog_tag_id = blog_tags.id").
		Joins("LEFT JOIN blog_posts ON blog_posts.id = post_tags.blog_post_id")
	if !includeDrafts {
		query = query.Where("blog_posts.id IS NULL OR blog_posts.is_published = ?", true)
	}
	var rows []row
	if err := query.Group("blog_tags.slug").Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, rw := range rows {
		counts[rw.Slug] = rw.N
	}
	return counts, nil
}
