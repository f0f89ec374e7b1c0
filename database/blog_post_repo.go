package database

import (
	"errors"
	"strings"

	"github.com/angelbv/cvweb-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPerPage caps the page size the read path will serve.
const MaxPerPage = 24

// DefaultPerPage is used when the caller supplies no page size.
const DefaultPerPage = 9

type BlogPostRepo struct {
	db *gorm.DB
}

func NewBlogPostRepo(db *gorm.DB) *BlogPostRepo {
	return &BlogPostRepo{db}
}

// PostFilter narrows a post listing. Zero values mean "no constraint";
// drafts are hidden unless IncludeDrafts is set.
type PostFilter struct {
	Query         string
	Tag           string
	Page          int
	PerPage       int
	IncludeDrafts bool
}

// PostPage is one page of a filtered listing.
type PostPage struct {
	Posts   []*models.BlogPost
	Total   int64
	Pages   int
	Page    int
	PerPage int
}

// List returns a paginated, filtered post listing ordered by publish date
// then creation date, newest first. Page and per-page values are clamped.
func (r *BlogPostRepo) List(f PostFilter) (*PostPage, error) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	perPage := f.PerPage
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	query := r.db.Model(&models.BlogPost{}).Preload("Tags")
	if !f.IncludeDrafts {
		query = query.Where("is_published = ?", true)
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(slug) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?",
			like, like, like, like,
		)
	}
	if tag := strings.TrimSpace(f.Tag); tag != "" {
		query = query.
			Joins("JOIN post_tags ON post_tags.blog_post_id = blog_posts.id").
			Joins("JOIN blog_tags ON blog_tags.id = post_tags.blog_tag_id").
			Where("blog_tags.slug = ?", tag)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	if page > pages {
		page = pages
	}

	var posts []*models.BlogPost
	err := query.
		Order("published_at DESC").
		Order("created_at DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}

	return &PostPage{Posts: posts, Total: total, Pages: pages, Page: page, PerPage: perPage}, nil
}

// FindByID returns a post with its tags, or nil when absent.
func (r *BlogPostRepo) FindByID(id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	err := r.db.Preload("Tags").First(&post, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindBySlug returns a post by slug, or nil when absent. Drafts are only
// visible when includeDrafts is set.
func (r *BlogPostRepo) FindBySlug(slug string, includeDrafts bool) (*models.BlogPost, error) {
	query := r.db.Preload("Tags").Where("slug = ?", slug)
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}
	var post models.BlogPost
	err := query.First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RecentPublished returns the most recent published posts for the feed.
func (r *BlogPostRepo) RecentPublished(limit int) ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := r.db.Where("is_published = ?", true).
		Order("published_at DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// FindAll returns every post, drafts included, newest first. Admin listing.
func (r *BlogPostRepo) FindAll() ([]*models.BlogPost, error) {
	var posts []*models.BlogPost
	err := r.db.Preload("Tags").Order("created_at DESC").Find(&posts).Error
	return posts, err
}
