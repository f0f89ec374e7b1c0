package services

import (
	"context"
	"time"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/angelbv/cvweb-backend/uploads"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PostInput carries the scalar form fields of a blog post create/edit.
type PostInput struct {
	Title           string
	Slug            string
	Excerpt         string
	Content         string
	MetaTitle       string
	MetaDescription string
	Tags            string // "comma,separated,names"
	IsPublished     bool
	PublishedAt     string // optional date or datetime string
	RemoveCover     bool   // clear the cover without supplying a replacement
}

// BlogService orchestrates the blog post write path, including cover image
// lifecycle and lazy tag resolution.
type BlogService struct {
	db     *gorm.DB
	store  *uploads.Store
	logger zerolog.Logger
}

func NewBlogService(db *gorm.DB, store *uploads.Store) *BlogService {
	return &BlogService{
		db:     db,
		store:  store,
		logger: log.With().Str("serviceName", "blogService").Logger(),
	}
}

// Create persists a new post with its optional cover image and tag set.
func (s *BlogService) Create(ctx context.Context, caller Caller, in PostInput, cover *ImageUpload) (*models.BlogPost, error) {
	if !caller.Owner {
		return nil, errs.NewUnauthorizedError("only the site owner can create posts")
	}
	if err := validatePostInput(in); err != nil {
		return nil, err
	}
	parsed, _, err := ParseFlexibleTime(in.PublishedAt)
	if err != nil {
		return nil, errs.NewValidationError("published_at", "unrecognized date format")
	}
	if err := validateCover(cover); err != nil {
		return nil, err
	}

	post := &models.BlogPost{
		Title:           in.Title,
		Slug:            in.Slug,
		Excerpt:         optional(in.Excerpt),
		Content:         in.Content,
		MetaTitle:       optional(in.MetaTitle),
		MetaDescription: optional(in.MetaDescription),
		IsPublished:     in.IsPublished,
	}
	if in.IsPublished {
		at := parsed
		if at.IsZero() {
			at = time.Now().UTC()
		}
		post.PublishedAt = &at
	}

	var written []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.saveCover(post, cover, &written); err != nil {
			return err
		}
		if err := tx.Create(post).Error; err != nil {
			return errs.NewDatabaseError("create", "blog post", err)
		}
		return s.replaceTags(tx, post, in.Tags)
	})
	if txErr != nil {
		s.removeWrittenCovers(written)
		return nil, asWriteError("create blog post", txErr)
	}

	return s.reloadPost(ctx, post.ID)
}

// Update replaces a post's fields and tag set, applies the publish-state
// transition rules, and manages the cover image lifecycle. The previous
// cover file, when replaced or removed, is deleted only after the commit.
func (s *BlogService) Update(ctx context.Context, caller Caller, id uuid.UUID, in PostInput, cover *ImageUpload) (*models.BlogPost, error) {
	if !caller.Owner {
		return nil, errs.NewUnauthorizedError("only the site owner can edit posts")
	}

	var post models.BlogPost
	if err := s.db.WithContext(ctx).Preload("Tags").First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errs.NewNotFound("blog post")
		}
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}

	if err := validatePostInput(in); err != nil {
		return nil, err
	}
	parsed, dateOnly, err := ParseFlexibleTime(in.PublishedAt)
	if err != nil {
		return nil, errs.NewValidationError("published_at", "unrecognized date format")
	}
	if err := validateCover(cover); err != nil {
		return nil, err
	}

	post.Title = in.Title
	post.Slug = in.Slug
	post.Excerpt = optional(in.Excerpt)
	post.Content = in.Content
	post.MetaTitle = optional(in.MetaTitle)
	post.MetaDescription = optional(in.MetaDescription)
	post.IsPublished = in.IsPublished

	// Publish transitions: publishing takes the explicit date when one was
	// supplied, else "now" only if the post was never published before.
	// Unpublishing always clears the timestamp.
	switch {
	case !in.IsPublished:
		post.PublishedAt = nil
	case !parsed.IsZero():
		at := parsed
		if post.PublishedAt != nil {
			at = MergeDate(*post.PublishedAt, parsed, dateOnly)
		}
		post.PublishedAt = &at
	case post.PublishedAt == nil:
		now := time.Now().UTC()
		post.PublishedAt = &now
	}

	var oldCover string
	if post.CoverImagePath != nil {
		oldCover = *post.CoverImagePath
	}
	coverReplaced := false
	if cover == nil && in.RemoveCover && post.CoverImagePath != nil {
		post.CoverImagePath = nil
		coverReplaced = true
	}

	var written []string
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if cover != nil {
			if err := s.saveCover(&post, cover, &written); err != nil {
				return err
			}
			coverReplaced = oldCover != ""
		}
		if err := tx.Model(&models.BlogPost{}).Where("id = ?", post.ID).
			Select("Title", "Slug", "Excerpt", "Content", "MetaTitle", "MetaDescription",
				"IsPublished", "PublishedAt", "CoverImagePath", "UpdatedAt").
			Updates(&post).Error; err != nil {
			return errs.NewDatabaseError("update", "blog post", err)
		}
		return s.replaceTags(tx, &post, in.Tags)
	})
	if txErr != nil {
		s.removeWrittenCovers(written)
		return nil, asWriteError("update blog post", txErr)
	}

	if coverReplaced && oldCover != "" {
		if err := s.store.RemoveBlogImage(oldCover); err != nil {
			s.logger.Warn().Err(err).Str("cover", oldCover).Msg("failed to remove replaced cover file")
		}
	}

	return s.reloadPost(ctx, post.ID)
}

// Delete removes the post row and its tag associations, then removes the
// cover file best-effort.
func (s *BlogService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if !caller.Owner {
		return errs.NewUnauthorizedError("only the site owner can delete posts")
	}

	var post models.BlogPost
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errs.NewNotFound("blog post")
		}
		return errs.NewDatabaseError("find", "blog post", err)
	}

	var coverPath string
	if post.CoverImagePath != nil {
		coverPath = *post.CoverImagePath
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Only the association rows go; tag rows outlive their last post.
		if err := tx.Model(&post).Association("Tags").Clear(); err != nil {
			return errs.NewDatabaseError("clear", "post tags", err)
		}
		if err := tx.Delete(&models.BlogPost{}, "id = ?", post.ID).Error; err != nil {
			return errs.NewDatabaseError("delete", "blog post", err)
		}
		return nil
	})
	if txErr != nil {
		return asWriteError("delete blog post", txErr)
	}

	if coverPath != "" {
		if err := s.store.RemoveBlogImage(coverPath); err != nil {
			s.logger.Warn().Err(err).Str("cover", coverPath).Msg("failed to remove cover file after delete")
		}
	}
	return nil
}

// replaceTags resolves each submitted name to a tag row by its derived slug,
// creating missing tags lazily, and fully replaces the post's tag set.
func (s *BlogService) replaceTags(tx *gorm.DB, post *models.BlogPost, csv string) error {
	names := SplitTags(csv)
	tags := make([]models.BlogTag, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		slug := Slugify(name, TagSlugMaxLen, "tag")
		if seen[slug] {
			continue
		}
		seen[slug] = true

		var tag models.BlogTag
		err := tx.Where("slug = ?", slug).First(&tag).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			tag = models.BlogTag{Name: name, Slug: slug}
			if err := tx.Create(&tag).Error; err != nil {
				return errs.NewDatabaseError("create", "blog tag", err)
			}
		case err != nil:
			return errs.NewDatabaseError("find", "blog tag", err)
		}
		tags = append(tags, tag)
	}

	if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
		return errs.NewDatabaseError("replace", "post tags", err)
	}
	return nil
}

// saveCover writes the uploaded cover under a generated name and points the
// post at it. The written name is tracked for compensation.
func (s *BlogService) saveCover(post *models.BlogPost, cover *ImageUpload, written *[]string) error {
	if cover == nil || cover.Filename == "" {
		return nil
	}
	name := uploads.UniqueName(cover.Filename)
	if err := s.store.WriteBlogImage(name, cover.Content); err != nil {
		return errs.NewStorageError("write", name, err)
	}
	*written = append(*written, name)
	post.CoverImagePath = &name
	return nil
}

func (s *BlogService) removeWrittenCovers(written []string) {
	for _, name := range written {
		if err := s.store.RemoveBlogImage(name); err != nil {
			s.logger.Warn().Err(err).Str("cover", name).Msg("failed to clean up cover file after rollback")
		}
	}
}

func (s *BlogService) reloadPost(ctx context.Context, id uuid.UUID) (*models.BlogPost, error) {
	var post models.BlogPost
	if err := s.db.WithContext(ctx).Preload("Tags").First(&post, "id = ?", id).Error; err != nil {
		return nil, errs.NewDatabaseError("find", "blog post", err)
	}
	return &post, nil
}

func validatePostInput(in PostInput) error {
	switch {
	case in.Title == "":
		return errs.NewValidationError("title", "title is required")
	case in.Slug == "":
		return errs.NewValidationError("slug", "slug is required")
	case in.Content == "":
		return errs.NewValidationError("content", "content is required")
	}
	return nil
}

func validateCover(cover *ImageUpload) error {
	if cover == nil || cover.Filename == "" {
		return nil
	}
	if !uploads.AllowedImage(cover.Filename) {
		return errs.NewValidationError("cover_image", "unsupported image type")
	}
	return nil
}
