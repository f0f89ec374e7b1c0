package services

import (
	"context"
	"testing"
	"time"

	"github.com/angelbv/cvweb-backend/errs"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPostInput() PostInput {
	return PostInput{
		Title:   "Building a Weather Station",
		Slug:    "building-a-weather-station",
		Content: "Long-form content goes here.",
	}
}

func TestBlogCreate(t *testing.T) {
	db, store := newTestEnv(t)
	svc := NewBlogService(db, store)
	ctx := context.Background()

	t.Run("draft has no publish timestamp", func(t *testing.T) {
		post, err := svc.Create(ctx, owner(), validPostInput(), nil)
		require.NoError(t, err)
		assert.False(t, post.IsPublished)
		assert.Nil(t, post.PublishedAt)
	})

	t.Run("publishing without a date stamps now", func(t *testing.T) {
		in := validPostInput()
		in.Slug = "published-now"
		in.IsPublished = true
		post, err := svc.Create(ctx, owner(), in, nil)
		require.NoError(t, err)
		require.NotNil(t, post.PublishedAt)
		assert.WithinDuration(t, time.Now().UTC(), *post.PublishedAt, time.Minute)
	})

	t.Run("publishing with an explicit date keeps it", func(t *testing.T) {
		in := validPostInput()
		in.Slug = "published-dated"
		in.IsPublished = true
		in.PublishedAt = "2023-11-05 08:00"
		post, err := svc.Create(ctx, owner(), in, nil)
		require.NoError(t, err)
		require.NotNil(t, post.PublishedAt)
		assert.Equal(t, time.Date(2023, 11, 5, 8, 0, 0, 0, time.UTC), post.PublishedAt.UTC())
	})

	t.Run("tag names collapse onto one slug", func(t *testing.T) {
		in := validPostInput()
		in.Slug = "tagged"
		in.Tags = "Data, data , DATA , Side Projects"
		post, err := svc.Create(ctx, owner(), in, nil)
		require.NoError(t, err)

		require.Len(t, post.Tags, 2)
		slugs := []string{post.Tags[0].Slug, post.Tags[1].Slug}
		assert.Contains(t, slugs, "data")
		assert.Contains(t, slugs, "side-projects")
	})

	t.Run("existing tags are reused, not duplicated", func(t *testing.T) {
		in := validPostInput()
		in.Slug = "tagged-again"
		in.Tags = "data"
		_, err := svc.Create(ctx, owner(), in, nil)
		require.NoError(t, err)

		var count int64
		require.NoError(t, db.Model(&models.BlogTag{}).Where("slug = ?", "data").Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("missing required fields are rejected", func(t *testing.T) {
		in := validPostInput()
		in.Content = ""
		_, err := svc.Create(ctx, owner(), in, nil)
		assert.True(t, errs.IsValidation(err))
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		_, err := svc.Create(ctx, visitor(), validPostInput(), nil)
		assert.Error(t, err)
	})
}

func TestBlogPublishTransitions(t *testing.T) {
	db, store := newTestEnv(t)
	svc := NewBlogService(db, store)
	ctx := context.Background()

	in := validPostInput()
	in.IsPublished = true
	in.PublishedAt = "2023-11-05 08:30"
	post, err := svc.Create(ctx, owner(), in, nil)
	require.NoError(t, err)
	firstPublished := *post.PublishedAt

	t.Run("unpublishing clears the timestamp", func(t *testing.T) {
		edit := in
		edit.IsPublished = false
		edit.PublishedAt = ""
		updated, err := svc.Update(ctx, owner(), post.ID, edit, nil)
		require.NoError(t, err)
		assert.False(t, updated.IsPublished)
		assert.Nil(t, updated.PublishedAt)
	})

	t.Run("republishing without a date stamps now again", func(t *testing.T) {
		edit := in
		edit.PublishedAt = ""
		updated, err := svc.Update(ctx, owner(), post.ID, edit, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		assert.WithinDuration(t, time.Now().UTC(), *updated.PublishedAt, time.Minute)
		assert.NotEqual(t, firstPublished, *updated.PublishedAt)
	})

	t.Run("date-only edit keeps the time of day", func(t *testing.T) {
		before, err := svc.reloadPost(ctx, post.ID)
		require.NoError(t, err)
		require.NotNil(t, before.PublishedAt)

		edit := in
		edit.PublishedAt = "2024-01-10"
		updated, err := svc.Update(ctx, owner(), post.ID, edit, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)

		at := updated.PublishedAt.UTC()
		assert.Equal(t, 2024, at.Year())
		assert.Equal(t, time.January, at.Month())
		assert.Equal(t, 10, at.Day())
		assert.Equal(t, before.PublishedAt.UTC().Hour(), at.Hour())
		assert.Equal(t, before.PublishedAt.UTC().Minute(), at.Minute())
	})

	t.Run("staying published without a date keeps the timestamp", func(t *testing.T) {
		before, err := svc.reloadPost(ctx, post.ID)
		require.NoError(t, err)
		require.NotNil(t, before.PublishedAt)

		edit := in
		edit.Title = "Building a Weather Station, revised"
		edit.PublishedAt = ""
		updated, err := svc.Update(ctx, owner(), post.ID, edit, nil)
		require.NoError(t, err)
		require.NotNil(t, updated.PublishedAt)
		assert.True(t, before.PublishedAt.Equal(*updated.PublishedAt))
	})
}

func TestBlogCoverLifecycle(t *testing.T) {
	db, store := newTestEnv(t)
	svc := NewBlogService(db, store)
	ctx := context.Background()

	post, err := svc.Create(ctx, owner(), validPostInput(), pngUpload("cover.png", "v1").ptr())
	require.NoError(t, err)
	require.NotNil(t, post.CoverImagePath)
	firstCover := *post.CoverImagePath
	assert.True(t, store.Exists(store.BlogImagePath(firstCover)))

	t.Run("replacing the cover removes the old file", func(t *testing.T) {
		updated, err := svc.Update(ctx, owner(), post.ID, validPostInput(), pngUpload("cover2.png", "v2").ptr())
		require.NoError(t, err)
		require.NotNil(t, updated.CoverImagePath)
		assert.NotEqual(t, firstCover, *updated.CoverImagePath)
		assert.True(t, store.Exists(store.BlogImagePath(*updated.CoverImagePath)))
		assert.False(t, store.Exists(store.BlogImagePath(firstCover)))
	})

	t.Run("remove flag clears the cover", func(t *testing.T) {
		in := validPostInput()
		in.RemoveCover = true
		updated, err := svc.Update(ctx, owner(), post.ID, in, nil)
		require.NoError(t, err)
		assert.Nil(t, updated.CoverImagePath)
		assert.Zero(t, countFiles(t, store.BlogImagePath("")))
	})

	t.Run("unsupported cover type is rejected", func(t *testing.T) {
		_, err := svc.Update(ctx, owner(), post.ID, validPostInput(), pngUpload("cover.svg", "x").ptr())
		assert.Error(t, err)
	})
}

func TestBlogDelete(t *testing.T) {
	db, store := newTestEnv(t)
	svc := NewBlogService(db, store)
	ctx := context.Background()

	in := validPostInput()
	in.Tags = "go, sqlite"
	post, err := svc.Create(ctx, owner(), in, pngUpload("cover.png", "v1").ptr())
	require.NoError(t, err)

	t.Run("rejects non-owner", func(t *testing.T) {
		require.Error(t, svc.Delete(ctx, visitor(), post.ID))
	})

	t.Run("removes the post but keeps tag rows", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, owner(), post.ID))

		var posts, tags, links int64
		require.NoError(t, db.Model(&models.BlogPost{}).Count(&posts).Error)
		require.NoError(t, db.Model(&models.BlogTag{}).Count(&tags).Error)
		require.NoError(t, db.Table("post_tags").Count(&links).Error)
		assert.Zero(t, posts)
		assert.EqualValues(t, 2, tags)
		assert.Zero(t, links)
		assert.Zero(t, countFiles(t, store.BlogImagePath("")))
	})

	t.Run("unknown post yields not found", func(t *testing.T) {
		assert.True(t, errs.IsNotFound(svc.Delete(ctx, owner(), uuid.New())))
	})
}

func (u ImageUpload) ptr() *ImageUpload {
	return &u
}

func TestBlogCreateCompensation(t *testing.T) {
	db, store := newTestEnv(t)
	svc := NewBlogService(db, store)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner(), validPostInput(), nil)
	require.NoError(t, err)

	// Same slug again, this time with a cover: the insert hits the unique
	// slug index only after the cover file is already on disk, so the
	// rollback must take the file with it.
	_, err = svc.Create(ctx, owner(), validPostInput(), pngUpload("cover.png", "v1").ptr())
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.BlogPost{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	assert.Zero(t, countFiles(t, store.BlogImagePath("")))
}
