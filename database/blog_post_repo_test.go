package database

import (
	"fmt"
	"testing"
	"time"

	"github.com/angelbv/cvweb-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 30; i++ {
		seedPost(t, db, fmt.Sprintf("post-%02d", i), true, base.Add(time.Duration(i)*time.Hour))
	}

	t.Run("defaults apply when unset", func(t *testing.T) {
		page, err := repo.List(PostFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 30, page.Total)
		assert.Equal(t, DefaultPerPage, page.PerPage)
		assert.Equal(t, 1, page.Page)
		assert.Len(t, page.Posts, DefaultPerPage)
	})

	t.Run("per-page is capped", func(t *testing.T) {
		page, err := repo.List(PostFilter{PerPage: 500})
		require.NoError(t, err)
		assert.Equal(t, MaxPerPage, page.PerPage)
		assert.Len(t, page.Posts, MaxPerPage)
		assert.Equal(t, 2, page.Pages)
	})

	t.Run("page beyond the end clamps to the last page", func(t *testing.T) {
		page, err := repo.List(PostFilter{Page: 99, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Page)
		assert.Len(t, page.Posts, 10)
	})

	t.Run("newest first", func(t *testing.T) {
		page, err := repo.List(PostFilter{PerPage: 3})
		require.NoError(t, err)
		require.Len(t, page.Posts, 3)
		assert.Equal(t, "post-29", page.Posts[0].Slug)
		assert.Equal(t, "post-28", page.Posts[1].Slug)
	})
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)

	goTag := models.BlogTag{Name: "Go", Slug: "go"}
	now := time.Now().UTC()
	seedPost(t, db, "generics-deep-dive", true, now, goTag)
	seedPost(t, db, "sqlite-tricks", true, now.Add(-time.Hour))
	draft := seedPost(t, db, "unfinished-thoughts", false, time.Time{})

	t.Run("drafts hidden by default", func(t *testing.T) {
		page, err := repo.List(PostFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, page.Total)
	})

	t.Run("drafts visible to the owner", func(t *testing.T) {
		page, err := repo.List(PostFilter{IncludeDrafts: true})
		require.NoError(t, err)
		assert.EqualValues(t, 3, page.Total)
	})

	t.Run("search is case-insensitive over several columns", func(t *testing.T) {
		page, err := repo.List(PostFilter{Query: "GENERICS"})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		assert.Equal(t, "generics-deep-dive", page.Posts[0].Slug)

		page, err = repo.List(PostFilter{Query: "content of sqlite"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, page.Total)
	})

	t.Run("tag filter matches by slug", func(t *testing.T) {
		page, err := repo.List(PostFilter{Tag: "go"})
		require.NoError(t, err)
		require.EqualValues(t, 1, page.Total)
		assert.Equal(t, "generics-deep-dive", page.Posts[0].Slug)

		page, err = repo.List(PostFilter{Tag: "no-such-tag"})
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})

	t.Run("find by slug respects draft visibility", func(t *testing.T) {
		post, err := repo.FindBySlug(draft.Slug, false)
		require.NoError(t, err)
		assert.Nil(t, post)

		post, err = repo.FindBySlug(draft.Slug, true)
		require.NoError(t, err)
		require.NotNil(t, post)
		assert.Equal(t, draft.ID, post.ID)

		post, err = repo.FindBySlug("missing", true)
		require.NoError(t, err)
		assert.Nil(t, post)
	})
}

func TestRecentPublished(t *testing.T) {
	db := newTestDB(t)
	repo := NewBlogPostRepo(db)

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPost(t, db, fmt.Sprintf("feed-%d", i), true, base.Add(time.Duration(i)*time.Hour))
	}
	seedPost(t, db, "feed-draft", false, time.Time{})

	posts, err := repo.RecentPublished(3)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "feed-4", posts[0].Slug)
	assert.Equal(t, "feed-3", posts[1].Slug)
	for _, p := range posts {
		assert.True(t, p.IsPublished)
	}
}
