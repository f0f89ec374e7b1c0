package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/angelbv/cvweb-backend/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, EnsureSchema(db))
	return db
}

func seedPost(t *testing.T, db *gorm.DB, slug string, published bool, at time.Time, tags ...models.BlogTag) *models.BlogPost {
	t.Helper()
	post := &models.BlogPost{
		Slug:        slug,
		Title:       "Post " + slug,
		Content:     "Content of " + slug,
		IsPublished: published,
		Tags:        tags,
	}
	if published {
		post.PublishedAt = &at
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
