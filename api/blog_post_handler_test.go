package api

import (
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newFeedHandler(t *testing.T) blogPostHandler {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))

	at := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	excerpt := "A short <b>summary</b> with ]]> inside."
	require.NoError(t, db.Create(&models.BlogPost{
		Slug:        "tricky-post",
		Title:       "Escaping <CDATA> correctly",
		Excerpt:     &excerpt,
		Content:     "body",
		IsPublished: true,
		PublishedAt: &at,
	}).Error)
	require.NoError(t, db.Create(&models.BlogPost{
		Slug:        "hidden-draft",
		Title:       "Not done yet",
		Content:     "body",
		IsPublished: false,
	}).Error)

	return newBlogPostHandler(
		database.NewBlogPostRepo(db),
		database.NewBlogTagRepo(db),
		nil,
		map[string]string{"BASE_URL": "https://example.com/"},
	)
}

func TestRSSFeed(t *testing.T) {
	handler := newFeedHandler(t)

	rec := httptest.NewRecorder()
	handler.rss()(rec, httptest.NewRequest("GET", "/blog/rss.xml", nil))

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")

	body := rec.Body.String()
	assert.Contains(t, body, `<rss version="2.0">`)
	assert.Contains(t, body, "<link>https://example.com/blog/tricky-post</link>")
	assert.Contains(t, body, "<pubDate>Fri, 01 Mar 2024 09:30:00 +0000</pubDate>")
	assert.Contains(t, body, "<title><![CDATA[Escaping <CDATA> correctly]]></title>")
	// Drafts never reach the feed.
	assert.NotContains(t, body, "hidden-draft")
	// The CDATA terminator in the excerpt must not close the block early.
	assert.NotContains(t, body, "with ]]> inside")
	assert.Contains(t, body, "with ]]]]><![CDATA[> inside")
}

func TestCDATAEscape(t *testing.T) {
	assert.Equal(t, "plain", cdataEscape("plain"))
	assert.Equal(t, "a]]]]><![CDATA[>b", cdataEscape("a]]>b"))
	assert.Equal(t, "]]]]><![CDATA[>]]]]><![CDATA[>", cdataEscape("]]>]]>"))
}
