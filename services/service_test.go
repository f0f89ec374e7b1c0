package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/angelbv/cvweb-backend/database"
	"github.com/angelbv/cvweb-backend/uploads"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestEnv opens a throwaway sqlite database and a file store rooted in a
// temp directory, both torn down with the test.
func newTestEnv(t *testing.T) (*gorm.DB, *uploads.Store) {
	t.Helper()

	dir := t.TempDir()
	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))

	store, err := uploads.New(filepath.Join(dir, "images"), filepath.Join(dir, "documents"), "cv_test.pdf")
	require.NoError(t, err)
	return db, store
}

func owner() Caller {
	return Caller{UserID: uuid.New(), Owner: true}
}

func visitor() Caller {
	return Caller{}
}

// countFiles counts regular files under dir without descending.
func countFiles(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n
}
