package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

// Runtime upload state must default under data/, never into one of the
// repo's Go package directories.
func TestDefaultStateDirs(t *testing.T) {
	for _, dir := range []string{defaultImagesDir, defaultDocumentsDir} {
		assert.True(t, strings.HasPrefix(dir, "data/"), dir)
	}
}

func TestOpenDatabaseSqliteFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	c := map[string]string{"SQLITE_PATH": path}

	db, err := openDatabase(c, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
