package database

import (
	"testing"

	"github.com/angelbv/cvweb-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepoUpsert(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepo(db)

	missing, err := repo.FindByUsername("angel")
	require.NoError(t, err)
	assert.Nil(t, missing)

	user := models.User{Username: "angel"}
	require.NoError(t, user.SetPassword("first-secret"))
	require.NoError(t, repo.Upsert(&user))

	found, err := repo.FindByUsername("angel")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.CheckPassword("first-secret"))
	assert.False(t, found.CheckPassword("wrong"))

	// A second upsert rotates the password instead of adding a row.
	rotated := models.User{Username: "angel"}
	require.NoError(t, rotated.SetPassword("second-secret"))
	require.NoError(t, repo.Upsert(&rotated))

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	found, err = repo.FindByUsername("angel")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.True(t, found.CheckPassword("second-secret"))
	assert.False(t, found.CheckPassword("first-secret"))
}
