package repositories

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fleeter/fleeter/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "fleeter.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Fleet{}, &models.Follow{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	auth0ID := "auth0|" + username
	user := &models.User{Username: username, Auth0ID: &auth0ID}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFleet(t *testing.T, db *gorm.DB, user *models.User, post string, at time.Time) *models.Fleet {
	t.Helper()
	fleet := &models.Fleet{Post: post, UserID: user.ID, CreatedAt: at}
	require.NoError(t, db.Create(fleet).Error)
	return fleet
}

func createFollowAt(t *testing.T, db *gorm.DB, follower, followee *models.User, at time.Time) {
	t.Helper()
	edge := &models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID, CreatedAt: at}
	require.NoError(t, db.Create(edge).Error)
}
