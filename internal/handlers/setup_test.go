package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fleeter/fleeter/internal/middleware"
	"github.com/fleeter/fleeter/internal/models"
	"github.com/fleeter/fleeter/internal/router"
	"github.com/fleeter/fleeter/pkg/config"
	"github.com/fleeter/fleeter/validators"
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

// Permission sets as the identity provider grants them: regular users may
// read, post and follow; moderators may only read follow lists and delete.
var (
	userPerms = []string{
		middleware.PermReadFollow,
		middleware.PermReadNewsfeed,
		middleware.PermPostFleets,
		middleware.PermPatchFleets,
		middleware.PermDeleteFleets,
		middleware.PermFollowUsers,
	}
	modPerms = []string{
		middleware.PermReadFollow,
		middleware.PermDeleteFleets,
		middleware.PermDeleteUsers,
	}
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "fleeter.db")), &gorm.Config{})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		JWTSecret:            testSecret,
		FleetsPerPage:        10,
		UsersPerPage:         15,
		FleetMaxLen:          140,
		StatsCacheTTLSeconds: 60,
	}

	e := echo.New()
	e.Validator = validators.NewValidator()
	log := zap.NewNop()
	router.SetupMiddleware(e, log)
	require.NoError(t, router.SetupRoutes(e, db, rdb, cfg, log))
	return e, db
}

// signToken mints a bearer token for the given external subject.
func signToken(t *testing.T, subject string, permissions []string) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func userToken(t *testing.T, username string) string {
	return signToken(t, "auth0|"+username, userPerms)
}

func moderatorToken(t *testing.T) string {
	return signToken(t, "auth0|moderator", modPerms)
}

// request performs an HTTP call against the test server and decodes the JSON
// response body.
func request(t *testing.T, e *echo.Echo, method, path, token, body string) (int, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	decoded := map[string]interface{}{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func createUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	auth0ID := "auth0|" + username
	user := &models.User{Username: username, Auth0ID: &auth0ID}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createFleetAt(t *testing.T, db *gorm.DB, user *models.User, post string, at time.Time) *models.Fleet {
	t.Helper()
	fleet := &models.Fleet{Post: post, UserID: user.ID, CreatedAt: at}
	require.NoError(t, db.Create(fleet).Error)
	return fleet
}

func createFollow(t *testing.T, db *gorm.DB, follower, followee *models.User) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID}).Error)
}

func createFollowAt(t *testing.T, db *gorm.DB, follower, followee *models.User, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&models.Follow{FollowerID: follower.ID, FolloweeID: followee.ID, CreatedAt: at}).Error)
}

// fleetBodies extracts the post texts from a serialized fleet list.
func fleetBodies(t *testing.T, raw interface{}) []string {
	t.Helper()
	list, ok := raw.([]interface{})
	require.True(t, ok, "expected a list, got %T", raw)
	out := make([]string, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]interface{})
		require.True(t, ok)
		out[i] = entry["post"].(string)
	}
	return out
}

// usernames extracts the handles from a serialized user-summary list.
func usernames(t *testing.T, raw interface{}) []string {
	t.Helper()
	list, ok := raw.([]interface{})
	require.True(t, ok, "expected a list, got %T", raw)
	out := make([]string, len(list))
	for i, item := range list {
		entry, ok := item.(map[string]interface{})
		require.True(t, ok)
		out[i] = entry["username"].(string)
	}
	return out
}
