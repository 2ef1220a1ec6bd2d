package repositories

import (
	"testing"
	"time"

	"github.com/fleeter/fleeter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func fleetPosts(fleets []models.Fleet) []string {
	out := make([]string, len(fleets))
	for i, f := range fleets {
		out[i] = f.Post
	}
	return out
}

func TestCreateFleetAssignsServerTimestamp(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	john := createUser(t, db, "john")

	fleet := &models.Fleet{Post: "hello", UserID: john.ID}
	require.NoError(t, repo.CreateFleet(fleet))
	assert.NotZero(t, fleet.ID)
	assert.False(t, fleet.CreatedAt.IsZero())

	loaded, err := repo.GetFleetByID(fleet.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", loaded.Post)
	assert.Equal(t, "john", loaded.User.Username)
}

func TestUpdateFleetReplacesBodyOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	john := createUser(t, db, "john")
	created := time.Now().Add(-time.Hour).Truncate(time.Second)
	fleet := createFleet(t, db, john, "old body", created)

	fleet.Post = "new body"
	require.NoError(t, repo.UpdateFleet(fleet))

	loaded, err := repo.GetFleetByID(fleet.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", loaded.Post)
	assert.True(t, loaded.CreatedAt.Equal(created), "creation timestamp is immutable")
}

func TestDeleteFleetThenReadIsNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	john := createUser(t, db, "john")
	fleet := createFleet(t, db, john, "going away", time.Now())

	require.NoError(t, repo.DeleteFleet(fleet.ID))

	_, err := repo.GetFleetByID(fleet.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetFleetsByUserIDReverseChronological(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	john := createUser(t, db, "john")
	other := createUser(t, db, "other")

	now := time.Now()
	createFleet(t, db, john, "first", now.Add(1*time.Second))
	createFleet(t, db, john, "second", now.Add(2*time.Second))
	createFleet(t, db, john, "third", now.Add(3*time.Second))
	createFleet(t, db, other, "not johns", now.Add(4*time.Second))

	fleets, err := repo.GetFleetsByUserID(john.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, fleetPosts(fleets))

	count, err := repo.CountByUserID(john.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

// Mirrors a four-user graph where everyone follows a different subset; each
// user's newsfeed must be exactly their own fleets merged with their
// followees', newest first.
func TestGetNewsfeedUnionOrdering(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	followRepo := NewPostgresFollowRepository(db)

	users := map[string]*models.User{}
	for _, name := range []string{"mike", "susan", "david", "karen"} {
		users[name] = createUser(t, db, name)
	}
	follow := func(a, b string) {
		require.NoError(t, followRepo.CreateFollow(users[a].ID, users[b].ID))
	}
	follow("susan", "mike")
	follow("susan", "karen")
	follow("david", "mike")
	follow("karen", "mike")
	follow("karen", "david")
	follow("karen", "susan")

	now := time.Now()
	createFleet(t, db, users["mike"], "fleet by mike", now.Add(1*time.Second))
	createFleet(t, db, users["david"], "fleet by david", now.Add(2*time.Second))
	createFleet(t, db, users["karen"], "fleet by karen", now.Add(3*time.Second))
	createFleet(t, db, users["susan"], "fleet by susan", now.Add(4*time.Second))

	expected := map[string][]string{
		"mike":  {"fleet by mike"},
		"susan": {"fleet by susan", "fleet by karen", "fleet by mike"},
		"david": {"fleet by david", "fleet by mike"},
		"karen": {"fleet by karen", "fleet by david", "fleet by mike"},
	}
	for name, want := range expected {
		fleets, err := repo.GetNewsfeed(users[name].ID, 0, 10)
		require.NoError(t, err)
		assert.Equal(t, want, fleetPosts(fleets), "newsfeed for %s", name)

		length, err := repo.CountNewsfeed(users[name].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(want)), length, "newsfeed length for %s", name)
	}
}

func TestGetNewsfeedTiesKeepInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	followRepo := NewPostgresFollowRepository(db)
	me := createUser(t, db, "me")
	other := createUser(t, db, "other")
	require.NoError(t, followRepo.CreateFollow(me.ID, other.ID))

	at := time.Now().Truncate(time.Second)
	createFleet(t, db, me, "inserted first", at)
	createFleet(t, db, other, "inserted second", at)

	fleets, err := repo.GetNewsfeed(me.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"inserted first", "inserted second"}, fleetPosts(fleets))
}

func TestGetNewsfeedWithoutFollowingIsOwnFleets(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	loner := createUser(t, db, "loner")
	other := createUser(t, db, "other")

	now := time.Now()
	createFleet(t, db, loner, "mine", now.Add(1*time.Second))
	createFleet(t, db, other, "theirs", now.Add(2*time.Second))

	fleets, err := repo.GetNewsfeed(loner.ID, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, fleetPosts(fleets))
}

func TestGetNewsfeedPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewPostgresFleetRepository(db)
	me := createUser(t, db, "me")

	now := time.Now()
	for i := 0; i < 5; i++ {
		createFleet(t, db, me, string(rune('a'+i)), now.Add(time.Duration(i)*time.Second))
	}

	page1, err := repo.GetNewsfeed(me.ID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d"}, fleetPosts(page1))

	page3, err := repo.GetNewsfeed(me.ID, 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, fleetPosts(page3))

	beyond, err := repo.GetNewsfeed(me.ID, 6, 2)
	require.NoError(t, err)
	assert.Empty(t, beyond)
}
