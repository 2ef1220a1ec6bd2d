package repositories

import (
	"errors"

	"github.com/fleeter/fleeter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSelfFollow is returned for follow or unfollow attempts where follower
// and followee are the same user. Rejected regardless of graph state.
var ErrSelfFollow = errors.New("cannot follow or unfollow yourself")

// FollowRepository defines the interface for follow-graph data operations.
// Create and Delete are idempotent: repeating either leaves the graph
// unchanged.
type FollowRepository interface {
	CreateFollow(followerID, followeeID uint) error
	DeleteFollow(followerID, followeeID uint) error
	IsFollowing(followerID, followeeID uint) (bool, error)
	GetFollowing(userID uint, offset, limit int) ([]models.User, error)
	GetFollowers(userID uint, offset, limit int) ([]models.User, error)
	GetFollowingCount(userID uint) (int64, error)
	GetFollowersCount(userID uint) (int64, error)
	GetNeighborIDs(userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository on the relational store
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	follow := &models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	// ON CONFLICT DO NOTHING against the unique pair index keeps repeat
	// follows from erroring
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(follow).Error
}

func (r *PostgresFollowRepository) DeleteFollow(followerID, followeeID uint) error {
	if followerID == followeeID {
		return ErrSelfFollow
	}
	return r.db.
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followeeID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowing returns the users followed by userID, most recently followed
// first.
func (r *PostgresFollowRepository) GetFollowing(userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

// GetFollowers returns the users following userID, most recent follow first.
func (r *PostgresFollowRepository) GetFollowers(userID uint, offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Model(&models.User{}).
		Joins("JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Offset(offset).Limit(limit).
		Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowingCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowersCount(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

// GetNeighborIDs returns every user connected to userID by a follow edge in
// either direction. Used to invalidate cached counters when the user's edges
// are about to disappear.
func (r *PostgresFollowRepository) GetNeighborIDs(userID uint) ([]uint, error) {
	var followers []uint
	if err := r.db.Model(&models.Follow{}).
		Where("followee_id = ?", userID).
		Pluck("follower_id", &followers).Error; err != nil {
		return nil, err
	}
	var followees []uint
	if err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &followees).Error; err != nil {
		return nil, err
	}
	return append(followers, followees...), nil
}
