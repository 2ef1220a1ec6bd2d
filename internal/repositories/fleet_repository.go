package repositories

import (
	"github.com/fleeter/fleeter/internal/models"
	"gorm.io/gorm"
)

// FleetRepository defines the interface for fleet data operations, including
// the newsfeed aggregation queries.
type FleetRepository interface {
	CreateFleet(fleet *models.Fleet) error
	GetFleetByID(id uint) (*models.Fleet, error)
	UpdateFleet(fleet *models.Fleet) error
	DeleteFleet(id uint) error
	GetFleetsByUserID(userID uint, offset, limit int) ([]models.Fleet, error)
	CountByUserID(userID uint) (int64, error)
	GetNewsfeed(userID uint, offset, limit int) ([]models.Fleet, error)
	CountNewsfeed(userID uint) (int64, error)
}

// PostgresFleetRepository implements FleetRepository on the relational store
type PostgresFleetRepository struct {
	db *gorm.DB
}

// NewPostgresFleetRepository creates a new PostgresFleetRepository
func NewPostgresFleetRepository(db *gorm.DB) *PostgresFleetRepository {
	return &PostgresFleetRepository{db: db}
}

func (r *PostgresFleetRepository) CreateFleet(fleet *models.Fleet) error {
	return r.db.Create(fleet).Error
}

// GetFleetByID retrieves a fleet with its author loaded.
func (r *PostgresFleetRepository) GetFleetByID(id uint) (*models.Fleet, error) {
	var fleet models.Fleet
	if err := r.db.Preload("User").First(&fleet, id).Error; err != nil {
		return nil, err
	}
	return &fleet, nil
}

// UpdateFleet persists a changed body. CreatedAt is immutable, so only the
// post column is written.
func (r *PostgresFleetRepository) UpdateFleet(fleet *models.Fleet) error {
	return r.db.Model(fleet).Update("post", fleet.Post).Error
}

func (r *PostgresFleetRepository) DeleteFleet(id uint) error {
	return r.db.Delete(&models.Fleet{}, id).Error
}

// GetFleetsByUserID returns a user's own fleets in reverse chronological
// order, equal timestamps in insertion order.
func (r *PostgresFleetRepository) GetFleetsByUserID(userID uint, offset, limit int) ([]models.Fleet, error) {
	var fleets []models.Fleet
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&fleets).Error
	return fleets, err
}

func (r *PostgresFleetRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Fleet{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// GetNewsfeed returns the reverse-chronological union of the user's own
// fleets and the fleets of everyone the user follows. The source set is
// expressed as a single filter so the store does the sort and the slice.
func (r *PostgresFleetRepository) GetNewsfeed(userID uint, offset, limit int) ([]models.Fleet, error) {
	var fleets []models.Fleet
	err := r.db.Preload("User").
		Where("user_id = ? OR user_id IN (?)", userID, r.followeeIDs(userID)).
		Order("created_at DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&fleets).Error
	return fleets, err
}

// CountNewsfeed returns the unbounded length of the user's newsfeed.
func (r *PostgresFleetRepository) CountNewsfeed(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Fleet{}).
		Where("user_id = ? OR user_id IN (?)", userID, r.followeeIDs(userID)).
		Count(&count).Error
	return count, err
}

func (r *PostgresFleetRepository) followeeIDs(userID uint) *gorm.DB {
	return r.db.Model(&models.Follow{}).Select("followee_id").Where("follower_id = ?", userID)
}
