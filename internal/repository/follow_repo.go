package repository

import (
	"errors"

	"github.com/warbler-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrFollowNotFound = errors.New("follow edge not found")
)

// FollowRepository handles follow graph data access
type FollowRepository struct {
	db *gorm.DB
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts a follow edge. Duplicate pairs are rejected by the
// composite primary key.
func (r *FollowRepository) Create(followerID, followeeID uint) error {
	follow := models.Follow{FollowerID: followerID, FolloweeID: followeeID}
	return r.db.Create(&follow).Error
}

// Delete removes a follow edge if present
func (r *FollowRepository) Delete(followerID, followeeID uint) error {
	return r.db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&models.Follow{}).Error
}

// Exists reports whether follower follows followee
func (r *FollowRepository) Exists(followerID, followeeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error
	return count > 0, err
}

// GetFollowers retrieves the users following the given user
func (r *FollowRepository) GetFollowers(userID uint) ([]models.User, error) {
	var users []models.User
	result := r.db.
		Joins("INNER JOIN follows ON follows.follower_id = users.id").
		Where("follows.followee_id = ?", userID).
		Find(&users)
	return users, result.Error
}

// GetFollowing retrieves the users the given user follows
func (r *FollowRepository) GetFollowing(userID uint) ([]models.User, error) {
	var users []models.User
	result := r.db.
		Joins("INNER JOIN follows ON follows.followee_id = users.id").
		Where("follows.follower_id = ?", userID).
		Find(&users)
	return users, result.Error
}

// GetFollowingIDs retrieves the ids of the users the given user follows
func (r *FollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Pluck("followee_id", &ids).Error
	return ids, err
}

// CountFollowers counts the users following the given user
func (r *FollowRepository) CountFollowers(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("followee_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowing counts the users the given user follows
func (r *FollowRepository) CountFollowing(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}
