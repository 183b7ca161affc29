package repository

import (
	"errors"

	"github.com/warbler-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrLikeNotFound = errors.New("like not found")
)

// LikeRepository handles like data access
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts a like. The composite primary key rejects a second like
// for the same (user, message) pair.
func (r *LikeRepository) Create(userID, messageID uint) error {
	like := models.Like{UserID: userID, MessageID: messageID}
	return r.db.Create(&like).Error
}

// Delete removes a like if present
func (r *LikeRepository) Delete(userID, messageID uint) error {
	return r.db.Where("user_id = ? AND message_id = ?", userID, messageID).
		Delete(&models.Like{}).Error
}

// Exists reports whether the user has liked the message
func (r *LikeRepository) Exists(userID, messageID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Like{}).
		Where("user_id = ? AND message_id = ?", userID, messageID).
		Count(&count).Error
	return count > 0, err
}

// GetMessagesLikedBy retrieves the messages liked by a user, newest like first
func (r *LikeRepository) GetMessagesLikedBy(userID uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.Preload("User").
		Joins("INNER JOIN likes ON likes.message_id = messages.id").
		Where("likes.user_id = ?", userID).
		Order("likes.created_at DESC").
		Find(&messages)
	return messages, result.Error
}

// GetByMessageID retrieves all likes on a message
func (r *LikeRepository) GetByMessageID(messageID uint) ([]models.Like, error) {
	var likes []models.Like
	result := r.db.Where("message_id = ?", messageID).Find(&likes)
	return likes, result.Error
}

// CountByUserID counts the likes a user has given
func (r *LikeRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Like{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
