package repository

import (
	"errors"

	"github.com/warbler-server/internal/models"
	"gorm.io/gorm"
)

var (
	ErrMessageNotFound = errors.New("message not found")
)

// MessageRepository handles message data access
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create creates a new message
func (r *MessageRepository) Create(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetByID retrieves a message by ID
func (r *MessageRepository) GetByID(id uint) (*models.Message, error) {
	var message models.Message
	result := r.db.Preload("User").First(&message, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, result.Error
	}
	return &message, nil
}

// GetByUserID retrieves all messages posted by a user, newest first
func (r *MessageRepository) GetByUserID(userID uint) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&messages)
	return messages, result.Error
}

// GetTimeline retrieves the newest messages authored by any of the given
// users, newest first
func (r *MessageRepository) GetTimeline(userIDs []uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.Preload("User").
		Where("user_id IN ?", userIDs).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages)
	return messages, result.Error
}

// GetLatest retrieves the newest messages across all users
func (r *MessageRepository) GetLatest(limit int) ([]models.Message, error) {
	var messages []models.Message
	result := r.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages)
	return messages, result.Error
}

// CountByUserID counts messages posted by a user
func (r *MessageRepository) CountByUserID(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteWithLikes removes a message and its likes in one transaction, so
// a failure leaves both in place.
func (r *MessageRepository) DeleteWithLikes(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
}
