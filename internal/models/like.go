package models

import "time"

// Like marks a user's endorsement of a message. The (user, message) pair is
// the primary key, which enforces at most one like per user per message.
type Like struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MessageID uint      `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Like model
func (Like) TableName() string {
	return "likes"
}
