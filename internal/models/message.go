package models

import "time"

// MaxMessageLength bounds the text of a single warble.
const MaxMessageLength = 140

// Message represents a single warble posted by a user
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Text      string    `gorm:"size:140;not null;check:chk_messages_text,text <> ''" json:"text"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}
