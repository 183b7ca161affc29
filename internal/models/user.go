package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultImageURL is used when a user signs up without a profile image.
const DefaultImageURL = "/static/images/default-pic.png"

// User represents a registered user
type User struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	Username       string         `gorm:"uniqueIndex;size:50;not null;check:chk_users_username,username <> ''" json:"username"`
	Email          string         `gorm:"uniqueIndex;size:100;not null;check:chk_users_email,email <> ''" json:"email"`
	PasswordHash   string         `gorm:"size:255;not null" json:"-"`
	ImageURL       string         `gorm:"size:255" json:"image_url"`
	HeaderImageURL string         `gorm:"size:255" json:"header_image_url"`
	Bio            string         `gorm:"size:500" json:"bio"`
	Location       string         `gorm:"size:100" json:"location"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Messages []Message `gorm:"foreignKey:UserID" json:"messages,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// UserStats holds the four profile counters shown on a user page.
type UserStats struct {
	Messages  int64 `json:"messages"`
	Following int64 `json:"following"`
	Followers int64 `json:"followers"`
	Likes     int64 `json:"likes"`
}
