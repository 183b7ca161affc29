package models

import "time"

// Follow is a directed edge in the follow graph: the follower sees the
// followee's warbles. The pair is the identity, so a given edge can exist
// at most once.
type Follow struct {
	FollowerID uint      `gorm:"primaryKey;autoIncrement:false" json:"follower_id"`
	FolloweeID uint      `gorm:"primaryKey;autoIncrement:false" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for Follow model
func (Follow) TableName() string {
	return "follows"
}
