package models

import "time"

// Relationship is a directed follow edge. The composite primary key makes
// a duplicate edge for the same ordered pair impossible at the schema level.
type Relationship struct {
	FollowerID  uint      `json:"follower_id" gorm:"primaryKey;autoIncrement:false"`
	FollowingID uint      `json:"following_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt   time.Time `json:"created_at"`
}
