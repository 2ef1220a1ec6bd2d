package models

import "time"

// Follow is a directed edge in the follow graph: the follower receives the
// followee's fleets in their newsfeed. The (follower_id, followee_id) pair is
// unique so a user follows another at most once.
type Follow struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FollowerID uint      `json:"follower_id" gorm:"index;uniqueIndex:idx_follower_followee;not null"`
	FolloweeID uint      `json:"followee_id" gorm:"uniqueIndex:idx_follower_followee;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Follow) TableName() string { return "follows" }
