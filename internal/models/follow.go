package models

import "time"

// Follow is a directed follow edge: FollowerID follows FolloweeID.
// The composite unique index makes the edge idempotent; because both sides
// of the relationship are represented by this one row, a follow or unfollow
// is atomic and a partial (one-sided) edge can never be observed.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"follower_id"`
	FolloweeID uint      `gorm:"not null;uniqueIndex:idx_follower_followee" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followee User `gorm:"foreignKey:FolloweeID" json:"followee,omitempty"`
}
