// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a user account in Aurora.
//
// Follow edges are NOT stored on the user row. Each edge lives in a single
// Follow record (see follow.go); FollowerIDs and FollowingIDs are hydrated
// from that relation at read time, which makes the dual-sided edge update
// atomic by construction.
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"unique;not null" json:"username"`
	Email        string         `gorm:"unique;not null" json:"email"`
	Password     string         `json:"-"` // empty for OAuth-only accounts
	GoogleID     *string        `gorm:"uniqueIndex" json:"-"`
	Bio          string         `json:"bio"`
	Avatar       string         `json:"avatar"`
	TotalLikes   int            `gorm:"not null;default:0" json:"total_likes"`
	ProfileViews int            `gorm:"not null;default:0" json:"profile_views"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Computed at query time from the follows relation.
	FollowerIDs  []uint `gorm:"-" json:"followers"`
	FollowingIDs []uint `gorm:"-" json:"following"`

	// Computed per viewer on profile reads, like Post.Liked.
	IsFollowing bool `gorm:"-" json:"is_following"`

	Posts []Post `gorm:"foreignKey:UserID" json:"posts,omitempty"`
}
