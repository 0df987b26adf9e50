// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account.
//
// The follow graph lives in the follows table; Followers and Following are
// projections of that edge set, populated at query time.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	DisplayName string         `json:"display_name"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Bio         string         `json:"bio"`
	ProfilePic  string         `json:"profile_pic"`
	CoverPhoto  string         `json:"cover_photo"`
	Work        string         `json:"work"`
	School      string         `json:"school"`
	College     string         `json:"college"`
	IsAdmin     bool           `gorm:"default:false" json:"is_admin"`
	IsBanned    bool           `gorm:"default:false" json:"is_banned"`
	IsVerified  bool           `gorm:"default:false" json:"is_verified"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Posts       []Post         `gorm:"foreignKey:UserID" json:"posts,omitempty"`

	// Computed from the follows table; not persisted on this row.
	Followers []uint `gorm:"-" json:"followers"`
	Following []uint `gorm:"-" json:"following"`
}

// Follow is a directed edge in the social graph: Follower follows Followed.
// One row carries both directions of the follower/following relationship,
// so a reciprocal edge pair cannot be half-written. The unique pair index
// also serializes concurrent toggles on the same pair.
type Follow struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	FollowerID uint           `gorm:"not null;uniqueIndex:idx_follower_followed" json:"follower_id"`
	FollowedID uint           `gorm:"not null;uniqueIndex:idx_follower_followed" json:"followed_id"`
	CreatedAt  time.Time      `json:"created_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// Summary is the public subset of user fields embedded in resolved
// messages, notifications, and post listings.
type Summary struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	ProfilePic  string `json:"profile_pic"`
	IsAdmin     bool   `json:"is_admin"`
	IsVerified  bool   `json:"is_verified"`
}

// Summary returns the public projection of the user.
func (u *User) Summary() Summary {
	return Summary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		ProfilePic:  u.ProfilePic,
		IsAdmin:     u.IsAdmin,
		IsVerified:  u.IsVerified,
	}
}
