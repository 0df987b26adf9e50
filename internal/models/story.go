package models

import (
	"time"

	"gorm.io/gorm"
)

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is an ephemeral image post. Visibility is always enforced at query
// time against ExpiresAt; the background reaper only reclaims storage.
type Story struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	Image     string         `gorm:"not null" json:"image"`
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate stamps the expiry when the caller did not set one.
func (s *Story) BeforeCreate(_ *gorm.DB) error {
	if s.ExpiresAt.IsZero() {
		s.ExpiresAt = time.Now().Add(StoryTTL)
	}
	return nil
}

// StoryGroup is one author's visible stories, newest first.
type StoryGroup struct {
	User    Summary `json:"user"`
	Stories []Story `json:"stories"`
}
