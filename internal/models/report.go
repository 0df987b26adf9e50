package models

import (
	"time"

	"gorm.io/gorm"
)

// ReportStatus tracks the moderation lifecycle of a report.
type ReportStatus string

const (
	ReportStatusPending     ReportStatus = "pending"
	ReportStatusReviewed    ReportStatus = "reviewed"
	ReportStatusDismissed   ReportStatus = "dismissed"
	ReportStatusActionTaken ReportStatus = "action_taken"
)

// Valid reports whether s is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusReviewed, ReportStatusDismissed, ReportStatusActionTaken:
		return true
	}
	return false
}

// ReportReasons is the fixed enumeration a reporter must choose from.
var ReportReasons = []string{
	"Nudity",
	"Violence",
	"Harassment",
	"Suicide or self-injury",
	"False information",
	"Spam",
	"Unauthorized sales",
	"Hate speech",
	"Terrorism",
	"Gross content",
	"Other",
}

// ValidReportReason reports whether reason is in the fixed enumeration.
func ValidReportReason(reason string) bool {
	for _, r := range ReportReasons {
		if r == reason {
			return true
		}
	}
	return false
}

// Report is a user-filed moderation report against a post. A reporter may
// file at most one open report per post.
type Report struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	Post        *Post          `gorm:"foreignKey:PostID" json:"post,omitempty"`
	ReporterID  uint           `gorm:"not null;index" json:"reporter_id"`
	Reporter    *User          `gorm:"foreignKey:ReporterID" json:"reporter,omitempty"`
	Reason      string         `gorm:"type:varchar(40);not null" json:"reason"`
	Description string         `gorm:"type:text" json:"description"`
	Status      ReportStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
