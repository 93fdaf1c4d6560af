package models

import (
	"gorm.io/gorm"
)

// ReportStatus tracks where a report sits in the moderation queue.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusReviewed  ReportStatus = "reviewed"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a user flagging another user for moderation. New reports
// start out pending; the status transitions happen out of band.
type Report struct {
	gorm.Model
	ReporterUserID uint         `gorm:"not null;index" json:"reporterUserId"`
	ReportedUserID uint         `gorm:"not null;index" json:"reportedUserId"`
	Reason         string       `gorm:"size:100;not null" json:"reason"`
	Description    string       `gorm:"size:1000" json:"description"`
	Status         ReportStatus `gorm:"size:20;not null;default:'pending'" json:"status"`

	ReporterUser User `gorm:"foreignKey:ReporterUserID" json:"-"`
	ReportedUser User `gorm:"foreignKey:ReportedUserID" json:"-"`
}
