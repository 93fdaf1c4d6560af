package models

import (
	"time"
)

// ExternalAccount links a user to at most one account on the cross-post
// network, and an external account to at most one user. Both directions
// are enforced with unique indexes.
type ExternalAccount struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`
	User   User `gorm:"foreignKey:UserID" json:"-"`

	ExternalUserID string `gorm:"not null;uniqueIndex" json:"external_user_id"`
	Handle         string `json:"handle"`
	AccessToken    string `gorm:"type:text" json:"-"`
	AccessSecret   string `gorm:"type:text" json:"-"`

	LastPostAt *time.Time `json:"last_post_at"`
	PostCount  int        `gorm:"default:0" json:"post_count"`
	Active     bool       `gorm:"default:true" json:"active"`

	// Hard-deleted on disconnect: a soft-deleted row would keep holding
	// the unique indexes and block re-linking.
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
