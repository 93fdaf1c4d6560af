package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a community namespace posts can be shared into. The creator is
// permanently a member and an admin; that status derives from CreatorID,
// not from the membership row, so no membership mutation can revoke it.
type Group struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"size:120;not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	IsPrivate   bool           `gorm:"default:false" json:"is_private"`
	CreatorID   uint           `gorm:"not null;index" json:"creator_id"`
	Creator     User           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Members     []GroupMember  `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Posts       []Post         `gorm:"foreignKey:GroupID" json:"posts,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
