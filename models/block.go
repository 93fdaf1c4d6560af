package models

import (
	"time"
)

// Block is a directed edge: blocker no longer wants any interaction
// from blocked. Creating one also severs the follow edges in both
// directions, so blocked content can never reach the blocker's feed.
type Block struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	BlockerUserID uint      `gorm:"not null;uniqueIndex:idx_block_edge"`
	BlockedUserID uint      `gorm:"not null;uniqueIndex:idx_block_edge"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`

	BlockerUser User `gorm:"foreignKey:BlockerUserID"`
	BlockedUser User `gorm:"foreignKey:BlockedUserID"`
}
