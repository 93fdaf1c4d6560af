package models

import (
	"time"
)

// Follow is a directed edge in the social graph. One row covers both
// "sides" of the relationship: B's followers and A's following are both
// queries over this table, so they can never disagree.
type Follow struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	FollowerUserID  uint      `gorm:"not null;uniqueIndex:idx_follow_edge"`
	FollowingUserID uint      `gorm:"not null;uniqueIndex:idx_follow_edge"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	FollowerUser  User `gorm:"foreignKey:FollowerUserID"`
	FollowingUser User `gorm:"foreignKey:FollowingUserID"`
}
