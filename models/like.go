package models

import (
	"time"
)

// Like rows are unique per (post, user); the set semantics the toggle
// relies on are enforced by the composite index, not application reads.
type Like struct {
	LikeID    uint      `gorm:"column:like_id;primaryKey;autoIncrement"`
	PostID    uint      `gorm:"column:post_id;not null;uniqueIndex:idx_like_post_user"`
	UserID    uint      `gorm:"column:user_id;not null;uniqueIndex:idx_like_post_user"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`

	User User `gorm:"foreignKey:UserID"`
	Post Post `gorm:"foreignKey:PostID"`
}
