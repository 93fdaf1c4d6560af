package models

import (
	"time"

	"gorm.io/gorm"
)

// PostMedia represents an additional media object attached to a post.
type PostMedia struct {
	ID           uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	PostID       uint           `gorm:"not null;index" json:"post_id"`
	MediaType    string         `gorm:"size:50;not null" json:"media_type"` // "photo" or "video"
	Key          string         `gorm:"not null" json:"key"`                // storage object key
	MediaURL     string         `gorm:"not null" json:"media_url"`
	ThumbnailURL string         `json:"thumbnail_url"`
	OrderIndex   int            `gorm:"default:0" json:"order_index"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Duration     int            `json:"duration"` // seconds, video only
}
