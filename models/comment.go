package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	gorm.Model
	Text      string    `gorm:"size:500;not null" json:"text"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	User      User      `json:"user"`
	PostID    uint      `gorm:"not null;index" json:"postId"`
	Post      Post      `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
