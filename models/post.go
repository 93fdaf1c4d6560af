package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Post struct {
	gorm.Model
	Caption   string         `json:"caption" gorm:"size:2200;type:text"`
	MediaType string         `json:"mediaType" gorm:"not null;type:varchar(10)"` // "photo" or "video"
	MediaKey  string         `json:"mediaKey" gorm:"not null"`                   // storage object key
	MediaURL  string         `json:"mediaUrl" gorm:"not null"`
	Hashtags  pq.StringArray `json:"hashtags" gorm:"type:text[]"`
	UserID    uint           `json:"userId" gorm:"not null;index"`
	User      User           `json:"user" gorm:"foreignKey:UserID"`
	GroupID   *uint          `json:"groupId" gorm:"index"`
	Group     *Group         `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	PlaceID   *uint          `json:"placeId" gorm:"index"`
	Place     *Place         `json:"place,omitempty" gorm:"foreignKey:PlaceID"`
	Comments  []Comment      `json:"comments,omitempty" gorm:"foreignKey:PostID"`
	Likes     []Like         `json:"likes,omitempty" gorm:"foreignKey:PostID"`
	Media     []PostMedia    `json:"media,omitempty" gorm:"foreignKey:PostID"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
