package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type User struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Username   string         `gorm:"unique;not null" json:"username"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Password   string         `gorm:"not null" json:"-"` // bcrypt hash, never exposed
	Bio        string         `gorm:"size:150" json:"bio"`
	Country    string         `json:"country"`
	Avatar     string         `json:"avatar"`
	Tags       pq.StringArray `json:"tags" gorm:"type:text[]"`
	IsVerified bool           `json:"is_verified"`
	Posts      []Post         `json:"posts,omitempty" gorm:"foreignKey:UserID"`
	Comments   []Comment      `json:"-" gorm:"foreignKey:UserID"`
	Likes      []Like         `json:"-" gorm:"foreignKey:UserID"`
	Followers  []User         `json:"followers,omitempty" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowingUserID;References:ID;joinReferences:FollowerUserID"`
	Following  []User         `json:"following,omitempty" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowerUserID;References:ID;joinReferences:FollowingUserID"`
}

// UserSnapshot is the slice of User cached per session to avoid a database
// read on every request. Invalidated whenever the profile mutates.
type UserSnapshot struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Bio        string `json:"bio"`
	Avatar     string `json:"avatar"`
	IsVerified bool   `json:"is_verified"`
}

func (u *User) Snapshot() *UserSnapshot {
	return &UserSnapshot{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		Bio:        u.Bio,
		Avatar:     u.Avatar,
		IsVerified: u.IsVerified,
	}
}
