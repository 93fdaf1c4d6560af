package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Place is created lazily the first time a post references a previously
// unseen external place id. PostCount is denormalized and floored at zero.
type Place struct {
	gorm.Model
	ExternalID string         `json:"externalId" gorm:"uniqueIndex;not null"`
	Name       string         `json:"name" gorm:"not null"`
	Slug       string         `json:"slug" gorm:"index"`
	Address    string         `json:"address"`
	Latitude   float64        `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude  float64        `json:"longitude" gorm:"type:decimal(11,8)"`
	Categories pq.StringArray `json:"categories" gorm:"type:text[]"`
	PostCount  int            `json:"postCount" gorm:"default:0"`
	Posts      []Post         `json:"posts,omitempty" gorm:"foreignKey:PlaceID"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

var slugStripPattern = regexp.MustCompile(`[^a-z0-9 -]`)

// Slugify derives the URL slug from a place name: lowercase, strip
// non-alphanumerics, spaces to hyphens.
func Slugify(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripPattern.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), "-")
	return s
}

// BeforeSave keeps the slug in sync with the name on every write.
func (p *Place) BeforeSave(tx *gorm.DB) error {
	p.Slug = Slugify(p.Name)
	return nil
}
