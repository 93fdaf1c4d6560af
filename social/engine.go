// Package social is the operations layer over the stores: it mutates
// follow edges, like sets, comment lists and group membership under the
// application's invariants, leaving HTTP concerns to the controllers.
package social

import (
	"time"

	"github.com/snapgram/api-go/storage"
	"gorm.io/gorm"
)

type Engine struct {
	DB    *gorm.DB
	Media storage.MediaStorage

	// Now is swappable so time-window logic is testable.
	Now func() time.Time
}

func NewEngine(db *gorm.DB, media storage.MediaStorage) *Engine {
	return &Engine{
		DB:    db,
		Media: media,
		Now:   time.Now,
	}
}
