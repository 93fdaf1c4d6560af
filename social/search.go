package social

import (
	"context"
	"time"

	"github.com/snapgram/api-go/models"
)

// Pagination bounds all list queries: page >= 1, limit in [1, 100].
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Validate() error {
	if p.Page < 1 {
		return models.NewInvalidInputError("Page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > 100 {
		return models.NewInvalidInputError("Limit must be between 1 and 100")
	}
	return nil
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// SearchUsers matches the query as a case-insensitive substring of the
// username or bio, sorted by username.
func (e *Engine) SearchUsers(ctx context.Context, query string, p Pagination) ([]models.User, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	pattern := "%" + query + "%"
	db := e.DB.WithContext(ctx).Model(&models.User{}).
		Where("LOWER(username) LIKE LOWER(?) OR LOWER(bio) LIKE LOWER(?)", pattern, pattern)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var users []models.User
	if err := db.Order("username ASC").Offset(p.Offset()).Limit(p.Limit).Find(&users).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return users, total, nil
}

// PostFilter narrows a post search. Zero values are unset.
type PostFilter struct {
	Query   string
	Hashtag string
	UserID  uint
	GroupID uint
	PlaceID uint
	From    *time.Time
	To      *time.Time
}

// SearchPosts filters posts by caption substring, hashtag, owner, group,
// place and date range, newest first.
func (e *Engine) SearchPosts(ctx context.Context, f PostFilter, p Pagination) ([]models.Post, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	db := e.DB.WithContext(ctx).Model(&models.Post{})

	if f.Query != "" {
		db = db.Where("LOWER(caption) LIKE LOWER(?)", "%"+f.Query+"%")
	}
	if f.Hashtag != "" {
		// Hashtags are also present verbatim in the caption text, which
		// keeps this portable across the array representations.
		db = db.Where("LOWER(caption) LIKE LOWER(?)", "%"+f.Hashtag+"%")
	}
	if f.UserID != 0 {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.GroupID != 0 {
		db = db.Where("group_id = ?", f.GroupID)
	}
	if f.PlaceID != 0 {
		db = db.Where("place_id = ?", f.PlaceID)
	}
	if f.From != nil {
		db = db.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		db = db.Where("created_at <= ?", *f.To)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := db.Preload("User").
		Order("created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return posts, total, nil
}

// SearchGroups matches public groups by name or description substring,
// sorted by name.
func (e *Engine) SearchGroups(ctx context.Context, query string, p Pagination) ([]models.Group, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	pattern := "%" + query + "%"
	db := e.DB.WithContext(ctx).Model(&models.Group{}).
		Where("is_private = ?", false).
		Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var groups []models.Group
	if err := db.Order("name ASC").Offset(p.Offset()).Limit(p.Limit).Find(&groups).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return groups, total, nil
}
