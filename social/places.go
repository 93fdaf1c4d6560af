package social

import (
	"context"
	"errors"
	"strings"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlaceInput identifies a place by its external provider id plus the
// details to materialize it on first sight.
type PlaceInput struct {
	ExternalID string
	Name       string
	Address    string
	Latitude   float64
	Longitude  float64
	Categories []string
}

// FindOrCreatePlace is idempotent on the external place id. The insert
// uses an on-conflict clause so two concurrent calls with the same id
// produce exactly one row, never a duplicate.
func (e *Engine) FindOrCreatePlace(ctx context.Context, input PlaceInput) (*models.Place, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, models.NewInvalidInputError("External place id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, models.NewInvalidInputError("Place name is required")
	}

	db := e.DB.WithContext(ctx)

	place := models.Place{
		ExternalID: externalID,
		Name:       input.Name,
		Address:    input.Address,
		Latitude:   input.Latitude,
		Longitude:  input.Longitude,
		Categories: input.Categories,
	}

	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoNothing: true,
	}).Create(&place)
	if res.Error != nil {
		return nil, models.NewInternalError(res.Error)
	}

	if res.RowsAffected == 0 {
		// Lost the race or the place already existed: fetch the winner.
		if err := db.Where("external_id = ?", externalID).First(&place).Error; err != nil {
			return nil, models.NewInternalError(err)
		}
	}

	return &place, nil
}

// GetPlace loads a place by id.
func (e *Engine) GetPlace(ctx context.Context, placeID uint) (*models.Place, error) {
	var place models.Place
	if err := e.DB.WithContext(ctx).First(&place, placeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Place", placeID)
		}
		return nil, models.NewInternalError(err)
	}
	return &place, nil
}

// GetPlaceBySlug loads a place by its URL slug.
func (e *Engine) GetPlaceBySlug(ctx context.Context, slug string) (*models.Place, error) {
	var place models.Place
	if err := e.DB.WithContext(ctx).Where("slug = ?", slug).First(&place).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Place", slug)
		}
		return nil, models.NewInternalError(err)
	}
	return &place, nil
}

// RenamePlace updates a place name; the slug regenerates through the
// model's save hook.
func (e *Engine) RenamePlace(ctx context.Context, placeID uint, name string) (*models.Place, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewInvalidInputError("Place name is required")
	}

	place, err := e.GetPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	place.Name = name
	if err := e.DB.WithContext(ctx).Save(place).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return place, nil
}

// PlacePosts returns the posts tagged with a place, newest first.
func (e *Engine) PlacePosts(ctx context.Context, placeID uint, p Pagination) ([]models.Post, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	if _, err := e.GetPlace(ctx, placeID); err != nil {
		return nil, 0, err
	}

	db := e.DB.WithContext(ctx).Model(&models.Post{}).Where("place_id = ?", placeID)

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
