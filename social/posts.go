package social

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/utils"
	"gorm.io/gorm"
)

const maxCaptionLength = 2200

// CreatePostInput carries validated handler input into the engine.
type CreatePostInput struct {
	Caption   string
	MediaType string
	MediaKey  string
	MediaURL  string
	GroupID   *uint
	Place     *PlaceInput
}

// CreatePost creates a post owned by the actor. A group reference
// requires membership; a place reference lazily creates the place and
// bumps its denormalized post count.
func (e *Engine) CreatePost(ctx context.Context, actorID uint, input CreatePostInput) (*models.Post, error) {
	caption := strings.TrimSpace(input.Caption)
	if utf8.RuneCountInString(caption) > maxCaptionLength {
		return nil, models.NewInvalidInputError("Caption must be at most 2200 characters")
	}
	if input.MediaKey == "" || input.MediaURL == "" {
		return nil, models.NewInvalidInputError("Media is required")
	}
	if input.MediaType != "photo" && input.MediaType != "video" {
		return nil, models.NewInvalidInputError("Media type must be photo or video")
	}

	db := e.DB.WithContext(ctx)

	if input.GroupID != nil {
		var group models.Group
		if err := db.First(&group, *input.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Group", *input.GroupID)
			}
			return nil, models.NewInternalError(err)
		}
		member, err := e.isGroupMember(ctx, &group, actorID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, models.NewForbiddenError("Only group members can post into a group")
		}
	}

	var placeID *uint
	if input.Place != nil {
		place, err := e.FindOrCreatePlace(ctx, *input.Place)
		if err != nil {
			return nil, err
		}
		placeID = &place.ID
	}

	post := models.Post{
		Caption:   caption,
		MediaType: input.MediaType,
		MediaKey:  input.MediaKey,
		MediaURL:  input.MediaURL,
		Hashtags:  utils.ExtractHashtags(caption),
		UserID:    actorID,
		GroupID:   input.GroupID,
		PlaceID:   placeID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&post).Error; err != nil {
			return err
		}
		if placeID != nil {
			if err := tx.Model(&models.Place{}).Where("id = ?", *placeID).
				UpdateColumn("post_count", gorm.Expr("post_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return &post, nil
}

// GetPost loads a post with author, likes, comments and place. A missing
// place row is a degraded render, not a failure: it is logged and the
// post is returned without place data.
func (e *Engine) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	db := e.DB.WithContext(ctx)

	var post models.Post
	if err := db.Preload("User").Preload("Likes").Preload("Comments.User").Preload("Media").
		First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, models.NewInternalError(err)
	}

	e.attachPlace(ctx, &post)
	return &post, nil
}

// attachPlace loads the place reference if one is set. Lookup failure
// degrades to a post without place data, logged explicitly.
func (e *Engine) attachPlace(ctx context.Context, post *models.Post) {
	if post.PlaceID == nil {
		return
	}
	var place models.Place
	if err := e.DB.WithContext(ctx).First(&place, *post.PlaceID).Error; err != nil {
		log.Printf("place lookup failed for post %d (place %d): %v; rendering without place", post.ID, *post.PlaceID, err)
		return
	}
	post.Place = &place
}

// DeletePost removes the post's stored media, then the record and its
// children. Only the owner may delete. The place post count is
// decremented, floored at zero.
func (e *Engine) DeletePost(ctx context.Context, actorID, postID uint) error {
	db := e.DB.WithContext(ctx)

	var post models.Post
	if err := db.Preload("Media").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", postID)
		}
		return models.NewInternalError(err)
	}

	if post.UserID != actorID {
		return models.NewForbiddenError("Only the post owner can delete it")
	}

	if err := e.releaseMedia(ctx, &post); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostMedia{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&post).Error; err != nil {
			return err
		}
		if post.PlaceID != nil {
			// Floored decrement: the WHERE clause makes it atomic and
			// keeps the counter from going negative.
			if err := tx.Model(&models.Place{}).
				Where("id = ? AND post_count > 0", *post.PlaceID).
				UpdateColumn("post_count", gorm.Expr("post_count - 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// releaseMedia deletes the post's stored objects. Failure is reported,
// not hidden; object deletion is idempotent so a retry is safe.
func (e *Engine) releaseMedia(ctx context.Context, post *models.Post) error {
	if e.Media == nil {
		return nil
	}
	if post.MediaKey != "" {
		if err := e.Media.Delete(ctx, post.MediaKey); err != nil {
			return models.NewInternalError(err)
		}
	}
	for _, m := range post.Media {
		if m.Key == "" {
			continue
		}
		if err := e.Media.Delete(ctx, m.Key); err != nil {
			return models.NewInternalError(err)
		}
	}
	return nil
}

// FollowingFeed returns the chronological feed of posts by users the
// actor follows, newest first.
func (e *Engine) FollowingFeed(ctx context.Context, actorID uint, p Pagination) ([]models.Post, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	db := e.DB.WithContext(ctx).Model(&models.Post{}).
		Joins("JOIN follows ON posts.user_id = follows.following_user_id").
		Where("follows.follower_user_id = ?", actorID)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	if err := db.Preload("User").Preload("Likes").
		Order("posts.created_at DESC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&posts).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	for i := range posts {
		e.attachPlace(ctx, &posts[i])
	}

	return posts, total, nil
}
