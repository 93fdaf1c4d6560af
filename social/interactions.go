package social

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxCommentLength = 500

// ToggleLike flips the actor's presence in the post's like set: absent
// adds, present removes. No "already liked" error exists. Returns the new
// liked state and like count.
func (e *Engine) ToggleLike(ctx context.Context, actorID, postID uint) (bool, int64, error) {
	db := e.DB.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, 0, models.NewNotFoundError("Post", postID)
		}
		return false, 0, models.NewInternalError(err)
	}

	// Attempt the add first; the unique (post, user) index makes this a
	// single atomic set-add, so concurrent toggles by different users
	// never clobber each other.
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Like{
		PostID: post.ID,
		UserID: actorID,
	})
	if res.Error != nil {
		return false, 0, models.NewInternalError(res.Error)
	}

	liked := res.RowsAffected > 0
	if !liked {
		// Already present: toggle means remove.
		if err := db.Where("post_id = ? AND user_id = ?", post.ID, actorID).
			Delete(&models.Like{}).Error; err != nil {
			return false, 0, models.NewInternalError(err)
		}
	}

	var count int64
	if err := db.Model(&models.Like{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
		return false, 0, models.NewInternalError(err)
	}

	return liked, count, nil
}

// AddComment appends a comment to the post. Comments are immutable once
// appended; only author-initiated deletion is allowed later.
func (e *Engine) AddComment(ctx context.Context, actorID, postID uint, text string) (*models.Comment, int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, models.NewInvalidInputError("Comment text is required")
	}
	if utf8.RuneCountInString(text) > maxCommentLength {
		return nil, 0, models.NewInvalidInputError("Comment text must be at most 500 characters")
	}

	db := e.DB.WithContext(ctx)

	var post models.Post
	if err := db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewNotFoundError("Post", postID)
		}
		return nil, 0, models.NewInternalError(err)
	}

	comment := models.Comment{
		Text:   text,
		UserID: actorID,
		PostID: post.ID,
	}
	if err := db.Create(&comment).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	if err := db.Preload("User").First(&comment, comment.ID).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var count int64
	if err := db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return &comment, count, nil
}

// DeleteComment removes a comment; only its author may do so.
func (e *Engine) DeleteComment(ctx context.Context, actorID, commentID uint) error {
	db := e.DB.WithContext(ctx)

	var comment models.Comment
	if err := db.First(&comment, commentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Comment", commentID)
		}
		return models.NewInternalError(err)
	}

	if comment.UserID != actorID {
		return models.NewForbiddenError("Only the comment author can delete it")
	}

	if err := db.Delete(&comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
