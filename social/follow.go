package social

import (
	"context"
	"errors"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowUser adds the directed edge actor -> target. A repeat follow is
// rejected as ALREADY_EXISTS rather than treated as a no-op; callers
// observe the difference, so the policy is part of the contract.
// Returns the target's follower count after the operation.
func (e *Engine) FollowUser(ctx context.Context, actorID uint, targetUsername string) (int64, error) {
	db := e.DB.WithContext(ctx)

	var target models.User
	if err := db.Where("username = ?", targetUsername).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("User", targetUsername)
		}
		return 0, models.NewInternalError(err)
	}

	if target.ID == actorID {
		return 0, models.NewInvalidOperationError("Cannot follow yourself")
	}

	blocked, err := e.isBlockedEither(ctx, actorID, target.ID)
	if err != nil {
		return 0, err
	}
	if blocked {
		return 0, models.NewForbiddenError("Cannot follow this user")
	}

	// Single insert covers both sides of the edge; the unique index turns
	// a concurrent duplicate into RowsAffected == 0.
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Follow{
		FollowerUserID:  actorID,
		FollowingUserID: target.ID,
	})
	if res.Error != nil {
		return 0, models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return 0, models.NewAlreadyExistsError("Already following this user")
	}

	return e.followerCount(ctx, target.ID)
}

// UnfollowUser removes the edge unconditionally; unfollowing someone you
// don't follow is a no-op. Returns the target's follower count.
func (e *Engine) UnfollowUser(ctx context.Context, actorID uint, targetUsername string) (int64, error) {
	db := e.DB.WithContext(ctx)

	var target models.User
	if err := db.Where("username = ?", targetUsername).First(&target).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, models.NewNotFoundError("User", targetUsername)
		}
		return 0, models.NewInternalError(err)
	}

	if err := db.Where("follower_user_id = ? AND following_user_id = ?", actorID, target.ID).
		Delete(&models.Follow{}).Error; err != nil {
		return 0, models.NewInternalError(err)
	}

	return e.followerCount(ctx, target.ID)
}

func (e *Engine) followerCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	if err := e.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("following_user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// IsFollowing reports whether the directed edge actor -> target exists.
func (e *Engine) IsFollowing(ctx context.Context, actorID, targetID uint) (bool, error) {
	var count int64
	if err := e.DB.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_user_id = ? AND following_user_id = ?", actorID, targetID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// FollowEdge is a follower/following list entry.
type FollowEdge struct {
	UserID     uint   `json:"userId"`
	Username   string `json:"username"`
	Avatar     string `json:"avatar"`
	FollowedAt string `json:"followedAt"`
}

// Followers returns a page of users following userID, oldest edge first.
func (e *Engine) Followers(ctx context.Context, userID uint, p Pagination) ([]FollowEdge, int64, error) {
	return e.followEdges(ctx, userID, p, true)
}

// Following returns a page of users userID follows, oldest edge first.
func (e *Engine) Following(ctx context.Context, userID uint, p Pagination) ([]FollowEdge, int64, error) {
	return e.followEdges(ctx, userID, p, false)
}

func (e *Engine) followEdges(ctx context.Context, userID uint, p Pagination, followers bool) ([]FollowEdge, int64, error) {
	if err := p.Validate(); err != nil {
		return nil, 0, err
	}

	db := e.DB.WithContext(ctx).Model(&models.Follow{})
	if followers {
		db = db.Select("users.id as user_id, users.username, users.avatar, follows.created_at as followed_at").
			Joins("JOIN users ON users.id = follows.follower_user_id").
			Where("follows.following_user_id = ?", userID)
	} else {
		db = db.Select("users.id as user_id, users.username, users.avatar, follows.created_at as followed_at").
			Joins("JOIN users ON users.id = follows.following_user_id").
			Where("follows.follower_user_id = ?", userID)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var edges []FollowEdge
	if err := db.Order("follows.created_at ASC").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&edges).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	return edges, total, nil
}
