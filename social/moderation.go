package social

import (
	"context"
	"errors"
	"strings"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockUser adds the directed block edge actor -> target and severs the
// follow edges in both directions in the same transaction, so the pair
// stops appearing in each other's feeds immediately.
func (e *Engine) BlockUser(ctx context.Context, actorID, targetID uint) error {
	db := e.DB.WithContext(ctx)

	if targetID == actorID {
		return models.NewInvalidOperationError("Cannot block yourself")
	}
	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", targetID)
		}
		return models.NewInternalError(err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.Block{
			BlockerUserID: actorID,
			BlockedUserID: targetID,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewAlreadyExistsError("User is already blocked")
		}
		return tx.Where(
			"(follower_user_id = ? AND following_user_id = ?) OR (follower_user_id = ? AND following_user_id = ?)",
			actorID, targetID, targetID, actorID,
		).Delete(&models.Follow{}).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return models.NewInternalError(err)
	}
	return nil
}

// UnblockUser removes the block edge; unblocking someone who isn't
// blocked is a no-op. Severed follow edges do not come back.
func (e *Engine) UnblockUser(ctx context.Context, actorID, targetID uint) error {
	db := e.DB.WithContext(ctx)

	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("User", targetID)
		}
		return models.NewInternalError(err)
	}

	if err := db.Where("blocker_user_id = ? AND blocked_user_id = ?", actorID, targetID).
		Delete(&models.Block{}).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// isBlockedEither reports whether a block exists in either direction
// between the two users.
func (e *Engine) isBlockedEither(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	if err := e.DB.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_user_id = ? AND blocked_user_id = ?) OR (blocker_user_id = ? AND blocked_user_id = ?)",
			a, b, b, a).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// ReportUser files a moderation report against the target. The report
// lands in the queue as pending; nothing else changes for either user.
func (e *Engine) ReportUser(ctx context.Context, actorID, targetID uint, reason, description string) (*models.Report, error) {
	db := e.DB.WithContext(ctx)

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, models.NewInvalidInputError("Report reason is required")
	}
	if targetID == actorID {
		return nil, models.NewInvalidOperationError("Cannot report yourself")
	}
	var target models.User
	if err := db.First(&target, targetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", targetID)
		}
		return nil, models.NewInternalError(err)
	}

	report := &models.Report{
		ReporterUserID: actorID,
		ReportedUserID: targetID,
		Reason:         reason,
		Description:    strings.TrimSpace(description),
		Status:         models.ReportStatusPending,
	}
	if err := db.Create(report).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return report, nil
}
