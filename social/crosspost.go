package social

import (
	"context"
	"errors"
	"time"

	"github.com/snapgram/api-go/gateway"
	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
)

// CrossPostCooldown is the minimum gap between two cross-posts from the
// same linked account.
const CrossPostCooldown = 60 * time.Second

// CanCrossPost reports whether the account is outside the cooldown
// window. A nil LastPostAt means the account has never posted.
func (e *Engine) CanCrossPost(account *models.ExternalAccount) bool {
	if account.LastPostAt == nil {
		return true
	}
	return e.Now().Sub(*account.LastPostAt) > CrossPostCooldown
}

// RecordCrossPost stamps the account after a confirmed successful
// external post. The window is re-checked inside the conditional UPDATE,
// so a concurrent post that slipped in after the caller's read loses
// here instead of double-posting the window.
func (e *Engine) RecordCrossPost(ctx context.Context, accountID uint) error {
	now := e.Now()
	res := e.DB.WithContext(ctx).Model(&models.ExternalAccount{}).
		Where("id = ? AND (last_post_at IS NULL OR last_post_at < ?)", accountID, now.Add(-CrossPostCooldown)).
		Updates(map[string]interface{}{
			"last_post_at": now,
			"post_count":   gorm.Expr("post_count + 1"),
		})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewRateLimitedError("Cross-post rate limit: wait before posting again")
	}
	return nil
}

// GetExternalAccount returns the actor's link, if any.
func (e *Engine) GetExternalAccount(ctx context.Context, userID uint) (*models.ExternalAccount, error) {
	var account models.ExternalAccount
	if err := e.DB.WithContext(ctx).Where("user_id = ?", userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("External account link for user", userID)
		}
		return nil, models.NewInternalError(err)
	}
	return &account, nil
}

// LinkExternalAccount records a completed OAuth handshake. One user maps
// to one external account and vice versa; linking an account already
// held by a different user fails without mutating anything. Re-linking
// the same account refreshes credentials but keeps the post history, so
// the rate limit cannot be reset by reconnecting.
func (e *Engine) LinkExternalAccount(ctx context.Context, userID uint, exchange *gateway.TokenExchange) (*models.ExternalAccount, error) {
	if exchange == nil || exchange.AccountID == "" {
		return nil, models.NewInvalidInputError("External account id is required")
	}

	db := e.DB.WithContext(ctx)

	var account models.ExternalAccount
	err := db.Transaction(func(tx *gorm.DB) error {
		var holder models.ExternalAccount
		err := tx.Where("external_user_id = ?", exchange.AccountID).First(&holder).Error
		switch {
		case err == nil:
			if holder.UserID != userID {
				return models.NewAlreadyExistsError("External account is already linked to another user")
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return models.NewInternalError(err)
		}

		var prior models.ExternalAccount
		err = tx.Where("user_id = ?", userID).First(&prior).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewInternalError(err)
		}

		account = models.ExternalAccount{
			UserID:         userID,
			ExternalUserID: exchange.AccountID,
			Handle:         exchange.Handle,
			AccessToken:    exchange.AccessToken,
			AccessSecret:   exchange.AccessSecret,
			Active:         true,
		}
		if err == nil {
			// Replacing an existing link for this user.
			if prior.ExternalUserID == exchange.AccountID {
				account.LastPostAt = prior.LastPostAt
				account.PostCount = prior.PostCount
			}
			if err := tx.Delete(&prior).Error; err != nil {
				return models.NewInternalError(err)
			}
		}

		if err := tx.Create(&account).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}

// UnlinkExternalAccount removes the actor's link. Unlinking when no link
// exists is reported as NotFound.
func (e *Engine) UnlinkExternalAccount(ctx context.Context, userID uint) error {
	res := e.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ExternalAccount{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("External account link for user", userID)
	}
	return nil
}
