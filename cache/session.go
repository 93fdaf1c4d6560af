package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/snapgram/api-go/models"
	"gorm.io/gorm"
)

const userSnapshotTTL = 2 * time.Minute

func userSnapshotKey(userID uint) string {
	return fmt.Sprintf("user:snapshot:%d", userID)
}

// GetUserSnapshot is a read-through cache of the acting user's profile
// snapshot. On a miss (or without Redis) it reads the row and populates
// the cache best-effort.
func GetUserSnapshot(ctx context.Context, db *gorm.DB, userID uint) (*models.UserSnapshot, error) {
	key := userSnapshotKey(userID)

	var snap models.UserSnapshot
	found, err := GetJSON(ctx, key, &snap)
	if err == nil && found {
		return &snap, nil
	}

	var user models.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		return nil, err
	}

	fresh := user.Snapshot()
	_ = SetJSON(ctx, key, fresh, userSnapshotTTL)
	return fresh, nil
}

// InvalidateUser drops the cached snapshot. Call after any profile
// mutation so the next read sees fresh data.
func InvalidateUser(ctx context.Context, userID uint) {
	_ = Delete(ctx, userSnapshotKey(userID))
}
