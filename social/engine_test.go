package social

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/snapgram/api-go/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeMedia records deletes so tests can assert media release without a
// real bucket.
type fakeMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (f *fakeMedia) Store(ctx context.Context, data []byte, contentType string) (string, string, error) {
	return "media/fake", "https://media.test/media/fake", nil
}

func (f *fakeMedia) Presign(ctx context.Context, key, contentType string) (string, error) {
	return "https://upload.test/" + key, nil
}

func (f *fakeMedia) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeMedia) PublicURL(key string) string {
	return "https://media.test/" + key
}

func (f *fakeMedia) deletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// A second connection to :memory: would be a separate empty database,
	// so pin the pool to one connection.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Report{},
		&models.Post{},
		&models.PostMedia{},
		&models.Like{},
		&models.Comment{},
		&models.Group{},
		&models.GroupMember{},
		&models.Place{},
		&models.ExternalAccount{},
		&models.RefreshToken{},
	); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return db
}

func newTestEngine(t *testing.T) (*Engine, *fakeMedia) {
	t.Helper()
	media := &fakeMedia{}
	return NewEngine(setupTestDB(t), media), media
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
		Password: "hashed-password",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, e *Engine, userID uint, caption string) *models.Post {
	t.Helper()
	post, err := e.CreatePost(context.Background(), userID, CreatePostInput{
		Caption:   caption,
		MediaType: "photo",
		MediaKey:  fmt.Sprintf("media/%d/test.jpg", userID),
		MediaURL:  fmt.Sprintf("https://media.test/media/%d/test.jpg", userID),
	})
	require.NoError(t, err)
	return post
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T: %v", err, err)
	return appErr.Code
}
