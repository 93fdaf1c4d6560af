package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/gateway"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/routes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubMedia is an in-process MediaStorage that records deletions.
type stubMedia struct {
	mu      sync.Mutex
	deleted []string
}

func (s *stubMedia) Store(ctx context.Context, data []byte, contentType string) (string, string, error) {
	return "media/stub", "https://media.test/media/stub", nil
}

func (s *stubMedia) Presign(ctx context.Context, key, contentType string) (string, error) {
	return "https://upload.test/" + key, nil
}

func (s *stubMedia) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *stubMedia) PublicURL(key string) string {
	return "https://media.test/" + key
}

func (s *stubMedia) deletedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

// stubGateway fakes the external network. failNext makes the next
// PostMedia call fail, like a provider outage.
type stubGateway struct {
	mu       sync.Mutex
	failNext bool
	posted   int
}

func (s *stubGateway) RequestToken(ctx context.Context) (string, string, string, error) {
	return "req-token", "req-secret", "https://external.test/authorize?oauth_token=req-token", nil
}

func (s *stubGateway) ExchangeToken(ctx context.Context, requestToken, requestSecret, verifier string) (*gateway.TokenExchange, error) {
	if requestSecret == "" {
		return nil, errors.New("missing request secret")
	}
	return &gateway.TokenExchange{
		AccountID:    "ext-100",
		AccessToken:  "access-token",
		AccessSecret: "access-secret",
		Handle:       "snapgram_user",
	}, nil
}

func (s *stubGateway) PostMedia(ctx context.Context, accessToken, accessSecret, text, mediaURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failNext {
		s.failNext = false
		return "", errors.New("provider unavailable")
	}
	s.posted++
	return fmt.Sprintf("ext-post-%d", s.posted), nil
}

func setupTestRouter(t *testing.T) (*gin.Engine, *stubMedia, *stubGateway) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
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

	media := &stubMedia{}
	gw := &stubGateway{}
	r := gin.New()
	routes.SetupRoutes(r, db, media, gw)
	return r, media, gw
}

func doRequest(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

// registerAndLogin creates a user through the public endpoints and
// returns a usable bearer token.
func registerAndLogin(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	email := username + "@example.com"

	w := doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, "register %s: %s", username, w.Body.String())

	w = doRequest(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", username, w.Body.String())

	token, _ := decodeBody(t, w)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := doRequest(t, r, http.MethodGet, "/api/feed", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/feed", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	w := doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "ab",
		"email":    "ab@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "validname",
		"email":    "not-an-email",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate username
	registerAndLogin(t, r, "taken")
	w = doRequest(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "taken",
		"email":    "other@example.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRefreshTokenRotation(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	registerAndLogin(t, r, "alice")
	w := doRequest(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	refresh := decodeBody(t, w)["refresh_token"].(string)

	w = doRequest(t, r, http.MethodPost, "/api/refresh-token", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "refresh endpoint is protected")

	token := rotateRefreshToken(t, r, refresh)
	require.NotEmpty(t, token)
}

// rotateRefreshToken exchanges a refresh token for a fresh access token
// and checks the old refresh token was rotated out.
func rotateRefreshToken(t *testing.T, r *gin.Engine, refresh string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	access := decodeBody(t, w)["access_token"].(string)

	w = doRequest(t, r, http.MethodPost, "/api/refresh-token", access, gin.H{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	rotated := body["refresh_token"].(string)
	assert.NotEqual(t, refresh, rotated)

	// The old refresh token no longer works.
	w = doRequest(t, r, http.MethodPost, "/api/refresh-token", access, gin.H{
		"refresh_token": refresh,
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	return body["access_token"].(string)
}

func TestProfileEndpoints(t *testing.T) {
	r, _, _ := setupTestRouter(t)
	alice := registerAndLogin(t, r, "alice")

	w := doRequest(t, r, http.MethodGet, "/api/profile", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "alice", user["username"])

	w = doRequest(t, r, http.MethodPut, "/api/profile", alice, gin.H{
		"bio": "coffee and trails",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/profile", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	user = decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "coffee and trails", user["bio"])

	// Bio over the cap is rejected.
	w = doRequest(t, r, http.MethodPut, "/api/profile", alice, gin.H{
		"bio": strings.Repeat("x", 151),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestPostLifecycle walks the core sharing flow end to end: publish a
// post, have another user like and comment on it, then delete it and
// verify everything, media included, is gone.
func TestPostLifecycle(t *testing.T) {
	r, media, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")
	bob := registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/posts", alice, gin.H{
		"caption":   "#sunset nice",
		"mediaType": "photo",
		"mediaKey":  "media/sunset.jpg",
		"mediaUrl":  "https://media.test/media/sunset.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decodeBody(t, w)
	post := created["post"].(map[string]interface{})
	postID := fmt.Sprintf("%v", post["ID"])
	assert.Equal(t, []interface{}{"#sunset"}, post["hashtags"])

	w = doRequest(t, r, http.MethodPost, "/api/posts/"+postID+"/like", bob, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	liked := decodeBody(t, w)
	assert.Equal(t, true, liked["liked"])
	assert.Equal(t, float64(1), liked["likeCount"])

	w = doRequest(t, r, http.MethodPost, "/api/posts/"+postID+"/comment", bob, gin.H{"text": "nice!"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	commented := decodeBody(t, w)
	assert.Equal(t, float64(1), commented["commentCount"])

	// Bob cannot delete Alice's post.
	w = doRequest(t, r, http.MethodDelete, "/api/posts/"+postID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/posts/"+postID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Contains(t, media.deletedKeys(), "media/sunset.jpg")

	w = doRequest(t, r, http.MethodGet, "/api/posts/"+postID, alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFollowEndpoints(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")
	registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["following"])
	assert.Equal(t, float64(1), body["followerCount"])

	// Duplicate follow is a policy error, not a no-op.
	w = doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeAlreadyExists, decodeBody(t, w)["code"])

	// Self-follow is rejected.
	w = doRequest(t, r, http.MethodPost, "/api/follow/alice", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, models.CodeInvalidOperation, decodeBody(t, w)["code"])

	// Unknown target.
	w = doRequest(t, r, http.MethodPost, "/api/follow/ghost", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/unfollow/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, false, body["following"])
	assert.Equal(t, float64(0), body["followerCount"])

	// Unfollowing again stays a no-op.
	w = doRequest(t, r, http.MethodPost, "/api/unfollow/bob", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeedEndpoint(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")
	bob := registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/posts", bob, gin.H{
		"caption":   "from bob",
		"mediaType": "photo",
		"mediaKey":  "media/b.jpg",
		"mediaUrl":  "https://media.test/media/b.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Empty before following.
	w = doRequest(t, r, http.MethodGet, "/api/feed", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(0), pagination["totalItems"])

	w = doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/feed", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	pagination = body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["totalItems"])
}

func TestGroupEndpoints(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")
	bob := registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodPost, "/api/groups", alice, gin.H{
		"name": "Hiking Club",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	group := decodeBody(t, w)["group"].(map[string]interface{})
	groupID := fmt.Sprintf("%v", group["id"])

	w = doRequest(t, r, http.MethodPost, "/api/groups/"+groupID+"/join", bob, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// The creator cannot leave.
	w = doRequest(t, r, http.MethodPost, "/api/groups/"+groupID+"/leave", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/groups/"+groupID+"/members", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decodeBody(t, w)
	assert.Equal(t, float64(2), members["pagination"].(map[string]interface{})["totalItems"])

	// Only the creator can delete the group.
	w = doRequest(t, r, http.MethodDelete, "/api/groups/"+groupID, bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/api/groups/"+groupID, alice, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestCrossPostFlow(t *testing.T) {
	r, _, gw := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")

	// Publishing without a linked account fails cleanly.
	w := doRequest(t, r, http.MethodPost, "/api/posts/1/crosspost", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Connect dance against the stubbed provider.
	w = doRequest(t, r, http.MethodPost, "/api/crosspost/connect", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decodeBody(t, w)["authorizeUrl"], "req-token")

	w = doRequest(t, r, http.MethodGet, "/api/crosspost/callback?oauth_token=req-token&oauth_verifier=ok", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodGet, "/api/crosspost/status", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	status := decodeBody(t, w)
	assert.Equal(t, true, status["canPost"])

	// Publish a post.
	w = doRequest(t, r, http.MethodPost, "/api/posts", alice, gin.H{
		"caption":   "sharing out",
		"mediaType": "photo",
		"mediaKey":  "media/out.jpg",
		"mediaUrl":  "https://media.test/media/out.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	postID := fmt.Sprintf("%v", decodeBody(t, w)["post"].(map[string]interface{})["ID"])

	// A provider failure surfaces as a gateway error and does not start
	// the cooldown.
	gw.failNext = true
	w = doRequest(t, r, http.MethodPost, "/api/posts/"+postID+"/crosspost", alice, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/posts/"+postID+"/crosspost", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "ext-post-1", decodeBody(t, w)["externalPostId"])

	// The second publish inside the window is rate limited.
	w = doRequest(t, r, http.MethodPost, "/api/posts/"+postID+"/crosspost", alice, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, models.CodeRateLimited, decodeBody(t, w)["code"])

	w = doRequest(t, r, http.MethodPost, "/api/crosspost/disconnect", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/crosspost/status", alice, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestModerationEndpoints(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")
	bob := registerAndLogin(t, r, "bob")

	w := doRequest(t, r, http.MethodGet, "/api/profile", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bobID := fmt.Sprintf("%.0f", decodeBody(t, w)["user"].(map[string]interface{})["id"].(float64))

	w = doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(t, r, http.MethodPost, "/api/users/"+bobID+"/block", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decodeBody(t, w)["blocked"])

	// The follow was severed and cannot be rebuilt while blocked.
	w = doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doRequest(t, r, http.MethodPost, "/api/follow/alice", bob, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/users/"+bobID+"/report", alice, gin.H{
		"reason":      "spam",
		"description": "keeps posting ads",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "pending", decodeBody(t, w)["status"])

	w = doRequest(t, r, http.MethodPost, "/api/users/"+bobID+"/report", alice, gin.H{"reason": "  "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/users/"+bobID+"/unblock", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(t, r, http.MethodPost, "/api/follow/bob", alice, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestUploadDeleteFile(t *testing.T) {
	r, media, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/upload/presigned-url", alice, gin.H{
		"fileName":    "pier.jpg",
		"contentType": "image/jpeg",
		"fileSize":    1024,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	key := decodeBody(t, w)["key"].(string)
	require.True(t, strings.HasPrefix(key, "media/"))

	// Keys embed a slash, so the delete route must match across segments.
	w = doRequest(t, r, http.MethodDelete, "/api/upload/file/"+key, alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, media.deletedKeys(), key)
}

func TestSearchEndpoints(t *testing.T) {
	r, _, _ := setupTestRouter(t)

	alice := registerAndLogin(t, r, "alice_hikes")

	w := doRequest(t, r, http.MethodPost, "/api/posts", alice, gin.H{
		"caption":   "#sunset from the ridge",
		"mediaType": "photo",
		"mediaKey":  "media/r.jpg",
		"mediaUrl":  "https://media.test/media/r.jpg",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/search/users?q=hikes", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, w)["pagination"].(map[string]interface{})["totalItems"])

	w = doRequest(t, r, http.MethodGet, "/api/search/posts?hashtag=%23sunset", alice, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1), decodeBody(t, w)["pagination"].(map[string]interface{})["totalItems"])

	// Out-of-range pagination is rejected.
	w = doRequest(t, r, http.MethodGet, "/api/search/users?q=x&limit=500", alice, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
