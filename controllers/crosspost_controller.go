package controllers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/cache"
	"github.com/snapgram/api-go/gateway"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/utils"
)

const requestSecretTTL = 10 * time.Minute

type CrossPostController struct {
	Engine  *social.Engine
	Gateway gateway.CrossPostGateway

	// Fallback store for pending request secrets when Redis is absent.
	mu      sync.Mutex
	pending map[string]string
}

func NewCrossPostController(engine *social.Engine, gw gateway.CrossPostGateway) *CrossPostController {
	return &CrossPostController{
		Engine:  engine,
		Gateway: gw,
		pending: make(map[string]string),
	}
}

func requestSecretKey(token string) string {
	return fmt.Sprintf("crosspost:reqsecret:%s", token)
}

func (cc *CrossPostController) storeRequestSecret(c *gin.Context, token, secret string) {
	if err := cache.SetJSON(c.Request.Context(), requestSecretKey(token), secret, requestSecretTTL); err == nil && cache.Client != nil {
		return
	}
	cc.mu.Lock()
	cc.pending[token] = secret
	cc.mu.Unlock()
}

func (cc *CrossPostController) takeRequestSecret(c *gin.Context, token string) (string, bool) {
	var secret string
	found, err := cache.GetJSON(c.Request.Context(), requestSecretKey(token), &secret)
	if err == nil && found {
		_ = cache.Delete(c.Request.Context(), requestSecretKey(token))
		return secret, true
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	secret, ok := cc.pending[token]
	if ok {
		delete(cc.pending, token)
	}
	return secret, ok
}

// Connect handles POST /crosspost/connect: starts the OAuth handshake
// and returns the URL the user must authorize at.
func (cc *CrossPostController) Connect(c *gin.Context) {
	if cc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cross-posting is not configured", "success": false})
		return
	}

	token, secret, authorizeURL, err := cc.Gateway.RequestToken(c.Request.Context())
	if err != nil {
		models.RespondWithError(c, models.NewExternalServiceError("Could not start the connect flow", err))
		return
	}

	cc.storeRequestSecret(c, token, secret)

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"authorizeUrl": authorizeURL,
	})
}

// Callback handles GET /crosspost/callback: completes the handshake and
// links the external account to the acting user, replacing any prior
// link.
func (cc *CrossPostController) Callback(c *gin.Context) {
	if cc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cross-posting is not configured", "success": false})
		return
	}

	user := utils.GetUser(c)
	token := c.Query("oauth_token")
	verifier := c.Query("oauth_verifier")
	if token == "" || verifier == "" {
		models.RespondWithError(c, models.NewInvalidInputError("oauth_token and oauth_verifier are required"))
		return
	}

	secret, ok := cc.takeRequestSecret(c, token)
	if !ok {
		models.RespondWithError(c, models.NewInvalidInputError("Unknown or expired request token"))
		return
	}

	exchange, err := cc.Gateway.ExchangeToken(c.Request.Context(), token, secret, verifier)
	if err != nil {
		models.RespondWithError(c, models.NewExternalServiceError("Token exchange failed", err))
		return
	}

	account, err := cc.Engine.LinkExternalAccount(c.Request.Context(), user.UserID, exchange)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"account": account,
	})
}

// Disconnect handles POST /crosspost/disconnect.
func (cc *CrossPostController) Disconnect(c *gin.Context) {
	user := utils.GetUser(c)

	if err := cc.Engine.UnlinkExternalAccount(c.Request.Context(), user.UserID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Disconnected"})
}

// Status handles GET /crosspost/status.
func (cc *CrossPostController) Status(c *gin.Context) {
	user := utils.GetUser(c)

	account, err := cc.Engine.GetExternalAccount(c.Request.Context(), user.UserID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"account":  account,
		"canPost":  cc.Engine.CanCrossPost(account),
		"cooldown": social.CrossPostCooldown.Seconds(),
	})
}

// Publish handles POST /posts/:id/crosspost: copies the actor's own post
// to the external network. The gateway call runs without holding any
// lock; the rate limit is re-checked atomically when the result is
// recorded.
func (cc *CrossPostController) Publish(c *gin.Context) {
	if cc.Gateway == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Cross-posting is not configured", "success": false})
		return
	}

	user := utils.GetUser(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	account, err := cc.Engine.GetExternalAccount(c.Request.Context(), user.UserID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	if !cc.Engine.CanCrossPost(account) {
		models.RespondWithError(c, models.NewRateLimitedError("Cross-post rate limit: wait before posting again"))
		return
	}

	post, err := cc.Engine.GetPost(c.Request.Context(), postID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}
	if post.UserID != user.UserID {
		models.RespondWithError(c, models.NewForbiddenError("Only the post owner can cross-post it"))
		return
	}

	externalID, err := cc.Gateway.PostMedia(c.Request.Context(), account.AccessToken, account.AccessSecret, post.Caption, post.MediaURL)
	if err != nil {
		// No automatic retry; the user decides whether to try again.
		models.RespondWithError(c, models.NewExternalServiceError("External post failed", err))
		return
	}

	if err := cc.Engine.RecordCrossPost(c.Request.Context(), account.ID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"externalPostId": externalID,
	})
}
