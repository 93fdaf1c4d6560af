package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/utils"
)

type InteractionController struct {
	Engine *social.Engine
}

func NewInteractionController(engine *social.Engine) *InteractionController {
	return &InteractionController{Engine: engine}
}

func parseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		models.RespondWithError(c, models.NewInvalidInputError("Invalid id"))
		return 0, false
	}
	return uint(id), true
}

// FollowUser handles POST /follow/:username.
func (ic *InteractionController) FollowUser(c *gin.Context) {
	user := utils.GetUser(c)

	count, err := ic.Engine.FollowUser(c.Request.Context(), user.UserID, c.Param("username"))
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following":     true,
		"followerCount": count,
	})
}

// UnfollowUser handles POST /unfollow/:username.
func (ic *InteractionController) UnfollowUser(c *gin.Context) {
	user := utils.GetUser(c)

	count, err := ic.Engine.UnfollowUser(c.Request.Context(), user.UserID, c.Param("username"))
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"following":     false,
		"followerCount": count,
	})
}

// LikePost handles POST /posts/:id/like with strict toggle semantics.
func (ic *InteractionController) LikePost(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	liked, count, err := ic.Engine.ToggleLike(c.Request.Context(), user.UserID, postID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"liked":     liked,
		"likeCount": count,
	})
}

// CommentPost handles POST /posts/:id/comment.
func (ic *InteractionController) CommentPost(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	comment, count, err := ic.Engine.AddComment(c.Request.Context(), user.UserID, postID, input.Text)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"comment":      comment,
		"commentCount": count,
	})
}

// DeleteComment handles DELETE /comments/:id.
func (ic *InteractionController) DeleteComment(c *gin.Context) {
	user := utils.GetUser(c)
	commentID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ic.Engine.DeleteComment(c.Request.Context(), user.UserID, commentID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// BlockUser handles POST /users/:id/block. Blocking also severs any
// follow relationship between the two users.
func (ic *InteractionController) BlockUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ic.Engine.BlockUser(c.Request.Context(), user.UserID, targetID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": true})
}

// UnblockUser handles POST /users/:id/unblock.
func (ic *InteractionController) UnblockUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ic.Engine.UnblockUser(c.Request.Context(), user.UserID, targetID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"blocked": false})
}

// ReportUser handles POST /users/:id/report.
func (ic *InteractionController) ReportUser(c *gin.Context) {
	user := utils.GetUser(c)
	targetID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var input struct {
		Reason      string `json:"reason"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	report, err := ic.Engine.ReportUser(c.Request.Context(), user.UserID, targetID, input.Reason, input.Description)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"status":  report.Status,
	})
}

// GetUserFollowers handles GET /users/:id/followers.
func (ic *InteractionController) GetUserFollowers(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	edges, total, err := ic.Engine.Followers(c.Request.Context(), userID, q.Pagination())
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       edges,
		Pagination: paginationMeta(q.Pagination(), total),
	})
}

// GetUserFollowing handles GET /users/:id/following.
func (ic *InteractionController) GetUserFollowing(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	edges, total, err := ic.Engine.Following(c.Request.Context(), userID, q.Pagination())
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       edges,
		Pagination: paginationMeta(q.Pagination(), total),
	})
}
