package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/utils"
)

type PostController struct {
	Engine *social.Engine
}

type CreatePostRequest struct {
	Caption   string       `json:"caption"`
	MediaType string       `json:"mediaType" binding:"required,oneof=photo video"`
	MediaKey  string       `json:"mediaKey" binding:"required"`
	MediaURL  string       `json:"mediaUrl" binding:"required"`
	GroupID   *uint        `json:"groupId"`
	Place     *PlaceAttach `json:"place"`
}

type PlaceAttach struct {
	ExternalID string   `json:"externalId" binding:"required"`
	Name       string   `json:"name" binding:"required"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Categories []string `json:"categories"`
}

func NewPostController(engine *social.Engine) *PostController {
	return &PostController{Engine: engine}
}

// CreatePost handles POST /posts.
func (pc *PostController) CreatePost(c *gin.Context) {
	user := utils.GetUser(c)

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	input := social.CreatePostInput{
		Caption:   req.Caption,
		MediaType: req.MediaType,
		MediaKey:  req.MediaKey,
		MediaURL:  req.MediaURL,
		GroupID:   req.GroupID,
	}
	if req.Place != nil {
		input.Place = &social.PlaceInput{
			ExternalID: req.Place.ExternalID,
			Name:       req.Place.Name,
			Address:    req.Place.Address,
			Latitude:   req.Place.Latitude,
			Longitude:  req.Place.Longitude,
			Categories: req.Place.Categories,
		}
	}

	post, err := pc.Engine.CreatePost(c.Request.Context(), user.UserID, input)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"post":    post,
	})
}

// GetPostDetail handles GET /posts/:id.
func (pc *PostController) GetPostDetail(c *gin.Context) {
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	post, err := pc.Engine.GetPost(c.Request.Context(), postID)
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"post":    post,
	})
}

// DeletePost handles DELETE /posts/:id. Owner only; stored media is
// released before the record goes.
func (pc *PostController) DeletePost(c *gin.Context) {
	user := utils.GetUser(c)
	postID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := pc.Engine.DeletePost(c.Request.Context(), user.UserID, postID); err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}

// GetUserPosts handles GET /users/:id/posts.
func (pc *PostController) GetUserPosts(c *gin.Context) {
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var q PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	posts, total, err := pc.Engine.SearchPosts(c.Request.Context(), social.PostFilter{UserID: userID}, q.Pagination())
	if err != nil {
		models.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success:    true,
		Data:       posts,
		Pagination: paginationMeta(q.Pagination(), total),
	})
}
