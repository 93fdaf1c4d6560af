package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/models"
	"github.com/snapgram/api-go/storage"
)

type UploadController struct {
	Media storage.MediaStorage
}

type PresignedURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FileSize    int64  `json:"fileSize" binding:"required"`
}

type PresignedURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

func NewUploadController(media storage.MediaStorage) *UploadController {
	return &UploadController{Media: media}
}

// GetPresignedURL handles POST /upload/presigned-url: validates size and
// content type, then hands back a direct-to-bucket upload URL.
func (uc *UploadController) GetPresignedURL(c *gin.Context) {
	if uc.Media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media storage is not configured", "success": false})
		return
	}

	var req PresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	if err := storage.ValidateMedia(req.ContentType, req.FileSize); err != nil {
		models.RespondWithError(c, models.NewInvalidInputError(err.Error()))
		return
	}

	key := storage.NewKey(req.ContentType)
	uploadURL, err := uc.Media.Presign(c.Request.Context(), key, req.ContentType)
	if err != nil {
		models.RespondWithError(c, models.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, PresignedURLResponse{
		UploadURL: uploadURL,
		FileURL:   uc.Media.PublicURL(key),
		Key:       key,
		ExpiresIn: 900,
	})
}

// DeleteFile handles DELETE /upload/file/*key for orphaned uploads.
func (uc *UploadController) DeleteFile(c *gin.Context) {
	if uc.Media == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Media storage is not configured", "success": false})
		return
	}

	// The catch-all param keeps its leading slash.
	key := strings.TrimPrefix(c.Param("key"), "/")
	if key == "" {
		models.RespondWithError(c, models.NewInvalidInputError("Key is required"))
		return
	}

	if err := uc.Media.Delete(c.Request.Context(), key); err != nil {
		models.RespondWithError(c, models.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
