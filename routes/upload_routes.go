package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
)

func SetupUploadRoutes(r *gin.RouterGroup, uploadController *controllers.UploadController) {
	upload := r.Group("/upload")
	{
		// Single file upload URL generation
		upload.POST("/presigned-url", uploadController.GetPresignedURL)

		// Delete uploaded file. Keys contain slashes ("media/..."), so
		// this has to be a catch-all parameter.
		upload.DELETE("/file/*key", uploadController.DeleteFile)
	}
}
