package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/snapgram/api-go/controllers"
	"github.com/snapgram/api-go/gateway"
	"github.com/snapgram/api-go/middleware"
	"github.com/snapgram/api-go/social"
	"github.com/snapgram/api-go/storage"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, media storage.MediaStorage, gw gateway.CrossPostGateway) {
	engine := social.NewEngine(db, media)

	// Initialize controllers
	authController := controllers.NewAuthController(db)
	postController := controllers.NewPostController(engine)
	placeController := controllers.NewPlaceController(engine)
	interactionController := controllers.NewInteractionController(engine)
	groupController := controllers.NewGroupController(engine)
	feedController := controllers.NewFeedController(engine)
	searchController := controllers.NewSearchController(engine)
	uploadController := controllers.NewUploadController(media)
	crossPostController := controllers.NewCrossPostController(engine, gw)

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", authController.Register)
		public.POST("/login", authController.Login)
		public.POST("/login/google", authController.GoogleLogin)
		public.POST("/register/email-check", authController.RegisterEmailCheck)
		public.POST("/register/username-check", authController.RegisterUsernameCheck)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.POST("/logout", authController.Logout)
		protected.POST("/refresh-token", authController.RefreshToken)
		// User routes
		protected.GET("/profile", authController.GetProfile)
		protected.PUT("/profile", authController.UpdateProfile)

		// Setup other routes within the protected group
		SetupPostRoutes(protected, postController)
		SetupPlaceRoutes(protected, placeController)
		SetupInteractionRoutes(protected, interactionController)
		SetupGroupRoutes(protected, groupController)
		SetupFeedRoutes(protected, feedController)
		SetupSearchRoutes(protected, searchController)
		SetupUploadRoutes(protected, uploadController)
		SetupCrossPostRoutes(protected, crossPostController)
	}
}
