package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/snapgram/api-go/cache"
	"github.com/snapgram/api-go/config"
	"github.com/snapgram/api-go/gateway"
	"github.com/snapgram/api-go/routes"
	"github.com/snapgram/api-go/storage"
)

func main() {
	// Set up logging to stdout
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize database
	db := config.InitDB()

	// Redis is optional; helpers degrade to the database when absent.
	cache.InitRedis(os.Getenv("REDIS_ADDR"))

	// Media storage (Cloudflare R2)
	media := storage.NewR2Storage(config.GetR2Config())

	// Cross-posting gateway, enabled only when configured
	var gw gateway.CrossPostGateway
	if cfg := config.NewCrossPostConfig(); cfg != nil {
		gw = gateway.NewOAuth1Gateway(cfg)
	} else {
		log.Println("Cross-posting disabled: CROSSPOST_* variables not set")
	}

	// Create a new Gin router
	r := gin.Default()

	// Add logging middleware
	r.Use(gin.LoggerWithWriter(os.Stdout))

	// Initialize routes
	routes.SetupRoutes(r, db, media, gw)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	r.Run(":" + port)
}
