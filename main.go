package main

import (
	"log"

	"feedapi/config"
	"feedapi/controllers"
	"feedapi/database"
	"feedapi/handlers"
	"feedapi/middleware"
	"feedapi/routes"
	"feedapi/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "feedapi/docs"
)

// @title Feed API
// @version 1.0
// @description A feed-of-posts API with JWT auth, image uploads and realtime updates

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Error loading .env file: %v", err)
	}

	cfg := config.Load()

	db := database.Connect(cfg)
	database.Migrate(db)

	imageStore, err := services.NewImageStore(cfg.ImageDir)
	if err != nil {
		log.Fatal("Failed to prepare image directory:", err)
	}

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.Logger())

	hubService := services.NewHubService()
	defer hubService.Shutdown()

	authController := controllers.NewAuthController(db)
	feedController := controllers.NewFeedController(db, cfg, imageStore, hubService)
	wsHandler := handlers.NewWebSocketHandler(hubService)

	routes.SetupRoutes(r, authController, feedController, wsHandler)

	r.Static("/images", cfg.ImageDir)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Printf("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
