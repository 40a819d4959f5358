package routes

import (
	"net/http"

	"feedapi/controllers"
	"feedapi/handlers"
	"feedapi/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, authController *controllers.AuthController, feedController *controllers.FeedController, w *handlers.WebSocketHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.PUT("/signup", authController.Signup)
			auth.POST("/login", authController.Login)
			auth.GET("/status", middleware.AuthRequired(), authController.GetStatus)
			auth.PATCH("/status", middleware.AuthRequired(), authController.UpdateStatus)
		}

		feed := api.Group("/feed")
		feed.Use(middleware.AuthRequired())
		{
			feed.GET("/posts", feedController.GetPosts)
			feed.POST("/post", feedController.CreatePost)
			feed.GET("/post/:id", feedController.GetPost)
			feed.PUT("/post/:id", feedController.UpdatePost)
			feed.DELETE("/post/:id", feedController.DeletePost)
		}

		api.GET("/ws", middleware.AuthRequired(), w.HandleFeed)
	}
}
