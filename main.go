package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/secretnet/backend/controllers"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/docs"
	"github.com/secretnet/backend/middleware"
	"github.com/secretnet/backend/websocket"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Secret Message API
// @version         1.0
// @description     API Server for the secret message friend network
// @host            localhost:8080
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables")
	}

	// Initialize database
	database.Connect()
	database.Migrate()

	// Set up Swagger info
	docs.SwaggerInfo.Title = "Secret Message API"
	docs.SwaggerInfo.Description = "API Server for the secret message friend network"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = "localhost:" + os.Getenv("PORT")
	if docs.SwaggerInfo.Host == "localhost:" {
		docs.SwaggerInfo.Host = "localhost:8080"
	}
	docs.SwaggerInfo.BasePath = "/"
	docs.SwaggerInfo.Schemes = []string{"http"}

	router := SetupRouter()

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logrus.Infof("Server running on port %s", port)
	logrus.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", port)
	if err := router.Run(":" + port); err != nil {
		logrus.WithError(err).Fatal("Failed to start server")
	}
}

// SetupRouter builds the gin engine with all routes and middleware
func SetupRouter() *gin.Engine {
	router := gin.Default()

	// A non-POST hit on a POST-only route answers 405, not 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Authentication routes
	auth := router.Group("/api")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
	}

	// Protected routes
	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		// User and friend routes
		api.GET("/users", controllers.GetUsers)
		api.GET("/friends/requests", controllers.GetPendingRequests)
		api.POST("/friends/requests", controllers.SendFriendRequest)
		api.POST("/friends/requests/respond", controllers.RespondToRequest)
		api.DELETE("/friends/:id", controllers.Unfriend)

		// Secret message routes
		api.GET("/secretMessage", controllers.GetSecretMessage)
		api.POST("/secretMessage", controllers.SaveSecretMessage)
		api.GET("/users/:id/secretMessage", controllers.GetFriendSecretMessage)

		// Account routes
		api.POST("/deleteUser", controllers.DeleteUser)
	}

	// WebSocket route
	router.GET("/ws", websocket.HandleConnection)

	return router
}
