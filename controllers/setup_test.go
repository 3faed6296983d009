package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/middleware"
	"github.com/secretnet/backend/models"
	"github.com/secretnet/backend/utils"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global handle at a fresh in-memory database
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SecretMessage{}, &models.FriendRequest{}))

	database.DB = db
}

// testRouter mirrors the route table the server runs with
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method Not Allowed"})
	})

	auth := router.Group("/api")
	{
		auth.POST("/register", Register)
		auth.POST("/login", Login)
	}

	api := router.Group("/api")
	api.Use(middleware.JWTAuth())
	{
		api.GET("/users", GetUsers)
		api.GET("/friends/requests", GetPendingRequests)
		api.POST("/friends/requests", SendFriendRequest)
		api.POST("/friends/requests/respond", RespondToRequest)
		api.DELETE("/friends/:id", Unfriend)

		api.GET("/secretMessage", GetSecretMessage)
		api.POST("/secretMessage", SaveSecretMessage)
		api.GET("/users/:id/secretMessage", GetFriendSecretMessage)

		api.POST("/deleteUser", DeleteUser)
	}

	return router
}

// createUser inserts a user and returns it with a valid token
func createUser(t *testing.T, email string) (models.User, string) {
	t.Helper()

	user := models.User{Email: email, Password: "password123"}
	require.NoError(t, database.DB.Create(&user).Error)

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)

	return user, token
}

// doJSON performs a request with an optional bearer token and JSON body
func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

// decodeBody unmarshals a recorded JSON response
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}
