package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveMessageInput struct {
	UserID  string `json:"userId" binding:"required" example:"1d9c9d84-2f0b-4a63-a44a-9b2894a7a8b7"`
	Message string `json:"message" binding:"required" example:"I collect rubber ducks"`
}

// GetSecretMessage godoc
// @Summary Get the authenticated user's secret message
// @Description Returns the caller's own secret message, empty if none has been saved yet
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "The secret message"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/secretMessage [get]
func GetSecretMessage(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var secret models.SecretMessage
	if err := database.DB.Where("user_id = ?", userID).First(&secret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": ""})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": secret.Message})
}

// SaveSecretMessage godoc
// @Summary Save the authenticated user's secret message
// @Description Creates or overwrites the caller's secret message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body SaveMessageInput true "Message to save"
// @Success 200 {object} map[string]interface{} "Secret message saved successfully"
// @Failure 400 {object} map[string]string "Missing userId or message"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/secretMessage [post]
func SaveSecretMessage(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input SaveMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID and message are required"})
		return
	}

	// Users may only write their own message
	if input.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only update your own secret message"})
		return
	}

	secret := models.SecretMessage{
		UserID:  input.UserID,
		Message: input.Message,
	}

	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"message", "updated_at"}),
	}).Create(&secret).Error; err != nil {
		logrus.WithError(err).Error("Failed to save secret message")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Secret message saved successfully",
		"data":    secret,
	})
}

// GetFriendSecretMessage godoc
// @Summary Get another user's secret message
// @Description Returns the target user's secret message, only when an accepted friendship exists between the caller and the target
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Target user's ID"
// @Success 200 {object} map[string]string "The secret message"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Not friends with this user"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/users/{id}/secretMessage [get]
func GetFriendSecretMessage(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	targetID := c.Param("id")

	// The friendship check happens here, at read time, against the store.
	// A missing relationship and a non-accepted one get the same answer.
	var request models.FriendRequest
	if err := database.DB.Scopes(models.PairScope(userID, targetID)).
		Where("status = ?", models.StatusAccepted).
		First(&request).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not friends with this user"})
		return
	}

	var secret models.SecretMessage
	if err := database.DB.Where("user_id = ?", targetID).First(&secret).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": ""})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": secret.Message})
}
