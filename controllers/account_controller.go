package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/models"
	"github.com/sirupsen/logrus"
)

type DeleteUserInput struct {
	UserID string `json:"userId" binding:"required" example:"1d9c9d84-2f0b-4a63-a44a-9b2894a7a8b7"`
}

// DeleteUser godoc
// @Summary Delete the authenticated user's account
// @Description Removes the user's secret message, friend requests and account record. Steps run sequentially; the first failure is reported and earlier steps are not rolled back.
// @Tags account
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body DeleteUserInput true "Account deletion"
// @Success 200 {object} map[string]string "User deleted successfully"
// @Failure 400 {object} map[string]string "Missing userId"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Forbidden"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/deleteUser [post]
func DeleteUser(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input DeleteUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User ID is required"})
		return
	}

	// Users may only delete their own account
	if input.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own account"})
		return
	}

	// Each step is idempotent; a failed cascade can be retried and will
	// pick up where it stopped.
	if err := database.DB.Where("user_id = ?", input.UserID).
		Delete(&models.SecretMessage{}).Error; err != nil {
		logrus.WithError(err).Error("Failed to delete secret messages")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user messages: " + err.Error()})
		return
	}

	if err := database.DB.Scopes(models.InvolvingScope(input.UserID)).
		Delete(&models.FriendRequest{}).Error; err != nil {
		logrus.WithError(err).Error("Failed to delete friend requests")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete friend requests: " + err.Error()})
		return
	}

	if err := database.DB.Where("id = ?", input.UserID).
		Delete(&models.User{}).Error; err != nil {
		logrus.WithError(err).Error("Failed to delete user record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user: " + err.Error()})
		return
	}

	logrus.WithField("user_id", input.UserID).Info("User account deleted")

	c.JSON(http.StatusOK, gin.H{"message": "User and all related data deleted successfully"})
}
