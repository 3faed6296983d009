package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/models"
	"github.com/secretnet/backend/websocket"
	"github.com/sirupsen/logrus"
)

type SendRequestInput struct {
	ToUserID string `json:"to_user_id" binding:"required" example:"1d9c9d84-2f0b-4a63-a44a-9b2894a7a8b7"`
}

type RespondRequestInput struct {
	RequestID uint   `json:"request_id" binding:"required" example:"1"`
	Action    string `json:"action" binding:"required,oneof=accept reject" example:"accept"`
}

// GetUsers godoc
// @Summary List all other users with their relationship status
// @Description Returns every other user together with the derived friend status (null, pending or accepted)
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of users"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/users [get]
func GetUsers(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var users []models.User
	if err := database.DB.Where("id <> ?", userID).Order("email ASC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	var requests []models.FriendRequest
	if err := database.DB.Scopes(models.InvolvingScope(userID)).Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	// Attach the status of the request row matching each user, in either
	// direction. The general list does not distinguish who sent it; only
	// the inbox does.
	byPeer := make(map[string]string, len(requests))
	for _, r := range requests {
		if r.FromUserID == userID {
			byPeer[r.ToUserID] = r.Status
		} else {
			byPeer[r.FromUserID] = r.Status
		}
	}

	response := make([]gin.H, 0, len(users))
	for _, u := range users {
		var status interface{}
		if s, ok := byPeer[u.ID]; ok {
			status = s
		}
		response = append(response, gin.H{
			"id":     u.ID,
			"email":  u.Email,
			"status": status,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": response})
}

// GetPendingRequests godoc
// @Summary Get incoming pending friend requests
// @Description Returns pending requests addressed to the authenticated user, with the sender's email
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "List of pending requests"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/friends/requests [get]
func GetPendingRequests(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var requests []models.FriendRequest
	if err := database.DB.Where("to_user_id = ? AND status = ?", userID, models.StatusPending).
		Preload("FromUser").
		Find(&requests).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch friend requests"})
		return
	}

	response := make([]gin.H, 0, len(requests))
	for _, r := range requests {
		response = append(response, gin.H{
			"id":              r.ID,
			"from_user_id":    r.FromUserID,
			"from_user_email": r.FromUser.Email,
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": response})
}

// SendFriendRequest godoc
// @Summary Send a friend request
// @Description Creates a pending friend request from the authenticated user to another user
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRequestInput true "Request Creation"
// @Success 201 {object} map[string]interface{} "Friend request sent successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/friends/requests [post]
func SendFriendRequest(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input SendRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.ToUserID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot send a friend request to yourself"})
		return
	}

	// Find the user to befriend
	var receiver models.User
	if err := database.DB.First(&receiver, "id = ?", input.ToUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Check if a request already exists between the pair, in either direction
	var existing models.FriendRequest
	if err := database.DB.Scopes(models.PairScope(userID, input.ToUserID)).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A friend request already exists between you and this user"})
		return
	}

	request := models.FriendRequest{
		FromUserID: userID,
		ToUserID:   input.ToUserID,
		Status:     models.StatusPending,
	}

	if err := database.DB.Create(&request).Error; err != nil {
		logrus.WithError(err).Error("Failed to create friend request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create friend request"})
		return
	}

	// Load relationships for the response
	database.DB.Preload("FromUser").Preload("ToUser").First(&request, request.ID)

	websocket.NotifyUser(input.ToUserID, "friend_request", gin.H{
		"request_id":      request.ID,
		"from_user_id":    userID,
		"from_user_email": request.FromUser.Email,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Friend request sent successfully",
		"request": request,
	})
}

// RespondToRequest godoc
// @Summary Respond to a friend request
// @Description Accept or reject a pending friend request addressed to the authenticated user
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param response body RespondRequestInput true "Request Response"
// @Success 200 {object} map[string]string "Response processed successfully"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/friends/requests/respond [post]
func RespondToRequest(c *gin.Context) {
	userID := c.MustGet("userID").(string)

	var input RespondRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only the recipient of a still-pending request may act on it
	var request models.FriendRequest
	if err := database.DB.Where("id = ? AND to_user_id = ? AND status = ?",
		input.RequestID, userID, models.StatusPending).First(&request).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Friend request not found or already processed"})
		return
	}

	if input.Action == "accept" {
		request.Status = models.StatusAccepted
		if err := database.DB.Save(&request).Error; err != nil {
			logrus.WithError(err).Error("Failed to accept friend request")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update friend request"})
			return
		}

		websocket.NotifyUser(request.FromUserID, "request_accepted", gin.H{
			"request_id": request.ID,
			"user_id":    userID,
		})

		c.JSON(http.StatusOK, gin.H{"message": "Friend request accepted successfully"})
		return
	}

	// Rejection removes the row entirely so the pair returns to having no
	// relationship at all
	if err := database.DB.Delete(&request).Error; err != nil {
		logrus.WithError(err).Error("Failed to reject friend request")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete friend request"})
		return
	}

	websocket.NotifyUser(request.FromUserID, "request_rejected", gin.H{
		"request_id": request.ID,
		"user_id":    userID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Friend request rejected successfully"})
}

// Unfriend godoc
// @Summary Remove a friend relationship
// @Description Deletes the request row between the authenticated user and another user, whichever of them sent it
// @Tags friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Other user's ID"
// @Success 200 {object} map[string]string "Unfriended successfully"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No relationship found"
// @Failure 500 {object} map[string]string "Server error"
// @Router /api/friends/{id} [delete]
func Unfriend(c *gin.Context) {
	userID := c.MustGet("userID").(string)
	otherID := c.Param("id")

	result := database.DB.Scopes(models.PairScope(userID, otherID)).Delete(&models.FriendRequest{})
	if result.Error != nil {
		logrus.WithError(result.Error).Error("Failed to unfriend user")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unfriend user"})
		return
	}

	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No relationship found with this user"})
		return
	}

	websocket.NotifyUser(otherID, "unfriended", gin.H{
		"user_id": userID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Unfriended successfully"})
}
