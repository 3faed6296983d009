package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/secretnet/backend/database"
	"github.com/secretnet/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// statusFor reads the derived relationship status for otherID out of
// the authenticated user list
func statusFor(t *testing.T, router *gin.Engine, token, otherID string) interface{} {
	t.Helper()

	rr := doJSON(t, router, "GET", "/api/users", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	body := decodeBody(t, rr)
	for _, raw := range body["users"].([]interface{}) {
		u := raw.(map[string]interface{})
		if u["id"] == otherID {
			return u["status"]
		}
	}
	t.Fatalf("user %s not present in list", otherID)
	return nil
}

func TestStatusNoneWithoutRequest(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	assert.Nil(t, statusFor(t, router, tokenA, b.ID))
	assert.Nil(t, statusFor(t, router, tokenB, a.ID))
}

func TestSendFriendRequest(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	rr := doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})
	require.Equal(t, http.StatusCreated, rr.Code)

	// Exactly one pending row exists
	var count int64
	database.DB.Model(&models.FriendRequest{}).Where("status = ?", models.StatusPending).Count(&count)
	assert.Equal(t, int64(1), count)

	// Both sides see the pair as pending
	assert.Equal(t, "pending", statusFor(t, router, tokenA, b.ID))
	assert.Equal(t, "pending", statusFor(t, router, tokenB, a.ID))
}

func TestSendFriendRequestGuards(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	// Self-request
	rr := doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": a.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Unknown target
	rr = doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": "00000000-0000-0000-0000-000000000000"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Duplicate, same direction
	rr = doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	rr = doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// Duplicate, reverse direction
	rr = doJSON(t, router, "POST", "/api/friends/requests", tokenB,
		map[string]string{"to_user_id": a.ID})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var count int64
	database.DB.Model(&models.FriendRequest{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestPendingRequestInbox(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	_, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	rr := doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})
	require.Equal(t, http.StatusCreated, rr.Code)

	// The recipient sees the request with the sender's email
	rr = doJSON(t, router, "GET", "/api/friends/requests", tokenB, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	requests := decodeBody(t, rr)["requests"].([]interface{})
	require.Len(t, requests, 1)
	assert.Equal(t, "a@example.com", requests[0].(map[string]interface{})["from_user_email"])

	// The sender's inbox stays empty
	rr = doJSON(t, router, "GET", "/api/friends/requests", tokenA, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decodeBody(t, rr)["requests"])
}

func TestAcceptFriendRequest(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})

	var request models.FriendRequest
	require.NoError(t, database.DB.First(&request).Error)

	// Only the recipient may accept
	rr := doJSON(t, router, "POST", "/api/friends/requests/respond", tokenA,
		map[string]interface{}{"request_id": request.ID, "action": "accept"})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doJSON(t, router, "POST", "/api/friends/requests/respond", tokenB,
		map[string]interface{}{"request_id": request.ID, "action": "accept"})
	require.Equal(t, http.StatusOK, rr.Code)

	// Still one row, now accepted, seen by both sides
	var count int64
	database.DB.Model(&models.FriendRequest{}).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, "accepted", statusFor(t, router, tokenA, b.ID))
	assert.Equal(t, "accepted", statusFor(t, router, tokenB, a.ID))

	// A processed request cannot be acted on again
	rr = doJSON(t, router, "POST", "/api/friends/requests/respond", tokenB,
		map[string]interface{}{"request_id": request.ID, "action": "accept"})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRejectFriendRequest(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})

	var request models.FriendRequest
	require.NoError(t, database.DB.First(&request).Error)

	rr := doJSON(t, router, "POST", "/api/friends/requests/respond", tokenB,
		map[string]interface{}{"request_id": request.ID, "action": "reject"})
	require.Equal(t, http.StatusOK, rr.Code)

	// The row is gone and the pair is back to no relationship
	var count int64
	database.DB.Model(&models.FriendRequest{}).Count(&count)
	assert.Equal(t, int64(0), count)
	assert.Nil(t, statusFor(t, router, tokenA, b.ID))
	assert.Nil(t, statusFor(t, router, tokenB, a.ID))
}

func TestUnfriendEitherDirection(t *testing.T) {
	for _, initiatorUnfriends := range []bool{true, false} {
		name := "recipient_unfriends"
		if initiatorUnfriends {
			name = "sender_unfriends"
		}
		t.Run(name, func(t *testing.T) {
			setupTestDB(t)
			router := testRouter()

			a, tokenA := createUser(t, "a@example.com")
			b, tokenB := createUser(t, "b@example.com")

			doJSON(t, router, "POST", "/api/friends/requests", tokenA,
				map[string]string{"to_user_id": b.ID})
			var request models.FriendRequest
			require.NoError(t, database.DB.First(&request).Error)
			doJSON(t, router, "POST", "/api/friends/requests/respond", tokenB,
				map[string]interface{}{"request_id": request.ID, "action": "accept"})

			path, token := "/api/friends/"+b.ID, tokenA
			if !initiatorUnfriends {
				path, token = "/api/friends/"+a.ID, tokenB
			}
			rr := doJSON(t, router, "DELETE", path, token, nil)
			require.Equal(t, http.StatusOK, rr.Code)

			var count int64
			database.DB.Model(&models.FriendRequest{}).Count(&count)
			assert.Equal(t, int64(0), count)
			assert.Nil(t, statusFor(t, router, tokenA, b.ID))
		})
	}
}

func TestUnfriendWithoutRelationship(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	_, tokenA := createUser(t, "a@example.com")
	b, _ := createUser(t, "b@example.com")

	rr := doJSON(t, router, "DELETE", "/api/friends/"+b.ID, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFriendshipLifecycle(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	b, tokenB := createUser(t, "b@example.com")

	// B saves a secret message
	rr := doJSON(t, router, "POST", "/api/secretMessage", tokenB,
		map[string]string{"userId": b.ID, "message": "the cake is real"})
	require.Equal(t, http.StatusOK, rr.Code)

	// A cannot read it while unrelated
	rr = doJSON(t, router, "GET", "/api/users/"+b.ID+"/secretMessage", tokenA, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	// A sends, B accepts
	rr = doJSON(t, router, "POST", "/api/friends/requests", tokenA,
		map[string]string{"to_user_id": b.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	var request models.FriendRequest
	require.NoError(t, database.DB.First(&request).Error)

	// Still no access while only pending
	rr = doJSON(t, router, "GET", "/api/users/"+b.ID+"/secretMessage", tokenA, nil)
	require.Equal(t, http.StatusForbidden, rr.Code)

	rr = doJSON(t, router, "POST", "/api/friends/requests/respond", tokenB,
		map[string]interface{}{"request_id": request.ID, "action": "accept"})
	require.Equal(t, http.StatusOK, rr.Code)

	// Accepted friends can read
	rr = doJSON(t, router, "GET", "/api/users/"+b.ID+"/secretMessage", tokenA, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "the cake is real", decodeBody(t, rr)["message"])

	// B unfriends A; access is revoked
	rr = doJSON(t, router, "DELETE", "/api/friends/"+a.ID, tokenB, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, "GET", "/api/users/"+b.ID+"/secretMessage", tokenA, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestGetUsersExcludesSelf(t *testing.T) {
	setupTestDB(t)
	router := testRouter()

	a, tokenA := createUser(t, "a@example.com")
	for i := 0; i < 3; i++ {
		createUser(t, fmt.Sprintf("user%d@example.com", i))
	}

	rr := doJSON(t, router, "GET", "/api/users", tokenA, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	users := decodeBody(t, rr)["users"].([]interface{})
	assert.Len(t, users, 3)
	for _, raw := range users {
		assert.NotEqual(t, a.ID, raw.(map[string]interface{})["id"])
	}
}
