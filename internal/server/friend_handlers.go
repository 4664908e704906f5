package server

import (
	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
)

type friendRequestBody struct {
	ToProfileID uint `json:"toProfileId" validate:"required,gt=0"`
}

type friendDecisionBody struct {
	CurrentUserID uint `json:"currentUserId" validate:"required,gt=0"`
	RequesterID   uint `json:"requesterId" validate:"required,gt=0"`
}

type removeFriendBody struct {
	UserID   uint `json:"userId" validate:"required,gt=0"`
	FriendID uint `json:"friendId" validate:"required,gt=0"`
}

// SendFriendRequest handles POST /api/friend-request
// @Summary Send friend request
// @Description Sends a request, or accepts the target's pending request to the caller
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body friendRequestBody true "Target"
// @Success 201 {object} service.FriendRequestResult
// @Success 200 {object} service.FriendRequestResult
// @Failure 409 {object} models.ErrorResponse
// @Router /friend-request [post]
func (s *Server) SendFriendRequest(c *fiber.Ctx) error {
	var req friendRequestBody
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	res, err := s.friendService.SendFriendRequest(c.UserContext(), currentProfileID(c), req.ToProfileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	if res.Accepted {
		return c.JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// AcceptFriendRequest handles POST /api/friend-request/accept
// @Summary Accept friend request
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Param request body friendDecisionBody true "Decision"
// @Success 200 {object} object{message=string}
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /friend-request/accept [post]
func (s *Server) AcceptFriendRequest(c *fiber.Ctx) error {
	var req friendDecisionBody
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := requireSelf(c, req.CurrentUserID); err != nil {
		return nil
	}

	if err := s.friendService.AcceptFriendRequest(c.UserContext(), req.CurrentUserID, req.RequesterID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request accepted"})
}

// DenyFriendRequest handles POST /api/friend-request/deny
// @Summary Deny friend request
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Param request body friendDecisionBody true "Decision"
// @Success 200 {object} object{message=string}
// @Router /friend-request/deny [post]
func (s *Server) DenyFriendRequest(c *fiber.Ctx) error {
	var req friendDecisionBody
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := requireSelf(c, req.CurrentUserID); err != nil {
		return nil
	}

	if err := s.friendService.DenyFriendRequest(c.UserContext(), req.CurrentUserID, req.RequesterID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend request denied"})
}

// RemoveFriend handles PUT /api/friends/remove
// @Summary Remove friend
// @Tags friends
// @Security BearerAuth
// @Accept json
// @Param request body removeFriendBody true "Pair"
// @Success 200 {object} object{message=string}
// @Router /friends/remove [put]
func (s *Server) RemoveFriend(c *fiber.Ctx) error {
	var req removeFriendBody
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	if err := requireSelf(c, req.UserID); err != nil {
		return nil
	}

	if err := s.friendService.RemoveFriend(c.UserContext(), req.UserID, req.FriendID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Friend removed"})
}

// GetFriends handles GET /api/friends/:profileId
// @Summary List friends
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Success 200 {array} models.Profile
// @Router /friends/{profileId} [get]
func (s *Server) GetFriends(c *fiber.Ctx) error {
	profileID, err := s.parseID(c, "profileId")
	if err != nil {
		return nil
	}
	friends, err := s.friendService.ListFriends(c.UserContext(), profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(friends)
}

// GetPendingRequests handles GET /api/friend-requests/:profileId
// @Summary Incoming friend requests
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Success 200 {array} models.FriendRequest
// @Router /friend-requests/{profileId} [get]
func (s *Server) GetPendingRequests(c *fiber.Ctx) error {
	profileID, err := s.requireSelfParam(c, "profileId")
	if err != nil {
		return nil
	}
	requests, err := s.friendService.ListPendingRequests(c.UserContext(), profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// GetSentRequests handles GET /api/friend-requests/:profileId/sent
// @Summary Outgoing friend requests
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Success 200 {array} models.FriendRequest
// @Router /friend-requests/{profileId}/sent [get]
func (s *Server) GetSentRequests(c *fiber.Ctx) error {
	profileID, err := s.requireSelfParam(c, "profileId")
	if err != nil {
		return nil
	}
	requests, err := s.friendService.ListSentRequests(c.UserContext(), profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(requests)
}

// GetFriendshipStatus handles GET /api/friends/status/:profileId
// @Summary Friendship status with a profile
// @Tags friends
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Success 200 {object} object{status=string}
// @Router /friends/status/{profileId} [get]
func (s *Server) GetFriendshipStatus(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "profileId")
	if err != nil {
		return nil
	}
	status, err := s.friendService.FriendshipStatus(c.UserContext(), currentProfileID(c), otherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}
