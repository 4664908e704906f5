package server

import (
	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
)

type sendMessageRequest struct {
	Recipient uint   `json:"recipient" validate:"required,gt=0"`
	Text      string `json:"text" validate:"required"`
}

// SendMessage handles POST /api/messages
// @Summary Send a direct message
// @Tags messages
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body sendMessageRequest true "Message"
// @Success 201 {object} models.Message
// @Failure 400 {object} models.ErrorResponse
// @Router /messages [post]
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req sendMessageRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	msg, err := s.messageService.Send(c.UserContext(), currentProfileID(c), req.Recipient, req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation handles GET /api/messages/:otherProfileId
// @Summary Messages with another profile, oldest first
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Param otherProfileId path int true "Profile ID"
// @Success 200 {array} models.Message
// @Router /messages/{otherProfileId} [get]
func (s *Server) GetConversation(c *fiber.Ctx) error {
	otherID, err := s.parseID(c, "otherProfileId")
	if err != nil {
		return nil
	}
	msgs, err := s.messageService.Conversation(c.UserContext(), currentProfileID(c), otherID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(msgs)
}

// GetLatestMessages handles GET /api/messages/latest
// @Summary Latest message per friend
// @Tags messages
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.FriendConversation
// @Router /messages/latest [get]
func (s *Server) GetLatestMessages(c *fiber.Ctx) error {
	convs, err := s.messageService.LatestPerFriend(c.UserContext(), currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(convs)
}
