package server

import (
	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications handles GET /api/notifications/:profileId
// @Summary List notifications, newest first
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Notification
// @Failure 403 {object} models.ErrorResponse
// @Router /notifications/{profileId} [get]
func (s *Server) GetNotifications(c *fiber.Ctx) error {
	profileID, err := s.requireSelfParam(c, "profileId")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)
	list, err := s.notificationService.List(c.UserContext(), profileID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(list)
}

// GetUnreadCount handles GET /api/notifications/:profileId/unread-count
// @Summary Unread notification count
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param profileId path int true "Profile ID"
// @Success 200 {object} object{count=int}
// @Router /notifications/{profileId}/unread-count [get]
func (s *Server) GetUnreadCount(c *fiber.Ctx) error {
	profileID, err := s.requireSelfParam(c, "profileId")
	if err != nil {
		return nil
	}
	count, err := s.notificationService.UnreadCount(c.UserContext(), profileID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

// MarkNotificationRead handles PUT /api/notifications/:id/read
// @Summary Mark one notification read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Param id path int true "Notification ID"
// @Success 200 {object} models.Notification
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /notifications/{id}/read [put]
func (s *Server) MarkNotificationRead(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	n, err := s.notificationService.MarkRead(c.UserContext(), id, currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(n)
}

// MarkAllNotificationsRead handles PUT /api/notifications/read-all
// @Summary Mark all notifications read
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} object{marked=int}
// @Router /notifications/read-all [put]
func (s *Server) MarkAllNotificationsRead(c *fiber.Ctx) error {
	marked, err := s.notificationService.MarkAllRead(c.UserContext(), currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"marked": marked})
}
