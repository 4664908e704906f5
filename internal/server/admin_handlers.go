package server

import (
	"log/slog"

	"whiskaway/internal/middleware"
	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
)

// DeleteAccount handles DELETE /api/admin/accounts/:id
// @Summary Delete an account and everything it owns
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/accounts/{id} [delete]
func (s *Server) DeleteAccount(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.accountService.DeleteAccount(c.UserContext(), id); err != nil {
		return models.RespondWithAppError(c, err)
	}
	middleware.Logger.InfoContext(c.UserContext(), "account deleted",
		slog.Any("deleted_account_id", id),
		slog.Any("admin_account_id", currentAccountID(c)),
	)
	return c.SendStatus(fiber.StatusNoContent)
}
