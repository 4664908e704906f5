package server

import (
	"whiskaway/internal/models"
	"whiskaway/internal/repository"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text" validate:"required"`
}

// ToggleLike handles POST /api/recipes/:id/like
// @Summary Toggle like
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.LikeState
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id}/like [post]
func (s *Server) ToggleLike(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	state, err := s.interactionService.ToggleLike(c.UserContext(), id, currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(state)
}

// GetLikes handles GET /api/recipes/:id/likes
// @Summary Like count and caller's like
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.LikeState
// @Router /recipes/{id}/likes [get]
func (s *Server) GetLikes(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	state, err := s.interactionService.LikeState(c.UserContext(), id, currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(state)
}

// CreateComment handles POST /api/recipes/:id/comments
// @Summary Comment on a recipe
// @Tags interactions
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body commentRequest true "Comment"
// @Success 201 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req commentRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	comment, err := s.interactionService.AddComment(c.UserContext(), id, currentProfileID(c), currentUsername(c), req.Text)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/recipes/:id/comments
// @Summary List comments, newest first
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Param limit query int false "Page size (default 3)"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Comment
// @Router /recipes/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, repository.DefaultCommentPageSize)
	comments, err := s.interactionService.ListComments(c.UserContext(), id, currentProfileID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(comments)
}

// CountComments handles GET /api/recipes/:id/comments/count
// @Summary Comment count
// @Tags interactions
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} object{count=int}
// @Router /recipes/{id}/comments/count [get]
func (s *Server) CountComments(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	count, err := s.interactionService.CountComments(c.UserContext(), id, currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}
