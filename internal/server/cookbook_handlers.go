package server

import (
	"whiskaway/internal/models"
	"whiskaway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createCookbookRequest struct {
	Title    string `json:"title" validate:"required,max=120"`
	IsPublic bool   `json:"is_public"`
}

type updateCookbookRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=120"`
	IsPublic *bool   `json:"is_public"`
}

type cookbookRecipeRequest struct {
	RecipeID uint `json:"recipeId" validate:"required,gt=0"`
}

type shareCookbookRequest struct {
	ToUserID uint `json:"toUserId" validate:"required,gt=0"`
}

// CreateCookbook handles POST /api/cookbook
// @Summary Create cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body createCookbookRequest true "Cookbook"
// @Success 201 {object} models.Cookbook
// @Router /cookbook [post]
func (s *Server) CreateCookbook(c *fiber.Ctx) error {
	var req createCookbookRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	cb, err := s.cookbookService.Create(c.UserContext(), currentAccountID(c), req.Title, req.IsPublic)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cb)
}

// ListMyCookbooks handles GET /api/cookbooks/mine
// @Summary Owned and shared cookbooks
// @Tags cookbooks
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Cookbook
// @Router /cookbooks/mine [get]
func (s *Server) ListMyCookbooks(c *fiber.Ctx) error {
	list, err := s.cookbookService.ListMine(c.UserContext(), currentAccountID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(list)
}

// ListCookbookInvites handles GET /api/cookbooks/invites
// @Summary Pending cookbook invites
// @Tags cookbooks
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.CookbookInvite
// @Router /cookbooks/invites [get]
func (s *Server) ListCookbookInvites(c *fiber.Ctx) error {
	list, err := s.cookbookService.ListInvites(c.UserContext(), currentAccountID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(list)
}

// GetCookbook handles GET /api/cookbook/:id
// @Summary Get cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Cookbook ID"
// @Success 200 {object} models.Cookbook
// @Failure 403 {object} models.ErrorResponse
// @Router /cookbook/{id} [get]
func (s *Server) GetCookbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	cb, err := s.cookbookService.Get(c.UserContext(), id, currentAccountID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(cb)
}

// UpdateCookbook handles PUT /api/cookbook/:id
// @Summary Update cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cookbook ID"
// @Param request body updateCookbookRequest true "Fields"
// @Success 200 {object} models.Cookbook
// @Router /cookbook/{id} [put]
func (s *Server) UpdateCookbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req updateCookbookRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	cb, err := s.cookbookService.Update(c.UserContext(), id, currentAccountID(c), service.CookbookPatch{
		Title:    req.Title,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(cb)
}

// DeleteCookbook handles DELETE /api/cookbook/:id
// @Summary Delete cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Param id path int true "Cookbook ID"
// @Success 204
// @Router /cookbook/{id} [delete]
func (s *Server) DeleteCookbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.cookbookService.Delete(c.UserContext(), id, currentAccountID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddCookbookRecipe handles POST /api/cookbook/:id/recipes
// @Summary Append recipe to cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cookbook ID"
// @Param request body cookbookRecipeRequest true "Recipe"
// @Success 200 {object} models.Cookbook
// @Failure 409 {object} models.ErrorResponse
// @Router /cookbook/{id}/recipes [post]
func (s *Server) AddCookbookRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req cookbookRecipeRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	cb, err := s.cookbookService.AddRecipe(c.UserContext(), id, currentAccountID(c), currentProfileID(c), req.RecipeID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(cb)
}

// RemoveCookbookRecipe handles DELETE /api/cookbook/:id/recipes/:recipeId
// @Summary Remove recipe from cookbook
// @Tags cookbooks
// @Security BearerAuth
// @Param id path int true "Cookbook ID"
// @Param recipeId path int true "Recipe ID"
// @Success 204
// @Router /cookbook/{id}/recipes/{recipeId} [delete]
func (s *Server) RemoveCookbookRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipeID, err := s.parseID(c, "recipeId")
	if err != nil {
		return nil
	}
	if err := s.cookbookService.RemoveRecipe(c.UserContext(), id, currentAccountID(c), recipeID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ShareCookbook handles POST /api/cookbook/:id/share
// @Summary Invite a collaborator
// @Tags cookbooks
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Cookbook ID"
// @Param request body shareCookbookRequest true "Invitee account"
// @Success 201 {object} models.CookbookInvite
// @Failure 409 {object} models.ErrorResponse
// @Router /cookbook/{id}/share [post]
func (s *Server) ShareCookbook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req shareCookbookRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	invite, err := s.cookbookService.InviteCollaborator(c.UserContext(), id, currentAccountID(c), req.ToUserID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invite)
}

// AcceptCookbookShare handles POST /api/cookbook/:id/share/accept
// @Summary Accept a cookbook invite
// @Tags cookbooks
// @Security BearerAuth
// @Produce json
// @Param id path int true "Cookbook ID"
// @Success 200 {object} models.Cookbook
// @Failure 404 {object} models.ErrorResponse
// @Router /cookbook/{id}/share/accept [post]
func (s *Server) AcceptCookbookShare(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	cb, err := s.cookbookService.AcceptShare(c.UserContext(), id, currentAccountID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(cb)
}
