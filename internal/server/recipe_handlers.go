package server

import (
	"whiskaway/internal/models"
	"whiskaway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type recipeRequest struct {
	Title        string   `json:"title" validate:"required,max=120"`
	Image        string   `json:"image" validate:"omitempty,max=500"`
	Instructions string   `json:"instructions"`
	Ingredients  []string `json:"ingredients" validate:"dive,required"`
	IsPublic     *bool    `json:"is_public"`
}

func (r recipeRequest) input() service.RecipeInput {
	return service.RecipeInput{
		Title:        r.Title,
		Image:        r.Image,
		Instructions: r.Instructions,
		Ingredients:  r.Ingredients,
		IsPublic:     r.IsPublic,
	}
}

type externalRecipeRequest struct {
	Title string `json:"title" validate:"required,max=120"`
	Image string `json:"image" validate:"omitempty,max=500"`
}

// CreateRecipe handles POST /api/recipes
// @Summary Create recipe
// @Tags recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body recipeRequest true "Recipe"
// @Success 201 {object} models.Recipe
// @Failure 400 {object} models.ErrorResponse
// @Router /recipes [post]
func (s *Server) CreateRecipe(c *fiber.Ctx) error {
	var req recipeRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	recipe, err := s.recipeService.Create(c.UserContext(), currentProfileID(c), req.input())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// ListRecipes handles GET /api/recipes
// @Summary List public recipes
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {array} models.Recipe
// @Router /recipes [get]
func (s *Server) ListRecipes(c *fiber.Ctx) error {
	page := parsePagination(c, 20)
	recipes, err := s.recipeService.ListPublic(c.UserContext(), currentProfileID(c), page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(recipes)
}

// ListMyRecipes handles GET /api/recipes/mine
// @Summary List own recipes
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Recipe
// @Router /recipes/mine [get]
func (s *Server) ListMyRecipes(c *fiber.Ctx) error {
	recipes, err := s.recipeService.ListByOwner(c.UserContext(), currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(recipes)
}

// RegisterExternalRecipe handles POST /api/recipes/external/:externalId
// @Summary Register provider recipe
// @Description Returns the local stub of a provider recipe, creating it on first use
// @Tags recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param externalId path string true "Provider recipe ID"
// @Param request body externalRecipeRequest true "Recipe summary"
// @Success 200 {object} models.Recipe
// @Router /recipes/external/{externalId} [post]
func (s *Server) RegisterExternalRecipe(c *fiber.Ctx) error {
	var req externalRecipeRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	recipe, err := s.recipeService.RegisterExternal(c.UserContext(), c.Params("externalId"), req.Title, req.Image)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(recipe)
}

// GetRecipe handles GET /api/recipes/:id
// @Summary Get recipe
// @Tags recipes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Recipe ID"
// @Success 200 {object} models.Recipe
// @Failure 404 {object} models.ErrorResponse
// @Router /recipes/{id} [get]
func (s *Server) GetRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	recipe, err := s.recipeService.Get(c.UserContext(), id, currentProfileID(c))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(recipe)
}

// UpdateRecipe handles PUT /api/recipes/:id
// @Summary Update recipe
// @Tags recipes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Recipe ID"
// @Param request body recipeRequest true "Recipe"
// @Success 200 {object} models.Recipe
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id} [put]
func (s *Server) UpdateRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req recipeRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}
	recipe, err := s.recipeService.Update(c.UserContext(), id, currentProfileID(c), req.input())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(recipe)
}

// DeleteRecipe handles DELETE /api/recipes/:id
// @Summary Delete recipe
// @Tags recipes
// @Security BearerAuth
// @Param id path int true "Recipe ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Router /recipes/{id} [delete]
func (s *Server) DeleteRecipe(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	if err := s.recipeService.Delete(c.UserContext(), id, currentProfileID(c)); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
