package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/repository"
)

const maxRecipeTitleLength = 120

// RecipeService manages authored and provider recipes.
type RecipeService struct {
	recipes  repository.RecipeRepository
	likes    repository.LikeRepository
	comments repository.CommentRepository
}

// RecipeInput carries recipe fields for create and update.
type RecipeInput struct {
	Title        string
	Image        string
	Instructions string
	Ingredients  []string
	IsPublic     *bool
}

func NewRecipeService(recipes repository.RecipeRepository, likes repository.LikeRepository, comments repository.CommentRepository) *RecipeService {
	return &RecipeService{recipes: recipes, likes: likes, comments: comments}
}

func (in RecipeInput) normalize() (RecipeInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(in.Title) > maxRecipeTitleLength {
		return in, models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", maxRecipeTitleLength))
	}
	ingredients := make([]string, 0, len(in.Ingredients))
	for _, ing := range in.Ingredients {
		ing = strings.TrimSpace(ing)
		if ing == "" {
			return in, models.NewValidationError("Ingredients must not be empty")
		}
		ingredients = append(ingredients, ing)
	}
	in.Ingredients = ingredients
	in.Instructions = strings.TrimSpace(in.Instructions)
	in.Image = strings.TrimSpace(in.Image)
	return in, nil
}

// Create stores a recipe authored by ownerID. Recipes are public unless stated otherwise.
func (s *RecipeService) Create(ctx context.Context, ownerID uint, in RecipeInput) (*models.Recipe, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	public := true
	if in.IsPublic != nil {
		public = *in.IsPublic
	}
	recipe := &models.Recipe{
		Title:          in.Title,
		Image:          in.Image,
		Instructions:   in.Instructions,
		Ingredients:    models.StringList(in.Ingredients),
		OwnerProfileID: &ownerID,
		IsPublic:       public,
	}
	if err := s.recipes.Create(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Visible returns the recipe when viewerID may read it. Private recipes of
// other profiles are reported as missing.
func (s *RecipeService) Visible(ctx context.Context, id, viewerID uint) (*models.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !recipe.VisibleTo(viewerID) {
		return nil, models.NewNotFoundError("Recipe", id)
	}
	return recipe, nil
}

// Get returns the recipe decorated for viewerID.
func (s *RecipeService) Get(ctx context.Context, id, viewerID uint) (*models.Recipe, error) {
	recipe, err := s.Visible(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	list := []models.Recipe{*recipe}
	if err := s.decorate(ctx, list, viewerID); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (s *RecipeService) ListPublic(ctx context.Context, viewerID uint, limit, offset int) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListPublic(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return recipes, s.decorate(ctx, recipes, viewerID)
}

func (s *RecipeService) ListByOwner(ctx context.Context, ownerID uint) ([]models.Recipe, error) {
	recipes, err := s.recipes.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return recipes, s.decorate(ctx, recipes, ownerID)
}

// decorate fills the computed counters in place.
func (s *RecipeService) decorate(ctx context.Context, recipes []models.Recipe, viewerID uint) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]uint, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
	}
	likeCounts, err := s.likes.CountByRecipes(ctx, ids)
	if err != nil {
		return err
	}
	commentCounts, err := s.comments.CountByRecipes(ctx, ids)
	if err != nil {
		return err
	}
	liked, err := s.likes.LikedRecipeIDs(ctx, viewerID, ids)
	if err != nil {
		return err
	}
	for i := range recipes {
		id := recipes[i].ID
		recipes[i].LikesCount = int(likeCounts[id])
		recipes[i].CommentsCount = int(commentCounts[id])
		recipes[i].Liked = liked[id]
	}
	return nil
}

func (s *RecipeService) ownedBy(ctx context.Context, id, actorID uint) (*models.Recipe, error) {
	recipe, err := s.Visible(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if !recipe.IsOwnedBy(actorID) {
		return nil, models.NewForbiddenError("Only the author can change this recipe")
	}
	return recipe, nil
}

// Update replaces the recipe fields. Only the author may update.
func (s *RecipeService) Update(ctx context.Context, id, actorID uint, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.ownedBy(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	in, err = in.normalize()
	if err != nil {
		return nil, err
	}
	recipe.Title = in.Title
	recipe.Image = in.Image
	recipe.Instructions = in.Instructions
	recipe.Ingredients = models.StringList(in.Ingredients)
	if in.IsPublic != nil {
		recipe.IsPublic = *in.IsPublic
	}
	if err := s.recipes.Update(ctx, recipe); err != nil {
		return nil, err
	}
	return recipe, nil
}

func (s *RecipeService) Delete(ctx context.Context, id, actorID uint) error {
	if _, err := s.ownedBy(ctx, id, actorID); err != nil {
		return err
	}
	return s.recipes.Delete(ctx, id)
}

// RegisterExternal returns the stub of a provider recipe, creating it on first use.
func (s *RecipeService) RegisterExternal(ctx context.Context, externalID, title, image string) (*models.Recipe, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" || len(externalID) > 64 {
		return nil, models.NewValidationError("External recipe id must be 1-64 characters")
	}
	in, err := RecipeInput{Title: title, Image: image}.normalize()
	if err != nil {
		return nil, err
	}
	return s.recipes.GetOrCreateExternal(ctx, &models.Recipe{
		Title:      in.Title,
		Image:      in.Image,
		ExternalID: &externalID,
	})
}
