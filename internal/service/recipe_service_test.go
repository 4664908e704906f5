package service

import (
	"context"
	"testing"

	"whiskaway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeServiceCreateDefaultsPublic(t *testing.T) {
	var stored *models.Recipe
	repo := recipeOwnedBy(1, true)
	repo.createFn = func(_ context.Context, r *models.Recipe) error {
		stored = r
		return nil
	}
	svc := NewRecipeService(repo, noopLikeRepo(), noopCommentRepo())

	_, err := svc.Create(context.Background(), 1, RecipeInput{Title: " Ragu ", Ingredients: []string{"beef", " tomato "}})
	require.NoError(t, err)
	assert.Equal(t, "Ragu", stored.Title)
	assert.True(t, stored.IsPublic)
	assert.Equal(t, models.StringList{"beef", "tomato"}, stored.Ingredients)

	private := false
	_, err = svc.Create(context.Background(), 1, RecipeInput{Title: "Secret", IsPublic: &private})
	require.NoError(t, err)
	assert.False(t, stored.IsPublic)
}

func TestRecipeServiceCreateValidation(t *testing.T) {
	svc := NewRecipeService(recipeOwnedBy(1, true), noopLikeRepo(), noopCommentRepo())

	_, err := svc.Create(context.Background(), 1, RecipeInput{Title: ""})
	assertAppCode(t, err, models.CodeValidation)

	_, err = svc.Create(context.Background(), 1, RecipeInput{Title: "Soup", Ingredients: []string{"water", " "}})
	assertAppCode(t, err, models.CodeValidation)
}

func TestRecipeServicePrivateRecipeHidden(t *testing.T) {
	svc := NewRecipeService(recipeOwnedBy(1, false), noopLikeRepo(), noopCommentRepo())

	_, err := svc.Get(context.Background(), 4, 2)
	assertAppCode(t, err, models.CodeNotFound)

	recipe, err := svc.Get(context.Background(), 4, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(4), recipe.ID)
}

func TestRecipeServiceUpdateRequiresOwner(t *testing.T) {
	svc := NewRecipeService(recipeOwnedBy(1, true), noopLikeRepo(), noopCommentRepo())

	_, err := svc.Update(context.Background(), 4, 2, RecipeInput{Title: "Mine now"})
	assertAppCode(t, err, models.CodeForbidden)

	assertAppCode(t, svc.Delete(context.Background(), 4, 2), models.CodeForbidden)
	assert.NoError(t, svc.Delete(context.Background(), 4, 1))
}
