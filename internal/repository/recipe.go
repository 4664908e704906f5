package repository

import (
	"context"
	"errors"

	"whiskaway/internal/cache"
	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// RecipeRepository defines persistence operations for recipes.
type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	// GetOrCreateExternal returns the provider recipe stub, creating it on first use.
	GetOrCreateExternal(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error)
	ListPublic(ctx context.Context, limit, offset int) ([]models.Recipe, error)
	ListByOwner(ctx context.Context, profileID uint) ([]models.Recipe, error)
	Update(ctx context.Context, recipe *models.Recipe) error
	Delete(ctx context.Context, id uint) error
}

type recipeRepository struct {
	db *gorm.DB
}

// NewRecipeRepository returns a new RecipeRepository implementation.
func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewInvalidOperationError("Recipe is already registered")
		}
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID reads through the cache. Stored entries never carry the computed
// per-viewer fields.
func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := cache.Aside(ctx, cache.RecipeKey(id), &recipe, cache.RecipeTTL, func() error {
		if err := readDB(r.db).WithContext(ctx).First(&recipe, id).Error; err != nil {
			return wrapLookup(err, "Recipe", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetOrCreateExternal(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	if recipe.ExternalID == nil || *recipe.ExternalID == "" {
		return nil, models.NewValidationError("External recipe id is required")
	}
	externalID := *recipe.ExternalID

	lookup := func() (*models.Recipe, error) {
		var existing models.Recipe
		err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(&existing).Error
		if err != nil {
			return nil, err
		}
		return &existing, nil
	}

	existing, err := lookup()
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(err)
	}

	recipe.OwnerProfileID = nil
	recipe.IsPublic = true
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if !database.IsUniqueViolation(err) {
			return nil, models.NewInternalError(err)
		}
		// Registered concurrently.
		existing, err := lookup()
		if err != nil {
			return nil, wrapLookup(err, "Recipe", externalID)
		}
		return existing, nil
	}
	return recipe, nil
}

func (r *recipeRepository) ListPublic(ctx context.Context, limit, offset int) ([]models.Recipe, error) {
	limit, offset = clampPage(limit, offset, 20)
	recipes := []models.Recipe{}
	if err := readDB(r.db).WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) ListByOwner(ctx context.Context, profileID uint) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if err := readDB(r.db).WithContext(ctx).
		Where("owner_profile_id = ?", profileID).
		Order("created_at DESC, id DESC").
		Find(&recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return recipes, nil
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	if err := r.db.WithContext(ctx).
		Model(recipe).
		Select("Title", "Image", "Instructions", "Ingredients", "IsPublic").
		Updates(recipe).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateRecipe(ctx, recipe.ID)
	return nil
}

// Delete removes the recipe with its likes, comments and cookbook placements.
func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.CookbookRecipe{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Recipe", id)
		}
		return nil
	})
	if err != nil {
		return wrapWrite(err)
	}
	cache.InvalidateRecipe(ctx, id)
	return nil
}
