package repository

import (
	"context"
	"errors"
	"time"

	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// CookbookRepository defines persistence operations for cookbooks and their sharing state.
type CookbookRepository interface {
	Create(ctx context.Context, cb *models.Cookbook) error
	// GetByID loads the cookbook with its recipes in position order and its collaborator ids.
	GetByID(ctx context.Context, id uint) (*models.Cookbook, error)
	ListForAccount(ctx context.Context, accountID uint) ([]models.Cookbook, error)
	Update(ctx context.Context, cb *models.Cookbook) error
	Delete(ctx context.Context, id uint) error
	AddRecipe(ctx context.Context, cookbookID, recipeID uint) error
	RemoveRecipe(ctx context.Context, cookbookID, recipeID uint) error
	CreateInvite(ctx context.Context, invite *models.CookbookInvite) error
	// GetInvite returns the pending invite of accountID, or nil when none exists.
	GetInvite(ctx context.Context, cookbookID, accountID uint) (*models.CookbookInvite, error)
	ListInvitesFor(ctx context.Context, accountID uint) ([]models.CookbookInvite, error)
	// AcceptInvite consumes the invite and adds accountID as collaborator.
	AcceptInvite(ctx context.Context, cookbookID, accountID uint) error
}

type cookbookRepository struct {
	db *gorm.DB
}

// NewCookbookRepository returns a new CookbookRepository implementation.
func NewCookbookRepository(db *gorm.DB) CookbookRepository {
	return &cookbookRepository{db: db}
}

func (r *cookbookRepository) Create(ctx context.Context, cb *models.Cookbook) error {
	if err := r.db.WithContext(ctx).Create(cb).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *cookbookRepository) GetByID(ctx context.Context, id uint) (*models.Cookbook, error) {
	db := readDB(r.db).WithContext(ctx)

	var cb models.Cookbook
	if err := db.First(&cb, id).Error; err != nil {
		return nil, wrapLookup(err, "Cookbook", id)
	}

	cb.Recipes = []models.Recipe{}
	if err := db.
		Joins("JOIN cookbook_recipes cr ON cr.recipe_id = recipes.id").
		Where("cr.cookbook_id = ?", id).
		Order("cr.position ASC").
		Find(&cb.Recipes).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	cb.Collaborators = []uint{}
	if err := db.Model(&models.CookbookCollaborator{}).
		Where("cookbook_id = ?", id).
		Order("account_id ASC").
		Pluck("account_id", &cb.Collaborators).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &cb, nil
}

func (r *cookbookRepository) ListForAccount(ctx context.Context, accountID uint) ([]models.Cookbook, error) {
	cookbooks := []models.Cookbook{}
	collaborating := r.db.Model(&models.CookbookCollaborator{}).Select("cookbook_id").Where("account_id = ?", accountID)
	if err := readDB(r.db).WithContext(ctx).
		Where("owner_account_id = ? OR id IN (?)", accountID, collaborating).
		Order("updated_at DESC, id DESC").
		Find(&cookbooks).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return cookbooks, nil
}

func (r *cookbookRepository) Update(ctx context.Context, cb *models.Cookbook) error {
	if err := r.db.WithContext(ctx).
		Model(cb).
		Select("Title", "IsPublic").
		Updates(cb).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *cookbookRepository) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("cookbook_id = ?", id).Delete(&models.CookbookRecipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cookbook_id = ?", id).Delete(&models.CookbookCollaborator{}).Error; err != nil {
			return err
		}
		if err := tx.Where("cookbook_id = ?", id).Delete(&models.CookbookInvite{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Cookbook{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Cookbook", id)
		}
		return nil
	})
	return wrapWrite(err)
}

// AddRecipe appends the recipe after the current last position.
func (r *cookbookRepository) AddRecipe(ctx context.Context, cookbookID, recipeID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxPos int64
		if err := tx.Model(&models.CookbookRecipe{}).
			Select("COALESCE(MAX(position), -1)").
			Where("cookbook_id = ?", cookbookID).
			Row().Scan(&maxPos); err != nil {
			return err
		}
		link := &models.CookbookRecipe{CookbookID: cookbookID, RecipeID: recipeID, Position: int(maxPos) + 1}
		if err := tx.Create(link).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return models.NewInvalidOperationError("Recipe is already in this cookbook")
			}
			return err
		}
		return tx.Model(&models.Cookbook{ID: cookbookID}).Update("updated_at", time.Now()).Error
	})
	return wrapWrite(err)
}

func (r *cookbookRepository) RemoveRecipe(ctx context.Context, cookbookID, recipeID uint) error {
	res := r.db.WithContext(ctx).
		Where("cookbook_id = ? AND recipe_id = ?", cookbookID, recipeID).
		Delete(&models.CookbookRecipe{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Recipe in cookbook", recipeID)
	}
	return nil
}

func (r *cookbookRepository) CreateInvite(ctx context.Context, invite *models.CookbookInvite) error {
	if err := r.db.WithContext(ctx).Create(invite).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return models.NewInvalidOperationError("An invite for this account is already pending")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *cookbookRepository) GetInvite(ctx context.Context, cookbookID, accountID uint) (*models.CookbookInvite, error) {
	var invite models.CookbookInvite
	if err := r.db.WithContext(ctx).
		Where("cookbook_id = ? AND to_account_id = ?", cookbookID, accountID).
		First(&invite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &invite, nil
}

func (r *cookbookRepository) ListInvitesFor(ctx context.Context, accountID uint) ([]models.CookbookInvite, error) {
	invites := []models.CookbookInvite{}
	if err := readDB(r.db).WithContext(ctx).
		Where("to_account_id = ?", accountID).
		Order("created_at DESC, id DESC").
		Find(&invites).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return invites, nil
}

func (r *cookbookRepository) AcceptInvite(ctx context.Context, cookbookID, accountID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("cookbook_id = ? AND to_account_id = ?", cookbookID, accountID).Delete(&models.CookbookInvite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return models.NewNotFoundError("Cookbook invite for cookbook", cookbookID)
		}
		return tx.Create(&models.CookbookCollaborator{CookbookID: cookbookID, AccountID: accountID}).Error
	})
	return wrapWrite(err)
}
