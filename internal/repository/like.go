package repository

import (
	"context"

	"whiskaway/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LikeRepository defines persistence operations for recipe likes.
type LikeRepository interface {
	// Toggle flips the like of profileID on recipeID. created reports whether
	// this call inserted the like row.
	Toggle(ctx context.Context, recipeID, profileID uint) (state models.LikeState, created bool, err error)
	CountByRecipe(ctx context.Context, recipeID uint) (int64, error)
	CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error)
	IsLiked(ctx context.Context, recipeID, profileID uint) (bool, error)
	LikedRecipeIDs(ctx context.Context, profileID uint, recipeIDs []uint) (map[uint]bool, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a new LikeRepository implementation.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Toggle(ctx context.Context, recipeID, profileID uint) (models.LikeState, bool, error) {
	state := models.LikeState{RecipeID: recipeID}
	created := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pair := func() *gorm.DB {
			return tx.Where("recipe_id = ? AND profile_id = ?", recipeID, profileID)
		}

		res := pair().Delete(&models.Like{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			ins := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{RecipeID: recipeID, ProfileID: profileID})
			if ins.Error != nil {
				return ins.Error
			}
			if ins.RowsAffected == 1 {
				state.Liked = true
				created = true
			} else if err := pair().Delete(&models.Like{}).Error; err != nil {
				// A concurrent toggle liked first; this call undoes it.
				return err
			}
		}

		return tx.Model(&models.Like{}).Where("recipe_id = ?", recipeID).Count(&state.Count).Error
	})
	if err != nil {
		return models.LikeState{}, false, models.NewInternalError(err)
	}
	return state, created, nil
}

func (r *likeRepository) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *likeRepository) CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		RecipeID uint
		Count    int64
	}
	if err := readDB(r.db).WithContext(ctx).Model(&models.Like{}).
		Select("recipe_id, COUNT(*) AS count").
		Where("recipe_id IN ?", recipeIDs).
		Group("recipe_id").
		Scan(&rows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, row := range rows {
		counts[row.RecipeID] = row.Count
	}
	return counts, nil
}

func (r *likeRepository) IsLiked(ctx context.Context, recipeID, profileID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("recipe_id = ? AND profile_id = ?", recipeID, profileID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *likeRepository) LikedRecipeIDs(ctx context.Context, profileID uint, recipeIDs []uint) (map[uint]bool, error) {
	liked := make(map[uint]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return liked, nil
	}
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("profile_id = ? AND recipe_id IN ?", profileID, recipeIDs).
		Pluck("recipe_id", &ids).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
