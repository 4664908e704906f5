package repository

import (
	"context"

	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// DefaultCommentPageSize matches the number of comments the client shows at once.
const DefaultCommentPageSize = 3

// CommentRepository defines persistence operations for recipe comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]models.Comment, error)
	CountByRecipe(ctx context.Context, recipeID uint) (int64, error)
	CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ListByRecipe returns comments newest first; id breaks ties between
// comments created in the same instant.
func (r *commentRepository) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]models.Comment, error) {
	limit, offset = clampPage(limit, offset, DefaultCommentPageSize)
	comments := []models.Comment{}
	if err := readDB(r.db).WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	var count int64
	if err := readDB(r.db).WithContext(ctx).Model(&models.Comment{}).
		Where("recipe_id = ?", recipeID).
		Count(&count).Error; err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

func (r *commentRepository) CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		RecipeID uint
		Count    int64
	}
	if err := readDB(r.db).WithContext(ctx).Model(&models.Comment{}).
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
