package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/observability"
	"whiskaway/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

const commentPreviewLength = 50

// InteractionService handles likes and comments on recipes.
type InteractionService struct {
	recipes  *RecipeService
	likes    repository.LikeRepository
	comments repository.CommentRepository
	notifier NotificationEmitter
}

func NewInteractionService(recipes *RecipeService, likes repository.LikeRepository, comments repository.CommentRepository, notifier NotificationEmitter) *InteractionService {
	return &InteractionService{recipes: recipes, likes: likes, comments: comments, notifier: notifier}
}

// ToggleLike flips the like of profileID on the recipe. Only a newly created
// like notifies the author.
func (s *InteractionService) ToggleLike(ctx context.Context, recipeID, profileID uint) (_ *models.LikeState, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "InteractionService", "ToggleLike",
		attribute.Int64("recipe.id", int64(recipeID)),
	)
	defer func() { observability.EndSpan(span, err) }()

	recipe, err := s.recipes.Visible(ctx, recipeID, profileID)
	if err != nil {
		return nil, err
	}

	state, created, err := s.likes.Toggle(ctx, recipeID, profileID)
	if err != nil {
		return nil, err
	}

	if state.Liked {
		observability.LikeToggles.WithLabelValues("liked").Inc()
	} else {
		observability.LikeToggles.WithLabelValues("unliked").Inc()
	}

	if created && recipe.OwnerProfileID != nil && !recipe.IsOwnedBy(profileID) {
		emitBestEffort(ctx, s.notifier, models.NotificationRecipeLike, uintPtr(profileID), *recipe.OwnerProfileID,
			models.RecipeLikeData{RecipeID: recipeID, LikerProfileID: profileID})
	}
	return &state, nil
}

// AddComment appends a comment. username is the commenter's name at post time.
func (s *InteractionService) AddComment(ctx context.Context, recipeID, profileID uint, username, text string) (*models.Comment, error) {
	// The limit applies to the text as submitted; surrounding whitespace counts.
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return nil, models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Comment text is required")
	}

	recipe, err := s.recipes.Visible(ctx, recipeID, profileID)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		RecipeID:  recipeID,
		ProfileID: profileID,
		Username:  username,
		Text:      text,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	if recipe.OwnerProfileID != nil && !recipe.IsOwnedBy(profileID) {
		emitBestEffort(ctx, s.notifier, models.NotificationRecipeComment, uintPtr(profileID), *recipe.OwnerProfileID,
			models.RecipeCommentData{
				RecipeID:           recipeID,
				CommentID:          comment.ID,
				CommenterProfileID: profileID,
				Preview:            preview(text, commentPreviewLength),
			})
	}
	return comment, nil
}

// ListComments returns a page of comments, newest first.
func (s *InteractionService) ListComments(ctx context.Context, recipeID, viewerID uint, limit, offset int) ([]models.Comment, error) {
	if _, err := s.recipes.Visible(ctx, recipeID, viewerID); err != nil {
		return nil, err
	}
	return s.comments.ListByRecipe(ctx, recipeID, limit, offset)
}

func (s *InteractionService) CountComments(ctx context.Context, recipeID, viewerID uint) (int64, error) {
	if _, err := s.recipes.Visible(ctx, recipeID, viewerID); err != nil {
		return 0, err
	}
	return s.comments.CountByRecipe(ctx, recipeID)
}

// LikeState reports the like count and whether viewerID likes the recipe.
func (s *InteractionService) LikeState(ctx context.Context, recipeID, viewerID uint) (*models.LikeState, error) {
	if _, err := s.recipes.Visible(ctx, recipeID, viewerID); err != nil {
		return nil, err
	}
	count, err := s.likes.CountByRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	liked, err := s.likes.IsLiked(ctx, recipeID, viewerID)
	if err != nil {
		return nil, err
	}
	return &models.LikeState{RecipeID: recipeID, Liked: liked, Count: count}, nil
}

func (s *InteractionService) LikeCount(ctx context.Context, recipeID uint) (int64, error) {
	return s.likes.CountByRecipe(ctx, recipeID)
}

func (s *InteractionService) LikedBy(ctx context.Context, recipeID, profileID uint) (bool, error) {
	return s.likes.IsLiked(ctx, recipeID, profileID)
}

func preview(text string, n int) string {
	if utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "..."
}
