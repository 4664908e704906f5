package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/repository"
)

const maxCookbookTitleLength = 120

// CookbookService manages cookbooks and their collaborators. Collaborators
// hold the same rights as the owner.
type CookbookService struct {
	cookbooks repository.CookbookRepository
	accounts  repository.AccountRepository
	profiles  repository.ProfileRepository
	recipes   *RecipeService
	notifier  NotificationEmitter
}

func NewCookbookService(cookbooks repository.CookbookRepository, accounts repository.AccountRepository, profiles repository.ProfileRepository, recipes *RecipeService, notifier NotificationEmitter) *CookbookService {
	return &CookbookService{
		cookbooks: cookbooks,
		accounts:  accounts,
		profiles:  profiles,
		recipes:   recipes,
		notifier:  notifier,
	}
}

// CookbookPatch carries the editable cookbook fields. Nil fields are left unchanged.
type CookbookPatch struct {
	Title    *string
	IsPublic *bool
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", models.NewValidationError("Cookbook title is required")
	}
	if utf8.RuneCountInString(title) > maxCookbookTitleLength {
		return "", models.NewValidationError(fmt.Sprintf("Cookbook title too long (max %d characters)", maxCookbookTitleLength))
	}
	return title, nil
}

func (s *CookbookService) Create(ctx context.Context, ownerAccountID uint, title string, isPublic bool) (*models.Cookbook, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return nil, err
	}
	cb := &models.Cookbook{Title: title, OwnerAccountID: ownerAccountID, IsPublic: isPublic}
	if err := s.cookbooks.Create(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

// Get returns the cookbook when it is public or accountID may edit it.
func (s *CookbookService) Get(ctx context.Context, id, accountID uint) (*models.Cookbook, error) {
	cb, err := s.cookbooks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cb.IsPublic && !cb.CanEdit(accountID) {
		return nil, models.NewForbiddenError("You do not have access to this cookbook")
	}
	return cb, nil
}

func (s *CookbookService) ListMine(ctx context.Context, accountID uint) ([]models.Cookbook, error) {
	return s.cookbooks.ListForAccount(ctx, accountID)
}

func (s *CookbookService) editable(ctx context.Context, id, accountID uint) (*models.Cookbook, error) {
	cb, err := s.cookbooks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cb.CanEdit(accountID) {
		return nil, models.NewForbiddenError("Only the owner or a collaborator can change this cookbook")
	}
	return cb, nil
}

func (s *CookbookService) Update(ctx context.Context, id, accountID uint, patch CookbookPatch) (*models.Cookbook, error) {
	cb, err := s.editable(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		cb.Title = title
	}
	if patch.IsPublic != nil {
		cb.IsPublic = *patch.IsPublic
	}
	if err := s.cookbooks.Update(ctx, cb); err != nil {
		return nil, err
	}
	return cb, nil
}

func (s *CookbookService) Delete(ctx context.Context, id, accountID uint) error {
	if _, err := s.editable(ctx, id, accountID); err != nil {
		return err
	}
	return s.cookbooks.Delete(ctx, id)
}

// AddRecipe appends a recipe the caller can see to the end of the cookbook.
func (s *CookbookService) AddRecipe(ctx context.Context, id, accountID, profileID, recipeID uint) (*models.Cookbook, error) {
	if _, err := s.editable(ctx, id, accountID); err != nil {
		return nil, err
	}
	if _, err := s.recipes.Visible(ctx, recipeID, profileID); err != nil {
		return nil, err
	}
	if err := s.cookbooks.AddRecipe(ctx, id, recipeID); err != nil {
		return nil, err
	}
	return s.cookbooks.GetByID(ctx, id)
}

func (s *CookbookService) RemoveRecipe(ctx context.Context, id, accountID, recipeID uint) error {
	if _, err := s.editable(ctx, id, accountID); err != nil {
		return err
	}
	return s.cookbooks.RemoveRecipe(ctx, id, recipeID)
}

// InviteCollaborator records a pending share and notifies the invitee.
func (s *CookbookService) InviteCollaborator(ctx context.Context, id, fromAccountID, toAccountID uint) (*models.CookbookInvite, error) {
	cb, err := s.editable(ctx, id, fromAccountID)
	if err != nil {
		return nil, err
	}
	if cb.OwnerAccountID == toAccountID {
		return nil, models.NewInvalidOperationError("The owner already has access to this cookbook")
	}
	if cb.CanEdit(toAccountID) {
		return nil, models.NewInvalidOperationError("Account is already a collaborator")
	}
	if _, err := s.accounts.GetByID(ctx, toAccountID); err != nil {
		return nil, err
	}
	existing, err := s.cookbooks.GetInvite(ctx, id, toAccountID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewInvalidOperationError("An invite is already pending for this account")
	}

	invite := &models.CookbookInvite{CookbookID: id, FromAccountID: fromAccountID, ToAccountID: toAccountID}
	if err := s.cookbooks.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	s.notifyAccount(ctx, fromAccountID, toAccountID, models.NotificationCookbookShareRequest,
		models.CookbookShareRequestData{CookbookID: id, Title: cb.Title, FromAccountID: fromAccountID})
	return invite, nil
}

// AcceptShare turns the pending invite of accountID into a collaboration.
func (s *CookbookService) AcceptShare(ctx context.Context, id, accountID uint) (*models.Cookbook, error) {
	invite, err := s.cookbooks.GetInvite(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if invite == nil {
		return nil, models.NewNotFoundError("CookbookInvite", id)
	}
	if err := s.cookbooks.AcceptInvite(ctx, id, accountID); err != nil {
		return nil, err
	}

	cb, err := s.cookbooks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notifyAccount(ctx, accountID, cb.OwnerAccountID, models.NotificationCookbookShareAccept,
		models.CookbookShareAcceptData{CookbookID: id, AccountID: accountID})
	return cb, nil
}

func (s *CookbookService) ListInvites(ctx context.Context, accountID uint) ([]models.CookbookInvite, error) {
	return s.cookbooks.ListInvitesFor(ctx, accountID)
}

// notifyAccount resolves both accounts to profiles before emitting.
func (s *CookbookService) notifyAccount(ctx context.Context, fromAccountID, toAccountID uint, typ models.NotificationType, data models.NotificationData) {
	to, err := s.profiles.GetByAccountID(ctx, toAccountID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "no profile for notification recipient",
			slog.String("type", string(typ)),
			slog.Any("account_id", toAccountID),
			slog.String("error", err.Error()),
		)
		return
	}
	var from *uint
	if p, err := s.profiles.GetByAccountID(ctx, fromAccountID); err == nil {
		from = uintPtr(p.ID)
	}
	emitBestEffort(ctx, s.notifier, typ, from, to.ID, data)
}
