// Package repository implements the data access layer for the application.
package repository

import (
	"context"
	"errors"

	"whiskaway/internal/cache"
	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"gorm.io/gorm"
)

// AccountRepository defines persistence operations for accounts.
type AccountRepository interface {
	// Create inserts the account and its profile in one transaction.
	Create(ctx context.Context, account *models.Account, profile *models.Profile) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	// Delete removes the account and everything it owns, see deleteProfileData
	// and deleteAccountCookbooks. Cached entries of deleted recipes are evicted.
	Delete(ctx context.Context, id uint) error
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository returns a new AccountRepository implementation.
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account, profile *models.Profile) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile").Create(account).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return models.NewInvalidOperationError("Username is already taken")
			}
			return err
		}
		profile.AccountID = account.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		account.Profile = profile
		return nil
	})
	return wrapWrite(err)
}

func (r *accountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := readDB(r.db).WithContext(ctx).Preload("Profile").First(&account, id).Error; err != nil {
		return nil, wrapLookup(err, "Account", id)
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Preload("Profile").Where("username = ?", username).First(&account).Error; err != nil {
		return nil, wrapLookup(err, "Account", username)
	}
	return &account, nil
}

func (r *accountRepository) Delete(ctx context.Context, id uint) error {
	var recipeIDs []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var account models.Account
		if err := tx.First(&account, id).Error; err != nil {
			return wrapLookup(err, "Account", id)
		}
		var profile models.Profile
		err := tx.Where("account_id = ?", id).First(&profile).Error
		switch {
		case err == nil:
			if err := tx.Model(&models.Recipe{}).Where("owner_profile_id = ?", profile.ID).
				Pluck("id", &recipeIDs).Error; err != nil {
				return err
			}
			if err := deleteProfileData(tx, profile.ID); err != nil {
				return err
			}
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}
		if err := deleteAccountCookbooks(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Account{}, id).Error
	})
	if err != nil {
		return wrapWrite(err)
	}
	for _, recipeID := range recipeIDs {
		cache.InvalidateRecipe(ctx, recipeID)
	}
	return nil
}

// deleteProfileData removes the profile with its friend graph, likes,
// received notifications and authored recipes. Comments and messages written
// to other people are kept; notifications it sent lose their sender.
func deleteProfileData(tx *gorm.DB, profileID uint) error {
	ownedRecipes := func() *gorm.DB {
		return tx.Model(&models.Recipe{}).Select("id").Where("owner_profile_id = ?", profileID)
	}

	steps := []func() error{
		func() error { return tx.Where("recipe_id IN (?)", ownedRecipes()).Delete(&models.Like{}).Error },
		func() error { return tx.Where("recipe_id IN (?)", ownedRecipes()).Delete(&models.Comment{}).Error },
		func() error { return tx.Where("recipe_id IN (?)", ownedRecipes()).Delete(&models.CookbookRecipe{}).Error },
		func() error { return tx.Where("owner_profile_id = ?", profileID).Delete(&models.Recipe{}).Error },
		func() error { return tx.Where("profile_id = ?", profileID).Delete(&models.Like{}).Error },
		func() error {
			return tx.Where("profile_id = ? OR friend_id = ?", profileID, profileID).Delete(&models.FriendEdge{}).Error
		},
		func() error {
			return tx.Where("from_profile_id = ? OR to_profile_id = ?", profileID, profileID).Delete(&models.FriendRequest{}).Error
		},
		func() error { return tx.Where("to_profile_id = ?", profileID).Delete(&models.Notification{}).Error },
		func() error {
			return tx.Model(&models.Notification{}).Where("from_profile_id = ?", profileID).Update("from_profile_id", nil).Error
		},
		func() error { return tx.Delete(&models.Profile{}, profileID).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func deleteAccountCookbooks(tx *gorm.DB, accountID uint) error {
	owned := func() *gorm.DB {
		return tx.Model(&models.Cookbook{}).Select("id").Where("owner_account_id = ?", accountID)
	}

	steps := []func() error{
		func() error { return tx.Where("cookbook_id IN (?)", owned()).Delete(&models.CookbookRecipe{}).Error },
		func() error {
			return tx.Where("cookbook_id IN (?) OR account_id = ?", owned(), accountID).Delete(&models.CookbookCollaborator{}).Error
		},
		func() error {
			return tx.Where("cookbook_id IN (?) OR to_account_id = ? OR from_account_id = ?", owned(), accountID, accountID).
				Delete(&models.CookbookInvite{}).Error
		},
		func() error { return tx.Where("owner_account_id = ?", accountID).Delete(&models.Cookbook{}).Error },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}
