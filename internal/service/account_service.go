package service

import (
	"context"
	"errors"
	"strings"

	"whiskaway/internal/cache"
	"whiskaway/internal/models"
	"whiskaway/internal/repository"
	"whiskaway/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

// ProfilePurger removes a deleted profile from stores outside the account transaction.
type ProfilePurger interface {
	PurgeProfile(ctx context.Context, profileID uint) error
}

// AccountService handles registration, authentication and account removal.
type AccountService struct {
	accounts     repository.AccountRepository
	purger       ProfilePurger
	passwordCost int
}

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
}

// NewAccountService returns a new AccountService.
func NewAccountService(accounts repository.AccountRepository, purger ProfilePurger) *AccountService {
	return &AccountService{accounts: accounts, purger: purger, passwordCost: bcrypt.DefaultCost}
}

// SetPasswordCost overrides the bcrypt cost. Tests and seeding use bcrypt.MinCost.
func (s *AccountService) SetPasswordCost(cost int) {
	s.passwordCost = cost
}

// Register creates an account and its profile.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.Account, error) {
	username := strings.TrimSpace(in.Username)
	if err := validation.ValidateUsername(username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	if err := validateNames(firstName, lastName); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.passwordCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	account := &models.Account{Username: username, Password: string(hash)}
	profile := &models.Profile{FirstName: firstName, LastName: lastName, Intolerances: models.Intolerances{}}
	if err := s.accounts.Create(ctx, account, profile); err != nil {
		return nil, err
	}
	return account, nil
}

// Authenticate returns the account for valid credentials. Every mismatch is
// reported the same way.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*models.Account, error) {
	account, err := s.accounts.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("Invalid username or password")
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, models.NewUnauthorizedError("Invalid username or password")
		}
		return nil, models.NewInternalError(err)
	}
	if account.Profile == nil {
		return nil, models.NewInternalError(errors.New("account has no profile"))
	}
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// DeleteAccount removes the account and everything it owns.
func (s *AccountService) DeleteAccount(ctx context.Context, id uint) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	if account.Profile == nil {
		return nil
	}
	cache.InvalidateProfile(ctx, account.Profile.ID)
	if s.purger != nil {
		return s.purger.PurgeProfile(ctx, account.Profile.ID)
	}
	return nil
}
