package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/repository"
)

const (
	maxNameLength = 50
	maxBioLength  = 500
)

// ProfileService exposes profile reads and edits.
type ProfileService struct {
	profiles repository.ProfileRepository
}

// ProfilePatch lists the editable profile fields; nil fields are left unchanged.
type ProfilePatch struct {
	FirstName    *string
	LastName     *string
	Bio          *string
	Intolerances []string
}

func NewProfileService(profiles repository.ProfileRepository) *ProfileService {
	return &ProfileService{profiles: profiles}
}

func (s *ProfileService) GetProfile(ctx context.Context, id uint) (*models.Profile, error) {
	return s.profiles.GetByID(ctx, id)
}

// UpdateProfile applies patch to the profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, profileID uint, patch ProfilePatch) (*models.Profile, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if patch.FirstName != nil {
		profile.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.LastName != nil {
		profile.LastName = strings.TrimSpace(*patch.LastName)
	}
	if err := validateNames(profile.FirstName, profile.LastName); err != nil {
		return nil, err
	}
	if patch.Bio != nil {
		bio := strings.TrimSpace(*patch.Bio)
		if utf8.RuneCountInString(bio) > maxBioLength {
			return nil, models.NewValidationError(fmt.Sprintf("Bio too long (max %d characters)", maxBioLength))
		}
		profile.Bio = bio
	}
	if patch.Intolerances != nil {
		tags, err := models.NewIntolerances(patch.Intolerances)
		if err != nil {
			return nil, err
		}
		profile.Intolerances = tags
	}

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func validateNames(first, last string) error {
	if utf8.RuneCountInString(first) > maxNameLength || utf8.RuneCountInString(last) > maxNameLength {
		return models.NewValidationError(fmt.Sprintf("Names are limited to %d characters", maxNameLength))
	}
	return nil
}
