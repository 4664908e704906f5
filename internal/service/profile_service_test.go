package service

import (
	"context"
	"strings"
	"testing"

	"whiskaway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileServiceUpdateProfile(t *testing.T) {
	var saved *models.Profile
	repo := noopProfileRepo()
	repo.getByIDFn = func(_ context.Context, id uint) (*models.Profile, error) {
		return &models.Profile{ID: id, FirstName: "Ana", LastName: "Lee"}, nil
	}
	repo.updateFn = func(_ context.Context, p *models.Profile) error {
		saved = p
		return nil
	}
	svc := NewProfileService(repo)

	bio := "  bakes on weekends "
	_, err := svc.UpdateProfile(context.Background(), 2, ProfilePatch{
		Bio:          &bio,
		Intolerances: []string{"Peanut", "egg"},
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "Ana", saved.FirstName)
	assert.Equal(t, "bakes on weekends", saved.Bio)
	assert.Equal(t, models.Intolerances{"egg", "peanut"}, saved.Intolerances)
}

func TestProfileServiceUpdateProfileValidation(t *testing.T) {
	svc := NewProfileService(noopProfileRepo())

	long := strings.Repeat("x", 51)
	_, err := svc.UpdateProfile(context.Background(), 2, ProfilePatch{FirstName: &long})
	assertAppCode(t, err, models.CodeValidation)

	_, err = svc.UpdateProfile(context.Background(), 2, ProfilePatch{Intolerances: []string{"cilantro"}})
	assertAppCode(t, err, models.CodeValidation)
}
