package repository

import (
	"context"
	"testing"

	"whiskaway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookbookRepository_RecipesKeepInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewCookbookRepository(db)
	ctx := context.Background()

	acc, p := createAccount(t, db, "owner")
	cb := &models.Cookbook{Title: "Weeknights", OwnerAccountID: acc}
	require.NoError(t, repo.Create(ctx, cb))

	r1 := createRecipe(t, db, p, "Curry")
	r2 := createRecipe(t, db, p, "Dal")
	r3 := createRecipe(t, db, p, "Rice")
	for _, r := range []*models.Recipe{r2, r1, r3} {
		require.NoError(t, repo.AddRecipe(ctx, cb.ID, r.ID))
	}

	err := repo.AddRecipe(ctx, cb.ID, r1.ID)
	assert.True(t, models.HasCode(err, models.CodeInvalidOperation))

	got, err := repo.GetByID(ctx, cb.ID)
	require.NoError(t, err)
	require.Len(t, got.Recipes, 3)
	assert.Equal(t, []string{"Dal", "Curry", "Rice"}, []string{got.Recipes[0].Title, got.Recipes[1].Title, got.Recipes[2].Title})

	require.NoError(t, repo.RemoveRecipe(ctx, cb.ID, r1.ID))
	err = repo.RemoveRecipe(ctx, cb.ID, r1.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	got, err = repo.GetByID(ctx, cb.ID)
	require.NoError(t, err)
	assert.Len(t, got.Recipes, 2)
}

func TestCookbookRepository_InviteAndAccept(t *testing.T) {
	db := newTestDB(t)
	repo := NewCookbookRepository(db)
	ctx := context.Background()

	owner, _ := createAccount(t, db, "owner")
	guest, _ := createAccount(t, db, "guest")
	cb := &models.Cookbook{Title: "Holidays", OwnerAccountID: owner}
	require.NoError(t, repo.Create(ctx, cb))

	require.NoError(t, repo.CreateInvite(ctx, &models.CookbookInvite{CookbookID: cb.ID, FromAccountID: owner, ToAccountID: guest}))
	err := repo.CreateInvite(ctx, &models.CookbookInvite{CookbookID: cb.ID, FromAccountID: owner, ToAccountID: guest})
	assert.True(t, models.HasCode(err, models.CodeInvalidOperation))

	invites, err := repo.ListInvitesFor(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, invites, 1)

	require.NoError(t, repo.AcceptInvite(ctx, cb.ID, guest))
	err = repo.AcceptInvite(ctx, cb.ID, guest)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	got, err := repo.GetByID(ctx, cb.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{guest}, got.Collaborators)
	assert.True(t, got.CanEdit(guest))

	mine, err := repo.ListForAccount(ctx, guest)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, cb.ID, mine[0].ID)

	pending, err := repo.GetInvite(ctx, cb.ID, guest)
	require.NoError(t, err)
	assert.Nil(t, pending)
}

func TestCookbookRepository_Delete(t *testing.T) {
	db := newTestDB(t)
	repo := NewCookbookRepository(db)
	ctx := context.Background()

	owner, p := createAccount(t, db, "owner")
	cb := &models.Cookbook{Title: "Old", OwnerAccountID: owner}
	require.NoError(t, repo.Create(ctx, cb))
	require.NoError(t, repo.AddRecipe(ctx, cb.ID, createRecipe(t, db, p, "Toast").ID))

	require.NoError(t, repo.Delete(ctx, cb.ID))
	_, err := repo.GetByID(ctx, cb.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	var links int64
	require.NoError(t, db.Model(&models.CookbookRecipe{}).Count(&links).Error)
	assert.Zero(t, links)
}
