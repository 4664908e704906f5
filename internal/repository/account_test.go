package repository

import (
	"context"
	"testing"

	"whiskaway/internal/cache"
	"whiskaway/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountRepository_CreateAndLookup(t *testing.T) {
	db := newTestDB(t)
	repo := NewAccountRepository(db)
	ctx := context.Background()

	accountID, profileID := createAccount(t, db, "maria")

	byName, err := repo.GetByUsername(ctx, "maria")
	require.NoError(t, err)
	assert.Equal(t, accountID, byName.ID)
	require.NotNil(t, byName.Profile)
	assert.Equal(t, profileID, byName.Profile.ID)

	_, err = repo.GetByUsername(ctx, "Maria")
	assert.True(t, models.HasCode(err, models.CodeNotFound), "usernames are case-sensitive")

	err = repo.Create(ctx, &models.Account{Username: "maria", Password: "x"}, &models.Profile{})
	assert.True(t, models.HasCode(err, models.CodeInvalidOperation))

	// The failed registration must not leave an orphan profile behind.
	var profiles int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&profiles).Error)
	assert.Equal(t, int64(1), profiles)
}

func TestAccountRepository_DeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	accounts := NewAccountRepository(db)
	friends := NewFriendRepository(db)
	likes := NewLikeRepository(db)
	notifications := NewNotificationRepository(db)
	cookbooks := NewCookbookRepository(db)

	aliceAcc, alice := createAccount(t, db, "alice")
	bobAcc, bob := createAccount(t, db, "bob")
	_, carol := createAccount(t, db, "carol")

	require.NoError(t, friends.CreateRequest(ctx, &models.FriendRequest{FromProfileID: alice, ToProfileID: bob}))
	require.NoError(t, friends.Accept(ctx, alice, bob))
	require.NoError(t, friends.CreateRequest(ctx, &models.FriendRequest{FromProfileID: carol, ToProfileID: alice}))

	aliceRecipe := createRecipe(t, db, alice, "Alice pie")
	bobRecipe := createRecipe(t, db, bob, "Bob stew")
	_, _, err := likes.Toggle(ctx, bobRecipe.ID, alice)
	require.NoError(t, err)
	_, _, err = likes.Toggle(ctx, aliceRecipe.ID, bob)
	require.NoError(t, err)

	sent, err := models.NewNotification(&alice, bob, models.RecipeLikeData{RecipeID: bobRecipe.ID, LikerProfileID: alice})
	require.NoError(t, err)
	require.NoError(t, notifications.Create(ctx, sent))
	received, err := models.NewNotification(&bob, alice, models.FriendAcceptData{ProfileID: bob})
	require.NoError(t, err)
	require.NoError(t, notifications.Create(ctx, received))

	comment := &models.Comment{RecipeID: bobRecipe.ID, ProfileID: alice, Username: "alice", Text: "lovely"}
	require.NoError(t, NewCommentRepository(db).Create(ctx, comment))

	owned := &models.Cookbook{Title: "Alice's", OwnerAccountID: aliceAcc}
	require.NoError(t, cookbooks.Create(ctx, owned))
	require.NoError(t, cookbooks.AddRecipe(ctx, owned.ID, bobRecipe.ID))
	shared := &models.Cookbook{Title: "Bob's", OwnerAccountID: bobAcc}
	require.NoError(t, cookbooks.Create(ctx, shared))
	require.NoError(t, cookbooks.CreateInvite(ctx, &models.CookbookInvite{CookbookID: shared.ID, FromAccountID: bobAcc, ToAccountID: aliceAcc}))
	require.NoError(t, cookbooks.AcceptInvite(ctx, shared.ID, aliceAcc))

	require.NoError(t, accounts.Delete(ctx, aliceAcc))

	_, err = accounts.GetByID(ctx, aliceAcc)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	var edges int64
	require.NoError(t, db.Model(&models.FriendEdge{}).Where("profile_id = ? OR friend_id = ?", alice, alice).Count(&edges).Error)
	assert.Zero(t, edges)

	incoming, err := friends.ListIncoming(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, incoming)
	outgoing, err := friends.ListOutgoing(ctx, carol)
	require.NoError(t, err)
	assert.Empty(t, outgoing)

	count, err := likes.CountByRecipe(ctx, bobRecipe.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	var recipes int64
	require.NoError(t, db.Model(&models.Recipe{}).Where("id = ?", aliceRecipe.ID).Count(&recipes).Error)
	assert.Zero(t, recipes)

	kept, err := notifications.GetByID(ctx, sent.ID)
	require.NoError(t, err)
	assert.Nil(t, kept.FromProfileID)
	_, err = notifications.GetByID(ctx, received.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	comments, err := NewCommentRepository(db).ListByRecipe(ctx, bobRecipe.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "alice", comments[0].Username)

	_, err = cookbooks.GetByID(ctx, owned.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	stillShared, err := cookbooks.GetByID(ctx, shared.ID)
	require.NoError(t, err)
	assert.Empty(t, stillShared.Collaborators)
}

func TestAccountRepository_DeleteUnknown(t *testing.T) {
	db := newTestDB(t)
	err := NewAccountRepository(db).Delete(context.Background(), 42)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestAccountRepository_DeleteEvictsCachedRecipes(t *testing.T) {
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })

	db := newTestDB(t)
	ctx := context.Background()
	recipes := NewRecipeRepository(db)

	aliceAcc, alice := createAccount(t, db, "alice")
	_, bob := createAccount(t, db, "bob")
	pie := createRecipe(t, db, alice, "Alice pie")
	stew := createRecipe(t, db, bob, "Bob stew")

	_, err := recipes.GetByID(ctx, pie.ID)
	require.NoError(t, err)
	_, err = recipes.GetByID(ctx, stew.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.RecipeKey(pie.ID)))

	require.NoError(t, NewAccountRepository(db).Delete(ctx, aliceAcc))

	assert.False(t, mr.Exists(cache.RecipeKey(pie.ID)))
	assert.True(t, mr.Exists(cache.RecipeKey(stew.ID)), "recipes of other owners stay cached")

	_, err = recipes.GetByID(ctx, pie.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
