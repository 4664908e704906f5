package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"whiskaway/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFriendRepository_RequestLifecycle(t *testing.T) {
	db := newTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	_, u1 := createAccount(t, db, "f1")
	_, u2 := createAccount(t, db, "f2")

	t.Run("CreateRequest and ListIncoming", func(t *testing.T) {
		require.NoError(t, repo.CreateRequest(ctx, &models.FriendRequest{FromProfileID: u1, ToProfileID: u2}))

		reqs, err := repo.ListIncoming(ctx, u2)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, u1, reqs[0].FromProfileID)
		require.NotNil(t, reqs[0].FromProfile)
		assert.Equal(t, "f1", reqs[0].FromProfile.FirstName)

		sent, err := repo.ListOutgoing(ctx, u1)
		require.NoError(t, err)
		assert.Len(t, sent, 1)
	})

	t.Run("pair key rejects a second request in either direction", func(t *testing.T) {
		err := repo.CreateRequest(ctx, &models.FriendRequest{FromProfileID: u1, ToProfileID: u2})
		assert.True(t, models.HasCode(err, models.CodeInvalidOperation))
		err = repo.CreateRequest(ctx, &models.FriendRequest{FromProfileID: u2, ToProfileID: u1})
		assert.True(t, models.HasCode(err, models.CodeInvalidOperation))
	})

	t.Run("Accept links both directions", func(t *testing.T) {
		require.NoError(t, repo.Accept(ctx, u1, u2))

		ab, err := repo.AreFriends(ctx, u1, u2)
		require.NoError(t, err)
		ba, err := repo.AreFriends(ctx, u2, u1)
		require.NoError(t, err)
		assert.True(t, ab)
		assert.True(t, ba)

		friends, err := repo.ListFriends(ctx, u1)
		require.NoError(t, err)
		require.Len(t, friends, 1)
		assert.Equal(t, u2, friends[0].ID)

		pending, err := repo.GetRequest(ctx, u1, u2)
		require.NoError(t, err)
		assert.Nil(t, pending)
	})

	t.Run("Accept without a request is NotFound", func(t *testing.T) {
		err := repo.Accept(ctx, u1, u2)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})

	t.Run("RemoveFriendship deletes both edges", func(t *testing.T) {
		require.NoError(t, repo.RemoveFriendship(ctx, u2, u1))

		friends, err := repo.ListFriends(ctx, u1)
		require.NoError(t, err)
		assert.Empty(t, friends)
		friends, err = repo.ListFriends(ctx, u2)
		require.NoError(t, err)
		assert.Empty(t, friends)

		err = repo.RemoveFriendship(ctx, u1, u2)
		assert.True(t, models.HasCode(err, models.CodeNotFound))
	})
}

func TestFriendRepository_DeleteRequest(t *testing.T) {
	db := newTestDB(t)
	repo := NewFriendRepository(db)
	ctx := context.Background()

	_, u1 := createAccount(t, db, "d1")
	_, u2 := createAccount(t, db, "d2")

	require.NoError(t, repo.CreateRequest(ctx, &models.FriendRequest{FromProfileID: u1, ToProfileID: u2}))
	require.NoError(t, repo.DeleteRequest(ctx, u1, u2))

	err := repo.DeleteRequest(ctx, u1, u2)
	assert.True(t, models.HasCode(err, models.CodeNotFound))

	// The pair key is free again once the request is gone.
	assert.NoError(t, repo.CreateRequest(ctx, &models.FriendRequest{FromProfileID: u2, ToProfileID: u1}))
}

func TestFriendRepository_AcceptRollsBackOnEdgeFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFriendRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "friend_requests" WHERE from_profile_id = $1 AND to_profile_id = $2`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "profile_friends"`)).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Accept(context.Background(), 1, 2)
	assert.True(t, models.HasCode(err, models.CodeInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendRepository_AcceptRequiresExactlyOneRequest(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewFriendRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "friend_requests"`)).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Accept(context.Background(), 1, 2)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
