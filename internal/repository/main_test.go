package repository

import (
	"context"
	"os"
	"testing"

	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	os.Setenv("APP_ENV", "test")
	os.Exit(m.Run())
}

// newTestDB returns a private, fully migrated in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// createAccount registers an account with an empty profile and returns both ids.
func createAccount(t *testing.T, db *gorm.DB, username string) (accountID, profileID uint) {
	t.Helper()
	account := &models.Account{Username: username, Password: "hash"}
	profile := &models.Profile{FirstName: username}
	require.NoError(t, NewAccountRepository(db).Create(context.Background(), account, profile))
	return account.ID, profile.ID
}

func createRecipe(t *testing.T, db *gorm.DB, owner uint, title string) *models.Recipe {
	t.Helper()
	recipe := &models.Recipe{
		Title:          title,
		Ingredients:    models.StringList{"salt"},
		OwnerProfileID: &owner,
		IsPublic:       true,
	}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), recipe))
	return recipe
}
