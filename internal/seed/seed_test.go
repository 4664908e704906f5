package seed

import (
	"context"
	"testing"

	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite("")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func count(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", model, err)
	}
	return n
}

func TestSeeder_RunWithFixture(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := NewSeeder(db, Options{
		NumAccounts:       6,
		RecipesPerAccount: 2,
		FastHash:          true,
		RandomSeed:        1,
	})
	sum, err := s.Run(ctx)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Accounts != 9 {
		t.Fatalf("expected 9 accounts, got %d", sum.Accounts)
	}
	if got := count(t, db, &models.Account{}); got != 9 {
		t.Fatalf("expected 9 account rows, got %d", got)
	}
	if got := count(t, db, &models.Recipe{}); got != int64(sum.Recipes) || sum.Recipes != 5+12 {
		t.Fatalf("recipe rows %d, summary %d", got, sum.Recipes)
	}
	if sum.Friendships < 2 {
		t.Fatalf("expected at least the fixture friendships, got %d", sum.Friendships)
	}
	if got := count(t, db, &models.Like{}); got != int64(sum.Likes) {
		t.Fatalf("like rows %d, summary %d", got, sum.Likes)
	}
	if got := count(t, db, &models.Message{}); got != int64(sum.Messages) {
		t.Fatalf("message rows %d, summary %d", got, sum.Messages)
	}
	if got := count(t, db, &models.Cookbook{}); got != 2+6 {
		t.Fatalf("expected 8 cookbooks, got %d", got)
	}
	if got := count(t, db, &models.CookbookCollaborator{}); got != 1 {
		t.Fatalf("expected one collaborator, got %d", got)
	}
	if count(t, db, &models.Notification{}) == 0 {
		t.Fatal("expected notifications from seeded activity")
	}

	var admin models.Account
	if err := db.Where("username = ?", "ana_bakes").First(&admin).Error; err != nil {
		t.Fatalf("fixture admin: %v", err)
	}
	if !admin.IsAdmin {
		t.Fatal("expected fixture admin flag")
	}
}

func TestSeeder_FriendEdgesAreSymmetric(t *testing.T) {
	db := openTestDB(t)
	s := NewSeeder(db, Options{NumAccounts: 8, FriendsPerAccount: 4, SkipFixture: true, FastHash: true, RandomSeed: 3})
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	var edges []models.FriendEdge
	if err := db.Find(&edges).Error; err != nil {
		t.Fatal(err)
	}
	set := make(map[[2]uint]struct{}, len(edges))
	for _, e := range edges {
		set[[2]uint{e.ProfileID, e.FriendID}] = struct{}{}
	}
	for _, e := range edges {
		if _, ok := set[[2]uint{e.FriendID, e.ProfileID}]; !ok {
			t.Fatalf("edge %d->%d has no reverse", e.ProfileID, e.FriendID)
		}
	}
}

func TestSeeder_ClearAll(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	s := NewSeeder(db, Options{NumAccounts: 2, RecipesPerAccount: 1, FastHash: true, RandomSeed: 9})
	if _, err := s.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	for _, m := range database.PersistentModels() {
		if n := count(t, db, m); n != 0 {
			t.Fatalf("%T still has %d rows", m, n)
		}
	}
}
