// Command main runs the database seeder for WhiskAway.
package main

import (
	"context"
	"flag"
	"log"

	"whiskaway/internal/bootstrap"
	"whiskaway/internal/config"
	"whiskaway/internal/seed"
)

func main() {
	// Parse command line flags
	numAccounts := flag.Int("accounts", 20, "Number of generated accounts")
	recipes := flag.Int("recipes", 3, "Recipes per generated account")
	friends := flag.Int("friends", 3, "Friend requests sent per account")
	fixture := flag.String("fixture", "", "YAML fixture file (default: built-in demo fixture)")
	noFixture := flag.Bool("no-fixture", false, "Skip the fixture and seed generated data only")
	shouldClean := flag.Bool("clean", false, "Delete all rows before seeding")
	fast := flag.Bool("fast", true, "Hash passwords at minimum bcrypt cost")
	randomSeed := flag.Int64("seed", 0, "Random seed (0 uses the current time)")
	admin := flag.String("admin", "", "Promote this username to admin after seeding")
	flag.Parse()

	log.Println("🌱 WhiskAway seeder")
	log.Printf("Target: %d accounts, %d recipes each, clean=%v", *numAccounts, *recipes, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to initialize runtime: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumAccounts:       *numAccounts,
		RecipesPerAccount: *recipes,
		FriendsPerAccount: *friends,
		FixturePath:       *fixture,
		SkipFixture:       *noFixture,
		FastHash:          *fast,
		RandomSeed:        *randomSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	sum, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	if *admin != "" {
		if _, err := bootstrap.SetAdmin(ctx, db, *admin, true); err != nil {
			log.Fatalf("❌ Admin promotion failed: %v", err)
		}
	}

	log.Printf("🎉 Seeded %d accounts, %d recipes, %d friendships, %d cookbooks",
		sum.Accounts, sum.Recipes, sum.Friendships, sum.Cookbooks)
}
