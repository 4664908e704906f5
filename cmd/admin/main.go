// Package main provides admin management utilities for WhiskAway.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"whiskaway/internal/bootstrap"
	"whiskaway/internal/config"
	"whiskaway/internal/repository"
	"whiskaway/internal/service"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run ./cmd/admin promote <username>      - Promote account to admin")
	fmt.Println("  go run ./cmd/admin demote <username>       - Demote account from admin")
	fmt.Println("  go run ./cmd/admin list-admins             - List all admins")
	fmt.Println("  go run ./cmd/admin delete <account_id>     - Delete an account and everything it owns")
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	db, _, err := bootstrap.InitRuntime(ctx, cfg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	switch os.Args[1] {
	case "promote", "demote":
		if len(os.Args) < 3 {
			usage()
		}
		admin := os.Args[1] == "promote"
		changed, err := bootstrap.SetAdmin(ctx, db, os.Args[2], admin)
		if err != nil {
			log.Fatalf("Failed to update %s: %v", os.Args[2], err)
		}
		if !changed {
			fmt.Printf("%s already has is_admin=%t\n", os.Args[2], admin)
			return
		}
		fmt.Printf("✅ %s now has is_admin=%t\n", os.Args[2], admin)

	case "list-admins":
		admins, err := bootstrap.ListAdmins(ctx, db)
		if err != nil {
			log.Fatalf("Failed to fetch admins: %v", err)
		}
		if len(admins) == 0 {
			fmt.Println("No admins found in the system")
			return
		}
		fmt.Printf("Found %d admin(s):\n", len(admins))
		for _, a := range admins {
			fmt.Printf("  - %s (ID: %d)\n", a.Username, a.ID)
		}

	case "delete":
		if len(os.Args) < 3 {
			usage()
		}
		id, err := strconv.ParseUint(os.Args[2], 10, 64)
		if err != nil {
			log.Fatalf("Invalid account id %q", os.Args[2])
		}
		// Mongo-stored notifications are purged by the API delete endpoint.
		accountRepo := repository.NewAccountRepository(db)
		notifications := service.NewNotificationService(repository.NewNotificationRepository(db), repository.NewProfileRepository(db))
		if err := service.NewAccountService(accountRepo, notifications).DeleteAccount(ctx, uint(id)); err != nil {
			log.Fatalf("Failed to delete account %d: %v", id, err)
		}
		fmt.Printf("✅ Deleted account %d\n", id)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		usage()
	}
}
