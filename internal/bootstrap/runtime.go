// Package bootstrap wires the runtime dependencies shared by the command line tools.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"whiskaway/internal/cache"
	"whiskaway/internal/config"
	"whiskaway/internal/database"
	"whiskaway/internal/middleware"
	"whiskaway/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// AdminUsername, when set, is promoted to admin once the database is up.
	AdminUsername string
	// SkipRedis leaves the Redis client nil.
	SkipRedis bool
}

// InitRuntime connects to the database and Redis and applies the bootstrap options.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	var r *redis.Client
	if !opts.SkipRedis {
		// Init Redis (may result in nil client if unreachable)
		cache.InitRedis(cfg.RedisURL)
		r = cache.GetClient()
	}

	if name := strings.TrimSpace(opts.AdminUsername); name != "" {
		if _, err := SetAdmin(ctx, db, name, true); err != nil {
			return nil, nil, fmt.Errorf("bootstrap admin %q: %w", name, err)
		}
	}

	return db, r, nil
}

// SetAdmin sets the admin flag of the named account and reports whether it changed.
func SetAdmin(ctx context.Context, db *gorm.DB, username string, admin bool) (bool, error) {
	var account models.Account
	err := db.WithContext(ctx).Where("username = ?", username).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, models.NewNotFoundError("Account", username)
	}
	if err != nil {
		return false, err
	}
	if account.IsAdmin == admin {
		return false, nil
	}

	if err := db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("is_admin", admin).Error; err != nil {
		return false, err
	}
	middleware.Logger.InfoContext(ctx, "admin flag updated",
		slog.String("username", username),
		slog.Bool("is_admin", admin),
	)
	return true, nil
}

// ListAdmins returns every admin account ordered by id.
func ListAdmins(ctx context.Context, db *gorm.DB) ([]models.Account, error) {
	var admins []models.Account
	if err := db.WithContext(ctx).Where("is_admin = ?", true).Order("id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}
	return admins, nil
}
