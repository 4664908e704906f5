package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	RecipeKeyPrefix  = "recipe:%d"
	ProfileKeyPrefix = "profile:%d"
	BlacklistPrefix  = "blacklist:%s"
)

const (
	RecipeTTL  = 15 * time.Minute
	ProfileTTL = 5 * time.Minute
)

func RecipeKey(recipeID uint) string {
	return fmt.Sprintf(RecipeKeyPrefix, recipeID)
}

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

// BlacklistKey is the key marking a revoked token id.
func BlacklistKey(jti string) string {
	return fmt.Sprintf(BlacklistPrefix, jti)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateRecipe(ctx context.Context, recipeID uint) {
	Invalidate(ctx, RecipeKey(recipeID))
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
}
