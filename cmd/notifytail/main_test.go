package main

import (
	"encoding/json"
	"testing"

	"whiskaway/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	from := uint(3)
	n, err := models.NewNotification(&from, 8, models.RecipeLikeData{RecipeID: 11, LikerProfileID: 3})
	require.NoError(t, err)
	n.ID = 42
	payload, err := json.Marshal(models.NotificationEvent{Kind: models.NotificationEmitted, Notification: n, ProfileID: 8})
	require.NoError(t, err)

	line := describe("notifications:profile:8", string(payload))
	assert.Contains(t, line, "profile=8")
	assert.Contains(t, line, "id=42")
	assert.Contains(t, line, "type=recipe_like")
	assert.Contains(t, line, "from=3")

	assert.Contains(t, describe("notifications:profile:8", "{"), "undecodable")
}
