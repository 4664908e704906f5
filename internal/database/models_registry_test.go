package database

import (
	"testing"

	modelspkg "whiskaway/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesSocialTables(t *testing.T) {
	var foundRequest, foundNotification bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.FriendRequest:
			foundRequest = true
		case *modelspkg.Notification:
			foundNotification = true
		}
	}
	require.True(t, foundRequest, "PersistentModels should include FriendRequest")
	require.True(t, foundNotification, "PersistentModels should include Notification")
}
