package database

import "whiskaway/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.Profile{},
		&models.FriendEdge{},
		&models.FriendRequest{},
		&models.Recipe{},
		&models.Like{},
		&models.Comment{},
		&models.Message{},
		&models.Notification{},
		&models.Cookbook{},
		&models.CookbookRecipe{},
		&models.CookbookCollaborator{},
		&models.CookbookInvite{},
	}
}
