package models

import (
	"time"
)

// Cookbook is an ordered collection of recipes owned by an account and
// optionally shared with collaborators.
type Cookbook struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Title          string    `gorm:"size:120;not null" json:"title"`
	OwnerAccountID uint      `gorm:"not null;index" json:"owner_account_id"`
	IsPublic       bool      `gorm:"default:false" json:"is_public"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Recipes       []Recipe `gorm:"-" json:"recipes,omitempty"`
	Collaborators []uint   `gorm:"-" json:"collaborators,omitempty"`
}

// TableName specifies the table name for GORM
func (Cookbook) TableName() string {
	return "cookbooks"
}

// CookbookRecipe places a recipe at a position inside a cookbook.
type CookbookRecipe struct {
	CookbookID uint      `gorm:"primaryKey;autoIncrement:false" json:"cookbook_id"`
	RecipeID   uint      `gorm:"primaryKey;autoIncrement:false;index" json:"recipe_id"`
	Position   int       `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CookbookRecipe) TableName() string {
	return "cookbook_recipes"
}

// CookbookCollaborator grants an account edit rights on a cookbook.
type CookbookCollaborator struct {
	CookbookID uint      `gorm:"primaryKey;autoIncrement:false" json:"cookbook_id"`
	AccountID  uint      `gorm:"primaryKey;autoIncrement:false;index" json:"account_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CookbookCollaborator) TableName() string {
	return "cookbook_collaborators"
}

// CookbookInvite is a pending share request.
type CookbookInvite struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CookbookID    uint      `gorm:"not null;uniqueIndex:idx_cookbook_invitee" json:"cookbook_id"`
	FromAccountID uint      `gorm:"not null" json:"from_account_id"`
	ToAccountID   uint      `gorm:"not null;uniqueIndex:idx_cookbook_invitee;index" json:"to_account_id"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (CookbookInvite) TableName() string {
	return "cookbook_invites"
}

// CanEdit reports whether accountID owns or collaborates on the cookbook.
func (c *Cookbook) CanEdit(accountID uint) bool {
	if c.OwnerAccountID == accountID {
		return true
	}
	for _, id := range c.Collaborators {
		if id == accountID {
			return true
		}
	}
	return false
}
