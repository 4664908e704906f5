package models

import (
	"time"
)

// MaxCommentLength is the maximum comment length in characters.
const MaxCommentLength = 150

// Like represents a profile's like on a recipe.
// The combination of RecipeID and ProfileID must be unique.
type Like struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uint      `gorm:"not null;uniqueIndex:idx_recipe_profile" json:"recipe_id"`
	ProfileID uint      `gorm:"not null;uniqueIndex:idx_recipe_profile;index" json:"profile_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM
func (Like) TableName() string {
	return "likes"
}

// Comment is an append-only note on a recipe. Username is captured when the
// comment is posted and is not updated on rename.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uint      `gorm:"not null;index:idx_comments_recipe_created" json:"recipe_id"`
	ProfileID uint      `gorm:"not null;index" json:"profile_id"`
	Username  string    `gorm:"size:30;not null" json:"username"`
	Text      string    `gorm:"size:600;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_comments_recipe_created" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// LikeState is the result of toggling a like.
type LikeState struct {
	RecipeID uint  `json:"recipe_id"`
	Liked    bool  `json:"liked"`
	Count    int64 `json:"count"`
}
