package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList is an ordered list of strings persisted as a JSON array.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("string list: unsupported column type")
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(raw, l)
}

// Recipe is either authored by a profile or registered from the external
// provider by its provider id. Provider recipes have no owner and are public.
type Recipe struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Title          string     `gorm:"size:120;not null" json:"title"`
	Image          string     `json:"image"`
	Instructions   string     `gorm:"type:text" json:"instructions"`
	Ingredients    StringList `gorm:"type:text" json:"ingredients"`
	OwnerProfileID *uint      `gorm:"index" json:"owner_profile_id"`
	ExternalID     *string    `gorm:"size:64;uniqueIndex" json:"external_id,omitempty"`
	IsPublic       bool       `gorm:"not null" json:"is_public"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	// Computed fields (not stored in DB)
	LikesCount    int  `gorm:"-" json:"likes_count"`
	CommentsCount int  `gorm:"-" json:"comments_count"`
	Liked         bool `gorm:"-" json:"liked"`
}

// TableName specifies the table name for GORM
func (Recipe) TableName() string {
	return "recipes"
}

// IsOwnedBy reports whether profileID authored the recipe.
func (r *Recipe) IsOwnedBy(profileID uint) bool {
	return r.OwnerProfileID != nil && *r.OwnerProfileID == profileID
}

// VisibleTo reports whether the viewer may read the recipe.
func (r *Recipe) VisibleTo(profileID uint) bool {
	return r.IsPublic || r.IsOwnedBy(profileID)
}
