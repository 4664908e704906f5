package models

import (
	"time"
)

// Account is the identity record: credentials plus the profile it owns.
type Account struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	IsAdmin   bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Profile *Profile `gorm:"foreignKey:AccountID" json:"profile,omitempty"`
}

// TableName specifies the table name for GORM
func (Account) TableName() string {
	return "accounts"
}
