package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Intolerance is a dietary restriction tag understood by the recipe provider.
type Intolerance string

const (
	IntoleranceDairy     Intolerance = "dairy"
	IntoleranceEgg       Intolerance = "egg"
	IntoleranceGluten    Intolerance = "gluten"
	IntoleranceGrain     Intolerance = "grain"
	IntolerancePeanut    Intolerance = "peanut"
	IntoleranceSeafood   Intolerance = "seafood"
	IntoleranceSesame    Intolerance = "sesame"
	IntoleranceShellfish Intolerance = "shellfish"
	IntoleranceSoy       Intolerance = "soy"
	IntoleranceSulfite   Intolerance = "sulfite"
	IntoleranceTreeNut   Intolerance = "tree_nut"
	IntoleranceWheat     Intolerance = "wheat"
)

var knownIntolerances = map[Intolerance]struct{}{
	IntoleranceDairy:     {},
	IntoleranceEgg:       {},
	IntoleranceGluten:    {},
	IntoleranceGrain:     {},
	IntolerancePeanut:    {},
	IntoleranceSeafood:   {},
	IntoleranceSesame:    {},
	IntoleranceShellfish: {},
	IntoleranceSoy:       {},
	IntoleranceSulfite:   {},
	IntoleranceTreeNut:   {},
	IntoleranceWheat:     {},
}

// IsKnownIntolerance reports whether tag belongs to the supported vocabulary.
func IsKnownIntolerance(tag string) bool {
	_, ok := knownIntolerances[Intolerance(tag)]
	return ok
}

// KnownIntolerances returns the supported vocabulary in sorted order.
func KnownIntolerances() []Intolerance {
	out := make([]Intolerance, 0, len(knownIntolerances))
	for tag := range knownIntolerances {
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Intolerances is a set of tags persisted as a JSON array.
type Intolerances []Intolerance

// NewIntolerances normalizes raw tags into a sorted, deduplicated set.
// Unknown tags are rejected.
func NewIntolerances(raw []string) (Intolerances, error) {
	seen := make(map[Intolerance]struct{}, len(raw))
	out := make(Intolerances, 0, len(raw))
	for _, r := range raw {
		tag := Intolerance(strings.ToLower(strings.TrimSpace(r)))
		if _, ok := knownIntolerances[tag]; !ok {
			return nil, NewValidationError(fmt.Sprintf("unknown intolerance %q", r))
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// Value implements driver.Valuer.
func (t Intolerances) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Intolerances) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*t = Intolerances{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("intolerances: unsupported column type")
	}
	if len(raw) == 0 {
		*t = Intolerances{}
		return nil
	}
	return json.Unmarshal(raw, t)
}

// Profile holds the public, social face of an account.
type Profile struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	AccountID    uint         `gorm:"uniqueIndex;not null" json:"account_id"`
	FirstName    string       `gorm:"size:50" json:"first_name"`
	LastName     string       `gorm:"size:50" json:"last_name"`
	Bio          string       `gorm:"size:500" json:"bio"`
	Intolerances Intolerances `gorm:"type:text" json:"intolerances"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Profile) TableName() string {
	return "profiles"
}
