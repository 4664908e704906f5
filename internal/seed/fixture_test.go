package seed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultFixture(t *testing.T) {
	fx, err := DefaultFixture()
	if err != nil {
		t.Fatalf("default fixture: %v", err)
	}
	if len(fx.Accounts) == 0 {
		t.Fatal("expected fixture accounts")
	}
	var admins int
	for _, a := range fx.Accounts {
		if a.Admin {
			admins++
		}
	}
	if admins != 1 {
		t.Fatalf("expected one admin account, got %d", admins)
	}
}

func TestLoadFixture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yml")
	data := `
accounts:
  - username: sam_sautes
    recipes:
      - title: Omelette
        ingredients: [3 eggs, butter]
  - username: kim_kneads
friendships:
  - [sam_sautes, kim_kneads]
cookbooks:
  - owner: kim_kneads
    title: Eggs
    recipes: [Omelette]
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	fx, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := fx.Accounts[0].Recipes[0].Ingredients; len(got) != 2 {
		t.Fatalf("expected 2 ingredients, got %v", got)
	}
	if fx.Friendships[0][1] != "kim_kneads" {
		t.Fatalf("unexpected friendship %v", fx.Friendships[0])
	}
}

func TestParseFixture_RejectsDanglingReferences(t *testing.T) {
	tests := map[string]string{
		"duplicate": "accounts: [{username: a1}, {username: a1}]",
		"friend":    "accounts: [{username: a1}]\nfriendships: [[a1, ghost]]",
		"self":      "accounts: [{username: a1}]\nfriendships: [[a1, a1]]",
		"triple":    "accounts: [{username: a1}, {username: b2}]\nfriendships: [[a1, b2, a1]]",
		"owner":     "accounts: [{username: a1}]\ncookbooks: [{owner: ghost, title: x}]",
		"recipe":    "accounts: [{username: a1}]\ncookbooks: [{owner: a1, title: x, recipes: [Missing]}]",
		"syntax":    "accounts: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseFixture([]byte(doc)); err == nil {
				t.Fatalf("expected error for %s", strings.TrimSpace(doc))
			}
		})
	}
}
