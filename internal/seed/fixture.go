package seed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/demo.yml
var demoFixture []byte

// Fixture describes hand-written demo data loaded before generated accounts.
type Fixture struct {
	Accounts    []FixtureAccount  `yaml:"accounts"`
	Friendships [][]string        `yaml:"friendships"`
	Cookbooks   []FixtureCookbook `yaml:"cookbooks"`
}

type FixtureAccount struct {
	Username     string          `yaml:"username"`
	Password     string          `yaml:"password"`
	FirstName    string          `yaml:"first_name"`
	LastName     string          `yaml:"last_name"`
	Bio          string          `yaml:"bio"`
	Intolerances []string        `yaml:"intolerances"`
	Admin        bool            `yaml:"admin"`
	Recipes      []FixtureRecipe `yaml:"recipes"`
}

type FixtureRecipe struct {
	Title        string   `yaml:"title"`
	Image        string   `yaml:"image"`
	Instructions string   `yaml:"instructions"`
	Ingredients  []string `yaml:"ingredients"`
	Private      bool     `yaml:"private"`
}

// FixtureCookbook references its owner, recipes and collaborators by
// username and recipe title.
type FixtureCookbook struct {
	Owner         string   `yaml:"owner"`
	Title         string   `yaml:"title"`
	Public        bool     `yaml:"public"`
	Recipes       []string `yaml:"recipes"`
	Collaborators []string `yaml:"collaborators"`
}

// DefaultFixture returns the built-in demo fixture.
func DefaultFixture() (*Fixture, error) {
	return ParseFixture(demoFixture)
}

// LoadFixture reads and validates a YAML fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

func ParseFixture(data []byte) (*Fixture, error) {
	var fx Fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if err := fx.Validate(); err != nil {
		return nil, err
	}
	return &fx, nil
}

// Validate checks that every reference in the fixture resolves.
func (fx *Fixture) Validate() error {
	accounts := make(map[string]struct{}, len(fx.Accounts))
	recipes := make(map[string]struct{})
	for _, a := range fx.Accounts {
		name := strings.TrimSpace(a.Username)
		if name == "" {
			return fmt.Errorf("fixture account without username")
		}
		if _, dup := accounts[name]; dup {
			return fmt.Errorf("fixture account %q listed twice", name)
		}
		accounts[name] = struct{}{}
		for _, r := range a.Recipes {
			recipes[r.Title] = struct{}{}
		}
	}

	for _, pair := range fx.Friendships {
		if len(pair) != 2 {
			return fmt.Errorf("friendship %v must name two accounts", pair)
		}
		for _, name := range pair {
			if _, ok := accounts[name]; !ok {
				return fmt.Errorf("friendship references unknown account %q", name)
			}
		}
		if pair[0] == pair[1] {
			return fmt.Errorf("friendship of %q with itself", pair[0])
		}
	}

	for _, cb := range fx.Cookbooks {
		if _, ok := accounts[cb.Owner]; !ok {
			return fmt.Errorf("cookbook %q has unknown owner %q", cb.Title, cb.Owner)
		}
		for _, name := range cb.Collaborators {
			if _, ok := accounts[name]; !ok {
				return fmt.Errorf("cookbook %q has unknown collaborator %q", cb.Title, name)
			}
		}
		for _, title := range cb.Recipes {
			if _, ok := recipes[title]; !ok {
				return fmt.Errorf("cookbook %q references unknown recipe %q", cb.Title, title)
			}
		}
	}
	return nil
}
