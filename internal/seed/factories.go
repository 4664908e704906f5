// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/service"

	"github.com/brianvoe/gofakeit/v6"
)

const (
	demoPassword     = "whiskaway-demo-1"
	maxUsernameBase  = 20
	maxSeedTitle     = 120
	maxSeedComment   = 150
	publicRecipeRate = 0.85
)

// Factory generates fake domain inputs. Two factories built with the same
// non-zero seed produce the same sequence.
type Factory struct {
	faker *gofakeit.Faker
}

// NewFactory returns a Factory. A zero seed uses the current time.
func NewFactory(seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{faker: gofakeit.New(seed)}
}

// Account builds registration input for the n-th generated account.
func (f *Factory) Account(n int) service.RegisterInput {
	first := f.faker.FirstName()
	last := f.faker.LastName()
	return service.RegisterInput{
		Username:  username(first+last, n),
		Password:  demoPassword,
		FirstName: first,
		LastName:  last,
	}
}

func username(base string, n int) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(base) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
		}
		if sb.Len() == maxUsernameBase {
			break
		}
	}
	name := sb.String()
	if name == "" {
		name = "cook"
	}
	return fmt.Sprintf("%s_%d", name, n)
}

// Bio returns a short profile blurb.
func (f *Factory) Bio() string {
	return f.faker.Sentence(f.faker.Number(6, 14))
}

// Intolerances returns zero to two known intolerance tags.
func (f *Factory) Intolerances() []string {
	known := models.KnownIntolerances()
	count := f.faker.Number(0, 2)
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, string(known[f.faker.Number(0, len(known)-1)]))
	}
	return out
}

// Recipe builds a recipe with a few ingredients. Most generated recipes are public.
func (f *Factory) Recipe() service.RecipeInput {
	var title string
	switch f.faker.Number(0, 3) {
	case 0:
		title = f.faker.Breakfast()
	case 1:
		title = f.faker.Lunch()
	case 2:
		title = f.faker.Dinner()
	default:
		title = f.faker.Dessert()
	}

	ingredients := make([]string, 0, 6)
	for i, n := 0, f.faker.Number(3, 6); i < n; i++ {
		item := f.faker.Vegetable()
		if f.faker.Bool() {
			item = f.faker.Fruit()
		}
		ingredients = append(ingredients, fmt.Sprintf("%d %s", f.faker.Number(1, 4), strings.ToLower(item)))
	}

	public := f.Chance(publicRecipeRate)
	return service.RecipeInput{
		Title:        truncate(title, maxSeedTitle),
		Image:        fmt.Sprintf("https://picsum.photos/seed/%s/556/370", f.faker.UUID()),
		Instructions: f.faker.Paragraph(1, 4, 10, "\n"),
		Ingredients:  ingredients,
		IsPublic:     &public,
	}
}

// Comment returns comment text within the comment length limit.
func (f *Factory) Comment() string {
	return truncate(f.faker.Sentence(f.faker.Number(3, 14)), maxSeedComment)
}

func (f *Factory) Message() string {
	return f.faker.Sentence(f.faker.Number(2, 16))
}

func (f *Factory) CookbookTitle() string {
	return truncate(fmt.Sprintf("%s %s", f.faker.Adjective(), f.faker.Dinner()), maxSeedTitle)
}

// Pick returns an index in [0, n).
func (f *Factory) Pick(n int) int {
	if n <= 1 {
		return 0
	}
	return f.faker.Number(0, n-1)
}

// Chance reports true with probability p.
func (f *Factory) Chance(p float64) bool {
	return f.faker.Float64Range(0, 1) < p
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:n]))
}

func (f *Factory) Bool() bool {
	return f.faker.Bool()
}
