package seed

import (
	"regexp"
	"testing"
	"unicode/utf8"

	"whiskaway/internal/models"
	"whiskaway/internal/validation"
)

func TestFactory_DeterministicWithSeed(t *testing.T) {
	a := NewFactory(42)
	b := NewFactory(42)
	for i := 0; i < 5; i++ {
		if got, want := a.Account(i), b.Account(i); got != want {
			t.Fatalf("account %d differs: %+v vs %+v", i, got, want)
		}
	}
	if a.Recipe().Title != b.Recipe().Title {
		t.Fatal("recipe titles differ for the same seed")
	}
}

func TestFactory_AccountPassesValidation(t *testing.T) {
	f := NewFactory(7)
	for i := 0; i < 50; i++ {
		in := f.Account(i)
		if err := validation.ValidateUsername(in.Username); err != nil {
			t.Fatalf("generated username %q rejected: %v", in.Username, err)
		}
		if err := validation.ValidatePassword(in.Password); err != nil {
			t.Fatalf("generated password rejected: %v", err)
		}
	}
}

func TestUsername_SanitizesAndSuffixes(t *testing.T) {
	got := username("O'Brien-Smith The Third And Fourth", 12)
	if !regexp.MustCompile(`^[a-z0-9]{1,20}_12$`).MatchString(got) {
		t.Fatalf("unexpected username %q", got)
	}
	if got := username("!!!", 3); got != "cook_3" {
		t.Fatalf("expected fallback username, got %q", got)
	}
}

func TestFactory_RecipeAndCommentLimits(t *testing.T) {
	f := NewFactory(99)
	for i := 0; i < 30; i++ {
		r := f.Recipe()
		if r.Title == "" || utf8.RuneCountInString(r.Title) > maxSeedTitle {
			t.Fatalf("bad recipe title %q", r.Title)
		}
		if len(r.Ingredients) < 3 {
			t.Fatalf("expected at least 3 ingredients, got %d", len(r.Ingredients))
		}
		if r.IsPublic == nil {
			t.Fatal("expected explicit visibility")
		}
		if n := utf8.RuneCountInString(f.Comment()); n == 0 || n > maxSeedComment {
			t.Fatalf("comment length %d out of range", n)
		}
	}
}

func TestFactory_IntolerancesAreKnown(t *testing.T) {
	f := NewFactory(5)
	for i := 0; i < 30; i++ {
		if _, err := models.NewIntolerances(f.Intolerances()); err != nil {
			t.Fatalf("unknown intolerance generated: %v", err)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("  crème brûlée  ", 5); got != "crème" {
		t.Fatalf("got %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
}
