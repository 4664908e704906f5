package seed

import (
	"context"
	"fmt"
	"log/slog"

	"whiskaway/internal/database"
	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/repository"
	"whiskaway/internal/service"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const friendAcceptRate = 0.8

// Options configures a seeding run.
type Options struct {
	NumAccounts       int
	RecipesPerAccount int
	FriendsPerAccount int
	LikesPerAccount   int
	CommentsPerRecipe int
	MessagesPerFriend int
	// FixturePath names a YAML fixture; empty uses the built-in demo fixture.
	FixturePath string
	// SkipFixture seeds generated data only.
	SkipFixture bool
	// FastHash hashes passwords at the minimum bcrypt cost.
	FastHash   bool
	RandomSeed int64
}

func (o Options) withDefaults() Options {
	if o.RecipesPerAccount < 0 {
		o.RecipesPerAccount = 0
	}
	if o.FriendsPerAccount == 0 {
		o.FriendsPerAccount = 3
	}
	if o.LikesPerAccount == 0 {
		o.LikesPerAccount = 4
	}
	if o.CommentsPerRecipe == 0 {
		o.CommentsPerRecipe = 2
	}
	if o.MessagesPerFriend == 0 {
		o.MessagesPerFriend = 2
	}
	return o
}

// Summary counts what a run created.
type Summary struct {
	Accounts        int
	Recipes         int
	Friendships     int
	PendingRequests int
	Likes           int
	Comments        int
	Messages        int
	Cookbooks       int
}

type seededAccount struct {
	accountID uint
	profileID uint
	username  string
}

// Seeder writes demo data through the service layer so that every social
// action leaves the same rows and notifications a real client would.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory

	accounts     *service.AccountService
	profiles     *service.ProfileService
	friends      *service.FriendService
	recipes      *service.RecipeService
	interactions *service.InteractionService
	messages     *service.MessageService
	cookbooks    *service.CookbookService

	seeded        []seededAccount
	byUsername    map[string]seededAccount
	recipeByTitle map[string]uint
	publicRecipes []uint
	friendPairs   [][2]seededAccount
	summary       Summary
}

func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	opts = opts.withDefaults()

	accountRepo := repository.NewAccountRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	notifications := service.NewNotificationService(repository.NewNotificationRepository(db), profileRepo)
	accounts := service.NewAccountService(accountRepo, notifications)
	if opts.FastHash {
		accounts.SetPasswordCost(bcrypt.MinCost)
	}
	recipes := service.NewRecipeService(repository.NewRecipeRepository(db), likeRepo, commentRepo)

	return &Seeder{
		db:            db,
		opts:          opts,
		factory:       NewFactory(opts.RandomSeed),
		accounts:      accounts,
		profiles:      service.NewProfileService(profileRepo),
		friends:       service.NewFriendService(friendRepo, profileRepo, notifications),
		recipes:       recipes,
		interactions:  service.NewInteractionService(recipes, likeRepo, commentRepo, notifications),
		messages:      service.NewMessageService(repository.NewMessageRepository(db), friendRepo, profileRepo),
		cookbooks:     service.NewCookbookService(repository.NewCookbookRepository(db), accountRepo, profileRepo, recipes, notifications),
		byUsername:    make(map[string]seededAccount),
		recipeByTitle: make(map[string]uint),
	}
}

// ClearAll deletes every row of the persistent models.
func (s *Seeder) ClearAll(ctx context.Context) error {
	all := database.PersistentModels()
	tx := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true})
	for i := len(all) - 1; i >= 0; i-- {
		if err := tx.Delete(all[i]).Error; err != nil {
			return fmt.Errorf("clear %T: %w", all[i], err)
		}
	}
	middleware.Logger.InfoContext(ctx, "cleared seeded tables", slog.Int("tables", len(all)))
	return nil
}

// Run seeds the fixture followed by generated accounts and their activity.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	if !s.opts.SkipFixture {
		fx, err := s.fixture()
		if err != nil {
			return nil, err
		}
		if err := s.applyFixture(ctx, fx); err != nil {
			return nil, fmt.Errorf("apply fixture: %w", err)
		}
	}

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"accounts", s.seedAccounts},
		{"friendships", s.seedFriendships},
		{"interactions", s.seedInteractions},
		{"messages", s.seedMessages},
		{"cookbooks", s.seedCookbooks},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return nil, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	if err := s.countRelations(ctx); err != nil {
		return nil, err
	}

	sum := s.summary
	middleware.Logger.InfoContext(ctx, "seeding complete",
		slog.Int("accounts", sum.Accounts),
		slog.Int("recipes", sum.Recipes),
		slog.Int("friendships", sum.Friendships),
		slog.Int("pending_requests", sum.PendingRequests),
		slog.Int("likes", sum.Likes),
		slog.Int("comments", sum.Comments),
		slog.Int("messages", sum.Messages),
		slog.Int("cookbooks", sum.Cookbooks),
	)
	return &sum, nil
}

// countRelations reads friendship totals back, since crossing requests
// accept each other.
func (s *Seeder) countRelations(ctx context.Context) error {
	var edges, pending int64
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.FriendEdge{}).Count(&edges).Error; err != nil {
		return err
	}
	if err := db.Model(&models.FriendRequest{}).Where("status = ?", models.FriendRequestStatusPending).Count(&pending).Error; err != nil {
		return err
	}
	s.summary.Friendships = int(edges / 2)
	s.summary.PendingRequests = int(pending)
	return nil
}

func (s *Seeder) fixture() (*Fixture, error) {
	if s.opts.FixturePath != "" {
		return LoadFixture(s.opts.FixturePath)
	}
	return DefaultFixture()
}

func (s *Seeder) register(ctx context.Context, in service.RegisterInput) (seededAccount, error) {
	account, err := s.accounts.Register(ctx, in)
	if err != nil {
		return seededAccount{}, fmt.Errorf("register %q: %w", in.Username, err)
	}
	a := seededAccount{accountID: account.ID, profileID: account.Profile.ID, username: account.Username}
	s.seeded = append(s.seeded, a)
	s.byUsername[a.username] = a
	s.summary.Accounts++
	return a, nil
}

func (s *Seeder) createRecipe(ctx context.Context, owner seededAccount, in service.RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipes.Create(ctx, owner.profileID, in)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", in.Title, err)
	}
	s.recipeByTitle[recipe.Title] = recipe.ID
	if recipe.IsPublic {
		s.publicRecipes = append(s.publicRecipes, recipe.ID)
	}
	s.summary.Recipes++
	return recipe, nil
}

func (s *Seeder) befriend(ctx context.Context, a, b seededAccount) error {
	res, err := s.friends.SendFriendRequest(ctx, a.profileID, b.profileID)
	if err != nil {
		// already friends or already pending
		if models.HasCode(err, models.CodeInvalidOperation) {
			return nil
		}
		return err
	}
	if !res.Accepted {
		if err := s.friends.AcceptFriendRequest(ctx, b.profileID, a.profileID); err != nil {
			return err
		}
	}
	s.friendPairs = append(s.friendPairs, [2]seededAccount{a, b})
	return nil
}

func (s *Seeder) applyFixture(ctx context.Context, fx *Fixture) error {
	for _, fa := range fx.Accounts {
		password := fa.Password
		if password == "" {
			password = demoPassword
		}
		a, err := s.register(ctx, service.RegisterInput{
			Username:  fa.Username,
			Password:  password,
			FirstName: fa.FirstName,
			LastName:  fa.LastName,
		})
		if err != nil {
			return err
		}
		bio := fa.Bio
		if _, err := s.profiles.UpdateProfile(ctx, a.profileID, service.ProfilePatch{
			Bio:          &bio,
			Intolerances: fa.Intolerances,
		}); err != nil {
			return err
		}
		if fa.Admin {
			if err := s.db.WithContext(ctx).Model(&models.Account{}).
				Where("id = ?", a.accountID).Update("is_admin", true).Error; err != nil {
				return err
			}
		}
		for _, fr := range fa.Recipes {
			public := !fr.Private
			if _, err := s.createRecipe(ctx, a, service.RecipeInput{
				Title:        fr.Title,
				Image:        fr.Image,
				Instructions: fr.Instructions,
				Ingredients:  fr.Ingredients,
				IsPublic:     &public,
			}); err != nil {
				return err
			}
		}
	}

	for _, pair := range fx.Friendships {
		if err := s.befriend(ctx, s.byUsername[pair[0]], s.byUsername[pair[1]]); err != nil {
			return err
		}
	}

	for _, fc := range fx.Cookbooks {
		owner := s.byUsername[fc.Owner]
		cb, err := s.cookbooks.Create(ctx, owner.accountID, fc.Title, fc.Public)
		if err != nil {
			return err
		}
		s.summary.Cookbooks++
		for _, title := range fc.Recipes {
			if _, err := s.cookbooks.AddRecipe(ctx, cb.ID, owner.accountID, owner.profileID, s.recipeByTitle[title]); err != nil {
				return fmt.Errorf("cookbook %q recipe %q: %w", fc.Title, title, err)
			}
		}
		for _, name := range fc.Collaborators {
			collaborator := s.byUsername[name]
			if _, err := s.cookbooks.InviteCollaborator(ctx, cb.ID, owner.accountID, collaborator.accountID); err != nil {
				return err
			}
			if _, err := s.cookbooks.AcceptShare(ctx, cb.ID, collaborator.accountID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedAccounts(ctx context.Context) error {
	for i := 0; i < s.opts.NumAccounts; i++ {
		a, err := s.register(ctx, s.factory.Account(i))
		if err != nil {
			return err
		}
		bio := s.factory.Bio()
		if _, err := s.profiles.UpdateProfile(ctx, a.profileID, service.ProfilePatch{
			Bio:          &bio,
			Intolerances: s.factory.Intolerances(),
		}); err != nil {
			return err
		}
		for j := 0; j < s.opts.RecipesPerAccount; j++ {
			if _, err := s.createRecipe(ctx, a, s.factory.Recipe()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedFriendships(ctx context.Context) error {
	n := len(s.seeded)
	if n < 2 {
		return nil
	}
	for i, a := range s.seeded {
		for k := 0; k < s.opts.FriendsPerAccount; k++ {
			j := s.factory.Pick(n)
			if j == i {
				continue
			}
			b := s.seeded[j]
			if !s.factory.Chance(friendAcceptRate) {
				if _, err := s.friends.SendFriendRequest(ctx, a.profileID, b.profileID); err != nil &&
					!models.HasCode(err, models.CodeInvalidOperation) {
					return err
				}
				continue
			}
			if err := s.befriend(ctx, a, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) seedInteractions(ctx context.Context) error {
	if len(s.publicRecipes) == 0 {
		return nil
	}
	for _, a := range s.seeded {
		liked := make(map[uint]struct{}, s.opts.LikesPerAccount)
		for k := 0; k < s.opts.LikesPerAccount; k++ {
			recipeID := s.publicRecipes[s.factory.Pick(len(s.publicRecipes))]
			if _, done := liked[recipeID]; done {
				continue
			}
			liked[recipeID] = struct{}{}
			if _, err := s.interactions.ToggleLike(ctx, recipeID, a.profileID); err != nil {
				return err
			}
			s.summary.Likes++
		}
	}

	for _, recipeID := range s.publicRecipes {
		for k := 0; k < s.opts.CommentsPerRecipe; k++ {
			author := s.seeded[s.factory.Pick(len(s.seeded))]
			if _, err := s.interactions.AddComment(ctx, recipeID, author.profileID, author.username, s.factory.Comment()); err != nil {
				return err
			}
			s.summary.Comments++
		}
	}
	return nil
}

func (s *Seeder) seedMessages(ctx context.Context) error {
	for _, pair := range s.friendPairs {
		for k := 0; k < s.opts.MessagesPerFriend; k++ {
			from, to := pair[0], pair[1]
			if k%2 == 1 {
				from, to = to, from
			}
			if _, err := s.messages.Send(ctx, from.profileID, to.profileID, s.factory.Message()); err != nil {
				return err
			}
			s.summary.Messages++
		}
	}
	return nil
}

// seedCookbooks gives each generated account one cookbook of its public recipes.
func (s *Seeder) seedCookbooks(ctx context.Context) error {
	if s.opts.RecipesPerAccount == 0 {
		return nil
	}
	generated := s.seeded[len(s.seeded)-s.opts.NumAccounts:]
	for _, a := range generated {
		owned, err := s.recipes.ListByOwner(ctx, a.profileID)
		if err != nil {
			return err
		}
		cb, err := s.cookbooks.Create(ctx, a.accountID, s.factory.CookbookTitle(), s.factory.Bool())
		if err != nil {
			return err
		}
		s.summary.Cookbooks++
		for _, r := range owned {
			if _, err := s.cookbooks.AddRecipe(ctx, cb.ID, a.accountID, a.profileID, r.ID); err != nil {
				return err
			}
		}
	}
	return nil
}
