package service

import (
	"context"
	"errors"
	"testing"

	"whiskaway/internal/models"
)

type profileRepoStub struct {
	getByIDFn        func(context.Context, uint) (*models.Profile, error)
	getByAccountIDFn func(context.Context, uint) (*models.Profile, error)
	updateFn         func(context.Context, *models.Profile) error
	existsFn         func(context.Context, uint) (bool, error)
}

func (s *profileRepoStub) GetByID(ctx context.Context, id uint) (*models.Profile, error) {
	return s.getByIDFn(ctx, id)
}
func (s *profileRepoStub) GetByAccountID(ctx context.Context, accountID uint) (*models.Profile, error) {
	return s.getByAccountIDFn(ctx, accountID)
}
func (s *profileRepoStub) Update(ctx context.Context, profile *models.Profile) error {
	return s.updateFn(ctx, profile)
}
func (s *profileRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}

func noopProfileRepo() *profileRepoStub {
	return &profileRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Profile, error) { return &models.Profile{ID: id}, nil },
		getByAccountIDFn: func(_ context.Context, accountID uint) (*models.Profile, error) {
			return &models.Profile{ID: accountID + 100, AccountID: accountID}, nil
		},
		updateFn: func(context.Context, *models.Profile) error { return nil },
		existsFn: func(context.Context, uint) (bool, error) { return true, nil },
	}
}

type friendRepoStub struct {
	createRequestFn    func(context.Context, *models.FriendRequest) error
	getRequestFn       func(context.Context, uint, uint) (*models.FriendRequest, error)
	listIncomingFn     func(context.Context, uint) ([]models.FriendRequest, error)
	listOutgoingFn     func(context.Context, uint) ([]models.FriendRequest, error)
	deleteRequestFn    func(context.Context, uint, uint) error
	acceptFn           func(context.Context, uint, uint) error
	areFriendsFn       func(context.Context, uint, uint) (bool, error)
	listFriendsFn      func(context.Context, uint) ([]models.Profile, error)
	removeFriendshipFn func(context.Context, uint, uint) error
}

func (s *friendRepoStub) CreateRequest(ctx context.Context, req *models.FriendRequest) error {
	return s.createRequestFn(ctx, req)
}
func (s *friendRepoStub) GetRequest(ctx context.Context, fromID, toID uint) (*models.FriendRequest, error) {
	return s.getRequestFn(ctx, fromID, toID)
}
func (s *friendRepoStub) ListIncoming(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	return s.listIncomingFn(ctx, profileID)
}
func (s *friendRepoStub) ListOutgoing(ctx context.Context, profileID uint) ([]models.FriendRequest, error) {
	return s.listOutgoingFn(ctx, profileID)
}
func (s *friendRepoStub) DeleteRequest(ctx context.Context, fromID, toID uint) error {
	return s.deleteRequestFn(ctx, fromID, toID)
}
func (s *friendRepoStub) Accept(ctx context.Context, fromID, toID uint) error {
	return s.acceptFn(ctx, fromID, toID)
}
func (s *friendRepoStub) AreFriends(ctx context.Context, a, b uint) (bool, error) {
	return s.areFriendsFn(ctx, a, b)
}
func (s *friendRepoStub) ListFriends(ctx context.Context, profileID uint) ([]models.Profile, error) {
	return s.listFriendsFn(ctx, profileID)
}
func (s *friendRepoStub) RemoveFriendship(ctx context.Context, a, b uint) error {
	return s.removeFriendshipFn(ctx, a, b)
}

func noopFriendRepo() *friendRepoStub {
	return &friendRepoStub{
		createRequestFn:    func(context.Context, *models.FriendRequest) error { return nil },
		getRequestFn:       func(context.Context, uint, uint) (*models.FriendRequest, error) { return nil, nil },
		listIncomingFn:     func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		listOutgoingFn:     func(context.Context, uint) ([]models.FriendRequest, error) { return nil, nil },
		deleteRequestFn:    func(context.Context, uint, uint) error { return nil },
		acceptFn:           func(context.Context, uint, uint) error { return nil },
		areFriendsFn:       func(context.Context, uint, uint) (bool, error) { return false, nil },
		listFriendsFn:      func(context.Context, uint) ([]models.Profile, error) { return nil, nil },
		removeFriendshipFn: func(context.Context, uint, uint) error { return nil },
	}
}

type accountRepoStub struct {
	createFn        func(context.Context, *models.Account, *models.Profile) error
	getByIDFn       func(context.Context, uint) (*models.Account, error)
	getByUsernameFn func(context.Context, string) (*models.Account, error)
	deleteFn        func(context.Context, uint) error
}

func (s *accountRepoStub) Create(ctx context.Context, account *models.Account, profile *models.Profile) error {
	return s.createFn(ctx, account, profile)
}
func (s *accountRepoStub) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	return s.getByIDFn(ctx, id)
}
func (s *accountRepoStub) GetByUsername(ctx context.Context, username string) (*models.Account, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *accountRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopAccountRepo() *accountRepoStub {
	return &accountRepoStub{
		createFn: func(context.Context, *models.Account, *models.Profile) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Account, error) {
			return &models.Account{ID: id, Profile: &models.Profile{ID: id + 100, AccountID: id}}, nil
		},
		getByUsernameFn: func(context.Context, string) (*models.Account, error) {
			return nil, models.NewNotFoundError("Account", 0)
		},
		deleteFn: func(context.Context, uint) error { return nil },
	}
}

type recipeRepoStub struct {
	createFn              func(context.Context, *models.Recipe) error
	getByIDFn             func(context.Context, uint) (*models.Recipe, error)
	getOrCreateExternalFn func(context.Context, *models.Recipe) (*models.Recipe, error)
	listPublicFn          func(context.Context, int, int) ([]models.Recipe, error)
	listByOwnerFn         func(context.Context, uint) ([]models.Recipe, error)
	updateFn              func(context.Context, *models.Recipe) error
	deleteFn              func(context.Context, uint) error
}

func (s *recipeRepoStub) Create(ctx context.Context, recipe *models.Recipe) error {
	return s.createFn(ctx, recipe)
}
func (s *recipeRepoStub) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	return s.getByIDFn(ctx, id)
}
func (s *recipeRepoStub) GetOrCreateExternal(ctx context.Context, recipe *models.Recipe) (*models.Recipe, error) {
	return s.getOrCreateExternalFn(ctx, recipe)
}
func (s *recipeRepoStub) ListPublic(ctx context.Context, limit, offset int) ([]models.Recipe, error) {
	return s.listPublicFn(ctx, limit, offset)
}
func (s *recipeRepoStub) ListByOwner(ctx context.Context, profileID uint) ([]models.Recipe, error) {
	return s.listByOwnerFn(ctx, profileID)
}
func (s *recipeRepoStub) Update(ctx context.Context, recipe *models.Recipe) error {
	return s.updateFn(ctx, recipe)
}
func (s *recipeRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// recipeOwnedBy returns a stub whose GetByID yields a recipe of owner.
func recipeOwnedBy(owner uint, public bool) *recipeRepoStub {
	return &recipeRepoStub{
		createFn: func(context.Context, *models.Recipe) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Recipe, error) {
			o := owner
			return &models.Recipe{ID: id, Title: "Dal", OwnerProfileID: &o, IsPublic: public}, nil
		},
		getOrCreateExternalFn: func(_ context.Context, r *models.Recipe) (*models.Recipe, error) { return r, nil },
		listPublicFn:          func(context.Context, int, int) ([]models.Recipe, error) { return nil, nil },
		listByOwnerFn:         func(context.Context, uint) ([]models.Recipe, error) { return nil, nil },
		updateFn:              func(context.Context, *models.Recipe) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
	}
}

type likeRepoStub struct {
	toggleFn         func(context.Context, uint, uint) (models.LikeState, bool, error)
	countByRecipeFn  func(context.Context, uint) (int64, error)
	countByRecipesFn func(context.Context, []uint) (map[uint]int64, error)
	isLikedFn        func(context.Context, uint, uint) (bool, error)
	likedRecipeIDsFn func(context.Context, uint, []uint) (map[uint]bool, error)
}

func (s *likeRepoStub) Toggle(ctx context.Context, recipeID, profileID uint) (models.LikeState, bool, error) {
	return s.toggleFn(ctx, recipeID, profileID)
}
func (s *likeRepoStub) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	return s.countByRecipeFn(ctx, recipeID)
}
func (s *likeRepoStub) CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error) {
	return s.countByRecipesFn(ctx, recipeIDs)
}
func (s *likeRepoStub) IsLiked(ctx context.Context, recipeID, profileID uint) (bool, error) {
	return s.isLikedFn(ctx, recipeID, profileID)
}
func (s *likeRepoStub) LikedRecipeIDs(ctx context.Context, profileID uint, recipeIDs []uint) (map[uint]bool, error) {
	return s.likedRecipeIDsFn(ctx, profileID, recipeIDs)
}

func noopLikeRepo() *likeRepoStub {
	return &likeRepoStub{
		toggleFn: func(_ context.Context, recipeID, _ uint) (models.LikeState, bool, error) {
			return models.LikeState{RecipeID: recipeID, Liked: true, Count: 1}, true, nil
		},
		countByRecipeFn:  func(context.Context, uint) (int64, error) { return 0, nil },
		countByRecipesFn: func(context.Context, []uint) (map[uint]int64, error) { return map[uint]int64{}, nil },
		isLikedFn:        func(context.Context, uint, uint) (bool, error) { return false, nil },
		likedRecipeIDsFn: func(context.Context, uint, []uint) (map[uint]bool, error) { return map[uint]bool{}, nil },
	}
}

type commentRepoStub struct {
	createFn         func(context.Context, *models.Comment) error
	listByRecipeFn   func(context.Context, uint, int, int) ([]models.Comment, error)
	countByRecipeFn  func(context.Context, uint) (int64, error)
	countByRecipesFn func(context.Context, []uint) (map[uint]int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByRecipe(ctx context.Context, recipeID uint, limit, offset int) ([]models.Comment, error) {
	return s.listByRecipeFn(ctx, recipeID, limit, offset)
}
func (s *commentRepoStub) CountByRecipe(ctx context.Context, recipeID uint) (int64, error) {
	return s.countByRecipeFn(ctx, recipeID)
}
func (s *commentRepoStub) CountByRecipes(ctx context.Context, recipeIDs []uint) (map[uint]int64, error) {
	return s.countByRecipesFn(ctx, recipeIDs)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, c *models.Comment) error {
			c.ID = 77
			return nil
		},
		listByRecipeFn:   func(context.Context, uint, int, int) ([]models.Comment, error) { return nil, nil },
		countByRecipeFn:  func(context.Context, uint) (int64, error) { return 0, nil },
		countByRecipesFn: func(context.Context, []uint) (map[uint]int64, error) { return map[uint]int64{}, nil },
	}
}

type messageRepoStub struct {
	createFn      func(context.Context, *models.Message) error
	listBetweenFn func(context.Context, uint, uint) ([]models.Message, error)
	latestWithFn  func(context.Context, uint, []uint) (map[uint]models.Message, error)
}

func (s *messageRepoStub) Create(ctx context.Context, msg *models.Message) error {
	return s.createFn(ctx, msg)
}
func (s *messageRepoStub) ListBetween(ctx context.Context, a, b uint) ([]models.Message, error) {
	return s.listBetweenFn(ctx, a, b)
}
func (s *messageRepoStub) LatestWith(ctx context.Context, profileID uint, counterparts []uint) (map[uint]models.Message, error) {
	return s.latestWithFn(ctx, profileID, counterparts)
}

func noopMessageRepo() *messageRepoStub {
	return &messageRepoStub{
		createFn:      func(context.Context, *models.Message) error { return nil },
		listBetweenFn: func(context.Context, uint, uint) ([]models.Message, error) { return nil, nil },
		latestWithFn: func(context.Context, uint, []uint) (map[uint]models.Message, error) {
			return map[uint]models.Message{}, nil
		},
	}
}

type notificationRepoStub struct {
	createFn           func(context.Context, *models.Notification) error
	getByIDFn          func(context.Context, uint) (*models.Notification, error)
	listForRecipientFn func(context.Context, uint, int, int) ([]models.Notification, error)
	markReadFn         func(context.Context, uint) (bool, error)
	markAllReadFn      func(context.Context, uint) (int64, error)
	countUnreadFn      func(context.Context, uint) (int64, error)
	purgeProfileFn     func(context.Context, uint) error
}

func (s *notificationRepoStub) Create(ctx context.Context, n *models.Notification) error {
	return s.createFn(ctx, n)
}
func (s *notificationRepoStub) GetByID(ctx context.Context, id uint) (*models.Notification, error) {
	return s.getByIDFn(ctx, id)
}
func (s *notificationRepoStub) ListForRecipient(ctx context.Context, profileID uint, limit, offset int) ([]models.Notification, error) {
	return s.listForRecipientFn(ctx, profileID, limit, offset)
}
func (s *notificationRepoStub) MarkRead(ctx context.Context, id uint) (bool, error) {
	return s.markReadFn(ctx, id)
}
func (s *notificationRepoStub) MarkAllRead(ctx context.Context, profileID uint) (int64, error) {
	return s.markAllReadFn(ctx, profileID)
}
func (s *notificationRepoStub) CountUnread(ctx context.Context, profileID uint) (int64, error) {
	return s.countUnreadFn(ctx, profileID)
}
func (s *notificationRepoStub) PurgeProfile(ctx context.Context, profileID uint) error {
	return s.purgeProfileFn(ctx, profileID)
}

func noopNotificationRepo() *notificationRepoStub {
	return &notificationRepoStub{
		createFn: func(_ context.Context, n *models.Notification) error {
			n.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Notification, error) {
			return &models.Notification{ID: id}, nil
		},
		listForRecipientFn: func(context.Context, uint, int, int) ([]models.Notification, error) { return nil, nil },
		markReadFn:         func(context.Context, uint) (bool, error) { return true, nil },
		markAllReadFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		countUnreadFn:      func(context.Context, uint) (int64, error) { return 0, nil },
		purgeProfileFn:     func(context.Context, uint) error { return nil },
	}
}

type emitted struct {
	typ  models.NotificationType
	from *uint
	to   uint
	data models.NotificationData
}

// recordingEmitter captures emitted notifications instead of storing them.
type recordingEmitter struct {
	calls []emitted
	err   error
}

func (e *recordingEmitter) Emit(_ context.Context, typ models.NotificationType, from *uint, to uint, data models.NotificationData) (*models.Notification, error) {
	e.calls = append(e.calls, emitted{typ: typ, from: from, to: to, data: data})
	if e.err != nil {
		return nil, e.err
	}
	return &models.Notification{Type: typ, ToProfileID: to}, nil
}

func assertAppCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", code)
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != code {
		t.Fatalf("expected %s app error, got %#v", code, err)
	}
}
