package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"whiskaway/internal/cache"
	"whiskaway/internal/config"
	"whiskaway/internal/database"
	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-hs256"

type testEnv struct {
	t   *testing.T
	db  *gorm.DB
	srv *Server
	app *fiber.App
}

// testUser is a registered account with its token.
type testUser struct {
	Token     string
	AccountID uint
	ProfileID uint
	Username  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithRedis(t, nil)
}

// newTestEnvWithRedis also installs rdb as the shared cache client when it is not nil.
func newTestEnvWithRedis(t *testing.T, rdb *redis.Client) *testEnv {
	t.Helper()
	db, err := database.OpenSQLite("")
	require.NoError(t, err)

	if rdb != nil {
		cache.SetClient(rdb)
		t.Cleanup(func() { cache.SetClient(nil) })
	}

	cfg := &config.Config{JWTSecret: testJWTSecret, Env: "test", Port: "0"}
	srv, err := NewServerWithDeps(cfg, db, rdb)
	require.NoError(t, err)
	srv.accountService.SetPasswordCost(bcrypt.MinCost)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return &testEnv{t: t, db: db, srv: srv, app: srv.NewApp()}
}

func (e *testEnv) do(method, path, token string, body any) *http.Response {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(e.t, err)
	e.t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// expect performs the request, asserts the status and decodes the body into out when given.
func (e *testEnv) expect(status int, method, path, token string, body, out any) {
	e.t.Helper()
	resp := e.do(method, path, token, body)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(e.t, err)
	require.Equalf(e.t, status, resp.StatusCode, "%s %s: %s", method, path, raw)
	if out != nil {
		require.NoError(e.t, json.Unmarshal(raw, out))
	}
}

func (e *testEnv) register(username string) testUser {
	e.t.Helper()
	var res AuthResponse
	e.expect(http.StatusCreated, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"username":   username,
		"password":   "pa55word-" + username,
		"first_name": username,
	}, &res)
	require.NotNil(e.t, res.Account)
	require.NotNil(e.t, res.Account.Profile)
	return testUser{
		Token:     res.Token,
		AccountID: res.Account.ID,
		ProfileID: res.Account.Profile.ID,
		Username:  username,
	}
}

func (e *testEnv) makeAdmin(u testUser) {
	e.t.Helper()
	require.NoError(e.t, e.db.Model(&models.Account{}).Where("id = ?", u.AccountID).Update("is_admin", true).Error)
}

func (e *testEnv) befriend(a, b testUser) {
	e.t.Helper()
	e.expect(http.StatusCreated, http.MethodPost, "/api/friend-request", a.Token, fiber.Map{"toProfileId": b.ProfileID}, nil)
	e.expect(http.StatusOK, http.MethodPost, "/api/friend-request/accept", b.Token, fiber.Map{
		"currentUserId": b.ProfileID,
		"requesterId":   a.ProfileID,
	}, nil)
}

func (e *testEnv) createRecipe(u testUser, title string, public bool) models.Recipe {
	e.t.Helper()
	var recipe models.Recipe
	e.expect(http.StatusCreated, http.MethodPost, "/api/recipes", u.Token, fiber.Map{
		"title":       title,
		"ingredients": []string{"eggs", "flour"},
		"is_public":   public,
	}, &recipe)
	return recipe
}

func (e *testEnv) notifications(u testUser) []models.Notification {
	e.t.Helper()
	var list []models.Notification
	e.expect(http.StatusOK, http.MethodGet, fmt.Sprintf("/api/notifications/%d", u.ProfileID), u.Token, nil, &list)
	return list
}
