// Package middleware provides authentication, logging, metrics, and rate limiting middleware.
package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"whiskaway/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenIssuer   = "whiskaway-api"
	TokenAudience = "whiskaway-client"
	TokenTTL      = 7 * 24 * time.Hour
)

// Fiber locals populated by JWTAuth.
const (
	LocalAccountID = "accountID"
	LocalProfileID = "profileID"
	LocalUsername  = "username"
	LocalTokenJTI  = "tokenJTI"
	LocalTokenExp  = "tokenExp"
)

// Identity is the authenticated principal carried by an access token.
type Identity struct {
	AccountID uint
	ProfileID uint
	Username  string
	JTI       string
	ExpiresAt time.Time
}

// RevocationChecker reports whether the token with the given jti was revoked.
type RevocationChecker func(ctx context.Context, jti string) bool

// IssueToken signs an HS256 access token for id.
func IssueToken(secret string, id Identity, now time.Time) (string, error) {
	if secret == "" {
		return "", errors.New("JWT secret not configured")
	}

	claims := jwt.MapClaims{
		"sub":      strconv.FormatUint(uint64(id.AccountID), 10),
		"pid":      strconv.FormatUint(uint64(id.ProfileID), 10),
		"username": id.Username,
		"iss":      TokenIssuer,
		"aud":      TokenAudience,
		"exp":      now.Add(TokenTTL).Unix(),
		"iat":      now.Unix(),
		"nbf":      now.Unix(),
		"jti":      fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8]),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken validates tokenString and extracts the identity it carries.
func ParseToken(secret, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secret), nil
	},
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}

	accountID, err := uintClaim(claims, "sub")
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}
	profileID, err := uintClaim(claims, "pid")
	if err != nil {
		return nil, models.NewUnauthorizedError("Invalid profile claim")
	}

	id := &Identity{AccountID: accountID, ProfileID: profileID}
	id.Username, _ = claims["username"].(string)
	id.JTI, _ = claims["jti"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		id.ExpiresAt = exp.Time
	}
	return id, nil
}

func uintClaim(claims jwt.MapClaims, name string) (uint, error) {
	raw, ok := claims[name].(string)
	if !ok {
		return 0, fmt.Errorf("claim %s missing", name)
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("claim %s invalid", name)
	}
	return uint(v), nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.Split(c.Get("Authorization"), " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// JWTAuth enforces a valid access token and stores the identity in locals and
// the request context. revoked may be nil.
func JWTAuth(secret string, revoked RevocationChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get("Authorization") == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization header required"))
		}
		tokenString := BearerToken(c)
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Invalid authorization header format"))
		}

		id, err := ParseToken(secret, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		if id.JTI != "" && revoked != nil && revoked(c.Context(), id.JTI) {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Token has been revoked"))
		}

		c.Locals(LocalAccountID, id.AccountID)
		c.Locals(LocalProfileID, id.ProfileID)
		c.Locals(LocalUsername, id.Username)
		c.Locals(LocalTokenJTI, id.JTI)
		c.Locals(LocalTokenExp, id.ExpiresAt)

		ctx := context.WithValue(c.UserContext(), AccountIDKey, id.AccountID)
		ctx = context.WithValue(ctx, ProfileIDKey, id.ProfileID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
