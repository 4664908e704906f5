package server

import (
	"log/slog"
	"time"

	"whiskaway/internal/cache"
	"whiskaway/internal/middleware"
	"whiskaway/internal/models"
	"whiskaway/internal/service"

	"github.com/gofiber/fiber/v2"
)

type registerRequest struct {
	Username  string `json:"username" validate:"required,username"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token   string          `json:"token"`
	Account *models.Account `json:"account"`
}

func (s *Server) issueFor(account *models.Account) (string, error) {
	id := middleware.Identity{AccountID: account.ID, Username: account.Username}
	if account.Profile != nil {
		id.ProfileID = account.Profile.ID
	}
	return middleware.IssueToken(s.config.JWTSecret, id, time.Now())
}

// Register handles POST /api/auth/register
// @Summary Register
// @Description Create an account and its profile
// @Tags auth
// @Accept json
// @Produce json
// @Param request body registerRequest true "Registration"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /auth/register [post]
func (s *Server) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	account, err := s.accountService.Register(c.UserContext(), service.RegisterInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.issueFor(account)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	return c.Status(fiber.StatusCreated).JSON(AuthResponse{Token: token, Account: account})
}

// Login handles POST /api/auth/login
// @Summary Login
// @Description Authenticate and return a JWT
// @Tags auth
// @Accept json
// @Produce json
// @Param request body loginRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := s.parseBody(c, &req); err != nil {
		return nil
	}

	account, err := s.accountService.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	token, err := s.issueFor(account)
	if err != nil {
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	return c.JSON(AuthResponse{Token: token, Account: account})
}

// Logout handles POST /api/auth/logout
// @Summary Logout
// @Description Revoke the current token
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	jti, _ := c.Locals(middleware.LocalTokenJTI).(string)
	exp, _ := c.Locals(middleware.LocalTokenExp).(time.Time)

	if err := cache.Revoke(c.UserContext(), jti, time.Until(exp)); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to revoke token",
			slog.String("error", err.Error()))
		return models.RespondWithAppError(c, models.NewInternalError(err))
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
