package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/core/domain"
	"github.com/todoapp/todo-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	LoginName   string `json:"loginName"   validate:"required,max=256"`
	Secret      string `json:"secret"      validate:"required,min=6,max=72"`
	FirstName   string `json:"firstName"   validate:"max=100"`
	LastName    string `json:"lastName"    validate:"max=100"`
	Address     string `json:"address"     validate:"max=256"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
}

type loginRequest struct {
	LoginName string `json:"loginName" validate:"required"`
	Secret    string `json:"secret"    validate:"required"`
}

type accountResponse struct {
	ID          string    `json:"id"`
	LoginName   string    `json:"loginName"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	Address     string    `json:"address"`
	PhoneNumber string    `json:"phoneNumber"`
	CreatedAt   time.Time `json:"createdAt"`
}

type registerResponse struct {
	Message string          `json:"message"`
	User    accountResponse `json:"user"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func toAccountResponse(a *domain.Account) accountResponse {
	return accountResponse{
		ID:          a.ID,
		LoginName:   a.LoginName,
		FirstName:   a.Profile.FirstName,
		LastName:    a.Profile.LastName,
		Address:     a.Profile.Address,
		PhoneNumber: a.Profile.PhoneNumber,
		CreatedAt:   a.CreatedAt.UTC(),
	}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      200   {object}  registerResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		LoginName: req.LoginName,
		Secret:    req.Secret,
		Profile: domain.Profile{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Address:     req.Address,
			PhoneNumber: req.PhoneNumber,
		},
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, registerResponse{
		Message: "account registered successfully",
		User:    toAccountResponse(account),
	})
}

// Login verifies credentials and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	issued, _, err := h.authService.Authenticate(c.Request().Context(), req.LoginName, req.Secret)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: issued.Token, ExpiresAt: issued.ExpiresAt.UTC()})
}
