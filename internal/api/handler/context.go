package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/api/middleware"
	"github.com/todoapp/todo-api/internal/core/domain"
)

// callerID returns the verified account ID put in context by the Auth
// middleware. Its absence means the route was wired without Auth: reject
// with 401 rather than run an unscoped query.
func callerID(c echo.Context) (string, error) {
	claims, ok := middleware.CallerClaims(c)
	if !ok || claims.Subject == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims.Subject, nil
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id must be a positive integer")
	}
	return id, nil
}

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}
