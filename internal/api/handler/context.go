package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxRole extracts the operator role injected by the Auth middleware and
// fast-fails before any service call: a missing role means the middleware
// never ran or the token carried no identity.
func ctxRole(c echo.Context) (string, error) {
	role, _ := c.Get("role").(string)
	if role == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return role, nil
}
