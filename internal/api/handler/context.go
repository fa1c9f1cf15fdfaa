package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxToken returns the bearer token injected by the BearerToken middleware.
// An empty value means the route was mounted without it.
func ctxToken(c echo.Context) (string, error) {
	token, _ := c.Get("token").(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "No token provided")
	}
	return token, nil
}
