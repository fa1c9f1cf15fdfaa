package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/indrikh/siteCloneWithAi/internal/core/domain"
)

func TestHTTPErrorHandler_Mapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", domain.Validationf("password must be at least 8 characters"), http.StatusBadRequest, "password must be at least 8 characters"},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{"username taken", domain.ErrUsernameTaken, http.StatusConflict, "Username already taken"},
		{"bad credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"bad token", domain.ErrUnauthorized, http.StatusUnauthorized, "Invalid or expired token"},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"content missing", domain.ErrContentNotFound, http.StatusNotFound, "Content section not found"},
		{"gateway", fmt.Errorf("%w: upstream 503", domain.ErrGateway), http.StatusInternalServerError, "Error processing your request"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "No token provided"), http.StatusUnauthorized, "No token provided"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(zerolog.Nop(), false)(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["success"] != false || body["message"] != tc.message {
				t.Fatalf("unexpected body: %v", body)
			}
			if _, ok := body["error"]; ok {
				t.Fatalf("error detail must be hidden outside debug")
			}
		})
	}
}

func TestHTTPErrorHandler_DebugDetail(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), true)(errors.New("redis: connection refused"), c)

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "redis: connection refused" {
		t.Fatalf("expected error detail, got %v", body)
	}
}
