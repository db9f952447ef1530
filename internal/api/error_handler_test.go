package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

func TestHTTPErrorHandler_StatusTable(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", domain.NewValidationError("Passwords do not match"), http.StatusBadRequest, "Passwords do not match"},
		{"duplicate", domain.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
		{"wrapped duplicate", fmt.Errorf("create: %w", domain.ErrDuplicateEmail), http.StatusBadRequest, "Email already registered"},
		{"credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{"deactivated", domain.ErrDeactivated, http.StatusUnauthorized, "Account is deactivated"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{"not found", domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"no valid fields", domain.ErrNoValidFields, http.StatusBadRequest, "No valid fields to update"},
		{"no fields", domain.ErrNoFieldsToUpdate, http.StatusBadRequest, "No valid fields to update"},
		{"storage", domain.NewStorageError("insert user", errors.New("connection reset")), http.StatusInternalServerError, "Database error: connection reset"},
		{"echo", echo.NewHTTPError(http.StatusBadRequest, "No data provided"), http.StatusBadRequest, "No data provided"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal server error"},
	}

	handler := NewHTTPErrorHandler(zerolog.New(io.Discard))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodPost, "/auth/login", nil), rec)

			handler(tt.err, c)

			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if resp.Success || resp.Message != tt.message {
				t.Fatalf("unexpected envelope: %+v", resp)
			}
		})
	}
}

func TestHTTPErrorHandler_CommittedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.New(io.Discard))(errors.New("late"), c)

	if rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %q", rec.Body.String())
	}
}
