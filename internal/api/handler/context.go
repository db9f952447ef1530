package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/synapsecare/health-risk-api/internal/api/middleware"
	"github.com/synapsecare/health-risk-api/internal/core/domain"
)

// MsgNoData is returned for a missing or unparsable JSON body.
const MsgNoData = "No data provided"

// sessionToken returns the session token resolved by the Session middleware,
// or "" for anonymous callers.
func sessionToken(c echo.Context) string {
	return middleware.SessionToken(c)
}

// bindJSON decodes the request body into req and applies its validate tags.
// An empty or malformed body is reported as 400 "No data provided".
func bindJSON(c echo.Context, req any) error {
	if c.Request().ContentLength == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, MsgNoData)
	}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, MsgNoData)
	}
	if err := c.Validate(req); err != nil {
		return domain.NewValidationError(err.Error())
	}
	return nil
}
