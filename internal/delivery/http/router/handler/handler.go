// Package handler contains the HTTP handlers for the application.
package handler

import (
	"net/http"
	"strconv"

	deliverycontext "kalaghar/internal/delivery/context"
	"kalaghar/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports process liveness.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// caller builds the usecase caller identity from the request context.
func caller(c echo.Context) usecase.Caller {
	return usecase.Caller{
		UserID: deliverycontext.GetCallerID(c),
		Role:   deliverycontext.GetCallerRole(c),
	}
}

// pagination reads limit/offset query parameters with sane defaults.
func pagination(c echo.Context) (limit, offset int) {
	limit = 20
	if raw := c.QueryParam("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if raw := c.QueryParam("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	return limit, offset
}
