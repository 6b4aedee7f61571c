package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/huangsam/repopulse/internal/contract"
	"github.com/huangsam/repopulse/schema"
)

// statusFor maps the error taxonomy to an HTTP status.
func statusFor(err error) int {
	var upstream *contract.UpstreamError
	switch {
	case errors.Is(err, contract.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &upstream):
		switch upstream.Kind {
		case contract.UpstreamNotFound:
			return http.StatusNotFound
		case contract.UpstreamAuthFailed:
			return http.StatusUnauthorized
		case contract.UpstreamRateLimited:
			return http.StatusTooManyRequests
		}
		return http.StatusBadGateway
	case errors.Is(err, contract.ErrUpstream):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(schema.DashboardResponse{Success: false, Error: err.Error()})
}
