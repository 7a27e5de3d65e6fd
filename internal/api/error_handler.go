package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postboard/postboard-api/internal/api/metrics"
	"github.com/postboard/postboard-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error   string                  `json:"error"`
	Details []domain.FieldViolation `json:"details,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>", "details": [...]}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if code == http.StatusForbidden {
			metrics.AuthorizationDenialsTotal.WithLabelValues(c.Path()).Inc()
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorResponse{Error: "Invalid request data", Details: ve.Violations}
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, errorResponse{Error: "Unauthorized"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: "Invalid email or password"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: forbiddenMessage(err)}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Error: "User not found"}
	case errors.Is(err, domain.ErrPostNotFound):
		return http.StatusNotFound, errorResponse{Error: "Post not found"}
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, errorResponse{Error: "Email already exists"}
	}

	// Echo's own errors (unknown route, wrong method, unsupported media type, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			logUnhandled(log, err, c)
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	logUnhandled(log, err, c)
	return http.StatusInternalServerError, errorResponse{Error: "Internal server error"}
}

// forbiddenMessage renders the policy reason, e.g.
// `Forbidden: role "user" may not delete-user`.
func forbiddenMessage(err error) string {
	msg := err.Error()
	prefix := domain.ErrForbidden.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return "Forbidden: " + msg[i+len(prefix):]
	}
	return "Forbidden"
}

func logUnhandled(log zerolog.Logger, err error, c echo.Context) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")
}
