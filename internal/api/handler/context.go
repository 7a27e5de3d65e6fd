package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/api/middleware"
	"github.com/postboard/postboard-api/internal/core/domain"
)

// principal returns the actor injected by the Auth middleware. Its absence
// means the route was wired without authentication.
func principal(c echo.Context) (domain.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// bindBody decodes the JSON body into req and validates it.
func bindBody(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

// bindQuery decodes query parameters into req and validates it.
func bindQuery(c echo.Context, req any) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, req); err != nil {
		return bindError(err)
	}
	return c.Validate(req)
}

// pathID validates the :id path parameter before any lookup.
func pathID(c echo.Context) (string, error) {
	p := idParam{ID: c.Param("id")}
	if err := c.Validate(&p); err != nil {
		return "", err
	}
	return p.ID, nil
}

// pathIDAndBody validates the :id path parameter and the JSON body together,
// so a request with both wrong reports every violation at once. Errors that
// are not validation failures win and are returned as is.
func pathIDAndBody(c echo.Context, req any) (string, error) {
	id, idErr := pathID(c)
	bodyErr := bindBody(c, req)

	var idVE, bodyVE *domain.ValidationError
	switch {
	case idErr != nil && !errors.As(idErr, &idVE):
		return "", idErr
	case bodyErr != nil && !errors.As(bodyErr, &bodyVE):
		return "", bodyErr
	case idVE == nil && bodyVE == nil:
		return id, nil
	}

	merged := &domain.ValidationError{}
	if idVE != nil {
		merged.Violations = append(merged.Violations, idVE.Violations...)
	}
	if bodyVE != nil {
		merged.Violations = append(merged.Violations, bodyVE.Violations...)
	}
	return "", merged
}

// bindError turns decoder failures into validation errors. Unsupported media
// types and other transport errors pass through untouched.
func bindError(err error) error {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		field := ute.Field
		if field == "" {
			field = "body"
		}
		return domain.NewValidationError(field, fmt.Sprintf("must be of type %s", ute.Type))
	}

	var se *json.SyntaxError
	if errors.As(err, &se) {
		return domain.NewValidationError("body", "malformed JSON")
	}

	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return domain.NewValidationError("body", "malformed request body")
	}
	return err
}
