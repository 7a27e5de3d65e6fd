package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/api/metrics"
	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
	"github.com/postboard/postboard-api/internal/core/service"
)

// profilePictureField is the multipart form field carrying the image.
const profilePictureField = "file"

type UserHandler struct {
	userService    ports.UserService
	maxUploadBytes int64
}

// NewUserHandler builds the users handler. maxUploadBytes bounds profile
// picture uploads; zero or less disables the limit.
func NewUserHandler(userService ports.UserService, maxUploadBytes int64) *UserHandler {
	return &UserHandler{userService: userService, maxUploadBytes: maxUploadBytes}
}

// List godoc
// @Summary   List users
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200 {array}   domain.User
// @Failure   401 {object}  errorResponse
// @Failure   403 {object}  errorResponse
// @Router    /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.userService.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get godoc
// @Summary   Get a user
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Param     id  path      string  true  "User ID (UUID)"
// @Success   200 {object}  domain.User
// @Failure   400 {object}  errorResponse
// @Failure   403 {object}  errorResponse
// @Failure   404 {object}  errorResponse
// @Router    /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	user, err := h.userService.GetUser(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Create godoc
// @Summary   Create a user
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createUserRequest  true  "User payload"
// @Success   201   {object}  domain.User
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   409   {object}  errorResponse
// @Router    /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	user, err := h.userService.CreateUser(c.Request().Context(), p, ports.CreateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		return err
	}

	metrics.UsersCreatedTotal.WithLabelValues("admin").Inc()
	return c.JSON(http.StatusCreated, user)
}

// Update godoc
// @Summary   Update a user
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string             true  "User ID (UUID)"
// @Param     body  body      updateUserRequest  true  "Fields to change"
// @Success   200   {object}  domain.User
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Failure   409   {object}  errorResponse
// @Router    /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	id, err := pathIDAndBody(c, &req)
	if err != nil {
		return err
	}

	input := ports.UpdateUserInput{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.UpdateUser(c.Request().Context(), p, id, input)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete godoc
// @Summary   Delete a user and their posts
// @Tags      users
// @Security  BearerAuth
// @Param     id  path  string  true  "User ID (UUID)"
// @Success   204
// @Failure   403 {object}  errorResponse
// @Failure   404 {object}  errorResponse
// @Router    /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteUser(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadProfilePicture godoc
// @Summary   Upload a profile picture
// @Tags      users
// @Accept    multipart/form-data
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string  true  "User ID (UUID)"
// @Param     file  formData  file    true  "Image file"
// @Success   200   {object}  profilePictureResponse
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Failure   413   {object}  errorResponse
// @Failure   501   {object}  errorResponse
// @Router    /users/{id}/profile-picture [post]
func (h *UserHandler) UploadProfilePicture(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	pic, err := h.readPicture(c)
	if err != nil {
		return err
	}

	user, err := h.userService.UploadProfilePicture(c.Request().Context(), p, id, pic)
	if err != nil {
		if errors.Is(err, service.ErrStorageDisabled) {
			return echo.NewHTTPError(http.StatusNotImplemented, "Profile picture storage is not configured").SetInternal(err)
		}
		return err
	}
	return c.JSON(http.StatusOK, profilePictureResponse{ImageURL: user.ProfilePictureURL, User: user})
}

// readPicture loads the uploaded file and sniffs its content type. The
// client-declared type is ignored.
func (h *UserHandler) readPicture(c echo.Context) (ports.ProfilePicture, error) {
	fh, err := c.FormFile(profilePictureField)
	if err != nil {
		if he := new(echo.HTTPError); errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
			return ports.ProfilePicture{}, err
		}
		return ports.ProfilePicture{}, domain.NewValidationError(profilePictureField, "is required")
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		return ports.ProfilePicture{}, echo.NewHTTPError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("File exceeds %d bytes", h.maxUploadBytes))
	}

	f, err := fh.Open()
	if err != nil {
		return ports.ProfilePicture{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return ports.ProfilePicture{}, fmt.Errorf("read upload: %w", err)
	}
	if len(content) == 0 {
		return ports.ProfilePicture{}, domain.NewValidationError(profilePictureField, "must not be empty")
	}

	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return ports.ProfilePicture{}, domain.NewValidationError(profilePictureField, "must be an image")
	}
	return ports.ProfilePicture{Content: content, ContentType: contentType}, nil
}
