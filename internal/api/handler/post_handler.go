package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/postboard/postboard-api/internal/api/metrics"
	"github.com/postboard/postboard-api/internal/core/domain"
	"github.com/postboard/postboard-api/internal/core/ports"
)

type PostHandler struct {
	postService ports.PostService
}

func NewPostHandler(postService ports.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List godoc
// @Summary   List posts
// @Tags      posts
// @Produce   json
// @Security  BearerAuth
// @Param     authorId  query     string  false  "Only posts by this author (UUID)"
// @Success   200       {array}   domain.Post
// @Failure   400       {object}  errorResponse
// @Failure   401       {object}  errorResponse
// @Router    /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var q listPostsQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}

	posts, err := h.postService.ListPosts(c.Request().Context(), p, domain.PostFilter{AuthorID: q.AuthorID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, posts)
}

// Get godoc
// @Summary   Get a post
// @Tags      posts
// @Produce   json
// @Security  BearerAuth
// @Param     id  path      string  true  "Post ID (UUID)"
// @Success   200 {object}  domain.Post
// @Failure   400 {object}  errorResponse
// @Failure   404 {object}  errorResponse
// @Router    /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	post, err := h.postService.GetPost(c.Request().Context(), p, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Create godoc
// @Summary   Create a post
// @Tags      posts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body  body      createPostRequest  true  "Post payload"
// @Success   201   {object}  domain.Post
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Router    /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindBody(c, &req); err != nil {
		return err
	}

	post, err := h.postService.CreatePost(c.Request().Context(), p, ports.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return err
	}

	metrics.PostsCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, post)
}

// Update godoc
// @Summary   Update a post
// @Tags      posts
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     id    path      string             true  "Post ID (UUID)"
// @Param     body  body      updatePostRequest  true  "Fields to change"
// @Success   200   {object}  domain.Post
// @Failure   400   {object}  errorResponse
// @Failure   403   {object}  errorResponse
// @Failure   404   {object}  errorResponse
// @Router    /posts/{id} [put]
func (h *PostHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	var req updatePostRequest
	id, err := pathIDAndBody(c, &req)
	if err != nil {
		return err
	}

	post, err := h.postService.UpdatePost(c.Request().Context(), p, id, ports.UpdatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete godoc
// @Summary   Delete a post
// @Tags      posts
// @Security  BearerAuth
// @Param     id  path  string  true  "Post ID (UUID)"
// @Success   204
// @Failure   403 {object}  errorResponse
// @Failure   404 {object}  errorResponse
// @Router    /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.postService.DeletePost(c.Request().Context(), p, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
