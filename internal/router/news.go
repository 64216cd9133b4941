package router

import (
	"net/http"

	"github.com/bselic/newsbrief/internal/apperr"
	"github.com/bselic/newsbrief/internal/domain"
	"github.com/bselic/newsbrief/internal/pipeline"
	"github.com/bselic/newsbrief/internal/storage"
	"github.com/bselic/newsbrief/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type NewsRouter struct {
	e        *echo.Echo
	pipeline *pipeline.Orchestrator
	contents storage.ContentStore
	users    storage.UserDirectory
}

func NewNewsRouter(e *echo.Echo, p *pipeline.Orchestrator, contents storage.ContentStore, users storage.UserDirectory) *NewsRouter {
	return &NewsRouter{
		e:        e,
		pipeline: p,
		contents: contents,
		users:    users,
	}
}

func (r *NewsRouter) Bind() {
	g := r.e.Group("/users/:userId/news")
	g.GET("/analyze-stream", r.analyzeStreamHandler)
	g.POST("/parse", r.parseHandler)
	g.POST("/summarize", r.summarizeHandler)
	g.GET("", r.listHandler)
	g.POST("", r.createHandler)
}

// analyzeStreamHandler streams a transient, unsaved summary of a URL.
func (r *NewsRouter) analyzeStreamHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	newsURL := c.QueryParam("news_url")
	if newsURL == "" {
		return apperr.NewValidation("news_url query parameter is required")
	}

	ctx := c.Request().Context()
	stream, err := r.pipeline.StreamURLSummary(ctx, userID, newsURL)
	if err != nil {
		return err
	}

	return streamSSE(c, stream)
}

// parseHandler resolves a URL to a content item and attaches it to the user.
func (r *NewsRouter) parseHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	newsURL := c.QueryParam("news_url")
	if newsURL == "" {
		return apperr.NewValidation("news_url query parameter is required")
	}

	item, err := r.pipeline.AddContentForUser(c.Request().Context(), userID, newsURL)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}

// summarizeHandler streams a durable summary for a content item the user
// has added; the result is persisted once the stream completes.
func (r *NewsRouter) summarizeHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	contentID, err := uuid.Parse(c.QueryParam("news_content_id"))
	if err != nil {
		return apperr.NewValidationWrap("invalid news_content_id", err)
	}

	ctx := c.Request().Context()
	stream, err := r.pipeline.StreamContentSummary(ctx, userID, contentID)
	if err != nil {
		return err
	}

	return streamSSE(c, stream)
}

func (r *NewsRouter) listHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}
	if err := r.requireUser(c, userID); err != nil {
		return err
	}

	page, err := parsePage(c)
	if err != nil {
		return err
	}
	items, err := r.contents.List(c.Request().Context(), page.Offset, page.Limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.NewsContent{}
	}

	return c.JSON(http.StatusOK, items)
}

// createHandler stores a client-supplied content item and attaches it to
// the user, with the same idempotent semantics as parse.
func (r *NewsRouter) createHandler(c echo.Context) error {
	userID, err := parseUserID(c)
	if err != nil {
		return err
	}

	var item domain.NewsContent
	if err := c.Bind(&item); err != nil {
		return apperr.NewValidationWrap("invalid content payload", err)
	}
	if item.Title == "" || item.URL == "" {
		return apperr.NewValidation("title and url are required")
	}

	stored, err := r.pipeline.AttachContentToUser(c.Request().Context(), userID, &item)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, stored)
}

func (r *NewsRouter) requireUser(c echo.Context, userID uuid.UUID) error {
	ok, err := r.users.Exists(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.ErrAccessDenied
	}
	return nil
}

func parseUserID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid user id", err)
	}
	return id, nil
}

func parsePage(c echo.Context) (pagination.OffsetRequest, error) {
	var page pagination.OffsetRequest
	if err := c.Bind(&page); err != nil {
		return page, apperr.NewValidationWrap("invalid pagination parameters", err)
	}
	_ = page.Validate()
	return page, nil
}
