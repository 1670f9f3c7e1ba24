package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/service"
	"github.com/cryptoscamalert/backend/internal/util"
)

type ScamHandler struct {
	scams *service.ScamService
}

func RegisterScams(e *echo.Echo, auth *service.AuthService, scams *service.ScamService) {
	handler := &ScamHandler{scams: scams}

	group := e.Group("/api/scams")
	group.GET("", handler.list)
	group.GET("/search/:term", handler.search)
	group.GET("/:slug", handler.getBySlug)
	group.POST("", handler.create, RequireAuth(auth), RequireAdmin())
	group.DELETE("/:id", handler.remove, RequireAuth(auth), RequireAdmin())
	group.PATCH("/:id/like", handler.like, RequireAuth(auth))
	group.PATCH("/:id/unlike", handler.unlike, RequireAuth(auth))
}

// list godoc
// @Summary List published scam listings
// @Tags scams
// @Produce json
// @Param sort query string false "sort expression, e.g. -createdAt"
// @Param fields query string false "comma separated projection"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Router /api/scams [get]
func (h *ScamHandler) list(c echo.Context) error {
	scams, err := h.scams.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		if errors.Is(err, query.ErrBadParam) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load scams"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"results": len(scams),
		"scams":   scams,
	})
}

// search godoc
// @Summary Search scam listings by title
// @Tags scams
// @Produce json
// @Param term path string true "search term"
// @Success 200 {object} util.Envelope
// @Router /api/scams/search/{term} [get]
func (h *ScamHandler) search(c echo.Context) error {
	scams, err := h.scams.Search(c.Request().Context(), c.Param("term"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to search scams"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"results": len(scams),
		"scams":   scams,
	})
}

// getBySlug godoc
// @Summary Fetch a single scam listing by slug
// @Tags scams
// @Produce json
// @Param slug path string true "scam slug"
// @Success 200 {object} util.Envelope
// @Failure 404 {object} ErrorResponse
// @Router /api/scams/{slug} [get]
func (h *ScamHandler) getBySlug(c echo.Context) error {
	scam, err := h.scams.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScamNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load the scam"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{"scam": scam})
}

// create godoc
// @Summary Publish a new scam listing
// @Tags scams
// @Accept json
// @Produce json
// @Param payload body CreateScamRequest true "scam payload"
// @Success 201 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scams [post]
func (h *ScamHandler) create(c echo.Context) error {
	var req CreateScamRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	author := strings.TrimSpace(req.Author)
	if author == "" {
		if user, ok := CurrentUser(c); ok && user != nil {
			author = user.Name
		}
	}

	scam, err := h.scams.Create(c.Request().Context(), service.CreateScamInput{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		Link:        req.Link,
		Author:      author,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSlugTaken):
			return c.JSON(http.StatusConflict, util.Error("a scam with this title already exists"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not create the scam"))
		}
	}

	return c.JSON(http.StatusCreated, util.Envelope{"scam": scam})
}

// remove godoc
// @Summary Delete a scam listing
// @Tags scams
// @Produce json
// @Param id path string true "scam id"
// @Success 200 {object} util.Envelope
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scams/{id} [delete]
func (h *ScamHandler) remove(c echo.Context) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	if err := h.scams.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrScamNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not delete the scam"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"id":      id,
		"message": "scam deleted",
	})
}

// like godoc
// @Summary Like a scam listing
// @Tags scams
// @Produce json
// @Param id path string true "scam id"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scams/{id}/like [patch]
func (h *ScamHandler) like(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	likes, err := h.scams.Like(c.Request().Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScamNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam not found"))
		case errors.Is(err, service.ErrAlreadyLiked):
			return c.JSON(http.StatusBadRequest, util.Error("you already liked this post"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not like the scam"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{"likes": likes})
}

// unlike godoc
// @Summary Remove a like from a scam listing
// @Tags scams
// @Produce json
// @Param id path string true "scam id"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scams/{id}/unlike [patch]
func (h *ScamHandler) unlike(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	likes, err := h.scams.Unlike(c.Request().Context(), id, user.ID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScamNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam not found"))
		case errors.Is(err, service.ErrNotLiked):
			return c.JSON(http.StatusBadRequest, util.Error("you have not liked this post"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not unlike the scam"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{"likes": likes})
}
