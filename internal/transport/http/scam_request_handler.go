package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/cryptoscamalert/backend/internal/media"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/service"
	"github.com/cryptoscamalert/backend/internal/util"
)

type ScamRequestHandler struct {
	requests *service.ScamRequestService
}

func RegisterScamRequests(e *echo.Echo, auth *service.AuthService, requests *service.ScamRequestService) {
	handler := &ScamRequestHandler{requests: requests}

	group := e.Group("/api/scamrequest", RequireAuth(auth))
	group.POST("", handler.create)
	group.POST("/:id/evidence", handler.attachEvidence)
	group.GET("", handler.list, RequireAdmin())
	group.GET("/:id", handler.get, RequireAdmin())
	group.DELETE("/:id", handler.remove, RequireAdmin())
}

// create godoc
// @Summary Submit a scam report for review
// @Tags scam-requests
// @Accept json
// @Produce json
// @Param payload body CreateScamReportRequest true "report payload"
// @Success 201 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scamrequest [post]
func (h *ScamRequestHandler) create(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req CreateScamReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	report, err := h.requests.Create(c.Request().Context(), service.CreateScamRequestInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		Link:        req.Link,
		AuthorID:    user.ID,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not submit the report"))
	}

	return c.JSON(http.StatusCreated, util.Envelope{"scamRequest": report})
}

// list godoc
// @Summary List submitted scam reports
// @Tags scam-requests
// @Produce json
// @Param sort query string false "sort expression, e.g. -createdAt"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scamrequest [get]
func (h *ScamRequestHandler) list(c echo.Context) error {
	reports, err := h.requests.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		if errors.Is(err, query.ErrBadParam) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load reports"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"results":      len(reports),
		"scamRequests": reports,
	})
}

// get godoc
// @Summary Fetch a single scam report
// @Tags scam-requests
// @Produce json
// @Param id path string true "report id"
// @Success 200 {object} util.Envelope
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scamrequest/{id} [get]
func (h *ScamRequestHandler) get(c echo.Context) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	report, err := h.requests.Get(c.Request().Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScamRequestNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam report not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to load the report"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{"scamRequest": report})
}

// remove godoc
// @Summary Delete a scam report
// @Tags scam-requests
// @Produce json
// @Param id path string true "report id"
// @Success 200 {object} util.Envelope
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scamrequest/{id} [delete]
func (h *ScamRequestHandler) remove(c echo.Context) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	if err := h.requests.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, service.ErrScamRequestNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam report not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not delete the report"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"id":      id,
		"message": "scam report deleted",
	})
}

// attachEvidence godoc
// @Summary Attach an evidence image to a scam report
// @Tags scam-requests
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "report id"
// @Param evidence formData file true "evidence image"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/scamrequest/{id}/evidence [post]
func (h *ScamRequestHandler) attachEvidence(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("id must be a valid UUID"))
	}

	fileHeader, err := c.FormFile("evidence")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("evidence file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("could not read the uploaded file"))
	}
	defer file.Close()

	url, err := h.requests.AttachEvidence(c.Request().Context(), id, user.ID, service.EvidenceUpload{
		Reader:   file,
		Size:     fileHeader.Size,
		FileName: fileHeader.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScamRequestNotFound):
			return c.JSON(http.StatusNotFound, util.Error("scam report not found"))
		case errors.Is(err, service.ErrNotRequestAuthor):
			return c.JSON(http.StatusForbidden, util.Error("only the report author can attach evidence"))
		case errors.Is(err, service.ErrEvidenceDisabled):
			return c.JSON(http.StatusNotImplemented, util.Error("evidence uploads are not enabled"))
		case errors.Is(err, media.ErrImageTooLarge):
			return c.JSON(http.StatusBadRequest, util.Error("evidence image is too large"))
		case errors.Is(err, media.ErrImageUnreadable), errors.Is(err, media.ErrImageEmptyUpload):
			return c.JSON(http.StatusBadRequest, util.Error("evidence must be a valid image"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("could not store the evidence"))
		}
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"id":           id,
		"evidence_url": url,
	})
}
