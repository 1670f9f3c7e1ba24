package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/service"
	"github.com/cryptoscamalert/backend/internal/util"
)

type VerificationHandler struct {
	verifications *service.VerificationService
}

func RegisterVerifications(e *echo.Echo, auth *service.AuthService, verifications *service.VerificationService) {
	handler := &VerificationHandler{verifications: verifications}

	group := e.Group("/api/verification")
	group.POST("", handler.create)
	group.GET("", handler.list, RequireAuth(auth), RequireAdmin())
}

// create godoc
// @Summary Submit a transaction verification request
// @Tags verifications
// @Accept json
// @Produce json
// @Param payload body CreateVerificationRequest true "verification payload"
// @Success 201 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Router /api/verification [post]
func (h *VerificationHandler) create(c echo.Context) error {
	var req CreateVerificationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	date, err := req.ParsedDate()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	}

	verification, err := h.verifications.Create(c.Request().Context(), service.CreateVerificationInput{
		Name:               req.Name,
		Email:              req.Email,
		Currency:           req.Currency,
		TransactionAddress: req.TransactionAddress,
		TransactionDate:    date,
		Request:            req.Request,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("could not submit the verification request"))
	}

	return c.JSON(http.StatusCreated, util.Envelope{"verification": verification})
}

// list godoc
// @Summary List verification requests
// @Tags verifications
// @Produce json
// @Param sort query string false "sort expression, e.g. -createdAt"
// @Param page query int false "page number"
// @Param limit query int false "page size"
// @Success 200 {object} util.Envelope
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /api/verification [get]
func (h *VerificationHandler) list(c echo.Context) error {
	verifications, err := h.verifications.List(c.Request().Context(), c.QueryParams())
	if err != nil {
		if errors.Is(err, query.ErrBadParam) {
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load verification requests"))
	}

	return c.JSON(http.StatusOK, util.Envelope{
		"results":       len(verifications),
		"verifications": verifications,
	})
}
