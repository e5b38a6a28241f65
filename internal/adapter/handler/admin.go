package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alexdong/TranscribeMe/errors"
	"github.com/alexdong/TranscribeMe/internal/adapter/presenter"
)

// AdminHandler exposes operational read endpoints
type AdminHandler struct {
	pipeline PipelineService
	logger   *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(pipeline PipelineService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		pipeline: pipeline,
		logger:   logger,
	}
}

// ListCalls returns the most recent finished calls
// @Summary      List recent calls
// @Description  Lists finished calls newest first, with their outcome and failure reason. Recordings and transcript text are never included.
// @Tags         Admin
// @Produce      json
// @Param        limit  query     int  false  "Maximum rows to return (default 50, max 500)"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]interface{}
// @Router       /v1/admin/calls [get]
func (h *AdminHandler) ListCalls(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 500 {
			return HandleError(h.logger, c, errors.ErrInvalidArgument("limit must be an integer between 1 and 500"))
		}
		limit = parsed
	}

	outcomes, err := h.pipeline.RecentOutcomes(c.Request().Context(), limit)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrDBQueryFailed("list recent outcomes", err))
	}

	return HandleSuccess(h.logger, c, presenter.ToCallListResponse(outcomes, h.pipeline.ActiveSessions()))
}
