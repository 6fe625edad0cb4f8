package visits

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telemed/portal/internal/platform/auth"
	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/timefmt"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/visits")
	g.GET("/upcoming", h.ListUpcoming)
	g.GET("/:id", h.GetDetails)
	g.POST("/:id/reschedule", h.Reschedule)
	g.POST("/:id/cancel", h.Cancel)
}

func (h *Handler) ListUpcoming(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.UserID(ctx)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing patient identity")
	}
	listing, err := h.svc.ListUpcoming(ctx, patientID)
	if err != nil {
		return visitError(err)
	}
	return c.JSON(http.StatusOK, listing)
}

func (h *Handler) GetDetails(c echo.Context) error {
	details, err := h.svc.GetDetails(c.Request().Context(), c.Param("id"))
	if err != nil {
		return visitError(err)
	}
	return c.JSON(http.StatusOK, details)
}

type rescheduleRequest struct {
	Date   string `json:"date"` // "2006-01-02"
	Time   string `json:"time"` // 12-hour display label
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Reschedule(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.UserID(ctx)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing patient identity")
	}

	var req rescheduleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Date == "" || req.Time == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "date and time are required")
	}

	view, err := h.svc.Reschedule(ctx, patientID, c.Param("id"), req.Date, req.Time, req.Reason)
	if err != nil {
		var ferr *timefmt.FormatError
		if errors.As(err, &ferr) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return visitError(err)
	}
	return c.JSON(http.StatusOK, view)
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (h *Handler) Cancel(c echo.Context) error {
	ctx := c.Request().Context()
	patientID := auth.UserID(ctx)
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing patient identity")
	}

	var req cancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.svc.Cancel(ctx, patientID, c.Param("id"), req.Reason); err != nil {
		return visitError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func visitError(err error) error {
	switch {
	case errors.Is(err, ErrVisitNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, visitapi.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
