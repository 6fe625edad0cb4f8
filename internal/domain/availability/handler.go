package availability

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
	g := api.Group("/schedule", auth.RequireRole("doctor"))
	g.GET("/:doctorId", h.GetWeek)
	g.PUT("/:doctorId/days/:weekday", h.UpdateDay)
	g.POST("/:doctorId/publish", h.Publish)
}

func (h *Handler) GetWeek(c echo.Context) error {
	week, err := h.svc.Load(c.Request().Context(), c.Param("doctorId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, week)
}

// updateDayRequest toggles a day and/or sets its hours. Times are 12-hour
// display strings as entered in the schedule editor.
type updateDayRequest struct {
	Enabled   *bool  `json:"enabled,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	EndTime   string `json:"end_time,omitempty"`
}

func (h *Handler) UpdateDay(c echo.Context) error {
	weekday, ok := ParseWeekday(c.Param("weekday"))
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid weekday")
	}

	var req updateDayRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Enabled == nil && (req.StartTime == "" || req.EndTime == "") {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}

	ctx := c.Request().Context()
	doctorID := c.Param("doctorId")

	var day *DaySchedule
	var err error
	if req.Enabled != nil {
		day, err = h.svc.SetDayEnabled(ctx, doctorID, weekday, *req.Enabled)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}
	if req.StartTime != "" && req.EndTime != "" && (req.Enabled == nil || *req.Enabled) {
		day, err = h.svc.SetDayHours(ctx, doctorID, weekday, req.StartTime, req.EndTime)
		if err != nil {
			var ferr *timefmt.FormatError
			if errors.Is(err, ErrDayDisabled) || errors.Is(err, ErrInvalidHours) || errors.As(err, &ferr) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.JSON(http.StatusOK, day)
}

func (h *Handler) Publish(c echo.Context) error {
	report, err := h.svc.Publish(c.Request().Context(), c.Param("doctorId"))
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileRequired):
			return echo.NewHTTPError(http.StatusPreconditionFailed, err.Error())
		case errors.Is(err, visitapi.ErrUnauthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
	}
	return c.JSON(http.StatusOK, report)
}
