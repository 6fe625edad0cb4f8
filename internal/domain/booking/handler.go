package booking

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/telemed/portal/internal/platform/auth"
	"github.com/telemed/portal/internal/platform/visitapi"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/booking/sessions")
	g.POST("", h.CreateSession)
	g.GET("/:id", h.GetSession)
	g.POST("/:id/doctor", h.SelectDoctor)
	g.POST("/:id/slot", h.SelectSlot)
	g.POST("/:id/next", h.event(EventNext))
	g.POST("/:id/back", h.event(EventBack))
	g.POST("/:id/reset", h.event(EventReset))
	g.POST("/:id/submit", h.Submit)
}

func (h *Handler) CreateSession(c echo.Context) error {
	sess := h.svc.CreateSession(c.Request().Context())
	return c.JSON(http.StatusCreated, sess)
}

func (h *Handler) GetSession(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	sess, err := h.svc.GetSession(c.Request().Context(), id)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

type selectDoctorRequest struct {
	DoctorID string `json:"doctorId"`
}

func (h *Handler) SelectDoctor(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	var req selectDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SelectDoctor(c.Request().Context(), id, req.DoctorID)
	if err != nil {
		if sess != nil {
			// Doctor recorded but the availability fetch failed; return
			// the session with the failure attached.
			return c.JSON(http.StatusBadGateway, sess)
		}
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

type selectSlotRequest struct {
	WindowID string `json:"windowId"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	Reason   string `json:"reason"`
}

func (h *Handler) SelectSlot(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	var req selectSlotRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	sess, err := h.svc.SelectSlot(c.Request().Context(), id, req.WindowID, req.Date, req.Time, req.Reason)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func (h *Handler) event(ev Event) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
		}
		sess, err := h.svc.Advance(c.Request().Context(), id, ev)
		if err != nil {
			return sessionError(err)
		}
		return c.JSON(http.StatusOK, sess)
	}
}

func (h *Handler) Submit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
	}
	patientID := auth.UserID(c.Request().Context())
	if patientID == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing patient identity")
	}
	sess, err := h.svc.Submit(c.Request().Context(), id, patientID)
	if err != nil {
		return sessionError(err)
	}
	return c.JSON(http.StatusOK, sess)
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrDoctorRequired),
		errors.Is(err, ErrSlotRequired),
		errors.Is(err, ErrNotInReview):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, visitapi.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	default:
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
}
