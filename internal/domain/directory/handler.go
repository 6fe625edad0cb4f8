package directory

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/directory")
	g.GET("/doctors", h.ListDoctors)
	g.GET("/doctors/:id/slots", h.GetAvailability)
}

type doctorListResponse struct {
	pagination.Response
	Stale bool `json:"stale"`
}

func (h *Handler) ListDoctors(c echo.Context) error {
	doctors, stale, err := h.svc.ListDoctors(c.Request().Context())
	if err != nil {
		if errors.Is(err, visitapi.ErrUnauthorized) {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	p := pagination.FromContext(c)
	start, end := p.Slice(len(doctors))
	resp := doctorListResponse{
		Response: *pagination.NewResponse(doctors[start:end], len(doctors), p.Limit, p.Offset),
		Stale:    stale,
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) GetAvailability(c echo.Context) error {
	list, err := h.svc.GetAvailability(c.Request().Context(), c.Param("id"))
	if err != nil {
		var missing *ErrMissingWindowID
		switch {
		case errors.Is(err, visitapi.ErrUnauthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		case errors.Is(err, visitapi.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.As(err, &missing):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
		default:
			return echo.NewHTTPError(http.StatusBadGateway, err.Error())
		}
	}
	return c.JSON(http.StatusOK, list)
}
