package revenue

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fedy10/medicab/internal/platform/auth"
	"github.com/fedy10/medicab/pkg/calendar"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.Group("", auth.RequireRole("doctor")).GET("/revenue", h.Report)
	api.Group("", auth.RequireRole("admin")).GET("/admin/revenue", h.GlobalReport)
}

// Report serves GET /revenue?period=day|month|year&date=YYYY-MM-DD. The date
// defaults to today.
func (h *Handler) Report(c echo.Context) error {
	doctorID, err := doctorIDFrom(c)
	if err != nil {
		return err
	}
	p := Period(c.QueryParam("period"))
	if p == "" {
		p = PeriodDay
	}
	ref := calendar.Today()
	if q := c.QueryParam("date"); q != "" {
		ref, err = calendar.ParseDate(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}
	rep, err := h.svc.Report(c.Request().Context(), doctorID, p, ref)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

// GlobalReport serves the clinic-wide aggregate for administrators.
func (h *Handler) GlobalReport(c echo.Context) error {
	p := Period(c.QueryParam("period"))
	if p == "" {
		p = PeriodDay
	}
	ref := calendar.Today()
	if q := c.QueryParam("date"); q != "" {
		var err error
		ref, err = calendar.ParseDate(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}
	rep, err := h.svc.GlobalReport(c.Request().Context(), p, ref)
	if err != nil {
		if errors.Is(err, ErrInvalidPeriod) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rep)
}

func doctorIDFrom(c echo.Context) (uuid.UUID, error) {
	if s := auth.DoctorIDFromContext(c.Request().Context()); s != "" {
		if id, err := uuid.Parse(s); err == nil {
			return id, nil
		}
	}
	if q := c.QueryParam("doctor_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		return id, nil
	}
	return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
}
