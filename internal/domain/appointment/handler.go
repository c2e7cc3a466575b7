package appointment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fedy10/medicab/internal/platform/auth"
	"github.com/fedy10/medicab/pkg/calendar"
	"github.com/fedy10/medicab/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("doctor", "secretary"))
	g.GET("/appointments", h.List)
	g.GET("/appointments/agenda", h.Agenda)
	g.GET("/appointments/:id", h.Get)
	g.POST("/appointments", h.Create)
	g.PUT("/appointments/:id", h.Update)
	g.POST("/appointments/:id/confirm", h.Confirm)
	g.POST("/appointments/:id/cancel", h.Cancel)
	g.DELETE("/appointments/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := doctorIDFrom(c, a.DoctorID)
	if err != nil {
		return err
	}
	a.DoctorID = doctorID
	if err := h.svc.Create(c.Request().Context(), &a); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var a Appointment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a.ID = id
	if err := h.svc.Update(c.Request().Context(), &a); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Confirm(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var conf Confirmation
	if err := c.Bind(&conf); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.Confirm(c.Request().Context(), id, conf)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	a, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return mapError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Agenda serves GET /appointments/agenda?date=YYYY-MM-DD, defaulting to
// today.
func (h *Handler) Agenda(c echo.Context) error {
	doctorID, err := doctorIDFrom(c, uuid.Nil)
	if err != nil {
		return err
	}
	date := calendar.Today()
	if q := c.QueryParam("date"); q != "" {
		date, err = calendar.ParseDate(q)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		}
	}
	items, err := h.svc.Agenda(c.Request().Context(), doctorID, date)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) List(c echo.Context) error {
	doctorID, err := doctorIDFrom(c, uuid.Nil)
	if err != nil {
		return err
	}
	var f Filter
	if s := c.QueryParam("status"); s != "" {
		st := Status(s)
		if !st.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = st
	}
	if s := c.QueryParam("from"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid from date")
		}
		f.From = &d
	}
	if s := c.QueryParam("to"); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid to date")
		}
		f.To = &d
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), doctorID, f, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

// mapError picks a status code per error class: not-found, conflict for slot
// and state collisions, bad request for validation, 500 otherwise.
func mapError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrSlotTaken), errors.Is(err, ErrNotScheduled), errors.Is(err, ErrTerminal):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrMissingPatient), errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidTime), errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidPayment), errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrAmountRequired):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func doctorIDFrom(c echo.Context, fallback uuid.UUID) (uuid.UUID, error) {
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
	if fallback != uuid.Nil {
		return fallback, nil
	}
	return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "doctor_id is required")
}
