package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/fedy10/medicab/internal/platform/auth"
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
	g.GET("/patients", h.List)
	g.GET("/patients/:id", h.Get)
	g.POST("/patients", h.Create)
	g.PUT("/patients/:id", h.Update)
	g.POST("/patients/resolve", h.Resolve)

	api.Group("", auth.RequireRole("doctor")).DELETE("/patients/:id", h.Delete)
}

func (h *Handler) Create(c echo.Context) error {
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := doctorIDFrom(c, p.DoctorID)
	if err != nil {
		return err
	}
	p.DoctorID = doctorID
	if err := h.svc.Create(c.Request().Context(), &p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *Handler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var p Patient
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p.ID = id
	if err := h.svc.Update(c.Request().Context(), &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "patient not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) List(c echo.Context) error {
	doctorID, err := doctorIDFrom(c, uuid.Nil)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	var (
		items []*Patient
		total int
	)
	if name := c.QueryParam("name"); name != "" {
		items, total, err = h.svc.Search(c.Request().Context(), doctorID, name, pg.Limit, pg.Offset)
	} else {
		items, total, err = h.svc.List(c.Request().Context(), doctorID, pg.Limit, pg.Offset)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

type resolveRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type resolveResponse struct {
	Patient *Patient `json:"patient"`
	Created bool     `json:"created"`
}

func (h *Handler) Resolve(c echo.Context) error {
	var req resolveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	doctorID, err := doctorIDFrom(c, uuid.Nil)
	if err != nil {
		return err
	}
	p, created, err := h.svc.Resolve(c.Request().Context(), doctorID, req.Name, req.Phone)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, resolveResponse{Patient: p, Created: created})
}

// doctorIDFrom prefers the authenticated doctor's own id; a secretary acting
// for a doctor passes doctor_id explicitly.
func doctorIDFrom(c echo.Context, fallback uuid.UUID) (uuid.UUID, error) {
	if s := auth.DoctorIDFromContext(c.Request().Context()); s != "" {
		id, err := uuid.Parse(s)
		if err == nil {
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
