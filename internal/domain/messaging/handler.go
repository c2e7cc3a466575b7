package messaging

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
	g.POST("/messages", h.Send)
	g.GET("/messages/unread", h.Unread)
	g.GET("/messages/:user", h.Conversation)
	g.POST("/messages/:user/read", h.MarkRead)
}

type sendRequest struct {
	RecipientID uuid.UUID `json:"recipient_id"`
	Body        string    `json:"body"`
}

func (h *Handler) Send(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req sendRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m, err := h.svc.Send(c.Request().Context(), userID, req.RecipientID, req.Body)
	if err != nil {
		if errors.Is(err, ErrEmptyBody) || errors.Is(err, ErrSelfMessage) || errors.Is(err, ErrNoRecipient) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) Conversation(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	otherID, err := uuid.Parse(c.Param("user"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Conversation(c.Request().Context(), userID, otherID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) MarkRead(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	otherID, err := uuid.Parse(c.Param("user"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid user id")
	}
	n, err := h.svc.MarkRead(c.Request().Context(), userID, otherID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"marked": n})
}

func (h *Handler) Unread(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	n, err := h.svc.Unread(c.Request().Context(), userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"unread": n})
}

func currentUser(c echo.Context) (uuid.UUID, error) {
	s := auth.UserIDFromContext(c.Request().Context())
	if s == "" {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid user id in token")
	}
	return id, nil
}
