package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Handler serves liveness. ping, when set, is checked against the store.
type Handler struct {
	ping func(ctx context.Context) error
}

func NewHandler(ping func(ctx context.Context) error) *Handler { return &Handler{ping: ping} }

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
	Time   string `json:"time"`
}

func (h *Handler) Health(c echo.Context) error {
	res := healthResponse{Status: "ok", Time: time.Now().UTC().Format(time.RFC3339Nano)}
	if h.ping == nil {
		return c.JSON(http.StatusOK, res)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := h.ping(ctx); err != nil {
		c.Logger().Errorf("health: store ping: %v", err)
		res.Status, res.Store = "degraded", "down"
		return c.JSON(http.StatusServiceUnavailable, res)
	}
	res.Store = "up"
	return c.JSON(http.StatusOK, res)
}
