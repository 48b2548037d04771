package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

type alertStore interface {
	List(ctx context.Context) ([]domain.Alert, error)
	MarkAllRead(ctx context.Context) error
	ClearRead(ctx context.Context) error
}

type AlertHandler struct {
	alerts alertStore
}

func NewAlertHandler(alerts alertStore) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

func (h *AlertHandler) Register(r *gin.RouterGroup) {
	r.GET("/alerts", h.ListAlerts)
	r.POST("/alerts/read", h.MarkAllRead)
	r.DELETE("/alerts/read", h.ClearRead)
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alerts.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	if alerts == nil {
		alerts = []domain.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) MarkAllRead(c *gin.Context) {
	if err := h.alerts.MarkAllRead(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to mark alerts read"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AlertHandler) ClearRead(c *gin.Context) {
	if err := h.alerts.ClearRead(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear alerts"})
		return
	}

	c.Status(http.StatusNoContent)
}
