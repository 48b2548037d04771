package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

type tripService interface {
	ListTrips(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error)
	Replay(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error)
}

type TripHandler struct {
	trips tripService
}

func NewTripHandler(trips tripService) *TripHandler {
	return &TripHandler{trips: trips}
}

func (h *TripHandler) Register(r *gin.RouterGroup) {
	r.GET("/trips", h.ListTrips)
	r.POST("/trips/replay", h.Replay)
}

func (h *TripHandler) ListTrips(c *gin.Context) {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vehicle_id parameter"})
		return
	}
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	trips, err := h.trips.ListTrips(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch trips"})
		return
	}

	if trips == nil {
		trips = []domain.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}

// Replay rebuilds trips from stored positions for one vehicle and window.
func (h *TripHandler) Replay(c *gin.Context) {
	vehicleID := c.Query("vehicle_id")
	if vehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing vehicle_id parameter"})
		return
	}
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	trips, err := h.trips.Replay(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		var verr *domain.ValidationError
		var serr *domain.SequenceError
		if errors.As(err, &verr) || errors.As(err, &serr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "replay failed"})
		return
	}

	if trips == nil {
		trips = []domain.Trip{}
	}
	c.JSON(http.StatusOK, trips)
}
