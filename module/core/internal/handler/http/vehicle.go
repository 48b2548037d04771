package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

type trackingService interface {
	IngestFix(ctx context.Context, fix domain.TrackingFix) (domain.IngestResult, error)
	DeleteVehicle(ctx context.Context, id string) error
}

type vehicleReader interface {
	Get(ctx context.Context, id string) (*domain.Vehicle, error)
	List(ctx context.Context) ([]domain.Vehicle, error)
}

type positionReader interface {
	GetLatest(ctx context.Context, vehicleID string) (*domain.LocationPoint, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationPoint, error)
}

type positionResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Speed     float64 `json:"speed"`
	Heading   float64 `json:"heading"`
	Accuracy  float64 `json:"accuracy"`
	Timestamp int64   `json:"timestamp"`
}

type VehicleHandler struct {
	tracking  trackingService
	vehicles  vehicleReader
	positions positionReader
}

func NewVehicleHandler(tracking trackingService, vehicles vehicleReader, positions positionReader) *VehicleHandler {
	return &VehicleHandler{tracking: tracking, vehicles: vehicles, positions: positions}
}

func (h *VehicleHandler) Register(r *gin.RouterGroup) {
	r.POST("/tracking", h.IngestFix)
	r.GET("/vehicles", h.ListVehicles)
	r.GET("/vehicles/:vehicle_id", h.GetVehicle)
	r.DELETE("/vehicles/:vehicle_id", h.DeleteVehicle)
	r.GET("/vehicles/:vehicle_id/location", h.GetLatestLocation)
	r.GET("/vehicles/:vehicle_id/history", h.GetHistory)
}

func (h *VehicleHandler) IngestFix(c *gin.Context) {
	var fix domain.TrackingFix
	if err := c.ShouldBindJSON(&fix); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.tracking.IngestFix(c.Request.Context(), fix)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process fix"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *VehicleHandler) ListVehicles(c *gin.Context) {
	vehicles, err := h.vehicles.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch vehicles"})
		return
	}

	c.JSON(http.StatusOK, vehicles)
}

func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicle, err := h.vehicles.Get(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	c.JSON(http.StatusOK, vehicle)
}

func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	if err := h.tracking.DeleteVehicle(c.Request.Context(), c.Param("vehicle_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *VehicleHandler) GetLatestLocation(c *gin.Context) {
	p, err := h.positions.GetLatest(c.Request.Context(), c.Param("vehicle_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no positions for vehicle"})
		return
	}

	c.JSON(http.StatusOK, toPositionResponse(p))
}

func (h *VehicleHandler) GetHistory(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit parameter"})
			return
		}
		limit = n
	}

	points, err := h.positions.GetHistory(c.Request.Context(), &domain.HistoryQuery{
		VehicleID: c.Param("vehicle_id"),
		Start:     start,
		End:       end,
		Limit:     limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history"})
		return
	}

	results := make([]positionResponse, len(points))
	for i := range points {
		results[i] = toPositionResponse(&points[i])
	}
	c.JSON(http.StatusOK, results)
}

// parseRange reads start/end epoch-second query params, writing the error
// response itself on failure.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := strconv.ParseInt(c.Query("start"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start parameter"})
		return time.Time{}, time.Time{}, false
	}

	end, err := strconv.ParseInt(c.Query("end"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end parameter"})
		return time.Time{}, time.Time{}, false
	}

	return time.Unix(start, 0), time.Unix(end, 0), true
}

func toPositionResponse(p *domain.LocationPoint) positionResponse {
	return positionResponse{
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Speed:     p.Speed,
		Heading:   p.Heading,
		Accuracy:  p.Accuracy,
		Timestamp: p.Timestamp.Unix(),
	}
}
