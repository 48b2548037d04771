package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

type geofenceStore interface {
	List(ctx context.Context) ([]domain.Geofence, error)
	Get(ctx context.Context, id string) (*domain.Geofence, error)
	Create(ctx context.Context, g *domain.Geofence) error
	Update(ctx context.Context, g *domain.Geofence) error
	Delete(ctx context.Context, id string) error
}

type GeofenceHandler struct {
	fences geofenceStore
}

func NewGeofenceHandler(fences geofenceStore) *GeofenceHandler {
	return &GeofenceHandler{fences: fences}
}

func (h *GeofenceHandler) Register(r *gin.RouterGroup) {
	r.GET("/geofences", h.ListGeofences)
	r.GET("/geofences/:geofence_id", h.GetGeofence)
	r.POST("/geofences", h.CreateGeofence)
	r.PATCH("/geofences/:geofence_id", h.UpdateGeofence)
	r.DELETE("/geofences/:geofence_id", h.DeleteGeofence)
}

func (h *GeofenceHandler) ListGeofences(c *gin.Context) {
	fences, err := h.fences.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch geofences"})
		return
	}

	if fences == nil {
		fences = []domain.Geofence{}
	}
	c.JSON(http.StatusOK, fences)
}

func (h *GeofenceHandler) GetGeofence(c *gin.Context) {
	g, err := h.fences.Get(c.Request.Context(), c.Param("geofence_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
		return
	}

	c.JSON(http.StatusOK, g)
}

func (h *GeofenceHandler) CreateGeofence(c *gin.Context) {
	var g domain.Geofence
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if reason, ok := validFenceShape(&g); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}
	if g.ID == "" {
		g.ID = uuid.NewString()
	}

	if err := h.fences.Create(c.Request.Context(), &g); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create geofence"})
		return
	}

	c.JSON(http.StatusCreated, g)
}

func (h *GeofenceHandler) UpdateGeofence(c *gin.Context) {
	var g domain.Geofence
	if err := c.ShouldBindJSON(&g); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if reason, ok := validFenceShape(&g); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}
	g.ID = c.Param("geofence_id")

	if err := h.fences.Update(c.Request.Context(), &g); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
		return
	}

	c.JSON(http.StatusOK, g)
}

func (h *GeofenceHandler) DeleteGeofence(c *gin.Context) {
	if err := h.fences.Delete(c.Request.Context(), c.Param("geofence_id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "geofence not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func validFenceShape(g *domain.Geofence) (string, bool) {
	if g.Name == "" {
		return "missing name", false
	}
	switch g.Type {
	case domain.GeofenceCircle:
		if g.Center == nil || g.Radius <= 0 {
			return "circle requires center and positive radius", false
		}
	case domain.GeofencePolygon:
		if len(g.Points) < 3 {
			return "polygon requires at least 3 points", false
		}
	default:
		return "unknown geofence type", false
	}
	return "", true
}
