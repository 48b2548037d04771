package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

type mockTripService struct {
	listFn   func(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error)
	replayFn func(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error)
}

func (m *mockTripService) ListTrips(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
	return m.listFn(ctx, vehicleID, start, end)
}

func (m *mockTripService) Replay(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
	return m.replayFn(ctx, vehicleID, start, end)
}

func setupTripRouter(svc tripService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewTripHandler(svc)
	h.Register(r.Group(""))
	return r
}

func TestListTrips_Success(t *testing.T) {
	svc := &mockTripService{
		listFn: func(_ context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
			if vehicleID != "v1" {
				t.Fatalf("unexpected vehicle id: %s", vehicleID)
			}
			return []domain.Trip{{ID: "t1", VehicleID: "v1"}}, nil
		},
	}

	r := setupTripRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/trips?vehicle_id=v1&start=1715000000&end=1715009999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp []domain.Trip
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp) != 1 || resp[0].ID != "t1" {
		t.Errorf("unexpected trips: %+v", resp)
	}
}

func TestListTrips_MissingVehicleID(t *testing.T) {
	r := setupTripRouter(&mockTripService{})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/trips?start=1715000000&end=1715009999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestListTrips_EmptyIsJSONArray(t *testing.T) {
	svc := &mockTripService{
		listFn: func(_ context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
			return nil, nil
		},
	}

	r := setupTripRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/trips?vehicle_id=v1&start=0&end=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "[]" {
		t.Errorf("expected empty JSON array, got %s", w.Body.String())
	}
}

func TestReplay_Success(t *testing.T) {
	svc := &mockTripService{
		replayFn: func(_ context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
			return []domain.Trip{{ID: "t1", VehicleID: vehicleID}}, nil
		},
	}

	r := setupTripRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/trips/replay?vehicle_id=v1&start=1715000000&end=1715009999", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestReplay_MalformedHistory(t *testing.T) {
	svc := &mockTripService{
		replayFn: func(_ context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
			return nil, &domain.SequenceError{VehicleID: vehicleID, Index: 3}
		},
	}

	r := setupTripRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/trips/replay?vehicle_id=v1&start=0&end=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestReplay_StorageError(t *testing.T) {
	svc := &mockTripService{
		replayFn: func(_ context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
			return nil, &domain.StorageError{Op: "persist trips", Err: errors.New("down")}
		},
	}

	r := setupTripRouter(svc)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/trips/replay?vehicle_id=v1&start=0&end=1", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
