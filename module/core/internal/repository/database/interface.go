package database

import (
	"context"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

// LocationRepository is the append-only position history log. Histories
// come back in ascending timestamp order.
type LocationRepository interface {
	Insert(ctx context.Context, vehicleID string, p *domain.LocationPoint) error
	GetLatest(ctx context.Context, vehicleID string) (*domain.LocationPoint, error)
	GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationPoint, error)
}

type GeofenceRepository interface {
	List(ctx context.Context) ([]domain.Geofence, error)
	Get(ctx context.Context, id string) (*domain.Geofence, error)
	Create(ctx context.Context, g *domain.Geofence) error
	Update(ctx context.Context, g *domain.Geofence) error
	Delete(ctx context.Context, id string) error
}

type AlertRepository interface {
	Insert(ctx context.Context, a *domain.Alert) error
	List(ctx context.Context) ([]domain.Alert, error)
	MarkAllRead(ctx context.Context) error
	ClearRead(ctx context.Context) error
}

// TripRepository persists finalized trips. InsertBatch is transactional:
// either every trip of a replay lands or none does.
type TripRepository interface {
	InsertBatch(ctx context.Context, trips []domain.Trip) error
	ListRange(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error)
}
