package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
)

// TripService rebuilds trips from position history. Replays are
// finalize-or-discard: trips land only as a complete batch.
type TripService struct {
	positions database.LocationRepository
	trips     database.TripRepository
	segmenter *Segmenter
	log       *zap.Logger
}

func NewTripService(positions database.LocationRepository, trips database.TripRepository,
	segmenter *Segmenter, log *zap.Logger) *TripService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TripService{positions: positions, trips: trips, segmenter: segmenter, log: log}
}

// Replay segments one vehicle's history over [start, end] and persists
// the result. An empty window is not an error.
func (s *TripService) Replay(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
	history, err := s.positions.GetHistory(ctx, &domain.HistoryQuery{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "load history", Err: err}
	}
	if len(history) == 0 {
		return nil, nil
	}

	trips, err := s.segmenter.Segment(vehicleID, history)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return nil, nil
	}

	// do not persist a batch whose caller already gave up
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.trips.InsertBatch(ctx, trips); err != nil {
		return nil, &domain.StorageError{Op: "persist trips", Err: err}
	}

	s.log.Info("replay finished",
		zap.String("vehicle", vehicleID),
		zap.Int("positions", len(history)),
		zap.Int("trips", len(trips)))
	return trips, nil
}

// ReplayAll runs Replay for each vehicle concurrently. The first failure
// cancels the rest; per-vehicle batches that already landed stay.
func (s *TripService) ReplayAll(ctx context.Context, vehicleIDs []string, start, end time.Time) (map[string][]domain.Trip, error) {
	results := make(map[string][]domain.Trip, len(vehicleIDs))
	var group errgroup.Group
	group.SetLimit(4)

	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	resultCh := make(chan struct {
		id    string
		trips []domain.Trip
	}, len(vehicleIDs))

	for _, id := range vehicleIDs {
		id := id
		group.Go(func() error {
			trips, err := s.Replay(gctx, id, start, end)
			if err != nil {
				cancel()
				return err
			}
			resultCh <- struct {
				id    string
				trips []domain.Trip
			}{id, trips}
			return nil
		})
	}

	err := group.Wait()
	close(resultCh)
	for r := range resultCh {
		if len(r.trips) > 0 {
			results[r.id] = r.trips
		}
	}
	return results, err
}

// ListTrips reads previously persisted trips back out.
func (s *TripService) ListTrips(ctx context.Context, vehicleID string, start, end time.Time) ([]domain.Trip, error) {
	trips, err := s.trips.ListRange(ctx, &domain.HistoryQuery{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return nil, &domain.StorageError{Op: "list trips", Err: err}
	}
	return trips, nil
}
