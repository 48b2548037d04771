package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
)

var _ database.TripRepository = (*TripRepo)(nil)

// TripRepo stores finalized trips with their point and event lists as
// jsonb. InsertBatch runs in a single transaction.
type TripRepo struct {
	db *sql.DB
}

func NewTripRepo(db *sql.DB) *TripRepo {
	return &TripRepo{db: db}
}

func (r *TripRepo) InsertBatch(ctx context.Context, trips []domain.Trip) error {
	if len(trips) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for i := range trips {
		t := &trips[i]
		points, err := json.Marshal(t.Points)
		if err != nil {
			return err
		}
		events, err := json.Marshal(t.Events)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO trips (id, vehicle_id, start_time, end_time, total_distance, travel_time, stopped_time, average_speed, max_speed, stops_count, points, events) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			t.ID, t.VehicleID, t.StartTime, t.EndTime, t.TotalDistance, t.TravelTime,
			t.StoppedTime, t.AverageSpeed, t.MaxSpeed, t.StopsCount, points, events,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *TripRepo) ListRange(ctx context.Context, query *domain.HistoryQuery) ([]domain.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, vehicle_id, start_time, end_time, total_distance, travel_time, stopped_time, average_speed, max_speed, stops_count, points, events FROM trips WHERE vehicle_id = $1 AND start_time >= $2 AND start_time <= $3 ORDER BY start_time ASC`,
		query.VehicleID, query.Start, query.End,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Trip
	for rows.Next() {
		var (
			t      domain.Trip
			points []byte
			events []byte
		)
		if err := rows.Scan(&t.ID, &t.VehicleID, &t.StartTime, &t.EndTime, &t.TotalDistance,
			&t.TravelTime, &t.StoppedTime, &t.AverageSpeed, &t.MaxSpeed, &t.StopsCount,
			&points, &events); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(points, &t.Points); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(events, &t.Events); err != nil {
			return nil, err
		}
		results = append(results, t)
	}
	return results, rows.Err()
}
