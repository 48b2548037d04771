package postgres

import (
	"context"
	"database/sql"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, vehicleID string, p *domain.LocationPoint) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_positions (vehicle_id, latitude, longitude, speed, heading, accuracy, timestamp) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		vehicleID, p.Latitude, p.Longitude, p.Speed, p.Heading, p.Accuracy, p.Timestamp,
	)
	return err
}

func (r *LocationRepo) GetLatest(ctx context.Context, vehicleID string) (*domain.LocationPoint, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT latitude, longitude, speed, heading, accuracy, timestamp FROM vehicle_positions WHERE vehicle_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		vehicleID,
	)

	var p domain.LocationPoint
	if err := row.Scan(&p.Latitude, &p.Longitude, &p.Speed, &p.Heading, &p.Accuracy, &p.Timestamp); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.LocationPoint, error) {
	q := `SELECT latitude, longitude, speed, heading, accuracy, timestamp FROM vehicle_positions WHERE vehicle_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`
	args := []any{query.VehicleID, query.Start, query.End}
	if query.Limit > 0 {
		q += ` LIMIT $4`
		args = append(args, query.Limit)
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.LocationPoint
	for rows.Next() {
		var p domain.LocationPoint
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Speed, &p.Heading, &p.Accuracy, &p.Timestamp); err != nil {
			return nil, err
		}
		results = append(results, p)
	}
	return results, rows.Err()
}
