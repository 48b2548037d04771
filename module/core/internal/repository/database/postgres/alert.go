package postgres

import (
	"context"
	"database/sql"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
)

var _ database.AlertRepository = (*AlertRepo)(nil)

type AlertRepo struct {
	db *sql.DB
}

func NewAlertRepo(db *sql.DB) *AlertRepo {
	return &AlertRepo{db: db}
}

func (r *AlertRepo) Insert(ctx context.Context, a *domain.Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, type, priority, vehicle_id, vehicle_name, message, timestamp, read, latitude, longitude, speed, speed_limit, geofence_name) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, a.Type, a.Priority, a.VehicleID, a.VehicleName, a.Message, a.Timestamp, a.Read,
		a.Latitude, a.Longitude, a.Speed, a.SpeedLimit, a.GeofenceName,
	)
	return err
}

func (r *AlertRepo) List(ctx context.Context) ([]domain.Alert, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, type, priority, vehicle_id, vehicle_name, message, timestamp, read, latitude, longitude, speed, speed_limit, geofence_name FROM alerts ORDER BY timestamp DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.Type, &a.Priority, &a.VehicleID, &a.VehicleName, &a.Message,
			&a.Timestamp, &a.Read, &a.Latitude, &a.Longitude, &a.Speed, &a.SpeedLimit, &a.GeofenceName); err != nil {
			return nil, err
		}
		results = append(results, a)
	}
	return results, rows.Err()
}

func (r *AlertRepo) MarkAllRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `UPDATE alerts SET read = TRUE WHERE read = FALSE`)
	return err
}

func (r *AlertRepo) ClearRead(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM alerts WHERE read = TRUE`)
	return err
}
