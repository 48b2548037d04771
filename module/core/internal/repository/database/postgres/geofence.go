package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/lib/pq"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
)

var _ database.GeofenceRepository = (*GeofenceRepo)(nil)

// GeofenceRepo stores the variable parts of a fence (shape and rules) as
// jsonb so circles and polygons share one table.
type GeofenceRepo struct {
	db *sql.DB
}

func NewGeofenceRepo(db *sql.DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

type fenceShape struct {
	Center *domain.Position  `json:"center,omitempty"`
	Radius float64           `json:"radius,omitempty"`
	Points []domain.Position `json:"points,omitempty"`
}

const fenceColumns = `id, name, description, type, active, shape, rules, vehicle_ids, last_triggered, color`

func (r *GeofenceRepo) List(ctx context.Context) ([]domain.Geofence, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+fenceColumns+` FROM geofences ORDER BY name ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Geofence
	for rows.Next() {
		g, err := scanFence(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *g)
	}
	return results, rows.Err()
}

func (r *GeofenceRepo) Get(ctx context.Context, id string) (*domain.Geofence, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+fenceColumns+` FROM geofences WHERE id = $1`,
		id,
	)
	return scanFence(row)
}

func (r *GeofenceRepo) Create(ctx context.Context, g *domain.Geofence) error {
	shape, rules, err := encodeFence(g)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO geofences (id, name, description, type, active, shape, rules, vehicle_ids, last_triggered, color) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		g.ID, g.Name, g.Description, g.Type, g.Active, shape, rules, pq.Array(g.VehicleIDs), g.LastTriggered, g.Color,
	)
	return err
}

func (r *GeofenceRepo) Update(ctx context.Context, g *domain.Geofence) error {
	shape, rules, err := encodeFence(g)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE geofences SET name = $2, description = $3, type = $4, active = $5, shape = $6, rules = $7, vehicle_ids = $8, last_triggered = $9, color = $10 WHERE id = $1`,
		g.ID, g.Name, g.Description, g.Type, g.Active, shape, rules, pq.Array(g.VehicleIDs), g.LastTriggered, g.Color,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *GeofenceRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM geofences WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func encodeFence(g *domain.Geofence) ([]byte, []byte, error) {
	shape, err := json.Marshal(fenceShape{Center: g.Center, Radius: g.Radius, Points: g.Points})
	if err != nil {
		return nil, nil, err
	}
	rules, err := json.Marshal(g.Rules)
	if err != nil {
		return nil, nil, err
	}
	return shape, rules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFence(row rowScanner) (*domain.Geofence, error) {
	var (
		g        domain.Geofence
		shapeRaw []byte
		rulesRaw []byte
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Description, &g.Type, &g.Active,
		&shapeRaw, &rulesRaw, pq.Array(&g.VehicleIDs), &g.LastTriggered, &g.Color); err != nil {
		return nil, err
	}

	var shape fenceShape
	if err := json.Unmarshal(shapeRaw, &shape); err != nil {
		return nil, err
	}
	g.Center = shape.Center
	g.Radius = shape.Radius
	g.Points = shape.Points

	if len(rulesRaw) > 0 {
		if err := json.Unmarshal(rulesRaw, &g.Rules); err != nil {
			return nil, err
		}
	}
	return &g, nil
}
