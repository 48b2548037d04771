package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

func sampleTrip(id string) domain.Trip {
	start := time.Date(2024, 5, 6, 8, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:            id,
		VehicleID:     "v1",
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
		TotalDistance: 12000,
		TravelTime:    30,
		StoppedTime:   5,
		AverageSpeed:  28.8,
		MaxSpeed:      60,
		StopsCount:    1,
		Points: []domain.LocationPoint{
			{Latitude: -23.55, Longitude: -46.63, Speed: 40, Timestamp: start},
		},
		Events: []domain.RouteEvent{
			{ID: "e1", Type: domain.EventDeparture, Latitude: -23.55, Longitude: -46.63, Timestamp: start},
		},
	}
}

func TestTripInsertBatch_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO trips`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO trips`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewTripRepo(db)
	err = repo.InsertBatch(context.Background(), []domain.Trip{sampleTrip("t1"), sampleTrip("t2")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTripInsertBatch_RollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO trips`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO trips`).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	repo := NewTripRepo(db)
	err = repo.InsertBatch(context.Background(), []domain.Trip{sampleTrip("t1"), sampleTrip("t2")})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTripInsertBatch_EmptyIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	repo := NewTripRepo(db)
	if err := repo.InsertBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTripListRange_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	trip := sampleTrip("t1")

	rows := sqlmock.NewRows([]string{
		"id", "vehicle_id", "start_time", "end_time", "total_distance", "travel_time",
		"stopped_time", "average_speed", "max_speed", "stops_count", "points", "events",
	}).AddRow(
		trip.ID, trip.VehicleID, trip.StartTime, trip.EndTime, trip.TotalDistance, trip.TravelTime,
		trip.StoppedTime, trip.AverageSpeed, trip.MaxSpeed, trip.StopsCount,
		[]byte(`[{"latitude":-23.55,"longitude":-46.63,"speed":40,"heading":0,"timestamp":"2024-05-06T08:00:00Z","accuracy":0}]`),
		[]byte(`[{"id":"e1","type":"departure","latitude":-23.55,"longitude":-46.63,"timestamp":"2024-05-06T08:00:00Z"}]`),
	)

	mock.ExpectQuery(`SELECT (.+) FROM trips WHERE vehicle_id = (.+) AND start_time >= (.+) AND start_time <= (.+) ORDER BY start_time ASC`).
		WithArgs("v1", start, end).
		WillReturnRows(rows)

	repo := NewTripRepo(db)
	results, err := repo.ListRange(context.Background(), &domain.HistoryQuery{
		VehicleID: "v1", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 trip, got %d", len(results))
	}
	if len(results[0].Points) != 1 || len(results[0].Events) != 1 {
		t.Errorf("expected point and event lists rebuilt, got %d/%d",
			len(results[0].Points), len(results[0].Events))
	}
	if results[0].Events[0].Type != domain.EventDeparture {
		t.Errorf("expected departure event, got %q", results[0].Events[0].Type)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestTripListRange_Empty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	rows := sqlmock.NewRows([]string{
		"id", "vehicle_id", "start_time", "end_time", "total_distance", "travel_time",
		"stopped_time", "average_speed", "max_speed", "stops_count", "points", "events",
	})

	mock.ExpectQuery(`SELECT (.+) FROM trips`).
		WithArgs("v1", start, end).
		WillReturnRows(rows)

	repo := NewTripRepo(db)
	results, err := repo.ListRange(context.Background(), &domain.HistoryQuery{
		VehicleID: "v1", Start: start, End: end,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 trips, got %d", len(results))
	}
}
