package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

func sampleVehicle(id, plate string) *domain.Vehicle {
	return &domain.Vehicle{
		ID:           id,
		Name:         plate,
		LicensePlate: plate,
		Status:       domain.StatusMoving,
		Ignition:     domain.IgnitionOn,
		CurrentSpeed: 40,
		SpeedLimit:   80,
		LastUpdate:   time.Unix(1715003456, 0),
	}
}

func TestMemoryStore_PutAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, sampleVehicle("v1", "ABC-1234")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := s.Get(ctx, "v1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.LicensePlate != "ABC-1234" {
		t.Errorf("expected ABC-1234, got %s", v.LicensePlate)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore()
	_, err := s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
}

func TestMemoryStore_FindByPlateCaseInsensitive(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleVehicle("v1", "ABC-1234"))

	for _, plate := range []string{"ABC-1234", "abc-1234", "Abc-1234"} {
		v, err := s.FindByPlate(ctx, plate)
		if err != nil {
			t.Fatalf("plate %q: unexpected error: %v", plate, err)
		}
		if v.ID != "v1" {
			t.Errorf("plate %q: expected v1, got %s", plate, v.ID)
		}
	}
}

func TestMemoryStore_PlateReindexedOnChange(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleVehicle("v1", "ABC-1234"))

	renamed := sampleVehicle("v1", "XYZ-9999")
	_ = s.Put(ctx, renamed)

	if _, err := s.FindByPlate(ctx, "ABC-1234"); !errors.Is(err, ErrVehicleNotFound) {
		t.Error("old plate must no longer resolve")
	}
	if _, err := s.FindByPlate(ctx, "xyz-9999"); err != nil {
		t.Errorf("new plate must resolve: %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleVehicle("v1", "ABC-1234"))

	if err := s.Delete(ctx, "v1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Get(ctx, "v1"); !errors.Is(err, ErrVehicleNotFound) {
		t.Error("deleted vehicle must be gone")
	}
	if err := s.Delete(ctx, "v1"); !errors.Is(err, ErrVehicleNotFound) {
		t.Error("double delete must report not found")
	}
}

func TestMemoryStore_ListSortedByName(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	_ = s.Put(ctx, sampleVehicle("v2", "DEF-5678"))
	_ = s.Put(ctx, sampleVehicle("v1", "ABC-1234"))

	out, err := s.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(out))
	}
	if out[0].Name != "ABC-1234" {
		t.Errorf("expected ABC-1234 first, got %s", out[0].Name)
	}
}

func TestMemoryStore_SubscribeAndCancel(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	var seen []string
	cancel := s.Subscribe(func(v domain.Vehicle) {
		seen = append(seen, v.ID)
	})

	_ = s.Put(ctx, sampleVehicle("v1", "ABC-1234"))
	cancel()
	_ = s.Put(ctx, sampleVehicle("v2", "DEF-5678"))

	if len(seen) != 1 || seen[0] != "v1" {
		t.Fatalf("expected exactly one notification for v1, got %v", seen)
	}
}
