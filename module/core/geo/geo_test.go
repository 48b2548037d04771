package geo

import (
	"math"
	"testing"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

func TestDistance_SamePoint(t *testing.T) {
	d := Distance(-23.5505, -46.6333, -23.5505, -46.6333)
	if d != 0 {
		t.Errorf("expected 0, got %f", d)
	}
}

func TestDistance_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{-23.5505, -46.6333, -23.5515, -46.6343},
		{0, 0, 10, 10},
		{89.9, 179.9, -89.9, -179.9},
		{-6.2088, 106.8456, -6.9175, 107.6191},
	}
	for _, p := range pairs {
		ab := Distance(p[0], p[1], p[2], p[3])
		ba := Distance(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %f vs %f", ab, ba)
		}
	}
}

func TestDistance_KnownValue(t *testing.T) {
	// São Paulo centro to Paulista, roughly 110m per 0.001 degree of latitude
	d := Distance(-23.5505, -46.6333, -23.5605, -46.6333)
	if d < 1000 || d > 1300 {
		t.Errorf("expected ~1110m, got %f", d)
	}

	// Jakarta to Bandung, ~115-120 km
	d = Distance(-6.2, 106.816, -6.9175, 107.6191)
	if d < 100000 || d > 140000 {
		t.Errorf("expected ~118km, got %f", d)
	}
}

func TestDistance_NearAntipodal(t *testing.T) {
	d := Distance(0, 0, 0, 179.999)
	if math.IsNaN(d) || d <= 0 {
		t.Errorf("expected positive finite distance, got %f", d)
	}
	// half the Earth's circumference is ~20015km
	if d < 19900000 || d > 20100000 {
		t.Errorf("expected ~20015km, got %f", d)
	}
}

func TestPointInPolygon(t *testing.T) {
	square := []domain.Position{
		{Latitude: -23.5200, Longitude: -46.6400},
		{Latitude: -23.5200, Longitude: -46.6200},
		{Latitude: -23.5350, Longitude: -46.6200},
		{Latitude: -23.5350, Longitude: -46.6400},
	}

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"center", -23.5275, -46.6300, true},
		{"outside north", -23.5100, -46.6300, false},
		{"outside east", -23.5275, -46.6100, false},
		{"far away", 10, 10, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointInPolygon(tt.lat, tt.lon, square); got != tt.want {
				t.Errorf("PointInPolygon(%f, %f) = %v, want %v", tt.lat, tt.lon, got, tt.want)
			}
		})
	}
}

func TestPointInPolygon_TooFewVertices(t *testing.T) {
	line := []domain.Position{
		{Latitude: 0, Longitude: 0},
		{Latitude: 1, Longitude: 1},
	}
	if PointInPolygon(0.5, 0.5, line) {
		t.Error("degenerate ring must never contain a point")
	}
}

func TestPointInPolygon_Concave(t *testing.T) {
	// L-shaped ring; the notch is outside
	l := []domain.Position{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 4},
		{Latitude: 2, Longitude: 4},
		{Latitude: 2, Longitude: 2},
		{Latitude: 4, Longitude: 2},
		{Latitude: 4, Longitude: 0},
	}
	if !PointInPolygon(1, 3, l) {
		t.Error("expected point in the wide arm to be inside")
	}
	if PointInPolygon(3, 3, l) {
		t.Error("expected point in the notch to be outside")
	}
}
