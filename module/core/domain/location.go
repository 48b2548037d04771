package domain

import "time"

// LocationPoint is one immutable GPS sample inside a vehicle's stream.
// Streams are ordered by Timestamp; segmentation rejects violations.
type LocationPoint struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Speed     float64   `json:"speed"`
	Heading   float64   `json:"heading"`
	Timestamp time.Time `json:"timestamp"`
	Accuracy  float64   `json:"accuracy,omitempty"`
}

// Position is a bare coordinate pair, used where speed and heading do not
// matter (geofence containment, polygon vertices, circle centers).
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type HistoryQuery struct {
	VehicleID string
	Start     time.Time
	End       time.Time
	Limit     int
}
