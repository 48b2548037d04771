package domain

import "time"

type VehicleStatus string

const (
	StatusMoving  VehicleStatus = "moving"
	StatusStopped VehicleStatus = "stopped"
	StatusIdle    VehicleStatus = "idle"
	StatusOffline VehicleStatus = "offline"
)

type IgnitionStatus string

const (
	IgnitionOn  IgnitionStatus = "on"
	IgnitionOff IgnitionStatus = "off"
)

// Vehicle is the live state for one tracked unit. It is created on the
// first fix seen for an unknown license plate and mutated on every
// subsequent fix; offline status comes from a separate staleness sweep.
type Vehicle struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	LicensePlate string         `json:"licensePlate"`
	Model        string         `json:"model,omitempty"`
	Status       VehicleStatus  `json:"status"`
	Ignition     IgnitionStatus `json:"ignition"`
	CurrentSpeed float64        `json:"currentSpeed"`
	SpeedLimit   float64        `json:"speedLimit"`
	Heading      float64        `json:"heading"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Accuracy     float64        `json:"accuracy"`
	LastUpdate   time.Time      `json:"lastUpdate"`
	BatteryLevel *float64       `json:"batteryLevel,omitempty"`
}

// TrackingFix is one raw report from a GPS device, keyed by license plate.
type TrackingFix struct {
	LicensePlate string    `json:"licensePlate" validate:"required"`
	Latitude     float64   `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64   `json:"longitude" validate:"gte=-180,lte=180"`
	CurrentSpeed float64   `json:"currentSpeed" validate:"gte=0"`
	Heading      float64   `json:"heading,omitempty"`
	Timestamp    time.Time `json:"timestamp,omitempty"`
}

// IngestResult is what one processed fix produced.
type IngestResult struct {
	Vehicle Vehicle      `json:"vehicle"`
	Events  []RouteEvent `json:"events"`
	Alerts  []Alert      `json:"alerts"`
}
