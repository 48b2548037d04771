package domain

import "time"

type RouteEventType string

const (
	EventDeparture      RouteEventType = "departure"
	EventArrival        RouteEventType = "arrival"
	EventStop           RouteEventType = "stop"
	EventSpeedViolation RouteEventType = "speed_violation"
	EventGeofenceEntry  RouteEventType = "geofence_entry"
	EventGeofenceExit   RouteEventType = "geofence_exit"
)

// RouteEvent is immutable once appended to a trip. Within a finalized trip
// the event list is sorted ascending by Timestamp.
type RouteEvent struct {
	ID           string         `json:"id"`
	Type         RouteEventType `json:"type"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	Timestamp    time.Time      `json:"timestamp"`
	Duration     float64        `json:"duration,omitempty"` // minutes
	Speed        float64        `json:"speed,omitempty"`
	SpeedLimit   float64        `json:"speedLimit,omitempty"`
	GeofenceName string         `json:"geofenceName,omitempty"`
	Address      string         `json:"address,omitempty"`
}

// Trip is a maximal run of fixes unbroken by a gap over the segmenter's
// trip-gap threshold. Immutable after finalization, which guarantees:
// StartTime == Points[0].Timestamp, EndTime == Points[last].Timestamp,
// StopsCount == stop events, TravelTime == wall-clock span in minutes and
// AverageSpeed == km travelled over moving hours (0 when nothing moved).
type Trip struct {
	ID            string          `json:"id"`
	VehicleID     string          `json:"vehicleId"`
	StartTime     time.Time       `json:"startTime"`
	EndTime       time.Time       `json:"endTime"`
	TotalDistance float64         `json:"totalDistance"` // meters
	TravelTime    float64         `json:"travelTime"`    // minutes
	StoppedTime   float64         `json:"stoppedTime"`   // minutes
	AverageSpeed  float64         `json:"averageSpeed"`  // km/h
	MaxSpeed      float64         `json:"maxSpeed"`      // km/h
	StopsCount    int             `json:"stopsCount"`
	Points        []LocationPoint `json:"points"`
	Events        []RouteEvent    `json:"events"`
}
