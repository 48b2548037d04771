package domain

import "time"

type AlertType string

const (
	AlertSpeed         AlertType = "speed"
	AlertGeofenceEntry AlertType = "geofence_entry"
	AlertGeofenceExit  AlertType = "geofence_exit"
	AlertGeofenceDwell AlertType = "geofence_dwell"
	AlertSystem        AlertType = "system"
)

type AlertPriority string

const (
	PriorityCritical AlertPriority = "critical"
	PriorityWarning  AlertPriority = "warning"
	PriorityInfo     AlertPriority = "info"
)

// Alert is a side effect of trip or geofence evaluation, handed to the
// persistence and notification collaborators.
type Alert struct {
	ID           string        `json:"id"`
	Type         AlertType     `json:"type"`
	Priority     AlertPriority `json:"priority"`
	VehicleID    string        `json:"vehicleId"`
	VehicleName  string        `json:"vehicleName"`
	Message      string        `json:"message"`
	Timestamp    time.Time     `json:"timestamp"`
	Read         bool          `json:"read"`
	Latitude     float64       `json:"latitude,omitempty"`
	Longitude    float64       `json:"longitude,omitempty"`
	Speed        float64       `json:"speed,omitempty"`
	SpeedLimit   float64       `json:"speedLimit,omitempty"`
	GeofenceName string        `json:"geofenceName,omitempty"`
}
