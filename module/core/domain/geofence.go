package domain

import "time"

type GeofenceType string

const (
	GeofenceCircle  GeofenceType = "circle"
	GeofencePolygon GeofenceType = "polygon"
)

type GeofenceRuleType string

const (
	RuleEntry         GeofenceRuleType = "entry"
	RuleExit          GeofenceRuleType = "exit"
	RuleDwell         GeofenceRuleType = "dwell"
	RuleTimeViolation GeofenceRuleType = "time_violation"
)

type GeofenceRule struct {
	Type             GeofenceRuleType `json:"type"`
	Enabled          bool             `json:"enabled"`
	DwellTimeMinutes float64          `json:"dwellTimeMinutes,omitempty"`
	ToleranceSeconds float64          `json:"toleranceSeconds,omitempty"`
	StartTime        string           `json:"startTime,omitempty"` // HH:MM, time_violation only
	EndTime          string           `json:"endTime,omitempty"`   // HH:MM
}

// Geofence is a named region with per-rule transition semantics.
// Center+Radius are required for circles, Points (>=3) for polygons.
type Geofence struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Type          GeofenceType   `json:"type"`
	Active        bool           `json:"active"`
	Center        *Position      `json:"center,omitempty"`
	Radius        float64        `json:"radius,omitempty"` // meters
	Points        []Position     `json:"points,omitempty"`
	Rules         []GeofenceRule `json:"rules"`
	VehicleIDs    []string       `json:"vehicleIds"`
	LastTriggered *time.Time     `json:"lastTriggered,omitempty"`
	Color         string         `json:"color,omitempty"`
}

// AssignedTo reports whether the fence applies to the given vehicle.
// An empty assignment list means the fence applies to every vehicle.
func (g *Geofence) AssignedTo(vehicleID string) bool {
	if len(g.VehicleIDs) == 0 {
		return true
	}
	for _, id := range g.VehicleIDs {
		if id == vehicleID {
			return true
		}
	}
	return false
}

// Rule returns the first enabled rule of the given type, or nil.
func (g *Geofence) Rule(t GeofenceRuleType) *GeofenceRule {
	for i := range g.Rules {
		if g.Rules[i].Type == t && g.Rules[i].Enabled {
			return &g.Rules[i]
		}
	}
	return nil
}

// ContainmentState is the per-(vehicle, geofence) memory the evaluator
// carries between fixes. Debouncing needs the time a candidate flip began,
// not just the confirmed boolean.
type ContainmentState struct {
	Inside         bool       `json:"inside"`
	Observed       bool       `json:"observed"` // false until the first fix is seen
	LastSeen       time.Time  `json:"lastSeen"`
	CandidateSince *time.Time `json:"candidateSince,omitempty"`
	InsideSince    *time.Time `json:"insideSince,omitempty"`
	DwellFired     bool       `json:"dwellFired"`
	WindowFired    bool       `json:"windowFired"`
}

// ContainmentStates is keyed by geofence id for a single vehicle.
type ContainmentStates map[string]ContainmentState

// Transition is one confirmed geofence state change or rule firing.
type Transition struct {
	GeofenceID   string           `json:"geofenceId"`
	GeofenceName string           `json:"geofenceName"`
	Rule         GeofenceRuleType `json:"rule"`
	Position     Position         `json:"position"`
	Timestamp    time.Time        `json:"timestamp"`
}
