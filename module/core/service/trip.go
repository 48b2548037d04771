package service

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/geo"
)

// SegmenterConfig holds the thresholds that bound trips and stops.
type SegmenterConfig struct {
	StopSpeedThreshold float64       // km/h; at or below is "stopped"
	MinStopDuration    time.Duration // stops shorter than this are not surfaced
	TripGap            time.Duration // a larger gap between fixes splits trips
}

func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		StopSpeedThreshold: 5,
		MinStopDuration:    5 * time.Minute,
		TripGap:            30 * time.Minute,
	}
}

// Segmenter partitions a time-ordered point stream for one vehicle into
// trips and derives the per-trip event timeline.
type Segmenter struct {
	cfg SegmenterConfig
}

func NewSegmenter(cfg SegmenterConfig) *Segmenter {
	if cfg.StopSpeedThreshold == 0 && cfg.MinStopDuration == 0 && cfg.TripGap == 0 {
		cfg = DefaultSegmenterConfig()
	}
	return &Segmenter{cfg: cfg}
}

// Segment converts the ordered point stream into zero or more finalized
// trips. Input points must be non-decreasing in time; a violation is a
// SequenceError, not something to repair. Every input point ends up in
// exactly one trip, in its original order.
func (s *Segmenter) Segment(vehicleID string, points []domain.LocationPoint) ([]domain.Trip, error) {
	if len(points) == 0 {
		return nil, domain.NewValidationError("points", "must not be empty")
	}
	for i, p := range points {
		if err := validatePoint(&p); err != nil {
			return nil, err
		}
		if i > 0 && p.Timestamp.Before(points[i-1].Timestamp) {
			return nil, &domain.SequenceError{VehicleID: vehicleID, Index: i}
		}
	}

	var trips []domain.Trip
	cur := newTripBuilder(vehicleID, points[0])
	s.trackStop(cur, points[0])

	for i := 1; i < len(points); i++ {
		p := points[i]
		last := cur.lastPoint()

		if p.Timestamp.Sub(last.Timestamp) > s.cfg.TripGap {
			trips = append(trips, cur.close(last))
			cur = newTripBuilder(vehicleID, p)
		} else {
			cur.append(p)
		}
		s.trackStop(cur, p)
	}

	// trailing open stop is closed against the trip's end
	s.closeOpenStop(cur, cur.endTime, cur.lastPoint())
	trips = append(trips, cur.close(cur.lastPoint()))

	return trips, nil
}

// trackStop opens a stop interval when speed falls to the threshold and
// closes it when movement resumes, surfacing it only past MinStopDuration.
func (s *Segmenter) trackStop(b *tripBuilder, p domain.LocationPoint) {
	if p.Speed <= s.cfg.StopSpeedThreshold {
		if b.stopStart == nil {
			ts := p.Timestamp
			b.stopStart = &ts
		}
		return
	}
	s.closeOpenStop(b, p.Timestamp, p)
}

func (s *Segmenter) closeOpenStop(b *tripBuilder, until time.Time, at domain.LocationPoint) {
	if b.stopStart == nil {
		return
	}
	dur := until.Sub(*b.stopStart)
	if dur >= s.cfg.MinStopDuration {
		b.events = append(b.events, domain.RouteEvent{
			ID:        uuid.NewString(),
			Type:      domain.EventStop,
			Latitude:  at.Latitude,
			Longitude: at.Longitude,
			Timestamp: *b.stopStart,
			Duration:  dur.Minutes(),
		})
		b.stoppedTime += dur.Minutes()
	}
	b.stopStart = nil
}

// tripBuilder accumulates one in-progress trip.
type tripBuilder struct {
	vehicleID     string
	startTime     time.Time
	endTime       time.Time
	points        []domain.LocationPoint
	events        []domain.RouteEvent
	totalDistance float64
	maxSpeed      float64
	stoppedTime   float64 // minutes
	stopStart     *time.Time
}

// newTripBuilder opens a trip at the given point and records its departure.
func newTripBuilder(vehicleID string, first domain.LocationPoint) *tripBuilder {
	b := &tripBuilder{
		vehicleID: vehicleID,
		startTime: first.Timestamp,
		endTime:   first.Timestamp,
		maxSpeed:  first.Speed,
		points:    []domain.LocationPoint{first},
	}
	b.events = append(b.events, domain.RouteEvent{
		ID:        uuid.NewString(),
		Type:      domain.EventDeparture,
		Latitude:  first.Latitude,
		Longitude: first.Longitude,
		Timestamp: first.Timestamp,
	})
	return b
}

func (b *tripBuilder) lastPoint() domain.LocationPoint {
	return b.points[len(b.points)-1]
}

func (b *tripBuilder) append(p domain.LocationPoint) {
	prev := b.lastPoint()
	b.totalDistance += geo.Distance(prev.Latitude, prev.Longitude, p.Latitude, p.Longitude)
	b.points = append(b.points, p)
	b.endTime = p.Timestamp
	if p.Speed > b.maxSpeed {
		b.maxSpeed = p.Speed
	}
}

// close brackets the trip with an arrival at the given point and finalizes
// it: derived stats computed, events sorted, no further mutation.
func (b *tripBuilder) close(arrivalAt domain.LocationPoint) domain.Trip {
	b.events = append(b.events, domain.RouteEvent{
		ID:        uuid.NewString(),
		Type:      domain.EventArrival,
		Latitude:  arrivalAt.Latitude,
		Longitude: arrivalAt.Longitude,
		Timestamp: arrivalAt.Timestamp,
	})

	travelTime := b.endTime.Sub(b.startTime).Minutes()

	stopsCount := 0
	for _, e := range b.events {
		if e.Type == domain.EventStop {
			stopsCount++
		}
	}

	movementTime := travelTime - b.stoppedTime
	averageSpeed := 0.0
	if movementTime > 0 {
		averageSpeed = (b.totalDistance / 1000) / (movementTime / 60)
	}

	sort.SliceStable(b.events, func(i, j int) bool {
		return b.events[i].Timestamp.Before(b.events[j].Timestamp)
	})

	return domain.Trip{
		ID:            uuid.NewString(),
		VehicleID:     b.vehicleID,
		StartTime:     b.startTime,
		EndTime:       b.endTime,
		TotalDistance: b.totalDistance,
		TravelTime:    travelTime,
		StoppedTime:   b.stoppedTime,
		AverageSpeed:  averageSpeed,
		MaxSpeed:      b.maxSpeed,
		StopsCount:    stopsCount,
		Points:        b.points,
		Events:        b.events,
	}
}

func validatePoint(p *domain.LocationPoint) error {
	switch {
	case !isFinite(p.Latitude) || p.Latitude < -90 || p.Latitude > 90:
		return domain.NewValidationError("latitude", "must be a finite value between -90 and 90")
	case !isFinite(p.Longitude) || p.Longitude < -180 || p.Longitude > 180:
		return domain.NewValidationError("longitude", "must be a finite value between -180 and 180")
	case !isFinite(p.Speed) || p.Speed < 0:
		return domain.NewValidationError("speed", "must be a finite non-negative value")
	case p.Timestamp.IsZero():
		return domain.NewValidationError("timestamp", "required")
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
