package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/geo"
)

// Evaluator derives geofence transitions from a position stream. It is a
// pure computation over the caller-supplied prior state: the confirmed
// containment per fence plus the debounce bookkeeping around it.
type Evaluator struct {
	log *zap.Logger
}

func NewEvaluator(log *zap.Logger) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{log: log}
}

// Contains reports raw containment of pos in the fence, before any
// debouncing. Self-intersecting polygons get best-effort ray casting.
func (e *Evaluator) Contains(fence *domain.Geofence, pos domain.Position) bool {
	switch fence.Type {
	case domain.GeofenceCircle:
		if fence.Center == nil {
			e.log.Warn("circle geofence without center", zap.String("geofence", fence.ID))
			return false
		}
		d := geo.Distance(pos.Latitude, pos.Longitude, fence.Center.Latitude, fence.Center.Longitude)
		return d <= fence.Radius
	case domain.GeofencePolygon:
		if len(fence.Points) < 3 {
			e.log.Warn("polygon geofence with fewer than 3 vertices", zap.String("geofence", fence.ID))
			return false
		}
		return geo.PointInPolygon(pos.Latitude, pos.Longitude, fence.Points)
	default:
		return false
	}
}

// Evaluate processes one fix against the vehicle's assigned fences and the
// prior containment states, returning confirmed transitions and the updated
// states. The input map is not mutated.
//
// Debounce: the boundary is crossed somewhere between two samples, so a
// candidate window opens at the last fix that still agreed with the
// confirmed state. The flip confirms once the disagreeing observation has
// persisted for the rule's tolerance; a flip back before that cancels it.
func (e *Evaluator) Evaluate(vehicleID string, pos domain.Position, ts time.Time,
	fences []domain.Geofence, prior domain.ContainmentStates) ([]domain.Transition, domain.ContainmentStates) {

	next := make(domain.ContainmentStates, len(fences))
	var transitions []domain.Transition

	for i := range fences {
		fence := &fences[i]
		if !fence.Active || !fence.AssignedTo(vehicleID) {
			continue
		}

		st := prior[fence.ID]
		raw := e.Contains(fence, pos)

		if !st.Observed {
			// first fix ever for this pair adopts the raw state silently
			st = domain.ContainmentState{Inside: raw, Observed: true}
			if raw {
				t := ts
				st.InsideSince = &t
			}
		} else if raw == st.Inside {
			st.CandidateSince = nil
		} else {
			if st.CandidateSince == nil {
				since := st.LastSeen
				st.CandidateSince = &since
			}
			if tr := e.confirmFlip(fence, vehicleID, &st, raw, pos, ts); tr != nil {
				transitions = append(transitions, *tr)
			}
		}

		if st.Inside {
			transitions = append(transitions, e.checkDwell(fence, &st, pos, ts)...)
			transitions = append(transitions, e.checkTimeWindow(fence, &st, pos, ts)...)
		}

		st.LastSeen = ts
		next[fence.ID] = st
	}

	return transitions, next
}

// confirmFlip checks whether the candidate state change has outlasted the
// tolerance of the matching rule and, if so, applies and reports it.
func (e *Evaluator) confirmFlip(fence *domain.Geofence, vehicleID string,
	st *domain.ContainmentState, raw bool, pos domain.Position, ts time.Time) *domain.Transition {

	ruleType := domain.RuleExit
	if raw {
		ruleType = domain.RuleEntry
	}
	rule := fence.Rule(ruleType)

	tolerance := time.Duration(0)
	if rule != nil {
		tolerance = time.Duration(rule.ToleranceSeconds * float64(time.Second))
	}
	if ts.Sub(*st.CandidateSince) < tolerance {
		return nil
	}

	st.Inside = raw
	st.CandidateSince = nil
	if raw {
		t := ts
		st.InsideSince = &t
	} else {
		st.InsideSince = nil
		st.DwellFired = false
		st.WindowFired = false
	}

	if rule == nil {
		// state flips even without an enabled rule; it just isn't reported
		return nil
	}
	return &domain.Transition{
		GeofenceID:   fence.ID,
		GeofenceName: fence.Name,
		Rule:         ruleType,
		Position:     pos,
		Timestamp:    ts,
	}
}

// checkDwell fires once per continuous confirmed-inside interval.
func (e *Evaluator) checkDwell(fence *domain.Geofence, st *domain.ContainmentState,
	pos domain.Position, ts time.Time) []domain.Transition {

	rule := fence.Rule(domain.RuleDwell)
	if rule == nil || st.DwellFired || st.InsideSince == nil {
		return nil
	}
	dwell := time.Duration(rule.DwellTimeMinutes * float64(time.Minute))
	if dwell <= 0 || ts.Sub(*st.InsideSince) < dwell {
		return nil
	}
	st.DwellFired = true
	return []domain.Transition{{
		GeofenceID:   fence.ID,
		GeofenceName: fence.Name,
		Rule:         domain.RuleDwell,
		Position:     pos,
		Timestamp:    ts,
	}}
}

// checkTimeWindow fires once per inside interval when the fence is occupied
// outside the rule's allowed HH:MM window.
func (e *Evaluator) checkTimeWindow(fence *domain.Geofence, st *domain.ContainmentState,
	pos domain.Position, ts time.Time) []domain.Transition {

	rule := fence.Rule(domain.RuleTimeViolation)
	if rule == nil || st.WindowFired {
		return nil
	}
	within, err := withinDailyWindow(ts, rule.StartTime, rule.EndTime)
	if err != nil {
		e.log.Warn("unparseable time_violation window",
			zap.String("geofence", fence.ID), zap.Error(err))
		return nil
	}
	if within {
		return nil
	}
	st.WindowFired = true
	return []domain.Transition{{
		GeofenceID:   fence.ID,
		GeofenceName: fence.Name,
		Rule:         domain.RuleTimeViolation,
		Position:     pos,
		Timestamp:    ts,
	}}
}

// withinDailyWindow checks ts against a daily [start, end] window given as
// HH:MM strings. Windows crossing midnight (22:00-06:00) are supported.
func withinDailyWindow(ts time.Time, start, end string) (bool, error) {
	if start == "" || end == "" {
		return true, nil
	}
	s, err := minutesOfDay(start)
	if err != nil {
		return false, err
	}
	e, err := minutesOfDay(end)
	if err != nil {
		return false, err
	}
	m := ts.Hour()*60 + ts.Minute()
	if s <= e {
		return m >= s && m <= e, nil
	}
	return m >= s || m <= e, nil
}

func minutesOfDay(hhmm string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(hhmm, "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("parse %q: %w", hhmm, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("parse %q: out of range", hhmm)
	}
	return h*60 + m, nil
}
