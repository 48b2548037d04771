package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/publisher"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/state"
)

const (
	// defaults for a vehicle created from its first fix
	DefaultSpeedLimit = 80.0
	DefaultAccuracy   = 5.0

	// a speed excess at or past this margin escalates the alert to critical
	criticalExcessKmh = 20.0

	movingThresholdKmh = 5.0
)

// Coordinator routes every raw fix through live-state update, history
// append, geofence evaluation and speed checks. Fixes for the same plate
// are serialized; different plates proceed in parallel.
type Coordinator struct {
	vehicles  state.Store
	positions database.LocationRepository
	fences    database.GeofenceRepository
	alerts    database.AlertRepository
	notifier  publisher.AlertPublisher
	evaluator *Evaluator
	validate  *validator.Validate
	log       *zap.Logger

	mu          sync.Mutex
	plateLocks  map[string]*sync.Mutex
	containment map[string]domain.ContainmentStates // vehicle id -> per-fence state
}

func NewCoordinator(
	vehicles state.Store,
	positions database.LocationRepository,
	fences database.GeofenceRepository,
	alerts database.AlertRepository,
	notifier publisher.AlertPublisher,
	evaluator *Evaluator,
	log *zap.Logger,
) *Coordinator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Coordinator{
		vehicles:    vehicles,
		positions:   positions,
		fences:      fences,
		alerts:      alerts,
		notifier:    notifier,
		evaluator:   evaluator,
		validate:    validator.New(),
		log:         log,
		plateLocks:  make(map[string]*sync.Mutex),
		containment: make(map[string]domain.ContainmentStates),
	}
}

// IngestFix processes one raw report. The live-state update and history
// append must succeed; geofence and speed alerting are best-effort on top.
func (c *Coordinator) IngestFix(ctx context.Context, fix domain.TrackingFix) (domain.IngestResult, error) {
	fix.LicensePlate = strings.TrimSpace(fix.LicensePlate)
	if err := c.validateFix(&fix); err != nil {
		return domain.IngestResult{}, err
	}
	if fix.Timestamp.IsZero() {
		fix.Timestamp = time.Now()
	}

	lock := c.plateLock(fix.LicensePlate)
	lock.Lock()
	defer lock.Unlock()

	vehicle, err := c.upsertVehicle(ctx, &fix)
	if err != nil {
		return domain.IngestResult{}, err
	}

	point := domain.LocationPoint{
		Latitude:  fix.Latitude,
		Longitude: fix.Longitude,
		Speed:     fix.CurrentSpeed,
		Heading:   vehicle.Heading,
		Timestamp: fix.Timestamp,
		Accuracy:  vehicle.Accuracy,
	}
	if err := c.positions.Insert(ctx, vehicle.ID, &point); err != nil {
		return domain.IngestResult{}, &domain.StorageError{Op: "append position", Err: err}
	}

	result := domain.IngestResult{Vehicle: *vehicle}
	c.evaluateGeofences(ctx, vehicle, &fix, &result)
	c.checkSpeed(vehicle, &fix, &result)
	c.dispatchAlerts(ctx, result.Alerts)

	return result, nil
}

// MarkStale flips vehicles whose last fix is older than the cutoff to
// offline and reports them. Offline never comes from a fix itself.
func (c *Coordinator) MarkStale(ctx context.Context, olderThan time.Duration) ([]domain.Vehicle, error) {
	all, err := c.vehicles.List(ctx)
	if err != nil {
		return nil, &domain.StorageError{Op: "list vehicles", Err: err}
	}

	cutoff := time.Now().Add(-olderThan)
	var flipped []domain.Vehicle
	for _, v := range all {
		if v.Status == domain.StatusOffline || v.LastUpdate.After(cutoff) {
			continue
		}
		v.Status = domain.StatusOffline
		if err := c.vehicles.Put(ctx, &v); err != nil {
			return flipped, &domain.StorageError{Op: "update vehicle", Err: err}
		}
		flipped = append(flipped, v)

		alert := domain.Alert{
			ID:          uuid.NewString(),
			Type:        domain.AlertSystem,
			Priority:    domain.PriorityInfo,
			VehicleID:   v.ID,
			VehicleName: v.Name,
			Message:     fmt.Sprintf("Veículo %s sem comunicação desde %s", v.Name, v.LastUpdate.Format("15:04")),
			Timestamp:   time.Now(),
		}
		c.dispatchAlerts(ctx, []domain.Alert{alert})
	}
	return flipped, nil
}

// DeleteVehicle removes live state and any containment bookkeeping.
func (c *Coordinator) DeleteVehicle(ctx context.Context, id string) error {
	if err := c.vehicles.Delete(ctx, id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.containment, id)
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) validateFix(fix *domain.TrackingFix) error {
	if !isFinite(fix.Latitude) || !isFinite(fix.Longitude) || !isFinite(fix.CurrentSpeed) {
		return domain.NewValidationError("fix", "coordinates and speed must be finite")
	}
	if err := c.validate.Struct(fix); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			return domain.NewValidationError(strings.ToLower(invalid[0].Field()), "failed "+invalid[0].Tag()+" validation")
		}
		return domain.NewValidationError("fix", err.Error())
	}
	return nil
}

// upsertVehicle finds the vehicle by plate or creates it with defaults,
// then applies the fix in place.
func (c *Coordinator) upsertVehicle(ctx context.Context, fix *domain.TrackingFix) (*domain.Vehicle, error) {
	vehicle, err := c.vehicles.FindByPlate(ctx, fix.LicensePlate)
	switch {
	case err == nil:
	case errors.Is(err, state.ErrVehicleNotFound):
		vehicle = &domain.Vehicle{
			ID:           uuid.NewString(),
			Name:         fix.LicensePlate,
			LicensePlate: fix.LicensePlate,
			SpeedLimit:   DefaultSpeedLimit,
			Heading:      0,
			Accuracy:     DefaultAccuracy,
		}
	default:
		return nil, &domain.StorageError{Op: "find vehicle", Err: err}
	}

	vehicle.Status = deriveStatus(fix.CurrentSpeed)
	vehicle.Ignition = deriveIgnition(fix.CurrentSpeed)
	vehicle.CurrentSpeed = fix.CurrentSpeed
	vehicle.Latitude = fix.Latitude
	vehicle.Longitude = fix.Longitude
	if fix.Heading != 0 {
		vehicle.Heading = fix.Heading
	}
	vehicle.LastUpdate = fix.Timestamp

	if err := c.vehicles.Put(ctx, vehicle); err != nil {
		return nil, &domain.StorageError{Op: "save vehicle", Err: err}
	}
	return vehicle, nil
}

func (c *Coordinator) evaluateGeofences(ctx context.Context, vehicle *domain.Vehicle,
	fix *domain.TrackingFix, result *domain.IngestResult) {

	fences, err := c.fences.List(ctx)
	if err != nil {
		c.log.Warn("geofence list failed, skipping evaluation",
			zap.String("vehicle", vehicle.ID), zap.Error(err))
		return
	}
	if len(fences) == 0 {
		return
	}

	c.mu.Lock()
	prior := c.containment[vehicle.ID]
	c.mu.Unlock()

	pos := domain.Position{Latitude: fix.Latitude, Longitude: fix.Longitude}
	transitions, next := c.evaluator.Evaluate(vehicle.ID, pos, fix.Timestamp, fences, prior)

	c.mu.Lock()
	c.containment[vehicle.ID] = next
	c.mu.Unlock()

	for _, tr := range transitions {
		if ev, ok := transitionEvent(&tr); ok {
			result.Events = append(result.Events, ev)
		}
		result.Alerts = append(result.Alerts, transitionAlert(vehicle, &tr))
	}
}

func (c *Coordinator) checkSpeed(vehicle *domain.Vehicle, fix *domain.TrackingFix, result *domain.IngestResult) {
	if vehicle.SpeedLimit <= 0 || fix.CurrentSpeed <= vehicle.SpeedLimit {
		return
	}
	excess := fix.CurrentSpeed - vehicle.SpeedLimit

	result.Events = append(result.Events, domain.RouteEvent{
		ID:         uuid.NewString(),
		Type:       domain.EventSpeedViolation,
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		Timestamp:  fix.Timestamp,
		Speed:      fix.CurrentSpeed,
		SpeedLimit: vehicle.SpeedLimit,
	})

	priority := domain.PriorityWarning
	if excess >= criticalExcessKmh {
		priority = domain.PriorityCritical
	}
	result.Alerts = append(result.Alerts, domain.Alert{
		ID:          uuid.NewString(),
		Type:        domain.AlertSpeed,
		Priority:    priority,
		VehicleID:   vehicle.ID,
		VehicleName: vehicle.Name,
		Message: fmt.Sprintf("Velocidade acima do limite: %.0f km/h em zona de %.0f km/h",
			fix.CurrentSpeed, vehicle.SpeedLimit),
		Timestamp:  fix.Timestamp,
		Latitude:   fix.Latitude,
		Longitude:  fix.Longitude,
		Speed:      fix.CurrentSpeed,
		SpeedLimit: vehicle.SpeedLimit,
	})
}

// dispatchAlerts persists and fans out. Failures here never fail the fix:
// the position update already happened.
func (c *Coordinator) dispatchAlerts(ctx context.Context, alerts []domain.Alert) {
	for i := range alerts {
		if err := c.alerts.Insert(ctx, &alerts[i]); err != nil {
			c.log.Warn("alert persist failed", zap.String("alert", alerts[i].ID), zap.Error(err))
		}
		if err := c.notifier.PublishAlert(ctx, &alerts[i]); err != nil {
			c.log.Warn("alert publish failed", zap.String("alert", alerts[i].ID), zap.Error(err))
		}
	}
}

func (c *Coordinator) plateLock(plate string) *sync.Mutex {
	key := strings.ToLower(plate)
	c.mu.Lock()
	defer c.mu.Unlock()
	lock, ok := c.plateLocks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.plateLocks[key] = lock
	}
	return lock
}

func deriveStatus(speed float64) domain.VehicleStatus {
	switch {
	case speed > movingThresholdKmh:
		return domain.StatusMoving
	case speed > 0:
		return domain.StatusIdle
	default:
		return domain.StatusStopped
	}
}

func deriveIgnition(speed float64) domain.IgnitionStatus {
	if speed > 0 {
		return domain.IgnitionOn
	}
	return domain.IgnitionOff
}

func transitionEvent(tr *domain.Transition) (domain.RouteEvent, bool) {
	var typ domain.RouteEventType
	switch tr.Rule {
	case domain.RuleEntry:
		typ = domain.EventGeofenceEntry
	case domain.RuleExit:
		typ = domain.EventGeofenceExit
	default:
		return domain.RouteEvent{}, false
	}
	return domain.RouteEvent{
		ID:           uuid.NewString(),
		Type:         typ,
		Latitude:     tr.Position.Latitude,
		Longitude:    tr.Position.Longitude,
		Timestamp:    tr.Timestamp,
		GeofenceName: tr.GeofenceName,
	}, true
}

func transitionAlert(vehicle *domain.Vehicle, tr *domain.Transition) domain.Alert {
	alert := domain.Alert{
		ID:           uuid.NewString(),
		VehicleID:    vehicle.ID,
		VehicleName:  vehicle.Name,
		Timestamp:    tr.Timestamp,
		Latitude:     tr.Position.Latitude,
		Longitude:    tr.Position.Longitude,
		GeofenceName: tr.GeofenceName,
	}
	switch tr.Rule {
	case domain.RuleEntry:
		alert.Type = domain.AlertGeofenceEntry
		alert.Priority = domain.PriorityInfo
		alert.Message = fmt.Sprintf("Entrada na área '%s'", tr.GeofenceName)
	case domain.RuleExit:
		alert.Type = domain.AlertGeofenceExit
		alert.Priority = domain.PriorityWarning
		alert.Message = fmt.Sprintf("Saída da área '%s'", tr.GeofenceName)
	case domain.RuleDwell:
		alert.Type = domain.AlertGeofenceDwell
		alert.Priority = domain.PriorityWarning
		alert.Message = fmt.Sprintf("Permanência prolongada na área '%s'", tr.GeofenceName)
	case domain.RuleTimeViolation:
		alert.Type = domain.AlertSystem
		alert.Priority = domain.PriorityWarning
		alert.Message = fmt.Sprintf("Área '%s' ocupada fora do horário permitido", tr.GeofenceName)
	}
	return alert
}
