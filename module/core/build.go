package core

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	handler "github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/handler/http"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/handler/subscriber"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/database/postgres"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/publisher/rabbitmq"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/state"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/service"
)

// Options tune the segmentation and staleness engines; zero values fall
// back to the defaults.
type Options struct {
	SegmenterConfig *service.SegmenterConfig
	StaleAfter      time.Duration
}

type Module struct {
	Coordinator *service.Coordinator
	TripSvc     *service.TripService
	Vehicles    state.Store

	vehicleHandler  *handler.VehicleHandler
	tripHandler     *handler.TripHandler
	geofenceHandler *handler.GeofenceHandler
	alertHandler    *handler.AlertHandler
	subscriber      *subscriber.LocationSubscriber

	staleAfter time.Duration
	log        *zap.Logger
}

func Build(db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client,
	redisClient *redis.Client, log *zap.Logger, opts Options) (*Module, error) {

	locationRepo := postgres.NewLocationRepo(db)
	geofenceRepo := postgres.NewGeofenceRepo(db)
	alertRepo := postgres.NewAlertRepo(db)
	tripRepo := postgres.NewTripRepo(db)

	alertPub, err := rabbitmq.NewAlertPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("alert publisher: %w", err)
	}

	var vehicles state.Store = state.NewMemoryStore()
	if redisClient != nil {
		vehicles = state.NewCachedStore(vehicles, redisClient, log)
	}

	segCfg := service.DefaultSegmenterConfig()
	if opts.SegmenterConfig != nil {
		segCfg = *opts.SegmenterConfig
	}
	staleAfter := opts.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 5 * time.Minute
	}

	evaluator := service.NewEvaluator(log)
	coordinator := service.NewCoordinator(vehicles, locationRepo, geofenceRepo, alertRepo, alertPub, evaluator, log)
	tripSvc := service.NewTripService(locationRepo, tripRepo, service.NewSegmenter(segCfg), log)

	m := &Module{
		Coordinator: coordinator,
		TripSvc:     tripSvc,
		Vehicles:    vehicles,

		vehicleHandler:  handler.NewVehicleHandler(coordinator, vehicles, locationRepo),
		tripHandler:     handler.NewTripHandler(tripSvc),
		geofenceHandler: handler.NewGeofenceHandler(geofenceRepo),
		alertHandler:    handler.NewAlertHandler(alertRepo),
		subscriber:      subscriber.NewLocationSubscriber(mqttClient, coordinator, log),

		staleAfter: staleAfter,
		log:        log,
	}
	return m, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.vehicleHandler.Register(r)
	m.tripHandler.Register(r)
	m.geofenceHandler.Register(r)
	m.alertHandler.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

// RunStaleSweep flips silent vehicles to offline on each tick until the
// context is cancelled.
func (m *Module) RunStaleSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			flipped, err := m.Coordinator.MarkStale(ctx, m.staleAfter)
			if err != nil {
				m.log.Warn("stale sweep failed", zap.Error(err))
				continue
			}
			if len(flipped) > 0 {
				m.log.Info("vehicles marked offline", zap.Int("count", len(flipped)))
			}
		}
	}
}
