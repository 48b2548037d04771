package subscriber

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

const topicPattern = "/fleet/vehicle/+/location"

type trackingService interface {
	IngestFix(ctx context.Context, fix domain.TrackingFix) (domain.IngestResult, error)
}

type fixMessage struct {
	LicensePlate string  `json:"license_plate"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Speed        float64 `json:"speed"`
	Heading      float64 `json:"heading"`
	Timestamp    int64   `json:"timestamp"`
}

// LocationSubscriber feeds device fixes from MQTT into ingest. Bad
// messages are logged and dropped, never retried.
type LocationSubscriber struct {
	client   mqtt.Client
	tracking trackingService
	log      *zap.Logger
}

func NewLocationSubscriber(client mqtt.Client, tracking trackingService, log *zap.Logger) *LocationSubscriber {
	if log == nil {
		log = zap.NewNop()
	}
	return &LocationSubscriber{client: client, tracking: tracking, log: log}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw fixMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		s.log.Warn("invalid tracking message", zap.String("topic", msg.Topic()), zap.Error(err))
		return
	}

	fix := domain.TrackingFix{
		LicensePlate: raw.LicensePlate,
		Latitude:     raw.Latitude,
		Longitude:    raw.Longitude,
		CurrentSpeed: raw.Speed,
		Heading:      raw.Heading,
	}
	if raw.Timestamp > 0 {
		fix.Timestamp = time.Unix(raw.Timestamp, 0)
	}

	if _, err := s.tracking.IngestFix(context.Background(), fix); err != nil {
		s.log.Warn("fix rejected",
			zap.String("plate", raw.LicensePlate),
			zap.Error(err))
	}
}
