package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
	"github.com/viictorb1-cyber/controle-frotas-1/module/core/internal/repository/publisher"
)

var _ publisher.AlertPublisher = (*AlertPublisher)(nil)

const (
	exchangeName = "fleet.events"
	queueName    = "fleet_alerts"
)

type AlertPublisher struct {
	ch *amqp.Channel
}

func NewAlertPublisher(conn *amqp.Connection) (*AlertPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return nil, fmt.Errorf("bind queue: %w", err)
	}

	return &AlertPublisher{ch: ch}, nil
}

type alertMessage struct {
	ID           string               `json:"id"`
	Type         domain.AlertType     `json:"type"`
	Priority     domain.AlertPriority `json:"priority"`
	VehicleID    string               `json:"vehicle_id"`
	VehicleName  string               `json:"vehicle_name"`
	Message      string               `json:"message"`
	Location     alertLocation        `json:"location"`
	Speed        float64              `json:"speed,omitempty"`
	SpeedLimit   float64              `json:"speed_limit,omitempty"`
	GeofenceName string               `json:"geofence_name,omitempty"`
	Timestamp    int64                `json:"timestamp"`
}

type alertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (p *AlertPublisher) PublishAlert(ctx context.Context, alert *domain.Alert) error {
	msg := alertMessage{
		ID:          alert.ID,
		Type:        alert.Type,
		Priority:    alert.Priority,
		VehicleID:   alert.VehicleID,
		VehicleName: alert.VehicleName,
		Message:     alert.Message,
		Location: alertLocation{
			Latitude:  alert.Latitude,
			Longitude: alert.Longitude,
		},
		Speed:        alert.Speed,
		SpeedLimit:   alert.SpeedLimit,
		GeofenceName: alert.GeofenceName,
		Timestamp:    alert.Timestamp.Unix(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, exchangeName, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}
