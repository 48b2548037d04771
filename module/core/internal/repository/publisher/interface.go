package publisher

import (
	"context"

	"github.com/viictorb1-cyber/controle-frotas-1/module/core/domain"
)

// AlertPublisher fans alerts out to the notification side. Delivery is
// best-effort from the ingest path's point of view.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *domain.Alert) error
}
