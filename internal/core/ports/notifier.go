package ports

import (
	"context"

	"github.com/postboard/postboard-api/internal/core/domain"
)

// Notifier schedules a notification for background delivery.
// Notify must return immediately and never report delivery failures.
type Notifier interface {
	Notify(n domain.Notification)
}

// NotificationSink delivers a message to one transport (WebSocket clients,
// a pub/sub channel, a broker subject). There is no acknowledgement.
type NotificationSink interface {
	Name() string
	Broadcast(ctx context.Context, n domain.Notification) error
}
