package bus

import (
	"context"

	"github.com/yungbote/brandstorm-backend/internal/realtime"
)

// Bus relays push events between processes sharing a room.
type Bus interface {
	Publish(ctx context.Context, msg realtime.SSEMessage) error
	StartForwarder(ctx context.Context, onMsg func(m realtime.SSEMessage)) error
	Close() error
}
