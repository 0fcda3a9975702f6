package realtime

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

const DefaultOutboundBuffer = 32

type SSEClient struct {
	ID       uuid.UUID
	UserName string
	Channels map[string]bool
	Outbound chan SSEMessage
	done     chan struct{}
	closed   bool
	Logger   *logger.Logger

	// joinMu guards joining and held. While joining, broadcasts are held
	// back so the initial state reaches the client first.
	joinMu  sync.Mutex
	joining bool
	held    []SSEMessage
}

// Done is closed once the hub has dropped the client.
func (c *SSEClient) Done() <-chan struct{} {
	return c.done
}
