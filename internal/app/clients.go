package app

import (
	"fmt"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime/bus"
)

type Clients struct {
	SSEBus bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis
	var b bus.Bus
	if cfg.RedisEnabled() {
		rb, err := bus.NewRedisBus(log, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis SSE bus: %w", err)
		}
		b = rb
	}
	return Clients{SSEBus: b}, nil
}

func (c Clients) Close() {
	if c.SSEBus != nil {
		_ = c.SSEBus.Close()
	}
}
