package app

import (
	server "github.com/yungbote/brandstorm-backend/internal/http"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *server.Server {
	log.Info("Wiring router...")
	return server.NewServer(server.RouterConfig{
		Log:               log,
		Metrics:           metrics,
		HealthHandler:     handlers.Health,
		SuggestionHandler: handlers.Suggestion,
		ChatHandler:       handlers.Chat,
		RealtimeHandler:   handlers.Realtime,
		CORSOrigins:       cfg.CORSOrigins,
		StaticDir:         cfg.StaticDir,
		TracingEnabled:    cfg.Otel.Enabled,
		ServiceName:       cfg.Otel.ServiceName,
	})
}
