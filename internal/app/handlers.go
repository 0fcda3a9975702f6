package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/brandstorm-backend/internal/http/handlers"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
)

type Handlers struct {
	Health     *httpH.HealthHandler
	Suggestion *httpH.SuggestionHandler
	Chat       *httpH.ChatHandler
	Realtime   *httpH.RealtimeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, cfg Config, svcs Services, hub *realtime.SSEHub) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(db),
		Suggestion: httpH.NewSuggestionHandler(log, svcs.Suggestion),
		Chat:       httpH.NewChatHandler(log, svcs.Chat),
		Realtime:   httpH.NewRealtimeHandler(log, hub, svcs.Suggestion, svcs.Chat, cfg.RoomChannel, cfg.CORSOrigins),
	}
}
