package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
	"github.com/yungbote/brandstorm-backend/internal/services"
)

type Services struct {
	Emitter services.SSEEmitter

	SuggestionNotifier services.SuggestionNotifier
	ChatNotifier       services.ChatNotifier

	Suggestion services.SuggestionService
	Chat       services.ChatService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos, hub *realtime.SSEHub, clients Clients, metrics *observability.Metrics) Services {
	log.Info("Wiring services...")

	// With a bus every process, this one included, hears events through its
	// forwarder, so emitting straight to the hub as well would double deliver.
	var emit services.SSEEmitter = &services.HubEmitter{Hub: hub}
	if clients.SSEBus != nil {
		emit = &services.RedisEmitter{Bus: clients.SSEBus, Log: log}
	}

	suggestionNotifier := services.NewSuggestionNotifier(emit, cfg.RoomChannel)
	chatNotifier := services.NewChatNotifier(emit, cfg.RoomChannel)

	return Services{
		Emitter:            emit,
		SuggestionNotifier: suggestionNotifier,
		ChatNotifier:       chatNotifier,
		Suggestion: services.NewSuggestionService(
			db, log,
			repos.Suggestion,
			repos.Vote,
			suggestionNotifier,
			metrics,
		),
		Chat: services.NewChatService(log, repos.ChatMessage, chatNotifier, metrics),
	}
}
