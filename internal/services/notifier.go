package services

import (
	"context"
	"strings"

	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
)

// =========================
// Suggestion notifier
// =========================

type SuggestionNotifier interface {
	SuggestionCreated(s *types.Suggestion)
	SuggestionUpdated(s *types.Suggestion)
	SuggestionDeleted(id uint)
	VoteUpdated(s *types.Suggestion)
}

type suggestionNotifier struct {
	emit    SSEEmitter
	channel string
}

func NewSuggestionNotifier(emit SSEEmitter, channel string) SuggestionNotifier {
	return &suggestionNotifier{emit: emit, channel: roomChannel(channel)}
}

func (n *suggestionNotifier) SuggestionCreated(s *types.Suggestion) {
	n.send(realtime.SSEEventSuggestionCreated, s)
}

func (n *suggestionNotifier) SuggestionUpdated(s *types.Suggestion) {
	n.send(realtime.SSEEventSuggestionUpdated, s)
}

func (n *suggestionNotifier) SuggestionDeleted(id uint) {
	n.send(realtime.SSEEventSuggestionDeleted, map[string]any{"id": id})
}

func (n *suggestionNotifier) VoteUpdated(s *types.Suggestion) {
	n.send(realtime.SSEEventVoteUpdate, s)
}

func (n *suggestionNotifier) send(event realtime.SSEEvent, data any) {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: n.channel,
		Event:   event,
		Data:    data,
	})
}

// =========================
// Chat notifier
// =========================

type ChatNotifier interface {
	MessageCreated(msg *types.ChatMessage)
	Cleared()
}

type chatNotifier struct {
	emit    SSEEmitter
	channel string
}

func NewChatNotifier(emit SSEEmitter, channel string) ChatNotifier {
	return &chatNotifier{emit: emit, channel: roomChannel(channel)}
}

func (n *chatNotifier) MessageCreated(msg *types.ChatMessage) {
	if n == nil || n.emit == nil || msg == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: n.channel,
		Event:   realtime.SSEEventNewChatMessage,
		Data:    msg,
	})
}

func (n *chatNotifier) Cleared() {
	if n == nil || n.emit == nil {
		return
	}
	n.emit.Emit(context.Background(), realtime.SSEMessage{
		Channel: n.channel,
		Event:   realtime.SSEEventChatCleared,
	})
}

func roomChannel(channel string) string {
	if c := strings.TrimSpace(channel); c != "" {
		return c
	}
	return realtime.DefaultChannel
}
