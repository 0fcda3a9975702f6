package realtime

type SSEEvent string

const (
	SSEEventSuggestionCreated SSEEvent = "suggestion_created"
	SSEEventSuggestionUpdated SSEEvent = "suggestion_updated"
	SSEEventSuggestionDeleted SSEEvent = "suggestion_deleted"
	SSEEventVoteUpdate        SSEEvent = "vote_update"

	SSEEventNewChatMessage SSEEvent = "new_chat_message"
	SSEEventChatCleared    SSEEvent = "chat_cleared"

	// Sent only to the client that just joined.
	SSEEventChatHistory         SSEEvent = "chat_history"
	SSEEventSuggestionsSnapshot SSEEvent = "suggestions_snapshot"

	SSEEventPong  SSEEvent = "pong"
	SSEEventError SSEEvent = "error"
)

// DefaultChannel is the single brainstorm room.
const DefaultChannel = "brainstorm"

type SSEMessage struct {
	Channel string   `json:"channel"`
	Event   SSEEvent `json:"event"`
	Data    any      `json:"data,omitempty"`
}
