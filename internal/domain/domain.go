package domain

import (
	"github.com/yungbote/brandstorm-backend/internal/domain/brainstorm"
	"github.com/yungbote/brandstorm-backend/internal/domain/chat"
)

const (
	VoteUp   = brainstorm.VoteUp
	VoteDown = brainstorm.VoteDown

	MaxSuggestionTextLength = brainstorm.MaxTextLength
	MaxAuthorLength         = brainstorm.MaxAuthorLength

	ChatHistoryLimit = chat.HistoryLimit
	SystemAuthor     = chat.SystemAuthor
)

type (
	Suggestion = brainstorm.Suggestion
	Vote       = brainstorm.Vote
	VoteType   = brainstorm.VoteType
	Voter      = brainstorm.Voter
	Tally      = brainstorm.Tally

	ChatMessage = chat.ChatMessage
)

var ParseVoteType = brainstorm.ParseVoteType

// Models lists every persisted type in migration order.
func Models() []interface{} {
	return []interface{}{
		&Suggestion{},
		&Vote{},
		&ChatMessage{},
	}
}
