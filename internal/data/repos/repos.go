package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/data/repos/brainstorm"
	"github.com/yungbote/brandstorm-backend/internal/data/repos/chat"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type SuggestionRepo = brainstorm.SuggestionRepo
type VoteRepo = brainstorm.VoteRepo

type ChatMessageRepo = chat.ChatMessageRepo

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
	return brainstorm.NewSuggestionRepo(db, baseLog)
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	return brainstorm.NewVoteRepo(db, baseLog)
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, baseLog)
}
