package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/data/repos"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type Repos struct {
	Suggestion  repos.SuggestionRepo
	Vote        repos.VoteRepo
	ChatMessage repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Suggestion:  repos.NewSuggestionRepo(db, log),
		Vote:        repos.NewVoteRepo(db, log),
		ChatMessage: repos.NewChatMessageRepo(db, log),
	}
}
