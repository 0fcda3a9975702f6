package testutil

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/yungbote/brandstorm-backend/internal/domain"
)

func SeedSuggestion(tb testing.TB, ctx context.Context, tx *gorm.DB, author, text string) *types.Suggestion {
	tb.Helper()
	s := &types.Suggestion{
		Text:      text,
		Author:    author,
		CreatedAt: time.Now().UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed suggestion: %v", err)
	}
	return s
}

// SeedVote writes a ledger row without touching the suggestion counters.
func SeedVote(tb testing.TB, ctx context.Context, tx *gorm.DB, suggestionID uint, user string, t types.VoteType) *types.Vote {
	tb.Helper()
	now := time.Now().UTC()
	v := &types.Vote{
		SuggestionID: suggestionID,
		UserName:     user,
		Type:         t,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed vote: %v", err)
	}
	return v
}

func SeedChatMessage(tb testing.TB, ctx context.Context, tx *gorm.DB, author, text string, at time.Time) *types.ChatMessage {
	tb.Helper()
	m := &types.ChatMessage{Author: author, Text: text, CreatedAt: at}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed chat message: %v", err)
	}
	return m
}
