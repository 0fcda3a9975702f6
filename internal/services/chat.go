package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yungbote/brandstorm-backend/internal/data/repos"
	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/apierr"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

const maxChatTextLength = 2000

type ChatService interface {
	// ListMessages returns the transcript oldest first; limit <= 0 means all.
	ListMessages(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error)
	// RecentHistory is what a joining client is shown: the last 50 messages, oldest first.
	RecentHistory(dbc dbctx.Context) ([]*types.ChatMessage, error)
	PostMessage(dbc dbctx.Context, author, text string) (*types.ChatMessage, error)
	Clear(dbc dbctx.Context) (int64, error)
	// AnnounceJoin broadcasts a system line for name without storing it.
	AnnounceJoin(name string) *types.ChatMessage
}

type chatService struct {
	log      *logger.Logger
	messages repos.ChatMessageRepo
	notify   ChatNotifier
	metrics  *observability.Metrics
	now      func() time.Time
}

func NewChatService(
	baseLog *logger.Logger,
	messages repos.ChatMessageRepo,
	notify ChatNotifier,
	metrics *observability.Metrics,
) ChatService {
	return &chatService{
		log:      baseLog.With("service", "ChatService"),
		messages: messages,
		notify:   notify,
		metrics:  metrics,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *chatService) ListMessages(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error) {
	rows, err := s.messages.List(dbc, limit)
	if err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}
	return rows, nil
}

func (s *chatService) RecentHistory(dbc dbctx.Context) ([]*types.ChatMessage, error) {
	rows, err := s.messages.ListRecent(dbc, types.ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	return rows, nil
}

func (s *chatService) PostMessage(dbc dbctx.Context, author, text string) (*types.ChatMessage, error) {
	author, text = strings.TrimSpace(author), strings.TrimSpace(text)
	switch {
	case author == "":
		return nil, s.reject("post", apierr.Validation("author is required"))
	case text == "":
		return nil, s.reject("post", apierr.Validation("text is required"))
	case utf8.RuneCountInString(author) > types.MaxAuthorLength:
		return nil, s.reject("post", apierr.Validation(fmt.Sprintf("author must be at most %d characters", types.MaxAuthorLength)))
	case utf8.RuneCountInString(text) > maxChatTextLength:
		return nil, s.reject("post", apierr.Validation(fmt.Sprintf("text must be at most %d characters", maxChatTextLength)))
	}

	msg, err := s.messages.Create(dbc, &types.ChatMessage{
		Author:    author,
		Text:      text,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, s.reject("post", fmt.Errorf("create chat message: %w", err))
	}
	s.metrics.ObserveMutation("chat_post", "ok")
	s.notify.MessageCreated(msg)
	return msg, nil
}

func (s *chatService) Clear(dbc dbctx.Context) (int64, error) {
	n, err := s.messages.DeleteAll(dbc)
	if err != nil {
		return 0, s.reject("chat_clear", fmt.Errorf("clear chat: %w", err))
	}
	s.metrics.ObserveMutation("chat_clear", "ok")
	s.log.Info("Chat cleared", "deleted", n)
	s.notify.Cleared()
	return n, nil
}

func (s *chatService) AnnounceJoin(name string) *types.ChatMessage {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	msg := &types.ChatMessage{
		Author:    types.SystemAuthor,
		Text:      fmt.Sprintf("%s has joined the discussion.", name),
		CreatedAt: s.now(),
	}
	s.notify.MessageCreated(msg)
	return msg
}

func (s *chatService) reject(op string, err error) error {
	s.metrics.ObserveMutation(op, apierr.Code(err))
	return err
}
