package chat

import (
	"gorm.io/gorm"

	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

const maxListLimit = 500

type ChatMessageRepo interface {
	Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error)
	// List returns the oldest messages first. limit <= 0 means everything.
	List(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error)
	// ListRecent returns the newest limit messages, still oldest first.
	ListRecent(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error)
	DeleteAll(dbc dbctx.Context) (int64, error)
}

type chatMessageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChatMessageRepo(db *gorm.DB, baseLog *logger.Logger) ChatMessageRepo {
	return &chatMessageRepo{db: db, log: baseLog.With("repo", "ChatMessageRepo")}
}

func (r *chatMessageRepo) Create(dbc dbctx.Context, m *types.ChatMessage) (*types.ChatMessage, error) {
	if err := dbc.DB(r.db).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *chatMessageRepo) List(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error) {
	q := dbc.DB(r.db).Order("created_at ASC").Order("id ASC")
	if limit > 0 {
		if limit > maxListLimit {
			limit = maxListLimit
		}
		q = q.Limit(limit)
	}
	var out []*types.ChatMessage
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chatMessageRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.ChatMessage, error) {
	if limit <= 0 || limit > maxListLimit {
		limit = types.ChatHistoryLimit
	}
	var out []*types.ChatMessage
	err := dbc.DB(r.db).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (r *chatMessageRepo) DeleteAll(dbc dbctx.Context) (int64, error) {
	res := dbc.DB(r.db).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&types.ChatMessage{})
	return res.RowsAffected, res.Error
}
