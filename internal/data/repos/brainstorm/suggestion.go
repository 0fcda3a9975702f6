package brainstorm

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type SuggestionRepo interface {
	Create(dbc dbctx.Context, s *types.Suggestion) (*types.Suggestion, error)
	// GetByID returns nil, nil when the suggestion does not exist.
	GetByID(dbc dbctx.Context, id uint) (*types.Suggestion, error)
	List(dbc dbctx.Context) ([]*types.Suggestion, error)
	ListCounts(dbc dbctx.Context) ([]*types.Suggestion, error)
	// Lock bumps the version so that concurrent writers on the same row queue
	// behind this transaction. Reports false when the row is gone.
	Lock(dbc dbctx.Context, id uint) (bool, error)
	UpdateText(dbc dbctx.Context, id uint, text string, editedAt time.Time) error
	AdjustCounts(dbc dbctx.Context, id uint, upDelta, downDelta int) error
	SetCounts(dbc dbctx.Context, id uint, up, down int) error
	Delete(dbc dbctx.Context, id uint) (int64, error)
}

type suggestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSuggestionRepo(db *gorm.DB, baseLog *logger.Logger) SuggestionRepo {
	repoLog := baseLog.With("repo", "SuggestionRepo")
	return &suggestionRepo{db: db, log: repoLog}
}

func (r *suggestionRepo) Create(dbc dbctx.Context, s *types.Suggestion) (*types.Suggestion, error) {
	if s.Version == 0 {
		s.Version = 1
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(s).Error; err != nil {
		return nil, err
	}
	return s.Project(), nil
}

func (r *suggestionRepo) GetByID(dbc dbctx.Context, id uint) (*types.Suggestion, error) {
	var rows []*types.Suggestion
	err := withVotes(dbc.DB(r.db)).
		Where("id = ?", id).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Project(), nil
}

// List orders newest first. Ties on created_at fall back to id so the
// order is total.
func (r *suggestionRepo) List(dbc dbctx.Context) ([]*types.Suggestion, error) {
	var rows []*types.Suggestion
	err := withVotes(dbc.DB(r.db)).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, s := range rows {
		s.Project()
	}
	return rows, nil
}

func (r *suggestionRepo) ListCounts(dbc dbctx.Context) ([]*types.Suggestion, error) {
	var rows []*types.Suggestion
	err := dbc.DB(r.db).
		Select("id", "upvotes", "downvotes").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *suggestionRepo) Lock(dbc dbctx.Context, id uint) (bool, error) {
	res := dbc.DB(r.db).
		Model(&types.Suggestion{}).
		Where("id = ?", id).
		UpdateColumn("version", gorm.Expr("version + ?", 1))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *suggestionRepo) UpdateText(dbc dbctx.Context, id uint, text string, editedAt time.Time) error {
	return dbc.DB(r.db).
		Model(&types.Suggestion{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"text":      text,
			"edited_at": editedAt,
		}).Error
}

func (r *suggestionRepo) AdjustCounts(dbc dbctx.Context, id uint, upDelta, downDelta int) error {
	if upDelta == 0 && downDelta == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Suggestion{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"upvotes":   gorm.Expr("upvotes + ?", upDelta),
			"downvotes": gorm.Expr("downvotes + ?", downDelta),
		}).Error
}

func (r *suggestionRepo) SetCounts(dbc dbctx.Context, id uint, up, down int) error {
	return dbc.DB(r.db).
		Model(&types.Suggestion{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"upvotes":   up,
			"downvotes": down,
		}).Error
}

// Delete removes the row. Ledger rows follow through the cascading foreign key.
func (r *suggestionRepo) Delete(dbc dbctx.Context, id uint) (int64, error) {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.Suggestion{})
	return res.RowsAffected, res.Error
}

func withVotes(db *gorm.DB) *gorm.DB {
	return db.Preload("Votes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("id ASC")
	})
}
