package brainstorm

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type VoteRepo interface {
	// Get returns nil, nil when user has no vote on the suggestion.
	Get(dbc dbctx.Context, suggestionID uint, user string) (*types.Vote, error)
	Create(dbc dbctx.Context, v *types.Vote) (*types.Vote, error)
	UpdateType(dbc dbctx.Context, id uint, t types.VoteType, at time.Time) error
	Delete(dbc dbctx.Context, id uint) error
	DeleteBySuggestion(dbc dbctx.Context, suggestionID uint) (int64, error)
	ListBySuggestion(dbc dbctx.Context, suggestionID uint) ([]*types.Vote, error)
	// Tallies recounts every suggestion's votes from the ledger.
	Tallies(dbc dbctx.Context) (map[uint]types.Tally, error)
}

type voteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVoteRepo(db *gorm.DB, baseLog *logger.Logger) VoteRepo {
	repoLog := baseLog.With("repo", "VoteRepo")
	return &voteRepo{db: db, log: repoLog}
}

func (r *voteRepo) Get(dbc dbctx.Context, suggestionID uint, user string) (*types.Vote, error) {
	var rows []*types.Vote
	err := dbc.DB(r.db).
		Where("suggestion_id = ? AND user_name = ?", suggestionID, user).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *voteRepo) Create(dbc dbctx.Context, v *types.Vote) (*types.Vote, error) {
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

func (r *voteRepo) UpdateType(dbc dbctx.Context, id uint, t types.VoteType, at time.Time) error {
	return dbc.DB(r.db).
		Model(&types.Vote{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"type":       t,
			"updated_at": at,
		}).Error
}

func (r *voteRepo) Delete(dbc dbctx.Context, id uint) error {
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.Vote{}).Error
}

func (r *voteRepo) DeleteBySuggestion(dbc dbctx.Context, suggestionID uint) (int64, error) {
	res := dbc.DB(r.db).Where("suggestion_id = ?", suggestionID).Delete(&types.Vote{})
	return res.RowsAffected, res.Error
}

func (r *voteRepo) ListBySuggestion(dbc dbctx.Context, suggestionID uint) ([]*types.Vote, error) {
	var rows []*types.Vote
	err := dbc.DB(r.db).
		Where("suggestion_id = ?", suggestionID).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type tallyRow struct {
	SuggestionID uint
	Type         types.VoteType
	N            int
}

func (r *voteRepo) Tallies(dbc dbctx.Context) (map[uint]types.Tally, error) {
	var rows []tallyRow
	err := dbc.DB(r.db).
		Model(&types.Vote{}).
		Select("suggestion_id, type, COUNT(*) AS n").
		Group("suggestion_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[uint]types.Tally, len(rows))
	for _, row := range rows {
		t := out[row.SuggestionID]
		switch row.Type {
		case types.VoteUp:
			t.Up += row.N
		case types.VoteDown:
			t.Down += row.N
		default:
			r.log.Warn("Ignoring ledger row with unknown vote type", "suggestion_id", row.SuggestionID, "type", row.Type)
			continue
		}
		out[row.SuggestionID] = t
	}
	return out, nil
}
