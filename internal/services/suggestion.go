package services

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/yungbote/brandstorm-backend/internal/data/aggregates"
	"github.com/yungbote/brandstorm-backend/internal/data/repos"
	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/apierr"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

type SuggestionService interface {
	CreateSuggestion(dbc dbctx.Context, author, text string) (*types.Suggestion, error)
	EditSuggestion(dbc dbctx.Context, id uint, author, text string) (*types.Suggestion, error)
	DeleteSuggestion(dbc dbctx.Context, id uint, author string) error
	CastVote(dbc dbctx.Context, id uint, user, voteType string) (*types.Suggestion, error)
	GetSuggestion(dbc dbctx.Context, id uint) (*types.Suggestion, error)
	ListSuggestions(dbc dbctx.Context) ([]*types.Suggestion, error)
	// Reconcile rewrites any counters that disagree with the vote ledger and
	// returns how many suggestions it repaired.
	Reconcile(dbc dbctx.Context) (int, error)
}

type suggestionService struct {
	tx          aggregates.TxRunner
	log         *logger.Logger
	suggestions repos.SuggestionRepo
	votes       repos.VoteRepo
	notify      SuggestionNotifier
	metrics     *observability.Metrics
	now         func() time.Time
}

func NewSuggestionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	suggestions repos.SuggestionRepo,
	votes repos.VoteRepo,
	notify SuggestionNotifier,
	metrics *observability.Metrics,
) SuggestionService {
	return &suggestionService{
		tx:          aggregates.NewGormTxRunner(db),
		log:         baseLog.With("service", "SuggestionService"),
		suggestions: suggestions,
		votes:       votes,
		notify:      notify,
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *suggestionService) CreateSuggestion(dbc dbctx.Context, author, text string) (out *types.Suggestion, err error) {
	defer func() { s.observe("create", err) }()

	author, text = strings.TrimSpace(author), strings.TrimSpace(text)
	if err := validateAuthorAndText(author, text); err != nil {
		return nil, err
	}

	err = s.inTx(dbc, func(txc dbctx.Context) error {
		created, err := s.suggestions.Create(txc, &types.Suggestion{
			Text:      text,
			Author:    author,
			CreatedAt: s.now(),
			Version:   1,
		})
		if err != nil {
			return fmt.Errorf("create suggestion: %w", err)
		}
		out = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Suggestion created", "id", out.ID, "author", out.Author)
	s.notify.SuggestionCreated(out)
	return out, nil
}

func (s *suggestionService) EditSuggestion(dbc dbctx.Context, id uint, author, text string) (out *types.Suggestion, err error) {
	defer func() { s.observe("edit", err) }()

	author, text = strings.TrimSpace(author), strings.TrimSpace(text)
	if err := validateAuthorAndText(author, text); err != nil {
		return nil, err
	}

	err = s.inTx(dbc, func(txc dbctx.Context) error {
		if _, err := s.lockOwned(txc, id, author); err != nil {
			return err
		}
		if err := s.suggestions.UpdateText(txc, id, text, s.now()); err != nil {
			return fmt.Errorf("update suggestion text: %w", err)
		}
		out, err = s.reload(txc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Suggestion edited", "id", id, "author", author)
	s.notify.SuggestionUpdated(out)
	return out, nil
}

func (s *suggestionService) DeleteSuggestion(dbc dbctx.Context, id uint, author string) (err error) {
	defer func() { s.observe("delete", err) }()

	author = strings.TrimSpace(author)
	if author == "" {
		return apierr.Validation("author is required")
	}

	err = s.inTx(dbc, func(txc dbctx.Context) error {
		if _, err := s.lockOwned(txc, id, author); err != nil {
			return err
		}
		if _, err := s.votes.DeleteBySuggestion(txc, id); err != nil {
			return fmt.Errorf("delete votes: %w", err)
		}
		if _, err := s.suggestions.Delete(txc, id); err != nil {
			return fmt.Errorf("delete suggestion: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("Suggestion deleted", "id", id, "author", author)
	s.notify.SuggestionDeleted(id)
	return nil
}

// CastVote applies the toggle rule: a first vote is recorded, repeating the
// same vote withdraws it, and the opposite vote switches it.
func (s *suggestionService) CastVote(dbc dbctx.Context, id uint, user, voteType string) (out *types.Suggestion, err error) {
	defer func() { s.observe("vote", err) }()

	user = strings.TrimSpace(user)
	if user == "" {
		return nil, apierr.Validation("user is required")
	}
	if utf8.RuneCountInString(user) > types.MaxAuthorLength {
		return nil, apierr.Validation(fmt.Sprintf("user must be at most %d characters", types.MaxAuthorLength))
	}
	vt, ok := types.ParseVoteType(voteType)
	if !ok {
		return nil, apierr.Validation(`type must be "up" or "down"`)
	}

	err = s.inTx(dbc, func(txc dbctx.Context) error {
		if err := s.lock(txc, id); err != nil {
			return err
		}
		existing, err := s.votes.Get(txc, id, user)
		if err != nil {
			return fmt.Errorf("load vote: %w", err)
		}
		now := s.now()
		var up, down int
		switch {
		case existing == nil:
			if _, err := s.votes.Create(txc, &types.Vote{
				SuggestionID: id,
				UserName:     user,
				Type:         vt,
				CreatedAt:    now,
				UpdatedAt:    now,
			}); err != nil {
				return fmt.Errorf("record vote: %w", err)
			}
			up, down = vt.Deltas(1)
		case existing.Type == vt:
			if err := s.votes.Delete(txc, existing.ID); err != nil {
				return fmt.Errorf("withdraw vote: %w", err)
			}
			up, down = vt.Deltas(-1)
		default:
			if err := s.votes.UpdateType(txc, existing.ID, vt, now); err != nil {
				return fmt.Errorf("switch vote: %w", err)
			}
			oldUp, oldDown := existing.Type.Deltas(-1)
			newUp, newDown := vt.Deltas(1)
			up, down = oldUp+newUp, oldDown+newDown
		}
		if err := s.suggestions.AdjustCounts(txc, id, up, down); err != nil {
			return fmt.Errorf("adjust counts: %w", err)
		}
		out, err = s.reload(txc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Debug("Vote cast", "id", id, "user", user, "type", vt, "upvotes", out.Upvotes, "downvotes", out.Downvotes)
	s.notify.VoteUpdated(out)
	return out, nil
}

// Reads load the row and its voters in two statements, so they share a
// read transaction to keep the counters in step with the voters list.
func (s *suggestionService) GetSuggestion(dbc dbctx.Context, id uint) (out *types.Suggestion, err error) {
	err = s.tx.InReadTx(dbc, func(txc dbctx.Context) error {
		out, err = s.reload(txc, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *suggestionService) ListSuggestions(dbc dbctx.Context) (rows []*types.Suggestion, err error) {
	err = s.tx.InReadTx(dbc, func(txc dbctx.Context) error {
		rows, err = s.suggestions.List(txc)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	return rows, nil
}

func (s *suggestionService) Reconcile(dbc dbctx.Context) (repaired int, err error) {
	defer func() { s.observe("reconcile", err) }()

	err = s.inTx(dbc, func(txc dbctx.Context) error {
		tallies, err := s.votes.Tallies(txc)
		if err != nil {
			return fmt.Errorf("tally votes: %w", err)
		}
		rows, err := s.suggestions.ListCounts(txc)
		if err != nil {
			return fmt.Errorf("list counts: %w", err)
		}
		for _, row := range rows {
			want := tallies[row.ID]
			if row.Upvotes == want.Up && row.Downvotes == want.Down {
				continue
			}
			s.log.Warn("Suggestion counters drifted from ledger",
				"id", row.ID,
				"upvotes", row.Upvotes, "ledger_up", want.Up,
				"downvotes", row.Downvotes, "ledger_down", want.Down,
			)
			if err := s.suggestions.SetCounts(txc, row.ID, want.Up, want.Down); err != nil {
				return fmt.Errorf("repair counts for %d: %w", row.ID, err)
			}
			repaired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.metrics.AddReconciled(repaired)
	if repaired > 0 {
		s.log.Info("Reconciled suggestion counters", "repaired", repaired)
	}
	return repaired, nil
}

func (s *suggestionService) inTx(dbc dbctx.Context, fn func(txc dbctx.Context) error) error {
	return s.tx.InTx(dbc, fn)
}

func (s *suggestionService) lock(txc dbctx.Context, id uint) error {
	ok, err := s.suggestions.Lock(txc, id)
	if err != nil {
		return fmt.Errorf("lock suggestion: %w", err)
	}
	if !ok {
		return apierr.NotFound(fmt.Sprintf("suggestion %d not found", id))
	}
	return nil
}

func (s *suggestionService) lockOwned(txc dbctx.Context, id uint, author string) (*types.Suggestion, error) {
	if err := s.lock(txc, id); err != nil {
		return nil, err
	}
	current, err := s.reload(txc, id)
	if err != nil {
		return nil, err
	}
	if current.Author != author {
		return nil, apierr.Forbidden("only the author can change this suggestion")
	}
	return current, nil
}

func (s *suggestionService) reload(dbc dbctx.Context, id uint) (*types.Suggestion, error) {
	row, err := s.suggestions.GetByID(dbc, id)
	if err != nil {
		return nil, fmt.Errorf("load suggestion: %w", err)
	}
	if row == nil {
		return nil, apierr.NotFound(fmt.Sprintf("suggestion %d not found", id))
	}
	return row, nil
}

func (s *suggestionService) observe(op string, err error) {
	if err == nil {
		s.metrics.ObserveMutation(op, "ok")
		return
	}
	s.metrics.ObserveMutation(op, apierr.Code(err))
}

func validateAuthorAndText(author, text string) error {
	if author == "" {
		return apierr.Validation("author is required")
	}
	if text == "" {
		return apierr.Validation("text is required")
	}
	if utf8.RuneCountInString(author) > types.MaxAuthorLength {
		return apierr.Validation(fmt.Sprintf("author must be at most %d characters", types.MaxAuthorLength))
	}
	if utf8.RuneCountInString(text) > types.MaxSuggestionTextLength {
		return apierr.Validation(fmt.Sprintf("text must be at most %d characters", types.MaxSuggestionTextLength))
	}
	return nil
}
