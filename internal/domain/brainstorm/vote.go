package brainstorm

import (
	"strings"
	"time"
)

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

// ParseVoteType only accepts "up" and "down".
func ParseVoteType(raw string) (VoteType, bool) {
	switch VoteType(strings.TrimSpace(raw)) {
	case VoteUp:
		return VoteUp, true
	case VoteDown:
		return VoteDown, true
	default:
		return "", false
	}
}

// Deltas is the counter change for adding (n=1) or removing (n=-1) a vote of type t.
func (t VoteType) Deltas(n int) (up, down int) {
	switch t {
	case VoteUp:
		return n, 0
	case VoteDown:
		return 0, n
	default:
		return 0, 0
	}
}

type Vote struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	SuggestionID uint     `gorm:"column:suggestion_id;not null;uniqueIndex:idx_vote_suggestion_user,priority:1" json:"suggestion_id"`
	UserName     string   `gorm:"column:user_name;type:varchar(80);not null;uniqueIndex:idx_vote_suggestion_user,priority:2" json:"user"`
	Type         VoteType `gorm:"column:type;type:varchar(8);not null" json:"type"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (Vote) TableName() string { return "vote" }

// Voter is the public projection of a vote carried in suggestion payloads.
type Voter struct {
	User string   `json:"user"`
	Type VoteType `json:"type"`
}

// Tally is a per-suggestion count recomputed from the ledger.
type Tally struct {
	Up   int
	Down int
}
