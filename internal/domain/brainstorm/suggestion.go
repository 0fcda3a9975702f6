package brainstorm

import "time"

const (
	MaxTextLength   = 200
	MaxAuthorLength = 80
)

type Suggestion struct {
	ID     uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Text   string `gorm:"column:text;type:varchar(200);not null" json:"text"`
	Author string `gorm:"column:author;type:varchar(80);not null;index" json:"author"`

	// Upvotes and Downvotes are materialized from the vote ledger and only
	// move inside the same transaction as the ledger row that caused them.
	Upvotes   int `gorm:"column:upvotes;not null;default:0" json:"upvotes"`
	Downvotes int `gorm:"column:downvotes;not null;default:0" json:"downvotes"`

	// Version is bumped at the start of every mutation and doubles as the row lock.
	Version uint `gorm:"column:version;not null;default:1" json:"version"`

	CreatedAt time.Time  `gorm:"column:created_at;not null;index" json:"created_at"`
	EditedAt  *time.Time `gorm:"column:edited_at" json:"edited_at,omitempty"`

	// gorm builds the vote foreign key from this side, so the cascade lives here.
	Votes []*Vote `gorm:"foreignKey:SuggestionID;constraint:OnDelete:CASCADE" json:"-"`

	Edited bool    `gorm:"-" json:"edited"`
	Voters []Voter `gorm:"-" json:"voters"`
}

func (Suggestion) TableName() string { return "suggestion" }

// Project fills the derived fields from the loaded vote rows.
func (s *Suggestion) Project() *Suggestion {
	if s == nil {
		return nil
	}
	s.Edited = s.EditedAt != nil
	s.Voters = make([]Voter, 0, len(s.Votes))
	for _, v := range s.Votes {
		if v == nil {
			continue
		}
		s.Voters = append(s.Voters, Voter{User: v.UserName, Type: v.Type})
	}
	return s
}

// Score is upvotes minus downvotes.
func (s *Suggestion) Score() int {
	if s == nil {
		return 0
	}
	return s.Upvotes - s.Downvotes
}
