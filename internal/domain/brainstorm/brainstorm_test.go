package brainstorm

import (
	"testing"
	"time"
)

func TestParseVoteType(t *testing.T) {
	cases := map[string]VoteType{"up": VoteUp, " down ": VoteDown}
	for raw, want := range cases {
		got, ok := ParseVoteType(raw)
		if !ok || got != want {
			t.Fatalf("ParseVoteType(%q): want=%v got=%v ok=%v", raw, want, got, ok)
		}
	}
	for _, raw := range []string{"", "upvote", "UP", "sideways"} {
		if _, ok := ParseVoteType(raw); ok {
			t.Fatalf("ParseVoteType(%q): want rejection", raw)
		}
	}
}

func TestDeltas(t *testing.T) {
	if up, down := VoteUp.Deltas(1); up != 1 || down != 0 {
		t.Fatalf("up add: got=(%d,%d)", up, down)
	}
	if up, down := VoteDown.Deltas(-1); up != 0 || down != -1 {
		t.Fatalf("down remove: got=(%d,%d)", up, down)
	}
}

func TestProject(t *testing.T) {
	now := time.Now()
	s := &Suggestion{
		Upvotes:   2,
		Downvotes: 1,
		EditedAt:  &now,
		Votes: []*Vote{
			{UserName: "alice", Type: VoteUp},
			nil,
			{UserName: "bob", Type: VoteDown},
		},
	}
	s.Project()
	if !s.Edited {
		t.Fatalf("Edited: want=true")
	}
	if len(s.Voters) != 2 || s.Voters[0].User != "alice" || s.Voters[1].Type != VoteDown {
		t.Fatalf("Voters: got=%+v", s.Voters)
	}
	if s.Score() != 1 {
		t.Fatalf("Score: want=1 got=%d", s.Score())
	}
	empty := (&Suggestion{}).Project()
	if empty.Voters == nil || empty.Edited {
		t.Fatalf("empty projection: got=%+v", empty)
	}
}
