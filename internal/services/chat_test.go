package services

import (
	"fmt"
	"testing"

	"github.com/yungbote/brandstorm-backend/internal/data/repos"
	"github.com/yungbote/brandstorm-backend/internal/data/repos/testutil"
	types "github.com/yungbote/brandstorm-backend/internal/domain"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	bserrors "github.com/yungbote/brandstorm-backend/internal/pkg/errors"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
)

func newChatFixture(t *testing.T) (ChatService, *recordingEmitter) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	emit := &recordingEmitter{}
	svc := NewChatService(log, repos.NewChatMessageRepo(db, log), NewChatNotifier(emit, "room-1"), nil)
	return svc, emit
}

func TestChatPostAndList(t *testing.T) {
	svc, emit := newChatFixture(t)
	dbc := dbctx.Background()

	msg, err := svc.PostMessage(dbc, " alice ", " hello ")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if msg.ID == 0 || msg.Author != "alice" || msg.Text != "hello" {
		t.Fatalf("PostMessage: got=%+v", msg)
	}
	ev := emit.last(t)
	if ev.Event != realtime.SSEEventNewChatMessage || ev.Channel != "room-1" {
		t.Fatalf("post event: got=%s on %s", ev.Event, ev.Channel)
	}

	if _, err := svc.PostMessage(dbc, "bob", "hi"); err != nil {
		t.Fatalf("PostMessage bob: %v", err)
	}
	rows, err := svc.ListMessages(dbc, 0)
	if err != nil || len(rows) != 2 || rows[0].Author != "alice" {
		t.Fatalf("ListMessages: err=%v rows=%v", err, rows)
	}

	_, err = svc.PostMessage(dbc, "", "x")
	wantAPIError(t, err, 400, bserrors.ErrInvalidArgument)
	_, err = svc.PostMessage(dbc, "alice", "")
	wantAPIError(t, err, 400, bserrors.ErrInvalidArgument)
	if len(emit.all()) != 2 {
		t.Fatalf("rejected posts must not broadcast: events=%d", len(emit.all()))
	}
}

func TestChatRecentHistoryAndClear(t *testing.T) {
	svc, emit := newChatFixture(t)
	dbc := dbctx.Background()

	for i := 0; i < types.ChatHistoryLimit+5; i++ {
		if _, err := svc.PostMessage(dbc, "alice", fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("PostMessage %d: %v", i, err)
		}
	}
	history, err := svc.RecentHistory(dbc)
	if err != nil {
		t.Fatalf("RecentHistory: %v", err)
	}
	if len(history) != types.ChatHistoryLimit {
		t.Fatalf("history len: want=%d got=%d", types.ChatHistoryLimit, len(history))
	}
	if history[0].Text != "msg-5" || history[len(history)-1].Text != fmt.Sprintf("msg-%d", types.ChatHistoryLimit+4) {
		t.Fatalf("history window: first=%s last=%s", history[0].Text, history[len(history)-1].Text)
	}

	n, err := svc.Clear(dbc)
	if err != nil || n != int64(types.ChatHistoryLimit+5) {
		t.Fatalf("Clear: n=%d err=%v", n, err)
	}
	if ev := emit.last(t); ev.Event != realtime.SSEEventChatCleared || ev.Data != nil {
		t.Fatalf("clear event: got=%+v", ev)
	}
	if rows, _ := svc.ListMessages(dbc, 0); len(rows) != 0 {
		t.Fatalf("after clear: len=%d", len(rows))
	}
}

func TestChatAnnounceJoinIsNotPersisted(t *testing.T) {
	svc, emit := newChatFixture(t)
	dbc := dbctx.Background()

	if svc.AnnounceJoin("  ") != nil {
		t.Fatalf("AnnounceJoin blank: want=nil")
	}
	msg := svc.AnnounceJoin("carol")
	if msg == nil || msg.Author != types.SystemAuthor || msg.Text != "carol has joined the discussion." {
		t.Fatalf("AnnounceJoin: got=%+v", msg)
	}
	if ev := emit.last(t); ev.Event != realtime.SSEEventNewChatMessage {
		t.Fatalf("announce event: got=%s", ev.Event)
	}
	if rows, _ := svc.ListMessages(dbc, 0); len(rows) != 0 {
		t.Fatalf("announcement persisted: len=%d", len(rows))
	}
}
