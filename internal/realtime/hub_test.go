package realtime

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func expectNothing(t *testing.T, ch <-chan SSEMessage) {
	t.Helper()
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSSEHubBroadcastOrderingAndReconnect(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))

	clientA := hub.NewSSEClient("alice")
	hub.AddChannel(clientA, DefaultChannel)

	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventSuggestionCreated, Data: map[string]any{"id": 1}})
	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventVoteUpdate, Data: map[string]any{"id": 1}})

	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventSuggestionCreated {
		t.Fatalf("first event: want=%s got=%s", SSEEventSuggestionCreated, got.Event)
	}
	if got := recvMessage(t, clientA.Outbound, time.Second); got.Event != SSEEventVoteUpdate {
		t.Fatalf("second event: want=%s got=%s", SSEEventVoteUpdate, got.Event)
	}

	hub.CloseClient(clientA)
	hub.CloseClient(clientA)
	if _, ok := <-clientA.Outbound; ok {
		t.Fatalf("clientA outbound should be closed after disconnect")
	}
	select {
	case <-clientA.Done():
	default:
		t.Fatalf("clientA done should be closed")
	}
	if n := hub.Subscribers(DefaultChannel); n != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", n)
	}

	clientB := hub.NewSSEClient("")
	hub.AddChannel(clientB, DefaultChannel)
	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventChatCleared})
	if got := recvMessage(t, clientB.Outbound, time.Second); got.Event != SSEEventChatCleared {
		t.Fatalf("reconnect event: want=%s got=%s", SSEEventChatCleared, got.Event)
	}
	if hub.Send(clientA, SSEMessage{Event: SSEEventPong}) {
		t.Fatalf("Send to closed client: want=false")
	}
}

func TestSSEHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	inRoom := hub.NewSSEClient("alice")
	elsewhere := hub.NewSSEClient("bob")
	hub.AddChannel(inRoom, DefaultChannel)
	hub.AddChannel(elsewhere, "other")
	hub.AddChannel(elsewhere, "  ")

	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventSuggestionDeleted, Data: map[string]any{"id": 3}})
	hub.Broadcast(SSEMessage{Event: SSEEventSuggestionDeleted})

	recvMessage(t, inRoom.Outbound, time.Second)
	expectNothing(t, elsewhere.Outbound)
	expectNothing(t, inRoom.Outbound)

	hub.RemoveChannel(inRoom, DefaultChannel)
	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventChatCleared})
	expectNothing(t, inRoom.Outbound)
}

func TestSSEHubDropsWhenBufferFull(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), WithBuffer(2))
	slow := hub.NewSSEClient("slow")
	fast := hub.NewSSEClient("fast")
	hub.AddChannel(slow, DefaultChannel)
	hub.AddChannel(fast, DefaultChannel)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 5; i++ {
			hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventVoteUpdate, Data: i})
			<-fast.Outbound
		}
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Broadcast blocked on a full subscriber")
	}

	if got := len(slow.Outbound); got != 2 {
		t.Fatalf("slow buffer: want=2 got=%d", got)
	}
	first := recvMessage(t, slow.Outbound, time.Second)
	if first.Data != 0 {
		t.Fatalf("slow first: want=0 got=%v", first.Data)
	}
}

func TestSSEHubSendTargetsOneClient(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	joiner := hub.NewSSEClient("carol")
	other := hub.NewSSEClient("dave")
	hub.AddChannel(joiner, DefaultChannel)
	hub.AddChannel(other, DefaultChannel)

	if !hub.Send(joiner, SSEMessage{Channel: DefaultChannel, Event: SSEEventChatHistory, Data: []string{}}) {
		t.Fatalf("Send: want=true")
	}
	if got := recvMessage(t, joiner.Outbound, time.Second); got.Event != SSEEventChatHistory {
		t.Fatalf("joiner: want=%s got=%s", SSEEventChatHistory, got.Event)
	}
	expectNothing(t, other.Outbound)
}

func TestSSEHubConcurrentBroadcastAndClose(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		c := hub.NewSSEClient("")
		hub.AddChannel(c, DefaultChannel)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventVoteUpdate})
			}
		}()
		go func(c *SSEClient) {
			defer wg.Done()
			hub.CloseClient(c)
		}(c)
	}
	wg.Wait()
	if n := hub.Subscribers(DefaultChannel); n != 0 {
		t.Fatalf("subscribers: want=0 got=%d", n)
	}
}

func TestSSEHubServeHTTPStreamsEnvelope(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient("")
	hub.AddChannel(client, DefaultChannel)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeHTTP(w, r, client)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: want=text/event-stream got=%s", ct)
	}

	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventSuggestionDeleted, Data: map[string]any{"id": 7}})

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var msg struct {
			Channel string         `json:"channel"`
			Event   string         `json:"event"`
			Data    map[string]int `json:"data"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Channel != DefaultChannel || msg.Event != string(SSEEventSuggestionDeleted) || msg.Data["id"] != 7 {
			t.Fatalf("envelope: got=%+v", msg)
		}
		return
	}
	t.Fatalf("stream ended without a data frame: %v", scanner.Err())
}

func TestSSEHubCloseAll(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	a := hub.NewSSEClient("a")
	b := hub.NewSSEClient("b")
	hub.AddChannel(a, "room")
	hub.AddChannel(b, "room")
	hub.AddChannel(b, "other")

	hub.CloseAll()

	for _, c := range []*SSEClient{a, b} {
		select {
		case <-c.Done():
		default:
			t.Fatalf("client %s not closed", c.UserName)
		}
	}
	if got := hub.Subscribers("room") + hub.Subscribers("other"); got != 0 {
		t.Fatalf("subscribers after CloseAll: want=0 got=%d", got)
	}
	if hub.Send(a, SSEMessage{Channel: "room", Event: SSEEventPong}) {
		t.Fatalf("Send to closed client: want=false")
	}
}

func TestSSEHubRemoveClientKeepsQueueOpen(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	c := hub.NewSSEClient("carol")
	hub.AddChannel(c, "room")
	hub.AddChannel(c, "other")

	hub.RemoveClient(c)
	if got := hub.Subscribers("room") + hub.Subscribers("other"); got != 0 {
		t.Fatalf("subscribers after RemoveClient: want=0 got=%d", got)
	}
	hub.Broadcast(SSEMessage{Channel: "room", Event: SSEEventChatCleared})
	expectNothing(t, c.Outbound)

	if !hub.Send(c, SSEMessage{Channel: "room", Event: SSEEventPong}) {
		t.Fatalf("Send after RemoveClient: want=true")
	}
	if msg := recvMessage(t, c.Outbound, time.Second); msg.Event != SSEEventPong {
		t.Fatalf("event: want=pong got=%s", msg.Event)
	}
	hub.CloseClient(c)
}

func TestSSEHubJoinQueuesInitialStateFirst(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient("carol")

	hub.Join(client, DefaultChannel, func() []SSEMessage {
		if got := hub.Subscribers(DefaultChannel); got != 1 {
			t.Errorf("subscribers during load: want=1 got=%d", got)
		}
		// A mutation commits after the snapshot was read but before it is queued.
		hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventVoteUpdate, Data: map[string]any{"id": 1, "version": 2}})
		return []SSEMessage{
			{Channel: DefaultChannel, Event: SSEEventChatHistory},
			{Channel: DefaultChannel, Event: SSEEventSuggestionsSnapshot, Data: map[string]any{"version": 1}},
		}
	})

	want := []SSEEvent{SSEEventChatHistory, SSEEventSuggestionsSnapshot, SSEEventVoteUpdate}
	for i, ev := range want {
		if got := recvMessage(t, client.Outbound, time.Second); got.Event != ev {
			t.Fatalf("message %d: want=%s got=%s", i, ev, got.Event)
		}
	}
	expectNothing(t, client.Outbound)

	hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventSuggestionCreated})
	if got := recvMessage(t, client.Outbound, time.Second); got.Event != SSEEventSuggestionCreated {
		t.Fatalf("after join: want=%s got=%s", SSEEventSuggestionCreated, got.Event)
	}
}

func TestSSEHubJoinBacklogIsBounded(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t), WithBuffer(2))
	client := hub.NewSSEClient("dave")

	hub.Join(client, DefaultChannel, func() []SSEMessage {
		for i := 0; i < 5; i++ {
			hub.Broadcast(SSEMessage{Channel: DefaultChannel, Event: SSEEventVoteUpdate, Data: i})
		}
		return nil
	})

	for i := 0; i < 2; i++ {
		got := recvMessage(t, client.Outbound, time.Second)
		if got.Data != i {
			t.Fatalf("held message %d: want data=%d got=%v", i, i, got.Data)
		}
	}
	expectNothing(t, client.Outbound)
}

func TestSSEHubJoinAfterCloseQueuesNothing(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient("erin")

	hub.Join(client, DefaultChannel, func() []SSEMessage {
		hub.CloseClient(client)
		return []SSEMessage{{Channel: DefaultChannel, Event: SSEEventSuggestionsSnapshot}}
	})
	if _, ok := <-client.Outbound; ok {
		t.Fatalf("closed client: want closed queue")
	}
	if got := hub.Subscribers(DefaultChannel); got != 0 {
		t.Fatalf("subscribers after close: want=0 got=%d", got)
	}
}
