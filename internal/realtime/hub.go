package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/brandstorm-backend/internal/observability"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
)

const heartbeatInterval = 15 * time.Second

type SSEHub struct {
	mu            sync.RWMutex
	logger        *logger.Logger
	metrics       *observability.Metrics
	buffer        int
	subscriptions map[string]map[*SSEClient]bool
}

type HubOption func(*SSEHub)

func WithMetrics(m *observability.Metrics) HubOption {
	return func(h *SSEHub) { h.metrics = m }
}

// WithBuffer sets the per-client outbound queue length.
func WithBuffer(n int) HubOption {
	return func(h *SSEHub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func NewSSEHub(log *logger.Logger, opts ...HubOption) *SSEHub {
	hub := &SSEHub{
		logger:        log.With("component", "SSEHub"),
		buffer:        DefaultOutboundBuffer,
		subscriptions: make(map[string]map[*SSEClient]bool),
	}
	for _, opt := range opts {
		opt(hub)
	}
	return hub
}

func (hub *SSEHub) NewSSEClient(userName string) *SSEClient {
	id := uuid.New()
	return &SSEClient{
		ID:       id,
		UserName: strings.TrimSpace(userName),
		Channels: make(map[string]bool),
		Outbound: make(chan SSEMessage, hub.buffer),
		done:     make(chan struct{}),
		Logger:   hub.logger.With("clientID", id),
	}
}

func (hub *SSEHub) AddChannel(client *SSEClient, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	channel = strings.TrimSpace(channel)
	if channel == "" || client.closed {
		return
	}
	client.Channels[channel] = true

	clients, exists := hub.subscriptions[channel]
	if !exists {
		clients = make(map[*SSEClient]bool)
		hub.subscriptions[channel] = clients
	}
	clients[client] = true
	hub.metrics.SetSubscribers(channel, len(clients))

	hub.logger.Debug("SSE client subscribed", "clientID", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveChannel(client *SSEClient, channel string) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	delete(client.Channels, channel)
	hub.unsubscribeLocked(client, channel)
	hub.logger.Debug("SSE client unsubscribed from channel", "clientID", client.ID, "channel", channel)
}

func (hub *SSEHub) RemoveClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.removeClientLocked(client)
}

func (hub *SSEHub) removeClientLocked(client *SSEClient) {
	for ch := range client.Channels {
		hub.unsubscribeLocked(client, ch)
	}
	client.Channels = make(map[string]bool)
	hub.logger.Debug("SSE client unsubscribed from all channels", "clientID", client.ID)
}

func (hub *SSEHub) unsubscribeLocked(client *SSEClient, channel string) {
	subMap, ok := hub.subscriptions[channel]
	if !ok {
		return
	}
	delete(subMap, client)
	hub.metrics.SetSubscribers(channel, len(subMap))
	if len(subMap) == 0 {
		delete(hub.subscriptions, channel)
	}
}

// Subscribers reports how many clients are listening on channel.
func (hub *SSEHub) Subscribers(channel string) int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.subscriptions[strings.TrimSpace(channel)])
}

// Broadcast never blocks: a subscriber whose queue is full misses msg.
func (hub *SSEHub) Broadcast(msg SSEMessage) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	if msg.Channel == "" {
		return
	}
	clientsMap, ok := hub.subscriptions[msg.Channel]
	if !ok {
		return
	}
	for c := range clientsMap {
		hub.deliver(c, msg)
	}
}

func (hub *SSEHub) deliver(c *SSEClient, msg SSEMessage) {
	c.joinMu.Lock()
	defer c.joinMu.Unlock()
	if !c.joining {
		hub.enqueue(c, msg)
		return
	}
	if len(c.held) >= hub.buffer {
		hub.metrics.BroadcastDropped(string(msg.Event))
		hub.logger.Warn("Dropping SSE message; join backlog full", "clientID", c.ID, "event", msg.Event)
		return
	}
	c.held = append(c.held, msg)
}

// Join subscribes client to channel and queues the messages returned by load
// ahead of any broadcast that arrived while load ran. load runs after the
// subscription exists, so state it reads is never older than the first
// broadcast the client sees.
func (hub *SSEHub) Join(client *SSEClient, channel string, load func() []SSEMessage) {
	client.joinMu.Lock()
	client.joining = true
	client.joinMu.Unlock()

	hub.AddChannel(client, channel)

	var initial []SSEMessage
	if load != nil {
		initial = load()
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	client.joinMu.Lock()
	defer client.joinMu.Unlock()

	held := client.held
	client.held = nil
	client.joining = false
	if client.closed {
		return
	}
	for _, msg := range initial {
		hub.enqueue(client, msg)
	}
	for _, msg := range held {
		hub.enqueue(client, msg)
	}
}

// Send delivers msg to a single client, subscribed or not. Reports false
// when the client is gone or its queue is full.
func (hub *SSEHub) Send(client *SSEClient, msg SSEMessage) bool {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if client == nil || client.closed {
		return false
	}
	return hub.enqueue(client, msg)
}

func (hub *SSEHub) enqueue(c *SSEClient, msg SSEMessage) bool {
	select {
	case c.Outbound <- msg:
		hub.metrics.BroadcastDelivered(string(msg.Event))
		return true
	default:
		hub.metrics.BroadcastDropped(string(msg.Event))
		hub.logger.Warn("Dropping SSE message; outbound buffer full", "clientID", c.ID, "event", msg.Event)
		return false
	}
}

func (hub *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *SSEClient) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	flusher.Flush()
	ctx := r.Context()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			hub.logger.Debug("SSE client context done", "clientID", client.ID, "err", ctx.Err())
			return
		case <-client.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-client.Outbound:
			if !ok {
				return
			}
			jsonBytes, err := json.Marshal(msg)
			if err != nil {
				hub.logger.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: message\ndata: %s\n\n", jsonBytes)
			flusher.Flush()
		}
	}
}

// CloseClient unsubscribes client and closes its queues. Safe to call twice.
func (hub *SSEHub) CloseClient(client *SSEClient) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	if client.closed {
		return
	}
	client.closed = true
	hub.removeClientLocked(client)
	close(client.done)
	close(client.Outbound)
}

// CloseAll hangs up every subscribed client.
func (hub *SSEHub) CloseAll() {
	hub.mu.Lock()
	clients := make(map[*SSEClient]bool)
	for _, subs := range hub.subscriptions {
		for c := range subs {
			clients[c] = true
		}
	}
	hub.mu.Unlock()
	for c := range clients {
		hub.CloseClient(c)
	}
}
