package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	httpMW "github.com/yungbote/brandstorm-backend/internal/http/middleware"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/apierr"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/realtime"
	"github.com/yungbote/brandstorm-backend/internal/services"
)

const (
	wsWriteWait      = 10 * time.Second
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = (wsPongWait * 9) / 10
	wsMaxInboundSize = 8 << 10
)

type RealtimeHandler struct {
	Log         *logger.Logger
	Hub         *realtime.SSEHub
	Suggestions services.SuggestionService
	Chat        services.ChatService
	Room        string
	// Origins is the CORS origin list; nil means the local dev origins.
	Origins  []string
	upgrader websocket.Upgrader
}

func NewRealtimeHandler(
	log *logger.Logger,
	hub *realtime.SSEHub,
	suggestions services.SuggestionService,
	chat services.ChatService,
	room string,
	origins []string,
) *RealtimeHandler {
	room = strings.TrimSpace(room)
	if room == "" {
		room = realtime.DefaultChannel
	}
	h := &RealtimeHandler{
		Log:         log.With("handler", "RealtimeHandler"),
		Hub:         hub,
		Suggestions: suggestions,
		Chat:        chat,
		Room:        room,
		Origins:     origins,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *RealtimeHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if httpMW.OriginAllowed(h.Origins, origin) {
		return true
	}
	h.Log.Warn("WebSocket origin rejected", "origin", origin)
	return false
}

func (h *RealtimeHandler) channel(c *gin.Context) string {
	if ch := strings.TrimSpace(c.Query("channel")); ch != "" {
		return ch
	}
	return h.Room
}

// GET /realtime/stream?channel=<room>
func (h *RealtimeHandler) SSEStream(c *gin.Context) {
	channel := h.channel(c)
	client := h.Hub.NewSSEClient(c.Query("username"))
	defer h.Hub.CloseClient(client)

	h.Log.Info("SSE stream open", "clientID", client.ID, "channel", channel)
	h.join(c, client, channel)
	h.Hub.ServeHTTP(c.Writer, c.Request, client)
	h.Log.Info("SSE stream closed", "clientID", client.ID, "channel", channel)
}

// join subscribes the client and queues the chat history and the suggestion
// snapshot for it alone, ahead of any broadcast that lands meanwhile.
func (h *RealtimeHandler) join(c *gin.Context, client *realtime.SSEClient, channel string) {
	h.Hub.Join(client, channel, func() []realtime.SSEMessage {
		return h.initialState(c, client, channel)
	})
}

func (h *RealtimeHandler) initialState(c *gin.Context, client *realtime.SSEClient, channel string) []realtime.SSEMessage {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	var out []realtime.SSEMessage

	history, err := h.Chat.RecentHistory(dbc)
	if err != nil {
		h.Log.Warn("Failed to load chat history for join", "clientID", client.ID, "error", err)
	} else {
		out = append(out, realtime.SSEMessage{
			Channel: channel,
			Event:   realtime.SSEEventChatHistory,
			Data:    history,
		})
	}

	snapshot, err := h.Suggestions.ListSuggestions(dbc)
	if err != nil {
		h.Log.Warn("Failed to load suggestions for join", "clientID", client.ID, "error", err)
		return out
	}
	return append(out, realtime.SSEMessage{
		Channel: channel,
		Event:   realtime.SSEEventSuggestionsSnapshot,
		Data:    snapshot,
	})
}

type wsInbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type wsChatPayload struct {
	Author   string `json:"author"`
	UserName string `json:"user_name"`
	Text     string `json:"text"`
	Message  string `json:"message"`
}

// GET /realtime/ws?channel=<room>&username=<name>
func (h *RealtimeHandler) WebSocket(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	channel := h.channel(c)
	client := h.Hub.NewSSEClient(c.Query("username"))
	defer h.Hub.CloseClient(client)
	h.Log.Info("WebSocket open", "clientID", client.ID, "channel", channel, "username", client.UserName)

	h.join(c, client, channel)
	if client.UserName != "" {
		h.Chat.AnnounceJoin(client.UserName)
	}

	writerDone := make(chan struct{})
	go h.wsWriter(conn, client, writerDone)

	h.wsReader(c, conn, client, channel)

	h.Hub.CloseClient(client)
	<-writerDone
	h.Log.Info("WebSocket closed", "clientID", client.ID, "channel", channel)
}

func (h *RealtimeHandler) wsWriter(conn *websocket.Conn, client *realtime.SSEClient, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-client.Outbound:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				client.Logger.Debug("WebSocket write failed", "error", err)
				// Unblocks the reader so the handler can finish.
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}

func (h *RealtimeHandler) wsReader(c *gin.Context, conn *websocket.Conn, client *realtime.SSEClient, channel string) {
	conn.SetReadLimit(wsMaxInboundSize)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				client.Logger.Debug("WebSocket read ended", "error", err)
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))

		switch strings.TrimSpace(in.Event) {
		case "send_message":
			h.handleInboundChat(c, client, channel, in.Data)
		case "ping":
			h.Hub.Send(client, realtime.SSEMessage{Channel: channel, Event: realtime.SSEEventPong})
		default:
			h.sendError(client, channel, apierr.CodeValidation, "unknown event")
		}
	}
}

func (h *RealtimeHandler) handleInboundChat(c *gin.Context, client *realtime.SSEClient, channel string, raw json.RawMessage) {
	var p wsChatPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			h.sendError(client, channel, "invalid_request", "malformed send_message payload")
			return
		}
	}
	author := firstNonEmpty(p.Author, p.UserName, client.UserName)
	text := firstNonEmpty(p.Text, p.Message)

	_, err := h.Chat.PostMessage(dbctx.Context{Ctx: c.Request.Context()}, author, text)
	if err == nil {
		return
	}
	code := apierr.Code(err)
	msg := "internal server error"
	if code != apierr.CodeInternal {
		msg = err.Error()
	} else {
		client.Logger.Error("WebSocket chat post failed", "error", err)
	}
	h.sendError(client, channel, code, msg)
}

func (h *RealtimeHandler) sendError(client *realtime.SSEClient, channel, code, msg string) {
	h.Hub.Send(client, realtime.SSEMessage{
		Channel: channel,
		Event:   realtime.SSEEventError,
		Data:    map[string]string{"code": code, "message": msg},
	})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
