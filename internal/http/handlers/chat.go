package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandstorm-backend/internal/http/response"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/services"
)

type ChatHandler struct {
	log *logger.Logger
	svc services.ChatService
}

func NewChatHandler(log *logger.Logger, svc services.ChatService) *ChatHandler {
	return &ChatHandler{log: log.With("handler", "ChatHandler"), svc: svc}
}

type chatBody struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

// GET /chat?limit=N
func (h *ChatHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	rows, err := h.svc.ListMessages(dbctx.Context{Ctx: c.Request.Context()}, limit)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /chat
func (h *ChatHandler) Post(c *gin.Context) {
	var body chatBody
	if !bindJSON(c, &body) {
		return
	}
	msg, err := h.svc.PostMessage(dbctx.Context{Ctx: c.Request.Context()}, body.Author, body.Text)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondCreated(c, msg)
}

// POST /chat/clear
func (h *ChatHandler) Clear(c *gin.Context) {
	if _, err := h.svc.Clear(dbctx.Context{Ctx: c.Request.Context()}); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}
