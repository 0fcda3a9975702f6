package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/brandstorm-backend/internal/http/response"
	"github.com/yungbote/brandstorm-backend/internal/pkg/dbctx"
	"github.com/yungbote/brandstorm-backend/internal/platform/logger"
	"github.com/yungbote/brandstorm-backend/internal/services"
)

type SuggestionHandler struct {
	log *logger.Logger
	svc services.SuggestionService
}

func NewSuggestionHandler(log *logger.Logger, svc services.SuggestionService) *SuggestionHandler {
	return &SuggestionHandler{log: log.With("handler", "SuggestionHandler"), svc: svc}
}

type suggestionBody struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

type deleteBody struct {
	Author string `json:"author"`
}

type voteBody struct {
	User string `json:"user"`
	Type string `json:"type"`
}

// GET /suggestions
func (h *SuggestionHandler) List(c *gin.Context) {
	rows, err := h.svc.ListSuggestions(dbctx.Context{Ctx: c.Request.Context()})
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// POST /suggestions
func (h *SuggestionHandler) Create(c *gin.Context) {
	var body suggestionBody
	if !bindJSON(c, &body) {
		return
	}
	s, err := h.svc.CreateSuggestion(dbctx.Context{Ctx: c.Request.Context()}, body.Author, body.Text)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondCreated(c, s)
}

// GET /suggestions/:id
func (h *SuggestionHandler) Get(c *gin.Context) {
	id, ok := suggestionID(c)
	if !ok {
		return
	}
	s, err := h.svc.GetSuggestion(dbctx.Context{Ctx: c.Request.Context()}, id)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, s)
}

// PUT /suggestions/:id
func (h *SuggestionHandler) Update(c *gin.Context) {
	id, ok := suggestionID(c)
	if !ok {
		return
	}
	var body suggestionBody
	if !bindJSON(c, &body) {
		return
	}
	s, err := h.svc.EditSuggestion(dbctx.Context{Ctx: c.Request.Context()}, id, body.Author, body.Text)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, s)
}

// DELETE /suggestions/:id
func (h *SuggestionHandler) Delete(c *gin.Context) {
	id, ok := suggestionID(c)
	if !ok {
		return
	}
	var body deleteBody
	if !bindJSON(c, &body) {
		return
	}
	if err := h.svc.DeleteSuggestion(dbctx.Context{Ctx: c.Request.Context()}, id, body.Author); err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"success": true})
}

// POST /suggestions/:id/vote
func (h *SuggestionHandler) Vote(c *gin.Context) {
	id, ok := suggestionID(c)
	if !ok {
		return
	}
	var body voteBody
	if !bindJSON(c, &body) {
		return
	}
	s, err := h.svc.CastVote(dbctx.Context{Ctx: c.Request.Context()}, id, body.User, body.Type)
	if err != nil {
		response.RespondServiceError(c, h.log, err)
		return
	}
	response.RespondOK(c, s)
}
