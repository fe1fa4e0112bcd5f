// README: Chat and session handlers.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/modules/conversation"
	"rideinsight/internal/service"
)

const maxMessageLen = 2000

type ChatHandler struct {
	sessions *service.SessionManager
}

func NewChatHandler(sessions *service.SessionManager) *ChatHandler {
	return &ChatHandler{sessions: sessions}
}

type chatReq struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

type chatResp struct {
	SessionID string `json:"session_id"`
	service.Reply
	AIStatus string `json:"ai_status"`
}

type sessionResp struct {
	SessionID string `json:"session_id"`
	AIStatus  string `json:"ai_status"`
	AIState   string `json:"ai_state"`
}

// CreateSession handles POST /api/sessions.
func (h *ChatHandler) CreateSession(c *gin.Context) {
	id, bot, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, sessionResp{SessionID: id, AIStatus: bot.AIStatus(), AIState: bot.AIState().String()})
}

// Chat handles POST /api/chat. An empty session_id starts a new session.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req chatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	req.SessionID = strings.TrimSpace(req.SessionID)
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(c, http.StatusBadRequest, "missing message")
		return
	}
	if len(req.Message) > maxMessageLen {
		writeError(c, http.StatusBadRequest, "message too long")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
	defer cancel()

	var bot *service.Chatbot
	var err error
	if req.SessionID == "" {
		req.SessionID, bot, err = h.sessions.Create(ctx)
	} else if !isValidID(req.SessionID) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	} else {
		bot, err = h.sessions.Get(req.SessionID)
	}
	if err != nil {
		writeSessionError(c, err)
		return
	}

	reply := bot.Ask(ctx, req.Message)
	writeJSON(c, http.StatusOK, chatResp{SessionID: req.SessionID, Reply: reply, AIStatus: bot.AIStatus()})
}

// History handles GET /api/sessions/:id/history.
func (h *ChatHandler) History(c *gin.Context) {
	bot, ok := h.lookup(c)
	if !ok {
		return
	}
	entries := bot.History()
	if entries == nil {
		entries = []conversation.Entry{}
	}
	writeJSON(c, http.StatusOK, map[string]any{"session_id": c.Param("id"), "history": entries})
}

// Reset handles POST /api/sessions/:id/reset.
func (h *ChatHandler) Reset(c *gin.Context) {
	bot, ok := h.lookup(c)
	if !ok {
		return
	}
	bot.Reset()
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /api/sessions/:id.
func (h *ChatHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return
	}
	if err := h.sessions.Delete(id); err != nil {
		writeSessionError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ChatHandler) lookup(c *gin.Context) (*service.Chatbot, bool) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session id")
		return nil, false
	}
	bot, err := h.sessions.Get(id)
	if err != nil {
		writeSessionError(c, err)
		return nil, false
	}
	return bot, true
}
