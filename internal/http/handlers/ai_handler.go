// README: AI status handler; reports the delegate mode for a session.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/service"
)

type AIHandler struct {
	sessions *service.SessionManager
	provider string
}

// NewAIHandler reports provider as configured; sessions decide availability.
func NewAIHandler(sessions *service.SessionManager, provider string) *AIHandler {
	return &AIHandler{sessions: sessions, provider: provider}
}

// Status handles GET /api/ai/status?session_id=.
func (h *AIHandler) Status(c *gin.Context) {
	id := strings.TrimSpace(c.Query("session_id"))
	if id == "" {
		writeJSON(c, http.StatusOK, map[string]any{"provider": h.provider, "sessions": h.sessions.Len()})
		return
	}
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid session_id")
		return
	}
	bot, err := h.sessions.Get(id)
	if err != nil {
		writeSessionError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, sessionResp{SessionID: id, AIStatus: bot.AIStatus(), AIState: bot.AIState().String()})
}
