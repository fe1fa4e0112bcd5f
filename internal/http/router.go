// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"rideinsight/internal/http/handlers"
	"rideinsight/internal/http/middleware"
	"rideinsight/internal/modules/insights"
	"rideinsight/internal/service"
)

func NewRouter(sessions *service.SessionManager, store *insights.Store, provider string, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(log), middleware.Logging(log))

	chat := handlers.NewChatHandler(sessions)
	r.POST("/api/sessions", chat.CreateSession)
	r.GET("/api/sessions/:id/history", chat.History)
	r.POST("/api/sessions/:id/reset", chat.Reset)
	r.DELETE("/api/sessions/:id", chat.Delete)
	r.POST("/api/chat", chat.Chat)

	aiHandler := handlers.NewAIHandler(sessions, provider)
	r.GET("/api/ai/status", aiHandler.Status)

	ins := handlers.NewInsightsHandler(store)
	r.GET("/api/insights", ins.Quick)
	r.GET("/api/locations/search", ins.Search)
	r.GET("/api/locations/:name", ins.Location)
	r.GET("/api/time-patterns", ins.TimePatterns)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	return r
}
