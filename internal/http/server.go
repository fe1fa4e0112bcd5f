// README: API gateway; wraps the gin router with CORS for the browser chat UI.
package http

import (
	"net/http"

	"github.com/rs/cors"
	"go.uber.org/zap"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/service"
)

type ServerDeps struct {
	Sessions       *service.SessionManager
	Store          *insights.Store
	Provider       string
	AllowedOrigins []string
	Logger         *zap.Logger
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if len(deps.AllowedOrigins) == 0 {
		deps.AllowedOrigins = []string{"*"}
	}
	return &Server{deps: deps}
}

func (s *Server) Routes() http.Handler {
	router := NewRouter(s.deps.Sessions, s.deps.Store, s.deps.Provider, s.deps.Logger)
	c := cors.New(cors.Options{
		AllowedOrigins: s.deps.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(router)
}
