// README: Entry point; loads config, wires the chat sessions and serves the HTTP API.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"rideinsight/internal/config"
	httptransport "rideinsight/internal/http"
	"rideinsight/internal/logger"
	"rideinsight/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := service.Bootstrap(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("bootstrap failed", zap.Error(err))
	}
	defer app.Close()

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Sessions: app.Sessions,
		Store:    app.Store,
		Provider: cfg.AI.Provider,
		Logger:   lg,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go app.Sessions.Run(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Warn("shutdown", zap.Error(err))
		}
	}()

	lg.Info("listening", zap.String("addr", cfg.HTTP.Addr), zap.String("origin", string(app.Origin)))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		lg.Fatal("server", zap.Error(err))
	}
}
