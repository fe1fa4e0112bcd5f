// README: Process wiring shared by the API server and the CLI: data sources, cache, AI, sessions.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"rideinsight/internal/ai"
	"rideinsight/internal/config"
	"rideinsight/internal/infra"
	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/trip"
)

// App holds the long-lived pieces built from a Config.
type App struct {
	Config   config.Config
	Store    *insights.Store
	Origin   trip.Origin
	Sessions *SessionManager

	completer ai.Completer
	prober    *ai.Prober
	log       *zap.Logger
	closers   []func()
}

// Bootstrap loads the trip data and wires the optional Postgres, Redis and AI
// dependencies. Unreachable optional dependencies are logged and skipped.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		log = zap.NewNop()
	}
	app := &App{Config: cfg, log: log}

	var tripStore *trip.Store
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.Warn("postgres unavailable, using file data", zap.Error(err))
		} else {
			tripStore = trip.NewStore(pool)
			app.closers = append(app.closers, pool.Close)
		}
	}

	trips, origin, err := trip.NewService(tripStore, trip.Options{
		CSVPath:    cfg.Data.CSVPath,
		SampleSize: cfg.Data.SampleSize,
		SampleSeed: cfg.Data.SampleSeed,
	}, log).Load(ctx)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("load trips: %w", err)
	}
	app.Origin = origin

	var cache insights.Cache
	if cfg.Redis.Addr != "" {
		rdb, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn("redis unavailable, aggregate cache disabled", zap.Error(err))
		} else {
			cache = insights.NewRedisCache(rdb, cfg.Redis.TTL)
			app.closers = append(app.closers, func() { _ = rdb.Close() })
		}
	}

	app.Store = insights.NewStore(trips, insights.Options{
		LargeGroupThreshold: cfg.Data.LargeGroupThreshold,
		Cache:               cache,
		Logger:              log,
	})

	if cfg.AI.Enabled {
		c, err := ai.NewCompleter(ctx, ai.ProviderConfig{
			Provider: cfg.AI.Provider,
			Model:    cfg.AI.Model,
			APIKey:   cfg.AI.APIKey,
			BaseURL:  cfg.AI.BaseURL,
		})
		switch {
		case errors.Is(err, ai.ErrDisabled):
			log.Info("no ai credentials, running pattern-based only", zap.String("provider", cfg.AI.Provider))
		case err != nil:
			log.Warn("ai provider setup failed", zap.Error(err))
		default:
			app.completer = c
			app.prober = ai.NewProber(c, cfg.AI.ProbeTTL)
			if cl, ok := c.(io.Closer); ok {
				app.closers = append(app.closers, func() { _ = cl.Close() })
			}
		}
	}

	app.Sessions = NewSessionManager(app.NewBot, SessionOptions{
		TTL:         cfg.Chat.SessionTTL,
		MaxSessions: cfg.Chat.MaxSessions,
	}, log)

	log.Info("trip data loaded",
		zap.String("origin", string(origin)),
		zap.Int("trips", app.Store.Size()),
		zap.Bool("cache", cache != nil),
		zap.Bool("ai", app.completer != nil))
	return app, nil
}

// NewBot builds a chatbot with its own conversation log and AI delegate.
// Sessions created within ProbeTTL share one provider probe.
func (a *App) NewBot(ctx context.Context) *Chatbot {
	temperature := float32(a.Config.AI.Temperature)
	d := ai.NewDelegate(ctx, a.completer, a.Store, ai.Options{
		Timeout:         a.Config.AI.Timeout,
		MaxOutputTokens: int32(a.Config.AI.MaxOutputTokens),
		Temperature:     &temperature,
		Prober:          a.prober,
	}, a.log)
	return NewChatbot(a.Store, d, a.log)
}

// Close releases connections in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
