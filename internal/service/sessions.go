// README: Session registry; one Chatbot per session id, idle sessions evicted after a TTL.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rideinsight/internal/metrics"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// BotFactory builds the chatbot for a new session.
type BotFactory func(ctx context.Context) *Chatbot

type SessionOptions struct {
	TTL         time.Duration
	MaxSessions int
}

type session struct {
	bot      *Chatbot
	lastSeen time.Time
}

type SessionManager struct {
	newBot BotFactory
	opts   SessionOptions
	log    *zap.Logger
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionManager(newBot BotFactory, opts SessionOptions, log *zap.Logger) *SessionManager {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 1000
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionManager{
		newBot:   newBot,
		opts:     opts,
		log:      log.Named("sessions"),
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

// Create starts a session. The bot is built outside the lock since building
// it may probe the AI provider.
func (m *SessionManager) Create(ctx context.Context) (string, *Chatbot, error) {
	m.EvictExpired()
	m.mu.Lock()
	full := len(m.sessions) >= m.opts.MaxSessions
	m.mu.Unlock()
	if full {
		return "", nil, ErrTooManySessions
	}

	bot := m.newBot(ctx)
	id := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sessions) >= m.opts.MaxSessions {
		return "", nil, ErrTooManySessions
	}
	m.sessions[id] = &session{bot: bot, lastSeen: m.now()}
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	metrics.AIState.Set(float64(bot.AIState()))
	m.log.Info("session created", zap.String("session_id", id), zap.String("ai", bot.AIStatus()))
	return id, bot, nil
}

// Get returns the session's bot and marks it as used.
func (m *SessionManager) Get(id string) (*Chatbot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := m.now()
	if now.Sub(s.lastSeen) > m.opts.TTL {
		delete(m.sessions, id)
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		return nil, ErrSessionNotFound
	}
	s.lastSeen = now
	return s.bot, nil
}

func (m *SessionManager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	metrics.SessionsActive.Set(float64(len(m.sessions)))
	return nil
}

func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// EvictExpired drops idle sessions and returns how many were removed.
func (m *SessionManager) EvictExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.lastSeen) > m.opts.TTL {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		metrics.SessionsActive.Set(float64(len(m.sessions)))
		m.log.Info("evicted idle sessions", zap.Int("count", n))
	}
	return n
}

// Run evicts on a ticker until ctx is done.
func (m *SessionManager) Run(ctx context.Context) {
	t := time.NewTicker(m.opts.TTL / 2)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.EvictExpired()
		}
	}
}
