package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newManager(t *testing.T, opts SessionOptions) (*SessionManager, *fakeClock) {
	store := aquariumStore()
	m := NewSessionManager(func(context.Context) *Chatbot {
		return NewChatbot(store, nil, zaptest.NewLogger(t))
	}, opts, zaptest.NewLogger(t))
	clock := &fakeClock{t: time.Date(2025, 9, 6, 12, 0, 0, 0, time.UTC)}
	m.now = clock.now
	return m, clock
}

func TestSessions_IsolatedHistories(t *testing.T) {
	m, _ := newManager(t, SessionOptions{})
	ctx := context.Background()

	idA, botA, err := m.Create(ctx)
	require.NoError(t, err)
	idB, botB, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, idA, idB)

	botA.ProcessQuery(ctx, "hi")
	assert.Len(t, botA.History(), 2)
	assert.Empty(t, botB.History())

	got, err := m.Get(idA)
	require.NoError(t, err)
	assert.Same(t, botA, got)
}

func TestSessions_TTLEviction(t *testing.T) {
	m, clock := newManager(t, SessionOptions{TTL: time.Minute})
	ctx := context.Background()

	idOld, _, err := m.Create(ctx)
	require.NoError(t, err)
	clock.advance(45 * time.Second)
	idNew, _, err := m.Create(ctx)
	require.NoError(t, err)

	clock.advance(30 * time.Second)
	assert.Equal(t, 1, m.EvictExpired())
	_, err = m.Get(idOld)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = m.Get(idNew)
	require.NoError(t, err, "touching keeps a session alive")
	clock.advance(50 * time.Second)
	_, err = m.Get(idNew)
	assert.NoError(t, err)

	clock.advance(2 * time.Minute)
	_, err = m.Get(idNew)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, m.Len())
}

func TestSessions_Limit(t *testing.T) {
	m, clock := newManager(t, SessionOptions{MaxSessions: 2, TTL: time.Minute})
	ctx := context.Background()

	_, _, err := m.Create(ctx)
	require.NoError(t, err)
	_, _, err = m.Create(ctx)
	require.NoError(t, err)
	_, _, err = m.Create(ctx)
	assert.ErrorIs(t, err, ErrTooManySessions)

	clock.advance(2 * time.Minute)
	_, _, err = m.Create(ctx)
	assert.NoError(t, err, "expired sessions free their slots")
}

func TestSessions_Delete(t *testing.T) {
	m, _ := newManager(t, SessionOptions{})
	id, _, err := m.Create(context.Background())
	require.NoError(t, err)

	require.NoError(t, m.Delete(id))
	assert.ErrorIs(t, m.Delete(id), ErrSessionNotFound)
	_, err = m.Get("nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessions_RunStopsWithContext(t *testing.T) {
	m, _ := newManager(t, SessionOptions{TTL: 10 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
