// README: Process-wide probe cache; sessions created within the TTL reuse one probe outcome.
package ai

import (
	"context"
	"errors"
	"sync"
	"time"
)

const DefaultProbeTTL = time.Minute

// Prober runs the availability probe against one Completer and remembers the
// outcome for ttl. Concurrent callers wait for the probe in flight instead of
// sending their own.
type Prober struct {
	completer Completer
	ttl       time.Duration
	now       func() time.Time

	mu      sync.Mutex
	checked time.Time
	err     error
	valid   bool
}

func NewProber(completer Completer, ttl time.Duration) *Prober {
	if ttl <= 0 {
		ttl = DefaultProbeTTL
	}
	return &Prober{completer: completer, ttl: ttl, now: time.Now}
}

// Probe returns the cached outcome while it is fresh, otherwise calls the
// completer with timeout. Cancellation of the caller's context is not cached.
func (p *Prober) Probe(ctx context.Context, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.valid && p.now().Sub(p.checked) < p.ttl {
		return p.err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	_, err := p.completer.Complete(ctx, probePrompt, CompletionOptions{MaxOutputTokens: 5})
	if errors.Is(err, context.Canceled) {
		return err
	}
	p.err, p.checked, p.valid = err, p.now(), true
	return err
}
