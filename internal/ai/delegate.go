// README: AI delegate state machine; one probe (possibly shared) at construction, demotion on first failure.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

type State int

const (
	StateDisabled State = iota
	StateProbing
	StateAvailable
	StateUnavailable
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateProbing:
		return "probing"
	case StateAvailable:
		return "available"
	case StateUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	DefaultTimeout         = 10 * time.Second
	DefaultMaxOutputTokens = 500
	DefaultTemperature     = 0.7

	probePrompt = "Reply with OK."
)

type Options struct {
	Timeout         time.Duration
	MaxOutputTokens int32
	// Temperature nil means DefaultTemperature; 0 is a valid setting.
	Temperature *float32
	// Prober shares probe outcomes between delegates. Nil probes directly.
	Prober *Prober
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if o.Temperature == nil {
		t := float32(DefaultTemperature)
		o.Temperature = &t
	}
	return o
}

// Delegate answers questions through a Completer while it is available.
// Once any call fails it stays unavailable; it never retries or re-probes.
type Delegate struct {
	completer Completer
	src       ContextSource
	opts      Options
	log       *zap.Logger

	mu     sync.Mutex
	state  State
	reason Reason
}

// NewDelegate probes completer once. A nil completer yields a disabled delegate.
func NewDelegate(ctx context.Context, completer Completer, src ContextSource, opts Options, log *zap.Logger) *Delegate {
	if log == nil {
		log = zap.NewNop()
	}
	d := &Delegate{
		completer: completer,
		src:       src,
		opts:      opts.withDefaults(),
		log:       log.Named("ai"),
		state:     StateDisabled,
		reason:    ReasonDisabled,
	}
	if completer == nil {
		return d
	}

	d.transition(StateProbing, ReasonNone)
	if err := d.probe(ctx); err != nil {
		d.fail(err)
		return d
	}
	d.transition(StateAvailable, ReasonNone)
	return d
}

func (d *Delegate) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// LastReason is the reason for the most recent demotion, if any.
func (d *Delegate) LastReason() Reason {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reason
}

func (d *Delegate) Provider() string {
	if d.completer == nil {
		return ""
	}
	return d.completer.Name()
}

// Status is the human-readable mode line.
func (d *Delegate) Status() string {
	if d.State() == StateAvailable {
		return fmt.Sprintf("AI Active (%s)", d.Provider())
	}
	return "Pattern-based Mode"
}

// Answer asks the model. Callers fall back to the rule-based path whenever
// the result is not OK.
func (d *Delegate) Answer(ctx context.Context, question string) Result {
	d.mu.Lock()
	state := d.state
	d.mu.Unlock()
	switch state {
	case StateAvailable:
	case StateDisabled:
		return Result{Reason: ReasonDisabled}
	default:
		return Result{Reason: ReasonUnavailable}
	}

	text, err := d.call(ctx, BuildPrompt(question, d.src), CompletionOptions{
		MaxOutputTokens: d.opts.MaxOutputTokens,
		Temperature:     *d.opts.Temperature,
	})
	if err == nil && text == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		return Result{Reason: d.fail(err)}
	}
	return Result{Text: text}
}

func (d *Delegate) probe(ctx context.Context) error {
	if d.opts.Prober != nil {
		return d.opts.Prober.Probe(ctx, d.opts.Timeout)
	}
	_, err := d.call(ctx, probePrompt, CompletionOptions{MaxOutputTokens: 5})
	return err
}

func (d *Delegate) call(ctx context.Context, prompt string, opts CompletionOptions) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
	defer cancel()
	return d.completer.Complete(ctx, prompt, opts)
}

func (d *Delegate) fail(err error) Reason {
	reason := Classify(err)
	d.log.Warn("ai delegate unavailable",
		zap.String("provider", d.Provider()),
		zap.String("reason", string(reason)),
		zap.Error(err))
	d.transition(StateUnavailable, reason)
	return reason
}

func (d *Delegate) transition(to State, reason Reason) {
	d.mu.Lock()
	from := d.state
	if from == StateUnavailable {
		d.mu.Unlock()
		return
	}
	d.state = to
	d.reason = reason
	d.mu.Unlock()
	d.log.Info("ai state change", zap.Stringer("from", from), zap.Stringer("to", to))
}

// Classify maps a completer error to a Reason.
func Classify(err error) Reason {
	var se *StatusError
	var ne net.Error
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrDisabled):
		return ReasonDisabled
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.As(err, &se):
		return reasonForStatus(se.Code)
	case errors.Is(err, ErrEmptyResponse):
		return ReasonEmpty
	case errors.As(err, &ne) && ne.Timeout():
		return ReasonTimeout
	default:
		return ReasonUpstream
	}
}
