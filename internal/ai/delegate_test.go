// README: Delegate state-machine tests (probe outcomes, demotion, no retry).
package ai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"rideinsight/internal/modules/insights"
	"rideinsight/internal/modules/trip"
)

type stubCompleter struct {
	calls   atomic.Int32
	replies []stubReply
	opts    []CompletionOptions
}

type stubReply struct {
	text string
	err  error
	wait bool
}

func (s *stubCompleter) Name() string { return "stub" }

func (s *stubCompleter) Complete(ctx context.Context, _ string, opts CompletionOptions) (string, error) {
	n := int(s.calls.Add(1)) - 1
	s.opts = append(s.opts, opts)
	if n >= len(s.replies) {
		return "", errors.New("unexpected call")
	}
	r := s.replies[n]
	if r.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return r.text, r.err
}

func testStore() *insights.Store {
	return insights.NewStore(trip.GenerateSample(200, trip.DefaultSampleSeed), insights.Options{})
}

func TestNewDelegate_NilCompleterIsDisabled(t *testing.T) {
	d := NewDelegate(context.Background(), nil, testStore(), Options{}, zaptest.NewLogger(t))
	assert.Equal(t, StateDisabled, d.State())
	assert.Equal(t, Result{Reason: ReasonDisabled}, d.Answer(context.Background(), "hi"))
	assert.Equal(t, "Pattern-based Mode", d.Status())
}

func TestDelegate_ProbeSuccessThenAnswer(t *testing.T) {
	c := &stubCompleter{replies: []stubReply{{text: "OK"}, {text: "West Campus leads pickups."}}}
	d := NewDelegate(context.Background(), c, testStore(), Options{}, zaptest.NewLogger(t))
	require.Equal(t, StateAvailable, d.State())
	assert.Equal(t, "AI Active (stub)", d.Status())

	res := d.Answer(context.Background(), "top pickup spots?")
	assert.True(t, res.OK())
	assert.Equal(t, "West Campus leads pickups.", res.Text)
	assert.Equal(t, StateAvailable, d.State())
}

func TestDelegate_Temperature(t *testing.T) {
	zero := float32(0)
	tests := []struct {
		name string
		in   *float32
		want float32
	}{
		{"unset uses default", nil, DefaultTemperature},
		{"explicit zero kept", &zero, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubCompleter{replies: []stubReply{{text: "OK"}, {text: "answer"}}}
			d := NewDelegate(context.Background(), c, testStore(), Options{Temperature: tt.in}, zaptest.NewLogger(t))
			require.True(t, d.Answer(context.Background(), "peak hours").OK())
			require.Len(t, c.opts, 2)
			assert.Equal(t, tt.want, c.opts[1].Temperature)
		})
	}
}

func TestDelegate_ProbeFailureNeverRetries(t *testing.T) {
	c := &stubCompleter{replies: []stubReply{{err: &StatusError{Provider: "stub", Code: http.StatusTooManyRequests}}}}
	d := NewDelegate(context.Background(), c, testStore(), Options{}, zaptest.NewLogger(t))

	assert.Equal(t, StateUnavailable, d.State())
	assert.Equal(t, ReasonRateLimited, d.LastReason())
	for i := 0; i < 3; i++ {
		assert.Equal(t, Result{Reason: ReasonUnavailable}, d.Answer(context.Background(), "peak hours"))
	}
	assert.EqualValues(t, 1, c.calls.Load())
}

func TestDelegate_AnswerFailureDemotes(t *testing.T) {
	tests := []struct {
		name  string
		reply stubReply
		want  Reason
	}{
		{"unauthorized", stubReply{err: &StatusError{Code: http.StatusUnauthorized}}, ReasonUnauthorized},
		{"server error", stubReply{err: &StatusError{Code: http.StatusBadGateway}}, ReasonUpstream},
		{"empty text", stubReply{text: ""}, ReasonEmpty},
		{"malformed", stubReply{err: ErrEmptyResponse}, ReasonEmpty},
		{"network", stubReply{err: errors.New("connection reset")}, ReasonUpstream},
		{"timeout", stubReply{wait: true}, ReasonTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &stubCompleter{replies: []stubReply{{text: "OK"}, tt.reply}}
			d := NewDelegate(context.Background(), c, testStore(), Options{Timeout: 50 * time.Millisecond}, zaptest.NewLogger(t))
			require.Equal(t, StateAvailable, d.State())

			res := d.Answer(context.Background(), "what are the peak hours?")
			assert.False(t, res.OK())
			assert.Equal(t, tt.want, res.Reason)
			assert.Equal(t, StateUnavailable, d.State())

			assert.Equal(t, ReasonUnavailable, d.Answer(context.Background(), "again").Reason)
			assert.EqualValues(t, 2, c.calls.Load())
		})
	}
}

// openAIServer answers chat completions with status, counting requests.
func openAIServer(t *testing.T, status int, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit_error","code":"rate_limit_exceeded"}}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"test",` +
			`"choices":[{"index":0,"message":{"role":"assistant","content":"OK"},"finish_reason":"stop"}],` +
			`"usage":{"prompt_tokens":3,"completion_tokens":1,"total_tokens":4}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDelegate_OpenAIProbe429(t *testing.T) {
	var hits atomic.Int32
	srv := openAIServer(t, http.StatusTooManyRequests, &hits)

	d := NewDelegate(context.Background(), NewOpenAICompleter("test-key", srv.URL, "test"), testStore(), Options{}, zaptest.NewLogger(t))
	assert.Equal(t, StateUnavailable, d.State())
	assert.Equal(t, ReasonRateLimited, d.LastReason())

	assert.Equal(t, ReasonUnavailable, d.Answer(context.Background(), "peak hours").Reason)
	assert.EqualValues(t, 1, hits.Load(), "no retry after the probe fails")
}

func TestDelegate_OpenAIProbe200(t *testing.T) {
	var hits atomic.Int32
	srv := openAIServer(t, http.StatusOK, &hits)

	d := NewDelegate(context.Background(), NewOpenAICompleter("", srv.URL, "test"), testStore(), Options{}, zaptest.NewLogger(t))
	require.Equal(t, StateAvailable, d.State())
	assert.Equal(t, "AI Active (openai)", d.Status())

	res := d.Answer(context.Background(), "how many trips?")
	assert.Equal(t, Result{Text: "OK"}, res)
	assert.EqualValues(t, 2, hits.Load())
}

func TestClassify(t *testing.T) {
	assert.Equal(t, ReasonNone, Classify(nil))
	assert.Equal(t, ReasonTimeout, Classify(context.DeadlineExceeded))
	assert.Equal(t, ReasonRateLimited, Classify(&StatusError{Code: 429}))
	assert.Equal(t, ReasonUnauthorized, Classify(&StatusError{Code: 403}))
	assert.Equal(t, ReasonUpstream, Classify(&StatusError{Code: 400}))
	assert.Equal(t, ReasonDisabled, Classify(ErrDisabled))
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	_, err := NewCompleter(ctx, ProviderConfig{Provider: ProviderGemini})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewCompleter(ctx, ProviderConfig{Provider: ProviderAnthropic})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewCompleter(ctx, ProviderConfig{Provider: ProviderOpenAI})
	assert.ErrorIs(t, err, ErrDisabled)
	_, err = NewCompleter(ctx, ProviderConfig{Provider: "llama"})
	assert.ErrorIs(t, err, ErrUnknownProvider)

	c, err := NewCompleter(ctx, ProviderConfig{Provider: ProviderOpenAI, BaseURL: "http://localhost:11434/v1"})
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, c.Name())

	c, err = NewCompleter(ctx, ProviderConfig{Provider: ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.Name())
}
