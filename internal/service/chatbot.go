// README: Chatbot session; routes a question through the AI delegate or the rule-based pipeline.
package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"rideinsight/internal/ai"
	"rideinsight/internal/metrics"
	"rideinsight/internal/modules/conversation"
	"rideinsight/internal/modules/intent"
	"rideinsight/internal/modules/location"
	"rideinsight/internal/modules/response"
)

// Delegate is the AI path; *ai.Delegate implements it.
type Delegate interface {
	Answer(ctx context.Context, question string) ai.Result
	State() ai.State
	Status() string
}

const PathError = "error"

// Reply is one answered question along with how it was answered.
type Reply struct {
	Text   string        `json:"reply"`
	Intent intent.Kind   `json:"intent,omitempty"`
	Rule   string        `json:"rule,omitempty"`
	Path   string        `json:"path"`
	Took   time.Duration `json:"-"`
}

// Chatbot owns one conversation. The store is shared and read-only.
// Questions on one Chatbot are answered one at a time.
type Chatbot struct {
	mu sync.Mutex

	classifier *intent.Classifier
	generator  *response.Generator
	delegate   Delegate
	history    *conversation.Log
	log        *zap.Logger
}

// NewChatbot builds a session over store. delegate may be nil.
func NewChatbot(store response.Insights, delegate Delegate, log *zap.Logger) *Chatbot {
	if log == nil {
		log = zap.NewNop()
	}
	return &Chatbot{
		classifier: intent.NewClassifier(),
		generator:  response.NewGenerator(store, location.Resolve),
		delegate:   delegate,
		history:    conversation.NewLog(),
		log:        log.Named("chatbot"),
	}
}

// ProcessQuery answers question. It never fails: internal errors become a
// generic apology.
func (c *Chatbot) ProcessQuery(ctx context.Context, question string) string {
	return c.Ask(ctx, question).Text
}

// Ask is ProcessQuery with routing details attached.
func (c *Chatbot) Ask(ctx context.Context, question string) (reply Reply) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	raw := strings.TrimSpace(question)
	q := intent.Normalize(raw)
	c.history.Append(conversation.RoleUser, raw)

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("query panicked", zap.Any("panic", r), zap.Stack("stack"))
			reply = Reply{Text: response.ErrorReply, Path: PathError}
		}
		reply.Took = time.Since(start)
		if reply.Path != PathError {
			metrics.QueryDuration.WithLabelValues(reply.Path).Observe(reply.Took.Seconds())
		}
	}()

	if text, ok := c.tryAI(ctx, raw); ok {
		c.history.Append(conversation.RoleAssistant, text)
		metrics.QueriesTotal.WithLabelValues(metrics.PathAI).Inc()
		return Reply{Text: text, Path: metrics.PathAI}
	}

	res := c.classifier.Classify(q)
	text := c.generator.Generate(ctx, res.Intent, q)
	c.history.Append(conversation.RoleAssistant, text)
	kind := res.Intent.Kind()
	metrics.QueriesTotal.WithLabelValues(string(kind)).Inc()
	c.log.Debug("answered", zap.String("intent", string(kind)), zap.String("rule", res.Rule))
	return Reply{Text: text, Intent: kind, Rule: res.Rule, Path: metrics.PathRules}
}

func (c *Chatbot) tryAI(ctx context.Context, question string) (string, bool) {
	if c.delegate == nil || c.delegate.State() != ai.StateAvailable {
		return "", false
	}
	res := c.delegate.Answer(ctx, question)
	metrics.AIState.Set(float64(c.delegate.State()))
	if res.OK() {
		metrics.AIRequestsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
		return res.Text, true
	}
	metrics.AIRequestsTotal.WithLabelValues(string(res.Reason)).Inc()
	c.log.Info("falling back to rules", zap.String("reason", string(res.Reason)))
	return "", false
}

func (c *Chatbot) History() []conversation.Entry {
	return c.history.Entries()
}

// Reset waits for a question in flight before clearing the log.
func (c *Chatbot) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history.Reset()
}

// AIStatus is "AI Active (<provider>)" or "Pattern-based Mode".
func (c *Chatbot) AIStatus() string {
	if c.delegate == nil {
		return "Pattern-based Mode"
	}
	return c.delegate.Status()
}

// AIState reports the delegate state, StateDisabled without one.
func (c *Chatbot) AIState() ai.State {
	if c.delegate == nil {
		return ai.StateDisabled
	}
	return c.delegate.State()
}
