// README: Bench cases; chat question replay with intent/marker checks, data source checks and a load test.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

// chatCase is one replayed question. Path "ai" replies carry no intent, so
// intent and markers are only checked on rule-based answers.
type chatCase struct {
	Question string
	Intent   string
	Markers  []string
}

var chatCases = []chatCase{
	{Question: "hello", Intent: "greeting", Markers: []string{"Hi there!"}},
	{Question: "thanks!", Intent: "casual"},
	{Question: "How many groups went to Moody Center last month?", Intent: "location_stats"},
	{Question: "Tell me about West Campus", Intent: "location_stats"},
	{Question: "When do large groups (6+ riders) typically ride?", Intent: "time_patterns", Markers: []string{"Peak Riding Times"}},
	{Question: "What are the peak hours?", Intent: "time_patterns"},
	{Question: "What about groups of 8 riders?", Intent: "group_size"},
	{Question: "What are the top drop-off spots?", Intent: "top_locations"},
	{Question: "Where do 18-24 year olds go on Saturday nights?", Intent: "demographics"},
	{Question: "Give me an overview", Intent: "general_stats", Markers: []string{"Austin Rideshare Overview"}},
	{Question: "asdf qwer", Intent: "fallback"},
}

type chatResp struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Intent    string `json:"intent"`
	Path      string `json:"path"`
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 15 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		start := time.Now()
		res := tc.Run(ctx, r)
		if res.Latency == 0 {
			res.Latency = time.Since(start).Round(time.Millisecond)
		}
		results = append(results, res)
		fmt.Printf("%-5s %s (%s)", res.Status, tc.Name, res.Latency)
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	tests := []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: StatusSkip, Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Migration: trips table",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					if err := r.db.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", t).Scan(&exists); err != nil || !exists {
						return Result{Status: StatusFail, Note: "missing " + t}
					}
				}
				return Result{Status: StatusPass, Note: strings.Join(tables, ",")}
			},
		},
		{
			Name: "HTTP: health",
			Run: func(ctx context.Context, r *Runner) Result {
				code, _, err := r.do(ctx, http.MethodGet, base+"/health", nil)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if code != http.StatusOK {
					return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d", code)}
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "HTTP: insights snapshot",
			Run: func(ctx context.Context, r *Runner) Result {
				code, body, err := r.do(ctx, http.MethodGet, base+"/api/insights", nil)
				if err != nil || code != http.StatusOK {
					return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d err=%v", code, err)}
				}
				var snap struct {
					TotalTrips int `json:"total_trips"`
				}
				if err := json.Unmarshal(body, &snap); err != nil || snap.TotalTrips == 0 {
					return Result{Status: StatusFail, Note: "no trips loaded"}
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("trips=%d", snap.TotalTrips)}
			},
		},
	}

	for _, cc := range chatCases {
		cc := cc
		tests = append(tests, TestCase{
			Name: "Chat: " + cc.Question,
			Run: func(ctx context.Context, r *Runner) Result {
				return r.ask(ctx, base, cc)
			},
		})
	}

	tests = append(tests,
		TestCase{
			Name: "Chat: history keeps order",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.history(ctx, base)
			},
		},
		TestCase{
			Name: "Perf: chat load",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/chat", map[string]any{"message": "What are the peak hours?"})
			},
		},
	)
	return tests
}

func (r *Runner) do(ctx context.Context, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, b, err
}

func (r *Runner) chat(ctx context.Context, base, sessionID, msg string) (chatResp, error) {
	var out chatResp
	code, body, err := r.do(ctx, http.MethodPost, base+"/api/chat", map[string]any{"session_id": sessionID, "message": msg})
	if err != nil {
		return out, err
	}
	if code != http.StatusOK {
		return out, fmt.Errorf("status=%d body=%s", code, strings.TrimSpace(string(body)))
	}
	err = json.Unmarshal(body, &out)
	return out, err
}

func (r *Runner) ask(ctx context.Context, base string, cc chatCase) Result {
	start := time.Now()
	resp, err := r.chat(ctx, base, "", cc.Question)
	latency := time.Since(start).Round(time.Millisecond)
	if err != nil {
		return Result{Status: StatusFail, Latency: latency, Note: err.Error()}
	}
	if strings.TrimSpace(resp.Reply) == "" {
		return Result{Status: StatusFail, Latency: latency, Note: "empty reply"}
	}
	if resp.Path == "ai" {
		return Result{Status: StatusPass, Latency: latency, Note: "answered by ai"}
	}
	if resp.Intent != cc.Intent {
		return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("intent=%s want %s", resp.Intent, cc.Intent)}
	}
	for _, m := range cc.Markers {
		if !strings.Contains(resp.Reply, m) {
			return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("reply missing %q", m)}
		}
	}
	return Result{Status: StatusPass, Latency: latency}
}

func (r *Runner) history(ctx context.Context, base string) Result {
	first, err := r.chat(ctx, base, "", "hi")
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if _, err := r.chat(ctx, base, first.SessionID, "What are the top spots?"); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	code, body, err := r.do(ctx, http.MethodGet, base+"/api/sessions/"+first.SessionID+"/history", nil)
	if err != nil || code != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("status=%d err=%v", code, err)}
	}
	var out struct {
		History []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"history"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	roles := make([]string, 0, len(out.History))
	for _, e := range out.History {
		roles = append(roles, e.Role)
	}
	if strings.Join(roles, ",") != "user,assistant,user,assistant" {
		return Result{Status: StatusFail, Note: "roles=" + strings.Join(roles, ",")}
	}
	_, _, _ = r.do(ctx, http.MethodDelete, base+"/api/sessions/"+first.SessionID, nil)
	return Result{Status: StatusPass}
}

// perfLoad posts payload from Concurrency workers for Duration. Each request
// without a session id opens a new one, so the server's session cap bounds it.
func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	b, _ := json.Marshal(payload)
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				if err != nil || resp.StatusCode != http.StatusOK {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
				if err == nil {
					_, _ = io.Copy(io.Discard, resp.Body)
					resp.Body.Close()
				}
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: StatusFail, Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func extractTables(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	re := regexp.MustCompile(`(?i)create\s+table\s+if\s+not\s+exists\s+([a-zA-Z0-9_]+)`)
	matches := re.FindAllStringSubmatch(string(b), -1)
	tables := make([]string, 0, len(matches))
	for _, m := range matches {
		tables = append(tables, m[1])
	}
	return tables, nil
}

func splitSQL(sql string) []string {
	lines := strings.Split(sql, "\n")
	filtered := make([]string, 0, len(lines))
	for _, line := range lines {
		l := strings.TrimSpace(line)
		if strings.HasPrefix(l, "--") || l == "" {
			continue
		}
		filtered = append(filtered, line)
	}
	parts := strings.Split(strings.Join(filtered, "\n"), ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
