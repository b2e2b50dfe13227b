// README: Smoke checks for the Planzy API (health, parse, batch, plan, usage), backing stores, and a parse load test.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
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

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 20 * time.Second},
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
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
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
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: statusSkip, Note: "db not configured"}
				}
				var missing []string
				for _, table := range []string{"ai_usage", "kv_slots"} {
					var exists bool
					err := r.db.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists)
					if err != nil {
						return Result{Status: statusFail, Note: err.Error()}
					}
					if !exists {
						missing = append(missing, table)
					}
				}
				if len(missing) > 0 {
					return Result{Status: statusFail, Note: "missing " + strings.Join(missing, ", ")}
				}
				return Result{Status: statusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: statusSkip, Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				return Result{Status: statusPass}
			},
		},
		httpCase("API: health", http.MethodGet, base+"/health", nil, false, checkStatus(http.StatusOK)),
		httpCase("API: parse without token is rejected", http.MethodPost, base+"/api/intents/parse",
			map[string]string{"text": "Paris"}, false, checkStatus(http.StatusUnauthorized)),
		httpCase("API: parse empty text is 400", http.MethodPost, base+"/api/intents/parse",
			map[string]string{"text": ""}, true, checkStatus(http.StatusBadRequest)),
		httpCase("API: parse duration", http.MethodPost, base+"/api/intents/parse",
			map[string]string{"text": "Plan a 5 day trip to Paris, budget $200"}, true,
			checkIntent(func(v map[string]any) error {
				if v["durationDays"] != float64(5) {
					return fmt.Errorf("durationDays=%v", v["durationDays"])
				}
				return nil
			})),
		httpCase("API: parse nightlife override", http.MethodPost, base+"/api/intents/parse",
			map[string]string{"text": "I want a historical tour for 4 days but also want to hit a bar at night"}, true,
			checkIntent(func(v map[string]any) error {
				prefs, _ := v["preferences"].(map[string]any)
				if v["theme"] != "historical" || prefs["nightlifeCount"] != float64(4) {
					return fmt.Errorf("theme=%v nightlife=%v", v["theme"], prefs["nightlifeCount"])
				}
				return nil
			})),
		httpCase("API: batch", http.MethodPost, base+"/api/intents/batch",
			map[string][]string{"texts": {"Let's go to Tokyo for a week", "beach days in Lisbon"}}, true,
			checkStatus(http.StatusOK)),
		httpCase("API: vacation plan", http.MethodPost, base+"/api/vacations/plan",
			map[string]string{"text": "3 days of museums in Rome"}, true,
			checkStatus(http.StatusOK, http.StatusNotFound)),
		httpCase("API: usage", http.MethodGet, base+"/api/usage", nil, true,
			checkStatus(http.StatusOK, http.StatusNotFound)),
		{
			Name: "Perf: parse load",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.Token == "" {
					return Result{Status: statusSkip, Note: "no token"}
				}
				return perfLoad(ctx, r, base+"/api/intents/parse", map[string]string{"text": "A week of beaches in Bali"})
			},
		},
	}
}

type responseCheck func(status int, body []byte) error

func checkStatus(want ...int) responseCheck {
	return func(status int, _ []byte) error {
		for _, w := range want {
			if status == w {
				return nil
			}
		}
		return fmt.Errorf("status=%d", status)
	}
}

func checkIntent(check func(map[string]any) error) responseCheck {
	return func(status int, body []byte) error {
		if status != http.StatusOK {
			return fmt.Errorf("status=%d", status)
		}
		var v map[string]any
		if err := json.Unmarshal(body, &v); err != nil {
			return err
		}
		return check(v)
	}
}

func httpCase(name, method, url string, body any, authed bool, check responseCheck) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			if authed && r.cfg.Token == "" {
				return Result{Status: statusSkip, Note: "no token"}
			}
			req, err := newRequest(ctx, method, url, body, r.cfg.Token, authed)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			start := time.Now()
			resp, err := r.httpc.Do(req)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			latency := time.Since(start)

			if err := check(resp.StatusCode, data); err != nil {
				return Result{Status: statusFail, Latency: latency, Note: err.Error()}
			}
			return Result{Status: statusPass, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
		},
	}
}

func newRequest(ctx context.Context, method, url string, body any, token string, authed bool) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, err := newRequest(ctx, http.MethodPost, url, payload, r.cfg.Token, true)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				resp, err := r.httpc.Do(req)
				if err != nil {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode != http.StatusOK {
					atomic.AddInt64(&errCount, 1)
					continue
				}
				atomic.AddInt64(&count, 1)
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: statusFail, Note: fmt.Sprintf("no requests completed, errors=%d", errCount)}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: statusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}
