// README: Smoke-test cases covering the conversation flow, booking, payment,
// and the backing stores.
package main

import (
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

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// flow state carried between cases
	sessionID        string
	paymentMessageID string
}

type Result struct {
	Name    string
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
		fmt.Printf("%-7s %s", res.Status, tc.Name)
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

type sessionResp struct {
	ID       string `json:"id"`
	Stage    string `json:"stage"`
	Messages []struct {
		ID   string `json:"id"`
		Kind string `json:"kind"`
	} `json:"messages"`
}

type bookingResp struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	MessageID string `json:"message_id"`
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.db.Ping(ctx); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: "FAIL", Note: "redis not configured"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: apply (optional)",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.ApplyMigration {
					return Result{Status: "SKIP", Note: "apply-migration=false"}
				}
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				sql, err := os.ReadFile(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, s := range splitSQL(string(sql)) {
					if _, err := r.db.Exec(ctx, s); err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: "FAIL", Note: err.Error()}
					}
					if !exists {
						return Result{Status: "FAIL", Note: "missing table: " + t}
					}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Seed: guest pool loaded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				var n int
				if err := r.db.QueryRow(ctx, "SELECT count(*) FROM guests").Scan(&n); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: "FAIL", Note: "run cmd/seed first"}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("guests=%d", n)}
			},
		},
		{
			Name: "Seed: activity schedule loaded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: "FAIL", Note: "db not configured"}
				}
				var n int
				if err := r.db.QueryRow(ctx, "SELECT count(*) FROM activities").Scan(&n); err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: "FAIL", Note: "run cmd/seed first"}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("activities=%d", n)}
			},
		},
		{
			Name: "API: health",
			Run: func(ctx context.Context, r *Runner) Result {
				start := time.Now()
				resp, err := r.httpc.Get(base + "/health")
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				_ = resp.Body.Close()
				if resp.StatusCode != 200 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%d", resp.StatusCode)}
				}
				return Result{Status: "PASS", Latency: time.Since(start)}
			},
		},
		{
			Name: "Session: start greets and waits at offer_help",
			Run: func(ctx context.Context, r *Runner) Result {
				var sess sessionResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions", nil, []int{201}, &sess)
				if res.Status != "PASS" {
					return res
				}
				if sess.Stage != "offer_help" || len(sess.Messages) != 1 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("stage=%s messages=%d", sess.Stage, len(sess.Messages))}
				}
				r.sessionID = sess.ID
				return res
			},
		},
		{
			Name: "Session: get by id",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				return r.doJSON(ctx, http.MethodGet, base+"/api/sessions/"+r.sessionID, nil, []int{200}, nil)
			},
		},
		{
			Name: "Session: unknown id -> 404",
			Run: func(ctx context.Context, r *Runner) Result {
				return r.doJSON(ctx, http.MethodGet, base+"/api/sessions/does-not-exist", nil, []int{404}, nil)
			},
		},
		{
			Name: "Session: persisted in Redis",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil || r.sessionID == "" {
					return Result{Status: "SKIP", Note: "redis or session missing"}
				}
				n, err := r.redis.Exists(ctx, "conversation:session:"+r.sessionID).Result()
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if n == 0 {
					return Result{Status: "FAIL", Note: "session key missing"}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Flow: decline ends the conversation",
			Run: func(ctx context.Context, r *Runner) Result {
				var sess sessionResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions", nil, []int{201}, &sess)
				if res.Status != "PASS" {
					return res
				}
				var updated sessionResp
				res = r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+sess.ID+"/messages",
					map[string]any{"text": "no thanks"}, []int{200}, &updated)
				if res.Status != "PASS" {
					return res
				}
				if updated.Stage != "ended" {
					return Result{Status: "FAIL", Note: "stage=" + updated.Stage}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Flow: accept moves to preference",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				var updated sessionResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+r.sessionID+"/messages",
					map[string]any{"text": "yes please"}, []int{200}, &updated)
				if res.Status != "PASS" {
					return res
				}
				if updated.Stage != "preference" {
					return Result{Status: "FAIL", Note: "stage=" + updated.Stage}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Flow: list request reaches result",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				var updated sessionResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+r.sessionID+"/messages",
					map[string]any{"text": "give me the list"}, []int{200}, &updated)
				if res.Status != "PASS" {
					return res
				}
				if updated.Stage != "result" {
					return Result{Status: "FAIL", Note: "stage=" + updated.Stage}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Message: empty text -> 400",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				return r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+r.sessionID+"/messages",
					map[string]any{}, []int{400}, nil)
			},
		},
		{
			Name: "Booking: free activity auto-confirms",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				var out bookingResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+r.sessionID+"/bookings", map[string]any{
					"day": "Monday", "date": "2026-01-05", "time": "09:00",
					"activity_name": "Aqua Aerobics", "price": "Free",
				}, []int{200}, &out)
				if res.Status != "PASS" {
					return res
				}
				if out.Status != "auto_confirmed" || len(out.Reference) != 6 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%s ref=%s", out.Status, out.Reference)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Booking: paid activity pends payment",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.sessionID == "" {
					return Result{Status: "SKIP", Note: "no session"}
				}
				var out bookingResp
				res := r.doJSON(ctx, http.MethodPost, base+"/api/sessions/"+r.sessionID+"/bookings", map[string]any{
					"day": "Friday", "date": "2026-01-09", "time": "20:00",
					"activity_name": "Whiskey Tasting", "price": "300 AED",
				}, []int{200}, &out)
				if res.Status != "PASS" {
					return res
				}
				if out.Status != "pending_payment" || out.Reference != "" {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%s ref=%s", out.Status, out.Reference)}
				}
				r.paymentMessageID = out.MessageID
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Payment: confirm generates the reference",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.paymentMessageID == "" {
					return Result{Status: "SKIP", Note: "no pending payment"}
				}
				var out bookingResp
				res := r.doJSON(ctx, http.MethodPost,
					base+"/api/sessions/"+r.sessionID+"/payments/"+r.paymentMessageID+"/confirm",
					nil, []int{200}, &out)
				if res.Status != "PASS" {
					return res
				}
				if out.Status != "paid" || len(out.Reference) != 6 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("status=%s ref=%s", out.Status, out.Reference)}
				}
				return Result{Status: "PASS"}
			},
		},
		{
			Name: "Payment: double confirm -> 409",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.paymentMessageID == "" {
					return Result{Status: "SKIP", Note: "no pending payment"}
				}
				return r.doJSON(ctx, http.MethodPost,
					base+"/api/sessions/"+r.sessionID+"/payments/"+r.paymentMessageID+"/confirm",
					nil, []int{409}, nil)
			},
		},
		{
			Name: "DB: booking rows recorded",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil || r.sessionID == "" {
					return Result{Status: "SKIP", Note: "db or session missing"}
				}
				var n int
				err := r.db.QueryRow(ctx,
					"SELECT count(*) FROM bookings WHERE session_id=$1", r.sessionID).Scan(&n)
				if err != nil {
					return Result{Status: "FAIL", Note: err.Error()}
				}
				if n < 2 {
					return Result{Status: "FAIL", Note: fmt.Sprintf("rows=%d", n)}
				}
				return Result{Status: "PASS", Note: fmt.Sprintf("rows=%d", n)}
			},
		},
		{
			Name: "Perf: session start throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/sessions", nil)
			},
		},
	}
}

// doJSON sends a request, checks the status code, and optionally decodes the
// body into out.
func (r *Runner) doJSON(ctx context.Context, method, url string, body any, okStatuses []int, out any) Result {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = strings.NewReader(string(b))
	}
	req, _ := http.NewRequestWithContext(ctx, method, url, reader)
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return Result{Status: "FAIL", Note: err.Error()}
	}
	defer resp.Body.Close()
	latency := time.Since(start)

	if !contains(okStatuses, resp.StatusCode) {
		io.Copy(io.Discard, resp.Body)
		return Result{Status: "FAIL", Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return Result{Status: "FAIL", Latency: latency, Note: "decode: " + err.Error()}
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return Result{Status: "PASS", Latency: latency}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	var b []byte
	if payload != nil {
		b, _ = json.Marshal(payload)
	}
	end := time.Now().Add(r.cfg.Duration)
	var count int64
	var errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) {
				req, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(string(b)))
				req.Header.Set("Content-Type", "application/json")
				resp, err := r.httpc.Do(req)
				if err != nil {
					mu.Lock()
					errCount++
					mu.Unlock()
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				mu.Lock()
				count++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return Result{Status: "FAIL", Note: "no requests completed"}
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: "PASS", Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

func contains(list []int, v int) bool {
	for _, i := range list {
		if i == v {
			return true
		}
	}
	return false
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
	cleaned := strings.Join(filtered, "\n")
	parts := strings.Split(cleaned, ";")
	stmts := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}
