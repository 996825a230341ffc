// README: Benchmark cases: environment, schema, HTTP contract and throughput checks for the pricing API.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"slices"
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

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 10 * time.Second},
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

var (
	paris = map[string]float64{"lat": 48.8566, "lng": 2.3522}
	cdg   = map[string]float64{"lat": 49.0097, "lng": 2.5479}
	lyon  = map[string]float64{"lat": 45.7640, "lng": 4.8357}
)

func (r *Runner) quotePayload(quoteID string) map[string]any {
	return map[string]any{
		"organization_id": r.cfg.OrganizationID,
		"quote_id":        quoteID,
		"pickup":          paris,
		"dropoff":         cdg,
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Env: Postgres connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
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
					return Result{Status: StatusFail, Note: "redis not configured"}
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
			Name: "Migration: tables exist",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusFail, Note: "db not configured"}
				}
				tables, err := extractTables(r.cfg.MigrationPath)
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				for _, t := range tables {
					var exists bool
					err := r.db.QueryRow(ctx,
						"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)",
						t,
					).Scan(&exists)
					if err != nil {
						return Result{Status: StatusFail, Note: err.Error()}
					}
					if !exists {
						return Result{Status: StatusFail, Note: "missing table: " + t}
					}
				}
				return Result{Status: StatusPass}
			},
		},
		httpCaseMethod("API: health", http.MethodGet, base+"/health", nil, []int{200}),

		// Pricing
		httpCase("Pricing: quote (valid)", base+"/api/pricing/quote", r.quotePayload("bench-quote-1"), []int{200}),
		httpCase("Pricing: quote (missing fields -> 400)", base+"/api/pricing/quote", map[string]any{}, []int{400}),
		httpCaseMethod("Pricing: analysis snapshot", http.MethodGet, base+"/api/pricing/quotes/bench-quote-1/analysis", nil, []int{200}),
		httpCaseMethod("Pricing: unknown analysis -> 404", http.MethodGet, base+"/api/pricing/quotes/bench-missing/analysis", nil, []int{404}),

		// Routes and tolls
		httpCase("Routes: scenarios", base+"/api/routes/scenarios", map[string]any{
			"origin":      paris,
			"destination": lyon,
		}, []int{200}),
		httpCase("Tolls: lookup with fallback distance", base+"/api/tolls/lookup", map[string]any{
			"origin":      paris,
			"destination": lyon,
			"distance_km": 465,
		}, []int{200}),
		httpCase("Tolls: cleanup", base+"/api/tolls/cleanup", nil, []int{200}),

		// Multi-day and dispatch
		httpCase("MultiDay: stay vs return", base+"/api/multiday/compare", map[string]any{
			"mission": map[string]any{
				"total_days":               3,
				"idle_days":                1,
				"distance_one_way_km":      250,
				"duration_one_way_minutes": 150,
				"toll_per_trip":            40,
			},
			"daily_reference_revenue": 250,
		}, []int{200}),
		httpCase("MultiDay: staffing", base+"/api/multiday/staffing", map[string]any{
			"trip": map[string]any{"driving_hours": 11, "amplitude_hours": 14},
		}, []int{200}),
		httpCaseMethod("Dispatch: driver position", http.MethodPut, base+"/api/dispatch/drivers/bench-driver/position", paris, []int{200}),
		httpCase("Dispatch: rank", base+"/api/dispatch/rank", map[string]any{
			"pickup": paris,
			"drivers": []map[string]any{{
				"driver_id":                 "bench-driver",
				"license_count":             2,
				"availability_hours":        6,
				"remaining_driving_hours":   8,
				"remaining_amplitude_hours": 10,
			}},
		}, []int{200}),
		httpCase("Dispatch: rank (negative radius -> 400)", base+"/api/dispatch/rank", map[string]any{
			"pickup":    paris,
			"radius_km": -1,
		}, []int{400}),

		{
			Name: "Concurrency: same quote id priced in parallel",
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentQuotes(ctx, r, base)
			},
		},
		{
			Name: "Perf: quote throughput",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, base+"/api/pricing/quote", r.quotePayload(""))
			},
		},
	}
}

func httpCase(name, url string, body any, okStatuses []int) TestCase {
	return httpCaseMethod(name, http.MethodPost, url, body, okStatuses)
}

func httpCaseMethod(name, method, url string, body any, okStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			start := time.Now()
			status, err := r.do(ctx, method, url, body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			latency := time.Since(start)
			note := fmt.Sprintf("status=%d", status)
			if slices.Contains(okStatuses, status) {
				return Result{Status: StatusPass, Latency: latency, Note: note}
			}
			return Result{Status: StatusFail, Latency: latency, Note: note}
		},
	}
}

func (r *Runner) do(ctx context.Context, method, url string, body any) (int, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = strings.NewReader(string(b))
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

// concurrentQuotes prices one quote id from many clients at once. Every
// request must succeed and a snapshot must be readable afterwards.
func concurrentQuotes(ctx context.Context, r *Runner, base string) Result {
	payload := r.quotePayload("bench-concurrent")
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		succ int
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, err := r.do(ctx, http.MethodPost, base+"/api/pricing/quote", payload)
			if err != nil || status != http.StatusOK {
				return
			}
			mu.Lock()
			succ++
			mu.Unlock()
		}()
	}
	wg.Wait()
	if succ != r.cfg.Concurrency {
		return Result{Status: StatusFail, Note: fmt.Sprintf("success=%d/%d", succ, r.cfg.Concurrency)}
	}
	status, err := r.do(ctx, http.MethodGet, base+"/api/pricing/quotes/bench-concurrent/analysis", nil)
	if err != nil {
		return Result{Status: StatusFail, Note: err.Error()}
	}
	if status != http.StatusOK {
		return Result{Status: StatusFail, Note: fmt.Sprintf("analysis status=%d", status)}
	}
	return Result{Status: StatusPass, Note: fmt.Sprintf("success=%d", succ)}
}

func perfLoad(ctx context.Context, r *Runner, url string, payload any) Result {
	end := time.Now().Add(r.cfg.Duration)
	var (
		count    int64
		errCount int64
		mu       sync.Mutex
		wg       sync.WaitGroup
	)
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				status, err := r.do(ctx, http.MethodPost, url, payload)
				mu.Lock()
				if err != nil || status != http.StatusOK {
					errCount++
				} else {
					count++
				}
				mu.Unlock()
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
