package httpx

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient and events.EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks groups the dependencies the health endpoint checks.
// A failing Critical dependency makes the service unavailable (503); a failing
// Optional one only degrades it, since the engine keeps committing without
// the cache or the event bus. Nil checkers are reported as "disabled".
type HealthChecks struct {
	Critical map[string]HealthChecker
	Optional map[string]HealthChecker
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status" example:"ok"`
	Dependencies map[string]string `json:"dependencies"`
} // @name HealthResponse

// HealthHandler returns an http.HandlerFunc that checks all registered
// HealthCheckers concurrently with a 2s budget.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		critical := runChecks(ctx, checks.Critical)
		optional := runChecks(ctx, checks.Optional)

		resp := HealthResponse{Status: "ok", Dependencies: make(map[string]string, len(critical)+len(optional))}
		status := http.StatusOK
		for _, name := range sortedKeys(optional) {
			resp.Dependencies[name] = optional[name]
			if optional[name] == "unreachable" {
				resp.Status = "degraded"
			}
		}
		for _, name := range sortedKeys(critical) {
			resp.Dependencies[name] = critical[name]
			if critical[name] != "ok" {
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		JSON(w, status, resp)
	}
}

func runChecks(ctx context.Context, checkers map[string]HealthChecker) map[string]string {
	out := make(map[string]string, len(checkers))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, c := range checkers {
		if c == nil {
			out[name] = "disabled"
			continue
		}
		wg.Add(1)
		go func(name string, c HealthChecker) {
			defer wg.Done()
			state := "ok"
			if err := c.Ping(ctx); err != nil {
				state = "unreachable"
			}
			mu.Lock()
			out[name] = state
			mu.Unlock()
		}(name, c)
	}
	wg.Wait()
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
