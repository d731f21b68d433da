package cache

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

type Config struct {
	Size int
	TTL  time.Duration
}

// ConfigFromEnv reads CACHE_SIZE and CACHE_TTL.
func ConfigFromEnv() Config {
	size, err := strconv.Atoi(os.Getenv("CACHE_SIZE"))
	if err != nil || size <= 0 {
		size = 256
	}
	ttl, err := time.ParseDuration(os.Getenv("CACHE_TTL"))
	if err != nil || ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return Config{Size: size, TTL: ttl}
}

// Memo memoizes expensive read results keyed by operation name and literal
// parameters. Entries expire after the configured TTL; concurrent callers of
// the same key share a single in-flight load. Errors are never stored.
type Memo struct {
	entries *expirable.LRU[string, any]
	group   singleflight.Group
}

// New builds a Memo from cfg.
func New(cfg Config) *Memo {
	if cfg.Size <= 0 {
		cfg.Size = 256
	}
	return &Memo{entries: expirable.NewLRU[string, any](cfg.Size, nil, cfg.TTL)}
}

// Key renders the cache key for an operation and its parameters.
func Key(operation string, params ...any) string {
	if len(params) == 0 {
		return operation
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%v", p)
	}
	return operation + "(" + strings.Join(parts, ",") + ")"
}

// Clear drops every entry.
func (m *Memo) Clear() {
	if m == nil {
		return
	}
	m.entries.Purge()
}

// Len reports the number of live entries.
func (m *Memo) Len() int {
	return m.entries.Len()
}

// do serves key from the cache or the shared in-flight load. The load runs on
// a context detached from the caller's cancellation so one caller going away
// does not fail the others waiting on the same key.
func (m *Memo) do(ctx context.Context, key string, load func(context.Context) (any, error)) (any, error) {
	if v, ok := m.entries.Get(key); ok {
		return v, nil
	}
	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (any, error) {
		if v, ok := m.entries.Get(key); ok {
			return v, nil
		}
		v, err := load(shared)
		if err != nil {
			return nil, err
		}
		m.entries.Add(key, v)
		return v, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

// Remember returns the memoized value for (operation, params), calling load
// on a miss. A nil Memo disables memoization.
func Remember[T any](ctx context.Context, m *Memo, operation string, params []any, load func(context.Context) (T, error)) (T, error) {
	if m == nil {
		return load(ctx)
	}
	v, err := m.do(ctx, Key(operation, params...), func(ctx context.Context) (any, error) { return load(ctx) })
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
