package database

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 5
	DefaultRetryDelay = 5 * time.Second
)

// ErrRetriesExhausted is wrapped together with the last attempt's error once
// every attempt of a fetch has failed.
var ErrRetriesExhausted = errors.New("fetch retries exhausted")

// Table is an untyped query result: column order plus one map per row.
type Table struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

// HasColumn reports whether the result carries the named column.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Len returns the row count.
func (t Table) Len() int { return len(t.Rows) }

// Fetcher runs read-only queries against the pool with a fixed-delay retry
// policy. Each attempt checks out its own connection and releases it before
// the next one.
type Fetcher struct {
	db         *sqlx.DB
	logger     *zap.SugaredLogger
	maxRetries int
	delay      time.Duration
}

// Option tunes a Fetcher.
type Option func(*Fetcher)

// WithRetries sets the total number of attempts (minimum 1).
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		if n < 1 {
			n = 1
		}
		f.maxRetries = n
	}
}

// WithDelay sets the fixed wait between attempts.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		if d < 0 {
			d = 0
		}
		f.delay = d
	}
}

// NewFetcher constructs a Fetcher with 5 attempts and a 5s delay unless overridden.
func NewFetcher(db *sqlx.DB, logger *zap.SugaredLogger, opts ...Option) *Fetcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	f := &Fetcher{db: db, logger: logger, maxRetries: DefaultMaxRetries, delay: DefaultRetryDelay}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Select scans all rows of query into dest (a pointer to a slice).
func (f *Fetcher) Select(ctx context.Context, dest any, query string, args ...any) error {
	return f.Retry(ctx, query, func(ctx context.Context, conn *sqlx.Conn) error {
		resetSlice(dest)
		return conn.SelectContext(ctx, dest, query, args...)
	})
}

// Table runs query and returns the untyped result.
func (f *Fetcher) Table(ctx context.Context, query string, args ...any) (*Table, error) {
	var out *Table
	err := f.Retry(ctx, query, func(ctx context.Context, conn *sqlx.Conn) error {
		rows, err := conn.QueryxContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		cols, err := rows.Columns()
		if err != nil {
			return err
		}
		t := &Table{Columns: cols, Rows: []map[string]any{}}
		for rows.Next() {
			row := make(map[string]any, len(cols))
			if err := rows.MapScan(row); err != nil {
				return err
			}
			for k, v := range row {
				// lib/pq hands numeric and text back as []byte
				if b, ok := v.([]byte); ok {
					row[k] = string(b)
				}
			}
			t.Rows = append(t.Rows, row)
		}
		if err := rows.Err(); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Retry executes fn on a freshly checked-out connection until it succeeds or
// the attempt budget is spent. The delay is only waited between attempts.
func (f *Fetcher) Retry(ctx context.Context, query string, fn func(ctx context.Context, conn *sqlx.Conn) error) error {
	var lastErr error
	for attempt := 1; attempt <= f.maxRetries; attempt++ {
		f.logger.Debugw("running query", "query", query, "at", time.Now().Format(time.RFC3339Nano), "attempt", attempt)
		lastErr = f.attempt(ctx, fn)
		if lastErr == nil {
			return nil
		}
		f.logger.Warnw("query attempt failed", "attempt", attempt, "max_retries", f.maxRetries, "err", lastErr)
		if attempt == f.maxRetries {
			break
		}
		if err := wait(ctx, f.delay); err != nil {
			return fmt.Errorf("fetch interrupted after %d attempts: %w", attempt, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, f.maxRetries, lastErr)
}

func (f *Fetcher) attempt(ctx context.Context, fn func(ctx context.Context, conn *sqlx.Conn) error) error {
	conn, err := f.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("checkout connection: %w", err)
	}
	defer conn.Close()
	return fn(ctx, conn)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// resetSlice empties dest so a retried Select does not keep rows from a
// failed attempt.
func resetSlice(dest any) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return
	}
	e := v.Elem()
	if e.Kind() == reflect.Slice && e.CanSet() {
		e.Set(reflect.MakeSlice(e.Type(), 0, 0))
	}
}
