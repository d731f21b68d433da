package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

type Config struct {
	DSN        string
	MaxConns   int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// ConfigFromEnv reads DB config from environment variables.
// DATABASE_URL wins; otherwise the DSN is composed from the DB_* parts.
func ConfigFromEnv() Config {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = composeDSN(
			envOr("DB_HOST", "localhost"),
			envOr("DB_PORT", "5432"),
			envOr("DB_NAME", "postgres"),
			envOr("DB_USER", "postgres"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("SSL_CERT_PATH"),
		)
	}
	return Config{
		DSN:        withSessionParams(dsn, os.Getenv("DATABASE_TIMEZONE"), os.Getenv("DATABASE_CLIENT_ENCODING")),
		MaxConns:   envInt("DB_MAX_CONNS", 5),
		Timeout:    10 * time.Second,
		MaxRetries: envInt("FETCH_MAX_RETRIES", DefaultMaxRetries),
		RetryDelay: envDuration("FETCH_RETRY_DELAY", DefaultRetryDelay),
	}
}

// withSessionParams adds timezone and client_encoding to dsn. lib/pq sends
// them as startup parameters, so every pooled connection gets them. Both
// URL and key=value forms are accepted; empty values are left out.
func withSessionParams(dsn, timeZone, clientEncoding string) string {
	params := [][2]string{{"timezone", timeZone}, {"client_encoding", clientEncoding}}
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		for _, p := range params {
			if p[1] != "" {
				q.Set(p[0], p[1])
			}
		}
		u.RawQuery = q.Encode()
		return u.String()
	}
	for _, p := range params {
		if p[1] != "" {
			dsn = strings.TrimSpace(dsn + " " + p[0] + "=" + quoteValue(p[1]))
		}
	}
	return dsn
}

// composeDSN builds a lib/pq URL. A root certificate path switches TLS on.
func composeDSN(host, port, name, user, password, rootCert string) string {
	q := url.Values{}
	q.Set("connect_timeout", "10")
	if rootCert != "" {
		q.Set("sslmode", "require")
		q.Set("sslrootcert", rootCert)
	} else {
		q.Set("sslmode", "disable")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(user, password),
		Host:     host + ":" + port,
		Path:     "/" + name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// Connect opens a *sql.DB pool and verifies connectivity with a ping
func Connect(cfg Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxConns)
	db.SetMaxIdleConns(cfg.MaxConns)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// quoteValue quotes a key=value connection string value.
func quoteValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v < 0 {
		return def
	}
	return v
}
