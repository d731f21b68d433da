package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/assistant"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/recommend"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

// Prefix is the mount point of every route.
const Prefix = "/retail-bi-api"

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// RequestIDMiddleware tags every request with an X-Request-ID, keeping one
// supplied by the caller.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" || len(id) > 64 {
				id = utilities.NewRequestID()
				r.Header.Set("X-Request-ID", id)
			}
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", r.Header.Get("X-Request-ID"),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}
			// HSTS only over TLS, 30 days
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Pinger reports data source reachability for the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Handlers bundles the feature handlers mounted under Prefix.
type Handlers struct {
	Customer  *customer.Handler
	Product   *product.Handler
	Sales     *sales.Handler
	Assistant *assistant.Handler
	Recommend *recommend.Handler
	Memo      *cache.Memo
	DB        Pinger
}

// RegisterRoutes mounts the handlers on a ServeMux wrapped in the request id,
// logging and security header middlewares.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+Prefix+"/health", func(w http.ResponseWriter, r *http.Request) {
		if h.DB != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := h.DB.PingContext(ctx); err != nil {
				logger.Warnw("health check ping failed", "err", err)
				http.Error(w, "database unreachable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET "+Prefix+"/customers", h.Customer.List)
	mux.HandleFunc("GET "+Prefix+"/customers/{phone}", h.Customer.Get)
	mux.HandleFunc("GET "+Prefix+"/customers/{phone}/top-items", h.Customer.TopItemsByPhone)
	mux.HandleFunc("GET "+Prefix+"/customers/{phone}/purchases", h.Customer.Purchases)
	mux.HandleFunc("GET "+Prefix+"/customers/{phone}/payments", h.Customer.Payments)

	mux.HandleFunc("GET "+Prefix+"/products/top-items", h.Customer.TopItems)
	mux.HandleFunc("GET "+Prefix+"/products/credit-account-favorites", h.Product.CreditAccountFavorites)
	mux.HandleFunc("GET "+Prefix+"/products/daily-customer-favorites", h.Product.DailyCustomerFavorites)
	mux.HandleFunc("GET "+Prefix+"/products/highest-activity-customers", h.Product.HighestActivityCustomers)
	mux.HandleFunc("GET "+Prefix+"/products/rarely-purchased", h.Product.RarelyPurchased)
	mux.HandleFunc("GET "+Prefix+"/products/least-purchased", h.Product.LeastPurchased)
	mux.HandleFunc("GET "+Prefix+"/products/longest-tenured-customers", h.Product.LongestTenuredCustomers)
	mux.HandleFunc("GET "+Prefix+"/products/{productno}/recommendations", h.Recommend.Recommendations)

	mux.HandleFunc("GET "+Prefix+"/sales/trends", h.Sales.Trends)
	mux.HandleFunc("GET "+Prefix+"/sales/payments", h.Sales.Payments)
	mux.HandleFunc("GET "+Prefix+"/sales/customers", h.Sales.Customers)
	mux.HandleFunc("GET "+Prefix+"/sales/invoices/{invoiceno}", h.Sales.Invoice)

	mux.HandleFunc("GET "+Prefix+"/assistant/greeting", h.Assistant.Greeting)
	mux.HandleFunc("POST "+Prefix+"/assistant/chat", h.Assistant.Chat)

	mux.HandleFunc("POST "+Prefix+"/cache/clear", func(w http.ResponseWriter, r *http.Request) {
		h.Memo.Clear()
		logger.Infow("memo cleared", "request_id", r.Header.Get("X-Request-ID"))
		w.WriteHeader(http.StatusNoContent)
	})

	return RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
}
