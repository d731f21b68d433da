package utilities

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

// ErrInvalidRequest marks malformed input that never reaches validation,
// such as an unparseable date.
var ErrInvalidRequest = errors.New("invalid request")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide request validator.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// WriteJSON encodes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to a status code and writes a JSON error body.
func WriteError(w http.ResponseWriter, logger *zap.SugaredLogger, op string, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		logger.Debugw("invalid request", "op", op, "err", err)
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": verrs.Error()})
	case errors.Is(err, ErrInvalidRequest):
		logger.Debugw("invalid request", "op", op, "err", err)
		WriteJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, database.ErrRetriesExhausted):
		logger.Errorw("data source unavailable", "op", op, "err", err)
		WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "data source unavailable"})
	default:
		logger.Warnw("request failed", "op", op, "err", err)
		WriteJSON(w, http.StatusInternalServerError, map[string]string{"error": op + " failed"})
	}
}
