package sales

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

// DefaultStart is the range start used when none is given.
var DefaultStart = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

var today = func() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// RangeRequest is the date filter carried by query parameters.
type RangeRequest struct {
	Start   time.Time `validate:"required"`
	End     time.Time `validate:"required,gtefield=Start"`
	Exclude []string  `validate:"dive,required,max=128"`
}

func parseDate(r *http.Request, name string, fallback time.Time) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be YYYY-MM-DD", utilities.ErrInvalidRequest, name)
	}
	return t, nil
}

func (h *Handler) rangeRequest(r *http.Request) (RangeRequest, error) {
	start, err := parseDate(r, "start", DefaultStart)
	if err != nil {
		return RangeRequest{}, err
	}
	end, err := parseDate(r, "end", today())
	if err != nil {
		return RangeRequest{}, err
	}
	req := RangeRequest{
		Start: start,
		End:   end,
		Exclude: lo.Uniq(lo.Compact(lo.Map(r.URL.Query()["exclude"], func(s string, _ int) string {
			return strings.TrimSpace(s)
		}))),
	}
	if err := utilities.Validator().Struct(req); err != nil {
		return RangeRequest{}, err
	}
	return req, nil
}

func (h *Handler) Trends(w http.ResponseWriter, r *http.Request) {
	req, err := h.rangeRequest(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "sales trends", err)
		return
	}
	out, err := h.svc.Trends(r.Context(), TrendQuery{Start: req.Start, End: req.End, Exclude: req.Exclude})
	if err != nil {
		utilities.WriteError(w, h.logger, "sales trends", err)
		return
	}
	if !out.Processed {
		h.logger.Warnw("payment series returned unprocessed", "rows", out.Rows.Len())
	}
	utilities.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	req, err := h.rangeRequest(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "payments in range", err)
		return
	}
	rows, err := h.svc.PaymentsInRange(r.Context(), req.Start, req.End)
	if err != nil {
		utilities.WriteError(w, h.logger, "payments in range", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Customers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.Customers(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, "sales customers", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

// InvoiceRequest carries the invoice number path parameter.
type InvoiceRequest struct {
	InvoiceNo string `validate:"required,max=64"`
}

// Invoice returns the lines of one invoice; unknown invoices yield [].
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	req := InvoiceRequest{InvoiceNo: strings.TrimSpace(r.PathValue("invoiceno"))}
	if err := utilities.Validator().Struct(req); err != nil {
		utilities.WriteError(w, h.logger, "invoice lines", err)
		return
	}
	rows, err := h.svc.InvoiceLines(r.Context(), req.InvoiceNo)
	if err != nil {
		utilities.WriteError(w, h.logger, "invoice lines", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}
