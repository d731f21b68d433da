package customer

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

// Handler exposes the customer relationship views over HTTP.
type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// PhoneRequest carries the phone path parameter.
type PhoneRequest struct {
	Phone string `validate:"required,max=32"`
}

func (h *Handler) phone(r *http.Request) (string, error) {
	req := PhoneRequest{Phone: strings.TrimSpace(r.PathValue("phone"))}
	if err := utilities.Validator().Struct(req); err != nil {
		return "", err
	}
	return req.Phone, nil
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.AllCustomers(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, "list customers", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) TopItems(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.TopItems(r.Context())
	if err != nil {
		utilities.WriteError(w, h.logger, "top items", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

// Get returns the payment summary for a phone; an unknown phone yields [].
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	phone, err := h.phone(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "get customer", err)
		return
	}
	rows, err := h.svc.ByPhone(r.Context(), phone)
	if err != nil {
		utilities.WriteError(w, h.logger, "get customer", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) TopItemsByPhone(w http.ResponseWriter, r *http.Request) {
	phone, err := h.phone(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "customer top items", err)
		return
	}
	rows, err := h.svc.TopItemsByPhone(r.Context(), phone)
	if err != nil {
		utilities.WriteError(w, h.logger, "customer top items", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Purchases(w http.ResponseWriter, r *http.Request) {
	phone, err := h.phone(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "purchase history", err)
		return
	}
	rows, err := h.svc.PurchaseHistory(r.Context(), phone)
	if err != nil {
		utilities.WriteError(w, h.logger, "purchase history", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}

func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	phone, err := h.phone(r)
	if err != nil {
		utilities.WriteError(w, h.logger, "payment history", err)
		return
	}
	rows, err := h.svc.PaymentHistory(r.Context(), phone)
	if err != nil {
		utilities.WriteError(w, h.logger, "payment history", err)
		return
	}
	utilities.WriteJSON(w, http.StatusOK, rows)
}
