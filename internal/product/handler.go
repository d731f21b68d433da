package product

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/utilities"
)

type Handler struct {
	svc    *Service
	logger *zap.SugaredLogger
}

func NewHandler(svc *Service, logger *zap.SugaredLogger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func serve[T any](h *Handler, op string, load func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := load(r.Context())
		if err != nil {
			utilities.WriteError(w, h.logger, op, err)
			return
		}
		utilities.WriteJSON(w, http.StatusOK, rows)
	}
}

func (h *Handler) CreditAccountFavorites(w http.ResponseWriter, r *http.Request) {
	serve(h, "credit account favorites", h.svc.CreditAccountFavorites)(w, r)
}

func (h *Handler) DailyCustomerFavorites(w http.ResponseWriter, r *http.Request) {
	serve(h, "daily customer favorites", h.svc.DailyCustomerFavorites)(w, r)
}

func (h *Handler) HighestActivityCustomers(w http.ResponseWriter, r *http.Request) {
	serve(h, "highest activity customers", h.svc.HighestActivityCustomers)(w, r)
}

func (h *Handler) RarelyPurchased(w http.ResponseWriter, r *http.Request) {
	serve(h, "rarely purchased", h.svc.RarelyPurchased)(w, r)
}

func (h *Handler) LeastPurchased(w http.ResponseWriter, r *http.Request) {
	serve(h, "least purchased", h.svc.LeastPurchased)(w, r)
}

func (h *Handler) LongestTenuredCustomers(w http.ResponseWriter, r *http.Request) {
	serve(h, "longest tenured customers", h.svc.LongestTenuredCustomers)(w, r)
}
