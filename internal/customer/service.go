package customer

import (
	"context"

	"github.com/samber/lo"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
)

// Service serves the customer relationship views. Results are memoized per
// (operation, phone).
type Service struct {
	repo *repo.Repo
	memo *cache.Memo
}

// NewService constructs a Service; a nil memo disables caching.
func NewService(r *repo.Repo, memo *cache.Memo) *Service {
	return &Service{repo: r, memo: memo}
}

// AllCustomers returns one rollup row per phone, highest total paid first.
func (s *Service) AllCustomers(ctx context.Context) ([]entity.Rollup, error) {
	return cache.Remember(ctx, s.memo, "customer.all", nil, func(ctx context.Context) ([]entity.Rollup, error) {
		rows, err := s.repo.AllCustomers(ctx)
		if err != nil {
			return nil, err
		}
		return lo.UniqBy(rows, func(r entity.Rollup) string { return r.Phone }), nil
	})
}

// ByPhone returns the payment summary of phone; empty when the phone has no payments.
func (s *Service) ByPhone(ctx context.Context, phone string) ([]entity.Summary, error) {
	return cache.Remember(ctx, s.memo, "customer.by_phone", []any{phone}, func(ctx context.Context) ([]entity.Summary, error) {
		return s.repo.CustomerByPhone(ctx, phone)
	})
}

func (s *Service) TopItems(ctx context.Context) ([]entity.ItemCount, error) {
	return cache.Remember(ctx, s.memo, "customer.top_items", nil, func(ctx context.Context) ([]entity.ItemCount, error) {
		return s.repo.TopItems(ctx)
	})
}

func (s *Service) TopItemsByPhone(ctx context.Context, phone string) ([]entity.ItemCount, error) {
	return cache.Remember(ctx, s.memo, "customer.top_items_by_phone", []any{phone}, func(ctx context.Context) ([]entity.ItemCount, error) {
		return s.repo.TopItemsByPhone(ctx, phone)
	})
}

func (s *Service) PurchaseHistory(ctx context.Context, phone string) ([]entity.PurchaseLine, error) {
	return cache.Remember(ctx, s.memo, "customer.purchase_history", []any{phone}, func(ctx context.Context) ([]entity.PurchaseLine, error) {
		return s.repo.PurchaseHistory(ctx, phone)
	})
}

func (s *Service) PaymentHistory(ctx context.Context, phone string) ([]entity.InvoicePayment, error) {
	return cache.Remember(ctx, s.memo, "customer.payment_history", []any{phone}, func(ctx context.Context) ([]entity.InvoicePayment, error) {
		return s.repo.PaymentHistory(ctx, phone)
	})
}
