package product

import (
	"context"

	"github.com/samber/lo"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
)

// Service serves the product performance views.
type Service struct {
	repo *repo.Repo
	memo *cache.Memo
}

func NewService(r *repo.Repo, memo *cache.Memo) *Service {
	return &Service{repo: r, memo: memo}
}

// CreditAccountFavorites returns one favourite item per credit account.
func (s *Service) CreditAccountFavorites(ctx context.Context) ([]entity.CreditFavorite, error) {
	return cache.Remember(ctx, s.memo, "product.credit_account_favorites", nil, func(ctx context.Context) ([]entity.CreditFavorite, error) {
		rows, err := s.repo.CreditAccountFavorites(ctx)
		if err != nil {
			return nil, err
		}
		return lo.UniqBy(rows, func(r entity.CreditFavorite) string { return r.CustID }), nil
	})
}

// DailyCustomerFavorites returns one favourite item per walk-in phone.
func (s *Service) DailyCustomerFavorites(ctx context.Context) ([]entity.DailyFavorite, error) {
	return cache.Remember(ctx, s.memo, "product.daily_customer_favorites", nil, func(ctx context.Context) ([]entity.DailyFavorite, error) {
		rows, err := s.repo.DailyCustomerFavorites(ctx)
		if err != nil {
			return nil, err
		}
		return lo.UniqBy(rows, func(r entity.DailyFavorite) string { return r.Phone }), nil
	})
}

func (s *Service) HighestActivityCustomers(ctx context.Context) ([]entity.ActiveCustomer, error) {
	return cache.Remember(ctx, s.memo, "product.highest_activity_customers", nil, func(ctx context.Context) ([]entity.ActiveCustomer, error) {
		rows, err := s.repo.HighestActivityCustomers(ctx)
		if err != nil {
			return nil, err
		}
		return lo.UniqBy(rows, func(r entity.ActiveCustomer) string { return r.Phone }), nil
	})
}

func (s *Service) LongestTenuredCustomers(ctx context.Context) ([]entity.ActiveCustomer, error) {
	return cache.Remember(ctx, s.memo, "product.longest_tenured_customers", nil, func(ctx context.Context) ([]entity.ActiveCustomer, error) {
		rows, err := s.repo.LongestTenuredCustomers(ctx)
		if err != nil {
			return nil, err
		}
		return lo.UniqBy(rows, func(r entity.ActiveCustomer) string { return r.Phone }), nil
	})
}

// RarelyPurchased returns items bought fewer than 20 times, rarest first.
func (s *Service) RarelyPurchased(ctx context.Context) ([]entity.ItemCount, error) {
	return cache.Remember(ctx, s.memo, "product.rarely_purchased", nil, func(ctx context.Context) ([]entity.ItemCount, error) {
		return s.repo.RarelyPurchased(ctx)
	})
}

func (s *Service) LeastPurchased(ctx context.Context) ([]entity.ItemCount, error) {
	return cache.Remember(ctx, s.memo, "product.least_purchased", nil, func(ctx context.Context) ([]entity.ItemCount, error) {
		return s.repo.LeastPurchased(ctx)
	})
}

func (s *Service) Catalog(ctx context.Context) ([]entity.CatalogItem, error) {
	return cache.Remember(ctx, s.memo, "product.catalog", nil, func(ctx context.Context) ([]entity.CatalogItem, error) {
		return s.repo.Catalog(ctx)
	})
}
