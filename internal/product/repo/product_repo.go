package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/product/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

type Repo struct {
	f *database.Fetcher
}

func NewRepo(f *database.Fetcher) *Repo {
	return &Repo{f: f}
}

func (r *Repo) CreditAccountFavorites(ctx context.Context) ([]entity.CreditFavorite, error) {
	out := []entity.CreditFavorite{}
	if err := r.f.Select(ctx, &out, QueryCreditAccountFavorites); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) DailyCustomerFavorites(ctx context.Context) ([]entity.DailyFavorite, error) {
	out := []entity.DailyFavorite{}
	if err := r.f.Select(ctx, &out, QueryDailyCustomerFavorites); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) HighestActivityCustomers(ctx context.Context) ([]entity.ActiveCustomer, error) {
	return r.activity(ctx, QueryHighestActivityCustomers)
}

func (r *Repo) LongestTenuredCustomers(ctx context.Context) ([]entity.ActiveCustomer, error) {
	return r.activity(ctx, QueryLongestTenuredCustomers)
}

func (r *Repo) activity(ctx context.Context, query string) ([]entity.ActiveCustomer, error) {
	out := []entity.ActiveCustomer{}
	if err := r.f.Select(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) RarelyPurchased(ctx context.Context) ([]entity.ItemCount, error) {
	return r.counts(ctx, QueryRarelyPurchased)
}

func (r *Repo) LeastPurchased(ctx context.Context) ([]entity.ItemCount, error) {
	return r.counts(ctx, QueryLeastPurchased)
}

func (r *Repo) counts(ctx context.Context, query string) ([]entity.ItemCount, error) {
	out := []entity.ItemCount{}
	if err := r.f.Select(ctx, &out, query); err != nil {
		return nil, err
	}
	return out, nil
}

// Catalog returns every product with prices and purchase count.
func (r *Repo) Catalog(ctx context.Context) ([]entity.CatalogItem, error) {
	out := []entity.CatalogItem{}
	if err := r.f.Select(ctx, &out, QueryCatalog); err != nil {
		return nil, err
	}
	return out, nil
}
