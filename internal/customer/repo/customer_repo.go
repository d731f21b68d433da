package repo

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/customer/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

// Repo runs the CRM queries through the retrying fetcher. Every method
// returns an empty, non-nil slice when nothing matches.
type Repo struct {
	f *database.Fetcher
}

func NewRepo(f *database.Fetcher) *Repo { return &Repo{f: f} }

func (r *Repo) AllCustomers(ctx context.Context) ([]entity.Rollup, error) {
	out := []entity.Rollup{}
	if err := r.f.Select(ctx, &out, QueryAllCustomers); err != nil {
		return nil, err
	}
	return out, nil
}

// CustomerByPhone returns zero or one summary row.
func (r *Repo) CustomerByPhone(ctx context.Context, phone string) ([]entity.Summary, error) {
	out := []entity.Summary{}
	if err := r.f.Select(ctx, &out, QueryCustomerByPhone, phone); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) TopItems(ctx context.Context) ([]entity.ItemCount, error) {
	out := []entity.ItemCount{}
	if err := r.f.Select(ctx, &out, QueryTopItems); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) TopItemsByPhone(ctx context.Context, phone string) ([]entity.ItemCount, error) {
	out := []entity.ItemCount{}
	if err := r.f.Select(ctx, &out, QueryTopItemsByPhone, phone); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) PurchaseHistory(ctx context.Context, phone string) ([]entity.PurchaseLine, error) {
	out := []entity.PurchaseLine{}
	if err := r.f.Select(ctx, &out, QueryPurchaseHistory, phone); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) PaymentHistory(ctx context.Context, phone string) ([]entity.InvoicePayment, error) {
	out := []entity.InvoicePayment{}
	if err := r.f.Select(ctx, &out, QueryPaymentHistory, phone); err != nil {
		return nil, err
	}
	return out, nil
}
