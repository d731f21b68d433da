package repo

import (
	"context"
	"time"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

type Repo struct {
	f *database.Fetcher
}

func NewRepo(f *database.Fetcher) *Repo {
	return &Repo{f: f}
}

// InvoiceLines returns the lines of invoiceNo; unknown invoices yield an empty slice.
func (r *Repo) InvoiceLines(ctx context.Context, invoiceNo string) ([]entity.InvoiceLine, error) {
	out := []entity.InvoiceLine{}
	if err := r.f.Select(ctx, &out, QueryInvoiceLines, invoiceNo); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) PaymentSeries(ctx context.Context) (*database.Table, error) {
	return r.f.Table(ctx, QueryPaymentSeries)
}

func (r *Repo) Customers(ctx context.Context) ([]entity.Customer, error) {
	out := []entity.Customer{}
	if err := r.f.Select(ctx, &out, QueryCustomers); err != nil {
		return nil, err
	}
	return out, nil
}

// PaymentsInRange returns payments dated within [start, end].
func (r *Repo) PaymentsInRange(ctx context.Context, start, end time.Time) ([]entity.Payment, error) {
	out := []entity.Payment{}
	if err := r.f.Select(ctx, &out, QueryPaymentsInRange, start, end); err != nil {
		return nil, err
	}
	return out, nil
}
