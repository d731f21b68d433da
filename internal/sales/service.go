package sales

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"

	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales/entity"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/sales/repo"
	"github.com/ovaphlow/pitchfork/service-retail-bi/internal/timeseries"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/cache"
	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

// RollingWindow is the number of months in the trailing average.
const RollingWindow = 3

type Service struct {
	repo *repo.Repo
	memo *cache.Memo
}

func NewService(r *repo.Repo, memo *cache.Memo) *Service {
	return &Service{repo: r, memo: memo}
}

// TrendQuery selects the payments a trend is built from. Exclude holds
// customer names.
type TrendQuery struct {
	Start   time.Time
	End     time.Time
	Exclude []string
}

type RollingPoint struct {
	Period     time.Time                  `json:"period"`
	Amount     decimal.Decimal            `json:"amount"`
	RollingAvg mo.Option[decimal.Decimal] `json:"rolling_avg"`
}

// Trends is either the resampled series (Processed) or the raw payment
// rows when they could not be keyed by date.
type Trends struct {
	Processed bool                `json:"processed"`
	Monthly   []timeseries.Bucket `json:"monthly,omitempty"`
	Weekly    []timeseries.Bucket `json:"weekly,omitempty"`
	Daily     []timeseries.Bucket `json:"daily,omitempty"`
	Rolling   []RollingPoint      `json:"rolling,omitempty"`
	Rows      *database.Table     `json:"rows,omitempty"`
}

func (s *Service) paymentSeries(ctx context.Context) (*database.Table, error) {
	return cache.Remember(ctx, s.memo, "sales.payment_series", nil, func(ctx context.Context) (*database.Table, error) {
		return s.repo.PaymentSeries(ctx)
	})
}

// Trends aggregates payment amounts per month, week and day over q. A
// payment table that cannot be preprocessed clears the memo and comes back
// unprocessed.
func (s *Service) Trends(ctx context.Context, q TrendQuery) (Trends, error) {
	table, err := s.paymentSeries(ctx)
	if err != nil {
		return Trends{}, err
	}
	res := timeseries.Preprocess(*table, "datein")
	if res.IsRight() {
		s.memo.Clear()
		return Trends{Processed: false, Rows: lo.ToPtr(res.MustRight())}, nil
	}

	ids, err := s.customerIDs(ctx, q.Exclude)
	if err != nil {
		return Trends{}, err
	}
	series := res.MustLeft().Exclude("customer_id", ids).Between(q.Start, q.End)

	monthly := timeseries.Resample(series, "amount", timeseries.Monthly)
	means := timeseries.RollingMean(monthly, RollingWindow)
	return Trends{
		Processed: true,
		Monthly:   monthly,
		Weekly:    timeseries.Resample(series, "amount", timeseries.Weekly),
		Daily:     timeseries.Resample(series, "amount", timeseries.Daily),
		Rolling: lo.Map(monthly, func(b timeseries.Bucket, i int) RollingPoint {
			return RollingPoint{Period: b.Period, Amount: b.Amount, RollingAvg: means[i]}
		}),
	}, nil
}

func (s *Service) customerIDs(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	customers, err := s.Customers(ctx)
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(customers, func(c entity.Customer, _ int) (string, bool) {
		return c.CustomerID, lo.Contains(names, c.CName)
	}), nil
}

func (s *Service) Customers(ctx context.Context) ([]entity.Customer, error) {
	return cache.Remember(ctx, s.memo, "sales.customers", nil, func(ctx context.Context) ([]entity.Customer, error) {
		return s.repo.Customers(ctx)
	})
}

func (s *Service) InvoiceLines(ctx context.Context, invoiceNo string) ([]entity.InvoiceLine, error) {
	return cache.Remember(ctx, s.memo, "sales.invoice_lines", []any{invoiceNo}, func(ctx context.Context) ([]entity.InvoiceLine, error) {
		return s.repo.InvoiceLines(ctx, invoiceNo)
	})
}

// PaymentsInRange lists payments from the start of start's day through the
// end of end's day.
func (s *Service) PaymentsInRange(ctx context.Context, start, end time.Time) ([]entity.Payment, error) {
	from := dayStart(start)
	until := dayStart(end).AddDate(0, 0, 1).Add(-time.Microsecond)
	return cache.Remember(ctx, s.memo, "sales.payments_in_range", []any{from.Format(time.DateOnly), until.Format(time.DateOnly)},
		func(ctx context.Context) ([]entity.Payment, error) {
			return s.repo.PaymentsInRange(ctx, from, until)
		})
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
