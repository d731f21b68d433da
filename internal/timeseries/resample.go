package timeseries

import (
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/shopspring/decimal"
)

type Period int

const (
	Daily Period = iota
	// Weekly buckets run Tuesday through Monday and are labelled by the Monday.
	Weekly
	// Monthly buckets are labelled by the first of the month.
	Monthly
)

func (p Period) String() string {
	switch p {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	}
	return fmt.Sprintf("period(%d)", int(p))
}

func (p Period) label(t time.Time) time.Time {
	day := startOfDay(t)
	switch p {
	case Weekly:
		return day.AddDate(0, 0, (8-int(day.Weekday()))%7)
	case Monthly:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	}
	return day
}

func (p Period) next(t time.Time) time.Time {
	switch p {
	case Weekly:
		return t.AddDate(0, 0, 7)
	case Monthly:
		return t.AddDate(0, 1, 0)
	}
	return t.AddDate(0, 0, 1)
}

// Bucket is the summed amount of one calendar period.
type Bucket struct {
	Period time.Time       `json:"period"`
	Amount decimal.Decimal `json:"amount"`
}

// Resample sums column per period. Buckets are contiguous from the first to
// the last populated period; periods without rows sum to zero. Values that
// are not numeric are skipped.
func Resample(s Series, column string, p Period) []Bucket {
	if len(s.Points) == 0 {
		return []Bucket{}
	}
	loc := s.Points[0].Date.Location()
	sums := make(map[time.Time]decimal.Decimal)
	first, last := p.label(s.Points[0].Date.In(loc)), p.label(s.Points[0].Date.In(loc))
	for _, pt := range s.Points {
		key := p.label(pt.Date.In(loc))
		if key.Before(first) {
			first = key
		}
		if key.After(last) {
			last = key
		}
		amount, ok := ToDecimal(pt.Row[column])
		if !ok {
			continue
		}
		sums[key] = sums[key].Add(amount)
	}

	out := []Bucket{}
	for at := first; !at.After(last); at = p.next(at) {
		out = append(out, Bucket{Period: at, Amount: sums[at]})
	}
	return out
}

// RollingMean is the trailing mean of window consecutive buckets. The first
// window-1 entries are absent.
func RollingMean(buckets []Bucket, window int) []mo.Option[decimal.Decimal] {
	if window < 1 {
		window = 1
	}
	out := make([]mo.Option[decimal.Decimal], len(buckets))
	for i := range buckets {
		if i < window-1 {
			out[i] = mo.None[decimal.Decimal]()
			continue
		}
		sum := decimal.Sum(buckets[i-window+1].Amount, lo.Map(buckets[i-window+2:i+1], func(b Bucket, _ int) decimal.Decimal {
			return b.Amount
		})...)
		out[i] = mo.Some(sum.Div(decimal.NewFromInt(int64(window))))
	}
	return out
}

// ToDecimal coerces a driver or text value to a decimal.
func ToDecimal(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, true
	case int64:
		return decimal.NewFromInt(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case float64:
		return decimal.NewFromFloat(x), true
	case []byte:
		return ToDecimal(string(x))
	case string:
		d, err := decimal.NewFromString(x)
		return d, err == nil
	}
	return decimal.Zero, false
}

func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	}
	return fmt.Sprint(v)
}
