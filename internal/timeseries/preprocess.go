// Package timeseries turns raw payment rows into a date-keyed series and
// aggregates it onto calendar grids.
package timeseries

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/samber/mo"

	"github.com/ovaphlow/pitchfork/service-retail-bi/pkg/database"
)

// Cutoff is the earliest date kept by Preprocess.
var Cutoff = time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)

var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Point is one source row keyed by its date.
type Point struct {
	Date time.Time
	Row  map[string]any
}

// Series is a date-ordered set of points.
type Series struct {
	Column string
	Points []Point
}

func (s Series) Len() int { return len(s.Points) }

// Preprocess keys t by its date column. Rows whose date cannot be read or
// falls before Cutoff are dropped. The result is Left when the rows were
// processed and Right, carrying t untouched, when the column is missing or
// processing failed.
func Preprocess(t database.Table, column string) (res mo.Either[Series, database.Table]) {
	defer func() {
		if r := recover(); r != nil {
			res = mo.Right[Series](t)
		}
	}()
	if !t.HasColumn(column) {
		return mo.Right[Series](t)
	}

	points := make([]Point, 0, len(t.Rows))
	for _, row := range t.Rows {
		when, ok := ParseTime(row[column])
		if !ok || when.Before(Cutoff) {
			continue
		}
		points = append(points, Point{Date: when, Row: row})
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return mo.Left[Series, database.Table](Series{Column: column, Points: points})
}

// ParseTime coerces a driver or text value to a time.
func ParseTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return ParseTime(*x)
	case []byte:
		return ParseTime(string(x))
	case string:
		s := strings.TrimSpace(x)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	case fmt.Stringer:
		return ParseTime(x.String())
	}
	return time.Time{}, false
}

// Between keeps points dated from start through the whole of end's day.
func (s Series) Between(start, end time.Time) Series {
	from := startOfDay(start)
	until := startOfDay(end).AddDate(0, 0, 1)
	return Series{Column: s.Column, Points: lo.Filter(s.Points, func(p Point, _ int) bool {
		return !p.Date.Before(from) && p.Date.Before(until)
	})}
}

// Exclude drops points whose column value is one of ids.
func (s Series) Exclude(column string, ids []string) Series {
	if len(ids) == 0 {
		return s
	}
	drop := lo.SliceToMap(ids, func(id string) (string, struct{}) { return id, struct{}{} })
	return Series{Column: s.Column, Points: lo.Reject(s.Points, func(p Point, _ int) bool {
		v, ok := p.Row[column]
		if !ok || v == nil {
			return false
		}
		_, hit := drop[stringify(v)]
		return hit
	})}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
