// Package revenue folds store orders into time-bucketed revenue series for
// the admin dashboard charts.
package revenue

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"furniture-admin/internal/domain/aggregate"

	"github.com/shopspring/decimal"
)

// Window is the span a revenue chart covers
type Window string

const (
	WindowToday Window = "today"
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
)

const (
	dayKeyLayout = "2006-01-02"
	dayLabel     = "02 Jan"
)

// ErrUnknownWindow is returned for a window outside today, week and month
var ErrUnknownWindow = errors.New("unknown revenue window")

// ParseWindow reads a window name case-insensitively
func ParseWindow(s string) (Window, error) {
	w := Window(strings.ToLower(strings.TrimSpace(s)))
	if w.BucketCount() == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownWindow, s)
	}
	return w, nil
}

// BucketCount returns how many buckets the window produces, or 0 when the
// window is not recognised.
func (w Window) BucketCount() int {
	switch w {
	case WindowToday:
		return 24
	case WindowWeek:
		return 7
	case WindowMonth:
		return 30
	default:
		return 0
	}
}

// Bucket is one hour or one day of accumulated revenue
type Bucket struct {
	Label   string  `json:"label"`
	DateKey string  `json:"-"`
	Revenue float64 `json:"revenue"`
}

// Aggregate builds the bucket series for window ending at now, with calendar
// dates and hours taken in loc (now's location when loc is nil). Each order
// lands in at most one bucket; orders outside the window or without a
// creation time are skipped. An unrecognised window returns ErrUnknownWindow.
func Aggregate(orders []aggregate.Order, window Window, now time.Time, loc *time.Location) ([]Bucket, error) {
	if loc == nil {
		loc = now.Location()
	}
	now = now.In(loc)

	buckets, err := buildBuckets(window, now)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		index[b.DateKey] = i
	}

	keyOf := bucketKey(window)
	totals := make([]decimal.Decimal, len(buckets))
	for _, order := range orders {
		if order.CreatedAt.IsZero() {
			continue
		}
		i, ok := index[keyOf(order.CreatedAt.In(loc))]
		if !ok {
			continue
		}
		totals[i] = totals[i].Add(order.Revenue())
	}

	for i := range buckets {
		buckets[i].Revenue = totals[i].InexactFloat64()
	}

	return buckets, nil
}

// buildBuckets pre-populates zero buckets in chronological order
func buildBuckets(window Window, now time.Time) ([]Bucket, error) {
	count := window.BucketCount()
	if count == 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, string(window))
	}

	buckets := make([]Bucket, 0, count)

	if window == WindowToday {
		// Keys come from the wall-clock hour, not from time arithmetic, so a
		// DST transition never repeats or drops an hour.
		date := now.Format(dayKeyLayout)
		for hour := 0; hour < count; hour++ {
			buckets = append(buckets, Bucket{
				Label:   fmt.Sprintf("%02d:00", hour),
				DateKey: hourKey(date, hour),
			})
		}
		return buckets, nil
	}

	for offset := count - 1; offset >= 0; offset-- {
		day := time.Date(now.Year(), now.Month(), now.Day()-offset, 12, 0, 0, 0, now.Location())
		buckets = append(buckets, Bucket{
			Label:   day.Format(dayLabel),
			DateKey: day.Format(dayKeyLayout),
		})
	}

	return buckets, nil
}

func bucketKey(window Window) func(time.Time) string {
	if window == WindowToday {
		return func(t time.Time) string {
			return hourKey(t.Format(dayKeyLayout), t.Hour())
		}
	}
	return func(t time.Time) string {
		return t.Format(dayKeyLayout)
	}
}

func hourKey(date string, hour int) string {
	return fmt.Sprintf("%sT%02d", date, hour)
}

// Summary describes a bucket series at a glance
type Summary struct {
	Total     float64
	PeakLabel string
	PeakValue float64
}

// Summarize totals the series and finds the earliest bucket holding the
// highest revenue. PeakLabel is empty when every bucket is zero.
func Summarize(buckets []Bucket) Summary {
	var summary Summary
	total := decimal.Zero
	for _, b := range buckets {
		total = total.Add(decimal.NewFromFloat(b.Revenue))
		if b.Revenue > summary.PeakValue {
			summary.PeakValue = b.Revenue
			summary.PeakLabel = b.Label
		}
	}
	summary.Total = total.InexactFloat64()
	return summary
}
