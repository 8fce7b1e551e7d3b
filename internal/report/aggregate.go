// Package report turns bookings and expenses into period-aligned series and
// summary figures for dashboards.
package report

import (
	"fmt"
	"time"

	"bizops/internal/core"
)

type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
	Yearly  Granularity = "yearly"
)

// ParseGranularity validates user input.
func ParseGranularity(s string) (Granularity, error) {
	g := Granularity(s)
	switch g {
	case Daily, Weekly, Monthly, Yearly:
		return g, nil
	}
	return "", fmt.Errorf("unknown granularity %q: must be daily, weekly, monthly or yearly", s)
}

// BucketCount is the look-back window length in buckets.
func (g Granularity) BucketCount() int {
	switch g {
	case Daily:
		return 7
	case Weekly:
		return 4
	case Monthly:
		return 12
	case Yearly:
		return 3
	}
	panic(fmt.Sprintf("report: unknown granularity %q", string(g)))
}

// EventKind says which side of the series an event lands on.
type EventKind int

const (
	Revenue EventKind = iota
	Expense
)

// Event is a dated amount.
type Event struct {
	Date   time.Time
	Amount core.Money
	Kind   EventKind
}

// BookingEvents maps bookings to revenue events using their total revenue.
func BookingEvents(bookings []core.Booking) []Event {
	out := make([]Event, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, Event{Date: b.Date, Amount: b.TotalRevenue, Kind: Revenue})
	}
	return out
}

// ExpenseEvents maps expenses to expense events.
func ExpenseEvents(expenses []core.Expense) []Event {
	out := make([]Event, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, Event{Date: e.Date, Amount: e.Amount, Kind: Expense})
	}
	return out
}

// Aggregator buckets events in a fixed time zone.
type Aggregator struct {
	loc *time.Location
}

func NewAggregator(loc *time.Location) *Aggregator {
	if loc == nil {
		loc = time.UTC
	}
	return &Aggregator{loc: loc}
}

// Location is the zone bucket boundaries are computed in.
func (a *Aggregator) Location() *time.Location { return a.loc }

// Aggregate folds events into g.BucketCount() buckets ending with the bucket
// that contains windowEnd, oldest first. Every bucket is present even when
// nothing happened in it. Events before the first bucket or after windowEnd
// are left out. An unknown granularity panics.
func (a *Aggregator) Aggregate(events []Event, g Granularity, windowEnd time.Time) []core.PeriodBucket {
	n := g.BucketCount()
	end := windowEnd.In(a.loc)
	windowStart := step(periodStart(end, g), g, -(n - 1))

	buckets := make([]core.PeriodBucket, n)
	index := make(map[string]int, n)
	for i, cur := 0, windowStart; i < n; i, cur = i+1, step(cur, g, 1) {
		buckets[i] = core.PeriodBucket{Label: label(cur, g), PeriodStart: cur}
		index[periodKey(cur, g)] = i
	}

	for _, ev := range events {
		t := ev.Date.In(a.loc)
		if t.Before(windowStart) || t.After(end) {
			continue
		}
		i, ok := index[periodKey(t, g)]
		if !ok {
			continue
		}
		switch ev.Kind {
		case Revenue:
			buckets[i].Revenue = buckets[i].Revenue.Add(ev.Amount)
		case Expense:
			buckets[i].Expense = buckets[i].Expense.Add(ev.Amount)
		}
	}

	for i := range buckets {
		buckets[i].Profit = buckets[i].Revenue.Sub(buckets[i].Expense)
	}
	return buckets
}

// PeriodStart truncates t to the start of its bucket in the aggregator zone.
func (a *Aggregator) PeriodStart(t time.Time, g Granularity) time.Time {
	return periodStart(t.In(a.loc), g)
}

func periodStart(t time.Time, g Granularity) time.Time {
	y, m, d := t.Date()
	loc := t.Location()
	switch g {
	case Daily:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	case Weekly:
		// ISO weeks start on Monday.
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case Yearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	}
	panic(fmt.Sprintf("report: unknown granularity %q", string(g)))
}

// step moves a period start by k buckets. Inputs are always period starts,
// so month arithmetic never overflows into the next month.
func step(t time.Time, g Granularity, k int) time.Time {
	switch g {
	case Daily:
		return t.AddDate(0, 0, k)
	case Weekly:
		return t.AddDate(0, 0, 7*k)
	case Monthly:
		return t.AddDate(0, k, 0)
	case Yearly:
		return t.AddDate(k, 0, 0)
	}
	panic(fmt.Sprintf("report: unknown granularity %q", string(g)))
}

func periodKey(t time.Time, g Granularity) string {
	switch g {
	case Daily:
		return t.Format("2006-01-02")
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	case Monthly:
		return t.Format("2006-01")
	case Yearly:
		return t.Format("2006")
	}
	panic(fmt.Sprintf("report: unknown granularity %q", string(g)))
}

func label(t time.Time, g Granularity) string {
	switch g {
	case Daily:
		return t.Format("Jan 2")
	case Weekly:
		y, w := t.ISOWeek()
		return fmt.Sprintf("W%d %d", w, y)
	case Monthly:
		return t.Format("Jan 2006")
	case Yearly:
		return t.Format("2006")
	}
	panic(fmt.Sprintf("report: unknown granularity %q", string(g)))
}
