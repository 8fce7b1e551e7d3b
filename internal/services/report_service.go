package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"bizops/internal/booking"
	"bizops/internal/cache"
	"bizops/internal/core"
	"bizops/internal/expense"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/report"
)

// ReportService answers dashboard queries from the current store contents.
// Aggregated series are memoised per bucket layout and store version, so any
// mutation makes earlier entries unreachable.
type ReportService struct {
	bookings *booking.Store
	expenses *expense.Store
	agg      *report.Aggregator
	clock    core.Clock
	cache    cache.Cache[cachedSeries]
	logger   *log.Logger

	hits   atomic.Uint64
	misses atomic.Uint64
}

// cachedSeries is a series together with the event dates that bound the
// window end it was computed at. Any window end in [lastIn, nextOut) sees
// exactly the same events.
type cachedSeries struct {
	buckets []core.PeriodBucket
	lastIn  time.Time
	nextOut time.Time
}

func (c cachedSeries) covers(windowEnd time.Time) bool {
	if !c.lastIn.IsZero() && windowEnd.Before(c.lastIn) {
		return false
	}
	if !c.nextOut.IsZero() && !windowEnd.Before(c.nextOut) {
		return false
	}
	return true
}

// NewReportService memoises up to cacheSize series for ttl. A cacheSize of
// zero disables memoisation.
func NewReportService(bookings *booking.Store, expenses *expense.Store, agg *report.Aggregator, clock core.Clock, cacheSize int, ttl time.Duration, logger *log.Logger) *ReportService {
	s := &ReportService{
		bookings: bookings,
		expenses: expenses,
		agg:      agg,
		clock:    clock,
		logger:   logger.WithComponent(log.ComponentReport),
	}
	if cacheSize > 0 {
		s.cache = cache.NewLRUCache[cachedSeries](cacheSize, ttl)
	}
	return s
}

// Series aggregates bookings and expenses into the window ending now.
func (s *ReportService) Series(ctx context.Context, g report.Granularity) []core.PeriodBucket {
	return s.SeriesAt(ctx, g, s.clock.Now())
}

// SeriesAt aggregates into the window ending at windowEnd.
func (s *ReportService) SeriesAt(ctx context.Context, g report.Granularity, windowEnd time.Time) []core.PeriodBucket {
	key := fmt.Sprintf("%s|%d|%d|%d", g, s.agg.PeriodStart(windowEnd, g).UnixNano(), s.bookings.Version(), s.expenses.Version())
	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok && hit.covers(windowEnd) {
			s.hits.Add(1)
			metrics.AggregateCache.WithLabelValues("hit").Inc()
			return append([]core.PeriodBucket(nil), hit.buckets...)
		}
		s.misses.Add(1)
		metrics.AggregateCache.WithLabelValues("miss").Inc()
	}

	events := append(report.BookingEvents(s.bookings.List()), report.ExpenseEvents(s.expenses.Snapshot())...)
	buckets := s.agg.Aggregate(events, g, windowEnd)
	s.logger.DebugContext(ctx, "Series aggregated",
		log.FieldGranularity, string(g), "events", len(events), "buckets", len(buckets))

	if s.cache != nil {
		entry := cachedSeries{buckets: append([]core.PeriodBucket(nil), buckets...)}
		for _, ev := range events {
			switch {
			case ev.Date.After(windowEnd):
				if entry.nextOut.IsZero() || ev.Date.Before(entry.nextOut) {
					entry.nextOut = ev.Date
				}
			case ev.Date.After(entry.lastIn):
				entry.lastIn = ev.Date
			}
		}
		s.cache.Set(key, entry)
	}
	return buckets
}

// cacheStats reports lookups answered from memory and lookups that had to
// aggregate.
func (s *ReportService) cacheStats() (hits, misses uint64) {
	return s.hits.Load(), s.misses.Load()
}

// Summary summarises the series ending now.
func (s *ReportService) Summary(ctx context.Context, g report.Granularity) report.Summary {
	return report.Summarize(s.Series(ctx, g))
}

// Top ranks booking revenue by key.
func (s *ReportService) Top(key report.KeyFunc, limit int) []core.CategoryAmount {
	return report.TopEntities(s.bookings.List(), key, limit)
}

// CompareMonths sets the current month against the previous one.
func (s *ReportService) CompareMonths() report.MonthComparison {
	return s.agg.CompareMonths(s.bookings.List(), s.expenses.Snapshot(), s.clock.Now())
}

// ToDate returns revenue since the start of the current day, week, month
// and year.
func (s *ReportService) ToDate() report.ToDateTotals {
	return s.agg.ToDate(s.bookings.List(), s.expenses.Snapshot(), s.clock.Now())
}

// ExportRows flattens bookings and expenses for export.
func (s *ReportService) ExportRows() []report.ExportRow {
	return report.ExportRows(s.bookings.List(), s.expenses.Snapshot())
}
