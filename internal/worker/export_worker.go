// Package worker keeps an external copy of the money report up to date.
package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bizops/internal/amqp"
	"bizops/internal/core"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
	"bizops/internal/report"
)

// RowSource yields the rows to export.
type RowSource interface {
	ExportRows(ctx context.Context) ([]report.ExportRow, error)
}

// RepositorySource reads straight from persistence, so the worker sees
// changes made by other processes.
type RepositorySource struct {
	Bookings ports.BookingRepository
	Expenses ports.ExpenseRepository
}

func (s RepositorySource) ExportRows(ctx context.Context) ([]report.ExportRow, error) {
	var (
		bookings []core.Booking
		expenses []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bookings, err = s.Bookings.LoadBookings(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = s.Expenses.LoadExpenses(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load report data: %w", err)
	}
	return report.ExportRows(bookings, expenses), nil
}

// Config tunes the export cadence.
type Config struct {
	// Debounce coalesces bursts of events into one export.
	Debounce time.Duration
	// Interval is the periodic full export; zero disables it.
	Interval time.Duration
}

// ExportWorker re-exports the report after domain events and on a timer.
type ExportWorker struct {
	source   RowSource
	exporter ports.ReportExporter
	cfg      Config
	logger   *log.Logger
	trigger  chan struct{}
}

func NewExportWorker(source RowSource, exporter ports.ReportExporter, cfg Config, logger *log.Logger) *ExportWorker {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &ExportWorker{
		source:   source,
		exporter: exporter,
		cfg:      cfg,
		logger:   logger.WithComponent(log.ComponentWorker),
		trigger:  make(chan struct{}, 1),
	}
}

// HandleEvent is an amqp.Handler: every event schedules an export.
func (w *ExportWorker) HandleEvent(ctx context.Context, msg *amqp.EventMessage) error {
	w.logger.DebugContext(ctx, "Domain event received", log.FieldEventType, msg.Type, "entity_id", msg.EntityID)
	w.Notify()
	return nil
}

// Notify schedules an export without blocking. Pending notifications
// collapse into one.
func (w *ExportWorker) Notify() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// ExportNow loads the rows and writes them out once.
func (w *ExportWorker) ExportNow(ctx context.Context) error {
	start := time.Now()
	rows, err := w.source.ExportRows(ctx)
	if err != nil {
		metrics.Exports.WithLabelValues(metrics.OutcomeError).Inc()
		return err
	}
	if err := w.exporter.Export(ctx, rows); err != nil {
		metrics.Exports.WithLabelValues(metrics.OutcomeError).Inc()
		return fmt.Errorf("export report: %w", err)
	}
	metrics.Exports.WithLabelValues(metrics.OutcomeOK).Inc()
	metrics.ExportRows.Set(float64(len(rows)))
	metrics.ExportDuration.Observe(time.Since(start).Seconds())
	w.logger.InfoContext(ctx, "Report exported",
		log.FieldRows, len(rows),
		log.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Run exports once at startup, then after debounced notifications and every
// Interval, until ctx is done. Export failures are logged and retried on the
// next trigger.
func (w *ExportWorker) Run(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Export worker started",
		"debounce", w.cfg.Debounce.String(),
		"interval", w.cfg.Interval.String())
	w.exportLogged(ctx)

	var tick <-chan time.Time
	if w.cfg.Interval > 0 {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	var debounce *time.Timer
	var fire <-chan time.Time
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Export worker stopped", log.FieldOperation, log.OpShutdown)
			return ctx.Err()
		case <-w.trigger:
			if fire == nil {
				debounce = time.NewTimer(w.cfg.Debounce)
				fire = debounce.C
			}
		case <-fire:
			fire = nil
			w.exportLogged(ctx)
		case <-tick:
			w.exportLogged(ctx)
		}
	}
}

func (w *ExportWorker) exportLogged(ctx context.Context) {
	if err := w.ExportNow(ctx); err != nil && ctx.Err() == nil {
		w.logger.ErrorContext(ctx, "Report export failed",
			log.FieldError, err.Error(),
			log.FieldOperation, log.OpExport)
	}
}
