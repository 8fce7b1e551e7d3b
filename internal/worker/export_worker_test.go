package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizops/internal/amqp"
	"bizops/internal/core"
	"bizops/internal/report"
	sheetsmem "bizops/internal/sheets/memory"
	storemem "bizops/internal/storage/memory"
)

type countingSource struct {
	calls atomic.Int32
	err   error
}

func (s *countingSource) ExportRows(context.Context) ([]report.ExportRow, error) {
	s.calls.Add(1)
	if s.err != nil {
		return nil, s.err
	}
	return []report.ExportRow{{Type: report.RowBooking, Description: "Asha"}}, nil
}

func TestRepositorySourceMergesCollections(t *testing.T) {
	repo := storemem.New()
	ctx := context.Background()
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.ReplaceBookings(ctx, []core.Booking{{ID: "BK-1", CustomerName: "Asha", Date: day, TotalRevenue: core.Cents(100)}}))
	require.NoError(t, repo.ReplaceExpenses(ctx, []core.Expense{{ID: "EX-1", Description: "Rent", Date: day.AddDate(0, 0, -1), Amount: core.Cents(40)}}))

	rows, err := RepositorySource{Bookings: repo, Expenses: repo}.ExportRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Rent", rows[0].Description)
	assert.Equal(t, "Asha", rows[1].Description)
}

func TestExportNow(t *testing.T) {
	src := &countingSource{}
	exp := sheetsmem.New()
	w := NewExportWorker(src, exp, Config{}, nil)

	require.NoError(t, w.ExportNow(context.Background()))
	assert.Equal(t, 1, exp.Count())
	assert.Equal(t, "Asha", exp.Last()[0].Description)

	exp.FailWith(errors.New("quota exceeded"))
	assert.Error(t, w.ExportNow(context.Background()))

	src.err = errors.New("db locked")
	assert.Error(t, w.ExportNow(context.Background()))
}

func TestRunDebouncesEvents(t *testing.T) {
	src := &countingSource{}
	exp := sheetsmem.New()
	w := NewExportWorker(src, exp, Config{Debounce: 20 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Startup export.
	require.Eventually(t, func() bool { return exp.Count() == 1 }, 2*time.Second, 5*time.Millisecond)

	for i := 0; i < 5; i++ {
		require.NoError(t, w.HandleEvent(ctx, &amqp.EventMessage{Type: string(core.EventBookingCreated)}))
	}
	require.Eventually(t, func() bool { return exp.Count() == 2 }, 2*time.Second, 5*time.Millisecond)

	// The burst collapsed into a single export.
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, 2, exp.Count())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestRunPeriodicExport(t *testing.T) {
	src := &countingSource{}
	exp := sheetsmem.New()
	w := NewExportWorker(src, exp, Config{Interval: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool { return exp.Count() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestRunSurvivesExportFailure(t *testing.T) {
	src := &countingSource{err: errors.New("db locked")}
	exp := sheetsmem.New()
	w := NewExportWorker(src, exp, Config{Debounce: time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.Eventually(t, func() bool { return src.calls.Load() >= 1 }, 2*time.Second, 5*time.Millisecond)
	w.Notify()
	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, exp.Count())
}
