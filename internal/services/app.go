package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"bizops/internal/booking"
	"bizops/internal/core"
	"bizops/internal/expense"
	"bizops/internal/log"
	"bizops/internal/ports"
	"bizops/internal/report"
	"bizops/internal/wallet"
)

// Deps are the collaborators the application is assembled from. Zero values
// fall back to the system clock, UUID ids, the default wallet seed and
// expense categories, UTC and no cache.
type Deps struct {
	Repo              ports.Repository
	Publisher         ports.EventPublisher
	Clock             core.Clock
	IDs               core.IDGenerator
	Logger            *log.Logger
	WalletSeed        map[string]core.Money
	ExpenseCategories []string
	Location          *time.Location
	CacheSize         int
	CacheTTL          time.Duration
}

// App is the composition root: one instance of each store, shared by every
// caller.
type App struct {
	Bookings *BookingService
	Wallets  *WalletService
	Expenses *ExpenseService
	Reports  *ReportService

	logger *log.Logger
}

func NewApp(d Deps) *App {
	if d.Clock == nil {
		d.Clock = core.SystemClock{}
	}
	if d.IDs == nil {
		d.IDs = core.UUIDGenerator{}
	}
	if d.Logger == nil {
		d.Logger = log.Discard()
	}
	if d.WalletSeed == nil {
		d.WalletSeed = wallet.DefaultSeed()
	}
	if d.ExpenseCategories == nil {
		d.ExpenseCategories = expense.DefaultCategories
	}

	bookings := booking.New(core.NewValidator(d.Clock, d.IDs))
	ledger := wallet.New(d.Clock, d.IDs, d.WalletSeed)
	expenses := expense.New(d.Clock, d.IDs, d.ExpenseCategories)

	app := &App{
		Bookings: NewBookingService(bookings, d.Repo, d.Publisher, d.Clock, d.Logger),
		Wallets:  NewWalletService(ledger, d.Repo, d.Publisher, d.Clock, d.Logger),
		Expenses: NewExpenseService(expenses, d.Repo, d.Publisher, d.Clock, d.Logger),
		logger:   d.Logger,
	}
	app.Reports = NewReportService(bookings, expenses, report.NewAggregator(d.Location), d.Clock, d.CacheSize, d.CacheTTL, d.Logger)
	return app
}

// Load reads all three collections from the repository concurrently.
func (a *App) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.Bookings.Load(ctx) })
	g.Go(func() error { return a.Wallets.Load(ctx) })
	g.Go(func() error { return a.Expenses.Load(ctx) })
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load stores: %w", err)
	}
	a.logger.InfoContext(ctx, "Stores loaded", log.FieldOperation, log.OpLoad)
	return nil
}
