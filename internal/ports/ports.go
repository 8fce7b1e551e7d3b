// Package ports declares the outbound interfaces the services depend on.
package ports

import (
	"context"

	"bizops/internal/core"
	"bizops/internal/report"
)

// Ports for outbound adapters.
type (
	BookingRepository interface {
		LoadBookings(ctx context.Context) ([]core.Booking, error)
		// ReplaceBookings overwrites the persisted collection with bookings,
		// preserving their order.
		ReplaceBookings(ctx context.Context, bookings []core.Booking) error
	}

	WalletRepository interface {
		LoadWallets(ctx context.Context) ([]core.WalletAccount, []core.LedgerEntry, error)
		ReplaceWallets(ctx context.Context, accounts []core.WalletAccount, entries []core.LedgerEntry) error
	}

	ExpenseRepository interface {
		LoadExpenses(ctx context.Context) ([]core.Expense, error)
		ReplaceExpenses(ctx context.Context, expenses []core.Expense) error
	}

	// Repository is the full persistence surface of one backend.
	Repository interface {
		BookingRepository
		WalletRepository
		ExpenseRepository
		Close() error
	}

	// EventPublisher announces domain changes. Delivery is best effort.
	EventPublisher interface {
		Publish(ctx context.Context, ev core.DomainEvent) error
	}

	// ReportExporter writes the flattened money report somewhere external.
	ReportExporter interface {
		Export(ctx context.Context, rows []report.ExportRow) error
	}
)
