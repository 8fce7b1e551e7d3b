// Package storage persists the ledger collections in SQLite.
//
// Each collection is written as a whole snapshot inside one transaction so a
// reader never sees half of a save. Ledger entries are append-only: existing
// rows are never rewritten or deleted.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bizops/internal/core"

	_ "modernc.org/sqlite"
)

const timeLayout = time.RFC3339Nano

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer; serialising here avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadBookings implements ports.BookingRepository
func (r *SQLiteRepository) LoadBookings(ctx context.Context) ([]core.Booking, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, customer_name, email, contact_number, date, base_pay_cents,
		       commission_cents, markup_cents, total_revenue_cents, category,
		       platform, status, created_at
		FROM bookings ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []core.Booking
	for rows.Next() {
		var (
			b                core.Booking
			date, createdAt  string
			category, status string
		)
		if err := rows.Scan(&b.ID, &b.CustomerName, &b.Email, &b.ContactNumber, &date,
			&b.BasePay.Cents, &b.CommissionAmount.Cents, &b.MarkupAmount.Cents,
			&b.TotalRevenue.Cents, &category, &b.Platform, &status, &createdAt); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		if b.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("booking %s date: %w", b.ID, err)
		}
		if b.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("booking %s created_at: %w", b.ID, err)
		}
		b.Category = core.BookingCategory(category)
		b.Status = core.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceBookings implements ports.BookingRepository
func (r *SQLiteRepository) ReplaceBookings(ctx context.Context, bookings []core.Booking) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM bookings`); err != nil {
			return fmt.Errorf("clear bookings: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO bookings (id, position, customer_name, email, contact_number, date,
			    base_pay_cents, commission_cents, markup_cents, total_revenue_cents,
			    category, platform, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare booking insert: %w", err)
		}
		defer stmt.Close()
		for i, b := range bookings {
			if _, err := stmt.ExecContext(ctx, b.ID, i, b.CustomerName, b.Email, b.ContactNumber,
				formatTime(b.Date), b.BasePay.Cents, b.CommissionAmount.Cents, b.MarkupAmount.Cents,
				b.TotalRevenue.Cents, string(b.Category), b.Platform, string(b.Status),
				formatTime(b.CreatedAt)); err != nil {
				return fmt.Errorf("insert booking %s: %w", b.ID, err)
			}
		}
		return nil
	})
}

// LoadWallets implements ports.WalletRepository
func (r *SQLiteRepository) LoadWallets(ctx context.Context) ([]core.WalletAccount, []core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, balance_cents, initial_cents FROM wallets ORDER BY key`)
	if err != nil {
		return nil, nil, fmt.Errorf("query wallets: %w", err)
	}
	var accounts []core.WalletAccount
	for rows.Next() {
		var a core.WalletAccount
		if err := rows.Scan(&a.Key, &a.Balance.Cents, &a.Initial.Cents); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan wallet: %w", err)
		}
		accounts = append(accounts, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate wallets: %w", err)
	}

	rows, err = r.db.QueryContext(ctx, `
		SELECT id, wallet_key, amount_cents, operation, actor, timestamp
		FROM ledger_entries ORDER BY position`)
	if err != nil {
		return nil, nil, fmt.Errorf("query ledger entries: %w", err)
	}
	defer rows.Close()
	var entries []core.LedgerEntry
	for rows.Next() {
		var (
			e      core.LedgerEntry
			op, ts string
		)
		if err := rows.Scan(&e.ID, &e.WalletKey, &e.Amount.Cents, &op, &e.Actor, &ts); err != nil {
			return nil, nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		if e.Timestamp, err = parseTime(ts); err != nil {
			return nil, nil, fmt.Errorf("ledger entry %s timestamp: %w", e.ID, err)
		}
		e.Operation = core.LedgerOperation(op)
		entries = append(entries, e)
	}
	return accounts, entries, rows.Err()
}

// ReplaceWallets implements ports.WalletRepository. Balances are overwritten;
// entries already stored are left untouched and new ones are appended.
func (r *SQLiteRepository) ReplaceWallets(ctx context.Context, accounts []core.WalletAccount, entries []core.LedgerEntry) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM wallets`); err != nil {
			return fmt.Errorf("clear wallets: %w", err)
		}
		for _, a := range accounts {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO wallets (key, balance_cents, initial_cents) VALUES (?, ?, ?)`,
				a.Key, a.Balance.Cents, a.Initial.Cents); err != nil {
				return fmt.Errorf("insert wallet %s: %w", a.Key, err)
			}
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR IGNORE INTO ledger_entries (id, position, wallet_key, amount_cents, operation, actor, timestamp)
			VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare ledger insert: %w", err)
		}
		defer stmt.Close()
		var appended int64
		for i, e := range entries {
			res, err := stmt.ExecContext(ctx, e.ID, i, e.WalletKey, e.Amount.Cents,
				string(e.Operation), e.Actor, formatTime(e.Timestamp))
			if err != nil {
				return fmt.Errorf("insert ledger entry %s: %w", e.ID, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				appended += n
			}
		}
		if appended > 0 {
			slog.DebugContext(ctx, "Ledger entries appended", "count", appended)
		}
		return nil
	})
}

// LoadExpenses implements ports.ExpenseRepository
func (r *SQLiteRepository) LoadExpenses(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, amount_cents, category, date
		FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []core.Expense
	for rows.Next() {
		var (
			e    core.Expense
			date string
		)
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount.Cents, &e.Category, &date); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseTime(date); err != nil {
			return nil, fmt.Errorf("expense %s date: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// ReplaceExpenses implements ports.ExpenseRepository
func (r *SQLiteRepository) ReplaceExpenses(ctx context.Context, expenses []core.Expense) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
			return fmt.Errorf("clear expenses: %w", err)
		}
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO expenses (id, position, description, amount_cents, category, date)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare expense insert: %w", err)
		}
		defer stmt.Close()
		for i, e := range expenses {
			if _, err := stmt.ExecContext(ctx, e.ID, i, e.Description, e.Amount.Cents,
				e.Category, formatTime(e.Date)); err != nil {
				return fmt.Errorf("insert expense %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.ErrorContext(ctx, "Rollback failed", "error", rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }
