// Package memory keeps the persisted collections in process memory. It is
// the backend for tests and for throwaway sessions.
package memory

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"bizops/internal/core"
)

type Repository struct {
	mu       sync.Mutex
	bookings []core.Booking
	accounts []core.WalletAccount
	entries  []core.LedgerEntry
	expenses []core.Expense

	// FailWith, when set, is returned by every Replace call. Tests use it to
	// exercise persistence failures.
	FailWith error
}

func New() *Repository { return &Repository{} }

func (r *Repository) LoadBookings(_ context.Context) ([]core.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Booking(nil), r.bookings...), nil
}

func (r *Repository) ReplaceBookings(_ context.Context, bookings []core.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.bookings = append([]core.Booking(nil), bookings...)
	return nil
}

func (r *Repository) LoadWallets(_ context.Context) ([]core.WalletAccount, []core.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.WalletAccount(nil), r.accounts...), append([]core.LedgerEntry(nil), r.entries...), nil
}

// ReplaceWallets overwrites balances and appends entries not seen before.
func (r *Repository) ReplaceWallets(_ context.Context, accounts []core.WalletAccount, entries []core.LedgerEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.accounts = append([]core.WalletAccount(nil), accounts...)
	seen := make(map[string]struct{}, len(r.entries))
	for _, e := range r.entries {
		seen[e.ID] = struct{}{}
	}
	for _, e := range entries {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		r.entries = append(r.entries, e)
	}
	return nil
}

func (r *Repository) LoadExpenses(_ context.Context) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Expense(nil), r.expenses...), nil
}

func (r *Repository) ReplaceExpenses(_ context.Context, expenses []core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return r.FailWith
	}
	r.expenses = append([]core.Expense(nil), expenses...)
	return nil
}

func (r *Repository) Close() error { return nil }

// ExpenseCategoriesFromDir reads seed_expense_categories.txt from base, one
// category per line, falling back to fallback when the file is missing or
// empty.
func ExpenseCategoriesFromDir(base string, fallback []string) []string {
	cats := readLines(filepath.Join(base, "seed_expense_categories.txt"))
	if len(cats) == 0 {
		return dedupe(fallback)
	}
	return cats
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return dedupe(out)
}

// dedupe drops blanks and repeats, preserving input order.
func dedupe(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
