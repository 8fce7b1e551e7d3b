package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizops/internal/core"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "test.db")
	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo, path
}

func TestMigrationsApplied(t *testing.T) {
	_, path := newTestRepo(t)
	v, dirty, err := SchemaVersion(path)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), v)

	// Running again is a no-op.
	require.NoError(t, RunMigrations(path))
}

func TestBookingsRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	in := []core.Booking{
		{ID: "BK-2", CustomerName: "Ravi", Email: "r@x.com", ContactNumber: "9876543210", Date: date,
			TotalRevenue: core.Cents(500), Category: core.CategoryBus, Status: core.StatusPending, CreatedAt: date},
		{ID: "BK-1", CustomerName: "Asha", Email: "a@x.com", ContactNumber: "9876543211", Date: date,
			CommissionAmount: core.Cents(20000), MarkupAmount: core.Cents(5000), TotalRevenue: core.Cents(25000),
			Category: core.CategoryFlight, Platform: "direct", Status: core.StatusConfirmed, CreatedAt: date.Add(time.Hour)},
	}
	require.NoError(t, repo.ReplaceBookings(ctx, in))

	out, err := repo.LoadBookings(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, repo.ReplaceBookings(ctx, in[1:]))
	out, err = repo.LoadBookings(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "BK-1", out[0].ID)
}

func TestWalletsLedgerIsAppendOnly(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	ts := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	e1 := core.LedgerEntry{ID: "TX-1", WalletKey: "alhind", Amount: core.Cents(100), Operation: core.OpCredit, Actor: "Bob", Timestamp: ts}
	accounts := []core.WalletAccount{{Key: "alhind", Balance: core.Cents(100100), Initial: core.Cents(100000)}}
	require.NoError(t, repo.ReplaceWallets(ctx, accounts, []core.LedgerEntry{e1}))

	// A rewritten copy of an existing entry must not change the stored row.
	tampered := e1
	tampered.Amount = core.Cents(999)
	e2 := core.LedgerEntry{ID: "TX-2", WalletKey: "alhind", Amount: core.Cents(50), Operation: core.OpDebit, Actor: "Bob", Timestamp: ts.Add(time.Minute)}
	accounts[0].Balance = core.Cents(100050)
	require.NoError(t, repo.ReplaceWallets(ctx, accounts, []core.LedgerEntry{tampered, e2}))

	gotAccounts, gotEntries, err := repo.LoadWallets(ctx)
	require.NoError(t, err)
	assert.Equal(t, accounts, gotAccounts)
	require.Len(t, gotEntries, 2)
	assert.Equal(t, e1, gotEntries[0])
	assert.Equal(t, e2, gotEntries[1])
}

func TestExpensesRoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()
	in := []core.Expense{
		{ID: "EX-1", Description: "Diesel", Amount: core.Cents(4500), Category: "Fuel", Date: time.Date(2025, 3, 1, 8, 30, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.ReplaceExpenses(ctx, in))

	out, err := repo.LoadExpenses(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEmptyDatabaseLoadsNothing(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	b, err := repo.LoadBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, b)

	a, e, err := repo.LoadWallets(ctx)
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Empty(t, e)
}
