package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"bizops/internal/core"
)

func TestReplaceWalletsAppendsOnlyNewEntries(t *testing.T) {
	r := New()
	ctx := context.Background()
	e1 := core.LedgerEntry{ID: "TX-1", WalletKey: "office", Amount: core.Cents(10), Operation: core.OpCredit}
	if err := r.ReplaceWallets(ctx, nil, []core.LedgerEntry{e1}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	changed := e1
	changed.Amount = core.Cents(99)
	e2 := core.LedgerEntry{ID: "TX-2", WalletKey: "office", Amount: core.Cents(5), Operation: core.OpDebit}
	if err := r.ReplaceWallets(ctx, nil, []core.LedgerEntry{changed, e2}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	_, entries, _ := r.LoadWallets(ctx)
	if len(entries) != 2 {
		t.Fatalf("want 2 entries, got %d", len(entries))
	}
	if entries[0].Amount.Cents != 10 {
		t.Fatalf("existing entry rewritten: %+v", entries[0])
	}
}

func TestLoadReturnsCopies(t *testing.T) {
	r := New()
	ctx := context.Background()
	_ = r.ReplaceExpenses(ctx, []core.Expense{{ID: "EX-1", Description: "Rent"}})
	got, _ := r.LoadExpenses(ctx)
	got[0].Description = "changed"
	again, _ := r.LoadExpenses(ctx)
	if again[0].Description != "Rent" {
		t.Fatalf("load leaked internal slice")
	}
}

func TestFailWith(t *testing.T) {
	r := New()
	r.FailWith = errors.New("disk full")
	if err := r.ReplaceBookings(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestExpenseCategoriesFromDir(t *testing.T) {
	dir := t.TempDir()
	fallback := []string{"Fuel", "Other", "Fuel"}

	got := ExpenseCategoriesFromDir(dir, fallback)
	if len(got) != 2 || got[0] != "Fuel" || got[1] != "Other" {
		t.Fatalf("fallback: got %v", got)
	}

	content := "# categories\nTolls\n\nFuel\nTolls\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_expense_categories.txt"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	got = ExpenseCategoriesFromDir(dir, fallback)
	if len(got) != 2 || got[0] != "Tolls" || got[1] != "Fuel" {
		t.Fatalf("file: got %v", got)
	}
}
