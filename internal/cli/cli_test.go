package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizops/internal/config"
	"bizops/internal/core"
)

type harness struct {
	t      *testing.T
	dbPath string
	clock  core.FixedClock
	ids    *core.SequenceGenerator
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		t:      t,
		dbPath: filepath.Join(t.TempDir(), "bizops.db"),
		clock:  core.FixedClock{T: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)},
		ids:    &core.SequenceGenerator{},
	}
}

func (h *harness) config() *config.Config {
	return &config.Config{
		DataBackend:    "sqlite",
		SQLiteDBPath:   h.dbPath,
		DataDir:        h.t.TempDir(),
		WalletSeed:     "alhind=1000,akbar=500,office=2000",
		ReportTimezone: "UTC",
		CacheSize:      8,
		LogLevel:       "error",
	}
}

func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	err := Execute(context.Background(), args, Options{
		Out:    &out,
		Err:    &errOut,
		Config: h.config,
		App:    AppOptions{Clock: h.clock, IDs: h.ids},
	})
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err, "bizops %s", strings.Join(args, " "))
	return out
}

// fieldsOf returns the whitespace-separated fields of the first output line
// starting with prefix.
func fieldsOf(t *testing.T, out, prefix string) []string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, prefix) {
			return strings.Fields(line)
		}
	}
	t.Fatalf("no line starting with %q in:\n%s", prefix, out)
	return nil
}

func addBooking(h *harness) string {
	return h.mustRun("booking", "add",
		"--customer", "Asha Rao",
		"--email", "Asha@Example.com",
		"--contact", "98765-43210",
		"--date", "2024-03-10",
		"--base", "1000",
		"--commission", "100",
		"--markup", "50",
		"--category", "flight",
		"--platform", "IndiGo")
}

func TestBookingLifecycle(t *testing.T) {
	h := newHarness(t)

	out := addBooking(h)
	assert.Equal(t, "Created booking BK-1 for Asha Rao, total revenue 150.00\n", out)

	out = h.mustRun("booking", "list")
	row := fieldsOf(t, out, "BK-1")
	assert.Equal(t, []string{"BK-1", "2024-03-10", "Asha", "Rao", "flight", "IndiGo", "pending", "150.00"}, row)

	out = h.mustRun("booking", "status", "BK-1", "Confirmed")
	assert.Equal(t, "Booking BK-1 is now confirmed\n", out)

	out = h.mustRun("booking", "stats")
	assert.Equal(t, []string{"Confirmed", "1"}, fieldsOf(t, out, "Confirmed"))
	assert.Equal(t, []string{"Revenue", "150.00"}, fieldsOf(t, out, "Revenue"))

	out = h.mustRun("booking", "customer", "--contact", "9876543210")
	assert.Contains(t, out, "BK-1")

	out = h.mustRun("booking", "remove", "BK-1")
	assert.Equal(t, "Removed booking BK-1\n", out)

	_, err := h.run("booking", "remove", "BK-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestBookingValidationFails(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("booking", "add", "--email", "a@b.co", "--contact", "9876543210", "--category", "hotel")
	assert.ErrorIs(t, err, core.ErrValidation)

	_, err = h.run("booking", "status", "BK-404", "confirmed")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestWalletCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("wallet", "credit", "Office", "50", "--actor", "ravi")
	assert.Equal(t, "TX-1 credit 50.00, balance 2050.00\n", out)

	_, err := h.run("wallet", "debit", "akbar", "600")
	assert.ErrorIs(t, err, core.ErrInsufficientBalance)

	_, err = h.run("wallet", "debit", "akbar", "0")
	assert.ErrorIs(t, err, core.ErrInvalidAmount)

	out = h.mustRun("wallet", "balance", "office")
	assert.Equal(t, "2050.00\n", out)

	out = h.mustRun("wallet", "list")
	assert.Equal(t, []string{"akbar", "500.00", "500.00"}, fieldsOf(t, out, "akbar"))
	assert.Equal(t, []string{"office", "2050.00", "2000.00"}, fieldsOf(t, out, "office"))

	out = h.mustRun("wallet", "reconcile", "office")
	assert.Equal(t, "office reconciles at 2050.00\n", out)

	out = h.mustRun("wallet", "history", "office")
	assert.Equal(t, []string{"TX-1", "2024-03-15", "10:00", "office", "credit", "50.00", "ravi"}, fieldsOf(t, out, "TX-1"))
}

func TestExpenseCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("expense", "add", "Diesel", "20,50", "--category", "Fuel")
	assert.Equal(t, "Recorded expense EX-1 20.50 (Fuel)\n", out)

	_, err := h.run("expense", "add", "  ", "10")
	assert.Error(t, err)

	out = h.mustRun("expense", "categories")
	assert.Equal(t, []string{"Fuel", "20.50"}, fieldsOf(t, out, "Fuel"))
	assert.Equal(t, []string{"Rent", "0.00"}, fieldsOf(t, out, "Rent"))
	assert.Equal(t, []string{"Total", "20.50"}, fieldsOf(t, out, "Total"))

	out = h.mustRun("expense", "list")
	assert.Contains(t, out, "Diesel")

	h.mustRun("expense", "remove", "EX-1")
	_, err = h.run("expense", "remove", "EX-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReportCommands(t *testing.T) {
	h := newHarness(t)
	addBooking(h)
	h.mustRun("expense", "add", "Diesel", "20", "--category", "Fuel")

	out := h.mustRun("report", "series", "-g", "monthly")
	assert.Equal(t, []string{"Mar", "2024", "150.00", "20.00", "130.00"}, fieldsOf(t, out, "Mar 2024"))
	assert.Equal(t, []string{"Feb", "2024", "0.00", "0.00", "0.00"}, fieldsOf(t, out, "Feb 2024"))

	out = h.mustRun("report", "series", "-g", "daily", "--at", "2024-03-10")
	assert.Equal(t, []string{"Mar", "10", "150.00", "0.00", "150.00"}, fieldsOf(t, out, "Mar 10"))

	_, err := h.run("report", "series", "-g", "hourly")
	assert.Error(t, err)

	out = h.mustRun("report", "top", "--by", "platform")
	assert.Equal(t, []string{"IndiGo", "150.00"}, fieldsOf(t, out, "IndiGo"))

	out = h.mustRun("report", "summary", "-g", "monthly")
	assert.Equal(t, []string{"Revenue", "150.00", "N/A"}, fieldsOf(t, out, "Revenue"))

	out = h.mustRun("report", "compare")
	assert.Equal(t, []string{"Bookings", "1", "0", "N/A"}, fieldsOf(t, out, "Bookings"))

	out = h.mustRun("report", "todate")
	assert.Equal(t, []string{"This", "month", "150.00", "130.00"}, fieldsOf(t, out, "This month"))

	out = h.mustRun("report", "export")
	assert.Equal(t, []string{"Booking", "2024-03-10", "Asha", "Rao", "flight", "150.00"}, fieldsOf(t, out, "Booking"))
	assert.Equal(t, []string{"Expense", "2024-03-15", "Diesel", "Fuel", "-20.00"}, fieldsOf(t, out, "Expense"))
}

func TestBackendFlagOverridesConfig(t *testing.T) {
	h := newHarness(t)
	addBooking(h)

	out := h.mustRun("--backend", "memory", "booking", "stats")
	assert.Equal(t, []string{"Total", "0"}, fieldsOf(t, out, "Total"))

	other := filepath.Join(t.TempDir(), "other.db")
	out = h.mustRun("--db", other, "booking", "list")
	assert.NotContains(t, out, "BK-1")

	_, err := h.run("--backend", "sheets", "booking", "list")
	assert.Error(t, err)
}
