package report

import (
	"sort"
	"time"

	"bizops/internal/core"
)

const (
	RowBooking = "Booking"
	RowExpense = "Expense"
)

// ExportRow is one line of the flattened money report. Bookings carry their
// revenue as a positive amount and expenses a negative one.
type ExportRow struct {
	Type        string
	Date        time.Time
	Description string
	Amount      core.Money
	Category    string
}

// ExportRows merges bookings and expenses chronologically. On equal dates
// bookings come first, then input order.
func ExportRows(bookings []core.Booking, expenses []core.Expense) []ExportRow {
	rows := make([]ExportRow, 0, len(bookings)+len(expenses))
	for _, b := range bookings {
		rows = append(rows, ExportRow{
			Type:        RowBooking,
			Date:        b.Date,
			Description: b.CustomerName,
			Amount:      b.TotalRevenue,
			Category:    string(b.Category),
		})
	}
	for _, e := range expenses {
		category := e.Category
		if category == "" {
			category = core.DefaultExpenseCategory
		}
		rows = append(rows, ExportRow{
			Type:        RowExpense,
			Date:        e.Date,
			Description: e.Description,
			Amount:      core.Zero.Sub(e.Amount),
			Category:    category,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.Before(rows[j].Date) })
	return rows
}
