package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizops/internal/core"
)

func TestCompareValues(t *testing.T) {
	tr := CompareValues(150, 100)
	assert.Equal(t, Change, tr.State)
	assert.InDelta(t, 50.0, tr.Percent, 1e-9)
	assert.True(t, tr.Positive)
	assert.Equal(t, "+50.0%", tr.String())

	tr = CompareValues(50, 100)
	assert.InDelta(t, -50.0, tr.Percent, 1e-9)
	assert.False(t, tr.Positive)
	assert.Equal(t, "-50.0%", tr.String())

	tr = CompareValues(-50, -100)
	assert.InDelta(t, 50.0, tr.Percent, 1e-9)

	tr = CompareValues(10, 0)
	assert.Equal(t, NoTrend, tr.State)
	assert.Equal(t, "N/A", tr.String())
}

func TestTopEntities(t *testing.T) {
	bookings := []core.Booking{
		{CustomerName: "A", TotalRevenue: core.Cents(10000)},
		{CustomerName: "B", TotalRevenue: core.Cents(50000)},
		{CustomerName: "A", TotalRevenue: core.Cents(20000)},
	}

	top := TopEntities(bookings, ByCustomer, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "B", top[0].Name)
	assert.Equal(t, int64(50000), top[0].Amount.Cents)

	all := TopEntities(bookings, ByCustomer, 0)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[1].Name)
	assert.Equal(t, int64(30000), all[1].Amount.Cents)
}

func TestTopEntitiesTiesAndUnknown(t *testing.T) {
	bookings := []core.Booking{
		{Platform: "", TotalRevenue: core.Cents(100)},
		{Platform: "direct", TotalRevenue: core.Cents(100)},
		{Platform: "  ", TotalRevenue: core.Cents(50)},
	}
	top := TopEntities(bookings, ByPlatform, 0)
	require.Len(t, top, 2)
	assert.Equal(t, UnknownKey, top[0].Name)
	assert.Equal(t, int64(150), top[0].Amount.Cents)
	assert.Equal(t, "direct", top[1].Name)
}

func TestSummarize(t *testing.T) {
	buckets := []core.PeriodBucket{
		{Label: "a", Revenue: core.Cents(100), Expense: core.Cents(50), Profit: core.Cents(50)},
		{Label: "b", Revenue: core.Cents(0), Expense: core.Cents(30), Profit: core.Cents(-30)},
		{Label: "c", Revenue: core.Cents(201), Expense: core.Cents(0), Profit: core.Cents(201)},
	}
	s := Summarize(buckets)

	assert.Equal(t, 3, s.Buckets)
	assert.Equal(t, int64(301), s.TotalRevenue.Cents)
	assert.Equal(t, int64(80), s.TotalExpense.Cents)
	assert.Equal(t, int64(221), s.TotalProfit.Cents)
	assert.Equal(t, int64(100), s.AverageRevenue.Cents)
	assert.Equal(t, "c", s.Best.Label)
	assert.Equal(t, "b", s.Worst.Label)
	assert.Equal(t, NoTrend, s.RevenueTrend.State)
	assert.Equal(t, Change, s.ProfitTrend.State)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Buckets)
	assert.True(t, s.TotalRevenue.IsZero())
}

func TestCompareMonths(t *testing.T) {
	agg := NewAggregator(time.UTC)
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	bookings := []core.Booking{
		{Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(10000)},
		{Date: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(5000)},
		{Date: time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(25000)},
	}
	expenses := []core.Expense{
		{Date: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), Amount: core.Cents(4000)},
	}
	cmp := agg.CompareMonths(bookings, expenses, now)

	assert.Equal(t, 2, cmp.Current.Bookings)
	assert.Equal(t, int64(30000), cmp.Current.Revenue.Cents)
	assert.Equal(t, int64(15000), cmp.Current.Average.Cents)
	assert.Equal(t, int64(25000), cmp.Current.Highest.Cents)
	assert.Equal(t, int64(26000), cmp.Current.Profit.Cents)
	assert.Equal(t, 1, cmp.Previous.Bookings)
	assert.InDelta(t, 200.0, cmp.Revenue.Percent, 1e-9)
	assert.Equal(t, NoTrend, cmp.Expenses.State)
}

func TestToDate(t *testing.T) {
	agg := NewAggregator(time.UTC)
	now := time.Date(2025, 3, 12, 15, 0, 0, 0, time.UTC) // Wednesday
	bookings := []core.Booking{
		{Date: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(100)},
		{Date: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(200)},
		{Date: time.Date(2025, 3, 2, 9, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(400)},
		{Date: time.Date(2025, 1, 2, 9, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(800)},
		{Date: time.Date(2024, 12, 31, 9, 0, 0, 0, time.UTC), TotalRevenue: core.Cents(1600)},
	}
	expenses := []core.Expense{{Amount: core.Cents(50)}}
	td := agg.ToDate(bookings, expenses, now)

	assert.Equal(t, int64(100), td.Day.Cents)
	assert.Equal(t, int64(300), td.Week.Cents)
	assert.Equal(t, int64(700), td.Month.Cents)
	assert.Equal(t, int64(1500), td.Year.Cents)
	assert.Equal(t, int64(50), td.DayProfit.Cents)
	assert.Equal(t, int64(1450), td.YearProfit.Cents)
}

func TestExportRows(t *testing.T) {
	day := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	bookings := []core.Booking{
		{CustomerName: "Asha", Date: day.AddDate(0, 0, 1), TotalRevenue: core.Cents(250), Category: core.CategoryFlight},
		{CustomerName: "Ravi", Date: day, TotalRevenue: core.Cents(100), Category: core.CategoryBus},
	}
	expenses := []core.Expense{
		{Description: "Fuel", Date: day, Amount: core.Cents(40), Category: "Fuel"},
		{Description: "Misc", Date: day.AddDate(0, 0, -1), Amount: core.Cents(10)},
	}
	rows := ExportRows(bookings, expenses)

	require.Len(t, rows, 4)
	assert.Equal(t, "Misc", rows[0].Description)
	assert.Equal(t, core.DefaultExpenseCategory, rows[0].Category)
	assert.Equal(t, int64(-10), rows[0].Amount.Cents)
	assert.Equal(t, RowBooking, rows[1].Type)
	assert.Equal(t, "Ravi", rows[1].Description)
	assert.Equal(t, RowExpense, rows[2].Type)
	assert.Equal(t, "Asha", rows[3].Description)
}
