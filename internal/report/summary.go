package report

import (
	"time"

	"bizops/internal/core"
)

// Summary describes a bucket series as a whole.
type Summary struct {
	Buckets        int
	TotalRevenue   core.Money
	TotalExpense   core.Money
	TotalProfit    core.Money
	AverageRevenue core.Money
	Best           core.PeriodBucket // highest profit; earliest wins ties
	Worst          core.PeriodBucket // lowest profit; earliest wins ties
	RevenueTrend   Trend             // last bucket vs the one before
	ProfitTrend    Trend
}

// Summarize computes totals, averages, extrema and the latest trend.
func Summarize(buckets []core.PeriodBucket) Summary {
	s := Summary{Buckets: len(buckets)}
	if len(buckets) == 0 {
		return s
	}
	s.Best, s.Worst = buckets[0], buckets[0]
	for _, b := range buckets {
		s.TotalRevenue = s.TotalRevenue.Add(b.Revenue)
		s.TotalExpense = s.TotalExpense.Add(b.Expense)
		s.TotalProfit = s.TotalProfit.Add(b.Profit)
		if s.Best.Profit.LessThan(b.Profit) {
			s.Best = b
		}
		if b.Profit.LessThan(s.Worst.Profit) {
			s.Worst = b
		}
	}
	s.AverageRevenue = core.Cents(roundDiv(s.TotalRevenue.Cents, int64(len(buckets))))
	if n := len(buckets); n >= 2 {
		last, prev := buckets[n-1], buckets[n-2]
		s.RevenueTrend = CompareValues(last.Revenue.Float(), prev.Revenue.Float())
		s.ProfitTrend = CompareValues(last.Profit.Float(), prev.Profit.Float())
	}
	return s
}

// PeriodStats are booking and expense figures for one calendar range.
type PeriodStats struct {
	Start    time.Time
	End      time.Time // exclusive
	Bookings int
	Revenue  core.Money
	Average  core.Money
	Highest  core.Money
	Expenses core.Money
	Profit   core.Money
}

// MonthComparison sets the current calendar month against the previous one.
type MonthComparison struct {
	Current  PeriodStats
	Previous PeriodStats
	Bookings Trend
	Revenue  Trend
	Average  Trend
	Highest  Trend
	Expenses Trend
	Profit   Trend
}

// CompareMonths builds the month-over-month dashboard figures for the month
// containing now.
func (a *Aggregator) CompareMonths(bookings []core.Booking, expenses []core.Expense, now time.Time) MonthComparison {
	curStart := a.PeriodStart(now, Monthly)
	prevStart := step(curStart, Monthly, -1)
	cur := a.periodStats(bookings, expenses, curStart, step(curStart, Monthly, 1))
	prev := a.periodStats(bookings, expenses, prevStart, curStart)
	return MonthComparison{
		Current:  cur,
		Previous: prev,
		Bookings: CompareValues(float64(cur.Bookings), float64(prev.Bookings)),
		Revenue:  CompareValues(cur.Revenue.Float(), prev.Revenue.Float()),
		Average:  CompareValues(cur.Average.Float(), prev.Average.Float()),
		Highest:  CompareValues(cur.Highest.Float(), prev.Highest.Float()),
		Expenses: CompareValues(cur.Expenses.Float(), prev.Expenses.Float()),
		Profit:   CompareValues(cur.Profit.Float(), prev.Profit.Float()),
	}
}

func (a *Aggregator) periodStats(bookings []core.Booking, expenses []core.Expense, start, end time.Time) PeriodStats {
	ps := PeriodStats{Start: start, End: end}
	for _, b := range bookings {
		if !within(b.Date.In(a.loc), start, end) {
			continue
		}
		ps.Bookings++
		ps.Revenue = ps.Revenue.Add(b.TotalRevenue)
		if ps.Highest.LessThan(b.TotalRevenue) {
			ps.Highest = b.TotalRevenue
		}
	}
	for _, e := range expenses {
		if within(e.Date.In(a.loc), start, end) {
			ps.Expenses = ps.Expenses.Add(e.Amount)
		}
	}
	if ps.Bookings > 0 {
		ps.Average = core.Cents(roundDiv(ps.Revenue.Cents, int64(ps.Bookings)))
	}
	ps.Profit = ps.Revenue.Sub(ps.Expenses)
	return ps
}

// ToDateTotals is booking revenue since the start of the current day, ISO
// week, month and year. Profit figures subtract all recorded expenses.
type ToDateTotals struct {
	Day, Week, Month, Year                         core.Money
	DayProfit, WeekProfit, MonthProfit, YearProfit core.Money
	ExpenseTotal                                   core.Money
}

// ToDate computes revenue-to-date figures as of now.
func (a *Aggregator) ToDate(bookings []core.Booking, expenses []core.Expense, now time.Time) ToDateTotals {
	var t ToDateTotals
	dayStart := a.PeriodStart(now, Daily)
	weekStart := a.PeriodStart(now, Weekly)
	monthStart := a.PeriodStart(now, Monthly)
	yearStart := a.PeriodStart(now, Yearly)
	for _, b := range bookings {
		d := b.Date.In(a.loc)
		if !d.Before(yearStart) {
			t.Year = t.Year.Add(b.TotalRevenue)
		}
		if !d.Before(monthStart) {
			t.Month = t.Month.Add(b.TotalRevenue)
		}
		if !d.Before(weekStart) {
			t.Week = t.Week.Add(b.TotalRevenue)
		}
		if !d.Before(dayStart) {
			t.Day = t.Day.Add(b.TotalRevenue)
		}
	}
	for _, e := range expenses {
		t.ExpenseTotal = t.ExpenseTotal.Add(e.Amount)
	}
	t.DayProfit = t.Day.Sub(t.ExpenseTotal)
	t.WeekProfit = t.Week.Sub(t.ExpenseTotal)
	t.MonthProfit = t.Month.Sub(t.ExpenseTotal)
	t.YearProfit = t.Year.Sub(t.ExpenseTotal)
	return t
}

func within(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

// roundDiv divides rounding half away from zero.
func roundDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	q, r := a/b, a%b
	if 2*abs(r) >= abs(b) {
		if (a < 0) != (b < 0) {
			q--
		} else {
			q++
		}
	}
	return q
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}
