package core

import "time"

// CategoryAmount represents an amount aggregated by a name (expense category,
// customer, platform).
type CategoryAmount struct {
	Name   string
	Amount Money
}

// BookingStats is an aggregate over the current bookings. The three status
// counts always add up to Total.
type BookingStats struct {
	Total        int
	Pending      int
	Confirmed    int
	Cancelled    int
	TotalRevenue Money
	TotalBasePay Money
}

// PeriodBucket is one point of an aggregation series.
type PeriodBucket struct {
	Label       string
	PeriodStart time.Time
	Revenue     Money
	Expense     Money
	Profit      Money
}
