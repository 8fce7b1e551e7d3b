package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	CategoryFlight BookingCategory = "flight"
	CategoryBus    BookingCategory = "bus"
	CategoryTrain  BookingCategory = "train"
	CategoryCab    BookingCategory = "cab"
	CategoryHotel  BookingCategory = "hotel"
)

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

const (
	OpCredit LedgerOperation = "credit"
	OpDebit  LedgerOperation = "debit"
)

// DefaultExpenseCategory is used when an expense is recorded without one.
const DefaultExpenseCategory = "Other"

// DefaultActor is recorded on ledger entries when the caller names nobody.
const DefaultActor = "System"

type (
	BookingCategory string
	BookingStatus   string
	LedgerOperation string

	// Booking is one recorded sale. Only the Validator builds these; after
	// creation only Status changes.
	Booking struct {
		ID               string
		CustomerName     string
		Email            string
		ContactNumber    string // digits only
		Date             time.Time
		BasePay          Money
		CommissionAmount Money
		MarkupAmount     Money
		TotalRevenue     Money // pinned at creation
		Category         BookingCategory
		Platform         string
		Status           BookingStatus
		CreatedAt        time.Time
	}

	// RawBooking is an unvalidated booking submission as it arrives from a form.
	// Amounts are decimal strings; empty means zero.
	RawBooking struct {
		CustomerName     string
		Email            string
		ContactNumber    string
		Date             time.Time
		BasePay          string
		CommissionAmount string
		MarkupAmount     string
		Category         string
		Platform         string
		Status           string // empty means pending
	}

	// WalletAccount is a named cash pool. Initial is the balance the wallet
	// started from, before any ledger entry.
	WalletAccount struct {
		Key     string
		Balance Money
		Initial Money
	}

	// LedgerEntry is one immutable credit or debit. Amount is always positive.
	LedgerEntry struct {
		ID        string
		WalletKey string
		Amount    Money
		Operation LedgerOperation
		Actor     string
		Timestamp time.Time
	}

	Expense struct {
		ID          string
		Description string
		Amount      Money
		Category    string
		Date        time.Time
	}
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidStatus       = errors.New("invalid status")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNotFound            = errors.New("not found")
	ErrInvalidWallet       = errors.New("invalid wallet key")
	ErrEmptyDescription    = errors.New("empty description")
)

// ValidationError names the first booking field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// InsufficientBalanceError carries both sides of a rejected debit.
type InsufficientBalanceError struct {
	WalletKey string
	Available Money
	Requested Money
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance in %s: available %s, requested %s",
		e.WalletKey, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// Categories returns the closed set of booking categories.
func Categories() []BookingCategory {
	return []BookingCategory{CategoryFlight, CategoryBus, CategoryTrain, CategoryCab, CategoryHotel}
}

// Valid reports whether c is a known category.
func (c BookingCategory) Valid() bool {
	switch c {
	case CategoryFlight, CategoryBus, CategoryTrain, CategoryCab, CategoryHotel:
		return true
	}
	return false
}

// RequiresPlatform reports whether bookings in c are sold through a
// third-party channel that must be named.
func (c BookingCategory) RequiresPlatform() bool {
	switch c {
	case CategoryFlight, CategoryHotel, CategoryCab:
		return true
	}
	return false
}

// Statuses returns every booking status. Any status may move to any other.
func Statuses() []BookingStatus {
	return []BookingStatus{StatusPending, StatusConfirmed, StatusCancelled}
}

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// ParseStatus normalizes s and checks it against the enumeration.
func ParseStatus(s string) (BookingStatus, error) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return st, nil
}

// NormalizeWalletKey trims and lower-cases a wallet key.
func NormalizeWalletKey(key string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	if k == "" {
		return "", ErrInvalidWallet
	}
	return k, nil
}
