package core

import (
	"regexp"
	"strings"
)

var (
	emailPattern   = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	contactPattern = regexp.MustCompile(`^\d{10}$`)
	contactStrip   = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "", "\t", "")
)

// Validator turns raw submissions into canonical Bookings. It has no side
// effects beyond reading the clock and drawing an id.
type Validator struct {
	clock Clock
	ids   IDGenerator
}

func NewValidator(clock Clock, ids IDGenerator) *Validator {
	if clock == nil {
		clock = SystemClock{}
	}
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Validator{clock: clock, ids: ids}
}

// Validate checks raw rule by rule and stops at the first failure, so the
// returned *ValidationError is deterministic for a given input.
func (v *Validator) Validate(raw RawBooking) (Booking, error) {
	name := strings.TrimSpace(raw.CustomerName)
	if name == "" {
		return Booking{}, invalid("customerName", "is required")
	}

	email := strings.ToLower(strings.TrimSpace(raw.Email))
	if email == "" {
		return Booking{}, invalid("email", "is required")
	}
	if !emailPattern.MatchString(email) {
		return Booking{}, invalid("email", "must look like local@domain")
	}

	contact := contactStrip.Replace(strings.TrimSpace(raw.ContactNumber))
	if contact == "" {
		return Booking{}, invalid("contactNumber", "is required")
	}
	if !contactPattern.MatchString(contact) {
		return Booking{}, invalid("contactNumber", "must be 10 digits")
	}

	if raw.Date.IsZero() {
		return Booking{}, invalid("date", "is required")
	}

	basePay, err := ParseMoney(raw.BasePay)
	if err != nil {
		return Booking{}, invalid("basePay", "must be a non-negative amount")
	}
	commission, err := ParseMoney(raw.CommissionAmount)
	if err != nil {
		return Booking{}, invalid("commissionAmount", "must be a non-negative amount")
	}
	markup, err := ParseMoney(raw.MarkupAmount)
	if err != nil {
		return Booking{}, invalid("markupAmount", "must be a non-negative amount")
	}

	category := BookingCategory(strings.ToLower(strings.TrimSpace(raw.Category)))
	if category == "" {
		return Booking{}, invalid("category", "is required")
	}
	if !category.Valid() {
		return Booking{}, invalid("category", "must be one of "+categoryList())
	}

	status := StatusPending
	if s := strings.TrimSpace(raw.Status); s != "" {
		status = BookingStatus(strings.ToLower(s))
		if !status.Valid() {
			return Booking{}, invalid("status", "must be one of pending, confirmed, cancelled")
		}
	}

	platform := strings.TrimSpace(raw.Platform)
	if platform == "" && category.RequiresPlatform() {
		return Booking{}, invalid("platform", "is required for "+string(category)+" bookings")
	}

	return Booking{
		ID:               v.ids.NewID(PrefixBooking),
		CustomerName:     name,
		Email:            email,
		ContactNumber:    contact,
		Date:             raw.Date,
		BasePay:          basePay,
		CommissionAmount: commission,
		MarkupAmount:     markup,
		TotalRevenue:     commission.Add(markup),
		Category:         category,
		Platform:         platform,
		Status:           status,
		CreatedAt:        v.clock.Now(),
	}, nil
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func categoryList() string {
	cats := Categories()
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
