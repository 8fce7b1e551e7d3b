package core

import (
	"errors"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestValidator() *Validator {
	return NewValidator(FixedClock{T: testNow}, &SequenceGenerator{})
}

func validRaw() RawBooking {
	return RawBooking{
		CustomerName:  "Asha",
		Email:         "asha@x.com",
		ContactNumber: "9876543210",
		Date:          testNow,
		Category:      "bus",
	}
}

func TestValidateFirstFailingField(t *testing.T) {
	cases := []struct {
		name  string
		edit  func(r *RawBooking)
		field string
	}{
		{"empty name", func(r *RawBooking) { r.CustomerName = "   " }, "customerName"},
		{"bad email", func(r *RawBooking) { r.Email = "asha-at-x" }, "email"},
		{"name checked before email", func(r *RawBooking) { r.CustomerName = ""; r.Email = "" }, "customerName"},
		{"short contact", func(r *RawBooking) { r.ContactNumber = "12345" }, "contactNumber"},
		{"letters in contact", func(r *RawBooking) { r.ContactNumber = "98765abcde" }, "contactNumber"},
		{"missing date", func(r *RawBooking) { r.Date = time.Time{} }, "date"},
		{"negative base pay", func(r *RawBooking) { r.BasePay = "-1" }, "basePay"},
		{"negative commission", func(r *RawBooking) { r.CommissionAmount = "-0.5" }, "commissionAmount"},
		{"garbage markup", func(r *RawBooking) { r.MarkupAmount = "ten" }, "markupAmount"},
		{"missing category", func(r *RawBooking) { r.Category = "" }, "category"},
		{"unknown category", func(r *RawBooking) { r.Category = "ferry" }, "category"},
		{"unknown status", func(r *RawBooking) { r.Status = "archived" }, "status"},
		{"flight without platform", func(r *RawBooking) { r.Category = "flight" }, "platform"},
		{"hotel without platform", func(r *RawBooking) { r.Category = "hotel"; r.Platform = " " }, "platform"},
	}
	v := newTestValidator()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validRaw()
			tc.edit(&raw)
			_, err := v.Validate(raw)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("expected field %q, got %q (%v)", tc.field, verr.Field, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected errors.Is(err, ErrValidation)")
			}
		})
	}
}

func TestUnknownCategoryListsChoices(t *testing.T) {
	raw := validRaw()
	raw.Category = "ferry"
	_, err := newTestValidator().Validate(raw)
	if err == nil || err.Error() != "invalid category: must be one of flight, bus, train, cab, hotel" {
		t.Fatalf("got %v", err)
	}
}

func TestValidateEmptyCustomerName(t *testing.T) {
	_, err := newTestValidator().Validate(RawBooking{
		CustomerName:  "",
		Email:         "a@b.com",
		ContactNumber: "1234567890",
		Date:          testNow,
		Category:      "bus",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "customerName" {
		t.Fatalf("expected customerName validation error, got %v", err)
	}
}

func TestValidateNormalizesAndDerivesRevenue(t *testing.T) {
	b, err := newTestValidator().Validate(RawBooking{
		CustomerName:     "  Asha ",
		Email:            "ASHA@X.com",
		ContactNumber:    "98765-43210",
		Date:             testNow,
		Category:         "flight",
		Platform:         "direct",
		CommissionAmount: "200",
		MarkupAmount:     "50",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.CustomerName != "Asha" || b.Email != "asha@x.com" || b.ContactNumber != "9876543210" {
		t.Fatalf("unexpected normalization: %+v", b)
	}
	if b.TotalRevenue.Cents != 25000 {
		t.Fatalf("expected total revenue 250.00, got %s", b.TotalRevenue)
	}
	if b.Status != StatusPending {
		t.Fatalf("expected default status pending, got %s", b.Status)
	}
	if !b.CreatedAt.Equal(testNow) || b.ID != "BK-1" {
		t.Fatalf("unexpected id/createdAt: %s %v", b.ID, b.CreatedAt)
	}
}

func TestValidateRevenueRoundsToCents(t *testing.T) {
	raw := validRaw()
	raw.CommissionAmount = "10.005"
	raw.MarkupAmount = "0.104"
	b, err := newTestValidator().Validate(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.TotalRevenue != b.CommissionAmount.Add(b.MarkupAmount) {
		t.Fatalf("total revenue %s does not match parts %s + %s", b.TotalRevenue, b.CommissionAmount, b.MarkupAmount)
	}
	if b.TotalRevenue.Cents != 1011 {
		t.Fatalf("expected 10.11, got %s", b.TotalRevenue)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", " Confirmed ", "CANCELLED"} {
		if _, err := ParseStatus(s); err != nil {
			t.Fatalf("%q: unexpected error %v", s, err)
		}
	}
	if _, err := ParseStatus("done"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestInsufficientBalanceErrorIs(t *testing.T) {
	err := error(&InsufficientBalanceError{WalletKey: "alhind", Available: Cents(100000), Requested: Cents(150000)})
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("expected errors.Is to match")
	}
	if err.Error() != "insufficient balance in alhind: available 1000.00, requested 1500.00" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}
