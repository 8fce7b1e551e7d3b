// Package booking owns the in-memory collection of bookings.
package booking

import (
	"sort"
	"strings"
	"sync"

	"bizops/internal/core"
)

// Store holds bookings in insertion order. All mutations are serialized;
// reads see a consistent copy.
type Store struct {
	mu        sync.RWMutex
	validator *core.Validator
	items     []core.Booking
	version   uint64
}

func New(v *core.Validator) *Store {
	if v == nil {
		v = core.NewValidator(nil, nil)
	}
	return &Store{validator: v}
}

// Load replaces the contents with previously persisted bookings.
func (s *Store) Load(items []core.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Booking(nil), items...)
	s.version++
}

// Add validates raw and appends the resulting booking. Nothing is inserted
// when validation fails.
func (s *Store) Add(raw core.RawBooking) (core.Booking, error) {
	b, err := s.validator.Validate(raw)
	if err != nil {
		return core.Booking{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, b)
	s.version++
	return b, nil
}

// Remove deletes the booking with id. It reports whether anything was
// removed; an unknown id is not an error.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.version++
	return true
}

// SetStatus moves a booking to status. Every transition between the three
// statuses is allowed. ok is false when id is unknown.
func (s *Store) SetStatus(id string, status core.BookingStatus) (b core.Booking, ok bool, err error) {
	if !status.Valid() {
		return core.Booking{}, false, core.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Booking{}, false, nil
	}
	s.items[i].Status = status
	s.version++
	return s.items[i], true, nil
}

// Get returns the booking with id.
func (s *Store) Get(id string) (core.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return core.Booking{}, false
	}
	return s.items[i], true
}

// Stats aggregates the current contents. Cancelled is derived so the three
// counts always partition Total.
func (s *Store) Stats() core.BookingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st core.BookingStats
	st.Total = len(s.items)
	for _, b := range s.items {
		switch b.Status {
		case core.StatusPending:
			st.Pending++
		case core.StatusConfirmed:
			st.Confirmed++
		}
		st.TotalRevenue = st.TotalRevenue.Add(b.TotalRevenue)
		st.TotalBasePay = st.TotalBasePay.Add(b.BasePay)
	}
	st.Cancelled = st.Total - st.Pending - st.Confirmed
	return st
}

// List returns a copy of all bookings in insertion order.
func (s *Store) List() []core.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Booking(nil), s.items...)
}

// Filter returns bookings matching status ("" or "all" for any) whose
// customer name or id contains search, case-insensitively.
func (s *Store) Filter(status string, search string) []core.Booking {
	status = strings.ToLower(strings.TrimSpace(status))
	search = strings.ToLower(strings.TrimSpace(search))
	var out []core.Booking
	for _, b := range s.List() {
		if status != "" && status != "all" && string(b.Status) != status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(b.CustomerName), search) &&
			!strings.Contains(strings.ToLower(b.ID), search) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Recent returns up to n bookings, newest CreatedAt first.
func (s *Store) Recent(n int) []core.Booking {
	items := s.List()
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// ForCustomer returns bookings whose email matches (case-insensitively) or
// whose contact number matches after stripping separators.
func (s *Store) ForCustomer(email, contact string) []core.Booking {
	email = strings.ToLower(strings.TrimSpace(email))
	contact = digitsOnly(contact)
	var out []core.Booking
	for _, b := range s.List() {
		if (email != "" && b.Email == email) || (contact != "" && b.ContactNumber == contact) {
			out = append(out, b)
		}
	}
	return out
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
