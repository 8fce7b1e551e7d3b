// Package expense owns categorized expense records.
package expense

import (
	"sort"
	"strings"
	"sync"

	"bizops/internal/core"
)

// DefaultCategories are always present in category totals, even at zero.
var DefaultCategories = []string{"Fuel", "Salary", "Rent", "Marketing", "Maintenance", core.DefaultExpenseCategory}

type Store struct {
	mu         sync.RWMutex
	clock      core.Clock
	ids        core.IDGenerator
	categories []string
	items      []core.Expense
	version    uint64
}

// New creates a store. categories seeds the category rollup; nil means
// DefaultCategories.
func New(clock core.Clock, ids core.IDGenerator, categories []string) *Store {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if ids == nil {
		ids = core.UUIDGenerator{}
	}
	if categories == nil {
		categories = DefaultCategories
	}
	return &Store{clock: clock, ids: ids, categories: append([]string(nil), categories...)}
}

// Load replaces the contents with persisted expenses.
func (s *Store) Load(items []core.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense(nil), items...)
	s.version++
}

// Check reports why Add would decline an expense, or nil if it would not.
func Check(description string, amount core.Money) error {
	if strings.TrimSpace(description) == "" {
		return core.ErrEmptyDescription
	}
	return amount.Validate()
}

// Add records an expense dated now. Blank descriptions and non-positive
// amounts are declined quietly: ok is false and nothing is stored.
func (s *Store) Add(description string, amount core.Money, category string) (e core.Expense, ok bool) {
	if Check(description, amount) != nil {
		return core.Expense{}, false
	}
	description = strings.TrimSpace(description)
	category = strings.TrimSpace(category)
	if category == "" {
		category = core.DefaultExpenseCategory
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e = core.Expense{
		ID:          s.ids.NewID(core.PrefixExpense),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        s.clock.Now(),
	}
	s.items = append(s.items, e)
	s.version++
	return e, true
}

// Remove deletes the expense with id and reports whether it existed.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			s.version++
			return true
		}
	}
	return false
}

// CategoryTotals sums expenses per category, largest first. Seeded
// categories appear even without expenses; equal amounts keep seed order,
// then first-seen order.
func (s *Store) CategoryTotals() []core.CategoryAmount {
	s.mu.RLock()
	defer s.mu.RUnlock()
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, c := range s.categories {
		if _, ok := index[c]; ok {
			continue
		}
		index[c] = len(out)
		out = append(out, core.CategoryAmount{Name: c})
	}
	for _, e := range s.items {
		i, ok := index[e.Category]
		if !ok {
			i = len(out)
			index[e.Category] = i
			out = append(out, core.CategoryAmount{Name: e.Category})
		}
		out[i].Amount = out[i].Amount.Add(e.Amount)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[j].Amount.LessThan(out[i].Amount)
	})
	return out
}

// Total is the sum of all expenses.
func (s *Store) Total() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var t core.Money
	for _, e := range s.items {
		t = t.Add(e.Amount)
	}
	return t
}

// List returns all expenses, newest first.
func (s *Store) List() []core.Expense {
	out := s.Snapshot()
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}

// Snapshot returns the expenses in insertion order.
func (s *Store) Snapshot() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense(nil), s.items...)
}

// Version increases on every mutation.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}
