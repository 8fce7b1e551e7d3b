package services

import (
	"context"
	"fmt"
	"sync"

	"bizops/internal/core"
	"bizops/internal/expense"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
)

const storeExpenses = "expenses"

// ExpenseService records expenses in memory, saves the collection and
// publishes a domain event.
type ExpenseService struct {
	store  *expense.Store
	repo   ports.ExpenseRepository
	events eventSink
	clock  core.Clock
	logger *log.Logger
	sl     *log.StructuredLogger
	saveMu sync.Mutex
}

func NewExpenseService(store *expense.Store, repo ports.ExpenseRepository, pub ports.EventPublisher, clock core.Clock, logger *log.Logger) *ExpenseService {
	logger = logger.WithComponent(log.ComponentExpense)
	return &ExpenseService{
		store:  store,
		repo:   repo,
		events: newEventSink(pub, logger),
		clock:  clock,
		logger: logger,
		sl:     log.NewStructuredLogger(logger),
	}
}

func (s *ExpenseService) Load(ctx context.Context) error {
	items, err := s.repo.LoadExpenses(ctx)
	if err != nil {
		return fmt.Errorf("load expenses: %w", err)
	}
	s.store.Load(items)
	s.logger.DebugContext(ctx, "Expenses loaded", "count", len(items))
	return nil
}

// Add records an expense. ok is false, with a nil error, when the store
// declines a blank description or a non-positive amount.
func (s *ExpenseService) Add(ctx context.Context, description string, amount core.Money, category string) (e core.Expense, ok bool, err error) {
	e, ok = s.store.Add(description, amount, category)
	if !ok {
		metrics.Mutations.WithLabelValues(storeExpenses, log.OpCreate, metrics.OutcomeRejected).Inc()
		s.logger.WarnContext(ctx, "Expense declined",
			log.FieldError, expense.Check(description, amount),
			log.FieldExpenseDesc, description,
			log.FieldAmountCents, amount.Cents,
			log.FieldErrorType, log.ErrorTypeValidation)
		return core.Expense{}, false, nil
	}
	metrics.Mutations.WithLabelValues(storeExpenses, log.OpCreate, metrics.OutcomeOK).Inc()
	s.sl.LogExpense(ctx, "Expense created", log.OpCreate, e.ID, e.Description, e.Amount.Cents, e.Category)

	err = s.persist(ctx)
	s.events.emit(ctx, core.DomainEvent{
		Type:        core.EventExpenseCreated,
		EntityID:    e.ID,
		AmountCents: e.Amount.Cents,
		OccurredAt:  s.clock.Now(),
	})
	return e, true, err
}

// Remove deletes an expense. Unknown ids report false and save nothing.
func (s *ExpenseService) Remove(ctx context.Context, id string) (bool, error) {
	if !s.store.Remove(id) {
		return false, nil
	}
	metrics.Mutations.WithLabelValues(storeExpenses, log.OpDelete, metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "Expense removed", log.FieldExpenseID, id, log.FieldOperation, log.OpDelete)

	err := s.persist(ctx)
	s.events.emit(ctx, core.DomainEvent{
		Type:       core.EventExpenseRemoved,
		EntityID:   id,
		OccurredAt: s.clock.Now(),
	})
	return true, err
}

func (s *ExpenseService) CategoryTotals() []core.CategoryAmount { return s.store.CategoryTotals() }

func (s *ExpenseService) Total() core.Money { return s.store.Total() }

func (s *ExpenseService) List() []core.Expense { return s.store.List() }

func (s *ExpenseService) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.repo.ReplaceExpenses(ctx, s.store.Snapshot()); err != nil {
		metrics.PersistFailures.WithLabelValues(storeExpenses).Inc()
		s.sl.LogError(ctx, "Failed to save expenses", err, log.ComponentStorage, log.OpPersist,
			log.NewFields().WithErrorType(log.ErrorTypeDatabase))
		return &PersistError{Store: storeExpenses, Err: err}
	}
	return nil
}
