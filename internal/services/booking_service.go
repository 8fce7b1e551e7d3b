package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"bizops/internal/booking"
	"bizops/internal/core"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
)

const storeBookings = "bookings"

// BookingService applies booking mutations in memory, then saves the full
// collection and announces the change.
type BookingService struct {
	store  *booking.Store
	repo   ports.BookingRepository
	events eventSink
	clock  core.Clock
	logger *log.Logger
	sl     *log.StructuredLogger
	saveMu sync.Mutex
}

func NewBookingService(store *booking.Store, repo ports.BookingRepository, pub ports.EventPublisher, clock core.Clock, logger *log.Logger) *BookingService {
	logger = logger.WithComponent(log.ComponentBooking)
	return &BookingService{
		store:  store,
		repo:   repo,
		events: newEventSink(pub, logger),
		clock:  clock,
		logger: logger,
		sl:     log.NewStructuredLogger(logger),
	}
}

// Load fills the store from the repository.
func (s *BookingService) Load(ctx context.Context) error {
	items, err := s.repo.LoadBookings(ctx)
	if err != nil {
		return fmt.Errorf("load bookings: %w", err)
	}
	s.store.Load(items)
	s.logger.DebugContext(ctx, "Bookings loaded", "count", len(items))
	return nil
}

// Add validates and records a booking. A *PersistError comes back together
// with the booking when only the save failed.
func (s *BookingService) Add(ctx context.Context, raw core.RawBooking) (core.Booking, error) {
	b, err := s.store.Add(raw)
	if err != nil {
		metrics.Mutations.WithLabelValues(storeBookings, log.OpCreate, metrics.OutcomeRejected).Inc()
		fields := log.NewFields()
		var ve *core.ValidationError
		if errors.As(err, &ve) {
			fields[log.FieldField] = ve.Field
		}
		s.sl.LogRejected(ctx, "Booking rejected", err, log.ComponentBooking, log.OpValidate, log.ErrorTypeValidation, fields)
		return core.Booking{}, err
	}
	metrics.Mutations.WithLabelValues(storeBookings, log.OpCreate, metrics.OutcomeOK).Inc()
	s.sl.LogBooking(ctx, "Booking created", log.OpCreate, b.ID, b.CustomerName, string(b.Category), string(b.Status), b.TotalRevenue.Cents)

	perr := s.persist(ctx)
	s.events.emit(ctx, core.DomainEvent{
		Type:        core.EventBookingCreated,
		EntityID:    b.ID,
		AmountCents: b.TotalRevenue.Cents,
		Status:      string(b.Status),
		OccurredAt:  s.clock.Now(),
	})
	return b, perr
}

// SetStatus changes a booking's status. Unknown ids yield core.ErrNotFound.
func (s *BookingService) SetStatus(ctx context.Context, id, status string) (core.Booking, error) {
	st := core.BookingStatus(strings.ToLower(strings.TrimSpace(status)))
	b, ok, err := s.store.SetStatus(id, st)
	if err != nil {
		metrics.Mutations.WithLabelValues(storeBookings, log.OpUpdate, metrics.OutcomeRejected).Inc()
		s.sl.LogRejected(ctx, "Status change rejected", err, log.ComponentBooking, log.OpUpdate, log.ErrorTypeValidation,
			log.NewFields())
		return core.Booking{}, err
	}
	if !ok {
		return core.Booking{}, fmt.Errorf("booking %s: %w", id, core.ErrNotFound)
	}
	metrics.Mutations.WithLabelValues(storeBookings, log.OpUpdate, metrics.OutcomeOK).Inc()
	s.sl.LogBooking(ctx, "Booking status changed", log.OpUpdate, b.ID, b.CustomerName, string(b.Category), string(b.Status), b.TotalRevenue.Cents)

	perr := s.persist(ctx)
	s.events.emit(ctx, core.DomainEvent{
		Type:       core.EventBookingStatusChanged,
		EntityID:   b.ID,
		Status:     string(b.Status),
		OccurredAt: s.clock.Now(),
	})
	return b, perr
}

// Remove deletes a booking. Removing an unknown id is a no-op that reports
// false and saves nothing.
func (s *BookingService) Remove(ctx context.Context, id string) (bool, error) {
	if !s.store.Remove(id) {
		s.logger.DebugContext(ctx, "Remove of unknown booking ignored", log.FieldBookingID, id)
		return false, nil
	}
	metrics.Mutations.WithLabelValues(storeBookings, log.OpDelete, metrics.OutcomeOK).Inc()
	s.logger.InfoContext(ctx, "Booking removed", log.FieldBookingID, id, log.FieldOperation, log.OpDelete)

	perr := s.persist(ctx)
	s.events.emit(ctx, core.DomainEvent{
		Type:       core.EventBookingRemoved,
		EntityID:   id,
		OccurredAt: s.clock.Now(),
	})
	return true, perr
}

func (s *BookingService) Get(id string) (core.Booking, bool) { return s.store.Get(id) }

func (s *BookingService) Stats() core.BookingStats { return s.store.Stats() }

func (s *BookingService) List() []core.Booking { return s.store.List() }

func (s *BookingService) Filter(status, search string) []core.Booking {
	return s.store.Filter(status, search)
}

func (s *BookingService) Recent(n int) []core.Booking { return s.store.Recent(n) }

func (s *BookingService) ForCustomer(email, contact string) []core.Booking {
	return s.store.ForCustomer(email, contact)
}

// persist saves the current collection. Saves are serialised so a later
// snapshot is never overwritten by an earlier one.
func (s *BookingService) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if err := s.repo.ReplaceBookings(ctx, s.store.List()); err != nil {
		metrics.PersistFailures.WithLabelValues(storeBookings).Inc()
		s.sl.LogError(ctx, "Failed to save bookings", err, log.ComponentStorage, log.OpPersist,
			log.NewFields().WithErrorType(log.ErrorTypeDatabase))
		return &PersistError{Store: storeBookings, Err: err}
	}
	return nil
}
