package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"bizops/internal/core"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
	"bizops/internal/wallet"
)

const storeWallets = "wallets"

// WalletService wraps the ledger with persistence, events and metrics.
type WalletService struct {
	ledger *wallet.Ledger
	repo   ports.WalletRepository
	events eventSink
	clock  core.Clock
	logger *log.Logger
	sl     *log.StructuredLogger
	saveMu sync.Mutex
}

func NewWalletService(ledger *wallet.Ledger, repo ports.WalletRepository, pub ports.EventPublisher, clock core.Clock, logger *log.Logger) *WalletService {
	logger = logger.WithComponent(log.ComponentWallet)
	return &WalletService{
		ledger: ledger,
		repo:   repo,
		events: newEventSink(pub, logger),
		clock:  clock,
		logger: logger,
		sl:     log.NewStructuredLogger(logger),
	}
}

func (s *WalletService) Load(ctx context.Context) error {
	accounts, entries, err := s.repo.LoadWallets(ctx)
	if err != nil {
		return fmt.Errorf("load wallets: %w", err)
	}
	s.ledger.Load(accounts, entries)
	for _, a := range s.ledger.Wallets() {
		metrics.WalletBalance.WithLabelValues(a.Key).Set(float64(a.Balance.Cents))
	}
	s.logger.DebugContext(ctx, "Wallets loaded", "wallets", len(accounts), "entries", len(entries))
	return nil
}

// Credit adds amount to a wallet. An empty actor is recorded as the default
// actor.
func (s *WalletService) Credit(ctx context.Context, key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	return s.apply(ctx, core.OpCredit, key, amount, actor)
}

// Debit removes amount from a wallet. A short balance comes back as
// *core.InsufficientBalanceError and changes nothing.
func (s *WalletService) Debit(ctx context.Context, key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	return s.apply(ctx, core.OpDebit, key, amount, actor)
}

func (s *WalletService) apply(ctx context.Context, op core.LedgerOperation, key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	var (
		entry core.LedgerEntry
		err   error
	)
	if op == core.OpCredit {
		entry, err = s.ledger.Credit(key, amount, actor)
	} else {
		entry, err = s.ledger.Debit(key, amount, actor)
	}
	if err != nil {
		metrics.Mutations.WithLabelValues(storeWallets, string(op), metrics.OutcomeRejected).Inc()
		errType := log.ErrorTypeValidation
		if errors.Is(err, core.ErrInsufficientBalance) {
			errType = log.ErrorTypeInsufficient
		}
		s.sl.LogRejected(ctx, "Wallet operation rejected", err, log.ComponentWallet, string(op), errType,
			log.NewFields().WithWallet(key, actor, amount.Cents, s.ledger.BalanceOf(key).Cents))
		return core.LedgerEntry{}, err
	}

	balance := s.ledger.BalanceOf(entry.WalletKey)
	metrics.Mutations.WithLabelValues(storeWallets, string(op), metrics.OutcomeOK).Inc()
	metrics.WalletBalance.WithLabelValues(entry.WalletKey).Set(float64(balance.Cents))
	s.sl.LogWallet(ctx, "Wallet updated", string(op), entry.WalletKey, entry.Actor, entry.Amount.Cents, balance.Cents)

	perr := s.persist(ctx)
	evType := core.EventWalletCredited
	if op == core.OpDebit {
		evType = core.EventWalletDebited
	}
	s.events.emit(ctx, core.DomainEvent{
		Type:        evType,
		EntityID:    entry.ID,
		WalletKey:   entry.WalletKey,
		AmountCents: entry.Amount.Cents,
		Actor:       entry.Actor,
		OccurredAt:  entry.Timestamp,
	})
	return entry, perr
}

func (s *WalletService) BalanceOf(key string) core.Money { return s.ledger.BalanceOf(key) }

func (s *WalletService) History(key string, limit int) []core.LedgerEntry {
	return s.ledger.History(key, limit)
}

func (s *WalletService) Wallets() []core.WalletAccount { return s.ledger.Wallets() }

// Reconcile checks that a wallet's balance matches its initial balance plus
// its ledger entries.
func (s *WalletService) Reconcile(key string) error { return s.ledger.Reconcile(key) }

func (s *WalletService) persist(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	accounts, entries := s.ledger.Snapshot()
	if err := s.repo.ReplaceWallets(ctx, accounts, entries); err != nil {
		metrics.PersistFailures.WithLabelValues(storeWallets).Inc()
		s.sl.LogError(ctx, "Failed to save wallets", err, log.ComponentStorage, log.OpPersist,
			log.NewFields().WithErrorType(log.ErrorTypeDatabase))
		return &PersistError{Store: storeWallets, Err: err}
	}
	return nil
}
