// Package wallet implements the multi-wallet cash ledger.
//
// Each credit or debit updates a balance and appends a LedgerEntry under the
// same lock, so the two can never be observed apart. A debit that would take
// a balance below zero changes nothing.
package wallet

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"bizops/internal/core"
)

// DefaultSeed mirrors the wallets the business starts with.
func DefaultSeed() map[string]core.Money {
	return map[string]core.Money{
		"alhind": core.Cents(100000),
		"akbar":  core.Cents(50000),
		"office": core.Cents(200000),
	}
}

type Ledger struct {
	mu       sync.RWMutex
	clock    core.Clock
	ids      core.IDGenerator
	seed     map[string]core.Money
	accounts map[string]*core.WalletAccount
	entries  []core.LedgerEntry
	version  uint64
}

// New creates a ledger. Wallets named in seed exist from the start with that
// balance; any other key starts at zero the first time it is used.
func New(clock core.Clock, ids core.IDGenerator, seed map[string]core.Money) *Ledger {
	if clock == nil {
		clock = core.SystemClock{}
	}
	if ids == nil {
		ids = core.UUIDGenerator{}
	}
	l := &Ledger{
		clock:    clock,
		ids:      ids,
		seed:     make(map[string]core.Money, len(seed)),
		accounts: make(map[string]*core.WalletAccount),
	}
	for k, v := range seed {
		key, err := core.NormalizeWalletKey(k)
		if err != nil || v.IsNegative() {
			continue
		}
		l.seed[key] = v
		l.accounts[key] = &core.WalletAccount{Key: key, Balance: v, Initial: v}
	}
	return l
}

// Load replaces the ledger state with persisted accounts and entries.
// Seeded wallets missing from accounts keep their seed balance.
func (l *Ledger) Load(accounts []core.WalletAccount, entries []core.LedgerEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, a := range accounts {
		acc := a
		l.accounts[acc.Key] = &acc
	}
	l.entries = append([]core.LedgerEntry(nil), entries...)
	l.version++
}

// Credit adds amount to the wallet and logs it.
func (l *Ledger) Credit(key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	key, err := core.NormalizeWalletKey(key)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if !amount.IsPositive() {
		return core.LedgerEntry{}, core.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	acc := l.account(key)
	entry := l.newEntry(key, amount, core.OpCredit, actor)
	acc.Balance = acc.Balance.Add(amount)
	l.entries = append(l.entries, entry)
	l.version++
	return entry, nil
}

// Debit removes amount from the wallet and logs it. If the balance is short
// it returns *core.InsufficientBalanceError and leaves balance and log as
// they were.
func (l *Ledger) Debit(key string, amount core.Money, actor string) (core.LedgerEntry, error) {
	key, err := core.NormalizeWalletKey(key)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	if !amount.IsPositive() {
		return core.LedgerEntry{}, core.ErrInvalidAmount
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	available := l.balance(key)
	if available.LessThan(amount) {
		return core.LedgerEntry{}, &core.InsufficientBalanceError{
			WalletKey: key,
			Available: available,
			Requested: amount,
		}
	}
	acc := l.account(key)
	entry := l.newEntry(key, amount, core.OpDebit, actor)
	acc.Balance = acc.Balance.Sub(amount)
	l.entries = append(l.entries, entry)
	l.version++
	return entry, nil
}

// BalanceOf returns the wallet balance; unknown wallets read as their seed
// balance or zero.
func (l *Ledger) BalanceOf(key string) core.Money {
	key, err := core.NormalizeWalletKey(key)
	if err != nil {
		return core.Zero
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balance(key)
}

// History returns entries newest first, optionally for one wallet and capped
// at limit (<= 0 means no cap).
func (l *Ledger) History(key string, limit int) []core.LedgerEntry {
	key = strings.ToLower(strings.TrimSpace(key))
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []core.LedgerEntry
	for i := len(l.entries) - 1; i >= 0; i-- {
		e := l.entries[i]
		if key != "" && e.WalletKey != key {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Wallets lists every known wallet sorted by key.
func (l *Ledger) Wallets() []core.WalletAccount {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedAccounts()
}

func (l *Ledger) sortedAccounts() []core.WalletAccount {
	out := make([]core.WalletAccount, 0, len(l.accounts))
	for _, a := range l.accounts {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Snapshot returns accounts and the full log (oldest first) for persistence.
func (l *Ledger) Snapshot() ([]core.WalletAccount, []core.LedgerEntry) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.sortedAccounts(), append([]core.LedgerEntry(nil), l.entries...)
}

// Reconcile checks that the wallet balance equals its initial balance plus
// credits minus debits over the whole log.
func (l *Ledger) Reconcile(key string) error {
	key, err := core.NormalizeWalletKey(key)
	if err != nil {
		return err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	acc, ok := l.accounts[key]
	if !ok {
		return nil
	}
	expected := acc.Initial
	for _, e := range l.entries {
		if e.WalletKey != key {
			continue
		}
		switch e.Operation {
		case core.OpCredit:
			expected = expected.Add(e.Amount)
		case core.OpDebit:
			expected = expected.Sub(e.Amount)
		}
	}
	if expected != acc.Balance {
		return fmt.Errorf("wallet %s out of balance: ledger says %s, balance is %s", key, expected, acc.Balance)
	}
	return nil
}

// Version increases on every mutation.
func (l *Ledger) Version() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.version
}

func (l *Ledger) balance(key string) core.Money {
	if acc, ok := l.accounts[key]; ok {
		return acc.Balance
	}
	return l.seed[key]
}

// account returns the wallet, creating it from the seed (or zero) on first use.
func (l *Ledger) account(key string) *core.WalletAccount {
	acc, ok := l.accounts[key]
	if !ok {
		start := l.seed[key]
		acc = &core.WalletAccount{Key: key, Balance: start, Initial: start}
		l.accounts[key] = acc
	}
	return acc
}

func (l *Ledger) newEntry(key string, amount core.Money, op core.LedgerOperation, actor string) core.LedgerEntry {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = core.DefaultActor
	}
	return core.LedgerEntry{
		ID:        l.ids.NewID(core.PrefixLedger),
		WalletKey: key,
		Amount:    amount,
		Operation: op,
		Actor:     actor,
		Timestamp: l.clock.Now(),
	}
}
