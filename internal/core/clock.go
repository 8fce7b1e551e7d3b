package core

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns T. Useful in tests and for replaying reports.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// IDGenerator produces identifiers that never collide within a process.
type IDGenerator interface {
	NewID(prefix string) string
}

// UUIDGenerator prefixes random UUIDs, e.g. "BK-9f1c...".
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequenceGenerator hands out prefix-1, prefix-2, ... It is safe for
// concurrent use.
type SequenceGenerator struct {
	n atomic.Int64
}

func (g *SequenceGenerator) NewID(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, g.n.Add(1))
}

// ID prefixes per record kind.
const (
	PrefixBooking = "BK"
	PrefixLedger  = "TX"
	PrefixExpense = "EX"
)
