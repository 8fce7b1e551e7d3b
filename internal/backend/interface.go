package backend

import (
	"context"

	"bizops/internal/ports"
)

// CleanupFunc releases whatever the backend opened.
type CleanupFunc func() error

// Result is what a factory hands to the composition root. Publisher is nil
// when no broker is configured.
type Result struct {
	Repo      ports.Repository
	Publisher ports.EventPublisher
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string

	// Optional event broker
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// IsShared reports whether other processes see what this backend stores.
// An in-memory repository lives and dies with its process.
func (bt BackendType) IsShared() bool {
	return bt == SQLiteBackend
}
