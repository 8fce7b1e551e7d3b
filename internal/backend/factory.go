package backend

import (
	"context"
	"errors"
	"fmt"

	"bizops/internal/amqp"
	"bizops/internal/log"
	"bizops/internal/ports"
	"bizops/internal/storage"
	"bizops/internal/storage/memory"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{logger: logger.WithComponent(log.ComponentBackend)}
}

// CreateBackend opens the repository and, when a broker URL is set, an
// event publisher. A broker that cannot be reached is logged and skipped;
// events are best-effort.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		repo ports.Repository
		err  error
	)
	switch config.Type {
	case SQLiteBackend:
		repo, err = storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		version, dirty, verr := storage.SchemaVersion(config.SQLiteDBPath)
		if verr != nil {
			f.logger.WarnContext(ctx, "Could not read schema version", log.FieldError, verr)
		}
		f.logger.InfoContext(ctx, "Initialized SQLite backend",
			"db_path", config.SQLiteDBPath, "schema_version", version, "schema_dirty", dirty)
	case MemoryBackend:
		repo = memory.New()
		f.logger.InfoContext(ctx, "Initialized memory backend")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	result := &Result{Repo: repo}
	var client *amqp.Client
	if config.AMQPURL != "" {
		client, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events",
				log.FieldError, err)
		} else {
			f.logger.InfoContext(ctx, "Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Publisher = client
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if client != nil && result.Publisher != nil {
			if err := client.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close amqp: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close repository: %w", err))
		}
		return errors.Join(errs...)
	}
	return result, nil
}
