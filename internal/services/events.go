package services

import (
	"context"

	"bizops/internal/core"
	"bizops/internal/log"
	"bizops/internal/metrics"
	"bizops/internal/ports"
)

// eventSink publishes domain events without ever failing the caller.
type eventSink struct {
	pub    ports.EventPublisher
	logger *log.Logger
	sl     *log.StructuredLogger
}

func newEventSink(pub ports.EventPublisher, logger *log.Logger) eventSink {
	return eventSink{pub: pub, logger: logger, sl: log.NewStructuredLogger(logger)}
}

func (s eventSink) emit(ctx context.Context, ev core.DomainEvent) {
	if s.pub == nil {
		s.logger.DebugContext(ctx, "Event publisher not available, skipping event",
			log.FieldEventType, string(ev.Type))
		return
	}
	if err := s.pub.Publish(ctx, ev); err != nil {
		metrics.EventsPublished.WithLabelValues(string(ev.Type), metrics.OutcomeError).Inc()
		s.sl.LogError(ctx, "Failed to publish event", err, log.ComponentAMQP, log.OpPublish,
			log.NewFields().WithErrorType(log.ErrorTypeNetwork))
		return
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Type), metrics.OutcomeOK).Inc()
}
