package log

import (
	"context"
)

// StructuredLogger logs domain mutations with a consistent field set.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

// LogBooking logs a booking mutation.
func (sl *StructuredLogger) LogBooking(ctx context.Context, msg, op, id, customer, category, status string, revenueCents int64) {
	fields := NewFields().
		WithBooking(id, customer, category, status, revenueCents).
		WithOperation(op).
		WithComponent(ComponentBooking)
	sl.logger.Logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// LogWallet logs a ledger movement together with the resulting balance.
func (sl *StructuredLogger) LogWallet(ctx context.Context, msg, op, key, actor string, amountCents, balanceCents int64) {
	fields := NewFields().
		WithWallet(key, actor, amountCents, balanceCents).
		WithOperation(op).
		WithComponent(ComponentWallet)
	sl.logger.Logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// LogExpense logs an expense mutation.
func (sl *StructuredLogger) LogExpense(ctx context.Context, msg, op, id, desc string, amountCents int64, category string) {
	fields := NewFields().
		WithExpense(id, desc, amountCents, category).
		WithOperation(op).
		WithComponent(ComponentExpense)
	sl.logger.Logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// LogRejected logs a mutation the domain refused, at Warn.
func (sl *StructuredLogger) LogRejected(ctx context.Context, msg string, err error, component, operation, errorType string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.
		WithError(err).
		WithErrorType(errorType).
		WithOperation(operation).
		WithComponent(component)
	sl.logger.Logger.WarnContext(ctx, msg, all.ToSlice()...)
}

// LogError logs an error with structured context
func (sl *StructuredLogger) LogError(ctx context.Context, msg string, err error, component string, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	all := fields.
		WithError(err).
		WithOperation(operation).
		WithComponent(component)
	sl.logger.Logger.ErrorContext(ctx, msg, all.ToSlice()...)
}
