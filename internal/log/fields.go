package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldBookingID   = "booking_id"
	FieldCustomer    = "customer"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldWalletKey   = "wallet_key"
	FieldActor       = "actor"
	FieldAmountCents = "amount_cents"
	FieldBalance     = "balance_cents"
	FieldExpenseID   = "expense_id"
	FieldExpenseDesc = "expense_description"
	FieldField       = "field"
	FieldGranularity = "granularity"
	FieldEventType   = "event_type"
	FieldRows        = "rows"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentBooking = "booking"
	ComponentWallet  = "wallet"
	ComponentExpense = "expense"
	ComponentReport  = "report"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
	ComponentCache   = "cache"
	ComponentBackend = "backend"
	ComponentMetrics = "metrics"
)

// Operations defines standard operation names
const (
	OpCreate   = "create"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpCredit   = "credit"
	OpDebit    = "debit"
	OpLoad     = "load"
	OpPersist  = "persist"
	OpPublish  = "publish"
	OpExport   = "export"
	OpValidate = "validate"
	OpShutdown = "shutdown"
	OpStartup  = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInsufficient  = "insufficient_balance"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithErrorType adds the error category
func (f LogFields) WithErrorType(t string) LogFields {
	f[FieldErrorType] = t
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithBooking adds booking-related fields
func (f LogFields) WithBooking(id, customer, category, status string, revenueCents int64) LogFields {
	f[FieldBookingID] = id
	f[FieldCustomer] = customer
	f[FieldCategory] = category
	f[FieldStatus] = status
	f[FieldAmountCents] = revenueCents
	return f
}

// WithWallet adds wallet-related fields
func (f LogFields) WithWallet(key, actor string, amountCents, balanceCents int64) LogFields {
	f[FieldWalletKey] = key
	f[FieldActor] = actor
	f[FieldAmountCents] = amountCents
	f[FieldBalance] = balanceCents
	return f
}

// WithExpense adds expense-related fields
func (f LogFields) WithExpense(id, desc string, amountCents int64, category string) LogFields {
	f[FieldExpenseID] = id
	f[FieldExpenseDesc] = desc
	f[FieldAmountCents] = amountCents
	f[FieldCategory] = category
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
