package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldError       = "error"
	FieldErrorType   = "error_type"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldSuccess     = "success"
	FieldYear        = "year"
	FieldMonth       = "month"
	FieldAccountID   = "account_id"
	FieldCardID      = "card_id"
	FieldTxID        = "transaction_id"
	FieldGroupID     = "group_id"
	FieldCount       = "count"
	FieldAmountCents = "amount_cents"
	FieldCategoryID  = "category_id"
	FieldEntity      = "entity"
)

// Components defines standard component names
const (
	ComponentApp       = "app"
	ComponentCLI       = "cli"
	ComponentLedger    = "ledger"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentSheets    = "sheets"
	ComponentBackend   = "backend"
	ComponentExport    = "export"
	ComponentDashboard = "dashboard"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpArchive   = "archive"
	OpPay       = "pay"
	OpTransfer  = "transfer"
	OpExport    = "export"
	OpImport    = "import"
	OpSummarize = "summarize"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

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

func (f LogFields) WithErrorType(t string) LogFields {
	f[FieldErrorType] = t
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithPeriod adds the reference month fields.
func (f LogFields) WithPeriod(year, month int) LogFields {
	f[FieldYear] = year
	f[FieldMonth] = month
	return f
}

func (f LogFields) WithAccount(id string) LogFields {
	f[FieldAccountID] = id
	return f
}

func (f LogFields) WithCard(id string) LogFields {
	f[FieldCardID] = id
	return f
}

// WithAmount adds the amount in cents.
func (f LogFields) WithAmount(cents int64) LogFields {
	f[FieldAmountCents] = cents
	return f
}

func (f LogFields) WithCount(n int) LogFields {
	f[FieldCount] = n
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
