package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldUserID      = "user_id"
	FieldWalletID    = "wallet_id"
	FieldTxID        = "tx_id"
	FieldCategory    = "category"
	FieldAmountCents = "amount_cents"
	FieldIntent      = "intent"
	FieldAction      = "action"
	FieldLocale      = "locale"
	FieldPage        = "page"
	FieldViewMode    = "view_mode"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldDuration    = "duration_ms"
	FieldStatusCode  = "status_code"
	FieldPath        = "path"
	FieldMethod      = "method"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentRouter  = "router"
	ComponentSession = "session"
	ComponentArchive = "archive"
	ComponentReport  = "report"
	ComponentWallet  = "wallet"
	ComponentStorage = "storage"
	ComponentExport  = "export"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentHTTP    = "http"
)

// Operations defines standard operation names
const (
	OpRecord   = "record"
	OpReport   = "report"
	OpArchive  = "archive"
	OpEdit     = "edit"
	OpDelete   = "delete"
	OpExport   = "export"
	OpCreate   = "create"
	OpJoin     = "join"
	OpLeave    = "leave"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
