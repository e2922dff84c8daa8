package audit

// Action constants for audit events.
const (
	// Journal entry actions
	ActionEntryCreated   = "entry.created"
	ActionEntrySubmitted = "entry.submitted"
	ActionEntryApproved  = "entry.approved"
	ActionEntryRejected  = "entry.rejected"
	ActionEntryPosted    = "entry.posted"
	ActionEntryReversed  = "entry.reversed"
	ActionEntryVoided    = "entry.voided"

	// Period actions
	ActionPeriodOpened = "period.opened"
	ActionPeriodClosed = "period.closed"
	ActionPeriodLocked = "period.locked"

	// Numbering actions
	ActionNumberReserved = "number.reserved"

	// Accrual actions
	ActionAccrualCreated    = "accrual.created"
	ActionAccrualRecognized = "accrual.recognized"
	ActionAccrualVoided     = "accrual.voided"
)

// Resource constants for audit events.
const (
	ResourceEntry   = "entry"
	ResourcePeriod  = "period"
	ResourceNumber  = "number"
	ResourceAccrual = "accrual"
)

// Category constants for audit events.
const (
	CategoryPosting     = "posting"
	CategoryPeriod      = "period"
	CategoryNumbering   = "numbering"
	CategoryRecognition = "recognition"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
