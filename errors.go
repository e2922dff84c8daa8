package gl

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("gl: not found")
	ErrAlreadyExists = errors.New("gl: already exists")
	ErrValidation    = errors.New("gl: validation failed")

	// Journal entry errors
	ErrUnbalancedEntry   = errors.New("gl: entry debits and credits do not balance")
	ErrInvalidTransition = errors.New("gl: invalid state transition")
	ErrNotPosted         = errors.New("gl: entry is not posted")
	ErrEntryImmutable    = errors.New("gl: posted entry is immutable")

	// Period errors
	ErrPeriodNotFound = errors.New("gl: no financial period covers this date")
	ErrPeriodClosed   = errors.New("gl: financial period is not open for posting")

	// Account errors
	ErrAccountNotFound = errors.New("gl: account not found")
	ErrAccountArchived = errors.New("gl: account is archived")
	ErrAccountInUse    = errors.New("gl: account is referenced by posted lines")

	// Accrual errors
	ErrNoPendingPeriods        = errors.New("gl: accrual has no pending schedule periods")
	ErrPeriodAlreadyRecognized = errors.New("gl: schedule period is not pending")
	ErrHasRecognizedPeriods    = errors.New("gl: accrual has recognized periods; reverse its journal entries first")

	// Numbering errors
	ErrAllocationConflict = errors.New("gl: document number allocation conflict")

	// Infrastructure errors
	ErrStorageUnavailable = errors.New("gl: storage unavailable")
)

// IsTransient reports whether an error may succeed on retry. Deterministic
// validation and state-machine errors are never transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrAllocationConflict) || errors.Is(err, ErrStorageUnavailable)
}

// ValidationError wraps ErrValidation with a reason, so callers can match
// the class with errors.Is and still read the specific complaint.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// TransitionError wraps ErrInvalidTransition with the offending edge.
func TransitionError(from, to string) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
