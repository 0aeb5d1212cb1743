/*
errors.go - Centralized error types for the invoice engine

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Storage errors - Recovered locally; the caller receives a default
     value and the failure is logged, never surfaced to the user.
  2. Import errors  - Surfaced to the caller; the document is unchanged.

  Note that PARTIAL import data is not an error at all: missing sections
  are silently merged with defaults (see codec.go). Invoices are expected
  to be hand-edited.

USAGE:
  if errors.Is(err, invoice.ErrInvalidImportFormat) {
      // reject the upload, keep current state
  }

SEE ALSO:
  - codec.go: Uses ImportError
  - session/gateway.go: Swallows and logs the storage errors
*/
package invoice

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrStorageUnavailable is returned by a KV backend in a non-interactive
	// execution context, or when the backend is disabled. This is a
	// first-class, expected condition: load falls back to the default and
	// save becomes a no-op.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorruptStoredValue indicates stored text that failed to parse.
	// Recovered identically to ErrStorageUnavailable.
	ErrCorruptStoredValue = errors.New("corrupt stored value")

	// ErrInvalidImportFormat indicates import text that failed to parse as
	// structured data. The only failure in the engine that reaches the
	// caller; state is left unchanged.
	ErrInvalidImportFormat = errors.New("invalid import format")

	// ErrItemNotFound is returned by the API layer when a line-item id does
	// not match. The session-level mutation protocol treats the same
	// condition as a silent no-op.
	ErrItemNotFound = errors.New("line item not found")

	// ErrUnknownField is returned when an item update names a field outside
	// the mutation protocol.
	ErrUnknownField = errors.New("unknown line item field")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ImportError wraps a parse failure with the underlying decoder error.
type ImportError struct {
	Err error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("invalid import format: %v", e.Err)
}

func (e *ImportError) Unwrap() error {
	return ErrInvalidImportFormat
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecoverable returns true if the error degrades to "use the default"
// rather than being surfaced.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrCorruptStoredValue)
}
