package store

import (
	"context"

	"github.com/warp/invoice-engine/invoice"
)

// =============================================================================
// UNAVAILABLE STORE - The non-interactive execution context
// =============================================================================

// Unavailable models a context with no storage backend (the server-rendered
// path in the original web tool, or a disabled store). Every operation
// reports invoice.ErrStorageUnavailable; the gateway treats that as a
// first-class expected condition, so loads yield defaults and saves are
// no-ops.
type Unavailable struct{}

func NewUnavailable() Unavailable { return Unavailable{} }

func (Unavailable) Get(context.Context, string) (string, bool, error) {
	return "", false, invoice.ErrStorageUnavailable
}

func (Unavailable) Put(context.Context, string, string) error {
	return invoice.ErrStorageUnavailable
}

func (Unavailable) Delete(context.Context, string) error {
	return invoice.ErrStorageUnavailable
}
