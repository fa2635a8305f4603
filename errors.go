package poslog

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a referenced record id is absent.
// Callers are expected to recover locally, typically into a form error.
var ErrNotFound = errors.New("poslog: not found")

// InsufficientStockError is a business-rule violation: an adjustment would
// drive a product's stock negative. The sale is rejected with no partial
// effect.
type InsufficientStockError struct {
	ProductID int64
	Available Quantity
	Requested Quantity
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: available %s, requested %s",
		e.ProductID, e.Available, e.Requested)
}

// StoreCorruptError means a persisted counter or data file is unreadable or
// malformed. The affected operation fails rather than re-deriving a guessed
// value, since a guessed order id could be a duplicate.
type StoreCorruptError struct {
	Path string
	Err  error
}

func (e *StoreCorruptError) Error() string {
	return fmt.Sprintf("store %s is corrupt: %v", e.Path, e.Err)
}

func (e *StoreCorruptError) Unwrap() error { return e.Err }

// PartialCommitError reports a checkout where stock was decremented and an
// order id consumed, but persisting the sale rows failed. The engine never
// retries with the same order id; an operator reconciles manually from the
// order id and line details carried here.
type PartialCommitError struct {
	OrderID int64
	Lines   []Sale
	Err     error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("partial commit of order %d (%d lines not persisted): %v",
		e.OrderID, len(e.Lines), e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
