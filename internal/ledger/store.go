// Package ledger holds the document-store contract for receipt
// records. A record is written exactly once at creation and read many
// times for verification; no update path exists.
package ledger

import (
	"context"
	"errors"

	"github.com/invoixe/invoixe/pkg/types"
)

var (
	// ErrNotFound means no record matches the receipt id. It is a
	// user-facing lookup failure, never a tampering signal.
	ErrNotFound = errors.New("receipt not found")

	// ErrDuplicateID means a record with the same receipt id already
	// exists. The store, not the id generator, is the authority on
	// uniqueness.
	ErrDuplicateID = errors.New("duplicate receipt id")

	// ErrAmbiguousID means more than one record matched a receipt id.
	// At-most-one is an invariant; a violation is a data-integrity
	// error, not a verification verdict.
	ErrAmbiguousID = errors.New("multiple records for receipt id")
)

// Record is a sealed receipt as persisted: the protected fields, the
// display currency, the integrity envelope, and a store-assigned
// document id distinct from the receipt id.
type Record struct {
	DocID string
	types.SealedReceipt
}

// Store is the document-store contract. InsertReceipt must persist the
// envelope in the same write as the data (no read-modify-write gap) and
// reject duplicate receipt ids with ErrDuplicateID. GetReceiptByID
// returns ErrNotFound when no record matches.
type Store interface {
	InsertReceipt(ctx context.Context, rec Record) error
	GetReceiptByID(ctx context.Context, id string) (Record, error)
	Close() error
}
