package journal

import (
	"context"
	"time"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Store interface {
	Create(ctx context.Context, e *Entry) error
	Get(ctx context.Context, entryID id.EntryID) (*Entry, error)
	List(ctx context.Context, scope types.Scope, opts ListOpts) ([]*Entry, error)
	// Update persists status and audit-field changes for a non-posted
	// entry. Stores must refuse to touch a posted entry through this path.
	Update(ctx context.Context, e *Entry) error

	// Post atomically flips the entry to posted and folds every balance
	// delta into its (period, account, currency) row, creating rows that
	// do not exist yet. Either everything commits or nothing does. Deltas
	// are applied as increments so concurrent postings against the same
	// balance row serialize instead of overwriting each other.
	Post(ctx context.Context, e *Entry, deltas []account.Delta) error

	// ListPostedLines returns posted lines touching the account within the
	// date range, ordered by posting date then entry creation.
	ListPostedLines(ctx context.Context, scope types.Scope, accountID id.AccountID, from, to time.Time) ([]*PostedLine, error)

	// HasPostedLines reports whether any posted line references the account.
	HasPostedLines(ctx context.Context, accountID id.AccountID) (bool, error)
}

// PostedLine pairs a line with the posting context reports need.
type PostedLine struct {
	Line
	DocumentNumber string    `json:"document_number"`
	PostingDate    time.Time `json:"posting_date"`
	EntryDesc      string    `json:"entry_description"`
}
