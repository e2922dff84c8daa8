// Package journal defines journal entries, their lines, and the entry
// state machine.
package journal

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPosted    Status = "posted"
	StatusReversed  Status = "reversed"
	StatusVoid      Status = "void"
)

// transitions is the explicit edge table for the entry state machine.
// Posting is the only edge that touches balances; everything here is pure
// status bookkeeping. A rejected entry goes back to draft through revision.
var transitions = map[Status][]Status{
	StatusDraft:     {StatusSubmitted, StatusVoid},
	StatusSubmitted: {StatusApproved, StatusRejected, StatusVoid},
	StatusApproved:  {StatusPosted, StatusVoid},
	StatusRejected:  {StatusDraft},
	StatusPosted:    {StatusReversed},
	StatusReversed:  {},
	StatusVoid:      {},
}

// CanTransition reports whether the edge from -> to is legal.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// EntryType tags the business origin of an entry.
type EntryType string

const (
	EntryTypeManual      EntryType = "manual"
	EntryTypeRecognition EntryType = "recognition" // emitted by accrual recognition
	EntryTypeReversal    EntryType = "reversal"
	EntryTypeOpening     EntryType = "opening"
	EntryTypeClosing     EntryType = "closing"
)

// Entry is a journal entry: a balanced set of debit/credit lines. Once
// posted the entry and its lines are immutable; corrections go through an
// equal-and-opposite reversal entry.
type Entry struct {
	types.Entity
	ID             id.EntryID      `json:"id"`
	Scope          types.Scope     `json:"scope"`
	DocumentNumber string          `json:"document_number,omitempty"`
	EntryDate      time.Time       `json:"entry_date"`
	PostingDate    time.Time       `json:"posting_date"`
	Type           EntryType       `json:"type"`
	Description    string          `json:"description"`
	CurrencyCode   string          `json:"currency_code"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	Status         Status          `json:"status"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	Lines          []Line          `json:"lines"`

	// Audit trail
	CreatedBy       string     `json:"created_by"`
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	ApprovedBy      string     `json:"approved_by,omitempty"`
	RejectedBy      string     `json:"rejected_by,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	PostedBy        string     `json:"posted_by,omitempty"`
	PostedAt        *time.Time `json:"posted_at,omitempty"`
	VoidedBy        string     `json:"voided_by,omitempty"`

	// PeriodID is resolved at posting time from PostingDate.
	PeriodID id.PeriodID `json:"period_id,omitempty"`
	// ReversalOf references the original entry when Type is reversal;
	// ReversedBy points the other way on the original.
	ReversalOf id.EntryID `json:"reversal_of,omitempty"`
	ReversedBy id.EntryID `json:"reversed_by,omitempty"`
}

// Line is one row of an entry. Exactly one of debit/credit is non-zero in
// a well-formed line; both are always ≥ 0.
type Line struct {
	ID           id.LineID       `json:"id"`
	EntryID      id.EntryID      `json:"entry_id"`
	LineNumber   int             `json:"line_number"`
	AccountID    id.AccountID    `json:"account_id"`
	Debit        decimal.Decimal `json:"debit"`
	Credit       decimal.Decimal `json:"credit"`
	Description  string          `json:"description,omitempty"`
	CostCenter   string          `json:"cost_center,omitempty"`
	ProfitCenter string          `json:"profit_center,omitempty"`
}

// Totals recomputes the entry's debit and credit sums from its lines.
func (e *Entry) Totals() (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Balanced reports whether debits equal credits within the engine epsilon.
func (e *Entry) Balanced() bool {
	debit, credit := e.Totals()
	return types.WithinEpsilon(debit, credit)
}

// LineInput describes one requested line at entry creation.
type LineInput struct {
	AccountID    id.AccountID
	Debit        decimal.Decimal
	Credit       decimal.Decimal
	Description  string
	CostCenter   string
	ProfitCenter string
}

// CreateInput describes a requested journal entry.
type CreateInput struct {
	Scope        types.Scope
	EntryDate    time.Time
	PostingDate  time.Time
	Type         EntryType
	Description  string
	CurrencyCode string
	ExchangeRate decimal.Decimal
	Lines        []LineInput
	CreatedBy    string
}

// ListOpts filters entry queries.
type ListOpts struct {
	Status    Status
	Type      EntryType
	StartDate time.Time
	EndDate   time.Time
	Limit     int
	Offset    int
}
