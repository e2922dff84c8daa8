package gl

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/numbering"
	"github.com/finlane/gl/types"
)

// Journal entries draw from one yearly-resetting number range.
const (
	entryRangeKey     = "JE"
	entryNumberFormat = "JE-{YYYY}-{######}"
)

// ──────────────────────────────────────────────────
// Journal Entry Lifecycle
// ──────────────────────────────────────────────────

// CreateEntry creates a draft journal entry from validated input. The
// entry must carry at least two lines, every line exactly one side, and
// debits must equal credits within the engine epsilon.
func (l *Ledger) CreateEntry(ctx context.Context, in journal.CreateInput) (*journal.Entry, error) {
	if in.Scope.IsZero() {
		return nil, ValidationError("entry scope is required")
	}
	if in.CurrencyCode == "" {
		return nil, ValidationError("entry currency code is required")
	}
	if err := l.validateLines(ctx, in.Scope, in.Lines); err != nil {
		return nil, err
	}

	now := l.now()
	entryDate := in.EntryDate
	if entryDate.IsZero() {
		entryDate = now
	}
	postingDate := in.PostingDate
	if postingDate.IsZero() {
		postingDate = entryDate
	}
	entryType := in.Type
	if entryType == "" {
		entryType = journal.EntryTypeManual
	}
	rate := in.ExchangeRate
	if rate.IsZero() {
		rate = decimal.NewFromInt(1)
	}

	e := &journal.Entry{
		Entity:       types.NewEntity(),
		ID:           id.NewEntryID(),
		Scope:        in.Scope,
		EntryDate:    entryDate,
		PostingDate:  postingDate,
		Type:         entryType,
		Description:  in.Description,
		CurrencyCode: in.CurrencyCode,
		ExchangeRate: rate,
		Status:       journal.StatusDraft,
		CreatedBy:    in.CreatedBy,
	}
	e.Lines = buildLines(e.ID, in.Lines)
	e.TotalDebit, e.TotalCredit = e.Totals()

	if err := l.store.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	l.plugins.EmitEntryCreated(ctx, e)
	l.logger.Debug("entry created",
		"entry_id", e.ID.String(),
		"type", string(e.Type),
		"total_debit", e.TotalDebit.String(),
	)
	return e, nil
}

// GetEntry retrieves an entry by ID.
func (l *Ledger) GetEntry(ctx context.Context, entryID id.EntryID) (*journal.Entry, error) {
	return l.store.GetEntry(ctx, entryID)
}

// ListEntries lists entries within a scope.
func (l *Ledger) ListEntries(ctx context.Context, scope types.Scope, opts journal.ListOpts) ([]*journal.Entry, error) {
	return l.store.ListEntries(ctx, scope, opts)
}

// UpdateEntry replaces the mutable fields of a draft or rejected entry.
// Lines are revalidated and totals recomputed; status is untouched — a
// rejected entry returns to draft only through ReviseEntry.
func (l *Ledger) UpdateEntry(ctx context.Context, e *journal.Entry) error {
	existing, err := l.store.GetEntry(ctx, e.ID)
	if err != nil {
		return err
	}
	if existing.Status != journal.StatusDraft && existing.Status != journal.StatusRejected {
		return ErrEntryImmutable
	}

	inputs := make([]journal.LineInput, len(e.Lines))
	for i, ln := range e.Lines {
		inputs[i] = journal.LineInput{
			AccountID:    ln.AccountID,
			Debit:        ln.Debit,
			Credit:       ln.Credit,
			Description:  ln.Description,
			CostCenter:   ln.CostCenter,
			ProfitCenter: ln.ProfitCenter,
		}
	}
	if err := l.validateLines(ctx, existing.Scope, inputs); err != nil {
		return err
	}

	e.Scope = existing.Scope
	e.Status = existing.Status
	e.CreatedAt = existing.CreatedAt
	e.Lines = buildLines(e.ID, inputs)
	e.TotalDebit, e.TotalCredit = e.Totals()
	e.Touch()

	return l.store.UpdateEntry(ctx, e)
}

// SubmitEntry moves a draft entry into the approval queue, re-validating
// balance first.
func (l *Ledger) SubmitEntry(ctx context.Context, entryID id.EntryID, actor string) (*journal.Entry, error) {
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusSubmitted) {
		return nil, TransitionError(string(e.Status), string(journal.StatusSubmitted))
	}
	if !e.Balanced() {
		return nil, ErrUnbalancedEntry
	}

	from := e.Status
	e.Status = journal.StatusSubmitted
	e.SubmittedBy = actor
	e.Touch()

	if err := l.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	return e, nil
}

// ApproveEntry approves a submitted entry for posting.
func (l *Ledger) ApproveEntry(ctx context.Context, entryID id.EntryID, actor string) (*journal.Entry, error) {
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusApproved) {
		return nil, TransitionError(string(e.Status), string(journal.StatusApproved))
	}

	from := e.Status
	e.Status = journal.StatusApproved
	e.ApprovedBy = actor
	e.Touch()

	if err := l.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	return e, nil
}

// RejectEntry sends a submitted entry back with a mandatory reason.
func (l *Ledger) RejectEntry(ctx context.Context, entryID id.EntryID, actor, reason string) (*journal.Entry, error) {
	if reason == "" {
		return nil, ValidationError("rejection reason is required")
	}
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusRejected) {
		return nil, TransitionError(string(e.Status), string(journal.StatusRejected))
	}

	from := e.Status
	e.Status = journal.StatusRejected
	e.RejectedBy = actor
	e.RejectionReason = reason
	e.Touch()

	if err := l.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	return e, nil
}

// ReviseEntry returns a rejected entry to draft for editing and
// resubmission. The rejection audit fields are cleared.
func (l *Ledger) ReviseEntry(ctx context.Context, entryID id.EntryID) (*journal.Entry, error) {
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusDraft) {
		return nil, TransitionError(string(e.Status), string(journal.StatusDraft))
	}

	from := e.Status
	e.Status = journal.StatusDraft
	e.RejectedBy = ""
	e.RejectionReason = ""
	e.SubmittedBy = ""
	e.Touch()

	if err := l.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	return e, nil
}

// PostEntry posts an approved entry: the posting date must fall in an
// open period, a document number is reserved if absent, and the status
// flip plus every balance delta commit atomically through the store.
func (l *Ledger) PostEntry(ctx context.Context, entryID id.EntryID, actor string) (*journal.Entry, error) {
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusPosted) {
		return nil, TransitionError(string(e.Status), string(journal.StatusPosted))
	}

	p, err := l.CanPost(ctx, e.Scope, e.PostingDate)
	if err != nil {
		return nil, err
	}

	if e.DocumentNumber == "" {
		number, err := l.ReserveDocumentNumber(ctx, e.Scope, entryRangeKey, entryNumberFormat, numbering.ResetYearly, e.PostingDate)
		if err != nil {
			return nil, err
		}
		e.DocumentNumber = number
	}

	from := e.Status
	now := l.now()
	e.Status = journal.StatusPosted
	e.PostedBy = actor
	e.PostedAt = &now
	e.PeriodID = p.ID
	e.Touch()

	if err := l.store.PostEntry(ctx, e, entryDeltas(e)); err != nil {
		return nil, err
	}

	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	l.plugins.EmitEntryPosted(ctx, e)
	l.logger.Info("entry posted",
		"entry_id", e.ID.String(),
		"document_number", e.DocumentNumber,
		"period_id", p.ID.String(),
		"total_debit", e.TotalDebit.String(),
	)
	return e, nil
}

// ReverseEntry corrects a posted entry by generating and posting an
// equal-and-opposite reversal entry, then marking the original reversed.
// The reversal posts on postingDate, or now when zero.
func (l *Ledger) ReverseEntry(ctx context.Context, entryID id.EntryID, actor string, postingDate time.Time) (*journal.Entry, error) {
	original, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if original.Status != journal.StatusPosted {
		return nil, ErrNotPosted
	}

	if postingDate.IsZero() {
		postingDate = l.now()
	}
	p, err := l.CanPost(ctx, original.Scope, postingDate)
	if err != nil {
		return nil, err
	}

	number, err := l.ReserveDocumentNumber(ctx, original.Scope, entryRangeKey, entryNumberFormat, numbering.ResetYearly, postingDate)
	if err != nil {
		return nil, err
	}

	now := l.now()
	reversal := &journal.Entry{
		Entity:         types.NewEntity(),
		ID:             id.NewEntryID(),
		Scope:          original.Scope,
		DocumentNumber: number,
		EntryDate:      postingDate,
		PostingDate:    postingDate,
		Type:           journal.EntryTypeReversal,
		Description:    "Reversal of " + original.DocumentNumber,
		CurrencyCode:   original.CurrencyCode,
		ExchangeRate:   original.ExchangeRate,
		Status:         journal.StatusApproved,
		CreatedBy:      actor,
		ApprovedBy:     actor,
		ReversalOf:     original.ID,
		PeriodID:       p.ID,
	}
	for _, ln := range original.Lines {
		reversal.Lines = append(reversal.Lines, journal.Line{
			ID:           id.NewLineID(),
			EntryID:      reversal.ID,
			LineNumber:   ln.LineNumber,
			AccountID:    ln.AccountID,
			Debit:        ln.Credit, // swapped
			Credit:       ln.Debit,
			Description:  ln.Description,
			CostCenter:   ln.CostCenter,
			ProfitCenter: ln.ProfitCenter,
		})
	}
	reversal.TotalDebit, reversal.TotalCredit = reversal.Totals()

	if err := l.store.CreateEntry(ctx, reversal); err != nil {
		return nil, err
	}

	reversal.Status = journal.StatusPosted
	reversal.PostedBy = actor
	reversal.PostedAt = &now
	reversal.Touch()
	if err := l.store.PostEntry(ctx, reversal, entryDeltas(reversal)); err != nil {
		return nil, err
	}

	original.Status = journal.StatusReversed
	original.ReversedBy = reversal.ID
	original.Touch()
	if err := l.store.UpdateEntry(ctx, original); err != nil {
		return nil, err
	}

	l.plugins.EmitEntryPosted(ctx, reversal)
	l.plugins.EmitEntryReversed(ctx, original, reversal)
	l.logger.Info("entry reversed",
		"entry_id", original.ID.String(),
		"reversal_id", reversal.ID.String(),
		"reversal_document", reversal.DocumentNumber,
	)
	return reversal, nil
}

// VoidEntry cancels an entry that never posted. Posted entries must go
// through ReverseEntry instead.
func (l *Ledger) VoidEntry(ctx context.Context, entryID id.EntryID, actor string) (*journal.Entry, error) {
	e, err := l.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !journal.CanTransition(e.Status, journal.StatusVoid) {
		return nil, TransitionError(string(e.Status), string(journal.StatusVoid))
	}

	from := e.Status
	e.Status = journal.StatusVoid
	e.VoidedBy = actor
	e.Touch()

	if err := l.store.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}
	l.plugins.EmitEntryStatusChanged(ctx, e, from, e.Status)
	l.plugins.EmitEntryVoided(ctx, e)
	return e, nil
}

// ──────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────

// validateLines enforces the line-shape rules: at least two lines, every
// amount non-negative, exactly one side per line, accounts live, and the
// whole set balanced within epsilon.
func (l *Ledger) validateLines(ctx context.Context, scope types.Scope, lines []journal.LineInput) error {
	if len(lines) < 2 {
		return ValidationError("entry requires at least two lines")
	}

	debit, credit := decimal.Zero, decimal.Zero
	for i, ln := range lines {
		if ln.Debit.IsNegative() || ln.Credit.IsNegative() {
			return ValidationError("line %d: amounts must be non-negative", i+1)
		}
		if ln.Debit.IsZero() == ln.Credit.IsZero() {
			return ValidationError("line %d: exactly one of debit or credit must be set", i+1)
		}
		acct, err := l.store.GetAccount(ctx, ln.AccountID)
		if err != nil {
			return err
		}
		if acct.Scope != scope {
			return ValidationError("line %d: account %s belongs to another scope", i+1, acct.Code)
		}
		if acct.Archived {
			return ErrAccountArchived
		}
		debit = debit.Add(ln.Debit)
		credit = credit.Add(ln.Credit)
	}

	if !types.WithinEpsilon(debit, credit) {
		return ErrUnbalancedEntry
	}
	return nil
}

func buildLines(entryID id.EntryID, inputs []journal.LineInput) []journal.Line {
	lines := make([]journal.Line, len(inputs))
	for i, in := range inputs {
		lines[i] = journal.Line{
			ID:           id.NewLineID(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			AccountID:    in.AccountID,
			Debit:        in.Debit,
			Credit:       in.Credit,
			Description:  in.Description,
			CostCenter:   in.CostCenter,
			ProfitCenter: in.ProfitCenter,
		}
	}
	return lines
}

// entryDeltas maps an entry's lines onto balance increments for its
// resolved period.
func entryDeltas(e *journal.Entry) []account.Delta {
	deltas := make([]account.Delta, len(e.Lines))
	for i, ln := range e.Lines {
		deltas[i] = account.Delta{
			PeriodID:  e.PeriodID,
			AccountID: ln.AccountID,
			Currency:  e.CurrencyCode,
			Debit:     ln.Debit,
			Credit:    ln.Credit,
		}
	}
	return deltas
}
