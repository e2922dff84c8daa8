package gl

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/types"
)

// ──────────────────────────────────────────────────
// Accrual Lifecycle
// ──────────────────────────────────────────────────

// CreateAccrual creates an accrual with its full recognition schedule.
// The schedule reconciles exactly against the original amount.
func (l *Ledger) CreateAccrual(ctx context.Context, in accrual.CreateInput) (*accrual.Accrual, error) {
	if in.Scope.IsZero() {
		return nil, ValidationError("accrual scope is required")
	}
	if in.Type == "" {
		return nil, ValidationError("accrual type is required")
	}
	if in.CurrencyCode == "" {
		return nil, ValidationError("accrual currency code is required")
	}
	if !in.OriginalAmount.IsPositive() {
		return nil, ValidationError("accrual amount must be positive")
	}
	if in.TotalPeriods < 1 {
		return nil, ValidationError("accrual requires at least one period")
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return nil, ValidationError("accrual start and end dates are required")
	}
	if !in.EndDate.After(in.StartDate) {
		return nil, ValidationError("accrual end date must follow the start date")
	}
	if in.AccrualAccountID.IsNil() || in.ExpenseRevenueAccountID.IsNil() {
		return nil, ValidationError("accrual and expense/revenue accounts are required")
	}
	for _, accountID := range []id.AccountID{in.AccrualAccountID, in.ExpenseRevenueAccountID} {
		acct, err := l.store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		if acct.Archived {
			return nil, ErrAccountArchived
		}
	}

	method := in.Method
	if method == "" {
		method = accrual.MethodStraightLine
	}

	a := &accrual.Accrual{
		Entity:                  types.NewEntity(),
		ID:                      id.NewAccrualID(),
		Scope:                   in.Scope,
		Type:                    in.Type,
		Description:             in.Description,
		Memo:                    in.Memo,
		CurrencyCode:            in.CurrencyCode,
		OriginalAmount:          in.OriginalAmount,
		RecognizedAmount:        decimal.Zero,
		RemainingAmount:         in.OriginalAmount,
		TotalPeriods:            in.TotalPeriods,
		Method:                  method,
		StartDate:               in.StartDate,
		EndDate:                 in.EndDate,
		AccrualAccountID:        in.AccrualAccountID,
		ExpenseRevenueAccountID: in.ExpenseRevenueAccountID,
		Status:                  accrual.StatusActive,
		CreatedBy:               in.CreatedBy,
	}
	a.Schedule = accrual.BuildSchedule(in.OriginalAmount, in.TotalPeriods, method, in.StartDate)
	for i := range a.Schedule {
		a.Schedule[i].ID = id.NewScheduleItemID()
		a.Schedule[i].AccrualID = a.ID
	}

	if err := l.store.CreateAccrual(ctx, a); err != nil {
		return nil, err
	}

	l.plugins.EmitAccrualCreated(ctx, a)
	l.logger.Info("accrual created",
		"accrual_id", a.ID.String(),
		"type", string(a.Type),
		"amount", a.OriginalAmount.String(),
		"periods", a.TotalPeriods,
	)
	return a, nil
}

// GetAccrual retrieves an accrual with its schedule.
func (l *Ledger) GetAccrual(ctx context.Context, accrualID id.AccrualID) (*accrual.Accrual, error) {
	return l.store.GetAccrual(ctx, accrualID)
}

// ListAccruals lists accruals within a scope.
func (l *Ledger) ListAccruals(ctx context.Context, scope types.Scope, opts accrual.ListOpts) ([]*accrual.Accrual, error) {
	return l.store.ListAccruals(ctx, scope, opts)
}

// UpdateAccrual edits the descriptive fields of an active accrual.
// Amounts, schedule, and accounts are fixed after creation.
func (l *Ledger) UpdateAccrual(ctx context.Context, accrualID id.AccrualID, in accrual.UpdateInput) (*accrual.Accrual, error) {
	a, err := l.store.GetAccrual(ctx, accrualID)
	if err != nil {
		return nil, err
	}
	if a.Status != accrual.StatusActive {
		return nil, ValidationError("only active accruals can be updated")
	}

	if in.Description != nil {
		a.Description = *in.Description
	}
	if in.Memo != nil {
		a.Memo = *in.Memo
	}
	a.Touch()

	if err := l.store.UpdateAccrual(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// RecognizeAccrual recognizes one schedule item by generating, approving,
// and posting a recognition journal entry, then folding the recognized
// amount back into the accrual. Zero-valued opts select the earliest
// pending item on its scheduled date for its scheduled amount.
func (l *Ledger) RecognizeAccrual(ctx context.Context, accrualID id.AccrualID, opts accrual.RecognizeOpts) (*journal.Entry, error) {
	a, err := l.store.GetAccrual(ctx, accrualID)
	if err != nil {
		return nil, err
	}
	if a.Status != accrual.StatusActive {
		return nil, ValidationError("accrual is %s, not active", string(a.Status))
	}

	var item *accrual.ScheduleItem
	if opts.PeriodNumber > 0 {
		item = a.Item(opts.PeriodNumber)
		if item == nil {
			return nil, ValidationError("accrual has no period %d", opts.PeriodNumber)
		}
		if item.Status == accrual.ItemRecognized {
			return nil, ErrPeriodAlreadyRecognized
		}
		if item.Status != accrual.ItemPending {
			return nil, ValidationError("period %d is %s", opts.PeriodNumber, string(item.Status))
		}
	} else {
		item = a.NextPending()
		if item == nil {
			return nil, ErrNoPendingPeriods
		}
	}

	amount := opts.Amount
	if amount.IsZero() {
		amount = item.ScheduledAmount
	}
	if !amount.IsPositive() {
		return nil, ValidationError("recognition amount must be positive")
	}
	// A custom amount may not exceed the item's scheduled amount plus any
	// slack carried from under-recognized earlier periods.
	slack := decimal.Zero
	for _, it := range a.Schedule {
		if it.Status == accrual.ItemRecognized {
			slack = slack.Add(it.ScheduledAmount.Sub(it.RecognizedAmount))
		}
	}
	if allowed := item.ScheduledAmount.Add(slack); amount.GreaterThan(allowed) {
		return nil, ValidationError("recognition amount %s exceeds scheduled %s plus carried slack",
			amount.String(), allowed.String())
	}

	postingDate := opts.PostingDate
	if postingDate.IsZero() {
		postingDate = item.PeriodDate
	}

	// Expense-type accruals debit expense/revenue and credit the accrual
	// account; revenue-type accruals run the opposite way.
	debitAccount, creditAccount := a.ExpenseRevenueAccountID, a.AccrualAccountID
	if !a.Type.IsExpense() {
		debitAccount, creditAccount = a.AccrualAccountID, a.ExpenseRevenueAccountID
	}

	entry, err := l.CreateEntry(ctx, journal.CreateInput{
		Scope:        a.Scope,
		EntryDate:    postingDate,
		PostingDate:  postingDate,
		Type:         journal.EntryTypeRecognition,
		Description:  recognitionDescription(a, item),
		CurrencyCode: a.CurrencyCode,
		CreatedBy:    opts.RecognizedBy,
		Lines: []journal.LineInput{
			{AccountID: debitAccount, Debit: amount},
			{AccountID: creditAccount, Credit: amount},
		},
	})
	if err != nil {
		return nil, err
	}
	// If the workflow dies before the entry posts, void the entry so a
	// failed recognition leaves nothing behind.
	discard := func(cause error) error {
		if _, verr := l.VoidEntry(ctx, entry.ID, opts.RecognizedBy); verr != nil {
			l.logger.Warn("could not void abandoned recognition entry",
				"entry_id", entry.ID.String(),
				"error", verr,
			)
		}
		return cause
	}
	if _, err := l.SubmitEntry(ctx, entry.ID, opts.RecognizedBy); err != nil {
		return nil, discard(err)
	}
	if _, err := l.ApproveEntry(ctx, entry.ID, opts.RecognizedBy); err != nil {
		return nil, discard(err)
	}
	entry, err = l.PostEntry(ctx, entry.ID, opts.RecognizedBy)
	if err != nil {
		return nil, discard(err)
	}

	now := l.now()
	item.Status = accrual.ItemRecognized
	item.RecognizedAmount = amount
	item.EntryID = entry.ID
	item.RecognizedAt = &now

	a.RecognizedAmount = a.RecognizedAmount.Add(amount)
	a.RemainingAmount = a.OriginalAmount.Sub(a.RecognizedAmount)
	a.RecognizedPeriods++
	if types.IsZeroish(a.RemainingAmount) || a.NextPending() == nil {
		a.Status = accrual.StatusFullyRecognized
	}
	a.Touch()

	if err := l.store.UpdateAccrual(ctx, a); err != nil {
		return nil, err
	}

	l.plugins.EmitAccrualRecognized(ctx, a, item, entry)
	l.logger.Info("accrual recognized",
		"accrual_id", a.ID.String(),
		"period", item.PeriodNumber,
		"amount", amount.String(),
		"entry_id", entry.ID.String(),
		"remaining", a.RemainingAmount.String(),
	)
	return entry, nil
}

// VoidAccrual cancels an accrual with no recognized periods, voiding
// every pending schedule item.
func (l *Ledger) VoidAccrual(ctx context.Context, accrualID id.AccrualID, actor string) (*accrual.Accrual, error) {
	a, err := l.store.GetAccrual(ctx, accrualID)
	if err != nil {
		return nil, err
	}
	if a.Status == accrual.StatusVoid {
		return a, nil
	}
	if a.RecognizedPeriods > 0 || !a.RecognizedAmount.IsZero() {
		return nil, ErrHasRecognizedPeriods
	}

	a.Status = accrual.StatusVoid
	for i := range a.Schedule {
		if a.Schedule[i].Status == accrual.ItemPending {
			a.Schedule[i].Status = accrual.ItemVoid
		}
	}
	a.Touch()

	if err := l.store.UpdateAccrual(ctx, a); err != nil {
		return nil, err
	}

	l.plugins.EmitAccrualVoided(ctx, a)
	l.logger.Info("accrual voided", "accrual_id", a.ID.String(), "voided_by", actor)
	return a, nil
}

func recognitionDescription(a *accrual.Accrual, item *accrual.ScheduleItem) string {
	return fmt.Sprintf("Recognition %d/%d: %s", item.PeriodNumber, a.TotalPeriods, a.Description)
}
