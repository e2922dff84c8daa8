// Package accrual defines accruals/deferrals and their recognition
// schedules.
package accrual

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

// Type determines which side of the recognition entry hits the accrual
// account. Expense-type accruals debit the expense/revenue account and
// credit the accrual account; revenue-type accruals do the reverse.
type Type string

const (
	TypeAccruedExpense  Type = "accrued_expense"
	TypeAccruedRevenue  Type = "accrued_revenue"
	TypePrepaidExpense  Type = "prepaid_expense"
	TypeDeferredRevenue Type = "deferred_revenue"
)

// IsExpense reports whether recognition debits the expense/revenue account.
func (t Type) IsExpense() bool {
	return t == TypeAccruedExpense || t == TypePrepaidExpense
}

// Method selects the per-period weighting of the recognition schedule.
type Method string

const (
	MethodStraightLine Method = "straight_line"
	MethodFrontLoaded  Method = "front_loaded"
	MethodBackLoaded   Method = "back_loaded"
	// MethodCustom generates a straight-line schedule at creation; the
	// per-period amounts may be hand-edited afterward by a separate path.
	MethodCustom Method = "custom"
)

type Status string

const (
	StatusActive          Status = "active"
	StatusFullyRecognized Status = "fully_recognized"
	StatusVoid            Status = "void"
)

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemRecognized ItemStatus = "recognized"
	ItemVoid       ItemStatus = "void"
)

// Accrual is a multi-period accrual or deferral. Its schedule moves
// OriginalAmount from the accrual (balance sheet) account into the
// expense/revenue (income statement) account one recognition at a time.
type Accrual struct {
	types.Entity
	ID                      id.AccrualID    `json:"id"`
	Scope                   types.Scope     `json:"scope"`
	Type                    Type            `json:"type"`
	Description             string          `json:"description"`
	Memo                    string          `json:"memo,omitempty"`
	CurrencyCode            string          `json:"currency_code"`
	OriginalAmount          decimal.Decimal `json:"original_amount"`
	RecognizedAmount        decimal.Decimal `json:"recognized_amount"`
	RemainingAmount         decimal.Decimal `json:"remaining_amount"`
	TotalPeriods            int             `json:"total_periods"`
	RecognizedPeriods       int             `json:"recognized_periods"`
	Method                  Method          `json:"method"`
	StartDate               time.Time       `json:"start_date"`
	EndDate                 time.Time       `json:"end_date"`
	AccrualAccountID        id.AccountID    `json:"accrual_account_id"`
	ExpenseRevenueAccountID id.AccountID    `json:"expense_revenue_account_id"`
	Status                  Status          `json:"status"`
	CreatedBy               string          `json:"created_by"`
	Schedule                []ScheduleItem  `json:"schedule"`
}

// ScheduleItem is one planned recognition. Recognized items keep a
// back-reference to the journal entry they produced.
type ScheduleItem struct {
	ID               id.ScheduleItemID `json:"id"`
	AccrualID        id.AccrualID      `json:"accrual_id"`
	PeriodNumber     int               `json:"period_number"` // 1-based
	PeriodDate       time.Time         `json:"period_date"`
	ScheduledAmount  decimal.Decimal   `json:"scheduled_amount"`
	RecognizedAmount decimal.Decimal   `json:"recognized_amount"`
	Status           ItemStatus        `json:"status"`
	EntryID          id.EntryID        `json:"entry_id,omitempty"`
	RecognizedAt     *time.Time        `json:"recognized_at,omitempty"`
}

// NextPending returns the earliest pending schedule item, or nil.
func (a *Accrual) NextPending() *ScheduleItem {
	for i := range a.Schedule {
		if a.Schedule[i].Status == ItemPending {
			return &a.Schedule[i]
		}
	}
	return nil
}

// Item returns the schedule item with the given 1-based period number.
func (a *Accrual) Item(periodNumber int) *ScheduleItem {
	for i := range a.Schedule {
		if a.Schedule[i].PeriodNumber == periodNumber {
			return &a.Schedule[i]
		}
	}
	return nil
}

// CreateInput describes a requested accrual.
type CreateInput struct {
	Scope                   types.Scope
	Type                    Type
	Description             string
	Memo                    string
	CurrencyCode            string
	OriginalAmount          decimal.Decimal
	TotalPeriods            int
	Method                  Method
	StartDate               time.Time
	EndDate                 time.Time
	AccrualAccountID        id.AccountID
	ExpenseRevenueAccountID id.AccountID
	CreatedBy               string
}

// RecognizeOpts selects and sizes one recognition. Zero values mean
// "earliest pending item, on its scheduled date, for its scheduled amount".
type RecognizeOpts struct {
	PeriodNumber int
	PostingDate  time.Time
	Amount       decimal.Decimal
	RecognizedBy string
}

// UpdateInput carries the fields that stay editable while active.
type UpdateInput struct {
	Description *string
	Memo        *string
}
