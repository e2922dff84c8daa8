// Package account defines the chart of accounts and per-period balances.
package account

import (
	"github.com/shopspring/decimal"

	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

// Type classifies an account and determines its normal balance side.
type Type string

const (
	TypeAsset     Type = "asset"
	TypeLiability Type = "liability"
	TypeEquity    Type = "equity"
	TypeRevenue   Type = "revenue"
	TypeExpense   Type = "expense"
)

// Side is a debit/credit marker.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// NormalSide returns the side on which the account type naturally
// accumulates a positive balance: assets and expenses are debit-normal,
// everything else is credit-normal.
func (t Type) NormalSide() Side {
	switch t {
	case TypeAsset, TypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Category refines an account type for statement sectioning.
type Category string

const (
	CategoryCurrentAsset      Category = "current_asset"
	CategoryFixedAsset        Category = "fixed_asset"
	CategoryOtherAsset        Category = "other_asset"
	CategoryCurrentLiability  Category = "current_liability"
	CategoryLongTermLiability Category = "long_term_liability"
	CategoryEquity            Category = "equity"
	CategoryOperatingRevenue  Category = "operating_revenue"
	CategoryOtherRevenue      Category = "other_revenue"
	CategoryCostOfGoodsSold   Category = "cost_of_goods_sold"
	CategoryOperatingExpense  Category = "operating_expense"
	CategoryOtherExpense      Category = "other_expense"
)

// Account is one entry in the chart of accounts. Once a posted line
// references it the account is immutable; retire it with a soft archive.
type Account struct {
	types.Entity
	ID          id.AccountID `json:"id"`
	Scope       types.Scope  `json:"scope"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Type        Type         `json:"type"`
	Category    Category     `json:"category"`
	Path        string       `json:"path"`  // hierarchical, colon-separated
	Level       int          `json:"level"` // depth in the hierarchy, root = 1
	Currency    string       `json:"currency"`
	Description string       `json:"description,omitempty"`
	Archived    bool         `json:"archived"`
}

// Balance is one row per (period, account, currency). Amounts are stored
// debit-positive regardless of account type; the sign convention of the
// normal side is applied only at report time.
type Balance struct {
	types.Entity
	ID             id.BalanceID    `json:"id"`
	Scope          types.Scope     `json:"scope"`
	PeriodID       id.PeriodID     `json:"period_id"`
	AccountID      id.AccountID    `json:"account_id"`
	Currency       string          `json:"currency"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	DebitTotal     decimal.Decimal `json:"debit_total"`
	CreditTotal    decimal.Decimal `json:"credit_total"`
}

// Delta is the movement one posted line applies to a balance row. The
// store folds it in as an increment, never as a row overwrite, so
// concurrent postings against the same row cannot lose updates.
type Delta struct {
	PeriodID  id.PeriodID
	AccountID id.AccountID
	Currency  string
	Debit     decimal.Decimal
	Credit    decimal.Decimal
}

// Net returns the debit-positive movement: debit − credit.
func (d Delta) Net() decimal.Decimal {
	return d.Debit.Sub(d.Credit)
}
