// Package report defines the statutory report result types: trial
// balance, balance sheet, income statement, and the single-account
// general ledger. One concrete type per report kind, so consumers get
// compile-time exhaustiveness instead of an untyped payload.
package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/types"
)

// Options tunes report generation.
type Options struct {
	// IncludeZero keeps rows whose balance is zero. Off by default.
	IncludeZero bool
}

// TrialBalance lists every account's period-end balance split into debit
// and credit columns under normal-side sign conventions.
type TrialBalance struct {
	Scope       types.Scope       `json:"scope"`
	PeriodID    id.PeriodID       `json:"period_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

type TrialBalanceRow struct {
	AccountID   id.AccountID    `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	AccountType account.Type    `json:"account_type"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// BalanceSheet partitions asset, liability, and equity balances into
// statement sections.
type BalanceSheet struct {
	Scope               types.Scope     `json:"scope"`
	PeriodID            id.PeriodID     `json:"period_id"`
	GeneratedAt         time.Time       `json:"generated_at"`
	CurrentAssets       []StatementRow  `json:"current_assets"`
	FixedAssets         []StatementRow  `json:"fixed_assets"`
	OtherAssets         []StatementRow  `json:"other_assets"`
	CurrentLiabilities  []StatementRow  `json:"current_liabilities"`
	LongTermLiabilities []StatementRow  `json:"long_term_liabilities"`
	Equity              []StatementRow  `json:"equity"`
	TotalAssets         decimal.Decimal `json:"total_assets"`
	TotalLiabilities    decimal.Decimal `json:"total_liabilities"`
	TotalEquity         decimal.Decimal `json:"total_equity"`
	Balanced            bool            `json:"balanced"`
}

// StatementRow is one account line in a statement section, presented in
// the account's natural magnitude.
type StatementRow struct {
	AccountID   id.AccountID    `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// IncomeStatement partitions revenue and expense balances and derives
// gross profit and net income.
type IncomeStatement struct {
	Scope           types.Scope     `json:"scope"`
	PeriodID        id.PeriodID     `json:"period_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Revenue         []StatementRow  `json:"revenue"`
	CostOfGoodsSold []StatementRow  `json:"cost_of_goods_sold"`
	Expenses        []StatementRow  `json:"expenses"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalCOGS       decimal.Decimal `json:"total_cogs"`
	TotalExpenses   decimal.Decimal `json:"total_expenses"`
	GrossProfit     decimal.Decimal `json:"gross_profit"`
	NetIncome       decimal.Decimal `json:"net_income"`
}

// GeneralLedger is the chronological audit trail for one account with a
// running balance, the substrate under the aggregate reports.
type GeneralLedger struct {
	Scope          types.Scope        `json:"scope"`
	AccountID      id.AccountID       `json:"account_id"`
	AccountCode    string             `json:"account_code"`
	AccountName    string             `json:"account_name"`
	StartDate      time.Time          `json:"start_date"`
	EndDate        time.Time          `json:"end_date"`
	GeneratedAt    time.Time          `json:"generated_at"`
	Rows           []GeneralLedgerRow `json:"rows"`
	ClosingBalance decimal.Decimal    `json:"closing_balance"`
}

type GeneralLedgerRow struct {
	EntryID        id.EntryID      `json:"entry_id"`
	DocumentNumber string          `json:"document_number"`
	PostingDate    time.Time       `json:"posting_date"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}
