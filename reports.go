package gl

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl/account"
	"github.com/finlane/gl/id"
	"github.com/finlane/gl/report"
	"github.com/finlane/gl/types"
)

// Report kind tags passed to the OnReportGenerated hook.
const (
	ReportTrialBalance    = "trial_balance"
	ReportBalanceSheet    = "balance_sheet"
	ReportIncomeStatement = "income_statement"
	ReportGeneralLedger   = "general_ledger"
)

// accountNet pairs an account with its aggregated debit-positive closing
// balance across currencies for one period.
type accountNet struct {
	account *account.Account
	net     decimal.Decimal
}

// periodNets folds the period's balance rows into one debit-positive net
// per account, sorted by account code.
func (l *Ledger) periodNets(ctx context.Context, scope types.Scope, periodID id.PeriodID) ([]accountNet, error) {
	balances, err := l.store.ListBalances(ctx, periodID)
	if err != nil {
		return nil, err
	}

	nets := make(map[string]decimal.Decimal)
	for _, b := range balances {
		if b.Scope != scope {
			continue
		}
		key := b.AccountID.String()
		nets[key] = nets[key].Add(b.ClosingBalance)
	}

	out := make([]accountNet, 0, len(nets))
	for key, net := range nets {
		accountID, err := id.ParseAccountID(key)
		if err != nil {
			return nil, err
		}
		acct, err := l.store.GetAccount(ctx, accountID)
		if err != nil {
			return nil, err
		}
		out = append(out, accountNet{account: acct, net: net})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].account.Code < out[j].account.Code })
	return out, nil
}

// TrialBalance reports every account's period-end balance in debit and
// credit columns. A debit-positive net lands in the debit column; a
// negative net lands in the credit column as its absolute value.
func (l *Ledger) TrialBalance(ctx context.Context, scope types.Scope, periodID id.PeriodID, opts report.Options) (*report.TrialBalance, error) {
	if _, err := l.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	nets, err := l.periodNets(ctx, scope, periodID)
	if err != nil {
		return nil, err
	}

	tb := &report.TrialBalance{
		Scope:       scope,
		PeriodID:    periodID,
		GeneratedAt: l.now(),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for _, n := range nets {
		if n.net.IsZero() && !opts.IncludeZero {
			continue
		}
		row := report.TrialBalanceRow{
			AccountID:   n.account.ID,
			AccountCode: n.account.Code,
			AccountName: n.account.Name,
			AccountType: n.account.Type,
			Debit:       decimal.Zero,
			Credit:      decimal.Zero,
		}
		if n.net.IsNegative() {
			row.Credit = n.net.Abs()
		} else {
			row.Debit = n.net
		}
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
		tb.Rows = append(tb.Rows, row)
	}
	tb.Balanced = types.WithinEpsilon(tb.TotalDebit, tb.TotalCredit)

	l.plugins.EmitReportGenerated(ctx, ReportTrialBalance, scope)
	return tb, nil
}

// BalanceSheet sections asset, liability, and equity balances for a
// period. Amounts are presented in each account's natural magnitude:
// debit-normal accounts show their net as-is, credit-normal accounts
// show its negation.
func (l *Ledger) BalanceSheet(ctx context.Context, scope types.Scope, periodID id.PeriodID, opts report.Options) (*report.BalanceSheet, error) {
	if _, err := l.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	nets, err := l.periodNets(ctx, scope, periodID)
	if err != nil {
		return nil, err
	}

	bs := &report.BalanceSheet{
		Scope:            scope,
		PeriodID:         periodID,
		GeneratedAt:      l.now(),
		TotalAssets:      decimal.Zero,
		TotalLiabilities: decimal.Zero,
		TotalEquity:      decimal.Zero,
	}
	for _, n := range nets {
		if n.net.IsZero() && !opts.IncludeZero {
			continue
		}
		row := report.StatementRow{
			AccountID:   n.account.ID,
			AccountCode: n.account.Code,
			AccountName: n.account.Name,
			Amount:      naturalAmount(n.account.Type, n.net),
		}
		switch n.account.Type {
		case account.TypeAsset:
			bs.TotalAssets = bs.TotalAssets.Add(row.Amount)
			switch n.account.Category {
			case account.CategoryFixedAsset:
				bs.FixedAssets = append(bs.FixedAssets, row)
			case account.CategoryOtherAsset:
				bs.OtherAssets = append(bs.OtherAssets, row)
			default:
				bs.CurrentAssets = append(bs.CurrentAssets, row)
			}
		case account.TypeLiability:
			bs.TotalLiabilities = bs.TotalLiabilities.Add(row.Amount)
			if n.account.Category == account.CategoryLongTermLiability {
				bs.LongTermLiabilities = append(bs.LongTermLiabilities, row)
			} else {
				bs.CurrentLiabilities = append(bs.CurrentLiabilities, row)
			}
		case account.TypeEquity:
			bs.TotalEquity = bs.TotalEquity.Add(row.Amount)
			bs.Equity = append(bs.Equity, row)
		}
	}
	bs.Balanced = types.WithinEpsilon(bs.TotalAssets, bs.TotalLiabilities.Add(bs.TotalEquity))

	l.plugins.EmitReportGenerated(ctx, ReportBalanceSheet, scope)
	return bs, nil
}

// IncomeStatement sections revenue and expense balances for a period and
// derives gross profit and net income.
func (l *Ledger) IncomeStatement(ctx context.Context, scope types.Scope, periodID id.PeriodID, opts report.Options) (*report.IncomeStatement, error) {
	if _, err := l.store.GetPeriod(ctx, periodID); err != nil {
		return nil, err
	}
	nets, err := l.periodNets(ctx, scope, periodID)
	if err != nil {
		return nil, err
	}

	is := &report.IncomeStatement{
		Scope:         scope,
		PeriodID:      periodID,
		GeneratedAt:   l.now(),
		TotalRevenue:  decimal.Zero,
		TotalCOGS:     decimal.Zero,
		TotalExpenses: decimal.Zero,
	}
	for _, n := range nets {
		if n.net.IsZero() && !opts.IncludeZero {
			continue
		}
		row := report.StatementRow{
			AccountID:   n.account.ID,
			AccountCode: n.account.Code,
			AccountName: n.account.Name,
			Amount:      naturalAmount(n.account.Type, n.net),
		}
		switch n.account.Type {
		case account.TypeRevenue:
			is.TotalRevenue = is.TotalRevenue.Add(row.Amount)
			is.Revenue = append(is.Revenue, row)
		case account.TypeExpense:
			if n.account.Category == account.CategoryCostOfGoodsSold {
				is.TotalCOGS = is.TotalCOGS.Add(row.Amount)
				is.CostOfGoodsSold = append(is.CostOfGoodsSold, row)
			} else {
				is.TotalExpenses = is.TotalExpenses.Add(row.Amount)
				is.Expenses = append(is.Expenses, row)
			}
		}
	}
	is.GrossProfit = is.TotalRevenue.Sub(is.TotalCOGS)
	is.NetIncome = is.GrossProfit.Sub(is.TotalExpenses)

	l.plugins.EmitReportGenerated(ctx, ReportIncomeStatement, scope)
	return is, nil
}

// GeneralLedgerReport produces the chronological posted-line trail for
// one account in [from, to], with a running balance in the account's
// natural sign.
func (l *Ledger) GeneralLedgerReport(ctx context.Context, scope types.Scope, accountID id.AccountID, from, to time.Time) (*report.GeneralLedger, error) {
	acct, err := l.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	lines, err := l.store.ListPostedLines(ctx, scope, accountID, from, to)
	if err != nil {
		return nil, err
	}

	rep := &report.GeneralLedger{
		Scope:          scope,
		AccountID:      accountID,
		AccountCode:    acct.Code,
		AccountName:    acct.Name,
		StartDate:      from,
		EndDate:        to,
		GeneratedAt:    l.now(),
		ClosingBalance: decimal.Zero,
	}
	running := decimal.Zero
	for _, pl := range lines {
		movement := pl.Debit.Sub(pl.Credit)
		if acct.Type.NormalSide() == account.SideCredit {
			movement = movement.Neg()
		}
		running = running.Add(movement)
		rep.Rows = append(rep.Rows, report.GeneralLedgerRow{
			EntryID:        pl.EntryID,
			DocumentNumber: pl.DocumentNumber,
			PostingDate:    pl.PostingDate,
			Description:    lineDescription(pl.Description, pl.EntryDesc),
			Debit:          pl.Debit,
			Credit:         pl.Credit,
			RunningBalance: running,
		})
	}
	rep.ClosingBalance = running

	l.plugins.EmitReportGenerated(ctx, ReportGeneralLedger, scope)
	return rep, nil
}

// naturalAmount converts a debit-positive net into the account's natural
// magnitude: credit-normal accounts flip sign.
func naturalAmount(t account.Type, net decimal.Decimal) decimal.Decimal {
	if t.NormalSide() == account.SideCredit {
		return net.Neg()
	}
	return net
}

// lineDescription prefers the line's own description over the entry's.
func lineDescription(line, entry string) string {
	if line != "" {
		return line
	}
	return entry
}
