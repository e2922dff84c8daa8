package gl_test

import (
	"context"
	"log"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl"
	"github.com/finlane/gl/account"
	"github.com/finlane/gl/accrual"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/report"
	"github.com/finlane/gl/store/memory"
	"github.com/finlane/gl/types"
)

// TestDocumentationExamples verifies that the examples in the package
// documentation compile and run.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Create store (memory for demo, use SQLite in production)
		store := memory.New()

		// Create the engine
		l := gl.New(store,
			gl.WithLogger(slog.Default()),
			gl.WithRetryConfig(3, 10*time.Millisecond),
		)

		// Start it (runs migrations, initializes plugins)
		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		// Every entity lives inside a scope
		scope := gl.NewScope("agency_42")

		// Periods gate posting by date
		p := &period.FinancialPeriod{
			Scope:      scope,
			Name:       "2026-01",
			StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
			FiscalYear: 2026,
		}
		if err := l.CreatePeriod(ctx, p); err != nil {
			t.Fatal(err)
		}

		// A minimal chart of accounts
		cash := &account.Account{
			Scope: scope, Code: "1000", Name: "Cash",
			Type: account.TypeAsset, Category: account.CategoryCurrentAsset, Currency: "USD",
		}
		revenue := &account.Account{
			Scope: scope, Code: "4000", Name: "Service Revenue",
			Type: account.TypeRevenue, Category: account.CategoryOperatingRevenue, Currency: "USD",
		}
		prepaid := &account.Account{
			Scope: scope, Code: "1400", Name: "Prepaid Insurance",
			Type: account.TypeAsset, Category: account.CategoryCurrentAsset, Currency: "USD",
		}
		expense := &account.Account{
			Scope: scope, Code: "6000", Name: "Insurance Expense",
			Type: account.TypeExpense, Category: account.CategoryOperatingExpense, Currency: "USD",
		}
		for _, a := range []*account.Account{cash, revenue, prepaid, expense} {
			if err := l.CreateAccount(ctx, a); err != nil {
				t.Fatal(err)
			}
		}

		// Journal entries move through an explicit state machine
		e, err := l.CreateEntry(ctx, journal.CreateInput{
			Scope:        scope,
			PostingDate:  time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			Description:  "January services invoiced",
			CurrencyCode: "USD",
			CreatedBy:    "bookkeeper",
			Lines: []journal.LineInput{
				{AccountID: cash.ID, Debit: decimal.NewFromInt(500)},
				{AccountID: revenue.ID, Credit: decimal.NewFromInt(500)},
			},
		})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := l.SubmitEntry(ctx, e.ID, "bookkeeper"); err != nil {
			t.Fatal(err)
		}
		if _, err := l.ApproveEntry(ctx, e.ID, "controller"); err != nil {
			t.Fatal(err)
		}
		e, err = l.PostEntry(ctx, e.ID, "controller")
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("posted %s\n", e.DocumentNumber)

		// Accruals recognize an amount one schedule item at a time
		a, err := l.CreateAccrual(ctx, accrual.CreateInput{
			Scope:                   scope,
			Type:                    accrual.TypePrepaidExpense,
			Description:             "Q1 insurance premium",
			CurrencyCode:            "USD",
			OriginalAmount:          decimal.NewFromInt(90),
			TotalPeriods:            3,
			StartDate:               time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
			EndDate:                 time.Date(2026, 4, 5, 0, 0, 0, 0, time.UTC),
			AccrualAccountID:        prepaid.ID,
			ExpenseRevenueAccountID: expense.ID,
			CreatedBy:               "bookkeeper",
		})
		if err != nil {
			t.Fatal(err)
		}
		entry, err := l.RecognizeAccrual(ctx, a.ID, accrual.RecognizeOpts{RecognizedBy: "bookkeeper"})
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("recognized via %s\n", entry.DocumentNumber)

		// Reports apply the sign conventions at presentation time
		tb, err := l.TrialBalance(ctx, scope, p.ID, report.Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !tb.Balanced {
			t.Fatalf("trial balance out of balance: %s vs %s", tb.TotalDebit, tb.TotalCredit)
		}
	})

	t.Run("DecimalHelperExamples", func(t *testing.T) {
		a := decimal.RequireFromString("100.004")
		b := decimal.NewFromInt(100)

		if !types.WithinEpsilon(a, b) {
			t.Error("sub-cent difference should be within epsilon")
		}
		if types.IsZeroish(decimal.NewFromInt(1)) {
			t.Error("1 is not zeroish")
		}
		sum := types.SumDecimals([]decimal.Decimal{a, b})
		if sum.LessThan(decimal.NewFromInt(200)) {
			t.Errorf("sum = %s", sum)
		}
	})
}
