// Package gl provides an embeddable double-entry general ledger engine for Go applications.
//
// GL is designed as a library, not a service. Import it directly into your Go
// application and drive it through the Ledger façade. It provides:
//
//   - Balanced journal entries with a draft → submitted → approved → posted workflow
//   - Financial period lifecycle with posting gates (open, closed, locked)
//   - A scoped chart of accounts with per-period, per-currency balances
//   - Multi-period accrual and deferral recognition schedules
//   - Gap-free document numbering with configurable reset rules
//   - Trial balance, balance sheet, income statement, and general ledger reports
//   - Pluggable hooks for audit trails and downstream integration
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/finlane/gl"
//	    "github.com/finlane/gl/store/sqlite"
//	)
//
//	// Initialize store
//	store, err := sqlite.Open("ledger.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Create the engine
//	l := gl.New(store)
//
//	// Start it (runs migrations, initializes plugins)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Every entity lives inside a Scope — an agency, optionally narrowed to a
// sub-account. Periods gate posting by date:
//
//	p := &period.FinancialPeriod{
//	    Scope:     scope,
//	    Name:      "2026-01",
//	    StartDate: jan1,
//	    EndDate:   jan31,
//	}
//	err := l.CreatePeriod(ctx, p)
//
// Journal entries collect balanced debit/credit lines and move through an
// explicit state machine. Posting is the only transition that touches
// balances, and it is atomic:
//
//	e, err := l.CreateEntry(ctx, journal.CreateInput{
//	    Scope:        scope,
//	    CurrencyCode: "USD",
//	    Lines: []journal.LineInput{
//	        {AccountID: cash, Debit: decimal.NewFromInt(500)},
//	        {AccountID: revenue, Credit: decimal.NewFromInt(500)},
//	    },
//	})
//	e, err = l.SubmitEntry(ctx, e.ID, actor)
//	e, err = l.ApproveEntry(ctx, e.ID, actor)
//	e, err = l.PostEntry(ctx, e.ID, actor)
//
// Posted entries are immutable; corrections go through ReverseEntry, which
// generates and posts an equal-and-opposite reversal.
//
// Accruals spread an amount across periods and recognize it one schedule
// item at a time, each recognition producing a posted journal entry:
//
//	a, err := l.CreateAccrual(ctx, accrual.CreateInput{...})
//	entry, err := l.RecognizeAccrual(ctx, a.ID, accrual.RecognizeOpts{})
//
// # Precision
//
// All monetary values use shopspring/decimal. Balance comparisons apply a
// fixed epsilon of 0.01, so sub-cent rounding noise never blocks a balanced
// entry and never lets a materially unbalanced one through.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	period_01h2xcejqtf2nbrexx3vqjhp41  // Period ID
//	acct_01h2xcejqtf2nbrexx3vqjhp41    // Account ID
//	je_01h455vb4pex5vsknk084sn02q      // Journal entry ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package gl
