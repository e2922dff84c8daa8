package audit_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finlane/gl"
	"github.com/finlane/gl/account"
	"github.com/finlane/gl/audit"
	"github.com/finlane/gl/journal"
	"github.com/finlane/gl/period"
	"github.com/finlane/gl/store/memory"
	"github.com/finlane/gl/types"
)

// capture is a Recorder that collects events for assertions.
type capture struct {
	mu     sync.Mutex
	events []*audit.Event
}

func (c *capture) record(_ context.Context, e *audit.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *capture) actions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, e := range c.events {
		out[i] = e.Action
	}
	return out
}

func (c *capture) find(action string) *audit.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.events {
		if e.Action == action {
			return e
		}
	}
	return nil
}

// runWorkflow drives one entry through the full posting workflow against
// an engine carrying the given audit options.
func runWorkflow(t *testing.T, opts ...audit.Option) *capture {
	t.Helper()
	ctx := context.Background()

	rec := &capture{}
	l := gl.New(memory.New(),
		gl.WithPlugin(audit.New(audit.RecorderFunc(rec.record), opts...)),
	)
	if err := l.Start(ctx); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = l.Stop() })

	scope := types.NewScope("agency_1")
	p := &period.FinancialPeriod{
		Scope:     scope,
		Name:      "2026-01",
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC),
	}
	if err := l.CreatePeriod(ctx, p); err != nil {
		t.Fatal(err)
	}

	cash := &account.Account{Scope: scope, Code: "1000", Name: "Cash", Type: account.TypeAsset, Currency: "USD"}
	revenue := &account.Account{Scope: scope, Code: "4000", Name: "Revenue", Type: account.TypeRevenue, Currency: "USD"}
	for _, a := range []*account.Account{cash, revenue} {
		if err := l.CreateAccount(ctx, a); err != nil {
			t.Fatal(err)
		}
	}

	e, err := l.CreateEntry(ctx, journal.CreateInput{
		Scope:        scope,
		PostingDate:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		CurrencyCode: "USD",
		CreatedBy:    "tester",
		Lines: []journal.LineInput{
			{AccountID: cash.ID, Debit: decimal.NewFromInt(250)},
			{AccountID: revenue.ID, Credit: decimal.NewFromInt(250)},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.SubmitEntry(ctx, e.ID, "tester"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ApproveEntry(ctx, e.ID, "approver"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.PostEntry(ctx, e.ID, "poster"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.ClosePeriod(ctx, p.ID, "controller"); err != nil {
		t.Fatal(err)
	}

	return rec
}

func TestAuditTrail(t *testing.T) {
	rec := runWorkflow(t)

	want := []string{
		audit.ActionEntryCreated,
		audit.ActionEntrySubmitted,
		audit.ActionEntryApproved,
		audit.ActionNumberReserved,
		audit.ActionEntryPosted,
		audit.ActionPeriodClosed,
	}
	got := rec.actions()
	if len(got) != len(want) {
		t.Fatalf("recorded %d events %v, want %d", len(got), got, len(want))
	}
	for i, action := range want {
		if got[i] != action {
			t.Errorf("event %d = %s, want %s", i, got[i], action)
		}
	}
}

func TestAuditEventFields(t *testing.T) {
	rec := runWorkflow(t)

	posted := rec.find(audit.ActionEntryPosted)
	if posted == nil {
		t.Fatal("no entry.posted event recorded")
	}
	if posted.Resource != audit.ResourceEntry {
		t.Errorf("resource = %s, want %s", posted.Resource, audit.ResourceEntry)
	}
	if posted.Category != audit.CategoryPosting {
		t.Errorf("category = %s, want %s", posted.Category, audit.CategoryPosting)
	}
	if posted.Scope != "agency_1" {
		t.Errorf("scope = %s, want agency_1", posted.Scope)
	}
	if posted.Outcome != audit.OutcomeSuccess || posted.Severity != audit.SeverityInfo {
		t.Errorf("outcome/severity = %s/%s", posted.Outcome, posted.Severity)
	}
	if posted.Metadata["document_number"] != "JE-2026-000001" {
		t.Errorf("document_number metadata = %v", posted.Metadata["document_number"])
	}
}

func TestAuditActionFiltering(t *testing.T) {
	t.Run("enabled subset", func(t *testing.T) {
		rec := runWorkflow(t, audit.WithEnabledActions(audit.ActionEntryPosted))
		got := rec.actions()
		if len(got) != 1 || got[0] != audit.ActionEntryPosted {
			t.Errorf("actions = %v, want only entry.posted", got)
		}
	})

	t.Run("disabled subset", func(t *testing.T) {
		rec := runWorkflow(t, audit.WithDisabledActions(audit.ActionNumberReserved))
		for _, action := range rec.actions() {
			if action == audit.ActionNumberReserved {
				t.Errorf("disabled action still recorded")
			}
		}
		if rec.find(audit.ActionEntryPosted) == nil {
			t.Errorf("non-disabled action missing")
		}
	})
}
