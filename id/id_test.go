package id_test

import (
	"strings"
	"testing"

	"github.com/finlane/gl/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"PeriodID", id.NewPeriodID, "period_"},
		{"AccountID", id.NewAccountID, "acct_"},
		{"EntryID", id.NewEntryID, "je_"},
		{"LineID", id.NewLineID, "jel_"},
		{"BalanceID", id.NewBalanceID, "bal_"},
		{"AccrualID", id.NewAccrualID, "acr_"},
		{"ScheduleItemID", id.NewScheduleItemID, "sched_"},
		{"CounterID", id.NewCounterID, "seq_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixEntry)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixEntry {
		t.Errorf("expected prefix %q, got %q", id.PrefixEntry, i.Prefix())
	}
}

func TestParseRoundIDTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"PeriodID", id.NewPeriodID, id.ParsePeriodID},
		{"AccountID", id.NewAccountID, id.ParseAccountID},
		{"EntryID", id.NewEntryID, id.ParseEntryID},
		{"LineID", id.NewLineID, id.ParseLineID},
		{"BalanceID", id.NewBalanceID, id.ParseBalanceID},
		{"AccrualID", id.NewAccrualID, id.ParseAccrualID},
		{"ScheduleItemID", id.NewScheduleItemID, id.ParseScheduleItemID},
		{"CounterID", id.NewCounterID, id.ParseCounterID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := tt.newFn()
			parsed, err := tt.parseFn(orig.String())
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if parsed.String() != orig.String() {
				t.Errorf("round trip changed ID: %q -> %q", orig, parsed)
			}
		})
	}
}

func TestParseWrongPrefix(t *testing.T) {
	entryID := id.NewEntryID()
	if _, err := id.ParseAccountID(entryID.String()); err == nil {
		t.Error("expected error parsing entry ID as account ID")
	}
}

func TestParseEmpty(t *testing.T) {
	if _, err := id.Parse(""); err == nil {
		t.Error("expected error for empty string")
	}
}

func TestNilID(t *testing.T) {
	var nil1 id.ID
	if !nil1.IsNil() {
		t.Error("zero value should be nil")
	}
	if nil1.String() != "" {
		t.Errorf("nil ID should stringify to empty, got %q", nil1.String())
	}
}

func TestTextMarshalRoundTrip(t *testing.T) {
	orig := id.NewAccrualID()
	data, err := orig.MarshalText()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var parsed id.ID
	if err := parsed.UnmarshalText(data); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Errorf("round trip changed ID: %q -> %q", orig, parsed)
	}
}

func TestScanValue(t *testing.T) {
	orig := id.NewEntryID()

	v, err := orig.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if scanned.String() != orig.String() {
		t.Errorf("round trip changed ID: %q -> %q", orig, scanned)
	}

	var fromNil id.ID
	if err := fromNil.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !fromNil.IsNil() {
		t.Error("scanning nil should produce the Nil ID")
	}
}
