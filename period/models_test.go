package period

import (
	"testing"
	"time"

	"github.com/finlane/gl/types"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"open to closed", StatusOpen, StatusClosed, true},
		{"closed to open (reopen)", StatusClosed, StatusOpen, true},
		{"closed to locked", StatusClosed, StatusLocked, true},
		{"open to locked skips close", StatusOpen, StatusLocked, false},
		{"locked to open", StatusLocked, StatusOpen, false},
		{"locked to closed", StatusLocked, StatusClosed, false},
		{"open to open", StatusOpen, StatusOpen, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	p := &FinancialPeriod{
		Scope:     types.NewScope("ag1"),
		StartDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{"first day", time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), true},
		{"mid period", time.Date(2026, 9, 15, 12, 30, 0, 0, time.UTC), true},
		{"last day", time.Date(2026, 9, 30, 23, 0, 0, 0, time.UTC), true},
		{"day before", time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), false},
		{"day after", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Covers(tt.date); got != tt.want {
				t.Errorf("Covers(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
