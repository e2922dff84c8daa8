package accrual

import (
	"time"

	"github.com/shopspring/decimal"
)

// BuildSchedule computes the per-period recognition amounts for a total.
// It is a pure function: no storage, no clock. Amounts are rounded to two
// decimal places and the last period absorbs the rounding remainder, so
// the schedule always sums to total exactly.
//
// Weighting per method, for period i (0-indexed) of n:
//
//	straight_line  equal shares
//	front_loaded   weight n-i (heaviest first)
//	back_loaded    weight i+1 (heaviest last)
//	custom         straight line at creation time
//
// Dates advance in calendar-month steps from start.
func BuildSchedule(total decimal.Decimal, periods int, method Method, start time.Time) []ScheduleItem {
	if periods < 1 {
		return nil
	}

	amounts := scheduleAmounts(total, periods, method)
	items := make([]ScheduleItem, periods)
	for i := range items {
		items[i] = ScheduleItem{
			PeriodNumber:    i + 1,
			PeriodDate:      start.AddDate(0, i, 0),
			ScheduledAmount: amounts[i],
			Status:          ItemPending,
		}
	}
	return items
}

func scheduleAmounts(total decimal.Decimal, periods int, method Method) []decimal.Decimal {
	amounts := make([]decimal.Decimal, periods)

	var weights []int64
	switch method {
	case MethodFrontLoaded:
		weights = make([]int64, periods)
		for i := range weights {
			weights[i] = int64(periods - i)
		}
	case MethodBackLoaded:
		weights = make([]int64, periods)
		for i := range weights {
			weights[i] = int64(i + 1)
		}
	default: // straight_line and custom
		weights = make([]int64, periods)
		for i := range weights {
			weights[i] = 1
		}
	}

	var weightSum int64
	for _, w := range weights {
		weightSum += w
	}

	allocated := decimal.Zero
	for i := 0; i < periods-1; i++ {
		share := total.Mul(decimal.NewFromInt(weights[i])).
			Div(decimal.NewFromInt(weightSum)).
			Round(2)
		amounts[i] = share
		allocated = allocated.Add(share)
	}
	// Last period forces exact reconciliation.
	amounts[periods-1] = total.Sub(allocated)

	return amounts
}

// ScheduleTotal sums the scheduled amounts of the given items.
func ScheduleTotal(items []ScheduleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ScheduledAmount)
	}
	return total
}
