package core

import (
	"fmt"
	"math"
	"time"
)

// YearMonth is a month-granularity date. It is the explicit "now" input
// to every deadline-based computation so those stay pure and testable.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: int(t.Month())}
}

// ParseYearMonth parses a YYYY-MM string.
func ParseYearMonth(s string) (YearMonth, bool) {
	var y, m int
	if _, err := fmt.Sscanf(s, "%d-%d", &y, &m); err != nil {
		return YearMonth{}, false
	}
	if y < 1 || m < 1 || m > 12 {
		return YearMonth{}, false
	}
	return YearMonth{Year: y, Month: m}, true
}

// MonthsUntil is the whole-month difference to other. Days are ignored;
// January to March is two months regardless of the day of month.
func (ym YearMonth) MonthsUntil(other YearMonth) int {
	return (other.Year-ym.Year)*12 + (other.Month - ym.Month)
}

// AddMonths returns the month m months after ym.
func (ym YearMonth) AddMonths(m int) YearMonth {
	t := time.Date(ym.Year, time.Month(ym.Month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, m, 0)
	return YearMonthOf(t)
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, ym.Month)
}

// GoalMonthlyExpense derives the monthly cost of a savings goal.
//
// An explicit monthly contribution takes precedence. Otherwise a
// deadline amortizes the remaining amount evenly over the months left,
// rounded to the nearest whole currency unit; a deadline that has
// already passed makes the entire remainder due this month. A goal that
// is met, or that has neither contribution nor deadline, costs nothing.
//
// The rounding means cumulative contributions may land slightly off the
// target by the deadline. That is accepted behavior, not corrected here.
func GoalMonthlyExpense(g Goal, now YearMonth) float64 {
	if float64(g.MonthlyContribution) > 0 {
		return float64(g.MonthlyContribution)
	}
	if g.Deadline == "" {
		return 0
	}
	remaining := float64(g.TargetAmount) - float64(g.CurrentAmount)
	if remaining <= 0 {
		return 0
	}
	deadline, ok := ParseYearMonth(g.Deadline)
	if !ok {
		return 0
	}
	monthsLeft := now.MonthsUntil(deadline)
	if monthsLeft <= 0 {
		return remaining
	}
	return math.Round(remaining / float64(monthsLeft))
}
