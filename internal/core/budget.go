package core

// BudgetCheck is the outcome of the minimum-surplus feasibility check.
// Infeasibility is a normal result value, never an error: callers use it
// to block a save and show the shortfall, computation always proceeds.
type BudgetCheck struct {
	Feasible     bool    `json:"feasible"`
	Deficit      float64 `json:"deficit,omitempty"`
	SurplusAfter float64 `json:"surplusAfter"`
	MinRequired  float64 `json:"minRequired"`
}

// CheckCommitment decides whether a proposed recurring monthly cost fits
// within the minimum-surplus policy. When an existing item is being
// edited its old monthly cost is added back to the surplus first so the
// item is not double-counted. minSurplusPercent is a percentage of
// monthly income (0-50, 0 disables the floor).
func CheckCommitment(monthlyIncome, surplus, oldMonthly, newMonthly, minSurplusPercent float64) BudgetCheck {
	minRequired := monthlyIncome * minSurplusPercent / 100
	surplusAfter := surplus + oldMonthly - newMonthly
	check := BudgetCheck{
		Feasible:     surplusAfter >= minRequired,
		SurplusAfter: surplusAfter,
		MinRequired:  minRequired,
	}
	if !check.Feasible {
		check.Deficit = minRequired - surplusAfter
	}
	return check
}

// CheckBillCommitment runs the guard for a new or edited bill against
// the current state. oldBill is nil for a brand new bill.
func CheckBillCommitment(s State, oldBill *BillItem, newBill BillItem, now YearMonth) BudgetCheck {
	oldMonthly := 0.0
	if oldBill != nil {
		oldMonthly = ToMonthly(float64(oldBill.Amount), oldBill.Frequency)
	}
	newMonthly := ToMonthly(float64(newBill.Amount), newBill.Frequency)
	return CheckCommitment(
		MonthlyIncome(s.Income),
		MonthlySurplus(s, now),
		oldMonthly,
		newMonthly,
		float64(s.Settings.MinSurplusPercent),
	)
}

// CheckGoalCommitment runs the guard for a goal entering or staying in
// the budget as an expense. A goal that is not an expense is always
// feasible. oldGoal is nil for a brand new goal.
func CheckGoalCommitment(s State, oldGoal *Goal, newGoal Goal, now YearMonth) BudgetCheck {
	if !newGoal.IsExpense {
		return BudgetCheck{Feasible: true}
	}
	oldMonthly := 0.0
	if oldGoal != nil && oldGoal.IsExpense {
		oldMonthly = GoalMonthlyExpense(*oldGoal, now)
	}
	return CheckCommitment(
		MonthlyIncome(s.Income),
		MonthlySurplus(s, now),
		oldMonthly,
		GoalMonthlyExpense(newGoal, now),
		float64(s.Settings.MinSurplusPercent),
	)
}
