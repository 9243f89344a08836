package core

// Aggregate calculators. Every monetary aggregate is computed from
// amounts normalized to monthly; a frequency is never mixed into a sum
// directly. All functions are pure and never mutate their inputs.

// NetWorth is total asset value minus total liability balance.
func NetWorth(assets []Asset, liabilities []Liability) float64 {
	return TotalAssets(assets) - TotalLiabilities(liabilities)
}

func TotalAssets(assets []Asset) float64 {
	sum := 0.0
	for _, a := range assets {
		sum += float64(a.Value)
	}
	return sum
}

func TotalLiabilities(liabilities []Liability) float64 {
	sum := 0.0
	for _, l := range liabilities {
		sum += float64(l.Balance)
	}
	return sum
}

func MonthlyIncome(incomes []IncomeItem) float64 {
	sum := 0.0
	for _, i := range incomes {
		sum += ToMonthly(float64(i.Amount), i.Frequency)
	}
	return sum
}

func MonthlyExpenses(bills []BillItem) float64 {
	sum := 0.0
	for _, b := range bills {
		sum += ToMonthly(float64(b.Amount), b.Frequency)
	}
	return sum
}

// MonthlyDebtPayments sums minimum payments normalized to monthly. A
// liability without a payment frequency is treated as paying monthly.
func MonthlyDebtPayments(liabilities []Liability) float64 {
	sum := 0.0
	for _, l := range liabilities {
		sum += ToMonthly(float64(l.MinPayment), l.paymentFrequency())
	}
	return sum
}

func (l Liability) paymentFrequency() Frequency {
	if l.PaymentFrequency == "" {
		return Monthly
	}
	return l.PaymentFrequency
}

// MonthlyPayment is the liability's minimum payment as a monthly figure.
func (l Liability) MonthlyPayment() float64 {
	return ToMonthly(float64(l.MinPayment), l.paymentFrequency())
}

// MonthlyCashFlow is income minus bills only. Debt payments and goal
// expenses are deliberately not subtracted here; the net-worth projection
// models them through explicit liability and contribution tracks.
func MonthlyCashFlow(incomes []IncomeItem, bills []BillItem) float64 {
	return MonthlyIncome(incomes) - MonthlyExpenses(bills)
}

// MonthlyGoalExpenses sums the derived monthly cost of every goal marked
// as a budget expense.
func MonthlyGoalExpenses(goals []Goal, now YearMonth) float64 {
	sum := 0.0
	for _, g := range goals {
		if g.IsExpense {
			sum += GoalMonthlyExpense(g, now)
		}
	}
	return sum
}

// MonthlySurplus is the canonical free-cash-per-month figure consumed by
// the budget guard: income minus bills, minimum debt payments, and
// active goal expenses.
func MonthlySurplus(s State, now YearMonth) float64 {
	return MonthlyIncome(s.Income) -
		MonthlyExpenses(s.Bills) -
		MonthlyDebtPayments(s.Liabilities) -
		MonthlyGoalExpenses(s.Goals, now)
}

// SavingsRate is cash flow as a percentage of income, 0 when there is no
// income.
func SavingsRate(incomes []IncomeItem, bills []BillItem) float64 {
	income := MonthlyIncome(incomes)
	if income == 0 {
		return 0
	}
	return MonthlyCashFlow(incomes, bills) / income * 100
}
