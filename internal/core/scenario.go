package core

import "math"

const (
	WhatIfIncome     WhatIfType = "income"
	WhatIfExpense    WhatIfType = "expense"
	WhatIfDebt       WhatIfType = "debt"
	WhatIfInvestment WhatIfType = "investment"
	WhatIfLumpSum    WhatIfType = "lumpsum"
)

type (
	WhatIfType string

	// WhatIfItem is an ad-hoc scenario entry that exists only inside a
	// simulation: hypothetical income, a hypothetical expense, a new
	// debt, a new investment, or a one-off lump sum.
	WhatIfItem struct {
		ID           string     `json:"id"`
		Type         WhatIfType `json:"type"`
		Name         string     `json:"name"`
		Amount       float64    `json:"amount"`
		InterestRate float64    `json:"interestRate,omitempty"`
		GrowthRate   float64    `json:"growthRate,omitempty"`
		Payment      float64    `json:"payment,omitempty"`
		Month        int        `json:"month,omitempty"`
		// ApplyTo targets a lump sum: "cash", "debt-<id>" or "asset-<id>".
		ApplyTo string `json:"applyTo,omitempty"`
	}

	// Scenario is an explicit, immutable what-if configuration passed
	// into the projection engine. Adjustment maps are keyed by entity id
	// and hold monthly figures; absent keys leave the base value in
	// place. Scenarios are never persisted.
	Scenario struct {
		Months        int                `json:"months"`
		IncomeAdjust  map[string]float64 `json:"incomeAdjust,omitempty"`
		BillAdjust    map[string]float64 `json:"billAdjust,omitempty"`
		GrowthAdjust  map[string]float64 `json:"growthAdjust,omitempty"`
		ExtraPayments map[string]float64 `json:"extraPayments,omitempty"`
		Contributions map[string]float64 `json:"contributions,omitempty"`
		WhatIf        []WhatIfItem       `json:"whatIf,omitempty"`
	}

	// ScenarioInputs are the record sets a scenario projects over:
	// copies of the base records with overrides applied plus the what-if
	// entries materialized. Base collections are never touched.
	ScenarioInputs struct {
		Assets      []Asset
		Liabilities []Liability
		Incomes     []IncomeItem
		Bills       []BillItem
		LumpSums    []LumpSum
	}

	// BudgetBalance summarizes a scenario's monthly budget: how much
	// surplus it produces and how much of it the extra payments and
	// contributions consume.
	BudgetBalance struct {
		BaseMonthlyIncome    float64 `json:"baseMonthlyIncome"`
		BaseMonthlyExpenses  float64 `json:"baseMonthlyExpenses"`
		BaseDebtPayments     float64 `json:"baseDebtPayments"`
		BaseSurplus          float64 `json:"baseSurplus"`
		ScenarioIncome       float64 `json:"scenarioIncome"`
		ScenarioExpenses     float64 `json:"scenarioExpenses"`
		ScenarioSurplus      float64 `json:"scenarioSurplus"`
		IncomeChange         float64 `json:"incomeChange"`
		ExpenseChange        float64 `json:"expenseChange"`
		ExtraDebtPayments    float64 `json:"extraDebtPayments"`
		InvestContributions  float64 `json:"investContributions"`
		AllocatedFromSurplus float64 `json:"allocatedFromSurplus"`
		RemainingSurplus     float64 `json:"remainingSurplus"`
		OverBudget           bool    `json:"overBudget"`
		// Bar widths for the allocated-vs-available display, clamped to
		// 0-100. This is the one place negative cash is floored at zero.
		AllocatedWidth float64 `json:"allocatedWidth"`
		FreeWidth      float64 `json:"freeWidth"`
	}

	MortgageComparison struct {
		LiabilityID    string    `json:"liabilityId"`
		Name           string    `json:"name"`
		MonthlyPayment float64   `json:"monthlyPayment"`
		Base           []float64 `json:"base"`
		Scenario       []float64 `json:"scenario"`
		BasePayoff     int       `json:"basePayoff"`     // month index, -1 if not reached
		ScenarioPayoff int       `json:"scenarioPayoff"` // month index, -1 if not reached
	}

	InvestmentComparison struct {
		AssetID  string    `json:"assetId"`
		Name     string    `json:"name"`
		Base     []float64 `json:"base"`
		Scenario []float64 `json:"scenario"`
	}
)

// adjustedMonthly returns the scenario's monthly figure for an item: the
// override when one is set, otherwise the base amount normalized to
// monthly and rounded to a whole currency unit.
func adjustedMonthly(adjust map[string]float64, id string, amount Amount, freq Frequency) float64 {
	if v, ok := adjust[id]; ok {
		return v
	}
	return math.Round(ToMonthly(float64(amount), freq))
}

// LumpSums materializes the scenario's lump-sum what-if items as
// projection events. An ApplyTo of "cash" targets cash; "debt-<id>" and
// "asset-<id>" target the entity with that id.
func (sc Scenario) LumpSums() []LumpSum {
	var sums []LumpSum
	for _, item := range sc.WhatIf {
		if item.Type != WhatIfLumpSum {
			continue
		}
		ls := LumpSum{Month: item.Month, Amount: item.Amount, TargetType: LumpToCash}
		switch {
		case item.ApplyTo == "" || item.ApplyTo == "cash":
			// cash, already set
		case len(item.ApplyTo) > 5 && item.ApplyTo[:5] == "debt-":
			ls.TargetType = LumpToDebt
			ls.TargetID = item.ApplyTo[5:]
		case len(item.ApplyTo) > 6 && item.ApplyTo[:6] == "asset-":
			ls.TargetType = LumpToAsset
			ls.TargetID = item.ApplyTo[6:]
		}
		sums = append(sums, ls)
	}
	return sums
}

// Inputs builds the record sets the scenario projection runs over.
//
// Assets carry growth overrides and gain a stock-type entry per what-if
// investment. Liabilities gain a loan-type entry per what-if debt.
// Income collapses to per-item adjusted monthly figures plus what-if
// income; bills collapse to a single monthly line holding the adjusted
// bill total plus what-if expenses, because only the total feeds the
// projection's cash flow.
func (sc Scenario) Inputs(s State) ScenarioInputs {
	in := ScenarioInputs{LumpSums: sc.LumpSums()}

	in.Assets = make([]Asset, 0, len(s.Assets))
	for _, a := range s.Assets {
		if v, ok := sc.GrowthAdjust[a.ID]; ok {
			a.GrowthRate = Amount(v)
		}
		in.Assets = append(in.Assets, a)
	}

	in.Liabilities = make([]Liability, 0, len(s.Liabilities))
	in.Liabilities = append(in.Liabilities, s.Liabilities...)

	billTotal := 0.0
	for _, b := range s.Bills {
		billTotal += adjustedMonthly(sc.BillAdjust, b.ID, b.Amount, b.Frequency)
	}

	in.Incomes = make([]IncomeItem, 0, len(s.Income))
	for _, i := range s.Income {
		in.Incomes = append(in.Incomes, IncomeItem{
			Amount:    Amount(adjustedMonthly(sc.IncomeAdjust, i.ID, i.Amount, i.Frequency)),
			Frequency: Monthly,
		})
	}

	for _, item := range sc.WhatIf {
		switch item.Type {
		case WhatIfIncome:
			in.Incomes = append(in.Incomes, IncomeItem{Amount: Amount(item.Amount), Frequency: Monthly})
		case WhatIfExpense:
			billTotal += item.Amount
		case WhatIfDebt:
			in.Liabilities = append(in.Liabilities, Liability{
				ID:           item.ID,
				Name:         item.Name,
				Type:         Loan,
				Balance:      Amount(item.Amount),
				InterestRate: Amount(item.InterestRate),
				MinPayment:   Amount(item.Payment),
			})
		case WhatIfInvestment:
			in.Assets = append(in.Assets, Asset{
				ID:         item.ID,
				Name:       item.Name,
				Type:       Stock,
				Value:      Amount(item.Amount),
				GrowthRate: Amount(item.GrowthRate),
			})
		}
	}

	in.Bills = []BillItem{{Amount: Amount(billTotal), Frequency: Monthly}}
	return in
}

// ProjectNetWorth runs the composite simulator over the scenario inputs.
func (sc Scenario) ProjectNetWorth(s State) []float64 {
	in := sc.Inputs(s)
	return ProjectNetWorth(in.Assets, in.Liabilities, in.Incomes, in.Bills, sc.Months, sc.Contributions, sc.ExtraPayments, in.LumpSums)
}

// Balance computes the scenario's budget summary against the base state.
func (sc Scenario) Balance(s State) BudgetBalance {
	b := BudgetBalance{
		BaseMonthlyIncome:   MonthlyIncome(s.Income),
		BaseMonthlyExpenses: MonthlyExpenses(s.Bills),
		BaseDebtPayments:    MonthlyDebtPayments(s.Liabilities),
	}
	b.BaseSurplus = b.BaseMonthlyIncome - b.BaseMonthlyExpenses - b.BaseDebtPayments

	for _, i := range s.Income {
		b.ScenarioIncome += adjustedMonthly(sc.IncomeAdjust, i.ID, i.Amount, i.Frequency)
	}
	for _, bill := range s.Bills {
		b.ScenarioExpenses += adjustedMonthly(sc.BillAdjust, bill.ID, bill.Amount, bill.Frequency)
	}
	for _, item := range sc.WhatIf {
		switch item.Type {
		case WhatIfIncome:
			b.ScenarioIncome += item.Amount
		case WhatIfExpense:
			b.ScenarioExpenses += item.Amount
		case WhatIfDebt:
			// A hypothetical debt's servicing cost counts as an expense.
			b.ScenarioExpenses += item.Payment
		}
	}

	for _, v := range sc.ExtraPayments {
		b.ExtraDebtPayments += v
	}
	for _, v := range sc.Contributions {
		b.InvestContributions += v
	}
	for _, a := range s.Assets {
		b.InvestContributions += a.MonthlyContribution()
	}

	b.ScenarioSurplus = b.ScenarioIncome - b.ScenarioExpenses - b.BaseDebtPayments
	b.AllocatedFromSurplus = b.ExtraDebtPayments + b.InvestContributions
	b.RemainingSurplus = b.ScenarioSurplus - b.AllocatedFromSurplus
	b.OverBudget = b.RemainingSurplus < 0
	b.IncomeChange = b.ScenarioIncome - b.BaseMonthlyIncome
	b.ExpenseChange = b.ScenarioExpenses - b.BaseMonthlyExpenses

	if b.ScenarioSurplus > 0 {
		b.AllocatedWidth = math.Min(100, b.AllocatedFromSurplus/b.ScenarioSurplus*100)
		b.FreeWidth = math.Max(0, math.Min(100-b.AllocatedWidth, b.RemainingSurplus/b.ScenarioSurplus*100))
	}
	return b
}

// CompareMortgage projects the first mortgage-type liability with and
// without the scenario's extra payment and lump sums. Returns nil when
// the state has no mortgage.
func (sc Scenario) CompareMortgage(s State) *MortgageComparison {
	var mortgage *Liability
	for i := range s.Liabilities {
		if s.Liabilities[i].Type == Mortgage {
			mortgage = &s.Liabilities[i]
			break
		}
	}
	if mortgage == nil {
		return nil
	}

	var mortgageLumps []LumpSum
	for _, ls := range sc.LumpSums() {
		if ls.TargetType == LumpToDebt && ls.TargetID == mortgage.ID {
			mortgageLumps = append(mortgageLumps, ls)
		}
	}

	payment := mortgage.MonthlyPayment()
	cmp := &MortgageComparison{
		LiabilityID:    mortgage.ID,
		Name:           mortgage.Name,
		MonthlyPayment: payment,
		Base:           ProjectMortgage(float64(mortgage.Balance), float64(mortgage.InterestRate), payment, 0, sc.Months, nil),
		Scenario:       ProjectMortgage(float64(mortgage.Balance), float64(mortgage.InterestRate), payment, sc.ExtraPayments[mortgage.ID], sc.Months, mortgageLumps),
	}
	cmp.BasePayoff = PayoffMonth(cmp.Base)
	cmp.ScenarioPayoff = PayoffMonth(cmp.Scenario)
	return cmp
}

// CompareInvestments projects every investable asset with base and
// scenario growth/contributions side by side.
func (sc Scenario) CompareInvestments(s State) []InvestmentComparison {
	var comparisons []InvestmentComparison
	for _, a := range s.Assets {
		if !a.Type.Investable() {
			continue
		}
		baseGrowth := float64(a.GrowthRate)
		scenarioGrowth := baseGrowth
		if v, ok := sc.GrowthAdjust[a.ID]; ok {
			scenarioGrowth = v
		}
		baseContrib := a.MonthlyContribution()
		comparisons = append(comparisons, InvestmentComparison{
			AssetID:  a.ID,
			Name:     a.Name,
			Base:     ProjectInvestment(float64(a.Value), baseGrowth, baseContrib, sc.Months),
			Scenario: ProjectInvestment(float64(a.Value), scenarioGrowth, sc.Contributions[a.ID]+baseContrib, sc.Months),
		})
	}
	return comparisons
}

// CombineSeries sums projection series point-wise, for an
// all-investments view. Returns nil for no series.
func CombineSeries(series [][]float64) []float64 {
	if len(series) == 0 {
		return nil
	}
	combined := make([]float64, len(series[0]))
	for _, s := range series {
		for i := range combined {
			if i < len(s) {
				combined[i] += s[i]
			}
		}
	}
	return combined
}
