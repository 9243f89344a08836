package core

import (
	"math"
	"time"
)

const (
	LumpToCash  LumpTarget = "cash"
	LumpToDebt  LumpTarget = "debt"
	LumpToAsset LumpTarget = "asset"
)

type (
	LumpTarget string

	// LumpSum is a one-off scenario event applied at a specific future
	// month to cash, a liability balance, or an investable asset value.
	// A target id that no longer resolves makes the lump sum a no-op; it
	// never aborts the projection.
	LumpSum struct {
		Month      int        `json:"month"`
		Amount     float64    `json:"amount"`
		TargetType LumpTarget `json:"targetType"`
		TargetID   string     `json:"targetId,omitempty"`
	}
)

// ProjectMortgage simulates a liability balance month by month. Each of
// the months+1 data points records the remaining balance before that
// month's interest and payments are applied; lump sums scheduled for the
// month land first. Once the balance hits zero it stays there: no
// negative amortization and no overpayment carry-forward.
func ProjectMortgage(balance, annualRatePct, monthlyPayment, extraPayment float64, months int, lumpSums []LumpSum) []float64 {
	monthlyRate := annualRatePct / 100 / 12
	points := make([]float64, 0, months+1)
	remaining := balance

	for m := 0; m <= months; m++ {
		for _, ls := range lumpSums {
			if ls.Month == m {
				remaining = math.Max(0, remaining-ls.Amount)
			}
		}
		points = append(points, math.Max(0, remaining))
		interest := remaining * monthlyRate
		remaining = remaining + interest - monthlyPayment - extraPayment
		if remaining < 0 {
			remaining = 0
		}
	}
	return points
}

// ProjectInvestment simulates compound growth with a monthly
// contribution. Growth compounds monthly; the contribution is added
// after growth, so money added at step m first earns growth at step m+1.
func ProjectInvestment(value, annualGrowthPct, monthlyContribution float64, months int) []float64 {
	monthlyRate := annualGrowthPct / 100 / 12
	points := make([]float64, 0, months+1)
	current := value

	for m := 0; m <= months; m++ {
		points = append(points, current)
		current = current*(1+monthlyRate) + monthlyContribution
	}
	return points
}

type assetTrack struct {
	id           string
	value        float64
	growth       float64 // monthly rate
	contribution float64 // per month
}

type liabilityTrack struct {
	id      string
	balance float64
	rate    float64 // monthly rate
	payment float64 // monthly, frequency-normalized
	extra   float64
}

// ProjectNetWorth is the composite simulator. Assets compound and
// receive contributions, liabilities accrue interest and receive
// payments, and a running cash accumulator absorbs the monthly cash flow
// minus debt payments and contributions.
//
// Cash may float negative internally, representing a funding gap, but
// its contribution to each recorded net-worth point is clamped at zero
// so a temporary shortfall does not understate net worth once cash
// recovers. See DESIGN.md.
//
// contributions and extraDebtPayments are scenario overrides keyed by
// asset and liability id. Inputs are never mutated.
func ProjectNetWorth(assets []Asset, liabilities []Liability, incomes []IncomeItem, bills []BillItem, months int, contributions map[string]float64, extraDebtPayments map[string]float64, lumpSums []LumpSum) []float64 {
	monthlyCashFlow := MonthlyCashFlow(incomes, bills)
	points := make([]float64, 0, months+1)
	cash := 0.0

	assetTracks := make([]assetTrack, len(assets))
	for i, a := range assets {
		assetTracks[i] = assetTrack{
			id:           a.ID,
			value:        float64(a.Value),
			growth:       float64(a.GrowthRate) / 100 / 12,
			contribution: contributions[a.ID] + a.MonthlyContribution(),
		}
	}

	liabilityTracks := make([]liabilityTrack, len(liabilities))
	for i, l := range liabilities {
		liabilityTracks[i] = liabilityTrack{
			id:      l.ID,
			balance: float64(l.Balance),
			rate:    float64(l.InterestRate) / 100 / 12,
			payment: l.MonthlyPayment(),
			extra:   extraDebtPayments[l.ID],
		}
	}

	for m := 0; m <= months; m++ {
		// Lump sums land before this month's data point is recorded.
		for _, ls := range lumpSums {
			if ls.Month != m {
				continue
			}
			switch ls.TargetType {
			case LumpToCash:
				cash += ls.Amount
			case LumpToDebt:
				for i := range liabilityTracks {
					if liabilityTracks[i].id == ls.TargetID {
						liabilityTracks[i].balance = math.Max(0, liabilityTracks[i].balance-ls.Amount)
					}
				}
			case LumpToAsset:
				for i := range assetTracks {
					if assetTracks[i].id == ls.TargetID {
						assetTracks[i].value += ls.Amount
					}
				}
			}
		}

		totalAssets := 0.0
		for _, a := range assetTracks {
			totalAssets += a.value
		}
		totalLiabilities := 0.0
		for _, l := range liabilityTracks {
			totalLiabilities += l.balance
		}
		points = append(points, totalAssets+math.Max(0, cash)-totalLiabilities)

		debtPayments := 0.0
		for _, l := range liabilityTracks {
			if l.balance > 0 {
				debtPayments += l.payment + l.extra
			}
		}
		investContributions := 0.0
		for _, a := range assetTracks {
			investContributions += a.contribution
		}
		cash += monthlyCashFlow - debtPayments - investContributions

		for i := range assetTracks {
			a := &assetTracks[i]
			a.value = a.value*(1+a.growth) + a.contribution
		}
		for i := range liabilityTracks {
			l := &liabilityTracks[i]
			if l.balance > 0 {
				l.balance = l.balance*(1+l.rate) - l.payment - l.extra
				if l.balance < 0 {
					l.balance = 0
				}
			}
		}
	}
	return points
}

// PayoffMonth returns the first month index at which the series reaches
// zero, or -1 if it never does within the horizon.
func PayoffMonth(series []float64) int {
	for i, v := range series {
		if v <= 0 {
			return i
		}
	}
	return -1
}

// MonthLabels generates months+1 labels starting at now, formatted as
// short month plus two-digit year ("Jan 26"). Sparsifying for display is
// the consumer's concern.
func MonthLabels(now time.Time, months int) []string {
	labels := make([]string, 0, months+1)
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for m := 0; m <= months; m++ {
		labels = append(labels, start.AddDate(0, m, 0).Format("Jan 06"))
	}
	return labels
}

// YearLabels generates years+1 calendar-year labels starting at now.
func YearLabels(now time.Time, years int) []string {
	labels := make([]string, 0, years+1)
	for y := 0; y <= years; y++ {
		labels = append(labels, time.Date(now.Year()+y, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006"))
	}
	return labels
}
