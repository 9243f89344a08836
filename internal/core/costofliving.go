package core

import "math"

// HomeCosts groups the household's recurring monthly costs by category:
// bills under their own category, liability payments under their cost
// category (defaulting to housing), and expense-marked goals under their
// category. Amounts are monthly equivalents rounded to whole units.
func HomeCosts(s State, now YearMonth) map[Category][]CostItem {
	grouped := make(map[Category][]CostItem, len(Categories))
	for _, c := range Categories {
		grouped[c] = []CostItem{}
	}

	for _, b := range s.Bills {
		cat := NormalizeCategory(b.Category)
		grouped[cat] = append(grouped[cat], CostItem{
			Name:   b.Name,
			Amount: Amount(math.Round(ToMonthly(float64(b.Amount), b.Frequency))),
		})
	}

	for _, l := range s.Liabilities {
		payment := math.Round(l.MonthlyPayment())
		if payment <= 0 {
			continue
		}
		// Liability payments without a recognized cost category land in
		// housing, not other: most are mortgage or rent adjacent.
		cat := l.CostCategory
		if NormalizeCategory(cat) != cat {
			cat = Housing
		}
		grouped[cat] = append(grouped[cat], CostItem{
			Name:   l.Name + " (payment)",
			Amount: Amount(payment),
		})
	}

	for _, g := range s.Goals {
		if !g.IsExpense {
			continue
		}
		expense := GoalMonthlyExpense(g, now)
		if expense <= 0 {
			continue
		}
		cat := NormalizeCategory(g.Category)
		grouped[cat] = append(grouped[cat], CostItem{
			Name:   g.Name + " (goal)",
			Amount: Amount(expense),
		})
	}

	return grouped
}

// CategoryTotal sums a category's cost items.
func CategoryTotal(items []CostItem) float64 {
	sum := 0.0
	for _, item := range items {
		sum += float64(item.Amount)
	}
	return sum
}

// CostsTotal sums all categories of a cost map.
func CostsTotal(costs map[Category][]CostItem) float64 {
	sum := 0.0
	for _, c := range Categories {
		sum += CategoryTotal(costs[c])
	}
	return sum
}
