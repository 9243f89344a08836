package core

import (
	"encoding/json"
	"testing"
)

func TestAmountLenientDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"number", `42.5`, 42.5},
		{"numeric string", `"42.5"`, 42.5},
		{"string with spaces", `" 1200 "`, 1200},
		{"null", `null`, 0},
		{"garbage string", `"abc"`, 0},
		{"empty string", `""`, 0},
		{"bool", `true`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a Amount
			if err := json.Unmarshal([]byte(tt.in), &a); err != nil {
				t.Fatalf("Unmarshal(%s): %v", tt.in, err)
			}
			if !closeTo(float64(a), tt.want) {
				t.Errorf("Amount = %v, want %v", a, tt.want)
			}
		})
	}
}

func TestStateNormalizeFillsDefaults(t *testing.T) {
	var s State
	s.Liabilities = []Liability{{ID: "l1", Balance: 100}}
	s.Normalize()

	if s.Income == nil || s.Bills == nil || s.Assets == nil || s.Goals == nil ||
		s.Transactions == nil || s.CategoryRules == nil || s.CostOfLiving.Comparisons == nil {
		t.Error("nil collections should become empty slices")
	}
	if s.HomeName != DefaultHomeName {
		t.Errorf("HomeName = %q, want %q", s.HomeName, DefaultHomeName)
	}
	if s.Liabilities[0].PaymentFrequency != Monthly {
		t.Errorf("PaymentFrequency = %q, want monthly default", s.Liabilities[0].PaymentFrequency)
	}
}

func TestStateNormalizeFillsComparisonCategories(t *testing.T) {
	s := State{CostOfLiving: CostOfLiving{Comparisons: []Comparison{{Name: "Wellington"}}}}
	s.Normalize()

	cmp := s.CostOfLiving.Comparisons[0]
	for _, cat := range []Category{Housing, Utilities, Food, Transport, Education, Healthcare, Lifestyle} {
		if cmp.Costs[cat] == nil {
			t.Errorf("category %q missing from comparison costs", cat)
		}
	}
}

func TestStateRoundTrip(t *testing.T) {
	s := NewState()
	s.Income = []IncomeItem{{ID: "i1", Name: "Salary", Amount: 2500, Frequency: Fortnightly}}
	s.Assets = []Asset{{ID: "a1", Name: "KiwiSaver", Type: KiwiSaver, Value: 30000, KiwiEmployer: 150}}
	s.CostOfLiving.Comparisons = []Comparison{{
		Name:  "Auckland",
		Costs: map[Category][]CostItem{Housing: {{Name: "Rent", Amount: 650}}},
	}}
	s.Normalize()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got State
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	got.Normalize()

	if len(got.Income) != 1 || got.Income[0].Frequency != Fortnightly {
		t.Errorf("income lost in round trip: %+v", got.Income)
	}
	if float64(got.Assets[0].KiwiEmployer) != 150 {
		t.Errorf("KiwiSaver fields lost: %+v", got.Assets[0])
	}
	items := got.CostOfLiving.Comparisons[0].Costs[Housing]
	if len(items) != 1 || items[0].Name != "Rent" {
		t.Errorf("comparison costs lost: %+v", items)
	}
}

func TestComparisonLegacyScalarCosts(t *testing.T) {
	raw := `{"name":"Hamilton","costs":{"housing":520,"food":[{"name":"Groceries","amount":180}],"transport":0,"utilities":null}}`

	var cmp Comparison
	if err := json.Unmarshal([]byte(raw), &cmp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	housing := cmp.Costs[Housing]
	if len(housing) != 1 {
		t.Fatalf("scalar housing cost should migrate to one item, got %d", len(housing))
	}
	if housing[0].Name != "Housing" || float64(housing[0].Amount) != 520 {
		t.Errorf("migrated item = %+v", housing[0])
	}

	food := cmp.Costs[Food]
	if len(food) != 1 || food[0].Name != "Groceries" {
		t.Errorf("item-list food should pass through, got %+v", food)
	}

	if len(cmp.Costs[Transport]) != 0 {
		t.Errorf("zero scalar should migrate to empty list, got %+v", cmp.Costs[Transport])
	}
	if len(cmp.Costs[Utilities]) != 0 {
		t.Errorf("null cost should migrate to empty list, got %+v", cmp.Costs[Utilities])
	}
}

func TestImportPartialStateDocument(t *testing.T) {
	// Exports from older versions may carry only some collections; the
	// rest fill with defaults on import.
	raw := `{"bills":[{"id":"b1","name":"Power","amount":"120","frequency":"monthly"}]}`

	var s State
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	s.Normalize()

	if len(s.Bills) != 1 || float64(s.Bills[0].Amount) != 120 {
		t.Errorf("bills = %+v", s.Bills)
	}
	if s.Income == nil || s.HomeName != DefaultHomeName {
		t.Error("defaults not filled on partial import")
	}
}
