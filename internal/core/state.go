package core

import (
	"encoding/json"
	"strings"
)

type (
	Settings struct {
		MinSurplusPercent Amount `json:"minSurplusPercent"`
	}

	// CostItem is one named cost within a comparison category.
	CostItem struct {
		Name   string `json:"name"`
		Amount Amount `json:"amount"`
	}

	// Comparison is a cost-of-living comparison location: per-category
	// lists of named monthly costs.
	Comparison struct {
		Name  string                  `json:"name"`
		Costs map[Category][]CostItem `json:"costs"`
	}

	CostOfLiving struct {
		Comparisons []Comparison `json:"comparisons"`
	}

	// State is the full persisted document: every user collection plus
	// settings. It is supplied by the storage layer; the core never
	// reads or writes storage itself.
	State struct {
		Income        []IncomeItem   `json:"income"`
		Bills         []BillItem     `json:"bills"`
		Assets        []Asset        `json:"assets"`
		Liabilities   []Liability    `json:"liabilities"`
		Goals         []Goal         `json:"goals"`
		Transactions  []Transaction  `json:"transactions"`
		CategoryRules []CategoryRule `json:"categoryRules"`
		HomeName      string         `json:"homeName"`
		CostOfLiving  CostOfLiving   `json:"costOfLiving"`
		Settings      Settings       `json:"settings"`
	}
)

// DefaultHomeName is used when an imported state carries none.
const DefaultHomeName = "Home"

// comparisonCostKeys are the categories every comparison carries a list
// for, even when empty.
var comparisonCostKeys = []Category{Housing, Utilities, Food, Transport, Education, Healthcare, Lifestyle}

// UnmarshalJSON tolerates the legacy comparison shape where a category
// cost was a single scalar instead of an item list. A positive scalar
// becomes a one-item list named after the category; anything else
// becomes an empty list.
func (c *Comparison) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name  string                          `json:"name"`
		Costs map[Category]json.RawMessage    `json:"costs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Name = raw.Name
	c.Costs = make(map[Category][]CostItem, len(raw.Costs))
	for cat, val := range raw.Costs {
		var items []CostItem
		if err := json.Unmarshal(val, &items); err == nil {
			c.Costs[cat] = items
			continue
		}
		var scalar Amount
		if err := json.Unmarshal(val, &scalar); err == nil && float64(scalar) > 0 {
			c.Costs[cat] = []CostItem{{Name: titleCase(string(cat)), Amount: scalar}}
			continue
		}
		c.Costs[cat] = []CostItem{}
	}
	return nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Normalize fills defaults on a freshly loaded or imported state so
// every consumer can rely on the full shape: nil collections become
// empty, liabilities without a payment frequency pay monthly, every
// comparison carries all cost categories, and the home name falls back
// to the default. Partial exports round-trip without data loss.
func (s *State) Normalize() {
	if s.Income == nil {
		s.Income = []IncomeItem{}
	}
	if s.Bills == nil {
		s.Bills = []BillItem{}
	}
	if s.Assets == nil {
		s.Assets = []Asset{}
	}
	if s.Liabilities == nil {
		s.Liabilities = []Liability{}
	}
	if s.Goals == nil {
		s.Goals = []Goal{}
	}
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.CategoryRules == nil {
		s.CategoryRules = []CategoryRule{}
	}
	if s.CostOfLiving.Comparisons == nil {
		s.CostOfLiving.Comparisons = []Comparison{}
	}
	if s.HomeName == "" {
		s.HomeName = DefaultHomeName
	}
	for i := range s.Liabilities {
		if s.Liabilities[i].PaymentFrequency == "" {
			s.Liabilities[i].PaymentFrequency = Monthly
		}
	}
	for i := range s.CostOfLiving.Comparisons {
		cmp := &s.CostOfLiving.Comparisons[i]
		if cmp.Costs == nil {
			cmp.Costs = make(map[Category][]CostItem, len(comparisonCostKeys))
		}
		for _, key := range comparisonCostKeys {
			if cmp.Costs[key] == nil {
				cmp.Costs[key] = []CostItem{}
			}
		}
	}
}

// NewState returns an empty, normalized state.
func NewState() State {
	var s State
	s.Normalize()
	return s
}
