package core

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	Weekly      Frequency = "weekly"
	Fortnightly Frequency = "fortnightly"
	Monthly     Frequency = "monthly"
	Quarterly   Frequency = "quarterly"
	Yearly      Frequency = "yearly"
)

const (
	Housing    Category = "housing"
	Utilities  Category = "utilities"
	Food       Category = "food"
	Transport  Category = "transport"
	Education  Category = "education"
	Healthcare Category = "healthcare"
	Lifestyle  Category = "lifestyle"
	Other      Category = "other"

	// IncomeCategory is only ever assigned to income-type transactions.
	IncomeCategory Category = "income"
)

const (
	Property   AssetType = "property"
	Stock      AssetType = "stock"
	Savings    AssetType = "savings"
	Crypto     AssetType = "crypto"
	KiwiSaver  AssetType = "kiwisaver"
	OtherAsset AssetType = "other"
)

const (
	Mortgage       LiabilityType = "mortgage"
	Loan           LiabilityType = "loan"
	Credit         LiabilityType = "credit"
	OtherLiability LiabilityType = "other"
)

const (
	Self    Person = "self"
	Partner Person = "partner"
)

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

const (
	IncomeTransaction  TransactionType = "income"
	ExpenseTransaction TransactionType = "expense"
)

type (
	Frequency       string
	Category        string
	AssetType       string
	LiabilityType   string
	Person          string
	Priority        string
	TransactionType string

	// Amount is a monetary or percentage value. The application inherits
	// data that may carry numbers encoded as strings, so decoding is
	// lenient: numbers and numeric strings are accepted, anything else
	// decodes to 0 rather than failing the whole document.
	Amount float64

	IncomeItem struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Person    Person    `json:"person"`
		Amount    Amount    `json:"amount"`
		Frequency Frequency `json:"frequency"`
		// Start/end dates are captured from the user but income is
		// treated as always active. See DESIGN.md.
		StartDate string `json:"startDate,omitempty"`
		EndDate   string `json:"endDate,omitempty"`
	}

	BillItem struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Amount    Amount    `json:"amount"`
		Frequency Frequency `json:"frequency"`
		Category  Category  `json:"category"`
		DueDay    int       `json:"dueDay,omitempty"`
		IsFixed   bool      `json:"isFixed,omitempty"`
	}

	Asset struct {
		ID         string    `json:"id"`
		Name       string    `json:"name"`
		Type       AssetType `json:"type"`
		Value      Amount    `json:"value"`
		GrowthRate Amount    `json:"growthRate,omitempty"` // % per year
		StartDate  string    `json:"startDate,omitempty"`

		// KiwiSaver contribution sources, only meaningful for
		// Type == KiwiSaver. Government is per year, the others per month.
		KiwiGovt     Amount `json:"kiwiGovt,omitempty"`
		KiwiEmployer Amount `json:"kiwiEmployer,omitempty"`
		KiwiPersonal Amount `json:"kiwiPersonal,omitempty"`
	}

	Liability struct {
		ID               string        `json:"id"`
		Name             string        `json:"name"`
		Type             LiabilityType `json:"type"`
		Balance          Amount        `json:"balance"`
		InterestRate     Amount        `json:"interestRate,omitempty"` // % per year
		MinPayment       Amount        `json:"minPayment,omitempty"`
		PaymentFrequency Frequency     `json:"paymentFrequency,omitempty"`
		CostCategory     Category      `json:"costCategory,omitempty"`
	}

	Goal struct {
		ID                  string   `json:"id"`
		Name                string   `json:"name"`
		TargetAmount        Amount   `json:"targetAmount"`
		CurrentAmount       Amount   `json:"currentAmount"`
		MonthlyContribution Amount   `json:"monthlyContribution,omitempty"`
		Deadline            string   `json:"deadline,omitempty"` // YYYY-MM
		Category            Category `json:"category"`
		Priority            Priority `json:"priority,omitempty"`
		IsExpense           bool     `json:"isExpense,omitempty"`
	}

	Transaction struct {
		ID          string          `json:"id"`
		Date        string          `json:"date"` // YYYY-MM-DD
		Description string          `json:"description"`
		Amount      Amount          `json:"amount"` // always positive
		Type        TransactionType `json:"type"`
		Category    Category        `json:"category"`
		// IsDuplicate is only populated during import preview.
		IsDuplicate bool `json:"isDuplicate,omitempty"`
	}

	CategoryRule struct {
		Keyword  string   `json:"keyword"`
		Category Category `json:"category"`
	}
)

// Categories lists the fixed expense categories in display order.
var Categories = []Category{Housing, Utilities, Food, Transport, Education, Healthcare, Lifestyle, Other}

// NormalizeCategory maps unknown or legacy category strings to Other so
// data migrated from older exports keeps aggregating.
func NormalizeCategory(c Category) Category {
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return Other
}

// Investable reports whether an asset can receive scenario contributions
// and lump sums.
func (t AssetType) Investable() bool {
	return t == Stock || t == Crypto || t == KiwiSaver
}

// MonthlyContribution returns the asset's standing monthly contribution.
// Only KiwiSaver assets contribute outside a scenario: the annual
// government contribution spread over twelve months plus the monthly
// employer and personal amounts.
func (a Asset) MonthlyContribution() float64 {
	if a.Type != KiwiSaver {
		return 0
	}
	return float64(a.KiwiGovt)/12 + float64(a.KiwiEmployer) + float64(a.KiwiPersonal)
}

// UnmarshalJSON accepts a JSON number, a numeric string ("123.45"), or
// null. Anything unparseable yields 0; a malformed amount never aborts a
// whole state import.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = 0
		return nil
	}
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	*a = Amount(ParseAmount(s))
	return nil
}

// ParseAmount converts a string to a float, yielding 0 on failure. This
// mirrors the forgiving numeric coercion the calculators rely on.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

var _ json.Unmarshaler = (*Amount)(nil)
