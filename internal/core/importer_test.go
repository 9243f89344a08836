package core

import (
	"testing"
	"time"
)

func TestDetectColumns(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    ColumnMapping
	}{
		{
			"kiwibank prefers effective date",
			[]string{"Transaction Date", "Effective Date", "Description", "Other Party Name", "Amount"},
			ColumnMapping{Date: 1, Description: 2, Amount: 4, OtherParty: 3},
		},
		{
			"generic statement",
			[]string{"Date", "Particulars", "Value"},
			ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: -1},
		},
		{
			"headerless fallback positions",
			[]string{"a", "b", "c", "d"},
			ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: -1},
		},
		{
			"any date-ish column on second pass",
			[]string{"Posted Time", "Memo", "Amount"},
			ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: -1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectColumns(tt.headers)
			if got != tt.want {
				t.Errorf("DetectColumns = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseBankDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"15/01/2026", "2026-01-15", true},
		{"15-01-2026", "2026-01-15", true},
		{"15.1.2026", "2026-01-15", true},
		{"2026-01-15", "2026-01-15", true},
		{"2026-01-15T10:30:00", "2026-01-15", true},
		{"15 Jan 2026", "2026-01-15", true},
		{"not a date", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseBankDate(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseBankDate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.Format(time.DateOnly) != tt.want {
			t.Errorf("ParseBankDate(%q) = %v, want %v", tt.in, got.Format(time.DateOnly), tt.want)
		}
	}
}

func TestParseRowAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"12.34", 12.34, true},
		{"-12.34", -12.34, true},
		{"$1,234.50", 1234.5, true},
		{"0", 0, false},
		{"0.00", 0, false},
		{"", 0, false},
		{"n/a", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseRowAmount(tt.in)
		if ok != tt.ok || !closeTo(got, tt.want) {
			t.Errorf("ParseRowAmount(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseRows(t *testing.T) {
	mapping := ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: -1}
	rows := [][]string{
		{"15/01/2026", "PAK N SAVE ROTORUA", "-84.50"},
		{"16/01/2026", "SALARY ACME LTD", "2500.00"},
		{"17/01/2026", "", "-10.00"},       // rejected: empty description
		{"18/01/2026", "FEE", "0.00"},      // rejected: zero amount
		{"19/01/2026", "REFUND", "oops"},   // rejected: non-numeric
		{"20/01/2026", "NETFLIX.COM", "-19.99"},
	}

	parsed := ParseRows(rows, mapping, nil, nil)
	if len(parsed) != 3 {
		t.Fatalf("expected 3 accepted rows, got %d", len(parsed))
	}

	groceries := parsed[0]
	if groceries.Type != ExpenseTransaction || !closeTo(float64(groceries.Amount), 84.5) {
		t.Errorf("groceries = %+v", groceries)
	}
	if groceries.Category != Food {
		t.Errorf("groceries category = %q, want %q", groceries.Category, Food)
	}
	if groceries.Date != "2026-01-15" {
		t.Errorf("groceries date = %q", groceries.Date)
	}

	salary := parsed[1]
	if salary.Type != IncomeTransaction || salary.Category != IncomeCategory {
		t.Errorf("salary = %+v", salary)
	}

	if parsed[2].Category != Lifestyle {
		t.Errorf("netflix category = %q, want %q", parsed[2].Category, Lifestyle)
	}

	for i, p := range parsed {
		if p.ID == "" {
			t.Errorf("row %d has no id", i)
		}
		if p.IsDuplicate {
			t.Errorf("row %d unexpectedly flagged duplicate", i)
		}
	}
}

func TestParseRowsFlagsDuplicates(t *testing.T) {
	mapping := ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: -1}
	existing := []Transaction{{Date: "2026-01-15", Description: "PAK N SAVE ROTORUA", Amount: 84.5}}
	rows := [][]string{
		{"15/01/2026", "PAK N SAVE ROTORUA", "-84.50"},
		{"15/01/2026", "PAK N SAVE ROTORUA", "-99.00"}, // different amount, not a dupe
	}

	parsed := ParseRows(rows, mapping, existing, nil)
	if len(parsed) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(parsed))
	}
	if !parsed[0].IsDuplicate {
		t.Error("identical (date, description, amount) should flag duplicate")
	}
	if parsed[1].IsDuplicate {
		t.Error("different amount should not flag duplicate")
	}
}

func TestParseRowsOtherParty(t *testing.T) {
	mapping := ColumnMapping{Date: 0, Description: 1, Amount: 2, OtherParty: 3}
	rows := [][]string{
		{"15/01/2026", "POS W/D 1234", "-30.00", "Les Mills Rotorua"},
		{"16/01/2026", "DIRECT DEBIT", "-45.00", "ACC 000000012345"},
	}

	parsed := ParseRows(rows, mapping, nil, nil)
	if parsed[0].Description != "Les Mills Rotorua" {
		t.Errorf("clean other party should become the description, got %q", parsed[0].Description)
	}
	if parsed[0].Category != Lifestyle {
		t.Errorf("other party should feed categorization, got %q", parsed[0].Category)
	}
	if parsed[1].Description != "DIRECT DEBIT" {
		t.Errorf("truncated account-number party should keep the raw description, got %q", parsed[1].Description)
	}
}
