package core

import "testing"

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		description string
		rules       []CategoryRule
		want        Category
	}{
		{"supermarket", "PAK N SAVE ROTORUA", nil, Food},
		{"fuel", "Z ENERGY 2GO LTD", nil, Transport},
		{"power", "MERCURY ENERGY", nil, Utilities},
		{"streaming", "NETFLIX.COM", nil, Lifestyle},
		{"unmatched falls back", "MYSTERY SHOP 42", nil, Other},
		{
			"custom rule overrides default",
			"JOE'S CAFE COUNTDOWN LANE",
			[]CategoryRule{{Keyword: "joe's cafe", Category: Lifestyle}},
			Lifestyle,
		},
		{
			"custom rules scanned in order, first match wins",
			"ABC XYZ",
			[]CategoryRule{{Keyword: "abc", Category: Transport}, {Keyword: "xyz", Category: Food}},
			Transport,
		},
		{
			"custom keyword matched case-insensitively",
			"payment to GYM",
			[]CategoryRule{{Keyword: "GYM", Category: Healthcare}},
			Healthcare,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Categorize(tt.description, tt.rules)
			if got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.description, got, tt.want)
			}
		})
	}
}

func TestDefaultTableOrderIsMeaningful(t *testing.T) {
	// "chemist wareh" appears before "chemist"; both are healthcare, but
	// the scan must stop at the first entry, not keep searching.
	if got := Categorize("CHEMIST WAREHOUSE NZ", nil); got != Healthcare {
		t.Errorf("Categorize = %q, want %q", got, Healthcare)
	}
}

func TestRuleKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PAK N SAVE ROTORUA", "pak n"},
		{"NETFLIX", "netflix"},
		{"  spaced   out  words ", "spaced out"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := RuleKeyword(tt.in); got != tt.want {
			t.Errorf("RuleKeyword(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLearnRule(t *testing.T) {
	rules := []CategoryRule{{Keyword: "old keyword", Category: Food}}

	learned := LearnRule(rules, "Joe's Cafe Rotorua", Lifestyle)
	if len(learned) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(learned))
	}
	if learned[1].Keyword != "joe's cafe" || learned[1].Category != Lifestyle {
		t.Errorf("learned rule = %+v", learned[1])
	}

	// Relearning the same keyword replaces, not duplicates.
	relearned := LearnRule(learned, "JOE'S CAFE downtown", Food)
	if len(relearned) != 2 {
		t.Fatalf("expected 2 rules after relearn, got %d", len(relearned))
	}
	if relearned[1].Category != Food {
		t.Errorf("relearned category = %q, want %q", relearned[1].Category, Food)
	}

	// Input slice untouched.
	if len(rules) != 1 {
		t.Errorf("input rules mutated, len = %d", len(rules))
	}

	// Future imports of a matching description use the learned rule.
	if got := Categorize("JOE'S CAFE AUCKLAND", learned); got != Lifestyle {
		t.Errorf("learned rule not applied: got %q", got)
	}
}

func TestLearnRuleEmptyDescription(t *testing.T) {
	rules := []CategoryRule{{Keyword: "x", Category: Food}}
	if got := LearnRule(rules, "   ", Lifestyle); len(got) != 1 {
		t.Errorf("empty description should learn nothing, got %d rules", len(got))
	}
}
