package core

import "strings"

// Categorize classifies a transaction description. User-learned rules
// are scanned in order before the built-in table; within each list the
// first substring match wins, so ordering is part of the contract. An
// unmatched description falls back to Other.
func Categorize(description string, customRules []CategoryRule) Category {
	lower := strings.ToLower(description)
	for _, rule := range customRules {
		if strings.Contains(lower, strings.ToLower(rule.Keyword)) {
			return rule.Category
		}
	}
	for _, rule := range defaultCategoryRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Category
		}
	}
	return Other
}

// RuleKeyword derives the learned keyword for a correction: the first
// two whitespace-separated words of the description lowercased, or the
// single word if only one exists. Empty when the description has none.
func RuleKeyword(description string) string {
	words := strings.Fields(strings.ToLower(description))
	if len(words) >= 2 {
		return strings.Join(words[:2], " ")
	}
	if len(words) == 1 {
		return words[0]
	}
	return ""
}

// LearnRule records a user correction as a custom rule, replacing any
// existing rule with the identical keyword. It returns a new slice; the
// input is never mutated. A description yielding no keyword learns
// nothing.
func LearnRule(rules []CategoryRule, description string, category Category) []CategoryRule {
	keyword := RuleKeyword(description)
	if keyword == "" {
		return rules
	}
	out := make([]CategoryRule, 0, len(rules)+1)
	for _, r := range rules {
		if r.Keyword != keyword {
			out = append(out, r)
		}
	}
	return append(out, CategoryRule{Keyword: keyword, Category: category})
}
