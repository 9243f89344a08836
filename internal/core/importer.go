package core

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ColumnMapping maps statement columns by index. OtherParty is -1 when
// the statement has no such column.
type ColumnMapping struct {
	Date        int `json:"date"`
	Description int `json:"description"`
	Amount      int `json:"amount"`
	OtherParty  int `json:"otherParty"`
}

// DetectColumns guesses a column mapping from CSV headers. Kiwibank
// exports carry both a "transaction date" and an "effective date"; the
// effective date is preferred. Falls back to positional defaults for
// statements with unhelpful headers.
func DetectColumns(headers []string) ColumnMapping {
	lower := make([]string, len(headers))
	for i, h := range headers {
		lower[i] = strings.ToLower(strings.TrimSpace(h))
	}
	mapping := ColumnMapping{Date: -1, Description: -1, Amount: -1, OtherParty: -1}

	for i, h := range lower {
		if mapping.Date == -1 && (h == "effective date" || h == "date") {
			mapping.Date = i
		}
		if mapping.Description == -1 && (strings.Contains(h, "desc") || strings.Contains(h, "particular") ||
			strings.Contains(h, "detail") || strings.Contains(h, "narrat") ||
			strings.Contains(h, "memo") || strings.Contains(h, "payee")) {
			mapping.Description = i
		}
		if mapping.Amount == -1 && (strings.Contains(h, "amount") || strings.Contains(h, "value") || strings.Contains(h, "sum")) {
			mapping.Amount = i
		}
		if mapping.OtherParty == -1 && strings.Contains(h, "other party name") {
			mapping.OtherParty = i
		}
	}

	if mapping.Date == -1 {
		for i, h := range lower {
			if strings.Contains(h, "date") || strings.Contains(h, "time") {
				mapping.Date = i
				break
			}
		}
	}

	if mapping.Date == -1 {
		mapping.Date = 0
	}
	if mapping.Description == -1 {
		mapping.Description = min(1, len(headers)-1)
	}
	if mapping.Amount == -1 {
		mapping.Amount = min(len(headers)-1, 2)
	}
	return mapping
}

var (
	dmyDatePattern = regexp.MustCompile(`^(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})$`)
	isoDatePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// ParseBankDate parses the date formats NZ bank exports use: DD/MM/YYYY
// (also with - or . separators), ISO YYYY-MM-DD, and "15 Jan 2026".
func ParseBankDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := dmyDatePattern.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if t, ok := civilDate(year, month, day); ok {
			return t, true
		}
	}
	if m := isoDatePattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		if t, ok := civilDate(year, month, day); ok {
			return t, true
		}
	}
	for _, layout := range []string{"2 Jan 2006", "2 January 2006", "Jan 2, 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func civilDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// amountCleaner strips thousands separators and currency symbols before
// numeric parsing.
var amountCleaner = strings.NewReplacer(",", "", "$", "")

// ParseRowAmount parses a raw statement amount cell. The boolean is
// false for empty, non-numeric, or zero amounts; such rows are rejected
// by the import policy.
func ParseRowAmount(raw string) (float64, bool) {
	cleaned := strings.TrimSpace(amountCleaner.Replace(raw))
	d, err := decimal.NewFromString(cleaned)
	if err != nil || d.IsZero() {
		return 0, false
	}
	return d.InexactFloat64(), true
}

// DuplicateKey identifies a transaction for import de-duplication: the
// exact (date, description, amount) triple.
func DuplicateKey(date, description string, amount float64) string {
	return date + "|" + description + "|" + strconv.FormatFloat(amount, 'f', -1, 64)
}

// ParseRows converts raw statement rows into categorized transactions.
//
// A row is accepted only when it yields a non-empty description and a
// non-zero numeric amount; rejected rows are dropped silently. The raw
// amount's sign decides income versus expense and the stored amount is
// its absolute value. Expenses are categorized against the custom rules
// then the built-in table, using the other-party name as extra signal
// when present; the other-party name also replaces the description for
// display unless it looks like a truncated account number. Rows whose
// (date, description, amount) triple matches an existing transaction
// are flagged as duplicates for the preview.
func ParseRows(rows [][]string, mapping ColumnMapping, existing []Transaction, rules []CategoryRule) []Transaction {
	seen := make(map[string]struct{}, len(existing))
	for _, t := range existing {
		seen[DuplicateKey(t.Date, t.Description, float64(t.Amount))] = struct{}{}
	}

	parsed := make([]Transaction, 0, len(rows))
	for _, row := range rows {
		desc := strings.TrimSpace(cell(row, mapping.Description))
		otherParty := ""
		if mapping.OtherParty >= 0 {
			otherParty = strings.TrimSpace(cell(row, mapping.OtherParty))
		}
		amountRaw, ok := ParseRowAmount(cell(row, mapping.Amount))
		if desc == "" || !ok {
			continue
		}

		date := ""
		if t, ok := ParseBankDate(cell(row, mapping.Date)); ok {
			date = t.Format("2006-01-02")
		}

		amount := amountRaw
		txType := IncomeTransaction
		if amountRaw < 0 {
			amount = -amountRaw
			txType = ExpenseTransaction
		}

		catSource := desc
		if otherParty != "" {
			catSource = desc + " " + otherParty
		}
		category := IncomeCategory
		if txType == ExpenseTransaction {
			category = Categorize(catSource, rules)
		}

		displayDesc := desc
		if otherParty != "" && !strings.Contains(otherParty, "0000000") {
			displayDesc = otherParty
		}

		key := DuplicateKey(date, displayDesc, amount)
		_, isDuplicate := seen[key]

		parsed = append(parsed, Transaction{
			ID:          uuid.NewString(),
			Date:        date,
			Description: displayDesc,
			Amount:      Amount(amount),
			Type:        txType,
			Category:    category,
			IsDuplicate: isDuplicate,
		})
	}
	return parsed
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
