package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"planner/internal/core"
	applog "planner/internal/log"
	"planner/internal/storage"
)

// ImportPreview is the parsed result of a bank CSV upload, held client
// side until the user commits it.
type ImportPreview struct {
	Transactions []core.Transaction `json:"transactions"`
	Total        int                `json:"total"`
	Duplicates   int                `json:"duplicates"`
	SkippedRows  int                `json:"skippedRows"`
}

// ImportService parses bank statement exports into transactions and
// commits approved rows to storage.
type ImportService struct {
	store  storage.Store
	logger *applog.Logger
}

func NewImportService(store storage.Store) *ImportService {
	return &ImportService{
		store:  store,
		logger: applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentImport),
	}
}

// Preview parses CSV data, detects the column layout, categorizes every
// usable row and flags duplicates against stored transactions. Nothing
// is persisted.
func (s *ImportService) Preview(ctx context.Context, data []byte) (ImportPreview, error) {
	rows, err := readCSV(data)
	if err != nil {
		return ImportPreview{}, fmt.Errorf("parse csv: %w", err)
	}
	if len(rows) == 0 {
		return ImportPreview{}, fmt.Errorf("parse csv: empty file")
	}

	state, err := s.store.LoadState(ctx)
	if err != nil {
		return ImportPreview{}, fmt.Errorf("load state: %w", err)
	}

	mapping := core.DetectColumns(rows[0])
	dataRows := rows
	if isHeaderRow(rows[0]) {
		dataRows = rows[1:]
	}

	parsed := core.ParseRows(dataRows, mapping, state.Transactions, state.CategoryRules)

	preview := ImportPreview{
		Transactions: parsed,
		Total:        len(parsed),
		SkippedRows:  len(dataRows) - len(parsed),
	}
	for _, t := range parsed {
		if t.IsDuplicate {
			preview.Duplicates++
		}
	}

	s.logger.InfoContext(ctx, "Parsed import preview",
		applog.FieldOperation, applog.OpParse,
		applog.FieldRowCount, len(dataRows),
		"accepted", preview.Total,
		"duplicates", preview.Duplicates,
		"skipped", preview.SkippedRows)
	return preview, nil
}

// Recategorize learns a custom rule from the description, persists it,
// and re-runs categorization over the pending preview rows. Income rows
// keep their category.
func (s *ImportService) Recategorize(ctx context.Context, rows []core.Transaction, description string, category core.Category) ([]core.Transaction, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return rows, fmt.Errorf("load state: %w", err)
	}

	category = core.NormalizeCategory(category)
	rules := core.LearnRule(state.CategoryRules, description, category)
	if err := s.store.ReplaceCategoryRules(ctx, rules); err != nil {
		return rows, fmt.Errorf("save category rules: %w", err)
	}

	updated := make([]core.Transaction, len(rows))
	for i, t := range rows {
		if t.Type == core.ExpenseTransaction {
			t.Category = core.Categorize(t.Description, rules)
		}
		updated[i] = t
	}
	return updated, nil
}

// Commit stores the approved preview rows. Duplicates are skipped unless
// includeDuplicates is set. Returns the number of stored transactions.
func (s *ImportService) Commit(ctx context.Context, rows []core.Transaction, includeDuplicates bool) (int, error) {
	var accepted []core.Transaction
	for _, t := range rows {
		if t.IsDuplicate && !includeDuplicates {
			continue
		}
		t.IsDuplicate = false
		accepted = append(accepted, t)
	}

	if err := s.store.AddTransactions(ctx, accepted); err != nil {
		return 0, fmt.Errorf("store transactions: %w", err)
	}

	s.logger.InfoContext(ctx, "Committed imported transactions",
		applog.FieldOperation, applog.OpImport,
		applog.FieldRowCount, len(accepted),
		"include_duplicates", includeDuplicates)
	return len(accepted), nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// isHeaderRow treats the first line as headers unless one of its cells
// already parses as a date, which means the export has no header line.
func isHeaderRow(row []string) bool {
	for _, cell := range row {
		if _, ok := core.ParseBankDate(cell); ok {
			return false
		}
	}
	return true
}
