package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"planner/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "planner.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if err := repo.SaveIncome(ctx, core.IncomeItem{ID: "i1", Name: "Salary", Person: core.Self, Amount: 1200, Frequency: core.Weekly}); err != nil {
		t.Fatalf("SaveIncome: %v", err)
	}
	if err := repo.SaveLiability(ctx, core.Liability{ID: "l1", Name: "Home Loan", Type: core.Mortgage, Balance: 400000, InterestRate: 6, MinPayment: 700, PaymentFrequency: core.Fortnightly}); err != nil {
		t.Fatalf("SaveLiability: %v", err)
	}
	if err := repo.SaveGoal(ctx, core.Goal{ID: "g1", Name: "School Fees", TargetAmount: 6000, MonthlyContribution: 500, IsExpense: true, Category: core.Education}); err != nil {
		t.Fatalf("SaveGoal: %v", err)
	}
	if err := repo.SaveHomeName(ctx, "Rotorua"); err != nil {
		t.Fatalf("SaveHomeName: %v", err)
	}
	if err := repo.SaveSettings(ctx, core.Settings{MinSurplusPercent: 10}); err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	s, err := repo.LoadState(ctx)
	if err != nil {
		t.Fatalf("LoadState: %v", err)
	}
	if len(s.Income) != 1 || s.Income[0].Frequency != core.Weekly {
		t.Errorf("income = %+v", s.Income)
	}
	if len(s.Liabilities) != 1 || s.Liabilities[0].PaymentFrequency != core.Fortnightly {
		t.Errorf("liabilities = %+v", s.Liabilities)
	}
	if len(s.Goals) != 1 || !s.Goals[0].IsExpense {
		t.Errorf("goals = %+v", s.Goals)
	}
	if s.HomeName != "Rotorua" {
		t.Errorf("HomeName = %q", s.HomeName)
	}
	if float64(s.Settings.MinSurplusPercent) != 10 {
		t.Errorf("MinSurplusPercent = %v", s.Settings.MinSurplusPercent)
	}
}

func TestSQLiteUpsertAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	asset := core.Asset{ID: "a1", Name: "Shares", Type: core.Stock, Value: 5000, GrowthRate: 7}
	if err := repo.SaveAsset(ctx, asset); err != nil {
		t.Fatalf("SaveAsset: %v", err)
	}
	asset.Value = 6000
	if err := repo.SaveAsset(ctx, asset); err != nil {
		t.Fatalf("SaveAsset update: %v", err)
	}

	s, _ := repo.LoadState(ctx)
	if len(s.Assets) != 1 || float64(s.Assets[0].Value) != 6000 {
		t.Errorf("assets after upsert = %+v", s.Assets)
	}

	if err := repo.DeleteAsset(ctx, "a1"); err != nil {
		t.Fatalf("DeleteAsset: %v", err)
	}
	if err := repo.DeleteAsset(ctx, "a1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteTransactionsAndRules(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	txs := []core.Transaction{
		{ID: "t1", Date: "2026-01-15", Description: "PAK N SAVE", Amount: 84.5, Type: core.ExpenseTransaction, Category: core.Food},
		{ID: "t2", Date: "2026-01-16", Description: "SALARY", Amount: 2500, Type: core.IncomeTransaction, Category: core.IncomeCategory},
	}
	if err := repo.AddTransactions(ctx, txs); err != nil {
		t.Fatalf("AddTransactions: %v", err)
	}

	updated := txs[0]
	updated.Category = core.Lifestyle
	if err := repo.UpdateTransaction(ctx, updated); err != nil {
		t.Fatalf("UpdateTransaction: %v", err)
	}
	if err := repo.UpdateTransaction(ctx, core.Transaction{ID: "ghost"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("updating missing transaction err = %v, want ErrNotFound", err)
	}

	rules := []core.CategoryRule{
		{Keyword: "pak n", Category: core.Food},
		{Keyword: "les mills", Category: core.Lifestyle},
	}
	if err := repo.ReplaceCategoryRules(ctx, rules); err != nil {
		t.Fatalf("ReplaceCategoryRules: %v", err)
	}

	s, _ := repo.LoadState(ctx)
	if len(s.Transactions) != 2 {
		t.Fatalf("transactions = %d, want 2", len(s.Transactions))
	}
	if s.Transactions[0].Category != core.Lifestyle {
		t.Errorf("updated category = %q", s.Transactions[0].Category)
	}
	// Rule order must survive the round trip.
	if len(s.CategoryRules) != 2 || s.CategoryRules[0].Keyword != "pak n" {
		t.Errorf("rules = %+v", s.CategoryRules)
	}
}

func TestSQLiteReplaceState(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	repo.SaveBill(ctx, core.BillItem{ID: "old", Name: "Old Bill", Amount: 10})

	var incoming core.State
	incoming.Bills = []core.BillItem{{ID: "new", Name: "New Bill", Amount: 20, Frequency: core.Monthly}}
	incoming.HomeName = "Tauranga"
	incoming.CostOfLiving.Comparisons = []core.Comparison{{Name: "Wellington"}}

	if err := repo.ReplaceState(ctx, incoming); err != nil {
		t.Fatalf("ReplaceState: %v", err)
	}

	s, _ := repo.LoadState(ctx)
	if len(s.Bills) != 1 || s.Bills[0].ID != "new" {
		t.Errorf("bills after replace = %+v", s.Bills)
	}
	if s.HomeName != "Tauranga" {
		t.Errorf("HomeName = %q", s.HomeName)
	}
	if len(s.CostOfLiving.Comparisons) != 1 || s.CostOfLiving.Comparisons[0].Name != "Wellington" {
		t.Errorf("comparisons = %+v", s.CostOfLiving.Comparisons)
	}
}

func TestSQLiteSnapshots(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	older := Snapshot{ID: "s1", TakenAt: time.Date(2026, 1, 1, 3, 0, 0, 0, time.UTC), NetWorth: 40000, TotalAssets: 50000, TotalLiabilities: 10000}
	newer := Snapshot{ID: "s2", TakenAt: time.Date(2026, 2, 1, 3, 0, 0, 0, time.UTC), NetWorth: 41000, TotalAssets: 51000, TotalLiabilities: 10000}

	// Insert out of order; listing sorts by time.
	if err := repo.SaveSnapshot(ctx, newer); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := repo.SaveSnapshot(ctx, older); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	snaps, err := repo.ListSnapshots(ctx)
	if err != nil {
		t.Fatalf("ListSnapshots: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("snapshots = %d, want 2", len(snaps))
	}
	if snaps[0].ID != "s1" || snaps[1].ID != "s2" {
		t.Errorf("snapshot order = %s, %s", snaps[0].ID, snaps[1].ID)
	}
	if snaps[1].NetWorth != 41000 {
		t.Errorf("NetWorth = %v", snaps[1].NetWorth)
	}
}
