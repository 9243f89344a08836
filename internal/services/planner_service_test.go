package services

import (
	"context"
	"errors"
	"testing"

	"planner/internal/core"
	"planner/internal/storage"
)

func newTestPlanner(t *testing.T) (*PlannerService, storage.Store) {
	t.Helper()
	store, err := storage.NewMemoryRepository("")
	if err != nil {
		t.Fatalf("NewMemoryRepository: %v", err)
	}
	return NewPlannerService(store, nil), store
}

func seedBudgetState(t *testing.T, store storage.Store) {
	t.Helper()
	ctx := context.Background()
	var s core.State
	s.Income = []core.IncomeItem{{ID: "i1", Name: "Salary", Amount: 5000, Frequency: core.Monthly}}
	s.Bills = []core.BillItem{{ID: "b1", Name: "Rent", Amount: 4500, Frequency: core.Monthly}}
	s.Settings = core.Settings{MinSurplusPercent: 10}
	if err := store.ReplaceState(ctx, s); err != nil {
		t.Fatalf("seed state: %v", err)
	}
}

func TestSaveIncomeAssignsID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestPlanner(t)

	saved, err := svc.SaveIncome(ctx, core.IncomeItem{Name: "Salary", Amount: 1000, Frequency: core.Weekly})
	if err != nil {
		t.Fatalf("SaveIncome: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected an assigned id")
	}

	saved.Amount = 1100
	updated, err := svc.SaveIncome(ctx, saved)
	if err != nil {
		t.Fatalf("SaveIncome update: %v", err)
	}
	if updated.ID != saved.ID {
		t.Errorf("update changed id: %q -> %q", saved.ID, updated.ID)
	}

	state, _ := svc.State(ctx)
	if len(state.Income) != 1 || float64(state.Income[0].Amount) != 1100 {
		t.Errorf("income = %+v", state.Income)
	}
}

func TestSaveBillBudgetGuard(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPlanner(t)
	seedBudgetState(t, store)

	// Surplus 500 equals the floor: any new bill breaches it.
	_, check, err := svc.SaveBill(ctx, core.BillItem{Name: "Gym", Amount: 100, Frequency: core.Monthly}, false)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
	if check.Feasible {
		t.Error("check should be infeasible")
	}
	if check.Deficit != 100 {
		t.Errorf("Deficit = %v, want 100", check.Deficit)
	}

	state, _ := svc.State(ctx)
	if len(state.Bills) != 1 {
		t.Fatalf("rejected bill was saved: %+v", state.Bills)
	}

	// Force overrides the guard.
	saved, _, err := svc.SaveBill(ctx, core.BillItem{Name: "Gym", Amount: 100, Frequency: core.Monthly}, true)
	if err != nil {
		t.Fatalf("forced SaveBill: %v", err)
	}
	if saved.ID == "" {
		t.Error("forced save should assign an id")
	}
	state, _ = svc.State(ctx)
	if len(state.Bills) != 2 {
		t.Errorf("bills = %d, want 2", len(state.Bills))
	}
}

func TestSaveGoalBudgetGuard(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPlanner(t)
	seedBudgetState(t, store)

	// Non-expense goals bypass the guard.
	if _, _, err := svc.SaveGoal(ctx, core.Goal{Name: "Savings", MonthlyContribution: 9999}, false); err != nil {
		t.Fatalf("non-expense goal: %v", err)
	}

	_, _, err := svc.SaveGoal(ctx, core.Goal{Name: "Fees", MonthlyContribution: 600, IsExpense: true}, false)
	if !errors.Is(err, ErrBudgetExceeded) {
		t.Fatalf("err = %v, want ErrBudgetExceeded", err)
	}
}

func TestRecategorizeTransactionLearnsRule(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPlanner(t)

	var s core.State
	s.Transactions = []core.Transaction{
		{ID: "t1", Date: "2026-01-15", Description: "JOES CAFE ROTORUA", Amount: 12, Type: core.ExpenseTransaction, Category: core.Other},
	}
	store.ReplaceState(ctx, s)

	updated, err := svc.RecategorizeTransaction(ctx, "t1", core.Lifestyle)
	if err != nil {
		t.Fatalf("RecategorizeTransaction: %v", err)
	}
	if updated.Category != core.Lifestyle {
		t.Errorf("category = %q", updated.Category)
	}

	state, _ := svc.State(ctx)
	if len(state.CategoryRules) != 1 {
		t.Fatalf("rules = %+v", state.CategoryRules)
	}
	if state.CategoryRules[0].Keyword != "joes cafe" {
		t.Errorf("learned keyword = %q", state.CategoryRules[0].Keyword)
	}

	if _, err := svc.RecategorizeTransaction(ctx, "missing", core.Food); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("missing id err = %v, want ErrNotFound", err)
	}
}

func TestRecordSnapshot(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPlanner(t)

	var s core.State
	s.Assets = []core.Asset{{ID: "a1", Value: 100000}}
	s.Liabilities = []core.Liability{{ID: "l1", Balance: 40000}}
	s.Income = []core.IncomeItem{{ID: "i1", Amount: 5000, Frequency: core.Monthly}}
	s.Bills = []core.BillItem{{ID: "b1", Amount: 3000, Frequency: core.Monthly}}
	store.ReplaceState(ctx, s)

	snap, err := svc.RecordSnapshot(ctx, "test")
	if err != nil {
		t.Fatalf("RecordSnapshot: %v", err)
	}
	if snap.NetWorth != 60000 {
		t.Errorf("NetWorth = %v, want 60000", snap.NetWorth)
	}
	if snap.MonthlyCashFlow != 2000 {
		t.Errorf("MonthlyCashFlow = %v, want 2000", snap.MonthlyCashFlow)
	}
	if snap.SavingsRate != 40 {
		t.Errorf("SavingsRate = %v, want 40", snap.SavingsRate)
	}

	snaps, _ := svc.Snapshots(ctx)
	if len(snaps) != 1 || snaps[0].ID != snap.ID {
		t.Errorf("snapshots = %+v", snaps)
	}
}

func TestImportStateReplacesDocument(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestPlanner(t)
	seedBudgetState(t, store)

	var incoming core.State
	incoming.Assets = []core.Asset{{ID: "a1", Name: "House", Type: core.Property, Value: 650000}}
	if err := svc.ImportState(ctx, incoming); err != nil {
		t.Fatalf("ImportState: %v", err)
	}

	state, _ := svc.State(ctx)
	if len(state.Income) != 0 || len(state.Bills) != 0 {
		t.Error("old document survived import")
	}
	if len(state.Assets) != 1 {
		t.Errorf("assets = %+v", state.Assets)
	}
	if state.HomeName != core.DefaultHomeName {
		t.Errorf("HomeName = %q, want default", state.HomeName)
	}
}
