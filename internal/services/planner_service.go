package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"planner/internal/amqp"
	"planner/internal/core"
	applog "planner/internal/log"
	"planner/internal/storage"
)

// ErrBudgetExceeded is returned when a new commitment would push the
// monthly surplus below the configured floor and force was not set.
var ErrBudgetExceeded = errors.New("budget floor exceeded")

// Summary is the headline dashboard figures computed from live state.
type Summary struct {
	NetWorth            float64 `json:"netWorth"`
	TotalAssets         float64 `json:"totalAssets"`
	TotalLiabilities    float64 `json:"totalLiabilities"`
	MonthlyIncome       float64 `json:"monthlyIncome"`
	MonthlyExpenses     float64 `json:"monthlyExpenses"`
	MonthlyDebtPayments float64 `json:"monthlyDebtPayments"`
	MonthlyGoalExpenses float64 `json:"monthlyGoalExpenses"`
	MonthlySurplus      float64 `json:"monthlySurplus"`
	SavingsRate         float64 `json:"savingsRate"`
}

// PlannerService orchestrates plan edits across storage and AMQP. Every
// successful write publishes a state change trigger so the snapshot
// worker can record history; a dead broker never fails the write.
type PlannerService struct {
	store      storage.Store
	amqpClient *amqp.Client
	logger     *applog.Logger
	now        func() time.Time
}

func NewPlannerService(store storage.Store, amqpClient *amqp.Client) *PlannerService {
	return &PlannerService{
		store:      store,
		amqpClient: amqpClient,
		logger:     applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentPlanner),
		now:        time.Now,
	}
}

// State returns the full normalized planning document.
func (s *PlannerService) State(ctx context.Context) (core.State, error) {
	return s.store.LoadState(ctx)
}

// Summarize computes the dashboard headline figures.
func (s *PlannerService) Summarize(ctx context.Context) (Summary, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("load state: %w", err)
	}
	return s.summarize(state), nil
}

func (s *PlannerService) summarize(state core.State) Summary {
	now := core.YearMonthOf(s.now())
	income := core.MonthlyIncome(state.Income)
	expenses := core.MonthlyExpenses(state.Bills)
	debt := core.MonthlyDebtPayments(state.Liabilities)
	goals := core.MonthlyGoalExpenses(state.Goals, now)
	surplus := income - expenses - debt - goals
	return Summary{
		NetWorth:            core.NetWorth(state.Assets, state.Liabilities),
		TotalAssets:         core.TotalAssets(state.Assets),
		TotalLiabilities:    core.TotalLiabilities(state.Liabilities),
		MonthlyIncome:       income,
		MonthlyExpenses:     expenses,
		MonthlyDebtPayments: debt,
		MonthlyGoalExpenses: goals,
		MonthlySurplus:      surplus,
		SavingsRate:         core.SavingsRate(state.Income, state.Bills),
	}
}

// SaveIncome creates or updates an income item. A missing id means
// create and gets a fresh one assigned.
func (s *PlannerService) SaveIncome(ctx context.Context, item core.IncomeItem) (core.IncomeItem, error) {
	action := actionFor(&item.ID)
	if err := s.store.SaveIncome(ctx, item); err != nil {
		return item, fmt.Errorf("save income: %w", err)
	}
	s.publishChange(ctx, "income", item.ID, action)
	return item, nil
}

func (s *PlannerService) DeleteIncome(ctx context.Context, id string) error {
	if err := s.store.DeleteIncome(ctx, id); err != nil {
		return fmt.Errorf("delete income: %w", err)
	}
	s.publishChange(ctx, "income", id, "delete")
	return nil
}

// SaveBill creates or updates a bill, enforcing the budget floor. When
// the commitment is infeasible and force is false the bill is not saved
// and the check explains the deficit.
func (s *PlannerService) SaveBill(ctx context.Context, bill core.BillItem, force bool) (core.BillItem, core.BudgetCheck, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return bill, core.BudgetCheck{}, fmt.Errorf("load state: %w", err)
	}

	var oldBill *core.BillItem
	for i := range state.Bills {
		if state.Bills[i].ID == bill.ID {
			oldBill = &state.Bills[i]
			break
		}
	}

	check := core.CheckBillCommitment(state, oldBill, bill, core.YearMonthOf(s.now()))
	if !check.Feasible && !force {
		return bill, check, ErrBudgetExceeded
	}

	action := actionFor(&bill.ID)
	if err := s.store.SaveBill(ctx, bill); err != nil {
		return bill, check, fmt.Errorf("save bill: %w", err)
	}
	s.publishChange(ctx, "bill", bill.ID, action)
	return bill, check, nil
}

func (s *PlannerService) DeleteBill(ctx context.Context, id string) error {
	if err := s.store.DeleteBill(ctx, id); err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	s.publishChange(ctx, "bill", id, "delete")
	return nil
}

func (s *PlannerService) SaveAsset(ctx context.Context, a core.Asset) (core.Asset, error) {
	action := actionFor(&a.ID)
	if err := s.store.SaveAsset(ctx, a); err != nil {
		return a, fmt.Errorf("save asset: %w", err)
	}
	s.publishChange(ctx, "asset", a.ID, action)
	return a, nil
}

func (s *PlannerService) DeleteAsset(ctx context.Context, id string) error {
	if err := s.store.DeleteAsset(ctx, id); err != nil {
		return fmt.Errorf("delete asset: %w", err)
	}
	s.publishChange(ctx, "asset", id, "delete")
	return nil
}

func (s *PlannerService) SaveLiability(ctx context.Context, l core.Liability) (core.Liability, error) {
	if l.PaymentFrequency == "" {
		l.PaymentFrequency = core.Monthly
	}
	action := actionFor(&l.ID)
	if err := s.store.SaveLiability(ctx, l); err != nil {
		return l, fmt.Errorf("save liability: %w", err)
	}
	s.publishChange(ctx, "liability", l.ID, action)
	return l, nil
}

func (s *PlannerService) DeleteLiability(ctx context.Context, id string) error {
	if err := s.store.DeleteLiability(ctx, id); err != nil {
		return fmt.Errorf("delete liability: %w", err)
	}
	s.publishChange(ctx, "liability", id, "delete")
	return nil
}

// SaveGoal creates or updates a goal, enforcing the budget floor for
// expense-marked goals.
func (s *PlannerService) SaveGoal(ctx context.Context, g core.Goal, force bool) (core.Goal, core.BudgetCheck, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return g, core.BudgetCheck{}, fmt.Errorf("load state: %w", err)
	}

	var oldGoal *core.Goal
	for i := range state.Goals {
		if state.Goals[i].ID == g.ID {
			oldGoal = &state.Goals[i]
			break
		}
	}

	check := core.CheckGoalCommitment(state, oldGoal, g, core.YearMonthOf(s.now()))
	if !check.Feasible && !force {
		return g, check, ErrBudgetExceeded
	}

	action := actionFor(&g.ID)
	if err := s.store.SaveGoal(ctx, g); err != nil {
		return g, check, fmt.Errorf("save goal: %w", err)
	}
	s.publishChange(ctx, "goal", g.ID, action)
	return g, check, nil
}

func (s *PlannerService) DeleteGoal(ctx context.Context, id string) error {
	if err := s.store.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	s.publishChange(ctx, "goal", id, "delete")
	return nil
}

// RecategorizeTransaction changes a stored transaction's category and
// learns a custom rule from its description so future imports follow.
func (s *PlannerService) RecategorizeTransaction(ctx context.Context, id string, category core.Category) (core.Transaction, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load state: %w", err)
	}

	var target *core.Transaction
	for i := range state.Transactions {
		if state.Transactions[i].ID == id {
			target = &state.Transactions[i]
			break
		}
	}
	if target == nil {
		return core.Transaction{}, storage.ErrNotFound
	}

	target.Category = core.NormalizeCategory(category)
	if err := s.store.UpdateTransaction(ctx, *target); err != nil {
		return *target, fmt.Errorf("update transaction: %w", err)
	}

	rules := core.LearnRule(state.CategoryRules, target.Description, target.Category)
	if err := s.store.ReplaceCategoryRules(ctx, rules); err != nil {
		return *target, fmt.Errorf("save category rules: %w", err)
	}

	s.publishChange(ctx, "transaction", id, "update")
	return *target, nil
}

func (s *PlannerService) DeleteTransaction(ctx context.Context, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publishChange(ctx, "transaction", id, "delete")
	return nil
}

func (s *PlannerService) SaveSettings(ctx context.Context, settings core.Settings) error {
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.publishChange(ctx, "settings", "", "update")
	return nil
}

// SaveCostOfLiving stores the home name and comparison locations.
func (s *PlannerService) SaveCostOfLiving(ctx context.Context, homeName string, col core.CostOfLiving) error {
	if homeName == "" {
		homeName = core.DefaultHomeName
	}
	for i := range col.Comparisons {
		if col.Comparisons[i].Name == "" {
			col.Comparisons[i].Name = fmt.Sprintf("Location %d", i+1)
		}
	}
	if err := s.store.SaveHomeName(ctx, homeName); err != nil {
		return fmt.Errorf("save home name: %w", err)
	}
	if err := s.store.SaveCostOfLiving(ctx, col); err != nil {
		return fmt.Errorf("save cost of living: %w", err)
	}
	s.publishChange(ctx, "costofliving", "", "update")
	return nil
}

// ExportState returns the full document for download.
func (s *PlannerService) ExportState(ctx context.Context) (core.State, error) {
	return s.store.LoadState(ctx)
}

// ImportState replaces the whole document with an uploaded one. Missing
// collections fill with defaults; nothing of the old document survives.
func (s *PlannerService) ImportState(ctx context.Context, incoming core.State) error {
	if err := s.store.ReplaceState(ctx, incoming); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	s.publishChange(ctx, "state", "", "import")
	return nil
}

// RecordSnapshot computes and stores a snapshot of the current position.
func (s *PlannerService) RecordSnapshot(ctx context.Context, reason string) (storage.Snapshot, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return storage.Snapshot{}, fmt.Errorf("load state: %w", err)
	}

	summary := s.summarize(state)
	snap := storage.Snapshot{
		ID:               uuid.NewString(),
		TakenAt:          s.now(),
		NetWorth:         summary.NetWorth,
		TotalAssets:      summary.TotalAssets,
		TotalLiabilities: summary.TotalLiabilities,
		MonthlyCashFlow:  summary.MonthlySurplus,
		SavingsRate:      summary.SavingsRate,
	}
	if err := s.store.SaveSnapshot(ctx, snap); err != nil {
		return snap, fmt.Errorf("save snapshot: %w", err)
	}

	s.logger.InfoContext(ctx, "Recorded snapshot",
		applog.FieldOperation, applog.OpSnapshot,
		"reason", reason,
		applog.FieldNetWorth, snap.NetWorth,
		"savings_rate", snap.SavingsRate)
	return snap, nil
}

// Snapshots lists the recorded history in chronological order.
func (s *PlannerService) Snapshots(ctx context.Context) ([]storage.Snapshot, error) {
	return s.store.ListSnapshots(ctx)
}

func (s *PlannerService) publishChange(ctx context.Context, entity, id, action string) {
	if s.amqpClient == nil {
		return
	}
	if err := s.amqpClient.PublishStateChanged(ctx, entity, id, action); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish state change",
			applog.FieldEntity, entity,
			applog.FieldEntityID, id,
			applog.FieldError, err.Error())
		// The write already succeeded; history just lags.
	}
}

// Close closes both storage and AMQP connections
func (s *PlannerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close planner service: %v", errs)
	}

	return nil
}

// actionFor assigns an id when missing and reports whether this is a
// create or an update.
func actionFor(id *string) string {
	if *id == "" {
		*id = uuid.NewString()
		return "create"
	}
	return "update"
}
