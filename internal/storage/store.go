package storage

import (
	"context"
	"errors"
	"time"

	"planner/internal/core"
)

// ErrNotFound is returned when an entity id does not exist.
var ErrNotFound = errors.New("not found")

// Snapshot is a point-in-time record of the household's position, written
// by the snapshot worker so net worth history survives plan edits.
type Snapshot struct {
	ID               string    `json:"id"`
	TakenAt          time.Time `json:"takenAt"`
	NetWorth         float64   `json:"netWorth"`
	TotalAssets      float64   `json:"totalAssets"`
	TotalLiabilities float64   `json:"totalLiabilities"`
	MonthlyCashFlow  float64   `json:"monthlyCashFlow"`
	SavingsRate      float64   `json:"savingsRate"`
}

// Store persists the planning document and snapshot history. Both the
// SQLite and the memory repository implement it.
type Store interface {
	// LoadState reads the full document. The returned state is normalized.
	LoadState(ctx context.Context) (core.State, error)

	// ReplaceState overwrites the whole document, used by state import.
	ReplaceState(ctx context.Context, s core.State) error

	SaveIncome(ctx context.Context, item core.IncomeItem) error
	DeleteIncome(ctx context.Context, id string) error

	SaveBill(ctx context.Context, item core.BillItem) error
	DeleteBill(ctx context.Context, id string) error

	SaveAsset(ctx context.Context, a core.Asset) error
	DeleteAsset(ctx context.Context, id string) error

	SaveLiability(ctx context.Context, l core.Liability) error
	DeleteLiability(ctx context.Context, id string) error

	SaveGoal(ctx context.Context, g core.Goal) error
	DeleteGoal(ctx context.Context, id string) error

	AddTransactions(ctx context.Context, txs []core.Transaction) error
	UpdateTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// ReplaceCategoryRules swaps the ordered custom rule list.
	ReplaceCategoryRules(ctx context.Context, rules []core.CategoryRule) error

	SaveSettings(ctx context.Context, s core.Settings) error
	SaveHomeName(ctx context.Context, name string) error
	SaveCostOfLiving(ctx context.Context, col core.CostOfLiving) error

	SaveSnapshot(ctx context.Context, snap Snapshot) error
	ListSnapshots(ctx context.Context) ([]Snapshot, error)

	Close() error
}
