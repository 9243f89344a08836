package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"planner/internal/core"
)

// memoryDocument is the on-disk shape of the memory store. A raw state
// export (no "state" key) is also accepted when seeding, so users can
// point STATE_FILE_PATH straight at a downloaded backup.
type memoryDocument struct {
	State     core.State `json:"state"`
	Snapshots []Snapshot `json:"snapshots"`
}

// MemoryRepository keeps the whole document in memory, optionally
// mirrored to a JSON file after every change.
type MemoryRepository struct {
	mu        sync.RWMutex
	state     core.State
	snapshots []Snapshot
	path      string
}

// NewMemoryRepository creates an empty in-memory store. When path is
// non-empty the store loads from it if it exists and writes every change
// back.
func NewMemoryRepository(path string) (*MemoryRepository, error) {
	r := &MemoryRepository{
		state: core.NewState(),
		path:  path,
	}
	if path == "" {
		return r, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var doc memoryDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	if isZeroState(doc.State) {
		// Raw state export without the wrapper.
		var s core.State
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("decode state file: %w", err)
		}
		doc.State = s
	}
	doc.State.Normalize()
	r.state = doc.State
	r.snapshots = doc.Snapshots
	return r, nil
}

func isZeroState(s core.State) bool {
	return s.Income == nil && s.Bills == nil && s.Assets == nil &&
		s.Liabilities == nil && s.Goals == nil && s.Transactions == nil &&
		s.HomeName == ""
}

// persist writes the document to disk via a temp file rename. Callers
// must hold the write lock.
func (r *MemoryRepository) persist() error {
	if r.path == "" {
		return nil
	}
	doc := memoryDocument{State: r.state, Snapshots: r.snapshots}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (r *MemoryRepository) LoadState(ctx context.Context) (core.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := cloneState(r.state)
	s.Normalize()
	return s, nil
}

// cloneState deep-copies a state through JSON so callers never share
// slices with the store.
func cloneState(s core.State) core.State {
	data, err := json.Marshal(s)
	if err != nil {
		return core.NewState()
	}
	var out core.State
	if err := json.Unmarshal(data, &out); err != nil {
		return core.NewState()
	}
	return out
}

func (r *MemoryRepository) ReplaceState(ctx context.Context, s core.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.Normalize()
	r.state = cloneState(s)
	return r.persist()
}

func (r *MemoryRepository) SaveIncome(ctx context.Context, item core.IncomeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Income = upsertByID(r.state.Income, item, func(i core.IncomeItem) string { return i.ID })
	return r.persist()
}

func (r *MemoryRepository) DeleteIncome(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Income, removed = deleteByID(r.state.Income, id, func(i core.IncomeItem) string { return i.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) SaveBill(ctx context.Context, item core.BillItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Bills = upsertByID(r.state.Bills, item, func(b core.BillItem) string { return b.ID })
	return r.persist()
}

func (r *MemoryRepository) DeleteBill(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Bills, removed = deleteByID(r.state.Bills, id, func(b core.BillItem) string { return b.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) SaveAsset(ctx context.Context, a core.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Assets = upsertByID(r.state.Assets, a, func(a core.Asset) string { return a.ID })
	return r.persist()
}

func (r *MemoryRepository) DeleteAsset(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Assets, removed = deleteByID(r.state.Assets, id, func(a core.Asset) string { return a.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) SaveLiability(ctx context.Context, l core.Liability) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Liabilities = upsertByID(r.state.Liabilities, l, func(l core.Liability) string { return l.ID })
	return r.persist()
}

func (r *MemoryRepository) DeleteLiability(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Liabilities, removed = deleteByID(r.state.Liabilities, id, func(l core.Liability) string { return l.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) SaveGoal(ctx context.Context, g core.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Goals = upsertByID(r.state.Goals, g, func(g core.Goal) string { return g.ID })
	return r.persist()
}

func (r *MemoryRepository) DeleteGoal(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Goals, removed = deleteByID(r.state.Goals, id, func(g core.Goal) string { return g.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) AddTransactions(ctx context.Context, txs []core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range txs {
		t.IsDuplicate = false
		r.state.Transactions = upsertByID(r.state.Transactions, t, func(t core.Transaction) string { return t.ID })
	}
	return r.persist()
}

func (r *MemoryRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.state.Transactions {
		if r.state.Transactions[i].ID == t.ID {
			r.state.Transactions[i] = t
			return r.persist()
		}
	}
	return ErrNotFound
}

func (r *MemoryRepository) DeleteTransaction(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var removed bool
	r.state.Transactions, removed = deleteByID(r.state.Transactions, id, func(t core.Transaction) string { return t.ID })
	if !removed {
		return ErrNotFound
	}
	return r.persist()
}

func (r *MemoryRepository) ReplaceCategoryRules(ctx context.Context, rules []core.CategoryRule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CategoryRules = append([]core.CategoryRule{}, rules...)
	return r.persist()
}

func (r *MemoryRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Settings = s
	return r.persist()
}

func (r *MemoryRepository) SaveHomeName(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.HomeName = name
	return r.persist()
}

func (r *MemoryRepository) SaveCostOfLiving(ctx context.Context, col core.CostOfLiving) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.CostOfLiving = col
	return r.persist()
}

func (r *MemoryRepository) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, snap)
	return r.persist()
}

func (r *MemoryRepository) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Snapshot{}, r.snapshots...), nil
}

func (r *MemoryRepository) Close() error {
	return nil
}

func upsertByID[T any](items []T, item T, id func(T) string) []T {
	for i := range items {
		if id(items[i]) == id(item) {
			items[i] = item
			return items
		}
	}
	return append(items, item)
}

func deleteByID[T any](items []T, target string, id func(T) string) ([]T, bool) {
	for i := range items {
		if id(items[i]) == target {
			return append(items[:i], items[i+1:]...), true
		}
	}
	return items, false
}

var _ Store = (*MemoryRepository)(nil)
