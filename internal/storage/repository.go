package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"planner/internal/core"

	_ "modernc.org/sqlite"
)

// Settings table keys.
const (
	settingHomeName          = "home_name"
	settingMinSurplusPercent = "min_surplus_percent"
	settingCostOfLiving      = "cost_of_living"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) LoadState(ctx context.Context) (core.State, error) {
	s := core.NewState()

	if err := r.loadIncome(ctx, &s); err != nil {
		return s, fmt.Errorf("load income: %w", err)
	}
	if err := r.loadBills(ctx, &s); err != nil {
		return s, fmt.Errorf("load bills: %w", err)
	}
	if err := r.loadAssets(ctx, &s); err != nil {
		return s, fmt.Errorf("load assets: %w", err)
	}
	if err := r.loadLiabilities(ctx, &s); err != nil {
		return s, fmt.Errorf("load liabilities: %w", err)
	}
	if err := r.loadGoals(ctx, &s); err != nil {
		return s, fmt.Errorf("load goals: %w", err)
	}
	if err := r.loadTransactions(ctx, &s); err != nil {
		return s, fmt.Errorf("load transactions: %w", err)
	}
	if err := r.loadCategoryRules(ctx, &s); err != nil {
		return s, fmt.Errorf("load category rules: %w", err)
	}
	if err := r.loadSettings(ctx, &s); err != nil {
		return s, fmt.Errorf("load settings: %w", err)
	}

	s.Normalize()
	return s, nil
}

func (r *SQLiteRepository) loadIncome(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, person, amount, frequency, start_date, end_date FROM income_items ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item core.IncomeItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Person, &item.Amount, &item.Frequency, &item.StartDate, &item.EndDate); err != nil {
			return err
		}
		s.Income = append(s.Income, item)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadBills(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount, frequency, category, due_day, is_fixed FROM bills ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item core.BillItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Amount, &item.Frequency, &item.Category, &item.DueDay, &item.IsFixed); err != nil {
			return err
		}
		s.Bills = append(s.Bills, item)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadAssets(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, value, growth_rate, start_date, kiwi_govt, kiwi_employer, kiwi_personal
		 FROM assets ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a core.Asset
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.Value, &a.GrowthRate, &a.StartDate,
			&a.KiwiGovt, &a.KiwiEmployer, &a.KiwiPersonal); err != nil {
			return err
		}
		s.Assets = append(s.Assets, a)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadLiabilities(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, balance, interest_rate, min_payment, payment_frequency, cost_category
		 FROM liabilities ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var l core.Liability
		if err := rows.Scan(&l.ID, &l.Name, &l.Type, &l.Balance, &l.InterestRate, &l.MinPayment,
			&l.PaymentFrequency, &l.CostCategory); err != nil {
			return err
		}
		s.Liabilities = append(s.Liabilities, l)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadGoals(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_amount, current_amount, monthly_contribution, deadline, category, priority, is_expense
		 FROM goals ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var g core.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount, &g.CurrentAmount, &g.MonthlyContribution,
			&g.Deadline, &g.Category, &g.Priority, &g.IsExpense); err != nil {
			return err
		}
		s.Goals = append(s.Goals, g)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadTransactions(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, description, amount, type, category FROM transactions ORDER BY date, rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var t core.Transaction
		if err := rows.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &t.Type, &t.Category); err != nil {
			return err
		}
		s.Transactions = append(s.Transactions, t)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadCategoryRules(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT keyword, category FROM category_rules ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var rule core.CategoryRule
		if err := rows.Scan(&rule.Keyword, &rule.Category); err != nil {
			return err
		}
		s.CategoryRules = append(s.CategoryRules, rule)
	}
	return rows.Err()
}

func (r *SQLiteRepository) loadSettings(ctx context.Context, s *core.State) error {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		switch key {
		case settingHomeName:
			s.HomeName = value
		case settingMinSurplusPercent:
			s.Settings.MinSurplusPercent = core.Amount(core.ParseAmount(value))
		case settingCostOfLiving:
			if value != "" {
				if err := json.Unmarshal([]byte(value), &s.CostOfLiving); err != nil {
					return fmt.Errorf("decode cost of living: %w", err)
				}
			}
		}
	}
	return rows.Err()
}

func (r *SQLiteRepository) ReplaceState(ctx context.Context, s core.State) error {
	s.Normalize()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"income_items", "bills", "assets", "liabilities", "goals", "transactions", "category_rules", "settings"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, item := range s.Income {
		if _, err := tx.ExecContext(ctx, upsertIncomeSQL,
			item.ID, item.Name, item.Person, item.Amount, item.Frequency, item.StartDate, item.EndDate); err != nil {
			return fmt.Errorf("insert income: %w", err)
		}
	}
	for _, item := range s.Bills {
		if _, err := tx.ExecContext(ctx, upsertBillSQL,
			item.ID, item.Name, item.Amount, item.Frequency, item.Category, item.DueDay, item.IsFixed); err != nil {
			return fmt.Errorf("insert bill: %w", err)
		}
	}
	for _, a := range s.Assets {
		if _, err := tx.ExecContext(ctx, upsertAssetSQL,
			a.ID, a.Name, a.Type, a.Value, a.GrowthRate, a.StartDate, a.KiwiGovt, a.KiwiEmployer, a.KiwiPersonal); err != nil {
			return fmt.Errorf("insert asset: %w", err)
		}
	}
	for _, l := range s.Liabilities {
		if _, err := tx.ExecContext(ctx, upsertLiabilitySQL,
			l.ID, l.Name, l.Type, l.Balance, l.InterestRate, l.MinPayment, l.PaymentFrequency, l.CostCategory); err != nil {
			return fmt.Errorf("insert liability: %w", err)
		}
	}
	for _, g := range s.Goals {
		if _, err := tx.ExecContext(ctx, upsertGoalSQL,
			g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.MonthlyContribution, g.Deadline, g.Category, g.Priority, g.IsExpense); err != nil {
			return fmt.Errorf("insert goal: %w", err)
		}
	}
	for _, t := range s.Transactions {
		if _, err := tx.ExecContext(ctx, upsertTransactionSQL,
			t.ID, t.Date, t.Description, t.Amount, t.Type, t.Category); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	for _, rule := range s.CategoryRules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_rules (keyword, category) VALUES (?, ?)`, rule.Keyword, rule.Category); err != nil {
			return fmt.Errorf("insert category rule: %w", err)
		}
	}

	colJSON, err := json.Marshal(s.CostOfLiving)
	if err != nil {
		return fmt.Errorf("encode cost of living: %w", err)
	}
	settings := map[string]string{
		settingHomeName:          s.HomeName,
		settingMinSurplusPercent: fmt.Sprintf("%g", float64(s.Settings.MinSurplusPercent)),
		settingCostOfLiving:      string(colJSON),
	}
	for key, value := range settings {
		if _, err := tx.ExecContext(ctx, upsertSettingSQL, key, value); err != nil {
			return fmt.Errorf("insert setting %s: %w", key, err)
		}
	}

	return tx.Commit()
}

const (
	upsertIncomeSQL = `INSERT INTO income_items (id, name, person, amount, frequency, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, person = excluded.person, amount = excluded.amount,
			frequency = excluded.frequency, start_date = excluded.start_date, end_date = excluded.end_date`

	upsertBillSQL = `INSERT INTO bills (id, name, amount, frequency, category, due_day, is_fixed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, amount = excluded.amount, frequency = excluded.frequency,
			category = excluded.category, due_day = excluded.due_day, is_fixed = excluded.is_fixed`

	upsertAssetSQL = `INSERT INTO assets (id, name, type, value, growth_rate, start_date, kiwi_govt, kiwi_employer, kiwi_personal)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, type = excluded.type, value = excluded.value,
			growth_rate = excluded.growth_rate, start_date = excluded.start_date,
			kiwi_govt = excluded.kiwi_govt, kiwi_employer = excluded.kiwi_employer,
			kiwi_personal = excluded.kiwi_personal`

	upsertLiabilitySQL = `INSERT INTO liabilities (id, name, type, balance, interest_rate, min_payment, payment_frequency, cost_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, type = excluded.type, balance = excluded.balance,
			interest_rate = excluded.interest_rate, min_payment = excluded.min_payment,
			payment_frequency = excluded.payment_frequency, cost_category = excluded.cost_category`

	upsertGoalSQL = `INSERT INTO goals (id, name, target_amount, current_amount, monthly_contribution, deadline, category, priority, is_expense)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name, target_amount = excluded.target_amount,
			current_amount = excluded.current_amount, monthly_contribution = excluded.monthly_contribution,
			deadline = excluded.deadline, category = excluded.category,
			priority = excluded.priority, is_expense = excluded.is_expense`

	upsertTransactionSQL = `INSERT INTO transactions (id, date, description, amount, type, category)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date, description = excluded.description, amount = excluded.amount,
			type = excluded.type, category = excluded.category`

	upsertSettingSQL = `INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
)

func (r *SQLiteRepository) SaveIncome(ctx context.Context, item core.IncomeItem) error {
	_, err := r.db.ExecContext(ctx, upsertIncomeSQL,
		item.ID, item.Name, item.Person, item.Amount, item.Frequency, item.StartDate, item.EndDate)
	if err != nil {
		return fmt.Errorf("save income: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteIncome(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "income_items", id)
}

func (r *SQLiteRepository) SaveBill(ctx context.Context, item core.BillItem) error {
	_, err := r.db.ExecContext(ctx, upsertBillSQL,
		item.ID, item.Name, item.Amount, item.Frequency, item.Category, item.DueDay, item.IsFixed)
	if err != nil {
		return fmt.Errorf("save bill: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "bills", id)
}

func (r *SQLiteRepository) SaveAsset(ctx context.Context, a core.Asset) error {
	_, err := r.db.ExecContext(ctx, upsertAssetSQL,
		a.ID, a.Name, a.Type, a.Value, a.GrowthRate, a.StartDate, a.KiwiGovt, a.KiwiEmployer, a.KiwiPersonal)
	if err != nil {
		return fmt.Errorf("save asset: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAsset(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "assets", id)
}

func (r *SQLiteRepository) SaveLiability(ctx context.Context, l core.Liability) error {
	_, err := r.db.ExecContext(ctx, upsertLiabilitySQL,
		l.ID, l.Name, l.Type, l.Balance, l.InterestRate, l.MinPayment, l.PaymentFrequency, l.CostCategory)
	if err != nil {
		return fmt.Errorf("save liability: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteLiability(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "liabilities", id)
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.Goal) error {
	_, err := r.db.ExecContext(ctx, upsertGoalSQL,
		g.ID, g.Name, g.TargetAmount, g.CurrentAmount, g.MonthlyContribution, g.Deadline, g.Category, g.Priority, g.IsExpense)
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "goals", id)
}

func (r *SQLiteRepository) AddTransactions(ctx context.Context, txs []core.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, t := range txs {
		if _, err := tx.ExecContext(ctx, upsertTransactionSQL,
			t.ID, t.Date, t.Description, t.Amount, t.Type, t.Category); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET date = ?, description = ?, amount = ?, type = ?, category = ? WHERE id = ?`,
		t.Date, t.Description, t.Amount, t.Type, t.Category, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	return r.deleteByID(ctx, "transactions", id)
}

func (r *SQLiteRepository) ReplaceCategoryRules(ctx context.Context, rules []core.CategoryRule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM category_rules`); err != nil {
		return fmt.Errorf("clear category rules: %w", err)
	}
	for _, rule := range rules {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO category_rules (keyword, category) VALUES (?, ?)`, rule.Keyword, rule.Category); err != nil {
			return fmt.Errorf("insert category rule: %w", err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.Settings) error {
	_, err := r.db.ExecContext(ctx, upsertSettingSQL,
		settingMinSurplusPercent, fmt.Sprintf("%g", float64(s.MinSurplusPercent)))
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveHomeName(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, upsertSettingSQL, settingHomeName, name)
	if err != nil {
		return fmt.Errorf("save home name: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveCostOfLiving(ctx context.Context, col core.CostOfLiving) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("encode cost of living: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, upsertSettingSQL, settingCostOfLiving, string(data)); err != nil {
		return fmt.Errorf("save cost of living: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap Snapshot) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO snapshots (id, taken_at, net_worth, total_assets, total_liabilities, monthly_cash_flow, savings_rate)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		snap.ID, snap.TakenAt, snap.NetWorth, snap.TotalAssets, snap.TotalLiabilities, snap.MonthlyCashFlow, snap.SavingsRate)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListSnapshots(ctx context.Context) ([]Snapshot, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, taken_at, net_worth, total_assets, total_liabilities, monthly_cash_flow, savings_rate
		 FROM snapshots ORDER BY taken_at`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var snap Snapshot
		if err := rows.Scan(&snap.ID, &snap.TakenAt, &snap.NetWorth, &snap.TotalAssets,
			&snap.TotalLiabilities, &snap.MonthlyCashFlow, &snap.SavingsRate); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func (r *SQLiteRepository) deleteByID(ctx context.Context, table, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Store = (*SQLiteRepository)(nil)
