package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"planner/internal/core"
	"planner/internal/storage"
)

// DefaultScenarioMonths is the horizon used when a request leaves the
// month count unset.
const DefaultScenarioMonths = 120

// ScenarioResult bundles everything a what-if simulation produces: the
// base and scenario net worth tracks, the budget balance, and per-debt
// and per-investment comparisons.
type ScenarioResult struct {
	Months      int                         `json:"months"`
	Labels      []string                    `json:"labels"`
	Base        []float64                   `json:"base"`
	Scenario    []float64                   `json:"scenario"`
	Balance     core.BudgetBalance          `json:"balance"`
	Mortgage    *core.MortgageComparison    `json:"mortgage,omitempty"`
	Investments []core.InvestmentComparison `json:"investments,omitempty"`
}

// ProjectionSeries is a single labelled projection track.
type ProjectionSeries struct {
	Labels []string  `json:"labels"`
	Points []float64 `json:"points"`
}

// ScenarioService runs projections and what-if simulations over a
// loaded state. It never mutates storage.
type ScenarioService struct {
	store     storage.Store
	maxMonths int
	now       func() time.Time
}

func NewScenarioService(store storage.Store, maxMonths int) *ScenarioService {
	return &ScenarioService{
		store:     store,
		maxMonths: maxMonths,
		now:       time.Now,
	}
}

// clampMonths applies the default and the configured ceiling.
func (s *ScenarioService) clampMonths(months int) (int, error) {
	if months == 0 {
		months = DefaultScenarioMonths
	}
	if months < 1 {
		return 0, fmt.Errorf("invalid months %d: must be at least 1", months)
	}
	if months > s.maxMonths {
		return 0, fmt.Errorf("invalid months %d: must be at most %d", months, s.maxMonths)
	}
	return months, nil
}

// Run executes a what-if simulation. The base and scenario tracks are
// independent, so they project concurrently.
func (s *ScenarioService) Run(ctx context.Context, sc core.Scenario) (ScenarioResult, error) {
	months, err := s.clampMonths(sc.Months)
	if err != nil {
		return ScenarioResult{}, err
	}
	sc.Months = months

	state, err := s.store.LoadState(ctx)
	if err != nil {
		return ScenarioResult{}, fmt.Errorf("load state: %w", err)
	}

	result := ScenarioResult{
		Months: months,
		Labels: core.MonthLabels(s.now(), months),
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Base = core.ProjectNetWorth(state.Assets, state.Liabilities, state.Income, state.Bills, months, nil, nil, nil)
		return nil
	})
	g.Go(func() error {
		result.Scenario = sc.ProjectNetWorth(state)
		return nil
	})
	g.Go(func() error {
		result.Balance = sc.Balance(state)
		return nil
	})
	g.Go(func() error {
		result.Mortgage = sc.CompareMortgage(state)
		return nil
	})
	g.Go(func() error {
		result.Investments = sc.CompareInvestments(state)
		return nil
	})
	if err := g.Wait(); err != nil {
		return ScenarioResult{}, err
	}

	return result, nil
}

// ProjectNetWorth projects the current plan forward without overrides.
func (s *ScenarioService) ProjectNetWorth(ctx context.Context, months int) (ProjectionSeries, error) {
	months, err := s.clampMonths(months)
	if err != nil {
		return ProjectionSeries{}, err
	}
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return ProjectionSeries{}, fmt.Errorf("load state: %w", err)
	}
	return ProjectionSeries{
		Labels: core.MonthLabels(s.now(), months),
		Points: core.ProjectNetWorth(state.Assets, state.Liabilities, state.Income, state.Bills, months, nil, nil, nil),
	}, nil
}

// MortgageProjection is a payoff projection for one liability.
type MortgageProjection struct {
	LiabilityID    string    `json:"liabilityId"`
	Name           string    `json:"name"`
	MonthlyPayment float64   `json:"monthlyPayment"`
	ExtraPayment   float64   `json:"extraPayment"`
	Labels         []string  `json:"labels"`
	Points         []float64 `json:"points"`
	PayoffMonth    int       `json:"payoffMonth"` // -1 if not reached
}

// ProjectMortgage projects one liability's balance with an optional
// extra monthly payment.
func (s *ScenarioService) ProjectMortgage(ctx context.Context, liabilityID string, extraPayment float64, months int) (MortgageProjection, error) {
	months, err := s.clampMonths(months)
	if err != nil {
		return MortgageProjection{}, err
	}
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return MortgageProjection{}, fmt.Errorf("load state: %w", err)
	}

	for _, l := range state.Liabilities {
		if l.ID != liabilityID {
			continue
		}
		payment := l.MonthlyPayment()
		points := core.ProjectMortgage(float64(l.Balance), float64(l.InterestRate), payment, extraPayment, months, nil)
		return MortgageProjection{
			LiabilityID:    l.ID,
			Name:           l.Name,
			MonthlyPayment: payment,
			ExtraPayment:   extraPayment,
			Labels:         core.MonthLabels(s.now(), months),
			Points:         points,
			PayoffMonth:    core.PayoffMonth(points),
		}, nil
	}
	return MortgageProjection{}, storage.ErrNotFound
}

// InvestmentProjections projects every investable asset plus a combined
// track.
type InvestmentProjections struct {
	Labels   []string                    `json:"labels"`
	Assets   []core.InvestmentComparison `json:"assets"`
	Combined []float64                   `json:"combined"`
}

// ProjectInvestments projects all investable assets at their standing
// growth and contributions.
func (s *ScenarioService) ProjectInvestments(ctx context.Context, months int) (InvestmentProjections, error) {
	months, err := s.clampMonths(months)
	if err != nil {
		return InvestmentProjections{}, err
	}
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return InvestmentProjections{}, fmt.Errorf("load state: %w", err)
	}

	comparisons := (core.Scenario{Months: months}).CompareInvestments(state)
	series := make([][]float64, 0, len(comparisons))
	for _, cmp := range comparisons {
		series = append(series, cmp.Base)
	}
	return InvestmentProjections{
		Labels:   core.MonthLabels(s.now(), months),
		Assets:   comparisons,
		Combined: core.CombineSeries(series),
	}, nil
}

// CostOfLivingView pairs the computed home costs with the stored
// comparison locations.
type CostOfLivingView struct {
	HomeName    string                            `json:"homeName"`
	HomeCosts   map[core.Category][]core.CostItem `json:"homeCosts"`
	HomeTotal   float64                           `json:"homeTotal"`
	Comparisons []ComparisonView                  `json:"comparisons"`
}

// ComparisonView is a comparison location with its total.
type ComparisonView struct {
	core.Comparison
	Total float64 `json:"total"`
}

// CostOfLiving computes the home cost breakdown and comparison totals.
func (s *ScenarioService) CostOfLiving(ctx context.Context) (CostOfLivingView, error) {
	state, err := s.store.LoadState(ctx)
	if err != nil {
		return CostOfLivingView{}, fmt.Errorf("load state: %w", err)
	}

	homeCosts := core.HomeCosts(state, core.YearMonthOf(s.now()))
	view := CostOfLivingView{
		HomeName:  state.HomeName,
		HomeCosts: homeCosts,
		HomeTotal: core.CostsTotal(homeCosts),
	}
	for _, cmp := range state.CostOfLiving.Comparisons {
		view.Comparisons = append(view.Comparisons, ComparisonView{
			Comparison: cmp,
			Total:      core.CostsTotal(cmp.Costs),
		})
	}
	return view, nil
}
