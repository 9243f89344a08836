package http

import (
	"fmt"
	"net/http"

	"planner/internal/core"
)

func (s *Server) handleProjectNetWorth(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", 0)
	key := fmt.Sprintf("networth-%d", months)
	if series, found := s.projectionCache.Get(key); found {
		writeJSON(w, http.StatusOK, series)
		return
	}

	series, err := s.scenarios.ProjectNetWorth(r.Context(), months)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.projectionCache.Set(key, series)
	writeJSON(w, http.StatusOK, series)
}

func (s *Server) handleProjectMortgage(w http.ResponseWriter, r *http.Request) {
	projection, err := s.scenarios.ProjectMortgage(
		r.Context(),
		r.PathValue("id"),
		queryFloat(r, "extra", 0),
		queryInt(r, "months", 0),
	)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projection)
}

func (s *Server) handleProjectInvestments(w http.ResponseWriter, r *http.Request) {
	projections, err := s.scenarios.ProjectInvestments(r.Context(), queryInt(r, "months", 0))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, projections)
}

func (s *Server) handleRunScenario(w http.ResponseWriter, r *http.Request) {
	var scenario core.Scenario
	if !decodeJSON(w, r, &scenario) {
		return
	}
	result, err := s.scenarios.Run(r.Context(), scenario)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// budgetCheckRequest probes feasibility of a commitment without saving
// anything. Exactly one of bill or goal should be set.
type budgetCheckRequest struct {
	Bill *core.BillItem `json:"bill,omitempty"`
	Goal *core.Goal     `json:"goal,omitempty"`
}

func (s *Server) handleBudgetCheck(w http.ResponseWriter, r *http.Request) {
	var req budgetCheckRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if (req.Bill == nil) == (req.Goal == nil) {
		writeError(w, http.StatusBadRequest, "exactly one of bill or goal is required")
		return
	}

	state, err := s.planner.State(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	now := core.YearMonthOf(timeNow())
	var check core.BudgetCheck
	if req.Bill != nil {
		var oldBill *core.BillItem
		for i := range state.Bills {
			if state.Bills[i].ID == req.Bill.ID {
				oldBill = &state.Bills[i]
				break
			}
		}
		check = core.CheckBillCommitment(state, oldBill, *req.Bill, now)
	} else {
		var oldGoal *core.Goal
		for i := range state.Goals {
			if state.Goals[i].ID == req.Goal.ID {
				oldGoal = &state.Goals[i]
				break
			}
		}
		check = core.CheckGoalCommitment(state, oldGoal, *req.Goal, now)
	}
	writeJSON(w, http.StatusOK, check)
}
