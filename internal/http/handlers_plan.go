package http

import (
	"errors"
	"net/http"

	"planner/internal/core"
	"planner/internal/services"
)

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.planner.State(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetSummary(w http.ResponseWriter, r *http.Request) {
	if summary, found := s.summaryCache.Get("summary"); found {
		writeJSON(w, http.StatusOK, summary)
		return
	}
	summary, err := s.planner.Summarize(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.summaryCache.Set("summary", summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSaveIncome(w http.ResponseWriter, r *http.Request) {
	var item core.IncomeItem
	if !decodeJSON(w, r, &item) {
		return
	}
	saved, err := s.planner.SaveIncome(r.Context(), item)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteIncome(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

// guardedSaveResponse carries the saved item together with the budget
// check so clients can explain a forced save or a rejection.
type guardedSaveResponse struct {
	Item  any              `json:"item"`
	Check core.BudgetCheck `json:"check"`
}

func (s *Server) handleSaveBill(w http.ResponseWriter, r *http.Request) {
	var bill core.BillItem
	if !decodeJSON(w, r, &bill) {
		return
	}
	saved, check, err := s.planner.SaveBill(r.Context(), bill, queryBool(r, "force"))
	if err != nil {
		if errors.Is(err, services.ErrBudgetExceeded) {
			writeJSON(w, http.StatusConflict, guardedSaveResponse{Item: bill, Check: check})
			return
		}
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, guardedSaveResponse{Item: saved, Check: check})
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteBill(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveAsset(w http.ResponseWriter, r *http.Request) {
	var asset core.Asset
	if !decodeJSON(w, r, &asset) {
		return
	}
	saved, err := s.planner.SaveAsset(r.Context(), asset)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteAsset(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveLiability(w http.ResponseWriter, r *http.Request) {
	var liability core.Liability
	if !decodeJSON(w, r, &liability) {
		return
	}
	saved, err := s.planner.SaveLiability(r.Context(), liability)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, saved)
}

func (s *Server) handleDeleteLiability(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteLiability(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveGoal(w http.ResponseWriter, r *http.Request) {
	var goal core.Goal
	if !decodeJSON(w, r, &goal) {
		return
	}
	saved, check, err := s.planner.SaveGoal(r.Context(), goal, queryBool(r, "force"))
	if err != nil {
		if errors.Is(err, services.ErrBudgetExceeded) {
			writeJSON(w, http.StatusConflict, guardedSaveResponse{Item: goal, Check: check})
			return
		}
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, guardedSaveResponse{Item: saved, Check: check})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteGoal(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var settings core.Settings
	if !decodeJSON(w, r, &settings) {
		return
	}
	if settings.MinSurplusPercent < 0 || settings.MinSurplusPercent > 50 {
		writeError(w, http.StatusUnprocessableEntity, "minSurplusPercent must be between 0 and 50")
		return
	}
	if err := s.planner.SaveSettings(r.Context(), settings); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetCostOfLiving(w http.ResponseWriter, r *http.Request) {
	view, err := s.scenarios.CostOfLiving(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type costOfLivingRequest struct {
	HomeName     string            `json:"homeName"`
	CostOfLiving core.CostOfLiving `json:"costOfLiving"`
}

func (s *Server) handleSaveCostOfLiving(w http.ResponseWriter, r *http.Request) {
	var req costOfLivingRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.planner.SaveCostOfLiving(r.Context(), req.HomeName, req.CostOfLiving); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	state, err := s.planner.State(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	transactions := state.Transactions
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

type recategorizeRequest struct {
	Category core.Category `json:"category"`
}

func (s *Server) handleRecategorizeTransaction(w http.ResponseWriter, r *http.Request) {
	var req recategorizeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	updated, err := s.planner.RecategorizeTransaction(r.Context(), r.PathValue("id"), req.Category)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.planner.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExportState(w http.ResponseWriter, r *http.Request) {
	state, err := s.planner.ExportState(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="planner-export.json"`)
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleImportState(w http.ResponseWriter, r *http.Request) {
	var incoming core.State
	if !decodeJSON(w, r, &incoming) {
		return
	}
	if err := s.planner.ImportState(r.Context(), incoming); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateComputed()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, r *http.Request) {
	snapshots, err := s.planner.Snapshots(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

func (s *Server) handleRecordSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := s.planner.RecordSnapshot(r.Context(), "manual")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}
