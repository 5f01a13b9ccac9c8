package http

import (
	"net/http"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type budgetPayload struct {
	Month       string            `json:"month"`
	TotalTarget string            `json:"total_target"`
	ByCategory  map[string]string `json:"by_category"`
}

type budgetJSON struct {
	FamilyID         string           `json:"family_id"`
	Month            string           `json:"month"`
	TotalTargetCents int64            `json:"total_target_cents"`
	ByCategory       map[string]int64 `json:"by_category_cents"`
}

func toBudgetJSON(b core.Budget) budgetJSON {
	byCategory := make(map[string]int64, len(b.ByCategory))
	for name, target := range b.ByCategory {
		byCategory[name] = target.Cents
	}
	return budgetJSON{
		FamilyID:         b.FamilyID,
		Month:            b.Month.String(),
		TotalTargetCents: b.TotalTarget.Cents,
		ByCategory:       byCategory,
	}
}

type categoryProgressJSON struct {
	Category      string  `json:"category"`
	BudgetedCents int64   `json:"budgeted_cents"`
	SpentCents    int64   `json:"spent_cents"`
	Percent       float64 `json:"percent"`
	IsOver        bool    `json:"is_over"`
}

type budgetProgressJSON struct {
	TotalPercent *float64               `json:"total_percent"`
	OverTotal    bool                   `json:"over_total"`
	PerCategory  []categoryProgressJSON `json:"per_category"`
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}
	budget, err := s.budgets.Get(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(budget))
}

func (s *Server) handleSaveBudget(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload budgetPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	month, err := core.ParseMonth(payload.Month)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	// Targets are text amounts; empty means "no target".
	totalCents, err := core.ParseTargetToCents(payload.TotalTarget)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid total target")
		return
	}
	byCategory := make(map[string]core.Money, len(payload.ByCategory))
	for name, raw := range payload.ByCategory {
		cents, err := core.ParseTargetToCents(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid target for category "+name)
			return
		}
		if cents > 0 {
			byCategory[sanitizeInput(name)] = core.Money{Cents: cents}
		}
	}

	saved, err := s.budgets.Save(r.Context(), core.Budget{
		FamilyID:    fam,
		Month:       month,
		TotalTarget: core.Money{Cents: totalCents},
		ByCategory:  byCategory,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBudgetJSON(saved))
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}
	progress, err := s.budgets.Progress(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := budgetProgressJSON{
		TotalPercent: progress.TotalPercent,
		OverTotal:    progress.OverTotal,
		PerCategory:  make([]categoryProgressJSON, 0, len(progress.PerCategory)),
	}
	for _, row := range progress.PerCategory {
		out.PerCategory = append(out.PerCategory, categoryProgressJSON{
			Category:      row.Category,
			BudgetedCents: row.Budgeted.Cents,
			SpentCents:    row.Spent.Cents,
			Percent:       row.Percent,
			IsOver:        row.IsOver,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
