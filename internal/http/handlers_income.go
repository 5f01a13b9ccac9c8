package http

import (
	"net/http"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type incomePayload struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

type incomeJSON struct {
	ID          string `json:"id"`
	FamilyID    string `json:"family_id"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Amount      string `json:"amount"`
	Date        string `json:"date"`
}

func toIncomeJSON(i core.Income) incomeJSON {
	return incomeJSON{
		ID:          i.ID,
		FamilyID:    i.FamilyID,
		Description: i.Description,
		AmountCents: i.Amount.Cents,
		Amount:      i.Amount.FormatReais(),
		Date:        i.Date.Format(time.RFC3339),
	}
}

func incomeFromPayload(familyID string, p incomePayload) (core.Income, int, string) {
	cents, err := core.ParseAmountToCents(p.Amount)
	if err != nil {
		return core.Income{}, http.StatusUnprocessableEntity, "invalid amount"
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Income{}, http.StatusUnprocessableEntity, err.Error()
	}
	return core.Income{
		FamilyID:    familyID,
		Description: sanitizeInput(p.Description),
		Amount:      core.Money{Cents: cents},
		Date:        date,
	}, 0, ""
}

func (s *Server) handleListIncomes(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}
	incomes, err := s.ledger.ListIncomes(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]incomeJSON, 0, len(incomes))
	for _, i := range incomes {
		out = append(out, toIncomeJSON(i))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateIncome(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload incomePayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	income, status, msg := incomeFromPayload(fam, payload)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	created, err := s.ledger.CreateIncome(r.Context(), income)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(created.Date))
	writeJSON(w, http.StatusCreated, toIncomeJSON(created))
}

func (s *Server) handleUpdateIncome(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload incomePayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	income, status, msg := incomeFromPayload(fam, payload)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	income.ID = r.PathValue("id")

	old, err := s.ledger.GetIncome(r.Context(), fam, income.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.ledger.UpdateIncome(r.Context(), income); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(income.Date))
	if oldMonth := core.MonthOf(old.Date); oldMonth != core.MonthOf(income.Date) {
		s.invalidateSummary(fam, oldMonth)
	}
	writeJSON(w, http.StatusOK, toIncomeJSON(income))
}

func (s *Server) handleDeleteIncome(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	id := r.PathValue("id")
	income, err := s.ledger.GetIncome(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.ledger.DeleteIncome(r.Context(), fam, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(income.Date))
	writeJSON(w, http.StatusNoContent, nil)
}
