package http

import (
	"net/http"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type expensePayload struct {
	Description   string `json:"description"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	Split         bool   `json:"split"`
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"payment_method"`
}

type expenseJSON struct {
	ID            string `json:"id"`
	FamilyID      string `json:"family_id"`
	Description   string `json:"description"`
	AmountCents   int64  `json:"amount_cents"`
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	Date          string `json:"date"`
	Split         bool   `json:"split"`
	Paid          bool   `json:"paid"`
	PaymentMethod string `json:"payment_method"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	return expenseJSON{
		ID:            e.ID,
		FamilyID:      e.FamilyID,
		Description:   e.Description,
		AmountCents:   e.Amount.Cents,
		Amount:        e.Amount.FormatReais(),
		Category:      e.Category,
		Date:          e.Date.Format(time.RFC3339),
		Split:         e.Split,
		Paid:          e.Paid,
		PaymentMethod: string(e.PaymentMethod),
	}
}

// expenseFromPayload validates the boundary format before the domain
// rules run. A malformed amount or date never reaches storage.
func expenseFromPayload(familyID string, p expensePayload) (core.Expense, int, string) {
	cents, err := core.ParseAmountToCents(p.Amount)
	if err != nil {
		return core.Expense{}, http.StatusUnprocessableEntity, "invalid amount"
	}
	date, err := parseDate(p.Date)
	if err != nil {
		return core.Expense{}, http.StatusUnprocessableEntity, err.Error()
	}
	method := core.PaymentMethod(p.PaymentMethod)
	if p.PaymentMethod == "" {
		method = core.PaymentCash
	}
	return core.Expense{
		FamilyID:      familyID,
		Description:   sanitizeInput(p.Description),
		Amount:        core.Money{Cents: cents},
		Category:      sanitizeInput(p.Category),
		Date:          date,
		Split:         p.Split,
		Paid:          p.Paid,
		PaymentMethod: method,
	}, 0, ""
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}
	expenses, err := s.ledger.ListExpenses(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]expenseJSON, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload expensePayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expense, status, msg := expenseFromPayload(fam, payload)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	created, err := s.ledger.CreateExpense(r.Context(), expense)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(created.Date))
	writeJSON(w, http.StatusCreated, toExpenseJSON(created))
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload expensePayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	expense, status, msg := expenseFromPayload(fam, payload)
	if status != 0 {
		writeError(w, status, msg)
		return
	}
	expense.ID = r.PathValue("id")

	old, err := s.ledger.GetExpense(r.Context(), fam, expense.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.ledger.UpdateExpense(r.Context(), expense); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(expense.Date))
	if oldMonth := core.MonthOf(old.Date); oldMonth != core.MonthOf(expense.Date) {
		s.invalidateSummary(fam, oldMonth)
	}
	writeJSON(w, http.StatusOK, toExpenseJSON(expense))
}

func (s *Server) handleSetExpensePaid(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload struct {
		Paid bool `json:"paid"`
	}
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := r.PathValue("id")
	expense, err := s.ledger.GetExpense(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.ledger.SetExpensePaid(r.Context(), fam, id, payload.Paid); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(expense.Date))
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "paid": payload.Paid})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	id := r.PathValue("id")
	expense, err := s.ledger.GetExpense(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.ledger.DeleteExpense(r.Context(), fam, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.invalidateSummary(fam, core.MonthOf(expense.Date))
	writeJSON(w, http.StatusNoContent, nil)
}
