package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
	"github.com/alessandrotostes/controle-de-gastos/internal/watch"
)

type summaryJSON struct {
	FamilyID        string           `json:"family_id"`
	Month           string           `json:"month"`
	TotalIncome     int64            `json:"total_income_cents"`
	TotalExpense    int64            `json:"total_expense_cents"`
	Balance         int64            `json:"balance_cents"`
	TotalPaid       int64            `json:"total_paid_cents"`
	TotalPending    int64            `json:"total_pending_cents"`
	TotalSplit      int64            `json:"total_split_cents"`
	TotalCreditCard int64            `json:"total_credit_card_cents"`
	TotalCash       int64            `json:"total_cash_cents"`
	ByCategory      map[string]int64 `json:"by_category_cents"`
	PendingList     []expenseJSON    `json:"pending_list"`
}

func toSummaryJSON(familyID string, month core.Month, s core.MonthlySummary) summaryJSON {
	byCategory := make(map[string]int64, len(s.ByCategory))
	for name, amount := range s.ByCategory {
		byCategory[name] = amount.Cents
	}
	pending := make([]expenseJSON, 0, len(s.PendingList))
	for _, e := range s.PendingList {
		pending = append(pending, toExpenseJSON(e))
	}
	return summaryJSON{
		FamilyID:        familyID,
		Month:           month.String(),
		TotalIncome:     s.TotalIncome.Cents,
		TotalExpense:    s.TotalExpense.Cents,
		Balance:         s.Balance().Cents,
		TotalPaid:       s.TotalPaid.Cents,
		TotalPending:    s.TotalPending.Cents,
		TotalSplit:      s.TotalSplit.Cents,
		TotalCreditCard: s.TotalCreditCard.Cents,
		TotalCash:       s.TotalCash.Cents,
		ByCategory:      byCategory,
		PendingList:     pending,
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}

	key := summaryCacheKey(sc.familyID, sc.month)
	if cached, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit",
			"family_id", sc.familyID, "month", sc.month.String())
		writeJSON(w, http.StatusOK, toSummaryJSON(sc.familyID, sc.month, cached))
		return
	}

	summary, err := s.ledger.MonthlySummary(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, toSummaryJSON(sc.familyID, sc.month, summary))
}

// handleStream serves the month's snapshots over Server-Sent Events. Each
// record change for the watched family and month produces one event with
// the recomputed summary and record lists.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sc, ok := requestScope(w, r)
	if !ok {
		return
	}
	flusher, canFlush := w.(http.Flusher)
	if !canFlush {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, err := s.hub.Subscribe(r.Context(), sc.familyID, sc.month)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Heartbeats keep proxies from closing an idle stream.
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case snap, open := <-sub.C:
			if !open {
				return
			}
			if err := writeSnapshotEvent(w, snap); err != nil {
				slog.ErrorContext(r.Context(), "Failed to write stream event", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}

type snapshotJSON struct {
	Summary  summaryJSON   `json:"summary"`
	Expenses []expenseJSON `json:"expenses"`
	Incomes  []incomeJSON  `json:"incomes"`
}

func writeSnapshotEvent(w http.ResponseWriter, snap watch.Snapshot) error {
	expenses := make([]expenseJSON, 0, len(snap.Expenses))
	for _, e := range snap.Expenses {
		expenses = append(expenses, toExpenseJSON(e))
	}
	incomes := make([]incomeJSON, 0, len(snap.Incomes))
	for _, i := range snap.Incomes {
		incomes = append(incomes, toIncomeJSON(i))
	}
	body, err := json.Marshal(snapshotJSON{
		Summary:  toSummaryJSON(snap.FamilyID, snap.Month, snap.Summary),
		Expenses: expenses,
		Incomes:  incomes,
	})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: snapshot\ndata: %s\n\n", body)
	return err
}
