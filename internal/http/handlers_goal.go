package http

import (
	"net/http"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type goalPayload struct {
	Name         string `json:"name"`
	TargetAmount string `json:"target_amount"`
	Status       string `json:"status"`
}

type goalJSON struct {
	ID           string  `json:"id"`
	FamilyID     string  `json:"family_id"`
	Name         string  `json:"name"`
	TargetCents  int64   `json:"target_cents"`
	CurrentCents int64   `json:"current_cents"`
	Status       string  `json:"status"`
	Percent      float64 `json:"percent"`
}

func toGoalJSON(g core.SavingsGoal) goalJSON {
	return goalJSON{
		ID:           g.ID,
		FamilyID:     g.FamilyID,
		Name:         g.Name,
		TargetCents:  g.TargetAmount.Cents,
		CurrentCents: g.CurrentAmount.Cents,
		Status:       string(g.Status),
		Percent:      g.ProgressPercent(),
	}
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	goals, err := s.goals.List(r.Context(), fam)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]goalJSON, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalJSON(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload goalPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	targetCents, err := core.ParseTargetToCents(payload.TargetAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid target amount")
		return
	}
	created, err := s.goals.Create(r.Context(), core.SavingsGoal{
		FamilyID:     fam,
		Name:         sanitizeInput(payload.Name),
		TargetAmount: core.Money{Cents: targetCents},
		Status:       core.GoalStatus(payload.Status),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGoalJSON(created))
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload goalPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := r.PathValue("id")
	goal, err := s.goals.Get(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if payload.Name != "" {
		goal.Name = sanitizeInput(payload.Name)
	}
	if payload.TargetAmount != "" {
		cents, err := core.ParseTargetToCents(payload.TargetAmount)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid target amount")
			return
		}
		goal.TargetAmount = core.Money{Cents: cents}
	}
	if err := s.goals.Update(r.Context(), goal); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(goal))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	if err := s.goals.Delete(r.Context(), fam, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleContributeGoal(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload struct {
		Amount string `json:"amount"`
	}
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cents, err := core.ParseAmountToCents(payload.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	updated, err := s.goals.Contribute(r.Context(), fam, r.PathValue("id"), core.Money{Cents: cents})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(updated))
}

func (s *Server) handleSetGoalStatus(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload struct {
		Status string `json:"status"`
	}
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := r.PathValue("id")
	if err := s.goals.SetStatus(r.Context(), fam, id, core.GoalStatus(payload.Status)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	goal, err := s.goals.Get(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(goal))
}

func (s *Server) handleResetGoal(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	id := r.PathValue("id")
	if err := s.goals.Reset(r.Context(), fam, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	goal, err := s.goals.Get(r.Context(), fam, id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalJSON(goal))
}
