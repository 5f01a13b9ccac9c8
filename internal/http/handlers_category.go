package http

import (
	"net/http"

	"github.com/alessandrotostes/controle-de-gastos/internal/core"
)

type categoryPayload struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type categoryJSON struct {
	ID       string `json:"id"`
	FamilyID string `json:"family_id"`
	Name     string `json:"name"`
	Color    string `json:"color"`
}

func toCategoryJSON(c core.Category) categoryJSON {
	return categoryJSON{ID: c.ID, FamilyID: c.FamilyID, Name: c.Name, Color: c.Color}
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	categories, err := s.ledger.ListCategories(r.Context(), fam)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]categoryJSON, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryJSON(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload categoryPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	created, err := s.ledger.CreateCategory(r.Context(), core.Category{
		FamilyID: fam,
		Name:     sanitizeInput(payload.Name),
		Color:    sanitizeInput(payload.Color),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryJSON(created))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	var payload categoryPayload
	if err := decodeBody(w, r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	category := core.Category{
		ID:       r.PathValue("id"),
		FamilyID: fam,
		Name:     sanitizeInput(payload.Name),
		Color:    sanitizeInput(payload.Color),
	}
	if err := s.ledger.UpdateCategory(r.Context(), category); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryJSON(category))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	fam, ok := familyID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "missing family id")
		return
	}
	if err := s.ledger.DeleteCategory(r.Context(), fam, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
