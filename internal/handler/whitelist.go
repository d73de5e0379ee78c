package handler

import (
	"errors"
	"net/http"

	"SearchAPI/internal/query"
	"SearchAPI/internal/search"
)

// WhitelistResponse describes what a client may send for an entity.
type WhitelistResponse struct {
	Entity     string              `json:"entity"`
	Fields     []query.FieldConfig `json:"fields"`
	Searchable []string            `json:"searchable"`
	Filterable []string            `json:"filterable"`
	MaxSize    int                 `json:"maxPageSize"`
}

// Whitelist serves GET /api/whitelists/{entity}.
func (h *Handler) Whitelist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, http.StatusMethodNotAllowed, "Only GET allowed")
		return
	}
	name := r.PathValue("entity")
	e, err := h.svc.Entity(name)
	if err != nil {
		if errors.Is(err, search.ErrUnknownEntity) {
			WriteError(w, http.StatusNotFound, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	searchable := []string{}
	for _, f := range e.Whitelist.Searchable() {
		searchable = append(searchable, f.Name)
	}
	writeSuccess(w, "Whitelist retrieved successfully", WhitelistResponse{
		Entity:     e.Name,
		Fields:     e.Whitelist.Fields(),
		Searchable: searchable,
		Filterable: e.Whitelist.FilterableNames(),
		MaxSize:    query.MaxPageSize,
	})
}
