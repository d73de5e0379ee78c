package handler

import (
	"net/http"

	"SearchAPI/internal/query"
)

// CountResponse carries the number of visible records matching a request.
type CountResponse struct {
	Count int64 `json:"count"`
}

// Count serves POST /api/count/{entity}: the same request as Search, but only
// the total is returned. Paging fields are ignored.
func (h *Handler) Count(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	req, ok := decodeRequest(w, r, "/api/count")
	if !ok {
		return
	}

	one := 1
	counted := &query.Request{
		Search:  req.Search,
		Filters: req.Filters,
		Sorts:   req.Sorts,
		Size:    &one,
	}
	page, err := h.svc.SearchEntity(r.Context(), entity, counted)
	if err != nil {
		writeSearchError(w, entity, err)
		return
	}
	writeSuccess(w, "Count retrieved successfully", CountResponse{Count: page.TotalElements})
}
