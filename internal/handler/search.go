package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"SearchAPI/internal/logger"
	"SearchAPI/internal/query"
	"SearchAPI/internal/registry"
	"SearchAPI/internal/search"
	"SearchAPI/internal/store"
)

const maxBodyBytes = 1 << 20

// Searcher is what the handlers need from the search service.
type Searcher interface {
	SearchEntity(ctx context.Context, entity string, req *query.Request) (*search.Page[store.Row], error)
	Entity(name string) (*registry.Entity, error)
}

type Handler struct {
	svc Searcher
}

func New(svc Searcher) *Handler {
	return &Handler{svc: svc}
}

// Search serves POST /api/search/{entity}. An empty body means "all defaults".
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	entity := r.PathValue("entity")
	req, ok := decodeRequest(w, r, "/api/search")
	if !ok {
		return
	}

	page, err := h.svc.SearchEntity(r.Context(), entity, req)
	if err != nil {
		writeSearchError(w, entity, err)
		return
	}
	writeSuccess(w, retrievedMessage(entity), page)
}

// decodeRequest enforces POST and decodes the wire request. It writes the
// error response itself and reports whether the caller may continue.
func decodeRequest(w http.ResponseWriter, r *http.Request, endpoint string) (*query.Request, bool) {
	if r.Method != http.MethodPost {
		logger.Warn("method_not_allowed", map[string]any{
			"endpoint": endpoint,
			"method":   r.Method,
		})
		WriteError(w, http.StatusMethodNotAllowed, "Only POST allowed")
		return nil, false
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warn("read_body_failed", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		WriteError(w, http.StatusBadRequest, "Failed to read body: "+err.Error())
		return nil, false
	}

	req := &query.Request{}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, true
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(req); err != nil {
		logger.Warn("invalid_json", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		WriteError(w, http.StatusBadRequest, "Invalid request body format: "+err.Error())
		return nil, false
	}

	logger.Debug("request", map[string]any{
		"endpoint": endpoint,
		"payload":  json.RawMessage(body),
	})
	return req, true
}

// writeSearchError maps the three failure kinds of a search to HTTP statuses.
func writeSearchError(w http.ResponseWriter, entity string, err error) {
	var ve *search.ValidationError
	var ee *search.ExecutionError
	switch {
	case errors.As(err, &ve):
		WriteError(w, http.StatusBadRequest, ve.Violations...)
	case errors.Is(err, search.ErrUnknownEntity):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &ee):
		logger.Error("search_failed", map[string]any{
			"entity": entity,
			"error":  err.Error(),
		})
		WriteError(w, http.StatusInternalServerError, "failed to execute search query")
	default:
		logger.Error("search_failed", map[string]any{
			"entity": entity,
			"error":  err.Error(),
		})
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// retrievedMessage renders "Products retrieved successfully" for "products".
func retrievedMessage(entity string) string {
	if entity == "" {
		return "Records retrieved successfully"
	}
	return fmt.Sprintf("%s%s retrieved successfully", strings.ToUpper(entity[:1]), entity[1:])
}
