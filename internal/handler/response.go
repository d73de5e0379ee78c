package handler

import (
	"encoding/json"
	"net/http"

	"SearchAPI/internal/logger"
)

// SuccessResponse is the envelope of every 2xx body.
type SuccessResponse struct {
	Data    any    `json:"data"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// ErrorResponse is the envelope of every 4xx/5xx body.
type ErrorResponse struct {
	Errors     []string `json:"errors"`
	StatusCode int      `json:"statusCode"`
	Status     string   `json:"status"`
	Success    bool     `json:"success"`
}

func writeSuccess(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, SuccessResponse{Data: data, Message: message, Status: http.StatusOK})
}

// WriteError writes the error envelope with status.
func WriteError(w http.ResponseWriter, status int, errs ...string) {
	writeJSON(w, status, ErrorResponse{
		Errors:     errs,
		StatusCode: status,
		Status:     http.StatusText(status),
		Success:    false,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("write_response_failed", map[string]any{"error": err.Error()})
	}
}
