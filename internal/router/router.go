package router

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"SearchAPI/internal/auth"
	"SearchAPI/internal/config"
	"SearchAPI/internal/handler"
	"SearchAPI/internal/logger"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// InitRoutes wires the API endpoints and their middleware.
func InitRoutes(cfg *config.Config, h *handler.Handler) (http.Handler, error) {
	var validator *auth.JWTValidator
	if cfg.Auth.Enabled {
		v, err := auth.NewJWTValidator(cfg.Auth.JWT)
		if err != nil {
			return nil, err
		}
		validator = v
	}

	cors := newCORSPolicy(cfg.CORS.AllowOrigin, cfg.CORS.AllowCredentials)
	wrap := func(next http.HandlerFunc) http.HandlerFunc {
		if validator != nil {
			next = withAuth(validator, next)
		}
		return withRequestID(withCORS(cors, withLogging(next)))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/search/{entity}", wrap(h.Search))
	mux.HandleFunc("/api/count/{entity}", wrap(h.Count))
	mux.HandleFunc("/api/whitelists/{entity}", wrap(h.Whitelist))
	return mux, nil
}

// RequestID returns the id assigned to the request being served.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withRequestID keeps a client supplied X-Request-ID or assigns a new one.
func withRequestID(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	}
}

// withAuth rejects requests without a valid bearer token. It sits inside
// withCORS, so preflight requests never reach it.
func withAuth(v *auth.JWTValidator, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.BearerToken(r)
		if err == nil {
			var claims map[string]any
			claims, err = v.ValidateToken(token)
			if err == nil {
				next(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
				return
			}
		}
		logger.Warn("auth_rejected", map[string]any{
			"path":       r.URL.Path,
			"request_id": RequestID(r.Context()),
			"error":      err.Error(),
		})
		w.Header().Set("WWW-Authenticate", `Bearer realm="search-api"`)
		handler.WriteError(w, http.StatusUnauthorized, "Unauthorized")
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func withLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		level := "info"
		if sw.status >= 500 {
			level = "error"
		} else if sw.status >= 400 {
			level = "warn"
		}
		fields := map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     sw.status,
			"request_id": RequestID(r.Context()),
		}
		switch level {
		case "error":
			logger.Error("response", fields)
		case "warn":
			logger.Warn("response", fields)
		default:
			logger.Info("response", fields)
		}
	}
}
