package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"

	"gwan-server/auth"
	"gwan-server/storage"
)

// TokenValidator validates a bearer token and returns its claims. *auth.Validator implements it.
type TokenValidator interface {
	Validate(token string) (jwt.MapClaims, error)
}

// Handler holds dependencies for API handlers.
type Handler struct {
	Auth         TokenValidator
	HistoryStore storage.HistoryStore
}

// NewHandler creates a new API handler with the given dependencies. store may be nil.
func NewHandler(validator TokenValidator, store storage.HistoryStore) *Handler {
	return &Handler{
		Auth:         validator,
		HistoryStore: store,
	}
}

// Register mounts the API routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/history", h.History)
}

// CORS sets CORS headers on the response. Call before writing body.
func CORS(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}

// extractUserID validates the Authorization header and returns the user ID, or empty string on failure.
func (h *Handler) extractUserID(r *http.Request) string {
	token, ok := auth.BearerToken(r.Header.Get("Authorization"))
	if !ok || h.Auth == nil {
		return ""
	}
	claims, err := h.Auth.Validate(token)
	if err != nil {
		slog.Debug("rejected bearer token", "tag", "api", "err", err)
		return ""
	}
	return auth.UserIDFromClaims(claims)
}

// History returns the finished matches of the authenticated user.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if CORS(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID := h.extractUserID(r)
	if userID == "" {
		http.Error(w, "authorization required", http.StatusUnauthorized)
		return
	}

	list := []storage.MatchRecord{}
	if h.HistoryStore != nil {
		var err error
		list, err = h.HistoryStore.ListByUserID(r.Context(), userID)
		if err != nil {
			slog.Error("listing history", "tag", "api", "user", userID, "err", err)
			http.Error(w, "failed to load history", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		slog.Error("encoding history response", "tag", "api", "err", err)
	}
}
