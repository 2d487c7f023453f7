package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/suma-expressitbd/storefront-core/internal/catalog"
	"github.com/suma-expressitbd/storefront-core/internal/domain"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps business-rule violations to HTTP status codes.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfStock):
		respondError(w, http.StatusConflict, "out_of_stock", err.Error())
	case errors.Is(err, domain.ErrInvalidVariant):
		respondError(w, http.StatusBadRequest, "invalid_variant", err.Error())
	case errors.Is(err, domain.ErrItemNotFound):
		respondError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", err.Error())
	case errors.Is(err, domain.ErrNoPendingConflict):
		respondError(w, http.StatusConflict, "no_pending_conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidDecision):
		respondError(w, http.StatusBadRequest, "invalid_decision", err.Error())
	case errors.Is(err, domain.ErrAddInFlight):
		respondError(w, http.StatusTooManyRequests, "add_in_progress", err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
