package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shareline/shareline/internal/inventory"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// inventoryError translates an inventory error kind into an HTTP response.
// The core detects all failures before mutating, so any of these means no
// side effects happened.
func inventoryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, inventory.ErrForbidden):
		jsonError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, inventory.ErrConflict):
		jsonError(w, http.StatusConflict, err.Error())
	case errors.Is(err, inventory.ErrInvalidDonor),
		errors.Is(err, inventory.ErrInvalidQuantity),
		errors.Is(err, inventory.ErrInsufficientQuantity),
		errors.Is(err, inventory.ErrInvalidState):
		jsonError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("inventory operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
	}
}
