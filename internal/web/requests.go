package web

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shareline/shareline/internal/inventory"
)

// RequestCreateSubmit handles POST /requests.
func (s *Server) RequestCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	itemID, err := strconv.ParseInt(r.FormValue("item_id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid item", http.StatusBadRequest)
		return
	}
	quantity, _ := strconv.Atoi(r.FormValue("requested_quantity"))

	request, err := s.Inventory.CreateRequest(r.Context(), claims.UserID, itemID, quantity)
	if err != nil {
		slog.Warn("failed to create request", "user", claims.Email, "item", itemID, "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("request filed", "user", claims.Email, "item", itemID, "quantity", request.RequestedQuantity)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequestDecideSubmit handles POST /requests/{id}/decide.
func (s *Server) RequestDecideSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	decision, err := inventory.ParseDecision(r.FormValue("status"))
	if err != nil {
		http.Error(w, "invalid decision", http.StatusBadRequest)
		return
	}

	request, err := s.Inventory.DecideRequest(r.Context(), id, claims.Actor(), decision)
	if err != nil {
		slog.Warn("failed to decide request", "user", claims.Email, "request", id, "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("request decided", "user", claims.Email, "request", id, "status", request.Status)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// RequestDeleteSubmit handles POST /requests/{id}/delete.
func (s *Server) RequestDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.Inventory.DeleteRequest(r.Context(), id, claims.Actor()); err != nil {
		slog.Warn("failed to delete request", "user", claims.Email, "request", id, "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("request deleted", "user", claims.Email, "request", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
