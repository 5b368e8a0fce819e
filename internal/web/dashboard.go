package web

import (
	"log/slog"
	"net/http"

	"github.com/shareline/shareline/internal/model"
	"github.com/shareline/shareline/internal/store"
)

// Dashboard handles GET /. Donors see their listings and incoming requests,
// affected users see available items and their own requests.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	switch model.Role(claims.Role) {
	case model.RoleDonor:
		s.donorDashboard(w, r)
	case model.RoleAffected:
		s.affectedDashboard(w, r)
	default:
		clearAuthCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func (s *Server) donorDashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	items, err := store.ListItems(r.Context(), s.DB, store.ItemFilter{DonorID: claims.UserID})
	if err != nil {
		slog.Error("failed to list donor items", "error", err)
	}
	requests, err := store.ListRequests(r.Context(), s.DB, store.RequestFilter{DonorID: claims.UserID})
	if err != nil {
		slog.Error("failed to list incoming requests", "error", err)
	}

	s.Templates.Render(w, "donor_dashboard.html", &struct {
		PageData
		Items    []model.Item
		Requests []model.Request
	}{
		PageData: PageData{Title: "Moje donacije", User: claims},
		Items:    items,
		Requests: requests,
	})
}

func (s *Server) affectedDashboard(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	items, err := store.ListItems(r.Context(), s.DB, store.ItemFilter{Status: model.ItemStatusAvailable})
	if err != nil {
		slog.Error("failed to list available items", "error", err)
	}
	requests, err := store.ListRequests(r.Context(), s.DB, store.RequestFilter{RequesterID: claims.UserID})
	if err != nil {
		slog.Error("failed to list own requests", "error", err)
	}

	s.Templates.Render(w, "affected_dashboard.html", &struct {
		PageData
		Items    []model.Item
		Requests []model.Request
	}{
		PageData: PageData{Title: "Razpoložljive donacije", User: claims},
		Items:    items,
		Requests: requests,
	})
}
