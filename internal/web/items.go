package web

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shareline/shareline/internal/imaging"
	"github.com/shareline/shareline/internal/inventory"
	"github.com/shareline/shareline/internal/model"
	"github.com/shareline/shareline/internal/store"
)

// ItemsPage handles GET /items with optional category and location filters.
func (s *Server) ItemsPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	filter := store.ItemFilter{
		Category: r.URL.Query().Get("category"),
		Location: r.URL.Query().Get("location"),
	}
	items, err := store.ListItems(r.Context(), s.DB, filter)
	if err != nil {
		slog.Error("failed to list items", "error", err)
	}

	s.Templates.Render(w, "items.html", &struct {
		PageData
		Items    []model.Item
		Category string
		Location string
	}{
		PageData: PageData{Title: "Predmeti", User: claims},
		Items:    items,
		Category: filter.Category,
		Location: filter.Location,
	})
}

// ItemDetailPage handles GET /items/{id}.
func (s *Server) ItemDetailPage(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if item == nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}

	requests, err := store.ListRequests(r.Context(), s.DB, store.RequestFilter{ItemID: id})
	if err != nil {
		slog.Error("failed to list item requests", "error", err)
	}

	s.Templates.Render(w, "item_detail.html", &struct {
		PageData
		Item     *model.Item
		Requests []model.Request
		IsOwner  bool
	}{
		PageData: PageData{Title: item.Name, User: claims},
		Item:     item,
		Requests: requests,
		IsOwner:  item.DonorID == claims.UserID,
	})
}

// ItemCreateSubmit handles POST /items. A matching existing batch is augmented
// instead of duplicated.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())

	name := r.FormValue("name")
	category := r.FormValue("category")
	description := r.FormValue("description")
	location := r.FormValue("location")
	quantity, _ := strconv.Atoi(r.FormValue("quantity"))

	if name == "" || category == "" || location == "" {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	item, err := s.Inventory.CreateOrAugmentItem(r.Context(), claims.UserID, name, category, description, location, quantity)
	if err != nil {
		slog.Warn("failed to create item", "user", claims.Email, "error", err)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("item listed", "user", claims.Email, "item", item.Name, "quantity", item.Quantity)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemDeleteSubmit handles POST /items/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.Inventory.DeleteItem(r.Context(), id, claims.Actor()); err != nil {
		slog.Warn("failed to delete item", "user", claims.Email, "item", id, "error", err)
		if errors.Is(err, inventory.ErrConflict) {
			http.Error(w, "predmet ima odprta povpraševanja", http.StatusConflict)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	slog.Info("item deleted", "user", claims.Email, "item", id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// ItemImageSubmit handles POST /items/{id}/image.
func (s *Server) ItemImageSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := store.GetItem(r.Context(), s.DB, id)
	if err != nil || item == nil {
		http.Error(w, "item not found", http.StatusNotFound)
		return
	}
	if item.DonorID != claims.UserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		http.Error(w, "file too large", http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, mime, err := imaging.Process(file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := store.SetItemImage(r.Context(), s.DB, id, data, mime); err != nil {
		slog.Error("failed to save image", "error", err)
		http.Error(w, "failed to save image", http.StatusInternalServerError)
		return
	}

	slog.Info("item image uploaded", "user", claims.Email, "item", item.Name)
	http.Redirect(w, r, "/items/"+r.PathValue("id"), http.StatusSeeOther)
}

// ItemImageGet handles GET /items/{id}/image.
func (s *Server) ItemImageGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	data, mime, err := store.GetItemImage(r.Context(), s.DB, id)
	if err != nil {
		slog.Error("failed to get image", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(data); err != nil {
		slog.Error("failed to write image response", "error", err)
	}
}
