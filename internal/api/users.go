package api

import (
	"net/http"
	"strconv"

	"github.com/shareline/shareline/internal/inventory"
	"github.com/shareline/shareline/internal/store"
)

// UsersHandler handles user endpoints.
type UsersHandler struct {
	Inventory *inventory.Service
}

// userView is the public shape of a user (no password hash).
type userView struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name"`
	IsDonor    bool   `json:"is_donor"`
	IsAffected bool   `json:"is_affected"`
}

// List handles GET /api/users.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := store.ListUsers(r.Context(), h.Inventory.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			ID: u.ID, Email: u.Email, Name: u.Name,
			IsDonor: u.IsDonor, IsAffected: u.IsAffected,
		})
	}
	jsonResponse(w, http.StatusOK, views)
}

// Get handles GET /api/users/{id}.
func (h *UsersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := store.GetUser(r.Context(), h.Inventory.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get user")
		return
	}
	if user == nil {
		jsonError(w, http.StatusNotFound, "user not found")
		return
	}

	jsonResponse(w, http.StatusOK, userView{
		ID: user.ID, Email: user.Email, Name: user.Name,
		IsDonor: user.IsDonor, IsAffected: user.IsAffected,
	})
}

// DeleteMe handles DELETE /api/users/me: the authenticated user deletes their
// own account, cascading their requests, their items and all requests against
// those items.
func (h *UsersHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	if err := h.Inventory.DeleteAccount(r.Context(), claims.UserID); err != nil {
		inventoryError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
