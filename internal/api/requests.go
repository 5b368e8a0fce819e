package api

import (
	"net/http"
	"strconv"

	"github.com/shareline/shareline/internal/inventory"
	"github.com/shareline/shareline/internal/model"
	"github.com/shareline/shareline/internal/store"
)

// RequestsHandler handles request lifecycle endpoints.
type RequestsHandler struct {
	Inventory *inventory.Service
}

type createRequestRequest struct {
	ItemID            int64 `json:"item_id"`
	RequestedQuantity int   `json:"requested_quantity"`
}

type decideRequestRequest struct {
	Status string `json:"status"`
}

// List handles GET /api/requests with optional item_id and status filters.
// Affected users see their own requests; donors see requests against their
// items.
func (h *RequestsHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	filter := store.RequestFilter{Status: r.URL.Query().Get("status")}
	if raw := r.URL.Query().Get("item_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "invalid item_id")
			return
		}
		filter.ItemID = id
	}

	switch model.Role(claims.Role) {
	case model.RoleAffected:
		filter.RequesterID = claims.UserID
	case model.RoleDonor:
		filter.DonorID = claims.UserID
	}

	requests, err := store.ListRequests(r.Context(), h.Inventory.DB, filter)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list requests")
		return
	}
	if requests == nil {
		requests = []model.Request{}
	}
	jsonResponse(w, http.StatusOK, requests)
}

// Create handles POST /api/requests. The requester is the authenticated user.
func (h *RequestsHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	var req createRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Inventory.CreateRequest(r.Context(), claims.UserID, req.ItemID, req.RequestedQuantity)
	if err != nil {
		inventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusCreated, request)
}

// Get handles GET /api/requests/{id}.
func (h *RequestsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	request, err := store.GetRequest(r.Context(), h.Inventory.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get request")
		return
	}
	if request == nil {
		jsonError(w, http.StatusNotFound, "request not found")
		return
	}
	jsonResponse(w, http.StatusOK, request)
}

// Decide handles PATCH /api/requests/{id}: the owning donor approves or
// rejects a pending request.
func (h *RequestsHandler) Decide(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	var req decideRequestRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	decision, err := inventory.ParseDecision(req.Status)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "status must be Approved or Rejected")
		return
	}

	request, err := h.Inventory.DecideRequest(r.Context(), id, claims.Actor(), decision)
	if err != nil {
		inventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, request)
}

// Delete handles DELETE /api/requests/{id}.
func (h *RequestsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request id")
		return
	}

	if err := h.Inventory.DeleteRequest(r.Context(), id, claims.Actor()); err != nil {
		inventoryError(w, err)
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "request deleted"})
}
