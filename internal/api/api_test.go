package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shareline/shareline/internal/db"
	"github.com/shareline/shareline/internal/model"
)

const testSigningKey = "test-signing-key"

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database := db.NewTestDB(t)
	router := NewRouter(database, testSigningKey)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func registerUser(t *testing.T, server *httptest.Server, email string, isDonor, isAffected bool) string {
	t.Helper()
	body, _ := json.Marshal(map[string]any{
		"email":       email,
		"name":        "Test User",
		"password":    "test-password",
		"is_donor":    isDonor,
		"is_affected": isAffected,
	})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("register request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register failed: %d", resp.StatusCode)
	}

	var session map[string]string
	json.NewDecoder(resp.Body).Decode(&session)
	if session["token"] == "" {
		t.Fatal("empty token from register")
	}
	return session["token"]
}

func login(t *testing.T, server *httptest.Server, email, role string) (string, int) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{
		"email":    email,
		"password": "test-password",
		"role":     role,
	})
	resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	var session map[string]string
	json.NewDecoder(resp.Body).Decode(&session)
	return session["token"], resp.StatusCode
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func doJSON(t *testing.T, req *http.Request, target any) int {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if target != nil {
		json.NewDecoder(resp.Body).Decode(target)
	}
	return resp.StatusCode
}

func TestRegisterValidation(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"no capability", map[string]any{"email": "a@b.c", "name": "A", "password": "long-enough"}},
		{"short password", map[string]any{"email": "a@b.c", "name": "A", "password": "short", "is_donor": true}},
		{"bad email", map[string]any{"email": "not-an-email", "name": "A", "password": "long-enough", "is_donor": true}},
		{"missing name", map[string]any{"email": "a@b.c", "password": "long-enough", "is_donor": true}},
	}

	for _, tt := range tests {
		body, _ := json.Marshal(tt.body)
		resp, _ := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.name, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "dup@example.com", true, false)

	body, _ := json.Marshal(map[string]any{
		"email": "dup@example.com", "name": "Again", "password": "test-password", "is_donor": true,
	})
	resp, err := http.Post(server.URL+"/api/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for duplicate email, got %d", resp.StatusCode)
	}
}

func TestLoginRoleChecked(t *testing.T) {
	server := setupTestServer(t)
	registerUser(t, server, "donor@example.com", true, false)

	if _, status := login(t, server, "donor@example.com", "donor"); status != http.StatusOK {
		t.Errorf("expected 200 for donor role, got %d", status)
	}
	if _, status := login(t, server, "donor@example.com", "affected"); status != http.StatusForbidden {
		t.Errorf("expected 403 for role the account lacks, got %d", status)
	}
	if _, status := login(t, server, "donor@example.com", "admin"); status != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown role, got %d", status)
	}
}

func TestDonationFlow(t *testing.T) {
	server := setupTestServer(t)
	donorToken := registerUser(t, server, "donor@example.com", true, false)
	affectedToken := registerUser(t, server, "affected@example.com", false, true)

	// Donor lists a batch.
	req, _ := authRequest("POST", server.URL+"/api/items", donorToken, map[string]any{
		"name": "Blankets", "category": "Bedding", "description": "Wool", "location": "Ljubljana", "quantity": 5,
	})
	var item model.Item
	if status := doJSON(t, req, &item); status != http.StatusCreated {
		t.Fatalf("create item: expected 201, got %d", status)
	}
	if item.Status != model.ItemStatusAvailable {
		t.Errorf("expected Available, got %q", item.Status)
	}

	// Same batch again augments instead of duplicating.
	req, _ = authRequest("POST", server.URL+"/api/items", donorToken, map[string]any{
		"name": "Blankets", "category": "Bedding", "description": "Wool", "location": "Ljubljana", "quantity": 2,
	})
	var augmented model.Item
	doJSON(t, req, &augmented)
	if augmented.ID != item.ID || augmented.Quantity != 7 {
		t.Errorf("expected one row with quantity 7, got id=%d quantity=%d", augmented.ID, augmented.Quantity)
	}

	// Affected user files a request.
	req, _ = authRequest("POST", server.URL+"/api/requests", affectedToken, map[string]any{
		"item_id": item.ID, "requested_quantity": 3,
	})
	var request model.Request
	if status := doJSON(t, req, &request); status != http.StatusCreated {
		t.Fatalf("create request: expected 201, got %d", status)
	}

	// Item is now marked Requested.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d", server.URL, item.ID), donorToken, nil)
	var requested model.Item
	doJSON(t, req, &requested)
	if requested.Status != model.ItemStatusRequested {
		t.Errorf("expected Requested, got %q", requested.Status)
	}

	// Deleting the item is blocked while the request is pending.
	req, _ = authRequest("DELETE", fmt.Sprintf("%s/api/items/%d", server.URL, item.ID), donorToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusConflict {
		t.Errorf("expected 409 for delete with pending request, got %d", status)
	}

	// Donor approves; quantity drops.
	req, _ = authRequest("PATCH", fmt.Sprintf("%s/api/requests/%d", server.URL, request.ID), donorToken, map[string]string{
		"status": model.RequestStatusApproved,
	})
	var decided model.Request
	if status := doJSON(t, req, &decided); status != http.StatusOK {
		t.Fatalf("decide request: expected 200, got %d", status)
	}
	if decided.Status != model.RequestStatusApproved {
		t.Errorf("expected Approved, got %q", decided.Status)
	}

	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d", server.URL, item.ID), donorToken, nil)
	var after model.Item
	doJSON(t, req, &after)
	if after.Quantity != 4 {
		t.Errorf("expected quantity 4 after approval, got %d", after.Quantity)
	}
	if after.Status != model.ItemStatusAvailable {
		t.Errorf("expected Available after last pending request resolved, got %q", after.Status)
	}

	// Deciding again fails: terminal state.
	req, _ = authRequest("PATCH", fmt.Sprintf("%s/api/requests/%d", server.URL, request.ID), donorToken, map[string]string{
		"status": model.RequestStatusRejected,
	})
	if status := doJSON(t, req, nil); status != http.StatusBadRequest {
		t.Errorf("expected 400 for re-deciding resolved request, got %d", status)
	}
}

func TestRoleEnforcement(t *testing.T) {
	server := setupTestServer(t)
	donorToken := registerUser(t, server, "donor@example.com", true, false)
	affectedToken := registerUser(t, server, "affected@example.com", false, true)

	// Affected users cannot list items for donation.
	req, _ := authRequest("POST", server.URL+"/api/items", affectedToken, map[string]any{
		"name": "Blankets", "category": "Bedding", "location": "X", "quantity": 1,
	})
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for affected creating item, got %d", status)
	}

	// Donors cannot file requests.
	req, _ = authRequest("POST", server.URL+"/api/requests", donorToken, map[string]any{
		"item_id": 1, "requested_quantity": 1,
	})
	if status := doJSON(t, req, nil); status != http.StatusForbidden {
		t.Errorf("expected 403 for donor filing request, got %d", status)
	}

	// No token at all.
	resp, _ := http.Get(server.URL + "/api/items")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)
	token := registerUser(t, server, "donor@example.com", true, false)

	req, _ := authRequest("POST", server.URL+"/api/auth/logout", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d", status)
	}

	req, _ = authRequest("GET", server.URL+"/api/auth/me", token, nil)
	if status := doJSON(t, req, nil); status != http.StatusUnauthorized {
		t.Errorf("expected 401 after logout, got %d", status)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	server := setupTestServer(t)
	donorToken := registerUser(t, server, "donor@example.com", true, false)
	affectedToken := registerUser(t, server, "affected@example.com", false, true)

	req, _ := authRequest("POST", server.URL+"/api/items", donorToken, map[string]any{
		"name": "Blankets", "category": "Bedding", "location": "X", "quantity": 5,
	})
	var item model.Item
	doJSON(t, req, &item)

	req, _ = authRequest("POST", server.URL+"/api/requests", affectedToken, map[string]any{
		"item_id": item.ID, "requested_quantity": 1,
	})
	doJSON(t, req, nil)

	req, _ = authRequest("DELETE", server.URL+"/api/users/me", donorToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusNoContent {
		t.Fatalf("delete account: expected 204, got %d", status)
	}

	// The affected user's view of the donor's item is gone.
	req, _ = authRequest("GET", fmt.Sprintf("%s/api/items/%d", server.URL, item.ID), affectedToken, nil)
	if status := doJSON(t, req, nil); status != http.StatusNotFound {
		t.Errorf("expected 404 for deleted donor's item, got %d", status)
	}
}
