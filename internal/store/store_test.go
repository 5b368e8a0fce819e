package store

import (
	"context"
	"testing"
	"time"

	"github.com/shareline/shareline/internal/db"
	"github.com/shareline/shareline/internal/model"
)

func seedUser(t *testing.T, q DBTX, email string, isDonor, isAffected bool) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), q, email, "Seed User", "hash", isDonor, isAffected)
	if err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return user
}

func seedItem(t *testing.T, q DBTX, donorID int64, name string, quantity int) int64 {
	t.Helper()
	id, err := InsertItem(context.Background(), q, donorID, name, "Category", "", "Location", quantity, model.ItemStatusAvailable)
	if err != nil {
		t.Fatalf("seeding item: %v", err)
	}
	return id
}

func TestUserLifecycle(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := seedUser(t, database, "user@example.com", true, true)
	if user.ID == 0 {
		t.Fatal("expected non-zero user id")
	}
	if !user.IsDonor || !user.IsAffected {
		t.Errorf("capability flags not persisted: %+v", user)
	}

	byEmail, err := GetUserByEmail(ctx, database, "user@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != user.ID {
		t.Errorf("expected user %d by email, got %+v", user.ID, byEmail)
	}

	missing, err := GetUser(ctx, database, 9999)
	if err != nil {
		t.Fatalf("GetUser missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing user, got %+v", missing)
	}

	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	gone, _ := GetUser(ctx, database, user.ID)
	if gone != nil {
		t.Errorf("expected user deleted, got %+v", gone)
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	database := db.NewTestDB(t)
	seedUser(t, database, "dup@example.com", true, false)

	_, err := CreateUser(context.Background(), database, "dup@example.com", "Other", "hash", false, true)
	if err == nil {
		t.Error("expected unique constraint error for duplicate email")
	}
}

func TestFindItemByBatchKey(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	other := seedUser(t, database, "other@example.com", true, false)

	id := seedItem(t, database, donor.ID, "Blankets", 5)

	found, err := FindItemByBatchKey(ctx, database, donor.ID, "Blankets", "Category", "Location", "")
	if err != nil {
		t.Fatalf("FindItemByBatchKey: %v", err)
	}
	if found == nil || found.ID != id {
		t.Fatalf("expected item %d, got %+v", id, found)
	}

	// Any differing key field means no match.
	if found, _ := FindItemByBatchKey(ctx, database, donor.ID, "Blankets", "Category", "Elsewhere", ""); found != nil {
		t.Errorf("expected no match for different location, got %+v", found)
	}
	if found, _ := FindItemByBatchKey(ctx, database, other.ID, "Blankets", "Category", "Location", ""); found != nil {
		t.Errorf("expected no match for different donor, got %+v", found)
	}
}

func TestListItemsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	other := seedUser(t, database, "other@example.com", true, false)

	blankets := seedItem(t, database, donor.ID, "Blankets", 5)
	seedItem(t, database, donor.ID, "Water", 10)
	seedItem(t, database, other.ID, "Tents", 2)

	all, err := ListItems(ctx, database, ItemFilter{})
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	if all[0].DonorName == "" {
		t.Error("expected donor name joined into listing")
	}

	mine, _ := ListItems(ctx, database, ItemFilter{DonorID: donor.ID})
	if len(mine) != 2 {
		t.Errorf("expected 2 items for donor, got %d", len(mine))
	}

	heavy, _ := ListItems(ctx, database, ItemFilter{MinQuantity: 5})
	if len(heavy) != 2 {
		t.Errorf("expected 2 items with quantity >= 5, got %d", len(heavy))
	}

	if err := SetItemStatus(ctx, database, blankets, model.ItemStatusRequested); err != nil {
		t.Fatalf("SetItemStatus: %v", err)
	}
	requested, _ := ListItems(ctx, database, ItemFilter{Status: model.ItemStatusRequested})
	if len(requested) != 1 || requested[0].ID != blankets {
		t.Errorf("expected only the requested item, got %+v", requested)
	}
}

func TestHasPendingRequests(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	affected := seedUser(t, database, "affected@example.com", false, true)
	item := seedItem(t, database, donor.ID, "Blankets", 5)

	pending, err := HasPendingRequests(ctx, database, item)
	if err != nil {
		t.Fatalf("HasPendingRequests: %v", err)
	}
	if pending {
		t.Error("expected no pending requests for fresh item")
	}

	reqID, err := InsertRequest(ctx, database, affected.ID, item, 2)
	if err != nil {
		t.Fatalf("InsertRequest: %v", err)
	}
	if pending, _ := HasPendingRequests(ctx, database, item); !pending {
		t.Error("expected pending request to be visible")
	}

	if err := SetRequestStatus(ctx, database, reqID, model.RequestStatusRejected); err != nil {
		t.Fatalf("SetRequestStatus: %v", err)
	}
	if pending, _ := HasPendingRequests(ctx, database, item); pending {
		t.Error("resolved request should not count as pending")
	}
}

func TestListRequestsFilters(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	otherDonor := seedUser(t, database, "other@example.com", true, false)
	affected := seedUser(t, database, "affected@example.com", false, true)

	item := seedItem(t, database, donor.ID, "Blankets", 5)
	otherItem := seedItem(t, database, otherDonor.ID, "Tents", 2)

	first, _ := InsertRequest(ctx, database, affected.ID, item, 2)
	InsertRequest(ctx, database, affected.ID, otherItem, 1)
	SetRequestStatus(ctx, database, first, model.RequestStatusApproved)

	all, err := ListRequests(ctx, database, RequestFilter{RequesterID: affected.ID})
	if err != nil {
		t.Fatalf("ListRequests: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 requests for requester, got %d", len(all))
	}
	if all[0].ItemName == "" || all[0].RequesterName == "" {
		t.Error("expected item and requester names joined into listing")
	}

	forDonor, _ := ListRequests(ctx, database, RequestFilter{DonorID: donor.ID})
	if len(forDonor) != 1 || forDonor[0].ItemID != item {
		t.Errorf("expected only the donor's item's request, got %+v", forDonor)
	}

	approved, _ := ListRequests(ctx, database, RequestFilter{Status: model.RequestStatusApproved})
	if len(approved) != 1 || approved[0].ID != first {
		t.Errorf("expected only the approved request, got %+v", approved)
	}
}

func TestDeleteRequestsForDonorItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	otherDonor := seedUser(t, database, "other@example.com", true, false)
	affected := seedUser(t, database, "affected@example.com", false, true)

	item := seedItem(t, database, donor.ID, "Blankets", 5)
	otherItem := seedItem(t, database, otherDonor.ID, "Tents", 2)
	InsertRequest(ctx, database, affected.ID, item, 1)
	InsertRequest(ctx, database, affected.ID, otherItem, 1)

	if err := DeleteRequestsForDonorItems(ctx, database, donor.ID); err != nil {
		t.Fatalf("DeleteRequestsForDonorItems: %v", err)
	}

	remaining, _ := ListRequests(ctx, database, RequestFilter{RequesterID: affected.ID})
	if len(remaining) != 1 || remaining[0].ItemID != otherItem {
		t.Errorf("expected only the other donor's request to survive, got %+v", remaining)
	}
}

func TestItemImageRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	donor := seedUser(t, database, "donor@example.com", true, false)
	item := seedItem(t, database, donor.ID, "Blankets", 5)

	data, mime, err := GetItemImage(ctx, database, item)
	if err != nil {
		t.Fatalf("GetItemImage: %v", err)
	}
	if data != nil || mime != "" {
		t.Errorf("expected no image on fresh item, got %d bytes %q", len(data), mime)
	}

	if err := SetItemImage(ctx, database, item, []byte{0xFF, 0xD8, 0xFF}, "image/jpeg"); err != nil {
		t.Fatalf("SetItemImage: %v", err)
	}

	data, mime, err = GetItemImage(ctx, database, item)
	if err != nil {
		t.Fatalf("GetItemImage after set: %v", err)
	}
	if len(data) != 3 || mime != "image/jpeg" {
		t.Errorf("expected stored image back, got %d bytes %q", len(data), mime)
	}
}

func TestSigningKeyPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, err := GetSigningKey(ctx, database)
	if err != nil {
		t.Fatalf("GetSigningKey: %v", err)
	}
	if len(first) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(first))
	}

	second, err := GetSigningKey(ctx, database)
	if err != nil {
		t.Fatalf("GetSigningKey again: %v", err)
	}
	if second != first {
		t.Error("expected stable signing key across calls")
	}
}

func TestTokenRevocation(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	revoked, err := IsTokenRevoked(ctx, database, "some-jti")
	if err != nil {
		t.Fatalf("IsTokenRevoked: %v", err)
	}
	if revoked {
		t.Error("expected unknown jti to not be revoked")
	}

	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("RevokeToken: %v", err)
	}
	if revoked, _ := IsTokenRevoked(ctx, database, "some-jti"); !revoked {
		t.Error("expected jti to be revoked")
	}

	// Revoking twice is a no-op.
	if err := RevokeToken(ctx, database, "some-jti", time.Now().Add(time.Hour)); err != nil {
		t.Errorf("expected idempotent revocation, got %v", err)
	}
}
