package policy

import (
	"testing"

	"github.com/shareline/shareline/internal/model"
)

func TestActorHasCapability(t *testing.T) {
	donor := &model.User{ID: 1, IsDonor: true}
	affected := &model.User{ID: 2, IsAffected: true}
	both := &model.User{ID: 3, IsDonor: true, IsAffected: true}
	neither := &model.User{ID: 4}

	tests := []struct {
		name     string
		actor    model.Actor
		user     *model.User
		expected bool
	}{
		{"donor as donor", model.Actor{UserID: 1, Role: model.RoleDonor}, donor, true},
		{"donor as affected", model.Actor{UserID: 1, Role: model.RoleAffected}, donor, false},
		{"affected as affected", model.Actor{UserID: 2, Role: model.RoleAffected}, affected, true},
		{"affected as donor", model.Actor{UserID: 2, Role: model.RoleDonor}, affected, false},
		{"dual as donor", model.Actor{UserID: 3, Role: model.RoleDonor}, both, true},
		{"dual as affected", model.Actor{UserID: 3, Role: model.RoleAffected}, both, true},
		// A user registered with neither capability must be rejected
		// explicitly, not assumed impossible.
		{"no capability as donor", model.Actor{UserID: 4, Role: model.RoleDonor}, neither, false},
		{"no capability as affected", model.Actor{UserID: 4, Role: model.RoleAffected}, neither, false},
		{"mismatched user id", model.Actor{UserID: 1, Role: model.RoleDonor}, affected, false},
		{"nil user", model.Actor{UserID: 1, Role: model.RoleDonor}, nil, false},
	}

	for _, tt := range tests {
		if got := ActorHasCapability(tt.actor, tt.user); got != tt.expected {
			t.Errorf("%s: ActorHasCapability = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestCanDecideRequest(t *testing.T) {
	item := &model.Item{ID: 10, DonorID: 1}

	tests := []struct {
		name     string
		actor    model.Actor
		item     *model.Item
		expected bool
	}{
		{"owning donor", model.Actor{UserID: 1, Role: model.RoleDonor}, item, true},
		{"other donor", model.Actor{UserID: 2, Role: model.RoleDonor}, item, false},
		{"owner acting as affected", model.Actor{UserID: 1, Role: model.RoleAffected}, item, false},
		{"nil item", model.Actor{UserID: 1, Role: model.RoleDonor}, nil, false},
	}

	for _, tt := range tests {
		if got := CanDecideRequest(tt.actor, tt.item); got != tt.expected {
			t.Errorf("%s: CanDecideRequest = %v, want %v", tt.name, got, tt.expected)
		}
	}
}

func TestCanDeleteItem(t *testing.T) {
	item := &model.Item{ID: 10, DonorID: 1}

	if !CanDeleteItem(model.Actor{UserID: 1, Role: model.RoleDonor}, item) {
		t.Error("owning donor should be allowed to delete their item")
	}
	if CanDeleteItem(model.Actor{UserID: 2, Role: model.RoleDonor}, item) {
		t.Error("non-owning donor should not be allowed to delete the item")
	}
	if CanDeleteItem(model.Actor{UserID: 1, Role: model.RoleAffected}, item) {
		t.Error("affected role should never delete items")
	}
}

func TestCanDeleteRequest(t *testing.T) {
	item := &model.Item{ID: 10, DonorID: 1}
	req := &model.Request{ID: 100, RequesterID: 2, ItemID: 10}

	tests := []struct {
		name     string
		actor    model.Actor
		req      *model.Request
		item     *model.Item
		expected bool
	}{
		{"requester deletes own", model.Actor{UserID: 2, Role: model.RoleAffected}, req, item, true},
		{"other requester", model.Actor{UserID: 3, Role: model.RoleAffected}, req, item, false},
		{"owning donor", model.Actor{UserID: 1, Role: model.RoleDonor}, req, item, true},
		{"other donor", model.Actor{UserID: 3, Role: model.RoleDonor}, req, item, false},
		{"donor with missing item", model.Actor{UserID: 1, Role: model.RoleDonor}, req, nil, false},
		{"nil request", model.Actor{UserID: 2, Role: model.RoleAffected}, nil, item, false},
		{"unknown role", model.Actor{UserID: 2, Role: model.Role("admin")}, req, item, false},
	}

	for _, tt := range tests {
		if got := CanDeleteRequest(tt.actor, tt.req, tt.item); got != tt.expected {
			t.Errorf("%s: CanDeleteRequest = %v, want %v", tt.name, got, tt.expected)
		}
	}
}
