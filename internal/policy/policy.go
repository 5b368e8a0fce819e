// Package policy holds the pure access-control predicates for the donation
// lifecycle. Predicates take the acting user (already authenticated) and the
// target entities; they never touch storage.
package policy

import "github.com/shareline/shareline/internal/model"

// ActorHasCapability reports whether the stored user's capability flags
// actually grant the role the actor claims. Sessions carry the role chosen
// at login, but flags can only be trusted from the database row, so the
// inventory operations re-check this before acting. Fails closed for users
// holding neither capability.
func ActorHasCapability(actor model.Actor, user *model.User) bool {
	if user == nil || user.ID != actor.UserID {
		return false
	}
	return user.HasRole(actor.Role)
}

// CanDecideRequest reports whether the actor may approve or reject requests
// against the item: donors only, and only for their own items.
func CanDecideRequest(actor model.Actor, item *model.Item) bool {
	return actor.Role == model.RoleDonor && item != nil && item.DonorID == actor.UserID
}

// CanDeleteItem reports whether the actor may delete the item: donors only,
// and only their own items.
func CanDeleteItem(actor model.Actor, item *model.Item) bool {
	return actor.Role == model.RoleDonor && item != nil && item.DonorID == actor.UserID
}

// CanDeleteRequest reports whether the actor may delete the request.
// A requester may delete their own requests; a donor may delete requests
// against items they own.
func CanDeleteRequest(actor model.Actor, req *model.Request, item *model.Item) bool {
	if req == nil {
		return false
	}
	switch actor.Role {
	case model.RoleAffected:
		return req.RequesterID == actor.UserID
	case model.RoleDonor:
		return item != nil && item.DonorID == actor.UserID
	default:
		return false
	}
}
