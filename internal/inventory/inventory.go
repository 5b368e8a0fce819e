// Package inventory implements the donation lifecycle: item batches, requests
// against them, and the coupled status/quantity bookkeeping.
//
// Every operation runs as one transaction. An item's status is derived state:
//
//	Completed  if quantity <= 0
//	Requested  if quantity > 0 and a Pending request references the item
//	Available  otherwise
//
// The rule is re-evaluated inside the transaction after every mutation that
// touches quantity or the request set, so the stored status column is only
// ever a cache of this function.
package inventory

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareline/shareline/internal/model"
	"github.com/shareline/shareline/internal/policy"
	"github.com/shareline/shareline/internal/store"
)

// Decision is the donor's resolution of a pending request.
type Decision int

// Decisions.
const (
	DecisionApprove Decision = iota + 1
	DecisionReject
)

// ParseDecision converts a wire-format request status into a Decision.
// Only the terminal states are valid decisions; "Pending" is not.
func ParseDecision(s string) (Decision, error) {
	switch s {
	case model.RequestStatusApproved:
		return DecisionApprove, nil
	case model.RequestStatusRejected:
		return DecisionReject, nil
	default:
		return 0, fmt.Errorf("invalid decision %q", s)
	}
}

// Service runs the donation lifecycle operations against the database.
type Service struct {
	DB *sql.DB
}

// NewService creates an inventory service.
func NewService(db *sql.DB) *Service {
	return &Service{DB: db}
}

// CreateOrAugmentItem lists a donation batch. If the donor already has an
// item with the same name, category, location and description, its quantity
// is increased instead of creating a duplicate row; this can flip a
// Completed item back to Available.
func (s *Service) CreateOrAugmentItem(ctx context.Context, donorID int64, name, category, description, location string, quantity int) (*model.Item, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("creating item: %w", ErrInvalidQuantity)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	donor, err := store.GetUser(ctx, tx, donorID)
	if err != nil {
		return nil, err
	}
	if donor == nil || !donor.IsDonor {
		return nil, fmt.Errorf("donor %d: %w", donorID, ErrInvalidDonor)
	}

	existing, err := store.FindItemByBatchKey(ctx, tx, donorID, name, category, location, description)
	if err != nil {
		return nil, err
	}

	var itemID int64
	if existing != nil {
		itemID = existing.ID
		if err := store.SetItemQuantity(ctx, tx, itemID, existing.Quantity+quantity); err != nil {
			return nil, err
		}
	} else {
		itemID, err = store.InsertItem(ctx, tx, donorID, name, category, description, location, quantity, model.ItemStatusAvailable)
		if err != nil {
			return nil, err
		}
	}

	if err := s.recomputeItemStatus(ctx, tx, itemID); err != nil {
		return nil, err
	}

	item, err := store.GetItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}
	return item, nil
}

// CreateRequest files a claim for an item. The quantity is validated against
// current stock but not reserved; several pending requests may together
// exceed the item's quantity, and over-commitment is resolved at approval
// time.
func (s *Service) CreateRequest(ctx context.Context, requesterID, itemID int64, quantity int) (*model.Request, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("creating request: %w", ErrInvalidQuantity)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := store.GetItem(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	if quantity > item.Quantity {
		return nil, fmt.Errorf("requested %d of %d: %w", quantity, item.Quantity, ErrInsufficientQuantity)
	}

	requester, err := store.GetUser(ctx, tx, requesterID)
	if err != nil {
		return nil, err
	}
	if requester == nil {
		return nil, fmt.Errorf("requester %d: %w", requesterID, ErrNotFound)
	}

	requestID, err := store.InsertRequest(ctx, tx, requesterID, itemID, quantity)
	if err != nil {
		return nil, err
	}

	if err := s.recomputeItemStatus(ctx, tx, itemID); err != nil {
		return nil, err
	}

	req, err := store.GetRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing request: %w", err)
	}
	return req, nil
}

// DecideRequest approves or rejects a pending request. Only the donor owning
// the requested item may decide, and a resolved request is immutable.
// Approval re-validates the quantity against current stock (it may have
// shrunk since the request was filed) and decrements it; rejection leaves
// stock untouched. Request status, quantity and item status commit together
// or not at all.
func (s *Service) DecideRequest(ctx context.Context, requestID int64, actor model.Actor, decision Decision) (*model.Request, error) {
	if decision != DecisionApprove && decision != DecisionReject {
		return nil, fmt.Errorf("invalid decision %d", decision)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := store.GetRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}

	actingUser, err := store.GetUser(ctx, tx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !policy.ActorHasCapability(actor, actingUser) {
		return nil, fmt.Errorf("deciding request %d: %w", requestID, ErrForbidden)
	}

	item, err := store.GetItem(ctx, tx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %d: %w", req.ItemID, ErrNotFound)
	}

	if !policy.CanDecideRequest(actor, item) {
		return nil, fmt.Errorf("deciding request %d: %w", requestID, ErrForbidden)
	}

	if req.Resolved() {
		return nil, fmt.Errorf("request %d is %s: %w", requestID, req.Status, ErrInvalidState)
	}

	status := model.RequestStatusRejected
	if decision == DecisionApprove {
		if req.RequestedQuantity > item.Quantity {
			return nil, fmt.Errorf("approving %d of %d: %w", req.RequestedQuantity, item.Quantity, ErrInsufficientQuantity)
		}
		if err := store.SetItemQuantity(ctx, tx, item.ID, item.Quantity-req.RequestedQuantity); err != nil {
			return nil, err
		}
		status = model.RequestStatusApproved
	}

	if err := store.SetRequestStatus(ctx, tx, requestID, status); err != nil {
		return nil, err
	}

	if err := s.recomputeItemStatus(ctx, tx, item.ID); err != nil {
		return nil, err
	}

	req, err = store.GetRequest(ctx, tx, requestID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing decision: %w", err)
	}
	return req, nil
}

// DeleteItem removes an item and its resolved requests. Blocked while any
// request against the item is still pending.
func (s *Service) DeleteItem(ctx context.Context, itemID int64, actor model.Actor) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	item, err := store.GetItem(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d: %w", itemID, ErrNotFound)
	}

	actingUser, err := store.GetUser(ctx, tx, actor.UserID)
	if err != nil {
		return err
	}
	if !policy.ActorHasCapability(actor, actingUser) || !policy.CanDeleteItem(actor, item) {
		return fmt.Errorf("deleting item %d: %w", itemID, ErrForbidden)
	}

	pending, err := store.HasPendingRequests(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if pending {
		return fmt.Errorf("deleting item %d: %w", itemID, ErrConflict)
	}

	if err := store.DeleteRequestsForItem(ctx, tx, itemID); err != nil {
		return err
	}
	if err := store.DeleteItemRow(ctx, tx, itemID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing item deletion: %w", err)
	}
	return nil
}

// DeleteRequest withdraws a request. Requesters may delete their own;
// donors may delete requests against their items. Deleting an Approved
// request does not restock the item: the decrement happened at approval and
// is deliberately not reversed.
func (s *Service) DeleteRequest(ctx context.Context, requestID int64, actor model.Actor) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	req, err := store.GetRequest(ctx, tx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}

	actingUser, err := store.GetUser(ctx, tx, actor.UserID)
	if err != nil {
		return err
	}
	if !policy.ActorHasCapability(actor, actingUser) {
		return fmt.Errorf("deleting request %d: %w", requestID, ErrForbidden)
	}

	item, err := store.GetItem(ctx, tx, req.ItemID)
	if err != nil {
		return err
	}

	if !policy.CanDeleteRequest(actor, req, item) {
		return fmt.Errorf("deleting request %d: %w", requestID, ErrForbidden)
	}

	if err := store.DeleteRequestRow(ctx, tx, requestID); err != nil {
		return err
	}

	// Removing a pending request may revert the item to Available.
	if item != nil {
		if err := s.recomputeItemStatus(ctx, tx, item.ID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing request deletion: %w", err)
	}
	return nil
}

// DeleteAccount removes a user and everything hanging off them: requests
// they filed, items they donated and all requests against those items, then
// the user row itself.
func (s *Service) DeleteAccount(ctx context.Context, userID int64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	user, err := store.GetUser(ctx, tx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	if err := store.DeleteRequestsByRequester(ctx, tx, userID); err != nil {
		return err
	}
	if err := store.DeleteRequestsForDonorItems(ctx, tx, userID); err != nil {
		return err
	}
	if err := store.DeleteItemsByDonor(ctx, tx, userID); err != nil {
		return err
	}
	if err := store.DeleteUser(ctx, tx, userID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing account deletion: %w", err)
	}
	return nil
}

// recomputeItemStatus re-derives the item's status from its quantity and the
// pending request set and writes it back. Must run inside the transaction of
// every operation that changes either input.
func (s *Service) recomputeItemStatus(ctx context.Context, tx *sql.Tx, itemID int64) error {
	item, err := store.GetItem(ctx, tx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("recomputing status: item %d: %w", itemID, ErrNotFound)
	}

	status := model.ItemStatusAvailable
	if item.Quantity <= 0 {
		status = model.ItemStatusCompleted
	} else {
		pending, err := store.HasPendingRequests(ctx, tx, itemID)
		if err != nil {
			return err
		}
		if pending {
			status = model.ItemStatusRequested
		}
	}

	if status == item.Status {
		return nil
	}
	return store.SetItemStatus(ctx, tx, itemID, status)
}
