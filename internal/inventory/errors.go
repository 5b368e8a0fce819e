package inventory

import "errors"

// Error kinds surfaced by the inventory operations. Every failure is detected
// before any mutation commits, so callers observing one of these can assume
// no side effects. HTTP layers translate them with errors.Is; the core never
// formats user-facing messages.
var (
	// ErrNotFound means a referenced user, item or request does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidDonor means the donor id does not reference a donor-capable user.
	ErrInvalidDonor = errors.New("user is not a donor")

	// ErrInvalidQuantity means a non-positive quantity was supplied.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInsufficientQuantity means the requested amount exceeds the item's
	// current quantity. Checked at request creation and again at approval.
	ErrInsufficientQuantity = errors.New("requested quantity exceeds available quantity")

	// ErrForbidden means the actor lacks the ownership or role the operation
	// requires.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidState means the request has already been resolved; Approved
	// and Rejected are terminal.
	ErrInvalidState = errors.New("request already resolved")

	// ErrConflict means item deletion is blocked by pending requests.
	ErrConflict = errors.New("item has pending requests")
)
