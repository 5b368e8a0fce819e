package model

import "time"

// Request is a claim by a requester against an item batch. Approved and
// Rejected are terminal: once resolved, a request never changes again.
type Request struct {
	ID                int64     `json:"id"`
	RequesterID       int64     `json:"requester_id"`
	ItemID            int64     `json:"item_id"`
	RequestedQuantity int       `json:"requested_quantity"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemName      string `json:"item_name,omitempty"`
	RequesterName string `json:"requester_name,omitempty"`
}

// Request statuses.
const (
	RequestStatusPending  = "Pending"
	RequestStatusApproved = "Approved"
	RequestStatusRejected = "Rejected"
)

// Resolved reports whether the request is in a terminal state.
func (r *Request) Resolved() bool {
	return r.Status != RequestStatusPending
}
