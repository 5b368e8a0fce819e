package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareline/shareline/internal/model"
)

// GetRequest returns a request by ID, or nil if absent.
func GetRequest(ctx context.Context, q DBTX, id int64) (*model.Request, error) {
	req := &model.Request{}
	err := q.QueryRowContext(ctx,
		`SELECT id, requester_id, item_id, requested_quantity, status, created_at
		 FROM requests WHERE id = ?`, id,
	).Scan(&req.ID, &req.RequesterID, &req.ItemID, &req.RequestedQuantity, &req.Status, &req.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting request: %w", err)
	}
	return req, nil
}

// InsertRequest creates a new pending request and returns its ID.
func InsertRequest(ctx context.Context, q DBTX, requesterID, itemID int64, quantity int) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO requests (requester_id, item_id, requested_quantity, status)
		 VALUES (?, ?, ?, ?)`,
		requesterID, itemID, quantity, model.RequestStatusPending,
	)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting request id: %w", err)
	}
	return id, nil
}

// SetRequestStatus writes a request's status.
func SetRequestStatus(ctx context.Context, q DBTX, id int64, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE requests SET status = ? WHERE id = ?`, status, id,
	)
	if err != nil {
		return fmt.Errorf("updating request status: %w", err)
	}
	return nil
}

// DeleteRequestRow removes a request row.
func DeleteRequestRow(ctx context.Context, q DBTX, id int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting request: %w", err)
	}
	return nil
}

// DeleteRequestsForItem removes all requests referencing an item.
func DeleteRequestsForItem(ctx context.Context, q DBTX, itemID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM requests WHERE item_id = ?`, itemID)
	if err != nil {
		return fmt.Errorf("deleting item requests: %w", err)
	}
	return nil
}

// DeleteRequestsForDonorItems removes all requests referencing any item owned
// by the donor.
func DeleteRequestsForDonorItems(ctx context.Context, q DBTX, donorID int64) error {
	_, err := q.ExecContext(ctx,
		`DELETE FROM requests WHERE item_id IN (SELECT id FROM items WHERE donor_id = ?)`,
		donorID,
	)
	if err != nil {
		return fmt.Errorf("deleting requests for donor's items: %w", err)
	}
	return nil
}

// DeleteRequestsByRequester removes all requests filed by a user.
func DeleteRequestsByRequester(ctx context.Context, q DBTX, requesterID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM requests WHERE requester_id = ?`, requesterID)
	if err != nil {
		return fmt.Errorf("deleting requester's requests: %w", err)
	}
	return nil
}

// HasPendingRequests reports whether any pending request references the item.
func HasPendingRequests(ctx context.Context, q DBTX, itemID int64) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM requests WHERE item_id = ? AND status = ?)`,
		itemID, model.RequestStatusPending,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking pending requests: %w", err)
	}
	return exists, nil
}

// RequestFilter narrows ListRequests results. Zero values mean no filtering.
// DonorID filters on the owning donor of the requested item.
type RequestFilter struct {
	RequesterID int64
	ItemID      int64
	DonorID     int64
	Status      string
}

// ListRequests returns requests matching the filter, with item and requester
// names joined.
func ListRequests(ctx context.Context, q DBTX, filter RequestFilter) ([]model.Request, error) {
	query := `SELECT r.id, r.requester_id, r.item_id, r.requested_quantity, r.status, r.created_at,
	                 i.name AS item_name, u.name AS requester_name
	          FROM requests r
	          JOIN items i ON i.id = r.item_id
	          JOIN users u ON u.id = r.requester_id
	          WHERE 1=1`
	var args []any

	if filter.RequesterID > 0 {
		query += ` AND r.requester_id = ?`
		args = append(args, filter.RequesterID)
	}
	if filter.ItemID > 0 {
		query += ` AND r.item_id = ?`
		args = append(args, filter.ItemID)
	}
	if filter.DonorID > 0 {
		query += ` AND i.donor_id = ?`
		args = append(args, filter.DonorID)
	}
	if filter.Status != "" {
		query += ` AND r.status = ?`
		args = append(args, filter.Status)
	}

	query += ` ORDER BY r.created_at DESC, r.id DESC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []model.Request
	for rows.Next() {
		var r model.Request
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.ItemID, &r.RequestedQuantity, &r.Status, &r.CreatedAt,
			&r.ItemName, &r.RequesterName); err != nil {
			return nil, fmt.Errorf("scanning request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
