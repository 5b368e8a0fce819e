package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shareline/shareline/internal/model"
)

const itemColumns = `id, donor_id, name, category, description, location, quantity, status, image_mime, created_at, updated_at`

func scanItem(row *sql.Row) (*model.Item, error) {
	item := &model.Item{}
	var imageMime sql.NullString
	err := row.Scan(&item.ID, &item.DonorID, &item.Name, &item.Category, &item.Description,
		&item.Location, &item.Quantity, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	item.ImageMime = imageMime.String
	return item, nil
}

// GetItem returns an item by ID, or nil if absent.
func GetItem(ctx context.Context, q DBTX, id int64) (*model.Item, error) {
	return scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
}

// FindItemByBatchKey returns the item matching the batch's natural key
// (donor, name, category, location, description), or nil if none exists.
func FindItemByBatchKey(ctx context.Context, q DBTX, donorID int64, name, category, location, description string) (*model.Item, error) {
	return scanItem(q.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items
		 WHERE donor_id = ? AND name = ? AND category = ? AND location = ? AND description = ?`,
		donorID, name, category, location, description,
	))
}

// InsertItem creates a new item row and returns its ID.
func InsertItem(ctx context.Context, q DBTX, donorID int64, name, category, description, location string, quantity int, status string) (int64, error) {
	result, err := q.ExecContext(ctx,
		`INSERT INTO items (donor_id, name, category, description, location, quantity, status)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		donorID, name, category, description, location, quantity, status,
	)
	if err != nil {
		return 0, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting item id: %w", err)
	}
	return id, nil
}

// SetItemQuantity updates an item's quantity.
func SetItemQuantity(ctx context.Context, q DBTX, id int64, quantity int) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		quantity, id,
	)
	if err != nil {
		return fmt.Errorf("updating item quantity: %w", err)
	}
	return nil
}

// SetItemStatus writes an item's derived status. Only the inventory package's
// recompute step calls this.
func SetItemStatus(ctx context.Context, q DBTX, id int64, status string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating item status: %w", err)
	}
	return nil
}

// DeleteItemRow removes an item row. Requests referencing it must be removed
// first.
func DeleteItemRow(ctx context.Context, q DBTX, id int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// DeleteItemsByDonor removes all items owned by the donor. Requests
// referencing them must be removed first.
func DeleteItemsByDonor(ctx context.Context, q DBTX, donorID int64) error {
	_, err := q.ExecContext(ctx, `DELETE FROM items WHERE donor_id = ?`, donorID)
	if err != nil {
		return fmt.Errorf("deleting donor's items: %w", err)
	}
	return nil
}

// ItemFilter narrows ListItems results. Zero values mean no filtering.
type ItemFilter struct {
	DonorID     int64
	Category    string
	Location    string
	Status      string
	MinQuantity int
}

// ListItems returns items matching the filter, with donor names joined.
func ListItems(ctx context.Context, q DBTX, filter ItemFilter) ([]model.Item, error) {
	query := `SELECT i.id, i.donor_id, i.name, i.category, i.description, i.location,
	                 i.quantity, i.status, i.image_mime, i.created_at, i.updated_at,
	                 u.name AS donor_name
	          FROM items i
	          JOIN users u ON u.id = i.donor_id
	          WHERE 1=1`
	var args []any

	if filter.DonorID > 0 {
		query += ` AND i.donor_id = ?`
		args = append(args, filter.DonorID)
	}
	if filter.Category != "" {
		query += ` AND i.category = ?`
		args = append(args, filter.Category)
	}
	if filter.Location != "" {
		query += ` AND i.location = ?`
		args = append(args, filter.Location)
	}
	if filter.Status != "" {
		query += ` AND i.status = ?`
		args = append(args, filter.Status)
	}
	if filter.MinQuantity > 0 {
		query += ` AND i.quantity >= ?`
		args = append(args, filter.MinQuantity)
	}

	query += ` ORDER BY i.name, i.id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		var imageMime sql.NullString
		if err := rows.Scan(&item.ID, &item.DonorID, &item.Name, &item.Category, &item.Description,
			&item.Location, &item.Quantity, &item.Status, &imageMime, &item.CreatedAt, &item.UpdatedAt,
			&item.DonorName); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		item.ImageMime = imageMime.String
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetItemImage sets an item's image data.
func SetItemImage(ctx context.Context, q DBTX, id int64, image []byte, mime string) error {
	_, err := q.ExecContext(ctx,
		`UPDATE items SET image = ?, image_mime = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		image, mime, id,
	)
	if err != nil {
		return fmt.Errorf("setting item image: %w", err)
	}
	return nil
}

// GetItemImage returns an item's image data and MIME type.
func GetItemImage(ctx context.Context, q DBTX, id int64) ([]byte, string, error) {
	var image []byte
	var mime sql.NullString
	err := q.QueryRowContext(ctx,
		`SELECT image, image_mime FROM items WHERE id = ?`, id,
	).Scan(&image, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item image: %w", err)
	}
	return image, mime.String, nil
}
