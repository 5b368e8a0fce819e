package model

import "time"

// Item represents a donation batch. Repeated donations of the same batch key
// (donor, name, category, location, description) accumulate on one row.
//
// Status is derived from quantity and outstanding requests and is only ever
// written by the inventory package's recompute step. It is never accepted
// from clients.
type Item struct {
	ID          int64     `json:"id"`
	DonorID     int64     `json:"donor_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Quantity    int       `json:"quantity"`
	Status      string    `json:"status"`
	ImageMime   string    `json:"image_mime,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	DonorName string `json:"donor_name,omitempty"`
}

// Item statuses.
const (
	ItemStatusAvailable = "Available"
	ItemStatusRequested = "Requested"
	ItemStatusCompleted = "Completed"
)
