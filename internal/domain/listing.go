package domain

import "time"

type Listing struct {
	ID          string
	Name        string
	Category    string
	Description string
	PricePerDay float64
	// Attributes holds caller-supplied fields that have no dedicated column.
	Attributes map[string]any
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const (
	ListingStatusAvailable   = "available"
	ListingStatusUnavailable = "unavailable"
)

func (l Listing) IsAvailable() bool {
	return l.Status == ListingStatusAvailable
}

func IsValidListingStatus(status string) bool {
	return status == ListingStatusAvailable || status == ListingStatusUnavailable
}
