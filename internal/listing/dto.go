package listing

import (
	"time"

	"carrental/internal/domain"
)

type ListingResponse struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Category    string         `json:"category"`
	Description string         `json:"description,omitempty"`
	PricePerDay float64        `json:"pricePerDay"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

type CreateListingResponse struct {
	InsertedID string          `json:"insertedId"`
	Listing    ListingResponse `json:"listing"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdateStatusResponse struct {
	Message string `json:"message"`
}

func ToListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:          l.ID,
		Name:        l.Name,
		Category:    l.Category,
		Description: l.Description,
		PricePerDay: l.PricePerDay,
		Attributes:  l.Attributes,
		Status:      l.Status,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}
