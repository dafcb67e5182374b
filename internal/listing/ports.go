package listing

import (
	"context"

	"carrental/internal/domain"
	"carrental/internal/listing/service"
)

type Service interface {
	Create(ctx context.Context, in service.CreateListingInput) (*domain.Listing, error)
	List(ctx context.Context, category string) ([]domain.Listing, error)
	Get(ctx context.Context, id string) (*domain.Listing, error)
	SetStatus(ctx context.Context, id string, status string) error
}
