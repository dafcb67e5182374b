package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"carrental/internal/domain"
	"carrental/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, listing domain.Listing) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Listing, error)
	FindAll(ctx context.Context, category string) ([]domain.Listing, error)
	UpdateStatus(ctx context.Context, id string, status string) error
}

type ListingService struct {
	repo   Repository
	logger *zap.Logger
}

func NewListingService(repo Repository, logger *zap.Logger) *ListingService {
	return &ListingService{
		repo:   repo,
		logger: logger,
	}
}

type CreateListingInput struct {
	Name        string
	Category    string
	Description string
	PricePerDay float64
	Attributes  map[string]any
}

// Create persists a new listing. Status and timestamps are always set
// server-side; new listings start available.
func (s *ListingService) Create(ctx context.Context, in CreateListingInput) (*domain.Listing, error) {
	now := time.Now().UTC()
	listing := domain.Listing{
		Name:        in.Name,
		Category:    in.Category,
		Description: in.Description,
		PricePerDay: in.PricePerDay,
		Attributes:  in.Attributes,
		Status:      domain.ListingStatusAvailable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	id, err := s.repo.Insert(ctx, listing)
	if err != nil {
		return nil, errors.NewStoreError("failed to create listing", err)
	}

	listing.ID = id
	s.logger.Info("listing created", zap.String("listingId", id), zap.String("category", listing.Category))
	return &listing, nil
}

func (s *ListingService) List(ctx context.Context, category string) ([]domain.Listing, error) {
	listings, err := s.repo.FindAll(ctx, category)
	if err != nil {
		return nil, errors.NewStoreError("failed to list listings", err)
	}
	return listings, nil
}

func (s *ListingService) Get(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, err
		}
		return nil, errors.NewStoreError("failed to fetch listing", err)
	}
	return listing, nil
}

func (s *ListingService) SetStatus(ctx context.Context, id string, status string) error {
	if !domain.IsValidListingStatus(status) {
		return errors.NewValidationError("invalid status", errors.ValidationDetail{
			Field:   "status",
			Message: "status must be available or unavailable",
		})
	}

	err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return err
		}
		return errors.NewStoreError("failed to update listing status", err)
	}

	s.logger.Info("listing status updated", zap.String("listingId", id), zap.String("status", status))
	return nil
}
