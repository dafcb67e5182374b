package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"carrental/internal/domain"
	"carrental/internal/dto"
	"carrental/internal/errors"
)

type TransactionManager interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type ListingRepository interface {
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Listing, error)
	UpdateStatusIf(ctx context.Context, tx *sql.Tx, id string, from string, to string) (bool, error)
}

type OrderRepository interface {
	Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (string, error)
	FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id string) (*domain.Order, error)
	FindConfirmedByCar(ctx context.Context, tx *sql.Tx, carID string) (*domain.Order, error)
	DeleteByID(ctx context.Context, tx *sql.Tx, id string) error
}

// BookingService coordinates the two stores. Booking and cancellation each
// run as a single transaction with the listing row locked, so a listing can
// never end up referenced by two confirmed orders and a deleted order can
// never leave its listing stuck unavailable.
type BookingService struct {
	db          TransactionManager
	listingRepo ListingRepository
	orderRepo   OrderRepository
	logger      *zap.Logger
	txTimeout   time.Duration
}

func NewBookingService(
	db TransactionManager,
	listingRepo ListingRepository,
	orderRepo OrderRepository,
	logger *zap.Logger,
	txTimeout time.Duration,
) *BookingService {
	return &BookingService{
		db:          db,
		listingRepo: listingRepo,
		orderRepo:   orderRepo,
		logger:      logger,
		txTimeout:   txTimeout,
	}
}

func (s *BookingService) Book(ctx context.Context, in dto.BookingInput) (*dto.BookingResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, errors.NewStoreError("failed to create booking", err)
	}
	// Rollback is a no-op after commit; it undoes every failure path.
	defer tx.Rollback()

	listing, err := s.listingRepo.FindByIDForUpdate(txCtx, tx, in.CarID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return nil, errors.NewNotFoundError("car not found")
		}
		return nil, errors.NewStoreError("failed to fetch car", err)
	}

	if !listing.IsAvailable() {
		s.logger.Info("booking rejected, car unavailable", zap.String("carId", in.CarID))
		return nil, errors.NewConflictError("this car is already booked")
	}

	// The row lock plus the conditional flip below are the authoritative
	// guard. The confirmed-order lookup only catches data that already
	// violates the invariant.
	if existing, err := s.orderRepo.FindConfirmedByCar(txCtx, tx, in.CarID); err != nil {
		return nil, errors.NewStoreError("failed to check existing orders", err)
	} else if existing != nil {
		s.logger.Warn("available listing has a confirmed order",
			zap.String("carId", in.CarID),
			zap.String("orderId", existing.ID))
		return nil, errors.NewConflictError("car already booked by another user")
	}

	flipped, err := s.listingRepo.UpdateStatusIf(txCtx, tx, in.CarID,
		domain.ListingStatusAvailable, domain.ListingStatusUnavailable)
	if err != nil {
		return nil, errors.NewStoreError("failed to update car status", err)
	}
	if !flipped {
		s.logger.Info("booking lost the race for car", zap.String("carId", in.CarID))
		return nil, errors.NewConflictError("this car is already booked")
	}

	order := domain.Order{
		CarID:       in.CarID,
		RenterEmail: in.RenterEmail,
		Status:      domain.OrderStatusConfirmed,
		Attributes:  in.Attributes,
		OrderDate:   time.Now().UTC(),
	}

	orderID, err := s.orderRepo.Insert(txCtx, tx, order)
	if err != nil {
		return nil, errors.NewStoreError("failed to create order", err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit booking", zap.String("carId", in.CarID), zap.Error(err))
		return nil, errors.NewStoreError("failed to create booking", err)
	}

	s.logger.Info("booking confirmed",
		zap.String("orderId", orderID),
		zap.String("carId", in.CarID),
		zap.String("renterEmail", in.RenterEmail))

	return &dto.BookingResult{OrderID: orderID}, nil
}

func (s *BookingService) Cancel(ctx context.Context, orderID string) error {
	txCtx, cancel := context.WithTimeout(ctx, s.txTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(txCtx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return errors.NewStoreError("failed to cancel order", err)
	}
	defer tx.Rollback()

	order, err := s.orderRepo.FindByIDForUpdate(txCtx, tx, orderID)
	if err != nil {
		if _, ok := errors.IsNotFoundError(err); ok {
			return errors.NewNotFoundError("order not found")
		}
		return errors.NewStoreError("failed to fetch order", err)
	}

	if err := s.orderRepo.DeleteByID(txCtx, tx, orderID); err != nil {
		return errors.NewStoreError("failed to delete order", err)
	}

	restored, err := s.listingRepo.UpdateStatusIf(txCtx, tx, order.CarID,
		domain.ListingStatusUnavailable, domain.ListingStatusAvailable)
	if err != nil {
		return errors.NewStoreError("failed to restore car status", err)
	}
	if !restored {
		// Listing was deleted or already available; the cancellation itself
		// still stands.
		s.logger.Warn("cancelled order's car was not unavailable",
			zap.String("orderId", orderID),
			zap.String("carId", order.CarID))
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit cancellation", zap.String("orderId", orderID), zap.Error(err))
		return errors.NewStoreError("failed to cancel order", err)
	}

	s.logger.Info("order cancelled",
		zap.String("orderId", orderID),
		zap.String("carId", order.CarID))

	return nil
}
