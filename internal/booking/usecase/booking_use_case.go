package usecase

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"carrental/internal/dto"
	apperrors "carrental/internal/errors"
)

type BookingService interface {
	Book(ctx context.Context, in dto.BookingInput) (*dto.BookingResult, error)
	Cancel(ctx context.Context, orderID string) error
}

type BookingUseCase struct {
	bookingSvc       BookingService
	logger           *zap.Logger
	maxRetryAttempts int
}

func NewBookingUseCase(bookingSvc BookingService, logger *zap.Logger, maxRetryAttempts int) *BookingUseCase {
	return &BookingUseCase{
		bookingSvc:       bookingSvc,
		logger:           logger,
		maxRetryAttempts: maxRetryAttempts,
	}
}

func (uc *BookingUseCase) Book(ctx context.Context, in dto.BookingInput) (*dto.BookingResult, error) {
	// Field validation happens before any store access.
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(in.CarID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "carId",
			Message: "carId is required",
		})
	}
	if strings.TrimSpace(in.RenterEmail) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "renterEmail",
			Message: "renterEmail is required",
		})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("carId and renterEmail are required", details...)
	}

	uc.logger.Info("booking started",
		zap.String("carId", in.CarID),
		zap.String("renterEmail", in.RenterEmail))

	var result *dto.BookingResult
	err := uc.withDeadlockRetry(ctx, "book", func() error {
		var err error
		result, err = uc.bookingSvc.Book(ctx, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *BookingUseCase) Cancel(ctx context.Context, orderID string) error {
	if strings.TrimSpace(orderID) == "" {
		return apperrors.NewValidationError("orderId is required", apperrors.ValidationDetail{
			Field:   "orderId",
			Message: "orderId is required",
		})
	}

	uc.logger.Info("cancellation started", zap.String("orderId", orderID))

	return uc.withDeadlockRetry(ctx, "cancel", func() error {
		return uc.bookingSvc.Cancel(ctx, orderID)
	})
}

// withDeadlockRetry retries op on MySQL deadlock / lock-wait-timeout errors
// with a jittered backoff. Any other error returns immediately.
func (uc *BookingUseCase) withDeadlockRetry(ctx context.Context, op string, fn func() error) error {
	backoffs := []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

	for attempt := 1; attempt <= uc.maxRetryAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		if !isDeadlockError(err) {
			return err
		}

		if attempt == uc.maxRetryAttempts {
			break
		}

		backoff := backoffs[min(attempt-1, len(backoffs)-1)]
		jitter := time.Duration(float64(backoff) * (0.8 + rand.Float64()*0.4))
		uc.logger.Warn("deadlock detected, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", uc.maxRetryAttempts))

		select {
		case <-time.After(jitter):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return apperrors.NewStoreError("max retries exceeded", nil)
}

func isDeadlockError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1213 || mysqlErr.Number == 1205
	}
	return false
}
