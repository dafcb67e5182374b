package booking

import (
	"database/sql"

	"go.uber.org/zap"

	"carrental/internal/booking/controller"
	"carrental/internal/booking/repository"
	"carrental/internal/booking/service"
	"carrental/internal/booking/usecase"
	"carrental/internal/config"
	listingrepo "carrental/internal/listing/repository"
)

func NewModule(db *sql.DB, cfg *config.Config, logger *zap.Logger) *controller.BookingController {
	orderRepo := repository.NewMySQLOrderRepository(db)
	listingRepo := listingrepo.NewMySQLListingRepository(db)

	bookingSvc := service.NewBookingService(
		db,
		listingRepo,
		orderRepo,
		logger,
		cfg.Booking.TxTimeout,
	)

	uc := usecase.NewBookingUseCase(bookingSvc, logger, cfg.Booking.MaxRetryAttempts)

	return controller.NewBookingController(uc, orderRepo, logger)
}
