package listing

import (
	"database/sql"

	"go.uber.org/zap"

	"carrental/internal/listing/repository"
	"carrental/internal/listing/service"
)

func NewModule(db *sql.DB, logger *zap.Logger) *Controller {
	repo := repository.NewMySQLListingRepository(db)
	svc := service.NewListingService(repo, logger)
	return NewController(svc, logger)
}
