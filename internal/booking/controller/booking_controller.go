package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"carrental/internal/domain"
	"carrental/internal/dto"
	apperrors "carrental/internal/errors"
)

type BookingUseCase interface {
	Book(ctx context.Context, in dto.BookingInput) (*dto.BookingResult, error)
	Cancel(ctx context.Context, orderID string) error
}

type OrderReader interface {
	FindAllConfirmed(ctx context.Context) ([]domain.Order, error)
	FindAllByRenter(ctx context.Context, renterEmail string, status string) ([]domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
}

type BookingController struct {
	useCase BookingUseCase
	orders  OrderReader
	logger  *zap.Logger
}

func NewBookingController(useCase BookingUseCase, orders OrderReader, logger *zap.Logger) *BookingController {
	return &BookingController{
		useCase: useCase,
		orders:  orders,
		logger:  logger,
	}
}

func (c *BookingController) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, traceID, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	in := dto.BookingInput{
		CarID:       popString(body, "carId"),
		RenterEmail: popString(body, "renterEmail"),
		Attributes:  body,
	}

	result, err := c.useCase.Book(r.Context(), in)
	if err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusCreated, dto.BookOrderResponse{
		TraceID:   traceID,
		OrderID:   result.OrderID,
		Message:   "Booking successful",
		Timestamp: time.Now().UTC(),
	})
}

func (c *BookingController) HandleCancelOrder(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	orderID := chi.URLParam(r, "id")

	if err := c.useCase.Cancel(r.Context(), orderID); err != nil {
		c.handleUseCaseError(w, traceID, err, logger)
		return
	}

	c.writeJSON(w, http.StatusOK, dto.CancelOrderResponse{
		TraceID:   traceID,
		Message:   "Order cancelled successfully",
		Timestamp: time.Now().UTC(),
	})
}

func (c *BookingController) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.FindAll(r.Context())
	if err != nil {
		c.writeInternalError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (c *BookingController) HandleListRenterOrders(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	orders, err := c.orders.FindAllByRenter(r.Context(), email, domain.OrderStatusConfirmed)
	if err != nil {
		c.writeInternalError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

// HandleListBookedCars projects the confirmed orders down to the listing ids
// they hold.
func (c *BookingController) HandleListBookedCars(w http.ResponseWriter, r *http.Request) {
	orders, err := c.orders.FindAllConfirmed(r.Context())
	if err != nil {
		c.writeInternalError(w, err)
		return
	}

	carIDs := make([]string, 0, len(orders))
	for _, order := range orders {
		if order.CarID != "" {
			carIDs = append(carIDs, order.CarID)
		}
	}

	c.writeJSON(w, http.StatusOK, carIDs)
}

func (c *BookingController) handleUseCaseError(w http.ResponseWriter, traceID string, err error, logger *zap.Logger) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, traceID, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusNotFound, "NOT_FOUND", err.Error())
		return
	}

	if _, ok := apperrors.IsConflictError(err); ok {
		c.writeErrorResponse(w, traceID, http.StatusConflict, "CONFLICT", err.Error())
		return
	}

	logger.Error("unexpected error", zap.Error(err))
	c.writeErrorResponse(w, traceID, http.StatusInternalServerError, "INTERNAL_ERROR", "an unexpected error occurred")
}

func (c *BookingController) writeErrorResponse(w http.ResponseWriter, traceID string, statusCode int, code string, message string) {
	c.writeJSON(w, statusCode, dto.BookingErrorResponse{
		TraceID:   traceID,
		Status:    statusCode,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	})
}

type validationErrorResponse struct {
	TraceID string                       `json:"traceId"`
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *BookingController) writeValidationError(w http.ResponseWriter, traceID string, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		TraceID: traceID,
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *BookingController) writeInternalError(w http.ResponseWriter, err error) {
	c.logger.Error("order query failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *BookingController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

func toOrderResponses(orders []domain.Order) []dto.OrderResponse {
	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, dto.OrderResponse{
			ID:          o.ID,
			CarID:       o.CarID,
			RenterEmail: o.RenterEmail,
			Status:      o.Status,
			Attributes:  o.Attributes,
			OrderDate:   o.OrderDate,
		})
	}
	return response
}

func popString(body map[string]any, key string) string {
	v, ok := body[key]
	if !ok {
		return ""
	}
	delete(body, key)
	s, _ := v.(string)
	return s
}
