package listing

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "carrental/internal/errors"
	"carrental/internal/listing/service"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(svc Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: svc,
		logger:  logger,
	}
}

func (c *Controller) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	in := service.CreateListingInput{
		Name:        popString(body, "name"),
		Category:    popString(body, "category"),
		Description: popString(body, "description"),
		PricePerDay: popFloat(body, "pricePerDay"),
		Attributes:  body,
	}

	created, err := c.service.Create(r.Context(), in)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusCreated, CreateListingResponse{
		InsertedID: created.ID,
		Listing:    ToListingResponse(*created),
	})
}

func (c *Controller) HandleListListings(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	listings, err := c.service.List(r.Context(), category)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	response := make([]ListingResponse, 0, len(listings))
	for _, l := range listings {
		response = append(response, ToListingResponse(l))
	}

	c.writeJSON(w, http.StatusOK, response)
}

func (c *Controller) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := c.service.Get(r.Context(), id)
	if err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, ToListingResponse(*listing))
}

func (c *Controller) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := c.service.SetStatus(r.Context(), id, req.Status); err != nil {
		c.handleServiceError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, UpdateStatusResponse{Message: "Status updated"})
}

func (c *Controller) handleServiceError(w http.ResponseWriter, err error) {
	if ve, ok := apperrors.IsValidationError(err); ok {
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	if _, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "NOT_FOUND",
			"message": err.Error(),
		})
		return
	}

	c.logger.Error("listing request failed", zap.Error(err))
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}

// popString removes a known key from the opaque body so it is not duplicated
// into the attributes container.
func popString(body map[string]any, key string) string {
	v, ok := body[key]
	if !ok {
		return ""
	}
	delete(body, key)
	s, _ := v.(string)
	return s
}

func popFloat(body map[string]any, key string) float64 {
	v, ok := body[key]
	if !ok {
		return 0
	}
	delete(body, key)
	f, _ := v.(float64)
	return f
}
