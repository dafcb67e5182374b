package dto

import "time"

type BookingInput struct {
	CarID       string
	RenterEmail string
	Attributes  map[string]any
}

type BookingResult struct {
	OrderID string
}

type BookOrderResponse struct {
	TraceID   string    `json:"traceId"`
	OrderID   string    `json:"orderId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type CancelOrderResponse struct {
	TraceID   string    `json:"traceId"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

type OrderResponse struct {
	ID          string         `json:"id"`
	CarID       string         `json:"carId"`
	RenterEmail string         `json:"renterEmail"`
	Status      string         `json:"status"`
	Attributes  map[string]any `json:"attributes,omitempty"`
	OrderDate   time.Time      `json:"orderDate"`
}

type BookingErrorResponse struct {
	TraceID   string    `json:"traceId"`
	Status    int       `json:"status"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
