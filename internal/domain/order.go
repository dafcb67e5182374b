package domain

import "time"

type Order struct {
	ID          string
	CarID       string
	RenterEmail string
	Status      string
	Attributes  map[string]any
	OrderDate   time.Time
}

// Cancellation deletes orders rather than transitioning them, so confirmed
// is the only status the booking flow ever produces.
const OrderStatusConfirmed = "confirmed"

func (o Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}
