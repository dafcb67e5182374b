package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"carrental/internal/booking/controller"
	"carrental/internal/listing"
)

func NewRouter(listingCtrl *listing.Controller, bookingCtrl *controller.BookingController, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Car Rental Backend is running!"))
	})

	r.Route("/services", func(r chi.Router) {
		r.Post("/", listingCtrl.HandleCreateListing)
		r.Get("/", listingCtrl.HandleListListings)
		r.Get("/{id}", listingCtrl.HandleGetListing)
		r.Patch("/{id}/status", listingCtrl.HandleUpdateStatus)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", bookingCtrl.HandleCreateOrder)
		r.Get("/", bookingCtrl.HandleListOrders)
		r.Get("/{email}", bookingCtrl.HandleListRenterOrders)
		r.Delete("/{id}", bookingCtrl.HandleCancelOrder)
	})

	r.Get("/booked-cars", bookingCtrl.HandleListBookedCars)

	return r
}
