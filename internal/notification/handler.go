package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/container-market/internal/domain/booking"
	"github.com/example/container-market/internal/email"
	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/example/container-market/internal/readmodel"
)

// Handler processes booking events and emails the buyer
type Handler struct {
	emailService *email.Service
	readStore    store.ReadStoreInterface
}

// NewHandler creates a new notification handler
func NewHandler(emailSvc *email.Service, readStore store.ReadStoreInterface) *Handler {
	return &Handler{
		emailService: emailSvc,
		readStore:    readStore,
	}
}

// HandleEvent processes an event from Kafka
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event: %v", err)
		return err
	}

	switch event.EventType {
	case booking.EventBookingConfirmed:
		return h.handleBookingConfirmed(event)
	case booking.EventStatusUpdated:
		return h.handleStatusUpdated(event)
	}

	return nil
}

func (h *Handler) handleBookingConfirmed(event store.Event) error {
	var e booking.BookingConfirmed
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal BookingConfirmed event: %v", err)
		return err
	}

	log.Printf("[Notifier] Processing BookingConfirmed event for booking %s", e.BookingID)

	request, buyerEmail := h.resolveBuyer(e.RequestID)
	if buyerEmail == "" {
		log.Printf("[Notifier] No buyer email resolved for request %s, skipping", e.RequestID)
		return nil
	}

	summary := email.BookingSummary{
		BookingNumber: e.BookingNumber,
		ShippingLine:  e.ShippingLine,
		VesselName:    e.VesselName,
		CutoffDate:    e.CutoffDate,
		ETD:           e.ETD,
		ETA:           e.ETA,
		TotalCost:     e.TotalCost,
		Currency:      "USD",
	}
	if request != nil {
		summary.OriginPort = request.OriginPort
		summary.DestPort = request.DestinationPort
	}

	if err := h.emailService.SendBookingConfirmation(buyerEmail, summary); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", buyerEmail, err)
		return err
	}

	log.Printf("[Notifier] Booking confirmation email sent to %s for booking %s", buyerEmail, e.BookingID)
	return nil
}

func (h *Handler) handleStatusUpdated(event store.Event) error {
	var e booking.BookingStatusUpdated
	if err := json.Unmarshal(event.Data, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal BookingStatusUpdated event: %v", err)
		return err
	}

	bookingData, exists := h.readStore.Get("bookings", e.BookingID)
	if !exists {
		log.Printf("[Notifier] Booking not found: %s", e.BookingID)
		return nil
	}
	b, ok := bookingData.(*readmodel.BookingReadModel)
	if !ok {
		return nil
	}

	_, buyerEmail := h.resolveBuyer(b.RequestID)
	if buyerEmail == "" {
		log.Printf("[Notifier] No buyer email resolved for booking %s, skipping", e.BookingID)
		return nil
	}

	update := email.StatusUpdate{
		BookingNumber: b.BookingNumber,
		StatusLabel:   statusLabel(e.Status),
		Progress:      booking.Progress(e.Status),
	}
	if e.Tracking != nil {
		update.Location = e.Tracking.Location
		update.Description = e.Tracking.Description
	}
	if update.Description == "" {
		update.Description = update.StatusLabel
	}

	if err := h.emailService.SendStatusUpdate(buyerEmail, update); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", buyerEmail, err)
		return err
	}

	log.Printf("[Notifier] Status update email sent to %s for booking %s", buyerEmail, e.BookingID)
	return nil
}

// resolveBuyer walks request -> quote -> account to find the buyer's email.
func (h *Handler) resolveBuyer(requestID string) (*readmodel.ShippingRequestReadModel, string) {
	requestData, exists := h.readStore.Get("shipping_requests", requestID)
	if !exists {
		return nil, ""
	}
	request, ok := requestData.(*readmodel.ShippingRequestReadModel)
	if !ok {
		return nil, ""
	}

	quoteData, exists := h.readStore.Get("quotes", request.QuoteID)
	if !exists {
		return request, ""
	}
	q, ok := quoteData.(*readmodel.QuoteReadModel)
	if !ok {
		return request, ""
	}

	accountData, exists := h.readStore.Get("accounts", q.BuyerID)
	if !exists {
		return request, ""
	}
	account, ok := accountData.(*readmodel.AccountReadModel)
	if !ok {
		return request, ""
	}

	return request, account.Email
}

func statusLabel(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return "Booking confirmed"
	case booking.StatusInProduction:
		return "Production started"
	case booking.StatusReadyToShip:
		return "Cargo ready to ship"
	case booking.StatusInTransit:
		return "Shipment in transit"
	case booking.StatusArrived:
		return "Arrived at destination port"
	case booking.StatusDelivered:
		return "Shipment delivered"
	case booking.StatusCompleted:
		return "Booking completed"
	}
	return string(s)
}
