package query

import (
	"sort"

	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/example/container-market/internal/readmodel"
)

type Handler struct {
	readStore store.ReadStoreInterface
}

func NewHandler(readStore store.ReadStoreInterface) *Handler {
	return &Handler{readStore: readStore}
}

// Listings
func (h *Handler) GetListing(id string) (*readmodel.ListingReadModel, bool) {
	data, ok := h.readStore.Get("listings", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.ListingReadModel), true
}

func (h *Handler) ListListings() []*readmodel.ListingReadModel {
	items := h.readStore.GetAll("listings")
	listings := make([]*readmodel.ListingReadModel, 0, len(items))
	for _, item := range items {
		l := item.(*readmodel.ListingReadModel)
		if !l.IsWithdrawn {
			listings = append(listings, l)
		}
	}
	return listings
}

// Cart
func (h *Handler) GetCart(buyerID string) (*readmodel.CartReadModel, bool) {
	cartID := cart.CartID(buyerID)
	data, ok := h.readStore.Get("carts", cartID)
	if !ok {
		// Return empty cart
		return &readmodel.CartReadModel{
			ID:      cartID,
			BuyerID: buyerID,
			Items:   []readmodel.CartItemReadModel{},
		}, true
	}
	return data.(*readmodel.CartReadModel), true
}

// Quotes
func (h *Handler) GetQuote(id string) (*readmodel.QuoteReadModel, bool) {
	data, ok := h.readStore.Get("quotes", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.QuoteReadModel), true
}

func (h *Handler) ListQuotesByBuyer(buyerID string) []*readmodel.QuoteReadModel {
	items := h.readStore.GetAll("quotes")
	quotes := make([]*readmodel.QuoteReadModel, 0)
	for _, item := range items {
		q := item.(*readmodel.QuoteReadModel)
		if q.BuyerID == buyerID {
			quotes = append(quotes, q)
		}
	}
	sort.Slice(quotes, func(i, j int) bool {
		return quotes[i].SentAt.After(quotes[j].SentAt)
	})
	return quotes
}

// Shipping requests
func (h *Handler) GetShippingRequest(id string) (*readmodel.ShippingRequestReadModel, bool) {
	data, ok := h.readStore.Get("shipping_requests", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.ShippingRequestReadModel), true
}

// ListTransportOptions returns the current offer set for a request. An empty
// slice means no quoting round has completed yet.
func (h *Handler) ListTransportOptions(requestID string) []readmodel.TransportOptionReadModel {
	data, ok := h.readStore.Get("transport_options", requestID)
	if !ok {
		return []readmodel.TransportOptionReadModel{}
	}
	return data.(*readmodel.TransportOptionSetReadModel).Options
}

// Bookings
func (h *Handler) GetBooking(id string) (*readmodel.BookingReadModel, bool) {
	data, ok := h.readStore.Get("bookings", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.BookingReadModel), true
}

func (h *Handler) GetBookingByRequest(requestID string) (*readmodel.BookingReadModel, bool) {
	items := h.readStore.GetAll("bookings")
	for _, item := range items {
		b := item.(*readmodel.BookingReadModel)
		if b.RequestID == requestID {
			return b, true
		}
	}
	return nil, false
}

// GetTrackingHistory returns the booking's tracking events in order of
// insertion.
func (h *Handler) GetTrackingHistory(bookingID string) []readmodel.TrackingEventReadModel {
	data, ok := h.readStore.Get("tracking", bookingID)
	if !ok {
		return []readmodel.TrackingEventReadModel{}
	}
	return data.(*readmodel.TrackingHistoryReadModel).Events
}

// GetDocuments returns the booking's customs document batch.
func (h *Handler) GetDocuments(bookingID string) []readmodel.DocumentReadModel {
	data, ok := h.readStore.Get("documents", bookingID)
	if !ok {
		return []readmodel.DocumentReadModel{}
	}
	return data.(*readmodel.DocumentBatchReadModel).Documents
}

// Incidents
func (h *Handler) ListIncidentsByBooking(bookingID string) []*readmodel.IncidentReadModel {
	items := h.readStore.GetAll("incidents")
	incidents := make([]*readmodel.IncidentReadModel, 0)
	for _, item := range items {
		inc := item.(*readmodel.IncidentReadModel)
		if inc.BookingID == bookingID {
			incidents = append(incidents, inc)
		}
	}
	sort.Slice(incidents, func(i, j int) bool {
		return incidents[i].ReportedAt.Before(incidents[j].ReportedAt)
	})
	return incidents
}

// Notifications
func (h *Handler) ListNotificationsByBooking(bookingID string) []*readmodel.NotificationReadModel {
	items := h.readStore.GetAll("notifications")
	notifications := make([]*readmodel.NotificationReadModel, 0)
	for _, item := range items {
		n := item.(*readmodel.NotificationReadModel)
		if n.BookingID == bookingID {
			notifications = append(notifications, n)
		}
	}
	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.Before(notifications[j].CreatedAt)
	})
	return notifications
}

// Accounts
func (h *Handler) GetAccountByEmail(email string) (*readmodel.AccountReadModel, bool) {
	items := h.readStore.GetAll("accounts")
	for _, item := range items {
		a := item.(*readmodel.AccountReadModel)
		if a.Email == email {
			return a, true
		}
	}
	return nil, false
}

func (h *Handler) GetAccount(id string) (*readmodel.AccountReadModel, bool) {
	data, ok := h.readStore.Get("accounts", id)
	if !ok {
		return nil, false
	}
	return data.(*readmodel.AccountReadModel), true
}
