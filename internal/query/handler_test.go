package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/container-market/internal/infrastructure/store/mocks"
	"github.com/example/container-market/internal/readmodel"
)

func newTestQueryHandler() (*Handler, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	handler := NewHandler(readStore)
	return handler, readStore
}

func TestHandler_GetListing(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	readStore.SetData("listings", "lst-1", &readmodel.ListingReadModel{ID: "lst-1", Title: "Lot"})

	l, ok := handler.GetListing("lst-1")
	require.True(t, ok)
	assert.Equal(t, "Lot", l.Title)

	_, ok = handler.GetListing("lst-missing")
	assert.False(t, ok)
}

func TestHandler_ListListings_HidesWithdrawn(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	readStore.SetData("listings", "lst-1", &readmodel.ListingReadModel{ID: "lst-1"})
	readStore.SetData("listings", "lst-2", &readmodel.ListingReadModel{ID: "lst-2", IsWithdrawn: true})
	readStore.SetData("listings", "lst-3", &readmodel.ListingReadModel{ID: "lst-3"})

	listings := handler.ListListings()
	assert.Len(t, listings, 2)
	for _, l := range listings {
		assert.False(t, l.IsWithdrawn)
	}
}

func TestHandler_GetCart_EmptyDefault(t *testing.T) {
	handler, _ := newTestQueryHandler()

	c, ok := handler.GetCart("buyer-new")
	require.True(t, ok)
	assert.Equal(t, "cart-buyer-new", c.ID)
	assert.Equal(t, "buyer-new", c.BuyerID)
	assert.Empty(t, c.Items)
}

func TestHandler_ListQuotesByBuyer_SortedNewestFirst(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	base := time.Now()
	readStore.SetData("quotes", "q-old", &readmodel.QuoteReadModel{ID: "q-old", BuyerID: "buyer-1", SentAt: base.Add(-2 * time.Hour)})
	readStore.SetData("quotes", "q-new", &readmodel.QuoteReadModel{ID: "q-new", BuyerID: "buyer-1", SentAt: base})
	readStore.SetData("quotes", "q-other", &readmodel.QuoteReadModel{ID: "q-other", BuyerID: "buyer-2", SentAt: base})

	quotes := handler.ListQuotesByBuyer("buyer-1")
	require.Len(t, quotes, 2)
	assert.Equal(t, "q-new", quotes[0].ID)
	assert.Equal(t, "q-old", quotes[1].ID)
}

func TestHandler_ListTransportOptions(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	assert.Empty(t, handler.ListTransportOptions("req-1"))

	readStore.SetData("transport_options", "req-1", &readmodel.TransportOptionSetReadModel{
		RequestID: "req-1",
		Options: []readmodel.TransportOptionReadModel{
			{ID: "opt-a", OperatorName: "Maersk Line"},
			{ID: "opt-b", OperatorName: "MSC"},
		},
	})

	options := handler.ListTransportOptions("req-1")
	require.Len(t, options, 2)
	assert.Equal(t, "Maersk Line", options[0].OperatorName)
}

func TestHandler_GetBookingByRequest(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	readStore.SetData("bookings", "bk-1", &readmodel.BookingReadModel{ID: "bk-1", RequestID: "req-1"})
	readStore.SetData("bookings", "bk-2", &readmodel.BookingReadModel{ID: "bk-2", RequestID: "req-2"})

	b, ok := handler.GetBookingByRequest("req-2")
	require.True(t, ok)
	assert.Equal(t, "bk-2", b.ID)

	_, ok = handler.GetBookingByRequest("req-missing")
	assert.False(t, ok)
}

func TestHandler_GetTrackingHistory(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	assert.Empty(t, handler.GetTrackingHistory("bk-1"))

	readStore.SetData("tracking", "bk-1", &readmodel.TrackingHistoryReadModel{
		BookingID: "bk-1",
		Events: []readmodel.TrackingEventReadModel{
			{ID: "t-1", Description: "Production started"},
			{ID: "t-2", Description: "Vessel departed"},
		},
	})

	events := handler.GetTrackingHistory("bk-1")
	require.Len(t, events, 2)
	assert.Equal(t, "Production started", events[0].Description)
}

func TestHandler_GetDocuments(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	assert.Empty(t, handler.GetDocuments("bk-1"))

	readStore.SetData("documents", "bk-1", &readmodel.DocumentBatchReadModel{
		BookingID: "bk-1",
		Documents: []readmodel.DocumentReadModel{
			{ID: "doc-1", Type: "commercial_invoice"},
		},
	})

	docs := handler.GetDocuments("bk-1")
	require.Len(t, docs, 1)
	assert.Equal(t, "commercial_invoice", docs[0].Type)
}

func TestHandler_ListIncidentsByBooking_SortedOldestFirst(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	base := time.Now()
	readStore.SetData("incidents", "inc-2", &readmodel.IncidentReadModel{ID: "inc-2", BookingID: "bk-1", ReportedAt: base})
	readStore.SetData("incidents", "inc-1", &readmodel.IncidentReadModel{ID: "inc-1", BookingID: "bk-1", ReportedAt: base.Add(-time.Hour)})
	readStore.SetData("incidents", "inc-3", &readmodel.IncidentReadModel{ID: "inc-3", BookingID: "bk-other", ReportedAt: base})

	incidents := handler.ListIncidentsByBooking("bk-1")
	require.Len(t, incidents, 2)
	assert.Equal(t, "inc-1", incidents[0].ID)
	assert.Equal(t, "inc-2", incidents[1].ID)
}

func TestHandler_ListNotificationsByBooking(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	base := time.Now()
	readStore.SetData("notifications", "notif-1", &readmodel.NotificationReadModel{ID: "notif-1", BookingID: "bk-1", CreatedAt: base.Add(-time.Minute)})
	readStore.SetData("notifications", "notif-2", &readmodel.NotificationReadModel{ID: "notif-2", BookingID: "bk-1", CreatedAt: base})

	notifications := handler.ListNotificationsByBooking("bk-1")
	require.Len(t, notifications, 2)
	assert.Equal(t, "notif-1", notifications[0].ID)
}

func TestHandler_GetAccountByEmail(t *testing.T) {
	handler, readStore := newTestQueryHandler()

	readStore.SetData("accounts", "acct-1", &readmodel.AccountReadModel{ID: "acct-1", Email: "lucia@panacea.example"})

	a, ok := handler.GetAccountByEmail("lucia@panacea.example")
	require.True(t, ok)
	assert.Equal(t, "acct-1", a.ID)

	_, ok = handler.GetAccountByEmail("nobody@example.com")
	assert.False(t, ok)
}
