package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/container-market/internal/domain/booking"
	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/domain/listing"
	"github.com/example/container-market/internal/domain/quote"
	"github.com/example/container-market/internal/domain/shipping"
	"github.com/example/container-market/internal/infrastructure/store/mocks"
	"github.com/example/container-market/internal/readmodel"
	"github.com/example/container-market/internal/transport"
)

type stubRateProvider struct {
	options []shipping.TransportOption
	err     error
	calls   int
}

func (p *stubRateProvider) Quote(ctx context.Context, req transport.RateRequest) ([]shipping.TransportOption, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.options, nil
}

type handlerFixture struct {
	handler    *Handler
	eventStore *mocks.MockEventStore
	readStore  *mocks.MockReadStore
	provider   *stubRateProvider
}

func newHandlerFixture() *handlerFixture {
	eventStore := mocks.NewMockEventStore()
	readStore := mocks.NewMockReadStore()
	provider := &stubRateProvider{
		options: []shipping.TransportOption{
			{OperatorID: "op-maersk", OperatorName: "Maersk Line", Incoterm: "CIF", Cost: 2450, Currency: "USD", TransitDays: 28, Availability: time.Now().AddDate(0, 0, 5)},
			{OperatorID: "op-msc", OperatorName: "MSC", Incoterm: "CFR", Cost: 2180, Currency: "USD", TransitDays: 34, Availability: time.Now().AddDate(0, 0, 7)},
		},
	}

	handler := NewHandler(
		listing.NewService(eventStore),
		cart.NewService(eventStore),
		quote.NewService(eventStore),
		shipping.NewService(eventStore),
		booking.NewService(eventStore),
		provider,
		readStore,
	)

	return &handlerFixture{handler: handler, eventStore: eventStore, readStore: readStore, provider: provider}
}

func (f *handlerFixture) seedListing(id string, withdrawn bool) {
	f.readStore.SetData("listings", id, &readmodel.ListingReadModel{
		ID:                id,
		SupplierID:        "sup-1",
		SupplierName:      "Yiwu Export Co",
		Title:             "40ft HC electronics lot",
		ContainerType:     "40HC",
		PricePerContainer: 18500,
		Currency:          "USD",
		Incoterm:          "FOB",
		IsWithdrawn:       withdrawn,
	})
}

// ============================================
// Cart Command Tests
// ============================================

func TestHandler_AddCartItem_CopiesListingFields(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	f.seedListing("lst-1", false)

	err := f.handler.AddCartItem(ctx, AddCartItem{BuyerID: "buyer-1", ListingID: "lst-1", Quantity: 2, Notes: "urgent"})
	require.NoError(t, err)

	require.Len(t, f.eventStore.AppendCalls, 1)
	data := f.eventStore.AppendCalls[0].Data.(cart.CartItemAdded)
	assert.Equal(t, "lst-1", data.Item.ProductID)
	assert.Equal(t, "sup-1", data.Item.SupplierID)
	assert.Equal(t, 18500, data.Item.PricePerContainer)
	assert.Equal(t, "FOB", data.Item.Incoterm)
	assert.Equal(t, "urgent", data.Item.Notes)
}

func TestHandler_AddCartItem_UnknownListing(t *testing.T) {
	f := newHandlerFixture()

	err := f.handler.AddCartItem(context.Background(), AddCartItem{BuyerID: "buyer-1", ListingID: "lst-missing", Quantity: 1})

	assert.ErrorIs(t, err, listing.ErrListingNotFound)
	assert.Empty(t, f.eventStore.AppendCalls)
}

func TestHandler_AddCartItem_WithdrawnListing(t *testing.T) {
	f := newHandlerFixture()

	f.seedListing("lst-1", true)

	err := f.handler.AddCartItem(context.Background(), AddCartItem{BuyerID: "buyer-1", ListingID: "lst-1", Quantity: 1})

	assert.ErrorIs(t, err, listing.ErrListingNotFound)
	assert.Empty(t, f.eventStore.AppendCalls)
}

// ============================================
// Quote Command Tests
// ============================================

func TestHandler_SubmitQuote_FreezesCartAndClears(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	f.seedListing("lst-1", false)
	require.NoError(t, f.handler.AddCartItem(ctx, AddCartItem{BuyerID: "buyer-1", ListingID: "lst-1", Quantity: 3}))

	q, err := f.handler.SubmitQuote(ctx, SubmitQuote{BuyerID: "buyer-1", PaymentConditions: "LC at sight"})
	require.NoError(t, err)
	require.Len(t, q.Items, 1)
	assert.Equal(t, 3*18500, q.TotalAmount)
	assert.Equal(t, quote.StatusSent, q.Status)
	assert.Equal(t, "LC at sight", q.PaymentConditions)

	// The cart was cleared as part of the same command.
	c, err := cart.NewService(f.eventStore).GetCart(ctx, "buyer-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}

func TestHandler_SubmitQuote_EmptyCart(t *testing.T) {
	f := newHandlerFixture()

	_, err := f.handler.SubmitQuote(context.Background(), SubmitQuote{BuyerID: "buyer-1"})

	assert.ErrorIs(t, err, quote.ErrEmptyQuote)
	assert.Empty(t, f.eventStore.AppendCalls)
}

// ============================================
// Transport Option Tests
// ============================================

func (f *handlerFixture) createShippingRequest(t *testing.T) *shipping.Request {
	t.Helper()
	r, err := f.handler.CreateShippingRequest(context.Background(), CreateShippingRequest{
		QuoteID:         "quote-1",
		ContainerType:   "40HC",
		OriginPort:      "Ningbo",
		DestinationPort: "Colon Free Zone",
		EstimatedDate:   time.Now().AddDate(0, 2, 0),
	})
	require.NoError(t, err)
	return r
}

func TestHandler_RequestTransportOptions(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r := f.createShippingRequest(t)

	options, err := f.handler.RequestTransportOptions(ctx, RequestTransportOptions{RequestID: r.ID})
	require.NoError(t, err)
	require.Len(t, options, 2)
	for _, opt := range options {
		assert.NotEmpty(t, opt.ID)
		assert.Equal(t, r.ID, opt.RequestID)
	}
	assert.Equal(t, 1, f.provider.calls)
}

func TestHandler_RequestTransportOptions_ProviderFailure(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r := f.createShippingRequest(t)
	eventsBefore := len(f.eventStore.AppendCalls)

	f.provider.err = errors.New("carrier API timeout")

	_, err := f.handler.RequestTransportOptions(ctx, RequestTransportOptions{RequestID: r.ID})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching transport options")

	// The failure recorded nothing; the request is still pending.
	assert.Len(t, f.eventStore.AppendCalls, eventsBefore)
	loaded, err := shipping.NewService(f.eventStore).GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, shipping.StatusPending, loaded.Status)
}

func TestHandler_RequestTransportOptions_UsesQuoteContainerCount(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	f.readStore.SetData("quotes", "quote-1", &readmodel.QuoteReadModel{ID: "quote-1", TotalContainers: 4})

	r := f.createShippingRequest(t)

	capture := &capturingProvider{inner: f.provider}
	f.handler.rateProvider = capture

	_, err := f.handler.RequestTransportOptions(ctx, RequestTransportOptions{RequestID: r.ID})
	require.NoError(t, err)
	assert.Equal(t, 4, capture.lastRequest.Containers)
}

type capturingProvider struct {
	inner       transport.RateProvider
	lastRequest transport.RateRequest
}

func (p *capturingProvider) Quote(ctx context.Context, req transport.RateRequest) ([]shipping.TransportOption, error) {
	p.lastRequest = req
	return p.inner.Quote(ctx, req)
}

// ============================================
// Booking Command Tests
// ============================================

func (f *handlerFixture) bookedRequest(t *testing.T) (*shipping.Request, shipping.TransportOption) {
	t.Helper()
	ctx := context.Background()

	r := f.createShippingRequest(t)
	options, err := f.handler.RequestTransportOptions(ctx, RequestTransportOptions{RequestID: r.ID})
	require.NoError(t, err)
	require.NoError(t, f.handler.SelectTransportOption(ctx, SelectTransportOption{RequestID: r.ID, OptionID: options[0].ID}))
	return r, options[0]
}

func TestHandler_ConfirmBooking_DefaultsFromOption(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r, opt := f.bookedRequest(t)

	b, err := f.handler.ConfirmBooking(ctx, ConfirmBooking{RequestID: r.ID})
	require.NoError(t, err)

	assert.Equal(t, opt.ID, b.SelectedOptionID)
	assert.Equal(t, "Maersk Line", b.ShippingLine)
	assert.Equal(t, 2450, b.TotalCost)
	assert.Equal(t, 2450*5/100, b.PlatformCommission)
	assert.Regexp(t, `^BK-[0-9A-F]{8}$`, b.BookingNumber)
	assert.Equal(t, opt.Availability.Unix(), b.ETD.Unix())
	assert.Equal(t, opt.Availability.AddDate(0, 0, opt.TransitDays).Unix(), b.ETA.Unix())
	assert.Equal(t, b.ETD.AddDate(0, 0, -3).Unix(), b.CutoffDate.Unix())
	require.Len(t, b.Documents, 5)

	// The shipping request reached its final status.
	loaded, err := shipping.NewService(f.eventStore).GetRequest(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, shipping.StatusConfirmed, loaded.Status)
}

func TestHandler_ConfirmBooking_ExplicitFields(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r, _ := f.bookedRequest(t)

	etd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	b, err := f.handler.ConfirmBooking(ctx, ConfirmBooking{
		RequestID:     r.ID,
		BookingNumber: "BK-CUSTOM01",
		VesselName:    "Ever Given",
		ETD:           etd,
		ETA:           etd.AddDate(0, 0, 30),
		CutoffDate:    etd.AddDate(0, 0, -5),
	})
	require.NoError(t, err)

	assert.Equal(t, "BK-CUSTOM01", b.BookingNumber)
	assert.Equal(t, "Ever Given", b.VesselName)
	assert.Equal(t, etd, b.ETD)
	assert.Equal(t, etd.AddDate(0, 0, -5), b.CutoffDate)
}

func TestHandler_ConfirmBooking_NoSelection(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r := f.createShippingRequest(t)
	_, err := f.handler.RequestTransportOptions(ctx, RequestTransportOptions{RequestID: r.ID})
	require.NoError(t, err)

	_, err = f.handler.ConfirmBooking(ctx, ConfirmBooking{RequestID: r.ID})
	assert.ErrorIs(t, err, shipping.ErrOptionNotFound)
}

func TestHandler_UpdateBookingStatus_MapsTracking(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r, _ := f.bookedRequest(t)
	b, err := f.handler.ConfirmBooking(ctx, ConfirmBooking{RequestID: r.ID})
	require.NoError(t, err)

	pct := 60
	err = f.handler.UpdateBookingStatus(ctx, UpdateBookingStatus{
		BookingID: b.ID,
		Status:    string(booking.StatusInProduction),
		Tracking: &TrackingInput{
			Location:    "Yiwu factory",
			Description: "Production at 60%",
			Percentage:  &pct,
		},
	})
	require.NoError(t, err)

	loaded, err := booking.NewService(f.eventStore).GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusInProduction, loaded.Status)
	require.Len(t, loaded.Tracking, 1)
	assert.Equal(t, booking.StatusInProduction, loaded.Tracking[0].Status)
	assert.Equal(t, "Yiwu factory", loaded.Tracking[0].Location)
}

func TestHandler_UpdateIncident_MapsStatusPointer(t *testing.T) {
	f := newHandlerFixture()
	ctx := context.Background()

	r, _ := f.bookedRequest(t)
	b, err := f.handler.ConfirmBooking(ctx, ConfirmBooking{RequestID: r.ID})
	require.NoError(t, err)

	incident, err := f.handler.ReportIncident(ctx, ReportIncident{
		BookingID:  b.ID,
		Type:       string(booking.IncidentDelay),
		Title:      "Vessel delayed",
		Severity:   string(booking.SeverityLow),
		ReportedBy: "acct-buyer-1",
	})
	require.NoError(t, err)

	status := string(booking.IncidentResolved)
	resolution := "Delay absorbed by buffer"
	err = f.handler.UpdateIncident(ctx, UpdateIncident{
		BookingID:  b.ID,
		IncidentID: incident.ID,
		Status:     &status,
		Resolution: &resolution,
	})
	require.NoError(t, err)

	loaded, err := booking.NewService(f.eventStore).GetBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.IncidentResolved, loaded.Incidents[0].Status)
	assert.Equal(t, "Delay absorbed by buffer", loaded.Incidents[0].Resolution)
}
