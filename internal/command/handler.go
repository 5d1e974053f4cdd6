package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/container-market/internal/domain/booking"
	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/domain/listing"
	"github.com/example/container-market/internal/domain/quote"
	"github.com/example/container-market/internal/domain/shipping"
	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/example/container-market/internal/readmodel"
	"github.com/example/container-market/internal/transport"
)

// platformCommissionPct is the marketplace cut applied to the transport
// cost when a booking is confirmed.
const platformCommissionPct = 5

type Handler struct {
	listingSvc   *listing.Service
	cartSvc      *cart.Service
	quoteSvc     *quote.Service
	shippingSvc  *shipping.Service
	bookingSvc   *booking.Service
	rateProvider transport.RateProvider
	readStore    store.ReadStoreInterface
}

func NewHandler(
	listingSvc *listing.Service,
	cartSvc *cart.Service,
	quoteSvc *quote.Service,
	shippingSvc *shipping.Service,
	bookingSvc *booking.Service,
	rateProvider transport.RateProvider,
	readStore store.ReadStoreInterface,
) *Handler {
	return &Handler{
		listingSvc:   listingSvc,
		cartSvc:      cartSvc,
		quoteSvc:     quoteSvc,
		shippingSvc:  shippingSvc,
		bookingSvc:   bookingSvc,
		rateProvider: rateProvider,
		readStore:    readStore,
	}
}

// PublishListing creates a new listing (async projection - updates via Kafka)
func (h *Handler) PublishListing(ctx context.Context, cmd PublishListing) (*listing.Listing, error) {
	return h.listingSvc.Publish(ctx, listing.PublishInput{
		SupplierID:        cmd.SupplierID,
		SupplierName:      cmd.SupplierName,
		Title:             cmd.Title,
		Description:       cmd.Description,
		ImageURL:          cmd.ImageURL,
		ContainerType:     cmd.ContainerType,
		PricePerContainer: cmd.PricePerContainer,
		Currency:          cmd.Currency,
		Incoterm:          cmd.Incoterm,
		AvailableUnits:    cmd.AvailableUnits,
		OriginPort:        cmd.OriginPort,
	})
}

// UpdateListing updates a listing
func (h *Handler) UpdateListing(ctx context.Context, cmd UpdateListing) error {
	return h.listingSvc.Update(ctx, cmd.ListingID, cmd.Title, cmd.Description, cmd.ImageURL, cmd.PricePerContainer, cmd.AvailableUnits)
}

// WithdrawListing withdraws a listing from the marketplace
func (h *Handler) WithdrawListing(ctx context.Context, cmd WithdrawListing) error {
	return h.listingSvc.Withdraw(ctx, cmd.ListingID)
}

// AddCartItem resolves the listing from the read store and adds it to the
// buyer's cart. Pricing and supplier fields are copied off the listing at
// add time.
func (h *Handler) AddCartItem(ctx context.Context, cmd AddCartItem) error {
	l, ok := h.readStore.Get("listings", cmd.ListingID)
	if !ok {
		return listing.ErrListingNotFound
	}
	lst := l.(*readmodel.ListingReadModel)
	if lst.IsWithdrawn {
		return listing.ErrListingNotFound
	}

	return h.cartSvc.AddItem(ctx, cmd.BuyerID, cart.Item{
		ProductID:         lst.ID,
		Title:             lst.Title,
		ImageURL:          lst.ImageURL,
		SupplierID:        lst.SupplierID,
		SupplierName:      lst.SupplierName,
		ContainerType:     lst.ContainerType,
		Quantity:          cmd.Quantity,
		PricePerContainer: lst.PricePerContainer,
		Currency:          lst.Currency,
		Incoterm:          lst.Incoterm,
		Notes:             cmd.Notes,
	})
}

// RemoveCartItem removes a line from the buyer's cart
func (h *Handler) RemoveCartItem(ctx context.Context, cmd RemoveCartItem) error {
	return h.cartSvc.RemoveItem(ctx, cmd.BuyerID, cmd.ItemID)
}

// UpdateCartQuantity sets the container count on a cart line
func (h *Handler) UpdateCartQuantity(ctx context.Context, cmd UpdateCartQuantity) error {
	return h.cartSvc.UpdateQuantity(ctx, cmd.BuyerID, cmd.ItemID, cmd.Quantity)
}

// SetCustomPrice records a negotiated per-container price on a cart line
func (h *Handler) SetCustomPrice(ctx context.Context, cmd SetCustomPrice) error {
	return h.cartSvc.SetCustomPrice(ctx, cmd.BuyerID, cmd.ItemID, cmd.CustomPrice)
}

// ClearCart clears all items from the buyer's cart
func (h *Handler) ClearCart(ctx context.Context, cmd ClearCart) error {
	return h.cartSvc.Clear(ctx, cmd.BuyerID)
}

// SubmitQuote freezes the buyer's cart into a quote, then clears the cart.
// The cart is read from the event store, not the read store, so the snapshot
// always matches the latest accepted commands.
func (h *Handler) SubmitQuote(ctx context.Context, cmd SubmitQuote) (*quote.Quote, error) {
	c, err := h.cartSvc.GetCart(ctx, cmd.BuyerID)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, quote.ErrEmptyQuote
	}

	q, err := h.quoteSvc.Submit(ctx, cmd.BuyerID, c.Items, quote.Submission{
		PaymentConditions:  cmd.PaymentConditions,
		FreightEstimate:    cmd.FreightEstimate,
		PlatformCommission: cmd.PlatformCommission,
		Notes:              cmd.Notes,
	})
	if err != nil {
		return nil, err
	}

	// Clear cart (emits CartCleared event)
	if err := h.cartSvc.Clear(ctx, cmd.BuyerID); err != nil {
		return nil, err
	}

	return q, nil
}

// UpdateQuoteStatus records the supplier's decision on a quote
func (h *Handler) UpdateQuoteStatus(ctx context.Context, cmd UpdateQuoteStatus) error {
	return h.quoteSvc.UpdateStatus(ctx, cmd.QuoteID, quote.Status(cmd.Status), cmd.SupplierResponse)
}

// CreateShippingRequest opens a shipping request for a quote
func (h *Handler) CreateShippingRequest(ctx context.Context, cmd CreateShippingRequest) (*shipping.Request, error) {
	return h.shippingSvc.CreateRequest(ctx, cmd.QuoteID, cmd.ContainerType, cmd.OriginPort, cmd.DestinationPort, cmd.EstimatedDate)
}

// RequestTransportOptions fetches carrier offers and records them on the
// request as a replacement set. A provider failure leaves the request in its
// previous state; nothing is recorded.
func (h *Handler) RequestTransportOptions(ctx context.Context, cmd RequestTransportOptions) ([]shipping.TransportOption, error) {
	r, err := h.shippingSvc.GetRequest(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}

	options, err := h.rateProvider.Quote(ctx, transport.RateRequest{
		RequestID:       r.ID,
		OriginPort:      r.OriginPort,
		DestinationPort: r.DestinationPort,
		ContainerType:   r.ContainerType,
		Containers:      h.containersForQuote(r.QuoteID),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching transport options: %w", err)
	}

	return h.shippingSvc.RecordOptions(ctx, cmd.RequestID, options)
}

// containersForQuote resolves the container count from the originating
// quote's read model, defaulting to a single container when unknown.
func (h *Handler) containersForQuote(quoteID string) int {
	if quoteID == "" {
		return 1
	}
	q, ok := h.readStore.Get("quotes", quoteID)
	if !ok {
		return 1
	}
	if model := q.(*readmodel.QuoteReadModel); model.TotalContainers > 0 {
		return model.TotalContainers
	}
	return 1
}

// SelectTransportOption records the buyer's carrier choice
func (h *Handler) SelectTransportOption(ctx context.Context, cmd SelectTransportOption) error {
	return h.shippingSvc.SelectOption(ctx, cmd.RequestID, cmd.OptionID)
}

// ConfirmBooking turns the selected transport option into a booking and
// advances the shipping request to confirmed. Customs documents are
// generated in the same command.
func (h *Handler) ConfirmBooking(ctx context.Context, cmd ConfirmBooking) (*booking.Booking, error) {
	r, err := h.shippingSvc.GetRequest(ctx, cmd.RequestID)
	if err != nil {
		return nil, err
	}
	opt, ok := r.SelectedOption()
	if !ok {
		return nil, shipping.ErrOptionNotFound
	}

	in := booking.ConfirmInput{
		RequestID:          r.ID,
		SelectedOptionID:   opt.ID,
		BookingNumber:      cmd.BookingNumber,
		ShippingLine:       opt.OperatorName,
		VesselName:         cmd.VesselName,
		CutoffDate:         cmd.CutoffDate,
		ETD:                cmd.ETD,
		ETA:                cmd.ETA,
		TotalCost:          opt.Cost,
		PlatformCommission: opt.Cost * platformCommissionPct / 100,
	}
	if in.BookingNumber == "" {
		in.BookingNumber = newBookingNumber()
	}
	if in.ETD.IsZero() {
		in.ETD = opt.Availability
	}
	if in.ETA.IsZero() {
		in.ETA = in.ETD.AddDate(0, 0, opt.TransitDays)
	}
	if in.CutoffDate.IsZero() {
		in.CutoffDate = in.ETD.AddDate(0, 0, -3)
	}

	b, err := h.bookingSvc.Confirm(ctx, in)
	if err != nil {
		return nil, err
	}

	if err := h.shippingSvc.Confirm(ctx, r.ID); err != nil {
		return nil, err
	}

	return b, nil
}

func newBookingNumber() string {
	return "BK-" + strings.ToUpper(uuid.New().String()[:8])
}

// UpdateBookingStatus advances a booking through its lifecycle
func (h *Handler) UpdateBookingStatus(ctx context.Context, cmd UpdateBookingStatus) error {
	status := booking.Status(cmd.Status)

	var tracking *booking.TrackingDetail
	if cmd.Tracking != nil {
		tracking = &booking.TrackingDetail{
			Status:      status,
			Location:    cmd.Tracking.Location,
			Description: cmd.Tracking.Description,
			Percentage:  cmd.Tracking.Percentage,
			Documents:   cmd.Tracking.Documents,
		}
	}

	return h.bookingSvc.UpdateStatus(ctx, cmd.BookingID, status, tracking)
}

// GenerateCustomsDocuments returns the booking's document batch, generating
// it only if it does not exist yet
func (h *Handler) GenerateCustomsDocuments(ctx context.Context, cmd GenerateCustomsDocuments) ([]booking.CustomsDocument, error) {
	return h.bookingSvc.GenerateDocuments(ctx, cmd.BookingID)
}

// MarkDocumentDownloaded records that a customs document was downloaded
func (h *Handler) MarkDocumentDownloaded(ctx context.Context, cmd MarkDocumentDownloaded) error {
	return h.bookingSvc.MarkDocumentDownloaded(ctx, cmd.BookingID, cmd.DocumentID)
}

// ReportIncident records a problem against a booking
func (h *Handler) ReportIncident(ctx context.Context, cmd ReportIncident) (*booking.Incident, error) {
	return h.bookingSvc.ReportIncident(ctx, cmd.BookingID, booking.IncidentInput{
		Type:        booking.IncidentType(cmd.Type),
		Title:       cmd.Title,
		Description: cmd.Description,
		Severity:    booking.IncidentSeverity(cmd.Severity),
		ReportedBy:  cmd.ReportedBy,
		Attachments: cmd.Attachments,
	})
}

// UpdateIncident merges the supplied fields into an incident
func (h *Handler) UpdateIncident(ctx context.Context, cmd UpdateIncident) error {
	update := booking.IncidentUpdate{
		AssignedTo: cmd.AssignedTo,
		Resolution: cmd.Resolution,
	}
	if cmd.Status != nil {
		status := booking.IncidentStatus(*cmd.Status)
		update.Status = &status
	}

	return h.bookingSvc.UpdateIncident(ctx, cmd.BookingID, cmd.IncidentID, update)
}
