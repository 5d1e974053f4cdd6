package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/example/container-market/internal/api/middleware"
	"github.com/example/container-market/internal/command"
	"github.com/example/container-market/internal/domain/booking"
	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/domain/listing"
	"github.com/example/container-market/internal/domain/quote"
	"github.com/example/container-market/internal/domain/shipping"
	"github.com/example/container-market/internal/query"
)

type Handlers struct {
	cmdHandler   *command.Handler
	queryHandler *query.Handler
}

func NewHandlers(cmdHandler *command.Handler, queryHandler *query.Handler) *Handlers {
	return &Handlers{
		cmdHandler:   cmdHandler,
		queryHandler: queryHandler,
	}
}

// Listing Handlers

func (h *Handlers) PublishListing(w http.ResponseWriter, r *http.Request) {
	var cmd command.PublishListing
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l, err := h.cmdHandler.PublishListing(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, l)
}

func (h *Handlers) GetListings(w http.ResponseWriter, r *http.Request) {
	listings := h.queryHandler.ListListings()
	respondJSON(w, http.StatusOK, listings)
}

func (h *Handlers) GetListing(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/listings/")
	l, ok := h.queryHandler.GetListing(id)
	if !ok {
		http.Error(w, "Listing not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, l)
}

func (h *Handlers) UpdateListing(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/listings/")

	var cmd command.UpdateListing
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd.ListingID = id

	if err := h.cmdHandler.UpdateListing(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Listing updated"})
}

func (h *Handlers) WithdrawListing(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/listings/")

	cmd := command.WithdrawListing{ListingID: id}
	if err := h.cmdHandler.WithdrawListing(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Listing withdrawn"})
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)
	c, _ := h.queryHandler.GetCart(buyerID)
	respondJSON(w, http.StatusOK, c)
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)

	var req struct {
		ListingID string `json:"listing_id"`
		Quantity  int    `json:"quantity"`
		Notes     string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.AddCartItem{
		BuyerID:   buyerID,
		ListingID: req.ListingID,
		Quantity:  req.Quantity,
		Notes:     req.Notes,
	}
	if err := h.cmdHandler.AddCartItem(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)
	itemID := extractPathParam(r.URL.Path, "/cart/items/")

	var req struct {
		Quantity *int `json:"quantity,omitempty"`
		// Per-container price negotiated off-platform
		CustomPrice *int `json:"custom_price,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.Quantity != nil {
		cmd := command.UpdateCartQuantity{BuyerID: buyerID, ItemID: itemID, Quantity: *req.Quantity}
		if err := h.cmdHandler.UpdateCartQuantity(r.Context(), cmd); err != nil {
			respondCommandError(w, err)
			return
		}
	}

	if req.CustomPrice != nil {
		cmd := command.SetCustomPrice{BuyerID: buyerID, ItemID: itemID, CustomPrice: *req.CustomPrice}
		if err := h.cmdHandler.SetCustomPrice(r.Context(), cmd); err != nil {
			respondCommandError(w, err)
			return
		}
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)
	itemID := extractPathParam(r.URL.Path, "/cart/items/")

	cmd := command.RemoveCartItem{BuyerID: buyerID, ItemID: itemID}
	if err := h.cmdHandler.RemoveCartItem(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)

	cmd := command.ClearCart{BuyerID: buyerID}
	if err := h.cmdHandler.ClearCart(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Quote Handlers

func (h *Handlers) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)

	var req struct {
		PaymentConditions  string `json:"payment_conditions"`
		FreightEstimate    *int   `json:"freight_estimate,omitempty"`
		PlatformCommission *int   `json:"platform_commission,omitempty"`
		Notes              string `json:"notes,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.SubmitQuote{
		BuyerID:            buyerID,
		PaymentConditions:  req.PaymentConditions,
		FreightEstimate:    req.FreightEstimate,
		PlatformCommission: req.PlatformCommission,
		Notes:              req.Notes,
	}
	q, err := h.cmdHandler.SubmitQuote(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, q)
}

func (h *Handlers) GetQuotes(w http.ResponseWriter, r *http.Request) {
	buyerID := getAccountID(r)
	quotes := h.queryHandler.ListQuotesByBuyer(buyerID)
	respondJSON(w, http.StatusOK, quotes)
}

func (h *Handlers) GetQuote(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/quotes/")
	id = strings.TrimSuffix(id, "/status")

	q, ok := h.queryHandler.GetQuote(id)
	if !ok {
		http.Error(w, "Quote not found", http.StatusNotFound)
		return
	}

	// Buyers only see their own quotes
	buyerID := getAccountID(r)
	if q.BuyerID != buyerID && !isOperator(r) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	respondJSON(w, http.StatusOK, q)
}

func (h *Handlers) UpdateQuoteStatus(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/quotes/")
	id := strings.TrimSuffix(path, "/status")

	var req struct {
		Status           string `json:"status"`
		SupplierResponse string `json:"supplier_response,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateQuoteStatus{
		QuoteID:          id,
		Status:           req.Status,
		SupplierResponse: req.SupplierResponse,
	}
	if err := h.cmdHandler.UpdateQuoteStatus(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Shipping Request Handlers

func (h *Handlers) CreateShippingRequest(w http.ResponseWriter, r *http.Request) {
	var cmd command.CreateShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	req, err := h.cmdHandler.CreateShippingRequest(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, req)
}

func (h *Handlers) GetShippingRequest(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/shipping-requests/")

	req, ok := h.queryHandler.GetShippingRequest(id)
	if !ok {
		http.Error(w, "Shipping request not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, req)
}

func (h *Handlers) GetTransportOptions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/shipping-requests/")
	id := strings.TrimSuffix(path, "/options")

	options := h.queryHandler.ListTransportOptions(id)
	respondJSON(w, http.StatusOK, options)
}

// RequestTransportOptions triggers a quoting round against the rate
// provider. This blocks on the provider call; the recorded set replaces any
// previous round.
func (h *Handlers) RequestTransportOptions(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/shipping-requests/")
	id := strings.TrimSuffix(path, "/options")

	cmd := command.RequestTransportOptions{RequestID: id}
	options, err := h.cmdHandler.RequestTransportOptions(r.Context(), cmd)
	if err != nil {
		if errors.Is(err, shipping.ErrRequestNotFound) {
			http.Error(w, "Shipping request not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	respondJSON(w, http.StatusOK, options)
}

func (h *Handlers) SelectTransportOption(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/shipping-requests/")
	id := strings.TrimSuffix(path, "/select")

	var req struct {
		OptionID string `json:"option_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.SelectTransportOption{RequestID: id, OptionID: req.OptionID}
	if err := h.cmdHandler.SelectTransportOption(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Booking Handlers

func (h *Handlers) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	var cmd command.ConfirmBooking
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := h.cmdHandler.ConfirmBooking(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

func (h *Handlers) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/bookings/")

	b, ok := h.queryHandler.GetBooking(id)
	if !ok {
		http.Error(w, "Booking not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, b)
}

func (h *Handlers) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)

	var req struct {
		Status   string                 `json:"status"`
		Tracking *command.TrackingInput `json:"tracking,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateBookingStatus{
		BookingID: id,
		Status:    req.Status,
		Tracking:  req.Tracking,
	}
	if err := h.cmdHandler.UpdateBookingStatus(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) GetTracking(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)
	events := h.queryHandler.GetTrackingHistory(id)
	respondJSON(w, http.StatusOK, events)
}

func (h *Handlers) GetDocuments(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)
	docs := h.queryHandler.GetDocuments(id)
	respondJSON(w, http.StatusOK, docs)
}

func (h *Handlers) GenerateDocuments(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)

	cmd := command.GenerateCustomsDocuments{BookingID: id}
	docs, err := h.cmdHandler.GenerateCustomsDocuments(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, docs)
}

func (h *Handlers) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/bookings/"), "/")
	if len(parts) < 3 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	bookingID, documentID := parts[0], parts[2]

	cmd := command.MarkDocumentDownloaded{BookingID: bookingID, DocumentID: documentID}
	if err := h.cmdHandler.MarkDocumentDownloaded(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) GetIncidents(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)
	incidents := h.queryHandler.ListIncidentsByBooking(id)
	respondJSON(w, http.StatusOK, incidents)
}

func (h *Handlers) ReportIncident(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)

	var req struct {
		Type        string   `json:"type"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Severity    string   `json:"severity"`
		Attachments []string `json:"attachments,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.ReportIncident{
		BookingID:   id,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		Severity:    req.Severity,
		ReportedBy:  getAccountID(r),
		Attachments: req.Attachments,
	}
	incident, err := h.cmdHandler.ReportIncident(r.Context(), cmd)
	if err != nil {
		respondCommandError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, incident)
}

func (h *Handlers) UpdateIncident(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/bookings/"), "/")
	if len(parts) < 3 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	bookingID, incidentID := parts[0], parts[2]

	var req struct {
		Status     *string `json:"status,omitempty"`
		AssignedTo *string `json:"assigned_to,omitempty"`
		Resolution *string `json:"resolution,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cmd := command.UpdateIncident{
		BookingID:  bookingID,
		IncidentID: incidentID,
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
		Resolution: req.Resolution,
	}
	if err := h.cmdHandler.UpdateIncident(r.Context(), cmd); err != nil {
		respondCommandError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) GetNotifications(w http.ResponseWriter, r *http.Request) {
	id := bookingIDFromPath(r.URL.Path)
	notifications := h.queryHandler.ListNotificationsByBooking(id)
	respondJSON(w, http.StatusOK, notifications)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

// bookingIDFromPath extracts the booking ID from paths shaped like
// /bookings/{id}/tracking, /bookings/{id}/incidents, etc.
func bookingIDFromPath(path string) string {
	rest := strings.TrimPrefix(path, "/bookings/")
	if i := strings.Index(rest, "/"); i >= 0 {
		return rest[:i]
	}
	return rest
}

// getAccountID extracts account ID from JWT context or falls back to the
// X-Account-ID header
func getAccountID(r *http.Request) string {
	if accountID := middleware.GetAccountID(r.Context()); accountID != "" {
		return accountID
	}

	if accountID := r.Header.Get("X-Account-ID"); accountID != "" {
		return accountID
	}

	return "demo-buyer"
}

// isOperator checks if the current account has the operator role
func isOperator(r *http.Request) bool {
	claims, ok := middleware.GetAccountFromContext(r.Context())
	if !ok {
		return false
	}
	return claims.Role == "operator"
}

// respondCommandError maps domain errors onto HTTP status codes
func respondCommandError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, listing.ErrListingNotFound),
		errors.Is(err, quote.ErrQuoteNotFound),
		errors.Is(err, shipping.ErrRequestNotFound),
		errors.Is(err, shipping.ErrOptionNotFound),
		errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrDocumentNotFound),
		errors.Is(err, booking.ErrIncidentNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, shipping.ErrInvalidTransition),
		errors.Is(err, booking.ErrBackwardTransition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidPrice),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, listing.ErrInvalidPrice),
		errors.Is(err, listing.ErrInvalidTitle),
		errors.Is(err, listing.ErrInvalidSupplier),
		errors.Is(err, listing.ErrInvalidUnits),
		errors.Is(err, quote.ErrEmptyQuote),
		errors.Is(err, quote.ErrInvalidStatus),
		errors.Is(err, shipping.ErrInvalidRoute),
		errors.Is(err, shipping.ErrNoOptions),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrInvalidIncidentType),
		errors.Is(err, booking.ErrInvalidSeverity):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
