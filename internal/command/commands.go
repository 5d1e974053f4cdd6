package command

import "time"

// Listing Commands
type PublishListing struct {
	SupplierID        string `json:"supplier_id"`
	SupplierName      string `json:"supplier_name"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
	ContainerType     string `json:"container_type"`
	PricePerContainer int    `json:"price_per_container"`
	Currency          string `json:"currency"`
	Incoterm          string `json:"incoterm"`
	AvailableUnits    int    `json:"available_units"`
	OriginPort        string `json:"origin_port"`
}

type UpdateListing struct {
	ListingID         string `json:"listing_id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	ImageURL          string `json:"image_url"`
	PricePerContainer int    `json:"price_per_container"`
	AvailableUnits    int    `json:"available_units"`
}

type WithdrawListing struct {
	ListingID string `json:"listing_id"`
}

// Cart Commands
type AddCartItem struct {
	BuyerID   string `json:"buyer_id"`
	ListingID string `json:"listing_id"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
}

type RemoveCartItem struct {
	BuyerID string `json:"buyer_id"`
	ItemID  string `json:"item_id"`
}

type UpdateCartQuantity struct {
	BuyerID  string `json:"buyer_id"`
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type SetCustomPrice struct {
	BuyerID     string `json:"buyer_id"`
	ItemID      string `json:"item_id"`
	CustomPrice int    `json:"custom_price"`
}

type ClearCart struct {
	BuyerID string `json:"buyer_id"`
}

// Quote Commands
type SubmitQuote struct {
	BuyerID            string `json:"buyer_id"`
	PaymentConditions  string `json:"payment_conditions"`
	FreightEstimate    *int   `json:"freight_estimate,omitempty"`
	PlatformCommission *int   `json:"platform_commission,omitempty"`
	Notes              string `json:"notes,omitempty"`
}

type UpdateQuoteStatus struct {
	QuoteID          string `json:"quote_id"`
	Status           string `json:"status"`
	SupplierResponse string `json:"supplier_response,omitempty"`
}

// Shipping Commands
type CreateShippingRequest struct {
	QuoteID         string    `json:"quote_id"`
	ContainerType   string    `json:"container_type"`
	OriginPort      string    `json:"origin_port"`
	DestinationPort string    `json:"destination_port"`
	EstimatedDate   time.Time `json:"estimated_date"`
}

type RequestTransportOptions struct {
	RequestID string `json:"request_id"`
}

type SelectTransportOption struct {
	RequestID string `json:"request_id"`
	OptionID  string `json:"option_id"`
}

// Booking Commands
type ConfirmBooking struct {
	RequestID     string    `json:"request_id"`
	BookingNumber string    `json:"booking_number,omitempty"`
	VesselName    string    `json:"vessel_name,omitempty"`
	CutoffDate    time.Time `json:"cutoff_date,omitempty"`
	ETD           time.Time `json:"etd,omitempty"`
	ETA           time.Time `json:"eta,omitempty"`
}

type TrackingInput struct {
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	Percentage  *int     `json:"percentage,omitempty"`
	Documents   []string `json:"documents,omitempty"`
}

type UpdateBookingStatus struct {
	BookingID string         `json:"booking_id"`
	Status    string         `json:"status"`
	Tracking  *TrackingInput `json:"tracking,omitempty"`
}

type GenerateCustomsDocuments struct {
	BookingID string `json:"booking_id"`
}

type MarkDocumentDownloaded struct {
	BookingID  string `json:"booking_id"`
	DocumentID string `json:"document_id"`
}

type ReportIncident struct {
	BookingID   string   `json:"booking_id"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Severity    string   `json:"severity"`
	ReportedBy  string   `json:"reported_by"`
	Attachments []string `json:"attachments,omitempty"`
}

type UpdateIncident struct {
	BookingID  string  `json:"booking_id"`
	IncidentID string  `json:"incident_id"`
	Status     *string `json:"status,omitempty"`
	AssignedTo *string `json:"assigned_to,omitempty"`
	Resolution *string `json:"resolution,omitempty"`
}
