package readmodel

import "time"

// ListingReadModel is the read model for container-lot listings
type ListingReadModel struct {
	ID                string    `json:"id"`
	SupplierID        string    `json:"supplier_id"`
	SupplierName      string    `json:"supplier_name"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url,omitempty"`
	ContainerType     string    `json:"container_type"`
	PricePerContainer int       `json:"price_per_container"`
	Currency          string    `json:"currency"`
	Incoterm          string    `json:"incoterm"`
	AvailableUnits    int       `json:"available_units"`
	OriginPort        string    `json:"origin_port"`
	IsWithdrawn       bool      `json:"is_withdrawn,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CartItemReadModel represents one line in a buyer's cart
type CartItemReadModel struct {
	ID                string     `json:"id"`
	ProductID         string     `json:"product_id"`
	Title             string     `json:"title"`
	ImageURL          string     `json:"image_url,omitempty"`
	SupplierID        string     `json:"supplier_id"`
	SupplierName      string     `json:"supplier_name"`
	ContainerType     string     `json:"container_type"`
	Quantity          int        `json:"quantity"`
	PricePerContainer int        `json:"price_per_container"`
	Currency          string     `json:"currency"`
	Incoterm          string     `json:"incoterm"`
	CustomPrice       *int       `json:"custom_price,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	AddedAt           time.Time  `json:"added_at"`
}

// CartReadModel is the read model for a buyer's cart
type CartReadModel struct {
	ID              string              `json:"id"`
	BuyerID         string              `json:"buyer_id"`
	Items           []CartItemReadModel `json:"items"`
	TotalContainers int                 `json:"total_containers"`
	TotalAmount     int                 `json:"total_amount"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// QuoteReadModel is the read model for quote requests. Items are the frozen
// copy taken at submission time, not live cart lines.
type QuoteReadModel struct {
	ID                 string              `json:"id"`
	BuyerID            string              `json:"buyer_id"`
	Items              []CartItemReadModel `json:"items"`
	TotalContainers    int                 `json:"total_containers"`
	TotalAmount        int                 `json:"total_amount"`
	PaymentConditions  string              `json:"payment_conditions,omitempty"`
	FreightEstimate    *int                `json:"freight_estimate,omitempty"`
	PlatformCommission *int                `json:"platform_commission,omitempty"`
	Notes              string              `json:"notes,omitempty"`
	Status             string              `json:"status"`
	SupplierResponse   string              `json:"supplier_response,omitempty"`
	SentAt             time.Time           `json:"sent_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

// ShippingRequestReadModel is the read model for shipping requests
type ShippingRequestReadModel struct {
	ID               string    `json:"id"`
	QuoteID          string    `json:"quote_id,omitempty"`
	ContainerType    string    `json:"container_type"`
	OriginPort       string    `json:"origin_port"`
	DestinationPort  string    `json:"destination_port"`
	EstimatedDate    time.Time `json:"estimated_date"`
	Status           string    `json:"status"`
	SelectedOptionID string    `json:"selected_option_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TransportOptionReadModel is one carrier offer on a request
type TransportOptionReadModel struct {
	ID              string    `json:"id"`
	RequestID       string    `json:"request_id"`
	OperatorID      string    `json:"operator_id"`
	OperatorName    string    `json:"operator_name"`
	Incoterm        string    `json:"incoterm"`
	Cost            int       `json:"cost"`
	Currency        string    `json:"currency"`
	TransitDays     int       `json:"transit_days"`
	Insurance       bool      `json:"insurance"`
	Customs         bool      `json:"customs"`
	Documentation   bool      `json:"documentation"`
	SpecialHandling []string  `json:"special_handling,omitempty"`
	Availability    time.Time `json:"availability"`
	ValidUntil      time.Time `json:"valid_until"`
	Rating          float64   `json:"rating"`
	Verified        bool      `json:"verified"`
}

// TransportOptionSetReadModel holds the current offer set for a request,
// keyed by request ID. Each quote round replaces the whole set.
type TransportOptionSetReadModel struct {
	RequestID string                     `json:"request_id"`
	Options   []TransportOptionReadModel `json:"options"`
	QuotedAt  time.Time                  `json:"quoted_at"`
}

// BookingReadModel is the read model for bookings
type BookingReadModel struct {
	ID                 string    `json:"id"`
	RequestID          string    `json:"request_id"`
	SelectedOptionID   string    `json:"selected_option_id"`
	BookingNumber      string    `json:"booking_number"`
	ShippingLine       string    `json:"shipping_line"`
	VesselName         string    `json:"vessel_name,omitempty"`
	CutoffDate         time.Time `json:"cutoff_date"`
	ETD                time.Time `json:"etd"`
	ETA                time.Time `json:"eta"`
	TotalCost          int       `json:"total_cost"`
	PlatformCommission int       `json:"platform_commission"`
	Status             string    `json:"status"`
	ProgressPercent    int       `json:"progress_percent"`
	OpenIncidents      int       `json:"open_incidents"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// DocumentReadModel is one customs document
type DocumentReadModel struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	GeneratedAt time.Time `json:"generated_at"`
}

// DocumentBatchReadModel holds the customs documents of one booking, keyed
// by booking ID.
type DocumentBatchReadModel struct {
	BookingID   string              `json:"booking_id"`
	Documents   []DocumentReadModel `json:"documents"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// TrackingEventReadModel is one entry in a booking's tracking history
type TrackingEventReadModel struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Percentage  *int      `json:"percentage,omitempty"`
	Documents   []string  `json:"documents,omitempty"`
}

// TrackingHistoryReadModel holds the append-only tracking history of one
// booking, keyed by booking ID.
type TrackingHistoryReadModel struct {
	BookingID string                   `json:"booking_id"`
	Events    []TrackingEventReadModel `json:"events"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// IncidentReadModel is the read model for incidents, keyed by incident ID
type IncidentReadModel struct {
	ID          string     `json:"id"`
	BookingID   string     `json:"booking_id"`
	Type        string     `json:"type"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Severity    string     `json:"severity"`
	Status      string     `json:"status"`
	ReportedBy  string     `json:"reported_by"`
	ReportedAt  time.Time  `json:"reported_at"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
	Resolution  string     `json:"resolution,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	Attachments []string   `json:"attachments,omitempty"`
}

// NotificationReadModel records a buyer-facing notification produced when a
// booking changes status
type NotificationReadModel struct {
	ID        string    `json:"id"`
	BookingID string    `json:"booking_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountReadModel is the read model for platform accounts
type AccountReadModel struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash,omitempty"`
	Name         string    `json:"name"`
	Company      string    `json:"company,omitempty"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
