package booking

import "time"

const (
	EventBookingConfirmed   = "BookingConfirmed"
	EventDocumentsGenerated = "CustomsDocumentsGenerated"
	EventStatusUpdated      = "BookingStatusUpdated"
	EventDocumentDownloaded = "CustomsDocumentDownloaded"
	EventIncidentReported   = "IncidentReported"
	EventIncidentUpdated    = "IncidentUpdated"
)

type BookingConfirmed struct {
	BookingID          string    `json:"booking_id"`
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
	ConfirmedAt        time.Time `json:"confirmed_at"`
}

// CustomsDocumentsGenerated carries the complete batch. The five documents
// are generated together with the booking confirmation; a booking is never
// observable without them.
type CustomsDocumentsGenerated struct {
	BookingID   string            `json:"booking_id"`
	Documents   []CustomsDocument `json:"documents"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// BookingStatusUpdated advances the booking through its lifecycle. Tracking
// is optional: a bare status change leaves the tracking history untouched.
type BookingStatusUpdated struct {
	BookingID string          `json:"booking_id"`
	Status    Status          `json:"status"`
	Tracking  *TrackingDetail `json:"tracking,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CustomsDocumentDownloaded struct {
	BookingID    string    `json:"booking_id"`
	DocumentID   string    `json:"document_id"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

type IncidentReported struct {
	BookingID  string    `json:"booking_id"`
	Incident   Incident  `json:"incident"`
	ReportedAt time.Time `json:"reported_at"`
}

// IncidentUpdated merges the supplied fields into the incident; absent
// fields keep their current values.
type IncidentUpdated struct {
	BookingID  string          `json:"booking_id"`
	IncidentID string          `json:"incident_id"`
	Status     *IncidentStatus `json:"status,omitempty"`
	AssignedTo *string         `json:"assigned_to,omitempty"`
	Resolution *string         `json:"resolution,omitempty"`
	UpdatedAt  time.Time       `json:"updated_at"`
}
