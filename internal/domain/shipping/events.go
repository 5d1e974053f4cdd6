package shipping

import "time"

const (
	EventRequestCreated  = "ShippingRequestCreated"
	EventOptionsQuoted   = "TransportOptionsQuoted"
	EventOptionSelected  = "TransportOptionSelected"
	EventRequestAdvanced = "ShippingRequestAdvanced"
)

type ShippingRequestCreated struct {
	RequestID       string    `json:"request_id"`
	QuoteID         string    `json:"quote_id"`
	ContainerType   string    `json:"container_type"`
	OriginPort      string    `json:"origin_port"`
	DestinationPort string    `json:"destination_port"`
	EstimatedDate   time.Time `json:"estimated_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransportOptionsQuoted carries the full replacement set of carrier offers.
// Requoting discards the previous set; options are never appended across
// quoting rounds.
type TransportOptionsQuoted struct {
	RequestID string            `json:"request_id"`
	Options   []TransportOption `json:"options"`
	QuotedAt  time.Time         `json:"quoted_at"`
}

type TransportOptionSelected struct {
	RequestID  string    `json:"request_id"`
	OptionID   string    `json:"option_id"`
	SelectedAt time.Time `json:"selected_at"`
}

// ShippingRequestAdvanced records the confirmation step once a booking is
// made against the selected option.
type ShippingRequestAdvanced struct {
	RequestID  string    `json:"request_id"`
	Status     Status    `json:"status"`
	AdvancedAt time.Time `json:"advanced_at"`
}
