package quote

import (
	"time"

	"github.com/example/container-market/internal/domain/cart"
)

const (
	EventQuoteSubmitted     = "QuoteSubmitted"
	EventQuoteStatusUpdated = "QuoteStatusUpdated"
)

// QuoteSubmitted freezes the cart contents at submission time. The items in
// the payload are a copy; later cart mutations never reach a submitted quote.
type QuoteSubmitted struct {
	QuoteID            string      `json:"quote_id"`
	BuyerID            string      `json:"buyer_id"`
	Items              []cart.Item `json:"items"`
	TotalAmount        int         `json:"total_amount"`
	Currency           string      `json:"currency"`
	PaymentConditions  string      `json:"payment_conditions"`
	FreightEstimate    *int        `json:"freight_estimate,omitempty"`
	PlatformCommission *int        `json:"platform_commission,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	SentAt             time.Time   `json:"sent_at"`
}

type QuoteStatusUpdated struct {
	QuoteID          string    `json:"quote_id"`
	Status           Status    `json:"status"`
	SupplierResponse string    `json:"supplier_response,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}
