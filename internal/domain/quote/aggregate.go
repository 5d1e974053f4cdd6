package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/container-market/internal/domain/aggregate"
	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/infrastructure/store"
)

const AggregateType = "Quote"

type Status string

const (
	StatusDraft        Status = "draft"
	StatusSent         Status = "sent"
	StatusPending      Status = "pending"
	StatusAccepted     Status = "accepted"
	StatusCounterOffer Status = "counter_offer"
	StatusRejected     Status = "rejected"
)

var (
	ErrQuoteNotFound = errors.New("quote not found")
	ErrEmptyQuote    = errors.New("quote must have at least one item")
	ErrInvalidStatus = errors.New("invalid quote status")
)

func validStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusSent, StatusPending, StatusAccepted, StatusCounterOffer, StatusRejected:
		return true
	}
	return false
}

// Quote is an immutable snapshot of cart contents submitted for supplier
// review. Only status, supplier response, and UpdatedAt change after
// submission; the item list is frozen.
type Quote struct {
	ID                 string      `json:"id"`
	BuyerID            string      `json:"buyer_id"`
	Items              []cart.Item `json:"items"`
	TotalAmount        int         `json:"total_amount"`
	Currency           string      `json:"currency"`
	PaymentConditions  string      `json:"payment_conditions"`
	FreightEstimate    *int        `json:"freight_estimate,omitempty"`
	PlatformCommission *int        `json:"platform_commission,omitempty"`
	Status             Status      `json:"status"`
	SupplierResponse   string      `json:"supplier_response,omitempty"`
	Notes              string      `json:"notes,omitempty"`
	SentAt             time.Time   `json:"sent_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
	Version            int         `json:"version"`
}

func (q *Quote) GetID() string    { return q.ID }
func (q *Quote) GetVersion() int  { return q.Version }
func (q *Quote) SetVersion(v int) { q.Version = v }

// ApplyEvent applies a single event to the quote state (implements aggregate.Aggregate)
func (q *Quote) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventQuoteSubmitted:
		var data QuoteSubmitted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		q.ID = data.QuoteID
		q.BuyerID = data.BuyerID
		q.Items = data.Items
		q.TotalAmount = data.TotalAmount
		q.Currency = data.Currency
		q.PaymentConditions = data.PaymentConditions
		q.FreightEstimate = data.FreightEstimate
		q.PlatformCommission = data.PlatformCommission
		q.Notes = data.Notes
		q.Status = StatusSent
		q.SentAt = data.SentAt
		q.UpdatedAt = data.SentAt
	case EventQuoteStatusUpdated:
		var data QuoteStatusUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		q.Status = data.Status
		if data.SupplierResponse != "" {
			q.SupplierResponse = data.SupplierResponse
		}
		q.UpdatedAt = data.UpdatedAt
	}
	q.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadQuote(ctx context.Context, quoteID string) (*Quote, error) {
	q, found, err := aggregate.Load(ctx, s.eventStore, quoteID, func() *Quote { return &Quote{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrQuoteNotFound
	}
	return q, nil
}

// Submission captures the fields the buyer supplies when sending a quote.
type Submission struct {
	PaymentConditions  string
	FreightEstimate    *int
	PlatformCommission *int
	Notes              string
}

// Submit creates a quote from the given cart items. The items are copied
// into the event payload, so the caller's slice can be mutated freely
// afterwards without touching the submitted quote.
func (s *Service) Submit(ctx context.Context, buyerID string, items []cart.Item, sub Submission) (*Quote, error) {
	if len(items) == 0 {
		return nil, ErrEmptyQuote
	}

	quoteID := uuid.New().String()
	now := time.Now()

	frozen := make([]cart.Item, len(items))
	copy(frozen, items)

	total := 0
	currency := ""
	for _, item := range frozen {
		total += item.UnitPrice() * item.Quantity
		if currency == "" {
			currency = item.Currency
		}
	}

	event := QuoteSubmitted{
		QuoteID:            quoteID,
		BuyerID:            buyerID,
		Items:              frozen,
		TotalAmount:        total,
		Currency:           currency,
		PaymentConditions:  sub.PaymentConditions,
		FreightEstimate:    sub.FreightEstimate,
		PlatformCommission: sub.PlatformCommission,
		Notes:              sub.Notes,
		SentAt:             now,
	}

	storedEvent, err := s.eventStore.Append(ctx, quoteID, AggregateType, EventQuoteSubmitted, event)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		ID:                 quoteID,
		BuyerID:            buyerID,
		Items:              frozen,
		TotalAmount:        total,
		Currency:           currency,
		PaymentConditions:  sub.PaymentConditions,
		FreightEstimate:    sub.FreightEstimate,
		PlatformCommission: sub.PlatformCommission,
		Notes:              sub.Notes,
		Status:             StatusSent,
		SentAt:             now,
		UpdatedAt:          now,
	}
	if storedEvent != nil {
		q.Version = storedEvent.Version
	}

	return q, nil
}

// UpdateStatus sets the quote's status and, when supplied, the supplier's
// response text.
func (s *Service) UpdateStatus(ctx context.Context, quoteID string, status Status, supplierResponse string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	q, err := s.loadQuote(ctx, quoteID)
	if err != nil {
		return err
	}

	event := QuoteStatusUpdated{
		QuoteID:          quoteID,
		Status:           status,
		SupplierResponse: supplierResponse,
		UpdatedAt:        time.Now(),
	}

	storedEvent, err := s.eventStore.Append(ctx, quoteID, AggregateType, EventQuoteStatusUpdated, event)
	if err != nil {
		return err
	}

	q.Status = status
	if storedEvent != nil {
		q.Version = storedEvent.Version
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, q, AggregateType); err != nil {
		log.Printf("[Quote] Failed to create snapshot for quote %s: %v", q.ID, err)
	}

	return nil
}
