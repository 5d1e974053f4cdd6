package shipping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/container-market/internal/domain/aggregate"
	"github.com/example/container-market/internal/infrastructure/store"
)

const AggregateType = "ShippingRequest"

type Status string

const (
	StatusPending   Status = "pending"
	StatusQuoted    Status = "quoted"
	StatusBooked    Status = "booked"
	StatusConfirmed Status = "confirmed"
)

// statusRank orders the request lifecycle; a request never moves backward.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusQuoted:    1,
	StatusBooked:    2,
	StatusConfirmed: 3,
}

var (
	ErrRequestNotFound   = errors.New("shipping request not found")
	ErrInvalidRoute      = errors.New("origin and destination ports are required")
	ErrNoOptions         = errors.New("no transport options quoted for request")
	ErrOptionNotFound    = errors.New("transport option not found")
	ErrInvalidTransition = errors.New("shipping request cannot move backward")
)

// OptionConditions captures what a carrier's offer includes.
type OptionConditions struct {
	Insurance       bool     `json:"insurance"`
	Customs         bool     `json:"customs"`
	Documentation   bool     `json:"documentation"`
	SpecialHandling []string `json:"special_handling,omitempty"`
}

// TransportOption is one carrier's quoted offer against a shipping request.
// Options are immutable once quoted; selection is tracked on the request.
type TransportOption struct {
	ID           string           `json:"id"`
	RequestID    string           `json:"request_id"`
	OperatorID   string           `json:"operator_id"`
	OperatorName string           `json:"operator_name"`
	Incoterm     string           `json:"incoterm"`
	Cost         int              `json:"cost"`
	Currency     string           `json:"currency"`
	TransitDays  int              `json:"transit_days"`
	Conditions   OptionConditions `json:"conditions"`
	Availability time.Time        `json:"availability"`
	ValidUntil   time.Time        `json:"valid_until"`
	Rating       float64          `json:"rating"`
	Verified     bool             `json:"verified"`
}

// Request tracks one shipment quote from creation through booking
// confirmation.
type Request struct {
	ID               string            `json:"id"`
	QuoteID          string            `json:"quote_id"`
	ContainerType    string            `json:"container_type"`
	OriginPort       string            `json:"origin_port"`
	DestinationPort  string            `json:"destination_port"`
	EstimatedDate    time.Time         `json:"estimated_date"`
	Status           Status            `json:"status"`
	Options          []TransportOption `json:"options"`
	SelectedOptionID string            `json:"selected_option_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	Version          int               `json:"version"`
}

func (r *Request) GetID() string    { return r.ID }
func (r *Request) GetVersion() int  { return r.Version }
func (r *Request) SetVersion(v int) { r.Version = v }

// SelectedOption returns the currently selected option, if any.
func (r *Request) SelectedOption() (TransportOption, bool) {
	for _, opt := range r.Options {
		if opt.ID == r.SelectedOptionID {
			return opt, true
		}
	}
	return TransportOption{}, false
}

func (r *Request) canAdvanceTo(target Status) bool {
	return statusRank[target] > statusRank[r.Status]
}

// ApplyEvent applies a single event to the request state (implements aggregate.Aggregate)
func (r *Request) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventRequestCreated:
		var data ShippingRequestCreated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		r.ID = data.RequestID
		r.QuoteID = data.QuoteID
		r.ContainerType = data.ContainerType
		r.OriginPort = data.OriginPort
		r.DestinationPort = data.DestinationPort
		r.EstimatedDate = data.EstimatedDate
		r.Status = StatusPending
		r.CreatedAt = data.CreatedAt
	case EventOptionsQuoted:
		var data TransportOptionsQuoted
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		// Replacement set: previous options and selection are discarded.
		r.Options = data.Options
		r.SelectedOptionID = ""
		if r.canAdvanceTo(StatusQuoted) {
			r.Status = StatusQuoted
		}
	case EventOptionSelected:
		var data TransportOptionSelected
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		r.SelectedOptionID = data.OptionID
		if r.canAdvanceTo(StatusBooked) {
			r.Status = StatusBooked
		}
	case EventRequestAdvanced:
		var data ShippingRequestAdvanced
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		r.Status = data.Status
	}
	r.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadRequest(ctx context.Context, requestID string) (*Request, error) {
	r, found, err := aggregate.Load(ctx, s.eventStore, requestID, func() *Request { return &Request{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRequestNotFound
	}
	return r, nil
}

// GetRequest returns the current state of a shipping request.
func (s *Service) GetRequest(ctx context.Context, requestID string) (*Request, error) {
	return s.loadRequest(ctx, requestID)
}

// CreateRequest opens a shipping request for one confirmed quote.
func (s *Service) CreateRequest(ctx context.Context, quoteID, containerType, originPort, destinationPort string, estimatedDate time.Time) (*Request, error) {
	if originPort == "" || destinationPort == "" {
		return nil, ErrInvalidRoute
	}

	requestID := uuid.New().String()
	now := time.Now()

	event := ShippingRequestCreated{
		RequestID:       requestID,
		QuoteID:         quoteID,
		ContainerType:   containerType,
		OriginPort:      originPort,
		DestinationPort: destinationPort,
		EstimatedDate:   estimatedDate,
		CreatedAt:       now,
	}

	storedEvent, err := s.eventStore.Append(ctx, requestID, AggregateType, EventRequestCreated, event)
	if err != nil {
		return nil, err
	}

	r := &Request{
		ID:              requestID,
		QuoteID:         quoteID,
		ContainerType:   containerType,
		OriginPort:      originPort,
		DestinationPort: destinationPort,
		EstimatedDate:   estimatedDate,
		Status:          StatusPending,
		CreatedAt:       now,
	}
	if storedEvent != nil {
		r.Version = storedEvent.Version
	}

	return r, nil
}

// RecordOptions replaces the request's option set with freshly quoted
// offers and advances the request to quoted. The option IDs and request
// binding are assigned here.
func (s *Service) RecordOptions(ctx context.Context, requestID string, options []TransportOption) ([]TransportOption, error) {
	r, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if r.Status == StatusConfirmed {
		return nil, fmt.Errorf("%w: request %s is already confirmed", ErrInvalidTransition, requestID)
	}
	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	quoted := make([]TransportOption, len(options))
	copy(quoted, options)
	for i := range quoted {
		quoted[i].ID = uuid.New().String()
		quoted[i].RequestID = requestID
	}

	event := TransportOptionsQuoted{
		RequestID: requestID,
		Options:   quoted,
		QuotedAt:  time.Now(),
	}

	// Mirror the event on the loaded state for the snapshot check
	r.Options = quoted
	r.SelectedOptionID = ""
	if r.canAdvanceTo(StatusQuoted) {
		r.Status = StatusQuoted
	}

	if err := s.append(ctx, r, EventOptionsQuoted, event); err != nil {
		return nil, err
	}
	return quoted, nil
}

// SelectOption records the buyer's choice among the quoted options. The
// option record itself is never mutated.
func (s *Service) SelectOption(ctx context.Context, requestID, optionID string) error {
	r, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if len(r.Options) == 0 {
		return ErrNoOptions
	}

	found := false
	for _, opt := range r.Options {
		if opt.ID == optionID {
			found = true
			break
		}
	}
	if !found {
		return ErrOptionNotFound
	}

	event := TransportOptionSelected{
		RequestID:  requestID,
		OptionID:   optionID,
		SelectedAt: time.Now(),
	}

	r.SelectedOptionID = optionID
	if r.canAdvanceTo(StatusBooked) {
		r.Status = StatusBooked
	}

	return s.append(ctx, r, EventOptionSelected, event)
}

// Confirm moves the request to its final status once a booking exists for
// the selected option.
func (s *Service) Confirm(ctx context.Context, requestID string) error {
	r, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if !r.canAdvanceTo(StatusConfirmed) {
		return fmt.Errorf("%w: request %s is already %s", ErrInvalidTransition, requestID, r.Status)
	}

	event := ShippingRequestAdvanced{
		RequestID:  requestID,
		Status:     StatusConfirmed,
		AdvancedAt: time.Now(),
	}

	r.Status = StatusConfirmed

	return s.append(ctx, r, EventRequestAdvanced, event)
}

func (s *Service) append(ctx context.Context, r *Request, eventType string, data any) error {
	storedEvent, err := s.eventStore.Append(ctx, r.ID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if storedEvent != nil {
		r.Version = storedEvent.Version
	}

	if err := aggregate.MaybeSnapshot(ctx, s.eventStore, r, AggregateType); err != nil {
		log.Printf("[Shipping] Failed to create snapshot for request %s: %v", r.ID, err)
	}

	return nil
}
