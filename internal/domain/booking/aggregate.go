package booking

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

const AggregateType = "Booking"

type Status string

const (
	StatusConfirmed    Status = "confirmed"
	StatusInProduction Status = "in_production"
	StatusReadyToShip  Status = "ready_to_ship"
	StatusInTransit    Status = "in_transit"
	StatusArrived      Status = "arrived"
	StatusDelivered    Status = "delivered"
	StatusCompleted    Status = "completed"
)

// statusRank orders the booking lifecycle. Updates may stay in place or
// move forward (skipping is allowed); moving backward is rejected.
var statusRank = map[Status]int{
	StatusConfirmed:    0,
	StatusInProduction: 1,
	StatusReadyToShip:  2,
	StatusInTransit:    3,
	StatusArrived:      4,
	StatusDelivered:    5,
	StatusCompleted:    6,
}

// statusProgress maps each status to the canonical completion percentage.
var statusProgress = map[Status]int{
	StatusConfirmed:    15,
	StatusInProduction: 30,
	StatusReadyToShip:  50,
	StatusInTransit:    75,
	StatusArrived:      90,
	StatusDelivered:    95,
	StatusCompleted:    100,
}

// Progress returns the completion percentage for a booking status.
func Progress(s Status) int {
	return statusProgress[s]
}

var (
	ErrBookingNotFound     = errors.New("booking not found")
	ErrInvalidStatus       = errors.New("invalid booking status")
	ErrBackwardTransition  = errors.New("booking status cannot move backward")
	ErrDocumentNotFound    = errors.New("customs document not found")
	ErrIncidentNotFound    = errors.New("incident not found")
	ErrInvalidIncidentType = errors.New("invalid incident type")
	ErrInvalidSeverity     = errors.New("invalid incident severity")
)

func validStatus(s Status) bool {
	_, ok := statusRank[s]
	return ok
}

// DocumentType identifies one of the five customs documents generated per
// booking.
type DocumentType string

const (
	DocCommercialInvoice    DocumentType = "commercial_invoice"
	DocPackingList          DocumentType = "packing_list"
	DocCustomsData          DocumentType = "customs_data"
	DocZLCChecklist         DocumentType = "zlc_checklist"
	DocDestinationChecklist DocumentType = "destination_checklist"
)

type DocumentStatus string

const (
	DocStatusPending    DocumentStatus = "pending"
	DocStatusReady      DocumentStatus = "ready"
	DocStatusDownloaded DocumentStatus = "downloaded"
)

// CustomsDocument is a generated paperwork record. Only metadata is held
// here; file rendering happens outside the core.
type CustomsDocument struct {
	ID          string         `json:"id"`
	BookingID   string         `json:"booking_id"`
	Type        DocumentType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Status      DocumentStatus `json:"status"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// documentTemplates defines the fixed batch generated at confirmation time,
// in generation order.
var documentTemplates = []struct {
	Type        DocumentType
	Title       string
	Description string
}{
	{DocCommercialInvoice, "Commercial Invoice", "Invoice covering the full container lot value for customs declaration"},
	{DocPackingList, "Packing List", "Container-level packing detail per lot"},
	{DocCustomsData, "Customs Data Sheet", "Tariff codes and declared values for the destination authority"},
	{DocZLCChecklist, "Free Zone Exit Checklist", "Clearance checklist for leaving the free-trade zone"},
	{DocDestinationChecklist, "Destination Checklist", "Import requirements at the destination port"},
}

// TrackingDetail is the optional payload accompanying a status update.
type TrackingDetail struct {
	Status      Status   `json:"status"`
	Location    string   `json:"location,omitempty"`
	Description string   `json:"description"`
	Percentage  *int     `json:"percentage,omitempty"` // sub-progress, e.g. production completion
	Documents   []string `json:"documents,omitempty"`
}

// TrackingEvent is one append-only history entry for a booking. Events are
// never mutated or removed; several may share the same status.
type TrackingEvent struct {
	ID          string    `json:"id"`
	BookingID   string    `json:"booking_id"`
	Status      Status    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description"`
	Percentage  *int      `json:"percentage,omitempty"`
	Documents   []string  `json:"documents,omitempty"`
}

type IncidentType string

const (
	IncidentDamage        IncidentType = "damage"
	IncidentMissingItems  IncidentType = "missing_items"
	IncidentDelay         IncidentType = "delay"
	IncidentDocumentation IncidentType = "documentation"
	IncidentCustoms       IncidentType = "customs"
	IncidentOther         IncidentType = "other"
)

type IncidentSeverity string

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

type IncidentStatus string

const (
	IncidentOpen          IncidentStatus = "open"
	IncidentInvestigating IncidentStatus = "investigating"
	IncidentResolved      IncidentStatus = "resolved"
	IncidentClosed        IncidentStatus = "closed"
)

func validIncidentType(t IncidentType) bool {
	switch t {
	case IncidentDamage, IncidentMissingItems, IncidentDelay, IncidentDocumentation, IncidentCustoms, IncidentOther:
		return true
	}
	return false
}

func validSeverity(s IncidentSeverity) bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Incident is a reported problem against a booking. Incidents are updated
// in place and never deleted.
type Incident struct {
	ID          string           `json:"id"`
	BookingID   string           `json:"booking_id"`
	Type        IncidentType     `json:"type"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Severity    IncidentSeverity `json:"severity"`
	Status      IncidentStatus   `json:"status"`
	ReportedBy  string           `json:"reported_by"`
	ReportedAt  time.Time        `json:"reported_at"`
	AssignedTo  string           `json:"assigned_to,omitempty"`
	Resolution  string           `json:"resolution,omitempty"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty"`
	Attachments []string         `json:"attachments,omitempty"`
}

// Booking is the confirmed transport contract for one shipping request,
// together with its append-only side records.
type Booking struct {
	ID                 string            `json:"id"`
	RequestID          string            `json:"request_id"`
	SelectedOptionID   string            `json:"selected_option_id"`
	BookingNumber      string            `json:"booking_number"`
	ShippingLine       string            `json:"shipping_line"`
	VesselName         string            `json:"vessel_name,omitempty"`
	CutoffDate         time.Time         `json:"cutoff_date"`
	ETD                time.Time         `json:"etd"`
	ETA                time.Time         `json:"eta"`
	TotalCost          int               `json:"total_cost"`
	PlatformCommission int               `json:"platform_commission"`
	Status             Status            `json:"status"`
	Documents          []CustomsDocument `json:"documents"`
	Tracking           []TrackingEvent   `json:"tracking"`
	Incidents          []Incident        `json:"incidents"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
	Version            int               `json:"version"`
}

func (b *Booking) GetID() string    { return b.ID }
func (b *Booking) GetVersion() int  { return b.Version }
func (b *Booking) SetVersion(v int) { b.Version = v }

// CanTransitionTo reports whether the booking may take the target status:
// the same status again (repeated progress updates) or any later one.
func (b *Booking) CanTransitionTo(target Status) bool {
	return statusRank[target] >= statusRank[b.Status]
}

func (b *Booking) findIncident(incidentID string) int {
	for i, inc := range b.Incidents {
		if inc.ID == incidentID {
			return i
		}
	}
	return -1
}

func (b *Booking) findDocument(documentID string) int {
	for i, doc := range b.Documents {
		if doc.ID == documentID {
			return i
		}
	}
	return -1
}

// ApplyEvent applies a single event to the booking state (implements aggregate.Aggregate)
func (b *Booking) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventBookingConfirmed:
		var data BookingConfirmed
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.ID = data.BookingID
		b.RequestID = data.RequestID
		b.SelectedOptionID = data.SelectedOptionID
		b.BookingNumber = data.BookingNumber
		b.ShippingLine = data.ShippingLine
		b.VesselName = data.VesselName
		b.CutoffDate = data.CutoffDate
		b.ETD = data.ETD
		b.ETA = data.ETA
		b.TotalCost = data.TotalCost
		b.PlatformCommission = data.PlatformCommission
		b.Status = StatusConfirmed
		b.CreatedAt = data.ConfirmedAt
		b.UpdatedAt = data.ConfirmedAt
	case EventDocumentsGenerated:
		var data CustomsDocumentsGenerated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.Documents = data.Documents
	case EventStatusUpdated:
		var data BookingStatusUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.Status = data.Status
		b.UpdatedAt = data.UpdatedAt
		if data.Tracking != nil {
			b.Tracking = append(b.Tracking, TrackingEvent{
				ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(event.ID)).String(),
				BookingID:   data.BookingID,
				Status:      data.Tracking.Status,
				Timestamp:   data.UpdatedAt,
				Location:    data.Tracking.Location,
				Description: data.Tracking.Description,
				Percentage:  data.Tracking.Percentage,
				Documents:   data.Tracking.Documents,
			})
		}
	case EventDocumentDownloaded:
		var data CustomsDocumentDownloaded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := b.findDocument(data.DocumentID); i >= 0 {
			b.Documents[i].Status = DocStatusDownloaded
		}
	case EventIncidentReported:
		var data IncidentReported
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		b.Incidents = append(b.Incidents, data.Incident)
	case EventIncidentUpdated:
		var data IncidentUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := b.findIncident(data.IncidentID); i >= 0 {
			inc := &b.Incidents[i]
			if data.Status != nil {
				inc.Status = *data.Status
				if *data.Status == IncidentResolved || *data.Status == IncidentClosed {
					t := data.UpdatedAt
					inc.ResolvedAt = &t
				}
			}
			if data.AssignedTo != nil {
				inc.AssignedTo = *data.AssignedTo
			}
			if data.Resolution != nil {
				inc.Resolution = *data.Resolution
			}
		}
	}
	b.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

func (s *Service) loadBooking(ctx context.Context, bookingID string) (*Booking, error) {
	b, found, err := aggregate.Load(ctx, s.eventStore, bookingID, func() *Booking { return &Booking{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// GetBooking returns the current state of a booking.
func (s *Service) GetBooking(ctx context.Context, bookingID string) (*Booking, error) {
	return s.loadBooking(ctx, bookingID)
}

// ConfirmInput carries the fields supplied when a selected transport option
// is confirmed into a booking.
type ConfirmInput struct {
	RequestID          string
	SelectedOptionID   string
	BookingNumber      string
	ShippingLine       string
	VesselName         string
	CutoffDate         time.Time
	ETD                time.Time
	ETA                time.Time
	TotalCost          int
	PlatformCommission int
}

// Confirm creates the booking and generates its customs documents in the
// same command. Both events are appended before the booking is returned, so
// no caller ever observes a booking without its five documents.
func (s *Service) Confirm(ctx context.Context, in ConfirmInput) (*Booking, error) {
	bookingID := uuid.New().String()
	now := time.Now()

	confirmed := BookingConfirmed{
		BookingID:          bookingID,
		RequestID:          in.RequestID,
		SelectedOptionID:   in.SelectedOptionID,
		BookingNumber:      in.BookingNumber,
		ShippingLine:       in.ShippingLine,
		VesselName:         in.VesselName,
		CutoffDate:         in.CutoffDate,
		ETD:                in.ETD,
		ETA:                in.ETA,
		TotalCost:          in.TotalCost,
		PlatformCommission: in.PlatformCommission,
		ConfirmedAt:        now,
	}

	if _, err := s.eventStore.Append(ctx, bookingID, AggregateType, EventBookingConfirmed, confirmed); err != nil {
		return nil, err
	}

	docs := newDocumentBatch(bookingID, now)
	generated := CustomsDocumentsGenerated{
		BookingID:   bookingID,
		Documents:   docs,
		GeneratedAt: now,
	}

	storedEvent, err := s.eventStore.Append(ctx, bookingID, AggregateType, EventDocumentsGenerated, generated)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:                 bookingID,
		RequestID:          in.RequestID,
		SelectedOptionID:   in.SelectedOptionID,
		BookingNumber:      in.BookingNumber,
		ShippingLine:       in.ShippingLine,
		VesselName:         in.VesselName,
		CutoffDate:         in.CutoffDate,
		ETD:                in.ETD,
		ETA:                in.ETA,
		TotalCost:          in.TotalCost,
		PlatformCommission: in.PlatformCommission,
		Status:             StatusConfirmed,
		Documents:          docs,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if storedEvent != nil {
		b.Version = storedEvent.Version
	}

	return b, nil
}

func newDocumentBatch(bookingID string, generatedAt time.Time) []CustomsDocument {
	docs := make([]CustomsDocument, 0, len(documentTemplates))
	for _, tmpl := range documentTemplates {
		docs = append(docs, CustomsDocument{
			ID:          uuid.New().String(),
			BookingID:   bookingID,
			Type:        tmpl.Type,
			Title:       tmpl.Title,
			Description: tmpl.Description,
			Status:      DocStatusReady,
			GeneratedAt: generatedAt,
		})
	}
	return docs
}

// GenerateDocuments is idempotent per booking: if the batch already exists
// it is returned as-is, never regenerated.
func (s *Service) GenerateDocuments(ctx context.Context, bookingID string) ([]CustomsDocument, error) {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if len(b.Documents) > 0 {
		return b.Documents, nil
	}

	now := time.Now()
	docs := newDocumentBatch(bookingID, now)
	event := CustomsDocumentsGenerated{
		BookingID:   bookingID,
		Documents:   docs,
		GeneratedAt: now,
	}

	b.Documents = docs
	if err := s.append(ctx, b, EventDocumentsGenerated, event); err != nil {
		return nil, err
	}
	return docs, nil
}

// UpdateStatus advances the booking lifecycle. The status may repeat or move
// forward but never backward; a tracking event is appended to the history
// only when tracking detail is supplied.
func (s *Service) UpdateStatus(ctx context.Context, bookingID string, status Status, tracking *TrackingDetail) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if !b.CanTransitionTo(status) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrBackwardTransition, b.Status, status)
	}

	event := BookingStatusUpdated{
		BookingID: bookingID,
		Status:    status,
		Tracking:  tracking,
		UpdatedAt: time.Now(),
	}

	b.Status = status
	return s.append(ctx, b, EventStatusUpdated, event)
}

// MarkDocumentDownloaded advances one customs document to downloaded.
func (s *Service) MarkDocumentDownloaded(ctx context.Context, bookingID, documentID string) error {
	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.findDocument(documentID) < 0 {
		return ErrDocumentNotFound
	}

	event := CustomsDocumentDownloaded{
		BookingID:    bookingID,
		DocumentID:   documentID,
		DownloadedAt: time.Now(),
	}

	return s.append(ctx, b, EventDocumentDownloaded, event)
}

// IncidentInput carries the fields supplied when reporting an incident.
type IncidentInput struct {
	Type        IncidentType
	Title       string
	Description string
	Severity    IncidentSeverity
	ReportedBy  string
	Attachments []string
}

// ReportIncident records a new problem against the booking, initially open.
func (s *Service) ReportIncident(ctx context.Context, bookingID string, in IncidentInput) (*Incident, error) {
	if !validIncidentType(in.Type) {
		return nil, ErrInvalidIncidentType
	}
	if !validSeverity(in.Severity) {
		return nil, ErrInvalidSeverity
	}

	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	incident := Incident{
		ID:          uuid.New().String(),
		BookingID:   bookingID,
		Type:        in.Type,
		Title:       in.Title,
		Description: in.Description,
		Severity:    in.Severity,
		Status:      IncidentOpen,
		ReportedBy:  in.ReportedBy,
		ReportedAt:  now,
		Attachments: in.Attachments,
	}

	event := IncidentReported{
		BookingID:  bookingID,
		Incident:   incident,
		ReportedAt: now,
	}

	b.Incidents = append(b.Incidents, incident)
	if err := s.append(ctx, b, EventIncidentReported, event); err != nil {
		return nil, err
	}
	return &incident, nil
}

// IncidentUpdate carries the partial fields of an incident update; nil
// fields are left unchanged.
type IncidentUpdate struct {
	Status     *IncidentStatus
	AssignedTo *string
	Resolution *string
}

// UpdateIncident merges the supplied fields into the named incident.
func (s *Service) UpdateIncident(ctx context.Context, bookingID, incidentID string, update IncidentUpdate) error {
	if update.Status != nil {
		switch *update.Status {
		case IncidentOpen, IncidentInvestigating, IncidentResolved, IncidentClosed:
		default:
			return ErrInvalidStatus
		}
	}

	b, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.findIncident(incidentID) < 0 {
		return ErrIncidentNotFound
	}

	event := IncidentUpdated{
		BookingID:  bookingID,
		IncidentID: incidentID,
		Status:     update.Status,
		AssignedTo: update.AssignedTo,
		Resolution: update.Resolution,
		UpdatedAt:  time.Now(),
	}

	return s.append(ctx, b, EventIncidentUpdated, event)
}

func (s *Service) append(ctx context.Context, b *Booking, eventType string, data any) error {
	storedEvent, err := s.eventStore.Append(ctx, b.ID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if storedEvent != nil {
		b.Version = storedEvent.Version
	}

	// Reload before snapshotting so the snapshot captures fields the
	// stored event derives (tracking entries, resolved timestamps).
	if b.Version > 0 && b.Version%store.SnapshotThreshold == 0 {
		fresh, err := s.loadBooking(ctx, b.ID)
		if err != nil {
			log.Printf("[Booking] Failed to reload booking %s for snapshot: %v", b.ID, err)
			return nil
		}
		if err := aggregate.MaybeSnapshot(ctx, s.eventStore, fresh, AggregateType); err != nil {
			log.Printf("[Booking] Failed to create snapshot for booking %s: %v", b.ID, err)
		}
	}

	return nil
}
