package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"

	"github.com/example/container-market/internal/domain/booking"
	"github.com/example/container-market/internal/domain/cart"
	"github.com/example/container-market/internal/domain/listing"
	"github.com/example/container-market/internal/domain/quote"
	"github.com/example/container-market/internal/domain/shipping"
	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/example/container-market/internal/readmodel"
)

type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event store.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	log.Printf("[Projector] Received event: %s (aggregate: %s)", event.EventType, event.AggregateType)

	switch event.AggregateType {
	case listing.AggregateType:
		return p.handleListingEvent(event)
	case cart.AggregateType:
		return p.handleCartEvent(event)
	case quote.AggregateType:
		return p.handleQuoteEvent(event)
	case shipping.AggregateType:
		return p.handleShippingEvent(event)
	case booking.AggregateType:
		return p.handleBookingEvent(event)
	}

	return nil
}

func (p *Projector) handleListingEvent(event store.Event) error {
	switch event.EventType {
	case listing.EventListingPublished:
		var e listing.ListingPublished
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("listings", e.ListingID, &readmodel.ListingReadModel{
			ID:                e.ListingID,
			SupplierID:        e.SupplierID,
			SupplierName:      e.SupplierName,
			Title:             e.Title,
			Description:       e.Description,
			ImageURL:          e.ImageURL,
			ContainerType:     e.ContainerType,
			PricePerContainer: e.PricePerContainer,
			Currency:          e.Currency,
			Incoterm:          e.Incoterm,
			AvailableUnits:    e.AvailableUnits,
			OriginPort:        e.OriginPort,
			CreatedAt:         e.PublishedAt,
			UpdatedAt:         e.PublishedAt,
		})

	case listing.EventListingUpdated:
		var e listing.ListingUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("listings", e.ListingID, func(current any) any {
			l := current.(*readmodel.ListingReadModel)
			l.Title = e.Title
			l.Description = e.Description
			l.ImageURL = e.ImageURL
			l.PricePerContainer = e.PricePerContainer
			l.AvailableUnits = e.AvailableUnits
			l.UpdatedAt = e.UpdatedAt
			return l
		})

	case listing.EventListingWithdrawn:
		var e listing.ListingWithdrawn
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		// Withdrawn listings stay visible to carts that reference them.
		p.readStore.Update("listings", e.ListingID, func(current any) any {
			l := current.(*readmodel.ListingReadModel)
			l.IsWithdrawn = true
			l.UpdatedAt = e.WithdrawnAt
			return l
		})
	}

	return nil
}

func toCartItemModel(item cart.Item) readmodel.CartItemReadModel {
	return readmodel.CartItemReadModel{
		ID:                item.ID,
		ProductID:         item.ProductID,
		Title:             item.Title,
		ImageURL:          item.ImageURL,
		SupplierID:        item.SupplierID,
		SupplierName:      item.SupplierName,
		ContainerType:     item.ContainerType,
		Quantity:          item.Quantity,
		PricePerContainer: item.PricePerContainer,
		Currency:          item.Currency,
		Incoterm:          item.Incoterm,
		CustomPrice:       item.CustomPrice,
		Notes:             item.Notes,
		AddedAt:           item.AddedAt,
	}
}

func recalcCartTotals(c *readmodel.CartReadModel) {
	containers, amount := 0, 0
	for _, item := range c.Items {
		unit := item.PricePerContainer
		if item.CustomPrice != nil {
			unit = *item.CustomPrice
		}
		containers += item.Quantity
		amount += unit * item.Quantity
	}
	c.TotalContainers = containers
	c.TotalAmount = amount
}

func (p *Projector) handleCartEvent(event store.Event) error {
	switch event.EventType {
	case cart.EventItemAdded:
		var e cart.CartItemAdded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		updated := p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			// Same merge rule as the aggregate: one line per
			// (product, supplier) pair, quantities summed.
			for i, existing := range c.Items {
				if existing.ProductID == e.Item.ProductID && existing.SupplierID == e.Item.SupplierID {
					c.Items[i].Quantity += e.Item.Quantity
					c.Items[i].AddedAt = e.AddedAt
					recalcCartTotals(c)
					c.UpdatedAt = e.AddedAt
					return c
				}
			}
			c.Items = append(c.Items, toCartItemModel(e.Item))
			recalcCartTotals(c)
			c.UpdatedAt = e.AddedAt
			return c
		})
		if !updated {
			c := &readmodel.CartReadModel{
				ID:        e.CartID,
				BuyerID:   e.BuyerID,
				Items:     []readmodel.CartItemReadModel{toCartItemModel(e.Item)},
				UpdatedAt: e.AddedAt,
			}
			recalcCartTotals(c)
			p.readStore.Set("carts", e.CartID, c)
		}

	case cart.EventItemRemoved:
		var e cart.CartItemRemoved
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i, item := range c.Items {
				if item.ID == e.ItemID {
					c.Items = append(c.Items[:i], c.Items[i+1:]...)
					break
				}
			}
			recalcCartTotals(c)
			c.UpdatedAt = e.RemovedAt
			return c
		})

	case cart.EventItemQuantityUpdated:
		var e cart.CartItemQuantityUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Items {
				if c.Items[i].ID == e.ItemID {
					c.Items[i].Quantity = e.Quantity
					break
				}
			}
			recalcCartTotals(c)
			c.UpdatedAt = e.UpdatedAt
			return c
		})

	case cart.EventItemCustomPriceSet:
		var e cart.CartItemCustomPriceSet
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("carts", e.CartID, func(current any) any {
			c := current.(*readmodel.CartReadModel)
			for i := range c.Items {
				if c.Items[i].ID == e.ItemID {
					price := e.CustomPrice
					c.Items[i].CustomPrice = &price
					break
				}
			}
			recalcCartTotals(c)
			c.UpdatedAt = e.UpdatedAt
			return c
		})

	case cart.EventCartCleared:
		var e cart.CartCleared
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("carts", e.CartID, &readmodel.CartReadModel{
			ID:        e.CartID,
			BuyerID:   e.BuyerID,
			Items:     []readmodel.CartItemReadModel{},
			UpdatedAt: e.ClearedAt,
		})
	}

	return nil
}

func (p *Projector) handleQuoteEvent(event store.Event) error {
	switch event.EventType {
	case quote.EventQuoteSubmitted:
		var e quote.QuoteSubmitted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		items := make([]readmodel.CartItemReadModel, 0, len(e.Items))
		containers := 0
		for _, item := range e.Items {
			items = append(items, toCartItemModel(item))
			containers += item.Quantity
		}
		p.readStore.Set("quotes", e.QuoteID, &readmodel.QuoteReadModel{
			ID:                 e.QuoteID,
			BuyerID:            e.BuyerID,
			Items:              items,
			TotalContainers:    containers,
			TotalAmount:        e.TotalAmount,
			PaymentConditions:  e.PaymentConditions,
			FreightEstimate:    e.FreightEstimate,
			PlatformCommission: e.PlatformCommission,
			Notes:              e.Notes,
			Status:             string(quote.StatusSent),
			SentAt:             e.SentAt,
			UpdatedAt:          e.SentAt,
		})

	case quote.EventQuoteStatusUpdated:
		var e quote.QuoteStatusUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("quotes", e.QuoteID, func(current any) any {
			q := current.(*readmodel.QuoteReadModel)
			q.Status = string(e.Status)
			if e.SupplierResponse != "" {
				q.SupplierResponse = e.SupplierResponse
			}
			q.UpdatedAt = e.UpdatedAt
			return q
		})
	}

	return nil
}

func toTransportOptionModel(opt shipping.TransportOption) readmodel.TransportOptionReadModel {
	return readmodel.TransportOptionReadModel{
		ID:              opt.ID,
		RequestID:       opt.RequestID,
		OperatorID:      opt.OperatorID,
		OperatorName:    opt.OperatorName,
		Incoterm:        opt.Incoterm,
		Cost:            opt.Cost,
		Currency:        opt.Currency,
		TransitDays:     opt.TransitDays,
		Insurance:       opt.Conditions.Insurance,
		Customs:         opt.Conditions.Customs,
		Documentation:   opt.Conditions.Documentation,
		SpecialHandling: opt.Conditions.SpecialHandling,
		Availability:    opt.Availability,
		ValidUntil:      opt.ValidUntil,
		Rating:          opt.Rating,
		Verified:        opt.Verified,
	}
}

func (p *Projector) handleShippingEvent(event store.Event) error {
	switch event.EventType {
	case shipping.EventRequestCreated:
		var e shipping.ShippingRequestCreated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("shipping_requests", e.RequestID, &readmodel.ShippingRequestReadModel{
			ID:              e.RequestID,
			QuoteID:         e.QuoteID,
			ContainerType:   e.ContainerType,
			OriginPort:      e.OriginPort,
			DestinationPort: e.DestinationPort,
			EstimatedDate:   e.EstimatedDate,
			Status:          string(shipping.StatusPending),
			CreatedAt:       e.CreatedAt,
			UpdatedAt:       e.CreatedAt,
		})

	case shipping.EventOptionsQuoted:
		var e shipping.TransportOptionsQuoted
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		options := make([]readmodel.TransportOptionReadModel, 0, len(e.Options))
		for _, opt := range e.Options {
			options = append(options, toTransportOptionModel(opt))
		}
		// Whole-set replacement, keyed by request.
		p.readStore.Set("transport_options", e.RequestID, &readmodel.TransportOptionSetReadModel{
			RequestID: e.RequestID,
			Options:   options,
			QuotedAt:  e.QuotedAt,
		})
		p.readStore.Update("shipping_requests", e.RequestID, func(current any) any {
			r := current.(*readmodel.ShippingRequestReadModel)
			if r.Status == string(shipping.StatusPending) {
				r.Status = string(shipping.StatusQuoted)
			}
			r.SelectedOptionID = ""
			r.UpdatedAt = e.QuotedAt
			return r
		})

	case shipping.EventOptionSelected:
		var e shipping.TransportOptionSelected
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("shipping_requests", e.RequestID, func(current any) any {
			r := current.(*readmodel.ShippingRequestReadModel)
			r.SelectedOptionID = e.OptionID
			if r.Status != string(shipping.StatusConfirmed) {
				r.Status = string(shipping.StatusBooked)
			}
			r.UpdatedAt = e.SelectedAt
			return r
		})

	case shipping.EventRequestAdvanced:
		var e shipping.ShippingRequestAdvanced
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("shipping_requests", e.RequestID, func(current any) any {
			r := current.(*readmodel.ShippingRequestReadModel)
			r.Status = string(e.Status)
			r.UpdatedAt = e.AdvancedAt
			return r
		})
	}

	return nil
}

func (p *Projector) handleBookingEvent(event store.Event) error {
	switch event.EventType {
	case booking.EventBookingConfirmed:
		var e booking.BookingConfirmed
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Set("bookings", e.BookingID, &readmodel.BookingReadModel{
			ID:                 e.BookingID,
			RequestID:          e.RequestID,
			SelectedOptionID:   e.SelectedOptionID,
			BookingNumber:      e.BookingNumber,
			ShippingLine:       e.ShippingLine,
			VesselName:         e.VesselName,
			CutoffDate:         e.CutoffDate,
			ETD:                e.ETD,
			ETA:                e.ETA,
			TotalCost:          e.TotalCost,
			PlatformCommission: e.PlatformCommission,
			Status:             string(booking.StatusConfirmed),
			ProgressPercent:    booking.Progress(booking.StatusConfirmed),
			CreatedAt:          e.ConfirmedAt,
			UpdatedAt:          e.ConfirmedAt,
		})

	case booking.EventDocumentsGenerated:
		var e booking.CustomsDocumentsGenerated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		docs := make([]readmodel.DocumentReadModel, 0, len(e.Documents))
		for _, doc := range e.Documents {
			docs = append(docs, readmodel.DocumentReadModel{
				ID:          doc.ID,
				BookingID:   doc.BookingID,
				Type:        string(doc.Type),
				Title:       doc.Title,
				Description: doc.Description,
				Status:      string(doc.Status),
				GeneratedAt: doc.GeneratedAt,
			})
		}
		p.readStore.Set("documents", e.BookingID, &readmodel.DocumentBatchReadModel{
			BookingID:   e.BookingID,
			Documents:   docs,
			GeneratedAt: e.GeneratedAt,
		})

	case booking.EventStatusUpdated:
		var e booking.BookingStatusUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("bookings", e.BookingID, func(current any) any {
			b := current.(*readmodel.BookingReadModel)
			b.Status = string(e.Status)
			b.ProgressPercent = booking.Progress(e.Status)
			b.UpdatedAt = e.UpdatedAt
			return b
		})
		if e.Tracking != nil {
			p.appendTrackingEvent(event.ID, e)
		}
		p.notifyStatusChange(event.ID, e)

	case booking.EventDocumentDownloaded:
		var e booking.CustomsDocumentDownloaded
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		p.readStore.Update("documents", e.BookingID, func(current any) any {
			batch := current.(*readmodel.DocumentBatchReadModel)
			for i := range batch.Documents {
				if batch.Documents[i].ID == e.DocumentID {
					batch.Documents[i].Status = string(booking.DocStatusDownloaded)
					break
				}
			}
			return batch
		})

	case booking.EventIncidentReported:
		var e booking.IncidentReported
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		inc := e.Incident
		p.readStore.Set("incidents", inc.ID, &readmodel.IncidentReadModel{
			ID:          inc.ID,
			BookingID:   inc.BookingID,
			Type:        string(inc.Type),
			Title:       inc.Title,
			Description: inc.Description,
			Severity:    string(inc.Severity),
			Status:      string(inc.Status),
			ReportedBy:  inc.ReportedBy,
			ReportedAt:  inc.ReportedAt,
			Attachments: inc.Attachments,
		})
		p.readStore.Update("bookings", e.BookingID, func(current any) any {
			b := current.(*readmodel.BookingReadModel)
			b.OpenIncidents++
			return b
		})

	case booking.EventIncidentUpdated:
		var e booking.IncidentUpdated
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		closed := false
		p.readStore.Update("incidents", e.IncidentID, func(current any) any {
			inc := current.(*readmodel.IncidentReadModel)
			wasOpen := inc.Status == string(booking.IncidentOpen) || inc.Status == string(booking.IncidentInvestigating)
			if e.Status != nil {
				inc.Status = string(*e.Status)
				if wasOpen && (*e.Status == booking.IncidentResolved || *e.Status == booking.IncidentClosed) {
					t := e.UpdatedAt
					inc.ResolvedAt = &t
					closed = true
				}
			}
			if e.AssignedTo != nil {
				inc.AssignedTo = *e.AssignedTo
			}
			if e.Resolution != nil {
				inc.Resolution = *e.Resolution
			}
			return inc
		})
		if closed {
			p.readStore.Update("bookings", e.BookingID, func(current any) any {
				b := current.(*readmodel.BookingReadModel)
				if b.OpenIncidents > 0 {
					b.OpenIncidents--
				}
				return b
			})
		}
	}

	return nil
}

// appendTrackingEvent adds one entry to the booking's append-only history.
// The entry ID is derived from the event ID so replays stay idempotent.
func (p *Projector) appendTrackingEvent(eventID string, e booking.BookingStatusUpdated) {
	entry := readmodel.TrackingEventReadModel{
		ID:          uuid.NewSHA1(uuid.NameSpaceOID, []byte(eventID)).String(),
		BookingID:   e.BookingID,
		Status:      string(e.Tracking.Status),
		Timestamp:   e.UpdatedAt,
		Location:    e.Tracking.Location,
		Description: e.Tracking.Description,
		Percentage:  e.Tracking.Percentage,
		Documents:   e.Tracking.Documents,
	}

	updated := p.readStore.Update("tracking", e.BookingID, func(current any) any {
		h := current.(*readmodel.TrackingHistoryReadModel)
		for _, existing := range h.Events {
			if existing.ID == entry.ID {
				return h
			}
		}
		h.Events = append(h.Events, entry)
		h.UpdatedAt = e.UpdatedAt
		return h
	})
	if !updated {
		p.readStore.Set("tracking", e.BookingID, &readmodel.TrackingHistoryReadModel{
			BookingID: e.BookingID,
			Events:    []readmodel.TrackingEventReadModel{entry},
			UpdatedAt: e.UpdatedAt,
		})
	}
}

var statusNotificationTitles = map[booking.Status]string{
	booking.StatusInProduction: "Production started",
	booking.StatusReadyToShip:  "Cargo ready to ship",
	booking.StatusInTransit:    "Shipment in transit",
	booking.StatusArrived:      "Shipment arrived at destination port",
	booking.StatusDelivered:    "Shipment delivered",
	booking.StatusCompleted:    "Booking completed",
}

func (p *Projector) notifyStatusChange(eventID string, e booking.BookingStatusUpdated) {
	title, ok := statusNotificationTitles[e.Status]
	if !ok {
		return
	}

	message := title
	if e.Tracking != nil && e.Tracking.Description != "" {
		message = e.Tracking.Description
	}

	notificationID := "notif-" + eventID
	p.readStore.Set("notifications", notificationID, &readmodel.NotificationReadModel{
		ID:        notificationID,
		BookingID: e.BookingID,
		Type:      "booking_status",
		Title:     title,
		Message:   message,
		CreatedAt: e.UpdatedAt,
	})
}

// RebuildFromEvents replays the full event log through the projector,
// repopulating every read model collection.
func (p *Projector) RebuildFromEvents(ctx context.Context, eventStore store.EventStoreInterface) error {
	events := eventStore.GetAllEvents()
	log.Printf("[Projector] Rebuilding read models from %d events", len(events))

	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			return err
		}
		if err := p.HandleEvent(ctx, []byte(event.AggregateID), value); err != nil {
			return err
		}
	}

	return nil
}
