package listing

import (
	"context"
	"errors"
	"time"

	"github.com/example/container-market/internal/infrastructure/store"
	"github.com/google/uuid"
)

const AggregateType = "Listing"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidPrice    = errors.New("price per container must be positive")
	ErrInvalidTitle    = errors.New("title is required")
	ErrInvalidSupplier = errors.New("supplier is required")
	ErrInvalidUnits    = errors.New("available units cannot be negative")
)

// Listing is a supplier's published container-lot offer.
type Listing struct {
	ID                string    `json:"id"`
	SupplierID        string    `json:"supplier_id"`
	SupplierName      string    `json:"supplier_name"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
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

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// PublishInput carries the fields of a new listing.
type PublishInput struct {
	SupplierID        string
	SupplierName      string
	Title             string
	Description       string
	ImageURL          string
	ContainerType     string
	PricePerContainer int
	Currency          string
	Incoterm          string
	AvailableUnits    int
	OriginPort        string
}

func (s *Service) Publish(ctx context.Context, in PublishInput) (*Listing, error) {
	if in.Title == "" {
		return nil, ErrInvalidTitle
	}
	if in.SupplierID == "" {
		return nil, ErrInvalidSupplier
	}
	if in.PricePerContainer <= 0 {
		return nil, ErrInvalidPrice
	}
	if in.AvailableUnits < 0 {
		return nil, ErrInvalidUnits
	}

	listingID := uuid.New().String()
	now := time.Now()

	event := ListingPublished{
		ListingID:         listingID,
		SupplierID:        in.SupplierID,
		SupplierName:      in.SupplierName,
		Title:             in.Title,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		ContainerType:     in.ContainerType,
		PricePerContainer: in.PricePerContainer,
		Currency:          in.Currency,
		Incoterm:          in.Incoterm,
		AvailableUnits:    in.AvailableUnits,
		OriginPort:        in.OriginPort,
		PublishedAt:       now,
	}

	_, err := s.eventStore.Append(ctx, listingID, AggregateType, EventListingPublished, event)
	if err != nil {
		return nil, err
	}

	return &Listing{
		ID:                listingID,
		SupplierID:        in.SupplierID,
		SupplierName:      in.SupplierName,
		Title:             in.Title,
		Description:       in.Description,
		ImageURL:          in.ImageURL,
		ContainerType:     in.ContainerType,
		PricePerContainer: in.PricePerContainer,
		Currency:          in.Currency,
		Incoterm:          in.Incoterm,
		AvailableUnits:    in.AvailableUnits,
		OriginPort:        in.OriginPort,
		CreatedAt:         now,
	}, nil
}

func (s *Service) Update(ctx context.Context, listingID, title, description, imageURL string, pricePerContainer, availableUnits int) error {
	if title == "" {
		return ErrInvalidTitle
	}
	if pricePerContainer <= 0 {
		return ErrInvalidPrice
	}
	if availableUnits < 0 {
		return ErrInvalidUnits
	}

	events := s.eventStore.GetEvents(listingID)
	if len(events) == 0 {
		return ErrListingNotFound
	}

	event := ListingUpdated{
		ListingID:         listingID,
		Title:             title,
		Description:       description,
		ImageURL:          imageURL,
		PricePerContainer: pricePerContainer,
		AvailableUnits:    availableUnits,
		UpdatedAt:         time.Now(),
	}

	_, err := s.eventStore.Append(ctx, listingID, AggregateType, EventListingUpdated, event)
	return err
}

func (s *Service) Withdraw(ctx context.Context, listingID string) error {
	events := s.eventStore.GetEvents(listingID)
	if len(events) == 0 {
		return ErrListingNotFound
	}

	event := ListingWithdrawn{
		ListingID:   listingID,
		WithdrawnAt: time.Now(),
	}

	_, err := s.eventStore.Append(ctx, listingID, AggregateType, EventListingWithdrawn, event)
	return err
}
