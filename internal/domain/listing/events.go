package listing

import "time"

const (
	EventListingPublished = "ListingPublished"
	EventListingUpdated   = "ListingUpdated"
	EventListingWithdrawn = "ListingWithdrawn"
)

type ListingPublished struct {
	ListingID         string    `json:"listing_id"`
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
	PublishedAt       time.Time `json:"published_at"`
}

type ListingUpdated struct {
	ListingID         string    `json:"listing_id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	ImageURL          string    `json:"image_url"`
	PricePerContainer int       `json:"price_per_container"`
	AvailableUnits    int       `json:"available_units"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type ListingWithdrawn struct {
	ListingID   string    `json:"listing_id"`
	WithdrawnAt time.Time `json:"withdrawn_at"`
}
