package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/container-market/internal/domain/aggregate"
	"github.com/example/container-market/internal/infrastructure/store"
)

const AggregateType = "Cart"

var (
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidProduct  = errors.New("product_id and supplier_id are required")
	ErrItemNotFound    = errors.New("cart item not found")
)

// Item is one candidate order line: a quantity of containers of one product
// from one supplier at a price.
type Item struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Title             string    `json:"title"`
	ImageURL          string    `json:"image_url,omitempty"`
	SupplierID        string    `json:"supplier_id"`
	SupplierName      string    `json:"supplier_name"`
	ContainerType     string    `json:"container_type"`
	Quantity          int       `json:"quantity"`
	PricePerContainer int       `json:"price_per_container"`
	Currency          string    `json:"currency"`
	Incoterm          string    `json:"incoterm"`
	CustomPrice       *int      `json:"custom_price,omitempty"` // buyer-proposed override
	Notes             string    `json:"notes,omitempty"`
	AddedAt           time.Time `json:"added_at"`
}

// UnitPrice returns the price used for totals: the buyer's custom price when
// set, the listed price otherwise.
func (i Item) UnitPrice() int {
	if i.CustomPrice != nil {
		return *i.CustomPrice
	}
	return i.PricePerContainer
}

// Cart holds the candidate lines for one buyer. Items keep insertion order;
// at most one item exists per (product, supplier) pair.
type Cart struct {
	ID      string `json:"id"`
	BuyerID string `json:"buyer_id"`
	Items   []Item `json:"items"`
	Version int    `json:"version"`
}

func (c *Cart) GetID() string    { return c.ID }
func (c *Cart) GetVersion() int  { return c.Version }
func (c *Cart) SetVersion(v int) { c.Version = v }

// CartID returns the cart aggregate ID for a buyer (one cart per buyer)
func CartID(buyerID string) string {
	return "cart-" + buyerID
}

// TotalContainers returns the summed quantity across all lines, not the
// number of distinct lines.
func (c *Cart) TotalContainers() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalAmount returns the summed line totals using each line's unit price.
func (c *Cart) TotalAmount() int {
	total := 0
	for _, item := range c.Items {
		total += item.UnitPrice() * item.Quantity
	}
	return total
}

func (c *Cart) findItem(itemID string) int {
	for i, item := range c.Items {
		if item.ID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) findLine(productID, supplierID string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.SupplierID == supplierID {
			return i
		}
	}
	return -1
}

// ApplyEvent applies a single event to the cart state (implements aggregate.Aggregate)
func (c *Cart) ApplyEvent(event store.Event) error {
	switch event.EventType {
	case EventItemAdded:
		var data CartItemAdded
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.ID = data.CartID
		c.BuyerID = data.BuyerID
		if i := c.findLine(data.Item.ProductID, data.Item.SupplierID); i >= 0 {
			// Merge: sum quantities, refresh AddedAt, keep the existing
			// line's price and notes.
			c.Items[i].Quantity += data.Item.Quantity
			c.Items[i].AddedAt = data.AddedAt
		} else {
			c.Items = append(c.Items, data.Item)
		}
	case EventItemRemoved:
		var data CartItemRemoved
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.findItem(data.ItemID); i >= 0 {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
	case EventItemQuantityUpdated:
		var data CartItemQuantityUpdated
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.findItem(data.ItemID); i >= 0 {
			c.Items[i].Quantity = data.Quantity
		}
	case EventItemCustomPriceSet:
		var data CartItemCustomPriceSet
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		if i := c.findItem(data.ItemID); i >= 0 {
			price := data.CustomPrice
			c.Items[i].CustomPrice = &price
		}
	case EventCartCleared:
		var data CartCleared
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return err
		}
		c.Items = nil
	}
	c.Version = event.Version
	return nil
}

type Service struct {
	eventStore store.EventStoreInterface
}

func NewService(es store.EventStoreInterface) *Service {
	return &Service{eventStore: es}
}

// GetCart returns the buyer's current cart state. A buyer with no history
// gets an empty cart, not an error.
func (s *Service) GetCart(ctx context.Context, buyerID string) (*Cart, error) {
	cartID := CartID(buyerID)
	c, found, err := aggregate.Load(ctx, s.eventStore, cartID, func() *Cart { return &Cart{} })
	if err != nil {
		return nil, err
	}
	if !found {
		return &Cart{ID: cartID, BuyerID: buyerID}, nil
	}
	return c, nil
}

// AddItem appends a candidate line. item.ID and item.AddedAt are assigned
// here; adding a (product, supplier) pair already in the cart merges
// quantities into the existing line.
func (s *Service) AddItem(ctx context.Context, buyerID string, item Item) error {
	if item.ProductID == "" || item.SupplierID == "" {
		return ErrInvalidProduct
	}
	if item.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if item.PricePerContainer < 0 {
		return ErrInvalidPrice
	}

	cartID := CartID(buyerID)
	now := time.Now()
	item.ID = uuid.New().String()
	item.AddedAt = now

	event := CartItemAdded{
		CartID:  cartID,
		BuyerID: buyerID,
		Item:    item,
		AddedAt: now,
	}

	return s.append(ctx, buyerID, EventItemAdded, event)
}

// RemoveItem removes the line with the given item ID.
func (s *Service) RemoveItem(ctx context.Context, buyerID, itemID string) error {
	c, err := s.GetCart(ctx, buyerID)
	if err != nil {
		return err
	}
	if c.findItem(itemID) < 0 {
		return ErrItemNotFound
	}

	event := CartItemRemoved{
		CartID:    c.ID,
		BuyerID:   buyerID,
		ItemID:    itemID,
		RemovedAt: time.Now(),
	}

	return s.append(ctx, buyerID, EventItemRemoved, event)
}

// UpdateQuantity replaces the named line's quantity. Zero is allowed so the
// buyer can park a line without losing its notes; negative is not.
func (s *Service) UpdateQuantity(ctx context.Context, buyerID, itemID string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidQuantity
	}

	c, err := s.GetCart(ctx, buyerID)
	if err != nil {
		return err
	}
	if c.findItem(itemID) < 0 {
		return ErrItemNotFound
	}

	event := CartItemQuantityUpdated{
		CartID:    c.ID,
		BuyerID:   buyerID,
		ItemID:    itemID,
		Quantity:  quantity,
		UpdatedAt: time.Now(),
	}

	return s.append(ctx, buyerID, EventItemQuantityUpdated, event)
}

// SetCustomPrice records the buyer's proposed override of the listed price.
func (s *Service) SetCustomPrice(ctx context.Context, buyerID, itemID string, customPrice int) error {
	if customPrice < 0 {
		return ErrInvalidPrice
	}

	c, err := s.GetCart(ctx, buyerID)
	if err != nil {
		return err
	}
	if c.findItem(itemID) < 0 {
		return ErrItemNotFound
	}

	event := CartItemCustomPriceSet{
		CartID:      c.ID,
		BuyerID:     buyerID,
		ItemID:      itemID,
		CustomPrice: customPrice,
		UpdatedAt:   time.Now(),
	}

	return s.append(ctx, buyerID, EventItemCustomPriceSet, event)
}

// Clear empties the cart. Clearing an already empty cart succeeds.
func (s *Service) Clear(ctx context.Context, buyerID string) error {
	cartID := CartID(buyerID)

	event := CartCleared{
		CartID:    cartID,
		BuyerID:   buyerID,
		ClearedAt: time.Now(),
	}

	return s.append(ctx, buyerID, EventCartCleared, event)
}

func (s *Service) append(ctx context.Context, buyerID, eventType string, data any) error {
	cartID := CartID(buyerID)

	storedEvent, err := s.eventStore.Append(ctx, cartID, AggregateType, eventType, data)
	if err != nil {
		return err
	}

	if storedEvent != nil && storedEvent.Version%store.SnapshotThreshold == 0 {
		c, _, loadErr := aggregate.Load(ctx, s.eventStore, cartID, func() *Cart { return &Cart{} })
		if loadErr == nil {
			if err := aggregate.MaybeSnapshot(ctx, s.eventStore, c, AggregateType); err != nil {
				log.Printf("[Cart] Failed to create snapshot for cart %s: %v", cartID, err)
			}
		}
	}

	return nil
}
