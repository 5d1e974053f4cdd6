package cart

import "time"

const (
	EventItemAdded           = "CartItemAdded"
	EventItemRemoved         = "CartItemRemoved"
	EventItemQuantityUpdated = "CartItemQuantityUpdated"
	EventItemCustomPriceSet  = "CartItemCustomPriceSet"
	EventCartCleared         = "CartCleared"
)

// CartItemAdded carries the full candidate line so the projector can build
// the cart read model without another lookup. When the cart already holds an
// item for the same (product, supplier) pair, applying this event merges
// quantities instead of adding a second line.
type CartItemAdded struct {
	CartID  string    `json:"cart_id"`
	BuyerID string    `json:"buyer_id"`
	Item    Item      `json:"item"`
	AddedAt time.Time `json:"added_at"`
}

type CartItemRemoved struct {
	CartID    string    `json:"cart_id"`
	BuyerID   string    `json:"buyer_id"`
	ItemID    string    `json:"item_id"`
	RemovedAt time.Time `json:"removed_at"`
}

type CartItemQuantityUpdated struct {
	CartID    string    `json:"cart_id"`
	BuyerID   string    `json:"buyer_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItemCustomPriceSet struct {
	CartID      string    `json:"cart_id"`
	BuyerID     string    `json:"buyer_id"`
	ItemID      string    `json:"item_id"`
	CustomPrice int       `json:"custom_price"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CartCleared struct {
	CartID    string    `json:"cart_id"`
	BuyerID   string    `json:"buyer_id"`
	ClearedAt time.Time `json:"cleared_at"`
}
