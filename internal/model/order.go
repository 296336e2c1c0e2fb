package model

import "errors"

// Validation errors for Order.
var (
	ErrMissingCustomer = errors.New("customer_id is required")
	ErrMissingShopItem = errors.New("shop_item_id is required")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// OrderLine is one position of an order. Lines are exclusively owned by
// their order and have no lifecycle of their own.
type OrderLine struct {
	ID         int64    `json:"id"`
	OrderID    int64    `json:"order_id"`
	ShopItemID int64    `json:"shop_item_id"`
	Quantity   int      `json:"quantity"`
	ShopItem   ShopItem `json:"shop_item"`
}

// Order references exactly one customer and owns its lines, ordered by
// creation.
type Order struct {
	ID         int64       `json:"id"`
	CustomerID int64       `json:"customer_id"`
	Customer   Customer    `json:"customer"`
	Items      []OrderLine `json:"items"`
}

// OrderLineInput is one requested line on create/update.
type OrderLineInput struct {
	ShopItemID int64 `json:"shop_item_id"`
	Quantity   int   `json:"quantity"`
}

// Validate checks one requested line. Unlike categories, a line
// referencing a nonexistent shop item is a hard failure; that check
// happens against the store, not here.
func (in *OrderLineInput) Validate() error {
	if in.ShopItemID == 0 {
		return ErrMissingShopItem
	}

	if in.Quantity <= 0 {
		return ErrInvalidQuantity
	}

	return nil
}

// OrderInput is the create payload. Items may be empty.
type OrderInput struct {
	CustomerID int64            `json:"customer_id"`
	Items      []OrderLineInput `json:"items"`
}

// Validate checks the create payload.
func (in *OrderInput) Validate() error {
	if in.CustomerID == 0 {
		return ErrMissingCustomer
	}

	for i := range in.Items {
		if err := in.Items[i].Validate(); err != nil {
			return err
		}
	}

	return nil
}

// OrderPatch is a sparse update for Order. A present Items key replaces
// the whole line list: existing lines are deleted first, then the new
// ones inserted fresh. An absent or null key leaves the lines untouched.
type OrderPatch struct {
	CustomerID Optional[int64]            `json:"customer_id"`
	Items      Optional[[]OrderLineInput] `json:"items"`
}

// Validate checks the patch payload.
func (p *OrderPatch) Validate() error {
	if items, ok := p.Items.Get(); ok {
		for i := range items {
			if err := items[i].Validate(); err != nil {
				return err
			}
		}
	}

	return nil
}
