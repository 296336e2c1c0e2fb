package model

import "errors"

// ErrNegativePrice rejects shop items priced below zero.
var ErrNegativePrice = errors.New("price cannot be negative")

// ShopItem is a sellable product. Categories is the hydrated form of
// the item's category set: unique, unordered, resolved on read.
type ShopItem struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Price       float64    `json:"price"`
	Categories  []Category `json:"categories"`
}

// Validate checks if the ShopItem has valid field values.
func (i *ShopItem) Validate() error {
	if i.Title == "" {
		return ErrEmptyTitle
	}

	if len(i.Title) > MaxNameLength {
		return ErrTitleTooLong
	}

	if i.Price < 0 {
		return ErrNegativePrice
	}

	if len(i.Description) > MaxDescriptionLength {
		return ErrDescriptionLimit
	}

	return nil
}

// ShopItemInput is the create payload. CategoryIDs may be empty; IDs
// that do not resolve to an existing category are silently dropped.
type ShopItemInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryIDs []int64 `json:"category_ids"`
}

// Validate checks the create payload.
func (in *ShopItemInput) Validate() error {
	item := ShopItem{Title: in.Title, Description: in.Description, Price: in.Price}
	return item.Validate()
}

// ShopItemPatch is a sparse update for ShopItem. A present CategoryIDs
// key replaces the whole category set, even when the new set is empty;
// an absent or null key leaves the set untouched.
type ShopItemPatch struct {
	Title       Optional[string]  `json:"title"`
	Description Optional[string]  `json:"description"`
	Price       Optional[float64] `json:"price"`
	CategoryIDs Optional[[]int64] `json:"category_ids"`
}

// Apply overwrites the scalar fields the patch carries. The category
// set is relationship-valued and is applied by the lifecycle service.
func (p ShopItemPatch) Apply(i *ShopItem) {
	if v, ok := p.Title.Get(); ok {
		i.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		i.Description = v
	}
	if v, ok := p.Price.Get(); ok {
		i.Price = v
	}
}
