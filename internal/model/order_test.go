package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestOrderInput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		input   OrderInput
		wantErr error
	}{
		{
			name:    "valid order without items",
			input:   OrderInput{CustomerID: 1},
			wantErr: nil,
		},
		{
			name: "valid order with items",
			input: OrderInput{
				CustomerID: 1,
				Items:      []OrderLineInput{{ShopItemID: 2, Quantity: 3}},
			},
			wantErr: nil,
		},
		{
			name:    "missing customer",
			input:   OrderInput{},
			wantErr: ErrMissingCustomer,
		},
		{
			name: "missing shop item",
			input: OrderInput{
				CustomerID: 1,
				Items:      []OrderLineInput{{Quantity: 3}},
			},
			wantErr: ErrMissingShopItem,
		},
		{
			name: "zero quantity",
			input: OrderInput{
				CustomerID: 1,
				Items:      []OrderLineInput{{ShopItemID: 2, Quantity: 0}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "negative quantity",
			input: OrderInput{
				CustomerID: 1,
				Items:      []OrderLineInput{{ShopItemID: 2, Quantity: -1}},
			},
			wantErr: ErrInvalidQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			err := tt.input.Validate()

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOrderPatch_ItemsPresence(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantSet   bool
		wantUse   bool
		wantCount int
	}{
		{
			name:    "absent items",
			payload: `{"customer_id": 5}`,
			wantSet: false,
			wantUse: false,
		},
		{
			name:    "null items",
			payload: `{"items": null}`,
			wantSet: true,
			wantUse: false,
		},
		{
			name:      "empty items replaces with nothing",
			payload:   `{"items": []}`,
			wantSet:   true,
			wantUse:   true,
			wantCount: 0,
		},
		{
			name:      "items present",
			payload:   `{"items": [{"shop_item_id": 7, "quantity": 2}]}`,
			wantSet:   true,
			wantUse:   true,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var patch OrderPatch

			// Act
			if err := json.Unmarshal([]byte(tt.payload), &patch); err != nil {
				t.Fatalf("Unmarshal() unexpected error: %v", err)
			}

			// Assert
			if patch.Items.IsSet() != tt.wantSet {
				t.Errorf("IsSet() = %v, want %v", patch.Items.IsSet(), tt.wantSet)
			}

			items, ok := patch.Items.Get()
			if ok != tt.wantUse {
				t.Fatalf("Get() usable = %v, want %v", ok, tt.wantUse)
			}
			if ok && len(items) != tt.wantCount {
				t.Errorf("len(items) = %d, want %d", len(items), tt.wantCount)
			}
		})
	}
}

func TestOrderPatch_Validate(t *testing.T) {
	// Arrange
	patch := OrderPatch{
		Items: NewOptional([]OrderLineInput{{ShopItemID: 1, Quantity: 0}}),
	}

	// Act
	err := patch.Validate()

	// Assert
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Validate() = %v, want %v", err, ErrInvalidQuantity)
	}
}
