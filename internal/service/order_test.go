package service

import (
	"context"
	"errors"
	"testing"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

func TestService_CreateOrder_Hydrated(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	category := createCategory(t, svc, "Electronics")
	item := createShopItem(t, svc, "Laptop", 999.99, category.ID)

	// Act
	order, err := svc.CreateOrder(context.Background(), &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 2}},
	})

	// Assert
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}
	if order.Customer.Name != "John" {
		t.Errorf("Customer.Name = %s, want John", order.Customer.Name)
	}
	if len(order.Items) != 1 {
		t.Fatalf("lines = %d, want 1", len(order.Items))
	}
	line := order.Items[0]
	if line.Quantity != 2 {
		t.Errorf("Quantity = %d, want 2", line.Quantity)
	}
	if line.ShopItem.Title != "Laptop" {
		t.Errorf("ShopItem.Title = %s, want Laptop", line.ShopItem.Title)
	}
	if len(line.ShopItem.Categories) != 1 {
		t.Errorf("line item categories = %+v, want one", line.ShopItem.Categories)
	}
}

func TestService_CreateOrder_UnknownCustomer(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)

	// Act
	_, err := svc.CreateOrder(context.Background(), &model.OrderInput{CustomerID: 999})

	// Assert
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("CreateOrder() = %v, want ErrConflict", err)
	}
}

func TestService_CreateOrder_UnknownItemNothingPersists(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)

	// Act
	_, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items: []model.OrderLineInput{
			{ShopItemID: item.ID, Quantity: 1},
			{ShopItemID: 999, Quantity: 1},
		},
	})

	// Assert
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("CreateOrder() = %v, want ErrConflict", err)
	}

	orders, err := svc.ListOrders(ctx, 0, 0)
	if err != nil {
		t.Fatalf("ListOrders() unexpected error: %v", err)
	}
	if len(orders) != 0 {
		t.Errorf("orders = %+v, want none after failed create", orders)
	}
}

func TestService_UpdateOrder_ReplaceLines(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	itemA := createShopItem(t, svc, "Laptop", 999.99)
	itemB := createShopItem(t, svc, "Smartphone", 699.99)
	order, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: itemA.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	got, err := svc.UpdateOrder(ctx, order.ID, &model.OrderPatch{
		Items: model.NewOptional([]model.OrderLineInput{{ShopItemID: itemB.ID, Quantity: 3}}),
	})

	// Assert
	if err != nil {
		t.Fatalf("UpdateOrder() unexpected error: %v", err)
	}
	if len(got.Items) != 1 {
		t.Fatalf("lines = %d, want 1", len(got.Items))
	}
	if got.Items[0].ShopItemID != itemB.ID || got.Items[0].Quantity != 3 {
		t.Errorf("line = %+v, want item %d quantity 3", got.Items[0], itemB.ID)
	}
}

func TestService_UpdateOrder_EmptyListClearsLines(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)
	order, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	got, err := svc.UpdateOrder(ctx, order.ID, &model.OrderPatch{
		Items: model.NewOptional([]model.OrderLineInput{}),
	})

	// Assert
	if err != nil {
		t.Fatalf("UpdateOrder() unexpected error: %v", err)
	}
	if len(got.Items) != 0 {
		t.Errorf("lines = %+v, want empty", got.Items)
	}
}

func TestService_UpdateOrder_AbsentKeyKeepsLines(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	first := createCustomer(t, svc, "John", "Doe", "john@example.com")
	second := createCustomer(t, svc, "Jane", "Smith", "jane@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)
	order, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: first.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	got, err := svc.UpdateOrder(ctx, order.ID, &model.OrderPatch{
		CustomerID: model.NewOptional(second.ID),
	})

	// Assert
	if err != nil {
		t.Fatalf("UpdateOrder() unexpected error: %v", err)
	}
	if got.CustomerID != second.ID {
		t.Errorf("CustomerID = %d, want %d", got.CustomerID, second.ID)
	}
	if len(got.Items) != 1 || got.Items[0].Quantity != 2 {
		t.Errorf("lines = %+v, want untouched", got.Items)
	}
}

func TestService_UpdateOrder_UnknownCustomer(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	order, err := svc.CreateOrder(ctx, &model.OrderInput{CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	_, err = svc.UpdateOrder(ctx, order.ID, &model.OrderPatch{
		CustomerID: model.NewOptional(int64(999)),
	})

	// Assert
	if !errors.Is(err, store.ErrConflict) {
		t.Errorf("UpdateOrder() = %v, want ErrConflict", err)
	}
}

func TestService_UpdateOrder_UnknownItemRollsBack(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)
	order, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	_, err = svc.UpdateOrder(ctx, order.ID, &model.OrderPatch{
		Items: model.NewOptional([]model.OrderLineInput{{ShopItemID: 999, Quantity: 1}}),
	})

	// Assert
	if !errors.Is(err, store.ErrConflict) {
		t.Fatalf("UpdateOrder() = %v, want ErrConflict", err)
	}

	got, err := svc.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder() unexpected error: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ShopItemID != item.ID {
		t.Errorf("lines = %+v, want original line preserved", got.Items)
	}
}

func TestService_DeleteOrder_CascadesAndReturnsSnapshot(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)
	order, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	snapshot, err := svc.DeleteOrder(ctx, order.ID)

	// Assert
	if err != nil {
		t.Fatalf("DeleteOrder() unexpected error: %v", err)
	}
	if snapshot.Customer.Name != "John" {
		t.Errorf("snapshot customer = %+v, want John", snapshot.Customer)
	}
	if len(snapshot.Items) != 1 || snapshot.Items[0].ShopItem.Title != "Laptop" {
		t.Errorf("snapshot lines = %+v, want hydrated Laptop line", snapshot.Items)
	}

	if _, err := svc.GetOrder(ctx, order.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetOrder() after delete = %v, want ErrNotFound", err)
	}

	// Deleting the line's shop item now succeeds; no dangling lines
	// reference it.
	if _, err := svc.DeleteShopItem(ctx, item.ID); err != nil {
		t.Errorf("DeleteShopItem() after order delete = %v, want nil", err)
	}
}

func TestService_DeleteOrder_NotFound(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)

	// Act
	_, err := svc.DeleteOrder(context.Background(), 999)

	// Assert
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("DeleteOrder() = %v, want ErrNotFound", err)
	}
}

func TestService_ListOrders_Hydrated(t *testing.T) {
	// Arrange
	svc, _ := newTestService(t)
	ctx := context.Background()
	customer := createCustomer(t, svc, "John", "Doe", "john@example.com")
	item := createShopItem(t, svc, "Laptop", 999.99)
	if _, err := svc.CreateOrder(ctx, &model.OrderInput{
		CustomerID: customer.ID,
		Items:      []model.OrderLineInput{{ShopItemID: item.ID, Quantity: 1}},
	}); err != nil {
		t.Fatalf("CreateOrder() unexpected error: %v", err)
	}

	// Act
	orders, err := svc.ListOrders(ctx, 0, 0)

	// Assert
	if err != nil {
		t.Fatalf("ListOrders() unexpected error: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	if orders[0].Customer.Email != "john@example.com" {
		t.Errorf("customer = %+v, want hydrated", orders[0].Customer)
	}
	if len(orders[0].Items) != 1 || orders[0].Items[0].ShopItem.Title != "Laptop" {
		t.Errorf("lines = %+v, want hydrated Laptop line", orders[0].Items)
	}
}
