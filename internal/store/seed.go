package store

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/shopapi/internal/model"
)

// Seed populates the store with sample data. It is a no-op when any
// customer already exists, so restarting the server does not duplicate
// rows. The whole load runs in a single transaction.
func Seed(ctx context.Context, s Store) error {
	return s.RunInTransaction(ctx, func(tx Tx) error {
		existing, err := tx.ListCustomers(ctx, 0, 1)
		if err != nil {
			return fmt.Errorf("check existing data: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}

		customers := []model.Customer{
			{Name: "John", Surname: "Doe", Email: "john.doe@example.com"},
			{Name: "Jane", Surname: "Smith", Email: "jane.smith@example.com"},
			{Name: "Bob", Surname: "Johnson", Email: "bob.johnson@example.com"},
		}
		customerIDs := make([]int64, len(customers))
		for i := range customers {
			id, err := tx.InsertCustomer(ctx, &customers[i])
			if err != nil {
				return fmt.Errorf("seed customer: %w", err)
			}
			customerIDs[i] = id
		}

		categories := []model.Category{
			{Title: "Electronics", Description: "Electronic devices and accessories"},
			{Title: "Books", Description: "Books and reading materials"},
			{Title: "Clothing", Description: "Clothing and fashion items"},
			{Title: "Home & Garden", Description: "Home and garden products"},
		}
		categoryIDs := make([]int64, len(categories))
		for i := range categories {
			id, err := tx.InsertCategory(ctx, &categories[i])
			if err != nil {
				return fmt.Errorf("seed category: %w", err)
			}
			categoryIDs[i] = id
		}

		items := []struct {
			item     model.ShopItem
			category int
		}{
			{model.ShopItem{Title: "Laptop", Description: "High-performance laptop for work and gaming", Price: 999.99}, 0},
			{model.ShopItem{Title: "Smartphone", Description: "Latest smartphone with advanced features", Price: 699.99}, 0},
			{model.ShopItem{Title: "Python Programming Book", Description: "Learn Python programming from scratch", Price: 29.99}, 1},
			{model.ShopItem{Title: "T-Shirt", Description: "Comfortable cotton t-shirt", Price: 19.99}, 2},
			{model.ShopItem{Title: "Coffee Mug", Description: "Ceramic coffee mug for your morning coffee", Price: 9.99}, 3},
		}
		itemIDs := make([]int64, len(items))
		for i := range items {
			id, err := tx.InsertShopItem(ctx, &items[i].item)
			if err != nil {
				return fmt.Errorf("seed shop item: %w", err)
			}
			itemIDs[i] = id

			if err := tx.ReplaceItemCategories(ctx, id, []int64{categoryIDs[items[i].category]}); err != nil {
				return fmt.Errorf("seed item categories: %w", err)
			}
		}

		orders := []model.Order{
			{CustomerID: customerIDs[0]},
			{CustomerID: customerIDs[1]},
		}
		orderIDs := make([]int64, len(orders))
		for i := range orders {
			id, err := tx.InsertOrder(ctx, &orders[i])
			if err != nil {
				return fmt.Errorf("seed order: %w", err)
			}
			orderIDs[i] = id
		}

		lines := []model.OrderLine{
			{OrderID: orderIDs[0], ShopItemID: itemIDs[0], Quantity: 1},
			{OrderID: orderIDs[0], ShopItemID: itemIDs[4], Quantity: 2},
			{OrderID: orderIDs[1], ShopItemID: itemIDs[1], Quantity: 1},
			{OrderID: orderIDs[1], ShopItemID: itemIDs[2], Quantity: 1},
		}
		for i := range lines {
			if _, err := tx.InsertOrderLine(ctx, &lines[i]); err != nil {
				return fmt.Errorf("seed order line: %w", err)
			}
		}

		return nil
	})
}
