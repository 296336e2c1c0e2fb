// Package store provides data storage interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/shopapi/internal/model"
)

// Store errors.
var (
	ErrNotFound  = errors.New("entity not found")
	ErrConflict  = errors.New("constraint violation")
	ErrInvalidID = errors.New("invalid entity ID")
	ErrNilEntity = errors.New("entity cannot be nil")
)

// Tx is the typed data access available inside one transaction. Rows
// come back in insertion order; hydration of relationships is the
// caller's job.
type Tx interface {
	// Customers.
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	ListCustomers(ctx context.Context, offset, limit int) ([]model.Customer, error)
	InsertCustomer(ctx context.Context, c *model.Customer) (int64, error)
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error

	// Categories.
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context, offset, limit int) ([]model.Category, error)
	CategoriesByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	InsertCategory(ctx context.Context, c *model.Category) (int64, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id int64) error

	// Shop items and their category links.
	GetShopItem(ctx context.Context, id int64) (*model.ShopItem, error)
	ListShopItems(ctx context.Context, offset, limit int) ([]model.ShopItem, error)
	InsertShopItem(ctx context.Context, i *model.ShopItem) (int64, error)
	UpdateShopItem(ctx context.Context, i *model.ShopItem) error
	DeleteShopItem(ctx context.Context, id int64) error
	ItemCategories(ctx context.Context, itemID int64) ([]model.Category, error)
	ReplaceItemCategories(ctx context.Context, itemID int64, categoryIDs []int64) error

	// Orders and their exclusively owned lines.
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	ListOrders(ctx context.Context, offset, limit int) ([]model.Order, error)
	InsertOrder(ctx context.Context, o *model.Order) (int64, error)
	UpdateOrder(ctx context.Context, o *model.Order) error
	DeleteOrder(ctx context.Context, id int64) error
	InsertOrderLine(ctx context.Context, l *model.OrderLine) (int64, error)
	OrderLines(ctx context.Context, orderID int64) ([]model.OrderLine, error)
	DeleteOrderLines(ctx context.Context, orderID int64) error
}

// Store defines transactional access to the relational tables. One
// logical request maps to one transaction; fn either commits as a whole
// or leaves no trace.
type Store interface {
	RunInTransaction(ctx context.Context, fn func(tx Tx) error) error

	// Ping reports whether the underlying database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
