// Package service implements the entity lifecycle manager: create, read,
// list, update, and delete for each entity type, with relationship
// resolution, sparse-patch application, and explicit cascade rules. Every
// operation runs inside a single store transaction.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// DefaultListLimit caps list windows when the caller supplies none.
const DefaultListLimit = 100

// EventSink receives change events after a mutating operation commits.
type EventSink interface {
	Publish(event model.ChangeEvent)
}

// Service is the lifecycle manager over the entity store.
type Service struct {
	store  store.Store
	logger *zap.Logger
	events EventSink
}

// New creates a new Service instance. events may be nil.
func New(s store.Store, logger *zap.Logger, events EventSink) *Service {
	return &Service{
		store:  s,
		logger: logger,
		events: events,
	}
}

// publish emits a change event after a successful commit.
func (s *Service) publish(entity, action string, id int64) {
	if s.events == nil {
		return
	}
	s.events.Publish(model.NewChangeEvent(entity, action, id))
}

// normalizeWindow clamps a pagination window to sane values.
func normalizeWindow(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return offset, limit
}

// resolveCategories resolves category IDs leniently: IDs that do not
// match an existing category are silently dropped, never an error.
// Empty input short-circuits without touching the store.
func resolveCategories(ctx context.Context, tx store.Tx, ids []int64) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}
	return tx.CategoriesByIDs(ctx, ids)
}

// resolveItem resolves a shop item strictly: a missing item is a
// constraint violation, not a silent drop. Order lines depend on this
// being the opposite of category resolution.
func resolveItem(ctx context.Context, tx store.Tx, id int64) (*model.ShopItem, error) {
	item, err := tx.GetShopItem(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("shop item %d does not exist: %w", id, store.ErrConflict)
		}
		return nil, err
	}
	return item, nil
}

// hydrateShopItem loads the item's category set.
func hydrateShopItem(ctx context.Context, tx store.Tx, item *model.ShopItem) error {
	categories, err := tx.ItemCategories(ctx, item.ID)
	if err != nil {
		return err
	}
	item.Categories = categories
	return nil
}

// hydrateOrder loads the order's customer and lines, and each line's
// shop item with its categories. Used both for reads and for the
// pre-deletion snapshot, since rows must not be touched after removal.
func hydrateOrder(ctx context.Context, tx store.Tx, o *model.Order) error {
	customer, err := tx.GetCustomer(ctx, o.CustomerID)
	if err != nil {
		return err
	}
	o.Customer = *customer

	lines, err := tx.OrderLines(ctx, o.ID)
	if err != nil {
		return err
	}

	for i := range lines {
		item, err := tx.GetShopItem(ctx, lines[i].ShopItemID)
		if err != nil {
			return err
		}
		if err := hydrateShopItem(ctx, tx, item); err != nil {
			return err
		}
		lines[i].ShopItem = *item
	}

	o.Items = lines
	return nil
}
