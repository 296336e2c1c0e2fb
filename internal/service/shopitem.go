package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// categoryIDs projects a resolved category set back to its IDs.
func categoryIDs(categories []model.Category) []int64 {
	ids := make([]int64, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

// CreateShopItem persists a new shop item. Category IDs are resolved
// leniently: unknown IDs are dropped rather than rejected.
func (s *Service) CreateShopItem(ctx context.Context, input *model.ShopItemInput) (*model.ShopItem, error) {
	var out *model.ShopItem
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		item := model.ShopItem{
			Title:       input.Title,
			Description: input.Description,
			Price:       input.Price,
		}

		id, err := tx.InsertShopItem(ctx, &item)
		if err != nil {
			return err
		}

		categories, err := resolveCategories(ctx, tx, input.CategoryIDs)
		if err != nil {
			return err
		}
		if err := tx.ReplaceItemCategories(ctx, id, categoryIDs(categories)); err != nil {
			return err
		}

		out, err = tx.GetShopItem(ctx, id)
		if err != nil {
			return err
		}
		return hydrateShopItem(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}

	if len(input.CategoryIDs) != len(out.Categories) {
		s.logger.Debug("unknown category ids dropped",
			zap.Int64("shop_item_id", out.ID),
			zap.Int("requested", len(input.CategoryIDs)),
			zap.Int("resolved", len(out.Categories)),
		)
	}

	s.publish(model.EntityShopItem, model.ActionCreated, out.ID)
	return out, nil
}

// GetShopItem retrieves a shop item with its category set.
func (s *Service) GetShopItem(ctx context.Context, id int64) (*model.ShopItem, error) {
	var out *model.ShopItem
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetShopItem(ctx, id)
		if err != nil {
			return err
		}
		return hydrateShopItem(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListShopItems returns hydrated shop items in insertion order within
// the window.
func (s *Service) ListShopItems(ctx context.Context, offset, limit int) ([]model.ShopItem, error) {
	offset, limit = normalizeWindow(offset, limit)

	var out []model.ShopItem
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		items, err := tx.ListShopItems(ctx, offset, limit)
		if err != nil {
			return err
		}

		for i := range items {
			if err := hydrateShopItem(ctx, tx, &items[i]); err != nil {
				return err
			}
		}

		out = items
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateShopItem applies a sparse patch. A present category_ids key —
// even an empty list — replaces the whole category set; an absent or
// null key leaves the set untouched.
func (s *Service) UpdateShopItem(ctx context.Context, id int64, patch model.ShopItemPatch) (*model.ShopItem, error) {
	var out *model.ShopItem
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		item, err := tx.GetShopItem(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(item)
		if err := item.Validate(); err != nil {
			return err
		}

		if err := tx.UpdateShopItem(ctx, item); err != nil {
			return err
		}

		if ids, ok := patch.CategoryIDs.Get(); ok {
			categories, err := resolveCategories(ctx, tx, ids)
			if err != nil {
				return err
			}
			if err := tx.ReplaceItemCategories(ctx, id, categoryIDs(categories)); err != nil {
				return err
			}
		}

		out, err = tx.GetShopItem(ctx, id)
		if err != nil {
			return err
		}
		return hydrateShopItem(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityShopItem, model.ActionUpdated, id)
	return out, nil
}

// DeleteShopItem removes a shop item and returns the pre-deletion
// snapshot. An item still referenced by order lines is a constraint
// violation; its category links are removed with it.
func (s *Service) DeleteShopItem(ctx context.Context, id int64) (*model.ShopItem, error) {
	var out *model.ShopItem
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetShopItem(ctx, id)
		if err != nil {
			return err
		}
		if err := hydrateShopItem(ctx, tx, out); err != nil {
			return err
		}

		return tx.DeleteShopItem(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityShopItem, model.ActionDeleted, id)
	return out, nil
}
