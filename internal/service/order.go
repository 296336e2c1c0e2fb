package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// requireCustomer verifies the referenced customer exists. A missing
// customer on an order is a constraint violation, not a not-found on
// the order itself.
func requireCustomer(ctx context.Context, tx store.Tx, id int64) error {
	if _, err := tx.GetCustomer(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("customer %d does not exist: %w", id, store.ErrConflict)
		}
		return err
	}
	return nil
}

// insertLines resolves each requested line's shop item strictly and
// inserts the lines in request order.
func insertLines(ctx context.Context, tx store.Tx, orderID int64, items []model.OrderLineInput) error {
	for _, in := range items {
		if _, err := resolveItem(ctx, tx, in.ShopItemID); err != nil {
			return err
		}

		line := model.OrderLine{
			OrderID:    orderID,
			ShopItemID: in.ShopItemID,
			Quantity:   in.Quantity,
		}
		if _, err := tx.InsertOrderLine(ctx, &line); err != nil {
			return err
		}
	}
	return nil
}

// CreateOrder persists a new order and its lines in one transaction.
// The customer must exist; every line's shop item must exist. Either
// everything commits or nothing does.
func (s *Service) CreateOrder(ctx context.Context, input *model.OrderInput) (*model.Order, error) {
	var out *model.Order
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		if err := requireCustomer(ctx, tx, input.CustomerID); err != nil {
			return err
		}

		id, err := tx.InsertOrder(ctx, &model.Order{CustomerID: input.CustomerID})
		if err != nil {
			return err
		}

		if err := insertLines(ctx, tx, id, input.Items); err != nil {
			return err
		}

		out, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		return hydrateOrder(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityOrder, model.ActionCreated, out.ID)
	return out, nil
}

// GetOrder retrieves an order with its customer and hydrated lines.
func (s *Service) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	var out *model.Order
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		return hydrateOrder(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListOrders returns hydrated orders in insertion order within the
// window.
func (s *Service) ListOrders(ctx context.Context, offset, limit int) ([]model.Order, error) {
	offset, limit = normalizeWindow(offset, limit)

	var out []model.Order
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		orders, err := tx.ListOrders(ctx, offset, limit)
		if err != nil {
			return err
		}

		for i := range orders {
			if err := hydrateOrder(ctx, tx, &orders[i]); err != nil {
				return err
			}
		}

		out = orders
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateOrder applies a sparse patch. A present items key replaces the
// whole line list: old lines are deleted first, then the new ones
// inserted fresh. An absent or null items key leaves the lines
// untouched. All of it happens in one transaction, so readers never see
// a half-replaced order.
func (s *Service) UpdateOrder(ctx context.Context, id int64, patch *model.OrderPatch) (*model.Order, error) {
	var out *model.Order
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		order, err := tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}

		if customerID, ok := patch.CustomerID.Get(); ok {
			if err := requireCustomer(ctx, tx, customerID); err != nil {
				return err
			}
			order.CustomerID = customerID
			if err := tx.UpdateOrder(ctx, order); err != nil {
				return err
			}
		}

		if items, ok := patch.Items.Get(); ok {
			if err := tx.DeleteOrderLines(ctx, id); err != nil {
				return err
			}
			if err := insertLines(ctx, tx, id, items); err != nil {
				return err
			}

			s.logger.Debug("order lines replaced",
				zap.Int64("order_id", id),
				zap.Int("lines", len(items)),
			)
		}

		out, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		return hydrateOrder(ctx, tx, out)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityOrder, model.ActionUpdated, id)
	return out, nil
}

// DeleteOrder removes an order and all lines it owns, returning the
// fully hydrated pre-deletion snapshot. The snapshot is captured before
// any row is removed; lines never outlive their order.
func (s *Service) DeleteOrder(ctx context.Context, id int64) (*model.Order, error) {
	var out *model.Order
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetOrder(ctx, id)
		if err != nil {
			return err
		}
		if err := hydrateOrder(ctx, tx, out); err != nil {
			return err
		}

		if err := tx.DeleteOrderLines(ctx, id); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityOrder, model.ActionDeleted, id)
	return out, nil
}
