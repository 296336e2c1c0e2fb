package service

import (
	"context"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// CreateCustomer persists a new customer and returns it with its
// assigned ID. A duplicate email surfaces as a constraint violation.
func (s *Service) CreateCustomer(ctx context.Context, input *model.Customer) (*model.Customer, error) {
	var out *model.Customer
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		id, err := tx.InsertCustomer(ctx, input)
		if err != nil {
			return err
		}

		out, err = tx.GetCustomer(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCustomer, model.ActionCreated, out.ID)
	return out, nil
}

// GetCustomer retrieves a customer by ID.
func (s *Service) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var out *model.Customer
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetCustomer(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCustomers returns customers in insertion order within the window.
func (s *Service) ListCustomers(ctx context.Context, offset, limit int) ([]model.Customer, error) {
	offset, limit = normalizeWindow(offset, limit)

	var out []model.Customer
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListCustomers(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCustomer applies a sparse patch. Fields absent from the patch
// keep their prior values. A missing customer returns ErrNotFound
// without attempting any mutation.
func (s *Service) UpdateCustomer(ctx context.Context, id int64, patch model.CustomerPatch) (*model.Customer, error) {
	var out *model.Customer
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		customer, err := tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(customer)
		if err := customer.Validate(); err != nil {
			return err
		}

		if err := tx.UpdateCustomer(ctx, customer); err != nil {
			return err
		}

		out, err = tx.GetCustomer(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCustomer, model.ActionUpdated, id)
	return out, nil
}

// DeleteCustomer removes a customer and returns the pre-deletion
// snapshot. A customer still referenced by orders is a constraint
// violation.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	var out *model.Customer
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetCustomer(ctx, id)
		if err != nil {
			return err
		}

		return tx.DeleteCustomer(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCustomer, model.ActionDeleted, id)
	return out, nil
}
