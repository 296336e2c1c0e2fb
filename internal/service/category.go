package service

import (
	"context"

	"github.com/vyrodovalexey/shopapi/internal/model"
	"github.com/vyrodovalexey/shopapi/internal/store"
)

// CreateCategory persists a new category and returns it with its
// assigned ID.
func (s *Service) CreateCategory(ctx context.Context, input *model.Category) (*model.Category, error) {
	var out *model.Category
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		id, err := tx.InsertCategory(ctx, input)
		if err != nil {
			return err
		}

		out, err = tx.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCategory, model.ActionCreated, out.ID)
	return out, nil
}

// GetCategory retrieves a category by ID.
func (s *Service) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	var out *model.Category
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListCategories returns categories in insertion order within the window.
func (s *Service) ListCategories(ctx context.Context, offset, limit int) ([]model.Category, error) {
	offset, limit = normalizeWindow(offset, limit)

	var out []model.Category
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.ListCategories(ctx, offset, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateCategory applies a sparse patch to a category.
func (s *Service) UpdateCategory(ctx context.Context, id int64, patch model.CategoryPatch) (*model.Category, error) {
	var out *model.Category
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		category, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}

		patch.Apply(category)
		if err := category.Validate(); err != nil {
			return err
		}

		if err := tx.UpdateCategory(ctx, category); err != nil {
			return err
		}

		out, err = tx.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCategory, model.ActionUpdated, id)
	return out, nil
}

// DeleteCategory removes a category and returns the pre-deletion
// snapshot. Association rows in the join table go with it; shop items
// themselves are untouched.
func (s *Service) DeleteCategory(ctx context.Context, id int64) (*model.Category, error) {
	var out *model.Category
	err := s.store.RunInTransaction(ctx, func(tx store.Tx) error {
		var err error
		out, err = tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}

		return tx.DeleteCategory(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	s.publish(model.EntityCategory, model.ActionDeleted, id)
	return out, nil
}
