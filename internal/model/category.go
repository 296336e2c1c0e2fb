package model

import "errors"

// Validation errors for Category.
var (
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title cannot exceed 255 characters")
	ErrDescriptionLimit = errors.New("description cannot exceed 1000 characters")
)

// MaxDescriptionLength bounds free-text description fields.
const MaxDescriptionLength = 1000

// Category groups shop items. The item association is a pure
// many-to-many link with no payload of its own.
type Category struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Validate checks if the Category has valid field values.
func (c *Category) Validate() error {
	if c.Title == "" {
		return ErrEmptyTitle
	}

	if len(c.Title) > MaxNameLength {
		return ErrTitleTooLong
	}

	if len(c.Description) > MaxDescriptionLength {
		return ErrDescriptionLimit
	}

	return nil
}

// CategoryPatch is a sparse update for Category.
type CategoryPatch struct {
	Title       Optional[string] `json:"title"`
	Description Optional[string] `json:"description"`
}

// Apply overwrites the fields the patch carries.
func (p CategoryPatch) Apply(c *Category) {
	if v, ok := p.Title.Get(); ok {
		c.Title = v
	}
	if v, ok := p.Description.Get(); ok {
		c.Description = v
	}
}
