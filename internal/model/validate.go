package model

import "errors"

// validationErrors enumerates every model-level validation sentinel so
// the transport layer can map them to client errors as a group.
var validationErrors = []error{
	ErrEmptyName,
	ErrEmptySurname,
	ErrInvalidEmail,
	ErrNameTooLong,
	ErrEmptyTitle,
	ErrTitleTooLong,
	ErrDescriptionLimit,
	ErrNegativePrice,
	ErrMissingCustomer,
	ErrMissingShopItem,
	ErrInvalidQuantity,
}

// IsValidation reports whether err is (or wraps) a model validation
// error.
func IsValidation(err error) bool {
	for _, verr := range validationErrors {
		if errors.Is(err, verr) {
			return true
		}
	}
	return false
}
