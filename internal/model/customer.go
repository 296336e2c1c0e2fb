// Package model defines data structures used throughout the application.
package model

import (
	"errors"
	"strings"
)

// Validation errors for Customer.
var (
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrEmptySurname = errors.New("surname cannot be empty")
	ErrInvalidEmail = errors.New("email must contain @")
	ErrNameTooLong  = errors.New("name cannot exceed 255 characters")
)

// MaxNameLength bounds free-text name fields.
const MaxNameLength = 255

// Customer represents a shop customer. Email is unique across all
// customers; the store enforces the uniqueness.
type Customer struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// Validate checks if the Customer has valid field values.
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}

	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}

	if c.Surname == "" {
		return ErrEmptySurname
	}

	if len(c.Surname) > MaxNameLength {
		return ErrNameTooLong
	}

	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}

	return nil
}

// CustomerPatch is a sparse update for Customer. Only keys present in
// the request body are applied.
type CustomerPatch struct {
	Name    Optional[string] `json:"name"`
	Surname Optional[string] `json:"surname"`
	Email   Optional[string] `json:"email"`
}

// Apply overwrites the fields the patch carries, leaving the rest
// untouched. Explicit nulls are treated as "don't touch".
func (p CustomerPatch) Apply(c *Customer) {
	if v, ok := p.Name.Get(); ok {
		c.Name = v
	}
	if v, ok := p.Surname.Get(); ok {
		c.Surname = v
	}
	if v, ok := p.Email.Get(); ok {
		c.Email = v
	}
}
