// Package usecase implements the business logic for the catalog feature.
package usecase

import "errors"

var (
	// ErrProductNotFound is returned when no product matches the given ID.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidCategory is returned when a category is not in the configured set.
	ErrInvalidCategory = errors.New("invalid product category")

	// ErrInvalidPrice is returned when a price is negative or not a fixed-point
	// decimal with at most 2 fractional digits.
	ErrInvalidPrice = errors.New("invalid price")

	// ErrInvalidQuantity is returned when a quantity is negative.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrInvalidOrderBy is returned when a list query names a column outside the
	// ordering allow-list.
	ErrInvalidOrderBy = errors.New("invalid order column")
)
