package schema

import "errors"

var (
	// ErrUnknownInput is returned when a value is set for an input the
	// component does not declare.
	ErrUnknownInput = errors.New("unknown input")

	// ErrInputType is returned when a value cannot be converted to the
	// declared input type.
	ErrInputType = errors.New("input type mismatch")

	// ErrMissingDataset is returned when a dataset input names an unknown
	// dataset, or a column input's dataset input is unset.
	ErrMissingDataset = errors.New("dataset not found")

	// ErrColumnNotFound is returned when a dimension or measure input names
	// a column its dataset does not have.
	ErrColumnNotFound = errors.New("column not found")

	// ErrNoColumns is returned when discovery finds no usable columns.
	ErrNoColumns = errors.New("no columns")
)
