package item

import "errors"

// Domain errors for the item package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, item.ErrItemNotFound) {
//	    // handle not found case
//	}
var (
	// ErrItemNotFound is returned when an item ID does not exist.
	ErrItemNotFound = errors.New("item: not found")

	// ErrInvalidID is returned when an ID is empty or not a safe path segment.
	ErrInvalidID = errors.New("item: invalid id")

	// ErrNotObject is returned when an operation requires a JSON object
	// (top-level merge) but the value is an array or scalar.
	ErrNotObject = errors.New("item: value is not a JSON object")

	// ErrCorruptDocument is returned when an item file exists but does not
	// contain valid JSON.
	ErrCorruptDocument = errors.New("item: corrupt document")
)
