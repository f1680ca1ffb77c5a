package item

import (
	"time"

	"github.com/google/uuid"
)

// Value is a decoded JSON document of unconstrained shape.
// Objects decode to map[string]any, arrays to []any, scalars to
// string/float64/bool/nil, matching encoding/json defaults.
type Value = any

// FieldCreatedAt is the metadata field stamped onto object items at creation.
const FieldCreatedAt = "createdAt"

// NewID generates a new item identifier.
//
// UUIDs give 122 bits of randomness and are safe path segments, so the ID
// can double as the on-disk filename without escaping.
func NewID() string {
	return uuid.New().String()
}

// Stamp returns v with a createdAt timestamp added.
//
// Only JSON objects carry the timestamp; arrays and scalars have no field to
// stamp and are returned unchanged. The input map is not modified.
func Stamp(v Value, now time.Time) Value {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}

	stamped := make(map[string]any, len(obj)+1)
	for k, val := range obj {
		stamped[k] = val
	}
	stamped[FieldCreatedAt] = now.Format(time.RFC3339)
	return stamped
}

// CarryCreatedAt copies the createdAt field from old into next, so that a
// full replace does not re-stamp the creation time. If either value is not
// an object, next is returned unchanged.
func CarryCreatedAt(old, next Value) Value {
	oldObj, ok := old.(map[string]any)
	if !ok {
		return next
	}
	created, ok := oldObj[FieldCreatedAt]
	if !ok {
		return next
	}
	nextObj, ok := next.(map[string]any)
	if !ok {
		return next
	}

	merged := make(map[string]any, len(nextObj)+1)
	for k, val := range nextObj {
		merged[k] = val
	}
	merged[FieldCreatedAt] = created
	return merged
}

// Merge applies patch onto existing, replacing top-level fields only.
//
// Nested objects are replaced wholesale, not merged recursively. The
// createdAt field of the existing value is preserved even if the patch
// tries to overwrite it. Both inputs must be JSON objects.
func Merge(existing, patch Value) (Value, error) {
	existingObj, ok := existing.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	patchObj, ok := patch.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}

	merged := make(map[string]any, len(existingObj)+len(patchObj))
	for k, v := range existingObj {
		merged[k] = v
	}
	for k, v := range patchObj {
		merged[k] = v
	}
	if created, ok := existingObj[FieldCreatedAt]; ok {
		merged[FieldCreatedAt] = created
	}
	return merged, nil
}

// Clone returns a deep copy of a decoded JSON value.
//
// The Store hands out clones so callers can never mutate cached state
// through a returned reference.
func Clone(v Value) Value {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	default:
		// Scalars (string, float64, bool, nil) are immutable.
		return val
	}
}
