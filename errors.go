package formz

import (
	"fmt"
	"math"
	"reflect"
)

// ValidationError is returned by a SubmitFunc to reject a submission with
// field errors. Errors has the same shape as the form values; a truthy leaf
// marks an error at that path.
type ValidationError struct {
	Errors map[string]any
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation rejected: %d field error(s)", len(e.Errors))
}

// NewValidationError builds a ValidationError from field errors.
func NewValidationError(errs map[string]any) *ValidationError {
	return &ValidationError{Errors: errs}
}

// SubmissionError wraps a submit failure that is not a ValidationError.
// The store clears its busy flags before returning it.
type SubmissionError struct {
	StoreID string
	Err     error
}

// Error implements error.
func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit failed: %v", e.Err)
}

// Unwrap returns the underlying failure.
func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// HasError reports whether errs contains any truthy leaf, descending into
// maps and slices. nil, false, zero numbers and empty strings are falsy.
func HasError(errs any) bool {
	switch v := errs.(type) {
	case nil:
		return false
	case map[string]any:
		for _, child := range v {
			if HasError(child) {
				return true
			}
		}
		return false
	case []any:
		for _, child := range v {
			if HasError(child) {
				return true
			}
		}
		return false
	case bool:
		return v
	case string:
		return v != ""
	case error:
		return true
	}

	rv := reflect.ValueOf(errs)
	switch rv.Kind() {
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			if HasError(iter.Value().Interface()) {
				return true
			}
		}
		return false
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if HasError(rv.Index(i).Interface()) {
				return true
			}
		}
		return false
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return HasError(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		return f != 0 && !math.IsNaN(f)
	case reflect.String:
		return rv.Len() > 0
	case reflect.Bool:
		return rv.Bool()
	}
	return true
}

// mergeErrors returns a new map holding base overlaid with extra.
func mergeErrors(base, extra map[string]any) map[string]any {
	if len(extra) == 0 {
		return base
	}
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
