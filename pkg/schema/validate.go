package schema

import (
	"errors"
	"sort"
)

// Schema is a map of field names to their expected types.
// Example: {"diameter": Positive(), "angles": Slice(Float())}
type Schema map[string]Type

// Validate checks if data conforms to the schema.
// Fields are required unless wrapped in Optional, and keys the schema does
// not define are rejected. Nested objects report their keys with a dotted path.
// Returns an error with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		// No schema = no validation
		return nil
	}

	var errs []error

	for _, fieldName := range sortedKeys(schema) {
		fieldType := schema[fieldName]
		value, exists := data[fieldName]
		if !exists {
			if _, optional := fieldType.(*OptionalType); optional {
				continue
			}
			errs = append(errs, &ValidationError{Key: fieldName, Reason: "required"})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, nest(fieldName, value, err)...)
		}
	}

	for _, key := range sortedKeys(data) {
		if _, known := schema[key]; !known {
			errs = append(errs, &ValidationError{Key: key, Reason: "unknown field"})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}

	return nil
}

// nest prefixes the keys of nested validation failures with the parent field.
func nest(field string, value any, err error) []error {
	var aggr *AggregateError
	if !errors.As(err, &aggr) {
		return []error{&ValidationError{Key: field, Reason: err.Error(), Value: value}}
	}
	out := make([]error, 0, len(aggr.Errors))
	for _, inner := range aggr.Errors {
		var ve *ValidationError
		if errors.As(inner, &ve) {
			out = append(out, &ValidationError{Key: field + "." + ve.Key, Reason: ve.Reason, Value: ve.Value})
			continue
		}
		out = append(out, inner)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
