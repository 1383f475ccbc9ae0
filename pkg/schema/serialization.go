package schema

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the schema as a map of field names to type names.
// Nested objects are serialized as nested maps.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}

	raw, err := s.describe()
	if err != nil {
		return nil, err
	}
	return json.Marshal(raw)
}

func (s Schema) describe() (map[string]any, error) {
	raw := make(map[string]any, len(s))
	for key, typ := range s {
		if typ == nil {
			return nil, fmt.Errorf("field %s: type is nil", key)
		}
		inner := typ
		optional := false
		if o, ok := typ.(*OptionalType); ok {
			inner, optional = o.Type, true
		}
		obj, ok := inner.(*ObjectType)
		if !ok {
			raw[key] = typ.Name()
			continue
		}
		nested, err := obj.fields.describe()
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		if optional {
			key += "?"
		}
		raw[key] = nested
	}
	return raw, nil
}
