// Package schema provides a small type system for validating decoded documents.
//
// A Schema maps field names to types. Built-in types cover strings, numbers,
// booleans, enums, lists and nested objects; Custom wraps any predicate.
// Fields are required unless wrapped in Optional, and unknown keys are
// reported, so a typo in a configuration file surfaces as an error instead of
// being silently ignored.
//
// Basic usage:
//
//	s := schema.Schema{
//	    "diameter": schema.Positive(),
//	    "angles":   schema.Slice(schema.Float()),
//	    "end":      schema.Optional(schema.Enum("start", "end")),
//	}
//
//	data := map[string]any{
//	    "diameter": 20,
//	    "angles":   []any{120, -140.5},
//	}
//
//	if err := schema.Validate(s, data); err != nil {
//	    for _, key := range schema.Keys(err) {
//	        // key is a dotted path such as "main_branch.diameter"
//	    }
//	}
//
// Failures are collected rather than returned one at a time: Validate returns
// an *AggregateError holding one *ValidationError per offending field.
package schema
