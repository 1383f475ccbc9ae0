package schema

import (
	"math"
	"strings"
	"testing"
)

func TestFloatType(t *testing.T) {
	typ := Float()
	for _, v := range []any{1, 2.5, int64(3), float32(1.5)} {
		if err := typ.Validate(v); err != nil {
			t.Errorf("Validate(%v) error = %v, want nil", v, err)
		}
	}
	for _, v := range []any{"1", true, nil, math.NaN(), math.Inf(1)} {
		if err := typ.Validate(v); err == nil {
			t.Errorf("Validate(%v) should fail", v)
		}
	}
}

func TestPositiveAndNonNegative(t *testing.T) {
	if err := Positive().Validate(0); err == nil {
		t.Error("Positive should reject zero")
	}
	if err := Positive().Validate(0.1); err != nil {
		t.Errorf("Positive(0.1) error = %v", err)
	}
	if err := NonNegative().Validate(0); err != nil {
		t.Errorf("NonNegative(0) error = %v", err)
	}
	if err := NonNegative().Validate(-1); err == nil {
		t.Error("NonNegative should reject -1")
	}
	if err := NonNegative().Validate("x"); err == nil {
		t.Error("NonNegative should reject strings")
	}
}

func TestSliceType(t *testing.T) {
	typ := Slice(Float())
	if typ.Name() != "[float]" {
		t.Errorf("Name() = %q, want [float]", typ.Name())
	}
	if err := typ.Validate([]any{1, 2.5}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	err := typ.Validate([]any{1, "two"})
	if err == nil || !strings.Contains(err.Error(), "element 1") {
		t.Errorf("Validate() error = %v, want element 1 failure", err)
	}
	if err := typ.Validate(3); err == nil {
		t.Error("Validate(3) should fail for a scalar")
	}
}

func TestEnumType(t *testing.T) {
	typ := Enum("binary", "ascii")
	if err := typ.Validate("ascii"); err != nil {
		t.Errorf("Validate(ascii) error = %v", err)
	}
	if err := typ.Validate("obj"); err == nil {
		t.Error("Validate(obj) should fail")
	}
	if typ.Name() != "binary|ascii" {
		t.Errorf("Name() = %q", typ.Name())
	}
}

func TestObjectType(t *testing.T) {
	typ := Object(Schema{"diameter": Positive()})
	if err := typ.Validate(map[string]any{"diameter": 20}); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := typ.Validate(map[any]any{"diameter": 20}); err != nil {
		t.Errorf("Validate(map[any]any) error = %v", err)
	}
	if err := typ.Validate([]any{}); err == nil {
		t.Error("Validate(list) should fail")
	}
}

func TestOptionalType(t *testing.T) {
	typ := Optional(Float())
	if typ.Name() != "float?" {
		t.Errorf("Name() = %q, want float?", typ.Name())
	}
	if err := typ.Validate("x"); err == nil {
		t.Error("present values must still match")
	}
}
