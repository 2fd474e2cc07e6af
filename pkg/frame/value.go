package frame

import (
	"fmt"
	"reflect"
)

// ValueKind is the attribute value type discriminator.
type ValueKind uint8

const (
	ValueNone     ValueKind = iota // Zero Value
	ValueString                    // Literal or textual value
	ValueBool                      // Boolean, including minimized attributes
	ValueNumber                    // Any Go integer or float type
	ValueHandler                   // Event handler delegate (func value)
	ValueObject                    // Arbitrary object, runtime type preserved
	ValueFragment                  // Captured child content
)

// String returns the string representation of the ValueKind.
func (k ValueKind) String() string {
	switch k {
	case ValueNone:
		return "None"
	case ValueString:
		return "String"
	case ValueBool:
		return "Bool"
	case ValueNumber:
		return "Number"
	case ValueHandler:
		return "Handler"
	case ValueObject:
		return "Object"
	case ValueFragment:
		return "Fragment"
	default:
		return "Unknown"
	}
}

// Value is the value of an Attribute frame.
type Value struct {
	kind ValueKind
	raw  any
}

// String creates a string value.
func String(s string) Value { return Value{kind: ValueString, raw: s} }

// Bool creates a boolean value.
func Bool(b bool) Value { return Value{kind: ValueBool, raw: b} }

// Number creates a numeric value. n keeps its Go type (int, float64, ...).
func Number(n any) Value { return Value{kind: ValueNumber, raw: n} }

// Handler creates an event handler value. fn must be a func value.
func Handler(fn any) Value { return Value{kind: ValueHandler, raw: fn} }

// Object creates an arbitrary object value.
func Object(v any) Value { return Value{kind: ValueObject, raw: v} }

// FragmentValue creates a fragment value.
func FragmentValue(f Fragment) Value { return Value{kind: ValueFragment, raw: f} }

// ValueOf infers the value kind from the runtime type of v.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Object(nil)
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case Fragment:
		return FragmentValue(x)
	case func() (Frames, error):
		return FragmentValue(x)
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return Number(v)
	case reflect.Func:
		return Handler(v)
	}
	return Object(v)
}

// Kind returns the value kind.
func (v Value) Kind() ValueKind { return v.kind }

// IsZero reports whether v is the zero Value.
func (v Value) IsZero() bool { return v.kind == ValueNone }

// Interface returns the underlying value with its runtime type preserved.
func (v Value) Interface() any { return v.raw }

// Str returns the string payload, or "" if v is not a string value.
func (v Value) Str() string {
	if v.kind != ValueString {
		return ""
	}
	s, _ := v.raw.(string)
	return s
}

// Bool returns the boolean payload, or false if v is not a boolean value.
func (v Value) Bool() bool {
	b, _ := v.raw.(bool)
	return v.kind == ValueBool && b
}

// Float returns a numeric payload converted to float64.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueNumber || v.raw == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v.raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

// Fragment returns the fragment payload, or nil if v is not a fragment.
func (v Value) Fragment() Fragment {
	if v.kind != ValueFragment {
		return nil
	}
	switch f := v.raw.(type) {
	case Fragment:
		return f
	case func() (Frames, error):
		return f
	}
	return nil
}

// String returns a short description of the value for debugging.
func (v Value) String() string {
	switch v.kind {
	case ValueNone:
		return "<none>"
	case ValueString:
		return fmt.Sprintf("%q", v.raw)
	case ValueHandler:
		return fmt.Sprintf("handler(%T)", v.raw)
	case ValueFragment:
		return "fragment"
	case ValueObject:
		return fmt.Sprintf("object(%T)", v.raw)
	default:
		return fmt.Sprint(v.raw)
	}
}
