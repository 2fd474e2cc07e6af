package params

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

// Category groups parameter types by coercion rule.
type Category uint8

const (
	CategoryObject Category = iota
	CategoryBool
	CategoryNumber
	CategoryString
	CategoryHandler
	CategoryFragment
)

// String returns the string representation of the Category.
func (c Category) String() string {
	switch c {
	case CategoryObject:
		return "object"
	case CategoryBool:
		return "bool"
	case CategoryNumber:
		return "number"
	case CategoryString:
		return "string"
	case CategoryHandler:
		return "handler"
	case CategoryFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

func (c Category) convertible() bool {
	return c == CategoryBool || c == CategoryNumber || c == CategoryString
}

var (
	fragmentType = reflect.TypeOf(frame.Fragment(nil))
	captureType  = reflect.TypeOf(map[string]any(nil))
)

func categorize(t reflect.Type) Category {
	if t == fragmentType {
		return CategoryFragment
	}
	switch t.Kind() {
	case reflect.Bool:
		return CategoryBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return CategoryNumber
	case reflect.String:
		return CategoryString
	case reflect.Func:
		return CategoryHandler
	}
	return CategoryObject
}

// ErrCoercion is wrapped by every CoercionError.
var ErrCoercion = errors.New("params: value cannot be coerced")

// CoercionError reports an attribute value that does not fit its parameter.
type CoercionError struct {
	Param  string
	Type   reflect.Type
	Source markup.SourceKind
	Input  string
	Err    error
}

// Error implements the error interface.
func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot bind %s value %s to parameter '%s' of type %s", e.Source, e.Input, e.Param, e.Type)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CoercionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrCoercion}
	}
	return []error{ErrCoercion, e.Err}
}

func coercionError(p *Property, src markup.Source, err error) *CoercionError {
	return &CoercionError{
		Param:  p.Name,
		Type:   p.Type,
		Source: src.Kind,
		Input:  describe(src),
		Err:    err,
	}
}

func describe(src markup.Source) string {
	switch src.Kind {
	case markup.SourceLiteral:
		return strconv.Quote(src.Literal)
	case markup.SourceExpr:
		return fmt.Sprintf("of type %T", src.Value)
	case markup.SourceHandler:
		if src.Handler.Form == markup.FormMethod {
			return strconv.Quote(src.Handler.Method)
		}
		return "lambda"
	default:
		return "(none)"
	}
}

// AcceptsFragment reports whether captured markup can be bound to p.
func (p *Property) AcceptsFragment() bool {
	return p.Category == CategoryFragment || (p.Type.Kind() == reflect.Interface && fragmentType.Implements(p.Type))
}

// Coerce converts an attribute source to the value bound to parameter p.
// recv is the enclosing component instance, used as the receiver of handler
// method references. Markup sources are not handled here; captured markup
// is bound by the caller.
func Coerce(p *Property, src markup.Source, recv any) (frame.Value, error) {
	if src.Kind == markup.SourceMarkup {
		return frame.Value{}, coercionError(p, src, errors.New("markup must be captured as a fragment"))
	}
	var (
		v   frame.Value
		err error
	)
	switch p.Category {
	case CategoryBool:
		v, err = coerceBool(p, src)
	case CategoryNumber:
		v, err = coerceNumber(p, src)
	case CategoryString:
		v, err = coerceString(src)
	case CategoryHandler:
		v, err = coerceHandler(p, src, recv)
	case CategoryFragment:
		v, err = coerceFragment(src)
	default:
		v, err = coerceObject(p, src)
	}
	if err != nil {
		return frame.Value{}, coercionError(p, src, err)
	}
	return v, nil
}

func coerceBool(p *Property, src markup.Source) (frame.Value, error) {
	switch src.Kind {
	case markup.SourceMinimized:
		return frame.Bool(true), nil
	case markup.SourceLiteral:
		switch {
		case strings.EqualFold(src.Literal, "true"):
			return frame.Bool(true), nil
		case strings.EqualFold(src.Literal, "false"):
			return frame.Bool(false), nil
		}
		return frame.Value{}, fmt.Errorf("%q is not a boolean", src.Literal)
	case markup.SourceExpr:
		rv := reflect.ValueOf(src.Value)
		if rv.IsValid() && rv.Kind() == reflect.Bool {
			return frame.Bool(rv.Bool()), nil
		}
	}
	return frame.Value{}, fmt.Errorf("%s source is not a boolean", src.Kind)
}

func coerceNumber(p *Property, src markup.Source) (frame.Value, error) {
	switch src.Kind {
	case markup.SourceLiteral:
		n, err := parseNumber(p.Type, src.Literal)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Number(n.Interface()), nil
	case markup.SourceExpr:
		rv := reflect.ValueOf(src.Value)
		if !rv.IsValid() || categorize(rv.Type()) != CategoryNumber {
			return frame.Value{}, fmt.Errorf("expression result is not numeric")
		}
		n, err := convertNumber(rv, p.Type)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Number(n.Interface()), nil
	}
	return frame.Value{}, fmt.Errorf("%s source is not numeric", src.Kind)
}

// parseNumber parses text with the standard parser of t's kind and bit size.
func parseNumber(t reflect.Type, text string) (reflect.Value, error) {
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(text, 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := strconv.ParseUint(text, 10, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(text, t.Bits())
		if err != nil {
			return out, err
		}
		out.SetFloat(n)
	default:
		return out, fmt.Errorf("%s is not numeric", t)
	}
	return out, nil
}

// convertNumber converts between numeric types, rejecting lossy conversions.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	src, dst := numberKind(v.Kind()), numberKind(t.Kind())
	switch {
	case src == kindFloat && dst == kindFloat && math.IsNaN(v.Float()):
		return v.Convert(t), nil
	case src == kindInt && dst == kindUint && v.Int() < 0,
		src == kindUint && dst == kindInt && v.Uint() > math.MaxInt64:
		return reflect.Value{}, fmt.Errorf("%v does not fit in %s", v.Interface(), t)
	}
	out := v.Convert(t)
	if !out.Convert(v.Type()).Equal(v) {
		return reflect.Value{}, fmt.Errorf("%v does not fit in %s", v.Interface(), t)
	}
	return out, nil
}

const (
	kindInt = iota + 1
	kindUint
	kindFloat
)

func numberKind(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	}
	return 0
}

func coerceString(src markup.Source) (frame.Value, error) {
	switch src.Kind {
	case markup.SourceLiteral:
		return frame.String(src.Literal), nil
	case markup.SourceMinimized:
		return frame.String(""), nil
	case markup.SourceExpr:
		return frame.String(Textual(src.Value)), nil
	}
	return frame.Value{}, fmt.Errorf("%s source is not text", src.Kind)
}

// Textual returns the textual representation of an expression result.
// nil renders as the empty string.
func Textual(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func coerceHandler(p *Property, src markup.Source, recv any) (frame.Value, error) {
	switch src.Kind {
	case markup.SourceHandler:
		fn, err := BindHandler(p.Type, src.Handler, recv)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Handler(fn.Interface()), nil
	case markup.SourceExpr:
		if src.Value == nil {
			return frame.Handler(reflect.Zero(p.Type).Interface()), nil
		}
		fn, err := adaptFunc(reflect.ValueOf(src.Value), p.Type)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Handler(fn.Interface()), nil
	}
	return frame.Value{}, fmt.Errorf("%s source is not a handler", src.Kind)
}

func coerceFragment(src markup.Source) (frame.Value, error) {
	if src.Kind == markup.SourceExpr {
		v := frame.ValueOf(src.Value)
		if v.Kind() == frame.ValueFragment {
			return v, nil
		}
	}
	return frame.Value{}, fmt.Errorf("%s source is not a fragment", src.Kind)
}

func coerceObject(p *Property, src markup.Source) (frame.Value, error) {
	var v any
	switch src.Kind {
	case markup.SourceExpr:
		v = src.Value
	case markup.SourceLiteral:
		v = src.Literal
	case markup.SourceMinimized:
		v = true
	default:
		return frame.Value{}, fmt.Errorf("%s source is not an object", src.Kind)
	}
	if v == nil {
		switch p.Type.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan:
			return frame.Object(nil), nil
		}
		return frame.Value{}, fmt.Errorf("nil is not assignable to %s", p.Type)
	}
	if !reflect.TypeOf(v).AssignableTo(p.Type) {
		return frame.Value{}, fmt.Errorf("%T is not assignable to %s", v, p.Type)
	}
	return frame.Object(v), nil
}

// Passthrough converts an attribute source that matched no parameter. No
// type checking applies: literals stay strings, minimized attributes are
// true, expression results keep their runtime type, and handlers bind to
// the generic func(...any) shape.
func Passthrough(src markup.Source, recv any) (frame.Value, error) {
	switch src.Kind {
	case markup.SourceLiteral:
		return frame.String(src.Literal), nil
	case markup.SourceMinimized:
		return frame.Bool(true), nil
	case markup.SourceExpr:
		return frame.ValueOf(src.Value), nil
	case markup.SourceHandler:
		fn, err := BindHandler(GenericHandlerType, src.Handler, recv)
		if err != nil {
			return frame.Value{}, err
		}
		return frame.Handler(fn.Interface()), nil
	}
	return frame.Value{}, fmt.Errorf("params: %s source cannot pass through", src.Kind)
}
