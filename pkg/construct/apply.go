package construct

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/params"
)

// Apply assigns bound attribute frames to dst, a pointer to a component
// struct, using the parameter setters. Attributes that match no property
// are collected into the type's capture parameter when it declares one.
func Apply(dst any, attrs frame.Frames) error {
	table, err := params.Of(dst)
	if err != nil {
		return err
	}
	return apply(table.Name, table, dst, attrs)
}

// Apply assigns bound attribute frames to dst, reporting errors under the
// registered type name.
func (t *Type) Apply(dst any, attrs frame.Frames) error {
	return apply(t.Name, t.Params, dst, attrs)
}

func apply(typeName string, table *params.Table, dst any, attrs frame.Frames) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Type() != table.Type {
		return fmt.Errorf("construct: Apply needs a non-nil *%s, got %T", table.Type, dst)
	}
	target := rv.Elem()

	var captured map[string]any
	for _, a := range attrs {
		if a.Kind != frame.KindAttribute {
			return fmt.Errorf("construct: Apply given a %s frame", a.Kind)
		}
		p, res := table.Resolve(a.Name)
		switch res {
		case params.Undeclared:
			return &Error{Kind: ParameterNotDeclared, ComponentType: typeName, Attribute: a.Name}
		case params.NotFound:
			if table.Capture() == nil {
				return &Error{Kind: ParameterNotFound, ComponentType: typeName, Attribute: a.Name}
			}
			if captured == nil {
				captured = make(map[string]any)
			}
			captured[a.Name] = a.Value.Interface()
		case params.Declared:
			if err := p.Set(target, a.Value.Interface()); err != nil {
				return &Error{Kind: CoercionFailure, ComponentType: typeName, Attribute: a.Name, Err: err}
			}
		}
	}
	if captured != nil {
		if err := table.Capture().Set(target, captured); err != nil {
			return err
		}
	}
	return nil
}
