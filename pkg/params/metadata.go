package params

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TagName is the struct tag key that declares parameters.
const TagName = "vango"

// Resolution is the outcome of resolving an attribute name.
type Resolution uint8

const (
	NotFound   Resolution = iota // No property with that name
	Undeclared                   // Property exists but is not a parameter
	Declared                     // Bindable parameter
)

// String returns the string representation of the Resolution.
func (r Resolution) String() string {
	switch r {
	case NotFound:
		return "NotFound"
	case Undeclared:
		return "Undeclared"
	case Declared:
		return "Declared"
	default:
		return "Unknown"
	}
}

// Property describes one settable property of a component type.
type Property struct {
	Name     string
	Type     reflect.Type
	Category Category
	Param    bool
	index    []int
}

// Table is the parameter metadata of one component type.
type Table struct {
	// Type is the struct type described by the table.
	Type reflect.Type

	// Name is the package-qualified type name.
	Name string

	props   map[string]*Property
	order   []*Property
	capture *Property
}

var tables sync.Map // reflect.Type -> *Table

// For returns the metadata table for t, which must be a struct type or a
// pointer to one. Tables are built on first use and cached.
func For(t reflect.Type) (*Table, error) {
	if t == nil {
		return nil, fmt.Errorf("params: nil component type")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := tables.Load(t); ok {
		return cached.(*Table), nil
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("params: component type %s is not a struct", t)
	}
	table, err := buildTable(t)
	if err != nil {
		return nil, err
	}
	actual, _ := tables.LoadOrStore(t, table)
	return actual.(*Table), nil
}

// Of returns the metadata table for the dynamic type of v.
func Of(v any) (*Table, error) {
	return For(reflect.TypeOf(v))
}

func buildTable(t reflect.Type) (*Table, error) {
	table := &Table{
		Type:  t,
		Name:  qualifiedName(t),
		props: make(map[string]*Property),
	}
	for _, f := range reflect.VisibleFields(t) {
		if f.Anonymous || !f.IsExported() {
			continue
		}
		p := &Property{
			Name:     f.Name,
			Type:     f.Type,
			Category: categorize(f.Type),
			index:    f.Index,
		}
		opts, tagged := parseTag(f.Tag.Get(TagName))
		if tagged {
			p.Param = true
			if opts.name != "" {
				p.Name = opts.name
			}
			if opts.capture {
				if f.Type != captureType {
					return nil, fmt.Errorf("params: capture field %s.%s must be map[string]any", t, f.Name)
				}
				if table.capture != nil {
					return nil, fmt.Errorf("params: %s declares more than one capture field", t)
				}
				table.capture = p
			}
		}
		if _, dup := table.props[p.Name]; dup {
			return nil, fmt.Errorf("params: %s declares %q twice", t, p.Name)
		}
		table.props[p.Name] = p
		table.order = append(table.order, p)
	}
	return table, nil
}

type tagOptions struct {
	name    string
	capture bool
}

func parseTag(tag string) (tagOptions, bool) {
	var opts tagOptions
	parts := strings.Split(tag, ",")
	if parts[0] != "param" {
		return opts, false
	}
	for _, part := range parts[1:] {
		switch {
		case part == "capture":
			opts.capture = true
		case strings.HasPrefix(part, "name="):
			opts.name = strings.TrimPrefix(part, "name=")
		}
	}
	return opts, true
}

func qualifiedName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// Resolve looks up an attribute name. Matching is exact and case-sensitive.
func (t *Table) Resolve(name string) (*Property, Resolution) {
	p, ok := t.props[name]
	if !ok {
		return nil, NotFound
	}
	if !p.Param {
		return p, Undeclared
	}
	return p, Declared
}

// Parameters returns the declared parameters in field order.
func (t *Table) Parameters() []*Property {
	var out []*Property
	for _, p := range t.order {
		if p.Param {
			out = append(out, p)
		}
	}
	return out
}

// Capture returns the unmatched-attribute capture parameter, if declared.
func (t *Table) Capture() *Property {
	return t.capture
}

// Set assigns v to the property on dst, which must be an addressable value
// of the table's struct type. Values of a convertible type are converted
// for bool, number, and string parameters.
func (p *Property) Set(dst reflect.Value, v any) error {
	field, err := dst.FieldByIndexErr(p.index)
	if err != nil {
		return fmt.Errorf("params: set %s: %w", p.Name, err)
	}
	if !field.CanSet() {
		return fmt.Errorf("params: set %s: field is not settable", p.Name)
	}
	if v == nil {
		field.Set(reflect.Zero(p.Type))
		return nil
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(p.Type):
		field.Set(rv)
	case p.Category.convertible() && rv.Type().ConvertibleTo(p.Type):
		field.Set(rv.Convert(p.Type))
	default:
		return fmt.Errorf("params: set %s: cannot assign %s to %s", p.Name, rv.Type(), p.Type)
	}
	return nil
}
