package construct

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
	"github.com/vango-dev/frametree/pkg/params"
)

// Component is a type that declares its own markup.
type Component interface {
	Render() []markup.Node
}

// Type is a registered component type.
type Type struct {
	// Name is the full type name used in markup and in errors.
	Name string

	// Params is the parameter metadata of the type.
	Params *params.Table
}

// New returns a pointer to a new zero instance of the type.
func (t *Type) New() any {
	return reflect.New(t.Params.Type).Interface()
}

// Instantiate creates an instance and assigns the bound attribute frames
// to it.
func (t *Type) Instantiate(attrs frame.Frames) (any, error) {
	v := t.New()
	if err := t.Apply(v, attrs); err != nil {
		return nil, err
	}
	return v, nil
}

// Registry maps component names to types. Registration usually happens
// during init; lookups are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Type
	byType map[reflect.Type]*Type
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Type),
		byType: make(map[reflect.Type]*Type),
	}
}

// Register adds the type of prototype under name. prototype is a struct or
// a pointer to one; an empty name uses the package-qualified type name.
func (r *Registry) Register(name string, prototype any) (*Type, error) {
	table, err := params.Of(prototype)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = table.Name
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("construct: component %q already registered", name)
	}
	t := &Type{Name: name, Params: table}
	r.byName[name] = t
	if _, exists := r.byType[table.Type]; !exists {
		r.byType[table.Type] = t
	}
	return t, nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, prototype any) *Type {
	t, err := r.Register(name, prototype)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns the type registered under name.
func (r *Registry) Lookup(name string) (*Type, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byName[name]
	return t, ok
}

// TypeOf returns the registered type of v's dynamic type.
func (r *Registry) TypeOf(v any) (*Type, bool) {
	rt := reflect.TypeOf(v)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byType[rt]
	return t, ok
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
