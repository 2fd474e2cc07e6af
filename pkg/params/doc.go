// Package params resolves markup attribute names against component types and
// coerces attribute values to the declared parameter types.
//
// Component types are Go structs. Every exported field is a property; a
// property becomes a bindable parameter when tagged:
//
//	type Card struct {
//	    Title        string         `vango:"param"`
//	    Count        int            `vango:"param"`
//	    Open         bool           `vango:"param"`
//	    OnToggle     func(bool)     `vango:"param"`
//	    ChildContent frame.Fragment `vango:"param"`
//	    Extra        map[string]any `vango:"param,capture"`
//	    Internal     string         // property, not a parameter
//	}
//
// The tag may rename the parameter with name=, and a single map[string]any
// field may be marked capture to receive attributes that match no property.
//
// Metadata is computed once per type with For and cached for the life of the
// process. Tables are read-only after construction and safe for concurrent
// use.
package params
