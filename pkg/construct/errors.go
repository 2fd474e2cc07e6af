package construct

import "fmt"

// ErrorKind classifies construction failures.
type ErrorKind uint8

const (
	// ParameterNotDeclared: the attribute matches a property that is not
	// declared as a parameter.
	ParameterNotDeclared ErrorKind = iota + 1

	// CoercionFailure: the attribute value cannot be converted to the
	// parameter type.
	CoercionFailure

	// ParameterNotFound: Apply was given an attribute matching no property
	// on a type without a capture parameter.
	ParameterNotFound

	// UnknownComponent: markup names a component type that is not
	// registered.
	UnknownComponent
)

// String returns the string representation of the ErrorKind.
func (k ErrorKind) String() string {
	switch k {
	case ParameterNotDeclared:
		return "ParameterNotDeclared"
	case CoercionFailure:
		return "CoercionFailure"
	case ParameterNotFound:
		return "ParameterNotFound"
	case UnknownComponent:
		return "UnknownComponent"
	default:
		return "Unknown"
	}
}

// Error is a construction failure for one component or element.
type Error struct {
	Kind ErrorKind

	// ComponentType is the full name of the component type, or the tag of
	// the element, whose attribute failed.
	ComponentType string

	// Attribute is the markup attribute name.
	Attribute string

	// Err is the underlying cause, if any.
	Err error
}

// Sentinel errors for use with errors.Is. They match any *Error of the
// same kind.
var (
	ErrParameterNotDeclared = &Error{Kind: ParameterNotDeclared}
	ErrCoercionFailure      = &Error{Kind: CoercionFailure}
	ErrParameterNotFound    = &Error{Kind: ParameterNotFound}
	ErrUnknownComponent     = &Error{Kind: UnknownComponent}
)

// Error implements the error interface.
func (e *Error) Error() string {
	switch e.Kind {
	case ParameterNotDeclared:
		return fmt.Sprintf("Object of type '%s' has a property matching the name '%s', but it does not have the parameter declaration applied.", e.ComponentType, e.Attribute)
	case ParameterNotFound:
		return fmt.Sprintf("Object of type '%s' does not have a property matching the name '%s'.", e.ComponentType, e.Attribute)
	case UnknownComponent:
		return fmt.Sprintf("Component type '%s' is not registered.", e.ComponentType)
	case CoercionFailure:
		if e.Err != nil {
			return fmt.Sprintf("Unable to set property '%s' on object of type '%s': %v", e.Attribute, e.ComponentType, e.Err)
		}
		return fmt.Sprintf("Unable to set property '%s' on object of type '%s'.", e.Attribute, e.ComponentType)
	}
	return fmt.Sprintf("construct: %s error on '%s'", e.Kind, e.ComponentType)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.ComponentType == "" && t.Attribute == "" && t.Kind == e.Kind
}
