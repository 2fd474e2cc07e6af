package errors

import (
	"errors"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
)

// codes maps construction error kinds to diagnostic codes.
var codes = map[construct.ErrorKind]string{
	construct.ParameterNotDeclared: "F001",
	construct.CoercionFailure:      "F002",
	construct.ParameterNotFound:    "F003",
	construct.UnknownComponent:     "F004",
}

// FromConstruct converts a construction failure into a Diagnostic. Errors
// that are not construction failures are wrapped with fallback.
func FromConstruct(err error, fallback string) *Diagnostic {
	if err == nil {
		return nil
	}
	var cerr *construct.Error
	if errors.As(err, &cerr) {
		d := New(codes[cerr.Kind]).Wrap(err)
		switch cerr.Kind {
		case construct.ParameterNotDeclared:
			d.WithSuggestion("Add `vango:\"param\"` to the " + cerr.Attribute + " field of " + cerr.ComponentType)
		case construct.UnknownComponent:
			d.WithSuggestion("Run `frametree catalog` to list registered components")
		}
		return d
	}
	var perr *frame.ProtocolError
	if errors.As(err, &perr) {
		return New("F005").Wrap(err)
	}
	return FromError(err, fallback)
}
