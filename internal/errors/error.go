package errors

import (
	"bufio"
	"errors"
	"fmt"
	"os"
)

// Category groups diagnostics by the layer that raised them.
type Category string

const (
	CategoryBinding  Category = "binding"
	CategoryInternal Category = "internal"
	CategoryFixture  Category = "fixture"
	CategoryConfig   Category = "config"
	CategoryStorage  Category = "storage"
	CategoryCLI      Category = "cli"
)

// Location is a position in a source file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// Diagnostic is a coded error with presentation details.
type Diagnostic struct {
	// Code is a stable identifier such as "F001".
	Code string

	// Category is the layer that raised the error.
	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location points into the fixture file, if known.
	Location *Location

	// Context holds the source lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	if d.Wrapped != nil {
		msg += ": " + d.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (d *Diagnostic) Unwrap() error {
	return d.Wrapped
}

// WithLocation records a source location and reads its context lines.
func (d *Diagnostic) WithLocation(file string, line, column int) *Diagnostic {
	d.Location = &Location{File: file, Line: line, Column: column}
	d.Context = readContextLines(file, line, 3)
	return d
}

// WithSuggestion adds a fix suggestion.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestion = s
	return d
}

// WithDetail replaces the detailed explanation.
func (d *Diagnostic) WithDetail(detail string) *Diagnostic {
	d.Detail = detail
	return d
}

// Wrap sets the underlying error.
func (d *Diagnostic) Wrap(err error) *Diagnostic {
	d.Wrapped = err
	return d
}

// readContextLines reads up to size lines centred on target.
func readContextLines(filename string, target, size int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	n := 0
	start := target - size/2
	end := target + size/2
	for scanner.Scan() {
		n++
		if n >= start && n <= end {
			lines = append(lines, scanner.Text())
		}
		if n > end {
			break
		}
	}
	return lines
}

// New creates a Diagnostic from a registered code.
func New(code string) *Diagnostic {
	t, ok := registry[code]
	if !ok {
		return &Diagnostic{Code: code, Message: "Unknown error"}
	}
	return &Diagnostic{
		Code:     code,
		Category: t.Category,
		Message:  t.Message,
		Detail:   t.Detail,
	}
}

// Newf creates an uncoded Diagnostic with a formatted message.
func Newf(category Category, format string, args ...any) *Diagnostic {
	return &Diagnostic{Category: category, Message: fmt.Sprintf(format, args...)}
}

// FromError wraps err in a Diagnostic with the given code. An err that
// already is or wraps a Diagnostic is returned as that Diagnostic.
func FromError(err error, code string) *Diagnostic {
	if err == nil {
		return nil
	}
	var d *Diagnostic
	if errors.As(err, &d) {
		return d
	}
	return New(code).Wrap(err)
}
