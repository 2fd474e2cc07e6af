package markup

// SourceKind identifies how an attribute value was written in markup.
type SourceKind uint8

const (
	SourceLiteral   SourceKind = iota // name="text"
	SourceExpr                        // name="@(expr)"
	SourceMinimized                   // name with no value
	SourceHandler                     // method reference or lambda
	SourceMarkup                      // markup assigned to a named parameter
)

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string {
	switch k {
	case SourceLiteral:
		return "literal"
	case SourceExpr:
		return "expression"
	case SourceMinimized:
		return "minimized"
	case SourceHandler:
		return "handler"
	case SourceMarkup:
		return "markup"
	default:
		return "unknown"
	}
}

// HandlerForm is the surface syntax of an event handler.
type HandlerForm uint8

const (
	// FormMethod is a bare method name: OnClick="HandleClick".
	FormMethod HandlerForm = iota + 1

	// FormLambda is a func value forwarding to the handler:
	// OnClick="@(e => HandleClick(e))".
	FormLambda

	// FormBlock is a block receiving the enclosing component and the
	// event arguments: OnClick="@(e => { ... })".
	FormBlock
)

// BlockFunc is the compiled form of a block lambda. recv is the enclosing
// component instance, args are the delegate arguments.
type BlockFunc func(recv any, args []any) []any

// HandlerSource describes an event handler before binding.
type HandlerSource struct {
	Form   HandlerForm
	Method string    // FormMethod
	Func   any       // FormLambda: any func value
	Block  BlockFunc // FormBlock
}

// Source is the value side of a markup attribute.
type Source struct {
	Kind    SourceKind
	Literal string        // SourceLiteral
	Value   any           // SourceExpr
	Handler HandlerSource // SourceHandler
	Markup  []Node        // SourceMarkup
}

// Attr is a markup attribute.
type Attr struct {
	Name   string
	Source Source
}

// Lit creates a literal attribute.
func Lit(name, text string) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceLiteral, Literal: text}}
}

// Val creates an expression attribute from an evaluated result.
func Val(name string, v any) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceExpr, Value: v}}
}

// Flag creates a minimized attribute.
func Flag(name string) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceMinimized}}
}

// Method creates a handler attribute referencing a method of the enclosing
// component by name.
func Method(name, method string) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceHandler, Handler: HandlerSource{Form: FormMethod, Method: method}}}
}

// Lambda creates a handler attribute from a func value.
func Lambda(name string, fn any) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceHandler, Handler: HandlerSource{Form: FormLambda, Func: fn}}}
}

// Block creates a handler attribute from a block lambda.
func Block(name string, fn BlockFunc) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceHandler, Handler: HandlerSource{Form: FormBlock, Block: fn}}}
}

// Markup creates an attribute whose value is captured markup.
func Markup(name string, nodes ...Node) Attr {
	return Attr{Name: name, Source: Source{Kind: SourceMarkup, Markup: nodes}}
}
