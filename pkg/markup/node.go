package markup

// Node is one item of component markup.
type Node interface {
	node()
}

// TextNode is a contiguous literal text span.
type TextNode struct {
	Value string
}

func (TextNode) node() {}

// ExprNode is an embedded expression placed in content position.
// Value holds the evaluated result.
type ExprNode struct {
	Value any
}

func (ExprNode) node() {}

// ElementNode is a plain markup element such as <div>.
type ElementNode struct {
	Tag      string
	Attrs    []Attr
	Children []Node
}

func (ElementNode) node() {}

// ComponentNode is an invocation of a component type.
type ComponentNode struct {
	// Name is the registered name of the component type.
	Name string

	// Attrs are the markup attributes in source order.
	Attrs []Attr

	// Children is the inner markup, captured as child content.
	Children []Node

	// ContentTarget names the parameter receiving Children.
	// Empty means the default child content parameter.
	ContentTarget string
}

func (ComponentNode) node() {}

// Text creates a literal text node.
func Text(s string) TextNode { return TextNode{Value: s} }

// Expr creates an expression node from an evaluated result.
func Expr(v any) ExprNode { return ExprNode{Value: v} }

// El creates an element node.
func El(tag string, attrs []Attr, children ...Node) ElementNode {
	return ElementNode{Tag: tag, Attrs: attrs, Children: children}
}

// Comp creates a component node.
func Comp(name string, attrs []Attr, children ...Node) ComponentNode {
	return ComponentNode{Name: name, Attrs: attrs, Children: children}
}
