package fixture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

// Attribute tags.
const (
	TagExpr   = "!expr"
	TagFlag   = "!flag"
	TagMethod = "!method"
	TagMarkup = "!markup"
)

// Error kinds, matched with errors.Is.
var (
	ErrDocument  = errors.New("invalid fixture document")
	ErrNode      = errors.New("invalid node")
	ErrAttribute = errors.New("invalid attribute")
)

// Error is a fixture parse error with its position in the source.
type Error struct {
	Kind   error
	File   string
	Line   int
	Column int
	Detail string
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%d:%d: %v: %s", e.File, e.Line, e.Column, e.Kind, e.Detail)
	}
	return fmt.Sprintf("%d:%d: %v: %s", e.Line, e.Column, e.Kind, e.Detail)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Document is a parsed fixture.
type Document struct {
	// Name is the file the document came from, if any.
	Name string

	// Owner is the registered name of the owner component. Empty means
	// the nodes are built without an owner.
	Owner string

	// Attrs are applied to the owner instance.
	Attrs []markup.Attr

	// Nodes is the markup to build. When empty and Owner is set, the
	// owner's own Render output is used.
	Nodes []markup.Node
}

// Load reads and parses the fixture at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(filepath.Base(path), data)
}

// Parse parses a fixture document. name is used in error positions.
func Parse(name string, data []byte) (*Document, error) {
	p := &parser{file: name}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &Error{Kind: ErrDocument, File: name, Line: 1, Column: 1, Detail: err.Error()}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, p.errorf(ErrDocument, &root, "empty document")
	}

	doc := &Document{Name: name}
	top := root.Content[0]
	switch top.Kind {
	case yaml.SequenceNode:
		nodes, err := p.nodes(top)
		if err != nil {
			return nil, err
		}
		doc.Nodes = nodes
		return doc, nil
	case yaml.MappingNode:
	default:
		return nil, p.errorf(ErrDocument, top, "document must be a mapping or a node list")
	}

	for i := 0; i+1 < len(top.Content); i += 2 {
		key, val := top.Content[i], top.Content[i+1]
		var err error
		switch key.Value {
		case "owner":
			doc.Owner, err = p.scalar(ErrDocument, val, "owner")
		case "attrs":
			doc.Attrs, err = p.attrs(val)
		case "nodes":
			doc.Nodes, err = p.nodes(val)
		default:
			err = p.errorf(ErrDocument, key, "unknown key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	if doc.Owner == "" && len(doc.Attrs) > 0 {
		return nil, p.errorf(ErrDocument, top, "attrs given without owner")
	}
	return doc, nil
}

// Render builds the document with c.
//
// With an owner, the owner is first bound like any component usage, then
// instantiated from its bound attributes; the document's nodes (or the
// owner's own markup) are built with that instance as owner.
func (d *Document) Render(ctx context.Context, c *construct.Constructor) (frame.Frames, error) {
	if d.Owner == "" {
		return c.Build(ctx, nil, d.Nodes)
	}

	t, ok := c.Registry().Lookup(d.Owner)
	if !ok {
		return nil, &construct.Error{Kind: construct.UnknownComponent, ComponentType: d.Owner}
	}

	bound, err := c.Build(ctx, nil, []markup.Node{markup.Comp(d.Owner, d.Attrs)})
	if err != nil {
		return nil, err
	}
	owner, err := t.Instantiate(bound.Attributes(0))
	if err != nil {
		return nil, err
	}

	if len(d.Nodes) > 0 {
		return c.Build(ctx, owner, d.Nodes)
	}
	comp, ok := owner.(construct.Component)
	if !ok {
		return nil, fmt.Errorf("fixture: owner %s has no Render method and the document has no nodes", d.Owner)
	}
	return c.Render(ctx, comp)
}

type parser struct {
	file string
}

func (p *parser) errorf(kind error, n *yaml.Node, format string, args ...any) error {
	return &Error{
		Kind:   kind,
		File:   p.file,
		Line:   n.Line,
		Column: n.Column,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (p *parser) scalar(kind error, n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", p.errorf(kind, n, "%s must be a string", what)
	}
	return n.Value, nil
}

func (p *parser) nodes(n *yaml.Node) ([]markup.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, p.errorf(ErrNode, n, "expected a list of nodes")
	}
	out := make([]markup.Node, 0, len(n.Content))
	for _, item := range n.Content {
		node, err := p.node(item)
		if err != nil {
			return nil, err
		}
		out = append(out, node)
	}
	return out, nil
}

func (p *parser) node(n *yaml.Node) (markup.Node, error) {
	if n.Kind == yaml.ScalarNode && !isCustomTag(n.Tag) {
		return markup.Text(n.Value), nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(ErrNode, n, "a node is a string or a mapping")
	}

	var (
		kind, name, target string
		kindNode           *yaml.Node
		exprNode           *yaml.Node
		attrs              []markup.Attr
		children           []markup.Node
		err                error
	)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch key.Value {
		case "text", "element", "component":
			if kind != "" {
				return nil, p.errorf(ErrNode, key, "node has both %s and %s", kind, key.Value)
			}
			kind, kindNode = key.Value, key
			name, err = p.scalar(ErrNode, val, key.Value)
		case "expr":
			if kind != "" {
				return nil, p.errorf(ErrNode, key, "node has both %s and expr", kind)
			}
			kind, kindNode, exprNode = "expr", key, val
		case "attrs":
			attrs, err = p.attrs(val)
		case "children":
			children, err = p.nodes(val)
		case "content":
			target, err = p.scalar(ErrNode, val, "content")
		default:
			err = p.errorf(ErrNode, key, "unknown key %q", key.Value)
		}
		if err != nil {
			return nil, err
		}
	}

	switch kind {
	case "text":
		if attrs != nil || children != nil || target != "" {
			return nil, p.errorf(ErrNode, kindNode, "text nodes take no attrs, children, or content")
		}
		return markup.Text(name), nil
	case "expr":
		if attrs != nil || children != nil || target != "" {
			return nil, p.errorf(ErrNode, kindNode, "expr nodes take no attrs, children, or content")
		}
		v, err := p.value(exprNode)
		if err != nil {
			return nil, err
		}
		return markup.Expr(v), nil
	case "element":
		if target != "" {
			return nil, p.errorf(ErrNode, kindNode, "content applies to components only")
		}
		return markup.El(name, attrs, children...), nil
	case "component":
		c := markup.Comp(name, attrs, children...)
		c.ContentTarget = target
		return c, nil
	}
	return nil, p.errorf(ErrNode, n, "node needs one of text, expr, element, or component")
}

func (p *parser) attrs(n *yaml.Node) ([]markup.Attr, error) {
	if n.Kind != yaml.MappingNode {
		return nil, p.errorf(ErrAttribute, n, "attrs must be a mapping")
	}
	out := make([]markup.Attr, 0, len(n.Content)/2)
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		if seen[key.Value] {
			return nil, p.errorf(ErrAttribute, key, "duplicate attribute %q", key.Value)
		}
		seen[key.Value] = true

		a, err := p.attr(key.Value, val)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (p *parser) attr(name string, n *yaml.Node) (markup.Attr, error) {
	switch n.Tag {
	case TagExpr:
		v, err := p.value(n)
		if err != nil {
			return markup.Attr{}, err
		}
		return markup.Val(name, v), nil
	case TagFlag:
		if n.Kind != yaml.ScalarNode || n.Value != "" {
			return markup.Attr{}, p.errorf(ErrAttribute, n, "%s takes no value", TagFlag)
		}
		return markup.Flag(name), nil
	case TagMethod:
		method, err := p.scalar(ErrAttribute, n, TagMethod)
		if err != nil {
			return markup.Attr{}, err
		}
		if method == "" {
			return markup.Attr{}, p.errorf(ErrAttribute, n, "%s needs a method name", TagMethod)
		}
		return markup.Method(name, method), nil
	case TagMarkup:
		nodes, err := p.nodes(n)
		if err != nil {
			return markup.Attr{}, err
		}
		return markup.Markup(name, nodes...), nil
	}

	if isCustomTag(n.Tag) {
		return markup.Attr{}, p.errorf(ErrAttribute, n, "unknown tag %s", n.Tag)
	}
	if n.Kind != yaml.ScalarNode {
		return markup.Attr{}, p.errorf(ErrAttribute, n, "attribute %q: untagged values must be literals", name)
	}
	return markup.Lit(name, n.Value), nil
}

// value decodes n as an evaluated expression, ignoring any local tag.
func (p *parser) value(n *yaml.Node) (any, error) {
	plain := *n
	if isCustomTag(plain.Tag) {
		plain.Tag = ""
	}
	var v any
	if err := plain.Decode(&v); err != nil {
		return nil, p.errorf(ErrAttribute, n, "expression: %v", err)
	}
	return v, nil
}

func isCustomTag(tag string) bool {
	return len(tag) > 1 && tag[0] == '!' && tag[1] != '!'
}
