package construct

import (
	"context"
	"log/slog"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
	"github.com/vango-dev/frametree/pkg/params"
)

// ChildContentName is the parameter that receives a component's inner
// markup when no ContentTarget is given.
const ChildContentName = "ChildContent"

// Scope is one construction scope: the markup of a component, or a
// fragment captured from it.
type Scope struct {
	// Owner is the enclosing component instance. Handler method references
	// bind to it. Fragments keep a reference to the same owner.
	Owner any

	// Name is the type name of the owner.
	Name string

	// Depth is 0 for a component's own markup and grows by one per
	// captured fragment level.
	Depth int

	// Nodes is the markup being built.
	Nodes []markup.Node
}

// BuildFunc builds the frame array of one scope.
type BuildFunc func(ctx context.Context, s Scope) (frame.Frames, error)

// Middleware wraps scope construction, for metrics and tracing.
type Middleware func(next BuildFunc) BuildFunc

// Constructor builds frame arrays from markup.
// A Constructor is safe for concurrent use; each build owns its builder.
type Constructor struct {
	registry   *Registry
	logger     *slog.Logger
	middleware []Middleware
	build      BuildFunc
}

// Option configures a Constructor.
type Option func(*Constructor)

// WithLogger sets the logger. If nil, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Constructor) {
		c.logger = logger
	}
}

// WithMiddleware appends middleware. The first middleware is outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Constructor) {
		c.middleware = append(c.middleware, mw...)
	}
}

// New creates a Constructor resolving component names against reg.
func New(reg *Registry, opts ...Option) *Constructor {
	c := &Constructor{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = NewRegistry()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	c.logger = c.logger.With("component", "construct")

	c.build = c.construct
	for i := len(c.middleware) - 1; i >= 0; i-- {
		c.build = c.middleware[i](c.build)
	}
	return c
}

// Registry returns the registry used to resolve component names.
func (c *Constructor) Registry() *Registry {
	return c.registry
}

// Render builds the frame array of comp's own markup.
func (c *Constructor) Render(ctx context.Context, comp Component) (frame.Frames, error) {
	return c.Build(ctx, comp, comp.Render())
}

// Build builds the frame array for nodes. owner is the enclosing component
// instance; it may be nil when the markup references no handler methods.
func (c *Constructor) Build(ctx context.Context, owner any, nodes []markup.Node) (frame.Frames, error) {
	return c.build(ctx, Scope{Owner: owner, Name: c.ownerName(owner), Nodes: nodes})
}

func (c *Constructor) ownerName(owner any) string {
	if owner == nil {
		return ""
	}
	if t, ok := c.registry.TypeOf(owner); ok {
		return t.Name
	}
	if table, err := params.Of(owner); err == nil {
		return table.Name
	}
	return ""
}

// construct is the innermost BuildFunc.
func (c *Constructor) construct(ctx context.Context, s Scope) (frame.Frames, error) {
	b := frame.NewBuilder()
	for _, n := range s.Nodes {
		if err := c.emit(ctx, s, b, n); err != nil {
			return nil, err
		}
	}
	return b.Finish(), nil
}

func (c *Constructor) emit(ctx context.Context, s Scope, b *frame.Builder, n markup.Node) error {
	switch n := n.(type) {
	case markup.TextNode:
		b.AddText(n.Value)
	case markup.ExprNode:
		return c.emitExpr(b, n)
	case markup.ElementNode:
		return c.emitElement(ctx, s, b, n)
	case markup.ComponentNode:
		return c.emitComponent(ctx, s, b, n)
	}
	return nil
}

// emitExpr emits one Text frame per expression. A fragment-valued
// expression is built and spliced inline instead.
func (c *Constructor) emitExpr(b *frame.Builder, n markup.ExprNode) error {
	if v := frame.ValueOf(n.Value); v.Kind() == frame.ValueFragment {
		f := v.Fragment()
		if f == nil {
			b.AddText("")
			return nil
		}
		frames, err := f()
		if err != nil {
			return err
		}
		b.AddFrames(frames)
		return nil
	}
	b.AddText(params.Textual(n.Value))
	return nil
}

func (c *Constructor) emitElement(ctx context.Context, s Scope, b *frame.Builder, n markup.ElementNode) error {
	b.OpenElement(n.Tag)
	for _, a := range n.Attrs {
		v, err := c.passthrough(ctx, s, a)
		if err != nil {
			return c.fail(&Error{Kind: CoercionFailure, ComponentType: n.Tag, Attribute: a.Name, Err: err})
		}
		b.AddAttribute(a.Name, v)
	}
	for _, child := range n.Children {
		if err := c.emit(ctx, s, b, child); err != nil {
			return err
		}
	}
	b.Close()
	return nil
}

func (c *Constructor) emitComponent(ctx context.Context, s Scope, b *frame.Builder, n markup.ComponentNode) error {
	t, ok := c.registry.Lookup(n.Name)
	if !ok {
		return c.fail(&Error{Kind: UnknownComponent, ComponentType: n.Name})
	}
	b.OpenComponent(t.Name)
	for _, a := range n.Attrs {
		if err := c.bind(ctx, s, b, t, a); err != nil {
			return err
		}
	}
	if len(n.Children) > 0 {
		target := n.ContentTarget
		if target == "" {
			target = ChildContentName
		}
		if err := c.bind(ctx, s, b, t, markup.Markup(target, n.Children...)); err != nil {
			return err
		}
	}
	b.Close()
	return nil
}

// bind resolves one component attribute and appends its frame.
func (c *Constructor) bind(ctx context.Context, s Scope, b *frame.Builder, t *Type, a markup.Attr) error {
	p, res := t.Params.Resolve(a.Name)
	var (
		v   frame.Value
		err error
	)
	switch res {
	case params.Undeclared:
		return c.fail(&Error{Kind: ParameterNotDeclared, ComponentType: t.Name, Attribute: a.Name})
	case params.NotFound:
		v, err = c.passthrough(ctx, s, a)
	case params.Declared:
		if a.Source.Kind == markup.SourceMarkup && p.AcceptsFragment() {
			v = frame.FragmentValue(c.capture(ctx, s, a.Source.Markup))
		} else {
			v, err = params.Coerce(p, a.Source, s.Owner)
		}
	}
	if err != nil {
		return c.fail(&Error{Kind: CoercionFailure, ComponentType: t.Name, Attribute: a.Name, Err: err})
	}
	b.AddAttribute(a.Name, v)
	return nil
}

func (c *Constructor) passthrough(ctx context.Context, s Scope, a markup.Attr) (frame.Value, error) {
	if a.Source.Kind == markup.SourceMarkup {
		return frame.FragmentValue(c.capture(ctx, s, a.Source.Markup)), nil
	}
	return params.Passthrough(a.Source, s.Owner)
}

// capture wraps nodes as a lazily built fragment one level below s.
func (c *Constructor) capture(ctx context.Context, s Scope, nodes []markup.Node) frame.Fragment {
	child := Scope{Owner: s.Owner, Name: s.Name, Depth: s.Depth + 1, Nodes: nodes}
	return func() (frame.Frames, error) {
		return c.build(ctx, child)
	}
}

func (c *Constructor) fail(err *Error) error {
	c.logger.Debug("frame construction failed",
		"kind", err.Kind.String(),
		"type", err.ComponentType,
		"attribute", err.Attribute,
		"error", err.Err,
	)
	return err
}
