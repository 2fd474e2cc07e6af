package render

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
)

// DefaultMaxDepth bounds component nesting when no limit is configured.
const DefaultMaxDepth = 64

// ErrMaxDepthExceeded is returned when components nest deeper than the
// configured limit, usually because a component renders itself.
var ErrMaxDepthExceeded = errors.New("render: maximum component depth exceeded")

// Config configures the HTML renderer.
type Config struct {
	// MaxDepth is the maximum component nesting depth. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// Markers enables data-on-* attributes for elements with handlers.
	Markers bool
}

// Renderer writes frame arrays as HTML. A Renderer is safe for concurrent
// use when its constructor is.
type Renderer struct {
	constructor *construct.Constructor
	config      Config
}

// NewRenderer creates a Renderer that instantiates components through c.
func NewRenderer(c *construct.Constructor, config Config) *Renderer {
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	return &Renderer{constructor: c, config: config}
}

// RenderToString renders fs to an HTML string.
func (r *Renderer) RenderToString(ctx context.Context, fs frame.Frames) (string, error) {
	var b strings.Builder
	if err := r.RenderToWriter(ctx, &b, fs); err != nil {
		return "", err
	}
	return b.String(), nil
}

// RenderToWriter streams fs to w as HTML.
func (r *Renderer) RenderToWriter(ctx context.Context, w io.Writer, fs frame.Frames) error {
	bw := bufio.NewWriter(w)
	if err := r.renderRange(ctx, bw, fs, 0, len(fs), 0); err != nil {
		return err
	}
	return bw.Flush()
}

// RenderComponent renders comp's own markup to w.
func (r *Renderer) RenderComponent(ctx context.Context, w io.Writer, comp construct.Component) error {
	fs, err := r.constructor.Render(ctx, comp)
	if err != nil {
		return err
	}
	return r.RenderToWriter(ctx, w, fs)
}

// renderRange renders the sibling frames in fs[start:end].
func (r *Renderer) renderRange(ctx context.Context, w *bufio.Writer, fs frame.Frames, start, end, depth int) error {
	for i := start; i < end; {
		f := fs[i]
		switch f.Kind {
		case frame.KindText:
			w.WriteString(escape(f.Text, false))
			i++
		case frame.KindElement:
			if err := r.renderElement(ctx, w, fs, i, depth); err != nil {
				return err
			}
			i += f.Size
		case frame.KindComponent:
			if err := r.renderComponent(ctx, w, fs, i, depth); err != nil {
				return err
			}
			i += f.Size
		default:
			return fmt.Errorf("render: unexpected %s frame at %d", f.Kind, i)
		}
	}
	return nil
}

func (r *Renderer) renderElement(ctx context.Context, w *bufio.Writer, fs frame.Frames, i, depth int) error {
	f := fs[i]
	attrs := fs.Attributes(i)

	w.WriteByte('<')
	w.WriteString(f.Name)
	var events []string
	for _, a := range attrs {
		switch a.Value.Kind() {
		case frame.ValueHandler:
			events = append(events, strings.TrimPrefix(strings.ToLower(a.Name), "on"))
		case frame.ValueFragment:
			// Content attributes only mean something to components.
		case frame.ValueBool:
			if booleanAttrs[a.Name] {
				if a.Value.Bool() {
					w.WriteByte(' ')
					w.WriteString(a.Name)
				}
				continue
			}
			writeAttr(w, a.Name, fmt.Sprint(a.Value.Bool()))
		default:
			if a.Value.Interface() == nil {
				continue
			}
			writeAttr(w, a.Name, fmt.Sprint(a.Value.Interface()))
		}
	}
	if r.config.Markers {
		for _, ev := range events {
			writeAttr(w, "data-on-"+ev, "true")
		}
	}
	w.WriteByte('>')

	if voidElements[f.Name] {
		return nil
	}
	if err := r.renderRange(ctx, w, fs, i+1+len(attrs), i+f.Size, depth); err != nil {
		return err
	}
	w.WriteString("</")
	w.WriteString(f.Name)
	w.WriteByte('>')
	return nil
}

// renderComponent instantiates the component at fs[i] from its bound
// attributes and renders its markup in place. Components without markup
// render nothing.
func (r *Renderer) renderComponent(ctx context.Context, w *bufio.Writer, fs frame.Frames, i, depth int) error {
	if depth >= r.config.MaxDepth {
		return fmt.Errorf("%w at %s", ErrMaxDepthExceeded, fs[i].Name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	t, ok := r.constructor.Registry().Lookup(fs[i].Name)
	if !ok {
		return &construct.Error{Kind: construct.UnknownComponent, ComponentType: fs[i].Name}
	}
	v, err := t.Instantiate(fs.Attributes(i))
	if err != nil {
		return err
	}
	comp, ok := v.(construct.Component)
	if !ok {
		return nil
	}
	inner, err := r.constructor.Render(ctx, comp)
	if err != nil {
		return err
	}
	return r.renderRange(ctx, w, inner, 0, len(inner), depth+1)
}

func writeAttr(w *bufio.Writer, name, value string) {
	w.WriteByte(' ')
	w.WriteString(name)
	w.WriteString(`="`)
	w.WriteString(escape(value, true))
	w.WriteByte('"')
}
