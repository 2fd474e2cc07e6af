package construct

import (
	"context"
	"testing"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

type someType struct{ Name string }

type myComponent struct {
	IntProperty    int       `vango:"param"`
	BoolProperty   bool      `vango:"param"`
	StringProperty string    `vango:"param"`
	ObjectProperty *someType `vango:"param"`
}

type plainComponent struct {
	IntProperty int
}

type wrapper struct {
	ChildContent frame.Fragment `vango:"param"`
}

type tabs struct {
	Header       frame.Fragment `vango:"param"`
	ChildContent frame.Fragment `vango:"param"`
	Selected     int            `vango:"param"`
}

type button struct {
	Label   string         `vango:"param"`
	OnClick func(int)      `vango:"param"`
	Rest    map[string]any `vango:"param,capture"`
}

// page is an owner component with a handler method.
type page struct {
	clicks []int
	title  string
}

func (p *page) HandleClick(n int) {
	p.clicks = append(p.clicks, n)
}

func (p *page) Render() []markup.Node {
	return []markup.Node{
		markup.El("h1", nil, markup.Text("Title: "), markup.Expr(p.title)),
		markup.Comp("Test.Button", []markup.Attr{
			markup.Lit("Label", "Go"),
			markup.Method("OnClick", "HandleClick"),
		}),
	}
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	reg.MustRegister("Test.MyComponent", &myComponent{})
	reg.MustRegister("Test.PlainComponent", &plainComponent{})
	reg.MustRegister("Test.Wrapper", &wrapper{})
	reg.MustRegister("Test.Tabs", &tabs{})
	reg.MustRegister("Test.Button", &button{})
	reg.MustRegister("Test.Page", &page{})
	return reg
}

func build(t *testing.T, c *Constructor, owner any, nodes ...markup.Node) frame.Frames {
	t.Helper()
	frames, err := c.Build(context.Background(), owner, nodes)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	assertIncreasing(t, frames)
	return frames
}

func assertIncreasing(t *testing.T, frames frame.Frames) {
	t.Helper()
	for i := 1; i < len(frames); i++ {
		if frames[i].Seq <= frames[i-1].Seq {
			t.Errorf("Seq[%d] = %d not greater than Seq[%d] = %d", i, frames[i].Seq, i-1, frames[i-1].Seq)
		}
	}
}

func assertFrame(t *testing.T, f frame.Frame, kind frame.Kind, name string) {
	t.Helper()
	if f.Kind != kind {
		t.Errorf("Kind = %v, want %v (%v)", f.Kind, kind, f)
	}
	if kind == frame.KindText {
		if f.Text != name {
			t.Errorf("Text = %q, want %q", f.Text, name)
		}
		return
	}
	if f.Name != name {
		t.Errorf("Name = %q, want %q", f.Name, name)
	}
}

func invoke(t *testing.T, f frame.Frame) frame.Frames {
	t.Helper()
	if f.Kind != frame.KindAttribute || f.Value.Kind() != frame.ValueFragment {
		t.Fatalf("frame %v is not a fragment attribute", f)
	}
	nested, err := f.Value.Fragment()()
	if err != nil {
		t.Fatalf("fragment: %v", err)
	}
	assertIncreasing(t, nested)
	return nested
}
