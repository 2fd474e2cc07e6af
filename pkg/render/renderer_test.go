package render

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

type box struct {
	Title        string         `vango:"param"`
	ChildContent frame.Fragment `vango:"param"`
}

func (b *box) Render() []markup.Node {
	return []markup.Node{
		markup.El("section", nil,
			markup.El("h1", nil, markup.Expr(b.Title)),
			markup.Expr(b.ChildContent),
		),
	}
}

type label struct {
	Text string `vango:"param"`
}

func (l *label) Render() []markup.Node {
	return []markup.Node{markup.El("span", nil, markup.Expr(l.Text))}
}

type loop struct{}

func (loop) Render() []markup.Node {
	return []markup.Node{markup.Comp("Test.Loop", nil)}
}

// plain declares no markup.
type plain struct {
	N int `vango:"param"`
}

type clicker struct{ clicks int }

func (c *clicker) Click() { c.clicks++ }

func newConstructor() *construct.Constructor {
	reg := construct.NewRegistry()
	reg.MustRegister("Test.Box", &box{})
	reg.MustRegister("Test.Label", &label{})
	reg.MustRegister("Test.Loop", &loop{})
	reg.MustRegister("Test.Plain", &plain{})
	return construct.New(reg)
}

func renderNodes(t *testing.T, config Config, owner any, nodes ...markup.Node) (string, error) {
	t.Helper()
	c := newConstructor()
	fs, err := c.Build(context.Background(), owner, nodes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return NewRenderer(c, config).RenderToString(context.Background(), fs)
}

func TestRenderElements(t *testing.T) {
	tests := []struct {
		name  string
		nodes []markup.Node
		want  string
	}{
		{
			name: "escaping and boolean attributes",
			nodes: []markup.Node{
				markup.El("p", []markup.Attr{
					markup.Lit("title", `a"b`),
					markup.Flag("hidden"),
					markup.Val("disabled", false),
				}, markup.Text("<x> & y")),
			},
			want: `<p title="a&quot;b" hidden>&lt;x&gt; &amp; y</p>`,
		},
		{
			name: "void elements",
			nodes: []markup.Node{
				markup.El("input", []markup.Attr{markup.Val("value", 3)}),
				markup.El("br", nil),
			},
			want: `<input value="3"><br>`,
		},
		{
			name: "non-boolean flag",
			nodes: []markup.Node{
				markup.El("div", []markup.Attr{markup.Flag("data-open")}),
			},
			want: `<div data-open="true"></div>`,
		},
		{
			name: "nested text segments",
			nodes: []markup.Node{
				markup.El("ul", nil,
					markup.El("li", nil, markup.Text("a"), markup.Expr(1)),
					markup.El("li", nil, markup.Expr(nil)),
				),
			},
			want: `<ul><li>a1</li><li></li></ul>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := renderNodes(t, Config{}, nil, tt.nodes...)
			if err != nil {
				t.Fatalf("RenderToString() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("RenderToString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderComponents(t *testing.T) {
	got, err := renderNodes(t, Config{}, nil,
		markup.Comp("Test.Box", []markup.Attr{markup.Lit("Title", "Hi")},
			markup.Text("body "),
			markup.Comp("Test.Label", []markup.Attr{markup.Lit("Text", "x")}),
		),
		markup.Comp("Test.Plain", []markup.Attr{markup.Lit("N", "2")}),
	)
	if err != nil {
		t.Fatalf("RenderToString() error = %v", err)
	}
	want := `<section><h1>Hi</h1>body <span>x</span></section>`
	if got != want {
		t.Errorf("RenderToString() = %q, want %q", got, want)
	}
}

func TestRenderHandlerMarkers(t *testing.T) {
	owner := &clicker{}
	button := markup.El("button", []markup.Attr{markup.Method("onClick", "Click")}, markup.Text("go"))

	tests := []struct {
		markers bool
		want    string
	}{
		{false, `<button>go</button>`},
		{true, `<button data-on-click="true">go</button>`},
	}
	for _, tt := range tests {
		got, err := renderNodes(t, Config{Markers: tt.markers}, owner, button)
		if err != nil {
			t.Fatalf("RenderToString() error = %v", err)
		}
		if got != tt.want {
			t.Errorf("markers=%v: RenderToString() = %q, want %q", tt.markers, got, tt.want)
		}
	}
}

func TestRenderComponent(t *testing.T) {
	var b strings.Builder
	r := NewRenderer(newConstructor(), Config{})
	if err := r.RenderComponent(context.Background(), &b, &label{Text: "a<b"}); err != nil {
		t.Fatalf("RenderComponent() error = %v", err)
	}
	if got, want := b.String(), "<span>a&lt;b</span>"; got != want {
		t.Errorf("RenderComponent() = %q, want %q", got, want)
	}
}

func TestRenderMaxDepth(t *testing.T) {
	_, err := renderNodes(t, Config{MaxDepth: 3}, nil, markup.Comp("Test.Loop", nil))
	if !errors.Is(err, ErrMaxDepthExceeded) {
		t.Errorf("err = %v, want ErrMaxDepthExceeded", err)
	}
}

func TestRenderUnknownComponent(t *testing.T) {
	b := frame.NewBuilder()
	b.OpenComponent("Missing")
	b.Close()

	_, err := NewRenderer(newConstructor(), Config{}).RenderToString(context.Background(), b.Finish())
	if !errors.Is(err, construct.ErrUnknownComponent) {
		t.Errorf("err = %v, want UnknownComponent", err)
	}
}

func TestRenderCanceled(t *testing.T) {
	c := newConstructor()
	fs, err := c.Build(context.Background(), nil, []markup.Node{markup.Comp("Test.Label", nil)})
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewRenderer(c, Config{}).RenderToString(ctx, fs); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		attr bool
		want string
	}{
		{"plain", false, "plain"},
		{`<a href="x">`, false, "&lt;a href=&quot;x&quot;&gt;"},
		{"it's", false, "it&#39;s"},
		{"a\nb", false, "a\nb"},
		{"a\nb\tc\r", true, "a&#10;b&#9;c&#13;"},
	}
	for _, tt := range tests {
		if got := escape(tt.in, tt.attr); got != tt.want {
			t.Errorf("escape(%q, %v) = %q, want %q", tt.in, tt.attr, got, tt.want)
		}
	}
}
