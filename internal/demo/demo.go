// Package demo holds the sample component catalog rendered by the CLI and
// the inspector when no application registry is supplied.
package demo

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

//go:embed fixtures/*.yaml
var fixtures embed.FS

// Register adds the demo components to reg.
func Register(reg *construct.Registry) {
	reg.MustRegister("Demo.Layout", &Layout{})
	reg.MustRegister("Demo.Card", &Card{})
	reg.MustRegister("Demo.Counter", &Counter{})
	reg.MustRegister("Demo.Page", &Page{})
}

// Registry returns a new registry holding only the demo components.
func Registry() *construct.Registry {
	reg := construct.NewRegistry()
	Register(reg)
	return reg
}

// Layout wraps its child content in a titled page shell.
type Layout struct {
	Title        string         `vango:"param"`
	ChildContent frame.Fragment `vango:"param"`
}

func (l *Layout) Render() []markup.Node {
	return []markup.Node{
		markup.El("header", nil, markup.El("h1", nil, markup.Expr(l.Title))),
		markup.El("main", nil, markup.Expr(l.ChildContent)),
	}
}

// Card is a selectable card with an optional header.
type Card struct {
	Title        string         `vango:"param"`
	Highlighted  bool           `vango:"param"`
	OnSelect     func()         `vango:"param"`
	Header       frame.Fragment `vango:"param"`
	ChildContent frame.Fragment `vango:"param"`
	Attributes   map[string]any `vango:"param,capture"`

	// Selected counts OnSelect calls. It is a property, not a parameter.
	Selected int
}

func (c *Card) Render() []markup.Node {
	class := "card"
	if c.Highlighted {
		class += " card-highlighted"
	}
	attrs := []markup.Attr{markup.Lit("class", class)}
	for _, name := range sortedKeys(c.Attributes) {
		attrs = append(attrs, markup.Val(name, c.Attributes[name]))
	}
	return []markup.Node{
		markup.El("article", attrs,
			markup.Expr(c.Header),
			markup.El("h2", nil, markup.Expr(c.Title)),
			markup.Expr(c.ChildContent),
		),
	}
}

// Counter is a stateful counter with a button bound to Increment.
type Counter struct {
	Start int `vango:"param"`
	Step  int `vango:"param"`

	count int
}

// Increment advances the counter by Step, or by one when Step is zero.
func (c *Counter) Increment() {
	if c.Step == 0 {
		c.count++
		return
	}
	c.count += c.Step
}

// Value returns the current count.
func (c *Counter) Value() int {
	return c.Start + c.count
}

func (c *Counter) Render() []markup.Node {
	return []markup.Node{
		markup.El("span", []markup.Attr{markup.Lit("class", "count")},
			markup.Text("Count: "), markup.Expr(c.Value())),
		markup.El("button", []markup.Attr{markup.Method("onclick", "Increment")},
			markup.Text("+")),
	}
}

// Page composes the other demo components.
type Page struct {
	Heading string `vango:"param"`

	selections int
}

// Select records a card selection.
func (p *Page) Select() {
	p.selections++
}

func (p *Page) Render() []markup.Node {
	return []markup.Node{
		markup.Comp("Demo.Layout", []markup.Attr{markup.Val("Title", p.Heading)},
			markup.Comp("Demo.Card", []markup.Attr{
				markup.Lit("Title", "Counter"),
				markup.Flag("Highlighted"),
				markup.Method("OnSelect", "Select"),
				markup.Markup("Header", markup.Text("Live")),
				markup.Lit("data-role", "demo"),
			},
				markup.Comp("Demo.Counter", []markup.Attr{markup.Lit("Start", "1")}),
			),
		),
	}
}

// Fixtures lists the names of the embedded sample fixtures.
func Fixtures() []string {
	entries, _ := fs.ReadDir(fixtures, "fixtures")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	return names
}

// Fixture returns the source of the embedded fixture name.
func Fixture(name string) ([]byte, error) {
	return fixtures.ReadFile("fixtures/" + name + ".yaml")
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
