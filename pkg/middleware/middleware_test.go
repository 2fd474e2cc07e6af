package middleware

import (
	"context"
	"testing"

	"github.com/vango-dev/frametree/pkg/construct"
	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

type card struct {
	Title        string         `vango:"param"`
	Count        int            `vango:"param"`
	ChildContent frame.Fragment `vango:"param"`
}

type host struct{}

func (h *host) Render() []markup.Node {
	return []markup.Node{
		markup.Comp("Card", []markup.Attr{markup.Lit("Title", "hi")},
			markup.El("p", nil, markup.Text("inside")),
		),
	}
}

func newConstructor(mw ...construct.Middleware) *construct.Constructor {
	reg := construct.NewRegistry()
	reg.MustRegister("Card", &card{})
	reg.MustRegister("Host", &host{})
	return construct.New(reg, construct.WithMiddleware(mw...))
}

// renderHost renders host and invokes the captured child content.
func renderHost(t *testing.T, c *construct.Constructor) {
	t.Helper()
	fs, err := c.Render(context.Background(), &host{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := fs.Fragment(2); err != nil {
		t.Fatalf("Fragment: %v", err)
	}
}

func failingNodes() []markup.Node {
	return []markup.Node{
		markup.Comp("Card", []markup.Attr{markup.Lit("Count", "many")}),
	}
}
