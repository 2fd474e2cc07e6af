// Package markup defines the input contract of the construction engine.
//
// A markup front-end (a template compiler, a code generator, or a fixture
// loader) turns component markup into a tree of Nodes whose embedded
// expressions have already been evaluated. The construction engine only
// consumes these results; it never parses markup text or evaluates
// expressions itself.
//
//	nodes := []markup.Node{
//	    markup.Text("Some text"),
//	    markup.El("some-child", []markup.Attr{markup.Lit("a", "1")},
//	        markup.Text("Nested text "),
//	        markup.Expr(count),
//	    ),
//	}
package markup
