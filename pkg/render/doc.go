// Package render writes frame arrays as HTML.
//
// Element frames become tags, text frames become escaped text, and each
// component frame is instantiated from its bound attributes and replaced
// by the HTML of its own markup. Captured content reaches the output
// through the component's markup, where it is spliced by an expression.
//
//	r := render.NewRenderer(c, render.Config{})
//	html, err := r.RenderToString(ctx, frames)
//
// Handler attributes are not written as values. An element with a handler
// attribute onclick gets a data-on-click marker instead, so a client can
// find the element.
package render
