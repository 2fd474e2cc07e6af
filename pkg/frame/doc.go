// Package frame provides the render frame model and the builder that
// produces frame arrays.
//
// A frame array is the flat, ordered output of one construction scope. Each
// Frame is one of four kinds:
//
//   - Component: an invocation of a nested component type
//   - Element: a markup element such as <div>
//   - Attribute: a name/value pair belonging to the preceding owner
//   - Text: literal or expression-derived text
//
// # Sequence Numbers
//
// Every frame carries a sequence number issued by the Allocator of the
// Builder that produced it. Sequence numbers strictly increase within one
// array. They carry no meaning across arrays: a nested fragment's array
// numbers its frames independently of its parent.
//
// # Building
//
//	b := frame.NewBuilder()
//	b.OpenElement("div")
//	b.AddAttribute("class", frame.String("card"))
//	b.AddText("Hello")
//	b.Close()
//	frames := b.Finish()
//
// Misuse of the builder (closing without an open owner, attributes out of
// position) panics with a *ProtocolError.
//
// # Fragments
//
// A Fragment is a lazily evaluated producer of a frame array. Child content
// captured from markup is bound as a fragment-valued Attribute frame and is
// only built when the fragment is invoked.
package frame
