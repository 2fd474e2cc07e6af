// Package construct turns component markup into frame arrays.
//
// A Constructor walks markup top-down. At every component or element it
// emits the owner frame, then the owner's attribute frames, then its
// content:
//
//   - Element content is emitted inline, in the same array.
//   - Component content is captured as a Fragment and bound as a single
//     attribute frame named ChildContent (or the node's ContentTarget).
//
// Attributes on components are resolved against the component type's
// parameter metadata (see package params). An attribute naming a property
// that is not declared as a parameter fails with ParameterNotDeclared; an
// attribute naming no property at all passes through unchecked. Attributes
// on elements always pass through.
//
// # Usage
//
//	reg := construct.NewRegistry()
//	reg.MustRegister("Card", &Card{})
//
//	c := construct.New(reg)
//	frames, err := c.Render(ctx, &Page{})
//	if err != nil {
//	    var cerr *construct.Error
//	    if errors.As(err, &cerr) && cerr.Kind == construct.ParameterNotDeclared {
//	        // markup names a property that is not a parameter
//	    }
//	}
//
// # Fragments
//
// Captured child content is lazy. Nothing inside it is built, and no
// binding error inside it is reported, until the fragment is invoked. Each
// invocation builds a fresh, independently numbered array; invoking a
// fragment several times is safe as long as the calls are sequential.
package construct
