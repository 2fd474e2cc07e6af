// Package errors provides coded, formatted diagnostics for the frametree
// command line tools.
//
// Library packages return plain Go errors (for example *construct.Error).
// The CLI converts them into a Diagnostic, which carries a stable code, a
// category, an explanation, an optional source location in a fixture file,
// and a hint.
//
// # Error Codes
//
// Each code maps to a short message and a detailed explanation:
//
//   - F001-F019: binding errors raised while building frames
//   - F020-F039: fixture document errors
//   - F040-F059: configuration errors
//   - F060-F079: snapshot storage errors
//   - F080-F099: CLI usage errors
//
// # Usage
//
//	d := errors.New("F021").
//	    WithLocation("fixtures/card.yaml", 12, 5).
//	    WithSuggestion("Use one of: text, expr, element, component")
//
//	fmt.Println(d.Format())
//	// Output:
//	// ERROR F021: Unknown node kind
//	//
//	//   fixtures/card.yaml:12:5
//	//
//	//     11 │   - element: div
//	//   → 12 │     children:
//	//        │     ^
//	//     13 │       - span: "x"
//	//
//	//   Hint: Use one of: text, expr, element, component
package errors
