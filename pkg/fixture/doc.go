// Package fixture reads markup documents written in YAML.
//
// Fixtures stand in for a template front-end: they describe the node list
// a component would hand to the constructor, with every expression already
// evaluated. The inspector and the CLI render them.
//
// # Document Structure
//
//	owner: Demo.Counter          # optional registered owner component
//	attrs:                       # optional attributes applied to the owner
//	  Start: "3"
//	nodes:
//	  - "Plain text"             # a bare string is a text node
//	  - text: "Count: "
//	  - expr: 42                 # evaluated expression
//	  - element: div
//	    attrs:
//	      class: card            # literal
//	      hidden: !flag          # minimized
//	      data-id: !expr 7       # expression
//	    children:
//	      - text: hi
//	  - component: Demo.Card
//	    attrs:
//	      Title: Hello
//	      OnClick: !method Increment
//	      Header: !markup
//	        - text: Header
//	    content: Body            # parameter that receives children
//	    children:
//	      - text: Body text
//
// Attribute values are literals unless tagged. Tags:
//
//   - !expr: the YAML value, decoded with its natural type
//   - !flag: a minimized attribute
//   - !method: a method reference on the owner
//   - !markup: a node list captured as child content
package fixture
