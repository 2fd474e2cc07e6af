package frame

import (
	"fmt"
	"strings"
)

// Kind is the frame type discriminator.
type Kind uint8

const (
	KindComponent Kind = iota + 1 // Nested component invocation
	KindElement                   // <div>, <some-child>, etc.
	KindAttribute                 // Attribute of the preceding owner
	KindText                      // Text content
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "Component"
	case KindElement:
		return "Element"
	case KindAttribute:
		return "Attribute"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// IsOwner reports whether frames of this kind can own attributes.
func (k Kind) IsOwner() bool {
	return k == KindComponent || k == KindElement
}

// Frame is one render instruction.
type Frame struct {
	Kind  Kind   // Frame type
	Seq   int    // Sequence number, increasing within one array
	Name  string // Component type name, element tag, or attribute name
	Size  int    // Subtree size for Component and Element frames
	Text  string // For KindText
	Value Value  // For KindAttribute
}

// String returns a compact, human-readable description of the frame.
func (f Frame) String() string {
	switch f.Kind {
	case KindComponent, KindElement:
		return fmt.Sprintf("%s(%s, size=%d, seq=%d)", f.Kind, f.Name, f.Size, f.Seq)
	case KindAttribute:
		return fmt.Sprintf("Attribute(%s=%s, seq=%d)", f.Name, f.Value, f.Seq)
	case KindText:
		return fmt.Sprintf("Text(%q, seq=%d)", f.Text, f.Seq)
	default:
		return fmt.Sprintf("Unknown(seq=%d)", f.Seq)
	}
}

// Frames is a finished frame array.
// It must not be modified once returned by Builder.Finish.
type Frames []Frame

// Fragment lazily produces a frame array. Every invocation builds a fresh
// array; fragments may be invoked zero, one, or many times.
type Fragment func() (Frames, error)

// Attributes returns the contiguous attribute frames owned by frame i.
// It returns nil if frame i is not a Component or Element frame.
func (fs Frames) Attributes(i int) Frames {
	if i < 0 || i >= len(fs) || !fs[i].Kind.IsOwner() {
		return nil
	}
	end := i + 1
	for end < len(fs) && fs[end].Kind == KindAttribute {
		end++
	}
	if end == i+1 {
		return nil
	}
	return fs[i+1 : end]
}

// Attribute returns the attribute named name owned by frame i.
func (fs Frames) Attribute(i int, name string) (Frame, bool) {
	for _, a := range fs.Attributes(i) {
		if a.Name == name {
			return a, true
		}
	}
	return Frame{}, false
}

// Children returns the frames nested inside frame i, after its attributes.
// Component frames never have inline children; their content lives in
// fragments.
func (fs Frames) Children(i int) Frames {
	if i < 0 || i >= len(fs) || !fs[i].Kind.IsOwner() {
		return nil
	}
	start := i + 1 + len(fs.Attributes(i))
	end := i + fs[i].Size
	if end > len(fs) {
		end = len(fs)
	}
	if start >= end {
		return nil
	}
	return fs[start:end]
}

// Fragment invokes the fragment carried by attribute frame i and returns the
// array it produces.
func (fs Frames) Fragment(i int) (Frames, error) {
	if i < 0 || i >= len(fs) {
		return nil, fmt.Errorf("frame: index %d out of range", i)
	}
	f := fs[i]
	if f.Kind != KindAttribute || f.Value.Kind() != ValueFragment {
		return nil, fmt.Errorf("frame: frame %d is not a fragment attribute", i)
	}
	return f.Value.Fragment()()
}

// Dump renders the array one frame per line, indented by nesting depth.
// Fragment contents are not expanded.
func (fs Frames) Dump() string {
	var b strings.Builder
	var ends []int
	for i, f := range fs {
		for len(ends) > 0 && i >= ends[len(ends)-1] {
			ends = ends[:len(ends)-1]
		}
		b.WriteString(strings.Repeat("  ", len(ends)))
		b.WriteString(f.String())
		b.WriteByte('\n')
		if f.Kind.IsOwner() && f.Size > 1 {
			ends = append(ends, i+f.Size)
		}
	}
	return b.String()
}
