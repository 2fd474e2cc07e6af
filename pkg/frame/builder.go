package frame

import "fmt"

// ProtocolError reports misuse of a Builder. It is raised with panic: a
// protocol violation is a defect in the code driving the builder, never a
// condition a markup author can cause.
type ProtocolError struct {
	Op     string
	Reason string
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	return fmt.Sprintf("frame: builder protocol violation in %s: %s", e.Op, e.Reason)
}

func violation(op, format string, args ...any) {
	panic(&ProtocolError{Op: op, Reason: fmt.Sprintf(format, args...)})
}

// Builder accumulates the frame array for one construction scope.
// A Builder is owned by a single construction call and must not be shared.
type Builder struct {
	frames   []Frame
	seq      Allocator
	open     []int // indexes of owners not yet closed
	finished bool
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{frames: make([]Frame, 0, 8)}
}

// Len returns the number of frames appended so far.
func (b *Builder) Len() int {
	return len(b.frames)
}

// Depth returns the number of owners currently open.
func (b *Builder) Depth() int {
	return len(b.open)
}

func (b *Builder) append(op string, f Frame) int {
	if b.finished {
		violation(op, "builder already finished")
	}
	f.Seq = b.seq.Next()
	b.frames = append(b.frames, f)
	return len(b.frames) - 1
}

// OpenComponent appends a Component frame and makes it the current owner.
// It returns the frame's index; the subtree size is patched by Close.
func (b *Builder) OpenComponent(name string) int {
	i := b.append("OpenComponent", Frame{Kind: KindComponent, Name: name, Size: 1})
	b.open = append(b.open, i)
	return i
}

// OpenElement appends an Element frame and makes it the current owner.
func (b *Builder) OpenElement(tag string) int {
	i := b.append("OpenElement", Frame{Kind: KindElement, Name: tag, Size: 1})
	b.open = append(b.open, i)
	return i
}

// AddAttribute appends an Attribute frame for the current owner. It must
// directly follow the owner or another of the owner's attributes.
func (b *Builder) AddAttribute(name string, v Value) {
	b.checkAttribute("AddAttribute", name)
	b.append("AddAttribute", Frame{Kind: KindAttribute, Name: name, Value: v})
}

// checkAttribute panics unless the last frame is the innermost open owner
// or one of its attributes.
func (b *Builder) checkAttribute(op, name string) {
	if len(b.open) == 0 {
		violation(op, "attribute %q has no open owner", name)
	}
	owner := len(b.frames) - 1
	for owner >= 0 && b.frames[owner].Kind == KindAttribute {
		owner--
	}
	if owner != b.open[len(b.open)-1] {
		violation(op, "attribute %q is not adjacent to its owner", name)
	}
}

// AddText appends a Text frame.
func (b *Builder) AddText(text string) {
	b.append("AddText", Frame{Kind: KindText, Text: text})
}

// AddFrames splices a finished array into this one. The spliced frames are
// assigned fresh sequence numbers; their relative structure is kept.
//
// Attribute frames must directly follow their owner inside frames. Leading
// attribute frames attach to the builder's open owner and obey the same
// rule as AddAttribute.
func (b *Builder) AddFrames(frames Frames) {
	for k, f := range frames {
		if f.Kind == KindAttribute {
			owner := k - 1
			for owner >= 0 && frames[owner].Kind == KindAttribute {
				owner--
			}
			switch {
			case owner < 0:
				b.checkAttribute("AddFrames", f.Name)
			case !frames[owner].Kind.IsOwner() || k >= owner+frames[owner].Size:
				violation("AddFrames", "attribute %q is not adjacent to its owner", f.Name)
			}
		}
		b.append("AddFrames", f)
	}
}

// Close finalizes the subtree size of the current owner.
func (b *Builder) Close() {
	if b.finished {
		violation("Close", "builder already finished")
	}
	if len(b.open) == 0 {
		violation("Close", "no open component or element")
	}
	i := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	b.frames[i].Size = len(b.frames) - i
}

// Finish returns the completed array. The builder cannot be used afterwards.
func (b *Builder) Finish() Frames {
	if b.finished {
		violation("Finish", "builder already finished")
	}
	if len(b.open) > 0 {
		f := b.frames[b.open[len(b.open)-1]]
		violation("Finish", "%s %q was never closed", f.Kind, f.Name)
	}
	b.finished = true
	return Frames(b.frames)
}
