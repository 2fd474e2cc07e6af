package protocol

import (
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"

	"github.com/vango-dev/frametree/pkg/frame"
)

// Document header.
const (
	magic0  = 'F'
	magic1  = 'T'
	Version = 0x01
)

// NumberTag identifies the wire representation of a numeric value.
type NumberTag uint8

const (
	NumberInt   NumberTag = 0x01 // svarint
	NumberUint  NumberTag = 0x02 // uvarint
	NumberFloat NumberTag = 0x03 // float64
)

// FragmentState describes how a fragment value was serialized.
type FragmentState uint8

const (
	FragmentExpanded  FragmentState = 0x00 // Nested array follows
	FragmentTruncated FragmentState = 0x01 // Depth limit reached, nothing follows
	FragmentFailed    FragmentState = 0x02 // Producer failed, message follows
)

// Decoding errors.
var (
	ErrBadMagic           = errors.New("protocol: not a frame document")
	ErrUnsupportedVersion = errors.New("protocol: unsupported document version")
	ErrInvalidFrameKind   = errors.New("protocol: invalid frame kind")
	ErrInvalidValueKind   = errors.New("protocol: invalid value kind")
	ErrInvalidSize        = errors.New("protocol: owner size out of range")
	ErrInvalidSeq         = errors.New("protocol: invalid sequence number")
)

// ErrFragmentTruncated is returned by decoded fragments that were not
// expanded because the encoder hit its depth limit.
var ErrFragmentTruncated = errors.New("protocol: fragment truncated at depth limit")

// FragmentError is returned by a decoded fragment whose producer failed
// at encode time.
type FragmentError struct {
	Message string
}

func (e *FragmentError) Error() string {
	return e.Message
}

// HandlerRef stands in for a handler delegate after decoding.
type HandlerRef struct {
	Type string // Go type of the delegate, e.g. "func()"
}

// ObjectRef stands in for an object value after decoding.
type ObjectRef struct {
	Type string // Go type, e.g. "*demo.User"
	Text string // fmt.Sprint of the value
}

func (o ObjectRef) String() string {
	return o.Text
}

// EncodeFrames encodes fs as a complete document. Fragments are invoked
// and expanded up to limits.FragmentDepth levels; a nil limits uses the
// defaults. A fragment that fails is recorded as failed rather than
// aborting the document.
func EncodeFrames(fs frame.Frames, limits *DepthLimits) []byte {
	e := NewEncoder()
	e.WriteDocument(fs, limits)
	return e.Bytes()
}

// WriteDocument appends the document header and fs.
func (e *Encoder) WriteDocument(fs frame.Frames, limits *DepthLimits) {
	e.WriteByte(magic0)
	e.WriteByte(magic1)
	e.WriteByte(Version)
	encodeFrames(e, fs, newDepthContext(limits.fragmentDepth()))
}

func encodeFrames(e *Encoder, fs frame.Frames, dc *depthContext) {
	e.WriteUvarint(uint64(len(fs)))
	for _, f := range fs {
		e.WriteByte(byte(f.Kind))
		e.WriteUvarint(uint64(f.Seq))
		e.WriteString(f.Name)
		switch f.Kind {
		case frame.KindComponent, frame.KindElement:
			e.WriteUvarint(uint64(f.Size))
		case frame.KindText:
			e.WriteString(f.Text)
		case frame.KindAttribute:
			encodeValue(e, f.Value, dc)
		}
	}
}

func encodeValue(e *Encoder, v frame.Value, dc *depthContext) {
	e.WriteByte(byte(v.Kind()))
	switch v.Kind() {
	case frame.ValueString:
		e.WriteString(v.Str())
	case frame.ValueBool:
		e.WriteBool(v.Bool())
	case frame.ValueNumber:
		encodeNumber(e, v)
	case frame.ValueHandler:
		e.WriteString(handlerType(v.Interface()))
	case frame.ValueObject:
		if ref, ok := v.Interface().(ObjectRef); ok {
			e.WriteString(ref.Type)
			e.WriteString(ref.Text)
			break
		}
		e.WriteString(fmt.Sprintf("%T", v.Interface()))
		e.WriteString(fmt.Sprint(v.Interface()))
	case frame.ValueFragment:
		encodeFragment(e, v.Fragment(), dc)
	}
}

func handlerType(h any) string {
	if ref, ok := h.(HandlerRef); ok {
		return ref.Type
	}
	return fmt.Sprintf("%T", h)
}

func encodeNumber(e *Encoder, v frame.Value) {
	rv := reflect.ValueOf(v.Interface())
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		e.WriteByte(byte(NumberInt))
		e.WriteSvarint(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		e.WriteByte(byte(NumberUint))
		e.WriteUvarint(rv.Uint())
	default:
		f, _ := v.Float()
		e.WriteByte(byte(NumberFloat))
		e.WriteFloat64(f)
	}
}

func encodeFragment(e *Encoder, f frame.Fragment, dc *depthContext) {
	if f == nil {
		e.WriteByte(byte(FragmentFailed))
		e.WriteString("nil fragment")
		return
	}
	if err := dc.enter(); err != nil {
		e.WriteByte(byte(FragmentTruncated))
		return
	}
	defer dc.leave()

	nested, err := f()
	if err != nil {
		e.WriteByte(byte(FragmentFailed))
		e.WriteString(err.Error())
		return
	}
	e.WriteByte(byte(FragmentExpanded))
	encodeFrames(e, nested, dc)
}

// DecodeFrames decodes a document produced by EncodeFrames.
//
// Fragment values decode to producers that return a fresh copy of the
// recorded array on every call; truncated fragments return
// ErrFragmentTruncated and failed ones a *FragmentError.
func DecodeFrames(data []byte, limits *DepthLimits) (frame.Frames, error) {
	d := NewDecoder(data)
	return d.ReadDocument(limits)
}

// ReadDocument reads a document header and its root array.
func (d *Decoder) ReadDocument(limits *DepthLimits) (frame.Frames, error) {
	header, err := d.ReadBytes(3)
	if err != nil {
		return nil, err
	}
	if header[0] != magic0 || header[1] != magic1 {
		return nil, ErrBadMagic
	}
	if header[2] != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header[2])
	}
	fs, err := decodeFrames(d, newDepthContext(limits.fragmentDepth()))
	if err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, fmt.Errorf("protocol: %d trailing bytes after document", d.Remaining())
	}
	return fs, nil
}

func decodeFrames(d *Decoder, dc *depthContext) (frame.Frames, error) {
	count, err := d.ReadCollectionCount()
	if err != nil {
		return nil, err
	}
	fs := make(frame.Frames, count)
	for i := range fs {
		if fs[i], err = decodeFrame(d, dc); err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		if i > 0 && fs[i].Seq <= fs[i-1].Seq {
			return nil, fmt.Errorf("frame %d: %w: %d after %d", i, ErrInvalidSeq, fs[i].Seq, fs[i-1].Seq)
		}
	}
	for i, f := range fs {
		if f.Kind.IsOwner() && (f.Size < 1 || i+f.Size > len(fs)) {
			return nil, fmt.Errorf("frame %d: %w", i, ErrInvalidSize)
		}
	}
	return fs, nil
}

func decodeFrame(d *Decoder, dc *depthContext) (frame.Frame, error) {
	var f frame.Frame

	kind, err := d.ReadByte()
	if err != nil {
		return f, err
	}
	f.Kind = frame.Kind(kind)

	seq, err := d.ReadUvarint()
	if err != nil {
		return f, err
	}
	if seq > math.MaxInt {
		return f, fmt.Errorf("%w: %d overflows int", ErrInvalidSeq, seq)
	}
	f.Seq = int(seq)

	if f.Name, err = d.ReadString(); err != nil {
		return f, err
	}

	switch f.Kind {
	case frame.KindComponent, frame.KindElement:
		size, err := d.ReadUvarint()
		if err != nil {
			return f, err
		}
		if size > MaxCollectionCount {
			return f, ErrInvalidSize
		}
		f.Size = int(size)
	case frame.KindText:
		if f.Text, err = d.ReadString(); err != nil {
			return f, err
		}
	case frame.KindAttribute:
		if f.Value, err = decodeValue(d, dc); err != nil {
			return f, fmt.Errorf("attribute %q: %w", f.Name, err)
		}
	default:
		return f, fmt.Errorf("%w: 0x%02x", ErrInvalidFrameKind, kind)
	}
	return f, nil
}

func decodeValue(d *Decoder, dc *depthContext) (frame.Value, error) {
	kind, err := d.ReadByte()
	if err != nil {
		return frame.Value{}, err
	}

	switch frame.ValueKind(kind) {
	case frame.ValueString:
		s, err := d.ReadString()
		return frame.String(s), err
	case frame.ValueBool:
		b, err := d.ReadBool()
		return frame.Bool(b), err
	case frame.ValueNumber:
		return decodeNumber(d)
	case frame.ValueHandler:
		t, err := d.ReadString()
		return frame.Handler(HandlerRef{Type: t}), err
	case frame.ValueObject:
		t, err := d.ReadString()
		if err != nil {
			return frame.Value{}, err
		}
		text, err := d.ReadString()
		return frame.Object(ObjectRef{Type: t, Text: text}), err
	case frame.ValueFragment:
		return decodeFragment(d, dc)
	}
	return frame.Value{}, fmt.Errorf("%w: 0x%02x", ErrInvalidValueKind, kind)
}

func decodeNumber(d *Decoder) (frame.Value, error) {
	tag, err := d.ReadByte()
	if err != nil {
		return frame.Value{}, err
	}
	switch NumberTag(tag) {
	case NumberInt:
		n, err := d.ReadSvarint()
		return frame.Number(n), err
	case NumberUint:
		n, err := d.ReadUvarint()
		return frame.Number(n), err
	case NumberFloat:
		n, err := d.ReadFloat64()
		return frame.Number(n), err
	}
	return frame.Value{}, fmt.Errorf("protocol: invalid number tag 0x%02x", tag)
}

func decodeFragment(d *Decoder, dc *depthContext) (frame.Value, error) {
	state, err := d.ReadByte()
	if err != nil {
		return frame.Value{}, err
	}

	switch FragmentState(state) {
	case FragmentTruncated:
		return frame.FragmentValue(func() (frame.Frames, error) {
			return nil, ErrFragmentTruncated
		}), nil
	case FragmentFailed:
		msg, err := d.ReadString()
		if err != nil {
			return frame.Value{}, err
		}
		return frame.FragmentValue(func() (frame.Frames, error) {
			return nil, &FragmentError{Message: msg}
		}), nil
	case FragmentExpanded:
		if err := dc.enter(); err != nil {
			return frame.Value{}, err
		}
		nested, err := decodeFrames(d, dc)
		dc.leave()
		if err != nil {
			return frame.Value{}, err
		}
		return frame.FragmentValue(func() (frame.Frames, error) {
			return slices.Clone(nested), nil
		}), nil
	}
	return frame.Value{}, fmt.Errorf("protocol: invalid fragment state 0x%02x", state)
}

// Expand returns fs with every fragment resolved recursively, as a tree of
// Node values. It is used by text and JSON renderers.
func Expand(fs frame.Frames, limits *DepthLimits) []Node {
	return expand(fs, newDepthContext(limits.fragmentDepth()))
}

// Node is an expanded view of one frame. Fragment attributes carry their
// resolved contents in Fragment, or the failure in Error.
type Node struct {
	Kind     string `json:"kind"`
	Seq      int    `json:"seq"`
	Name     string `json:"name,omitempty"`
	Size     int    `json:"size,omitempty"`
	Text     string `json:"text,omitempty"`
	Value    any    `json:"value,omitempty"`
	Type     string `json:"type,omitempty"`
	Fragment []Node `json:"fragment,omitempty"`
	Error    string `json:"error,omitempty"`
}

func expand(fs frame.Frames, dc *depthContext) []Node {
	nodes := make([]Node, 0, len(fs))
	for _, f := range fs {
		n := Node{Kind: f.Kind.String(), Seq: f.Seq, Name: f.Name}
		switch f.Kind {
		case frame.KindComponent, frame.KindElement:
			n.Size = f.Size
		case frame.KindText:
			n.Text = f.Text
		case frame.KindAttribute:
			n.Type = f.Value.Kind().String()
			expandValue(&n, f.Value, dc)
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func expandValue(n *Node, v frame.Value, dc *depthContext) {
	switch v.Kind() {
	case frame.ValueString, frame.ValueBool, frame.ValueNumber:
		n.Value = v.Interface()
	case frame.ValueHandler:
		n.Value = handlerType(v.Interface())
	case frame.ValueObject:
		n.Value = fmt.Sprint(v.Interface())
	case frame.ValueFragment:
		f := v.Fragment()
		if f == nil {
			n.Error = "nil fragment"
			return
		}
		if err := dc.enter(); err != nil {
			n.Error = ErrFragmentTruncated.Error()
			return
		}
		defer dc.leave()
		nested, err := f()
		if err != nil {
			n.Error = err.Error()
			return
		}
		n.Fragment = expand(nested, dc)
	}
}

// WriteFrames writes fs to w as a complete document.
func WriteFrames(w io.Writer, fs frame.Frames, limits *DepthLimits) error {
	_, err := w.Write(EncodeFrames(fs, limits))
	return err
}
