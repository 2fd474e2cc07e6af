package frame

import (
	"strings"
	"testing"
)

func buildCard() Frames {
	b := NewBuilder()
	b.OpenElement("section")
	b.AddAttribute("class", String("card"))
	b.AddAttribute("hidden", Bool(true))
	b.OpenComponent("Badge")
	b.AddAttribute("ChildContent", FragmentValue(func() (Frames, error) {
		inner := NewBuilder()
		inner.AddText("new")
		return inner.Finish(), nil
	}))
	b.Close()
	b.AddText("body")
	b.Close()
	return b.Finish()
}

func TestFramesAttributes(t *testing.T) {
	frames := buildCard()

	attrs := frames.Attributes(0)
	if len(attrs) != 2 {
		t.Fatalf("Attributes len = %d, want 2", len(attrs))
	}
	if attrs[0].Name != "class" || attrs[1].Name != "hidden" {
		t.Errorf("Attributes = %v", attrs)
	}
	if got := frames.Attributes(1); got != nil {
		t.Errorf("Attributes of attribute frame = %v, want nil", got)
	}

	a, ok := frames.Attribute(0, "hidden")
	if !ok || !a.Value.Bool() {
		t.Errorf("Attribute(hidden) = %v, %v", a, ok)
	}
	if _, ok := frames.Attribute(0, "missing"); ok {
		t.Error("Attribute(missing) found, want not found")
	}
}

func TestFramesChildren(t *testing.T) {
	frames := buildCard()

	children := frames.Children(0)
	if len(children) != 3 {
		t.Fatalf("Children len = %d, want 3\n%s", len(children), frames.Dump())
	}
	if children[0].Kind != KindComponent {
		t.Errorf("first child = %v, want Component", children[0].Kind)
	}
	if got := frames.Children(3); got != nil {
		t.Errorf("Children of component = %v, want nil", got)
	}
}

func TestFramesFragment(t *testing.T) {
	frames := buildCard()

	nested, err := frames.Fragment(4)
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if len(nested) != 1 || nested[0].Text != "new" {
		t.Errorf("nested = %v, want [Text(new)]", nested)
	}

	again, err := frames.Fragment(4)
	if err != nil {
		t.Fatalf("Fragment (second call): %v", err)
	}
	if &again[0] == &nested[0] {
		t.Error("fragment returned the same array twice")
	}

	if _, err := frames.Fragment(1); err == nil {
		t.Error("Fragment on string attribute succeeded, want error")
	}
	if _, err := frames.Fragment(99); err == nil {
		t.Error("Fragment out of range succeeded, want error")
	}
}

func TestFramesDump(t *testing.T) {
	out := buildCard().Dump()
	if !strings.Contains(out, "Element(section, size=6, seq=0)") {
		t.Errorf("Dump missing section line:\n%s", out)
	}
	if !strings.Contains(out, "  Text(\"body\"") {
		t.Errorf("Dump missing indented text:\n%s", out)
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindComponent, "Component"},
		{KindElement, "Element"},
		{KindAttribute, "Attribute"},
		{KindText, "Text"},
		{Kind(0), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
