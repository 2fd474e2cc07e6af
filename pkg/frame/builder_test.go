package frame

import (
	"errors"
	"testing"
)

func expectViolation(t *testing.T, op string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected %s to panic", op)
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value = %T, want error", r)
		}
		var pe *ProtocolError
		if !errors.As(err, &pe) {
			t.Fatalf("panic value = %T, want *ProtocolError", r)
		}
		if pe.Op != op {
			t.Errorf("Op = %q, want %q", pe.Op, op)
		}
	}()
	fn()
}

func TestBuilderSingleComponent(t *testing.T) {
	b := NewBuilder()
	b.OpenComponent("Test.MyComponent")
	b.Close()
	frames := b.Finish()

	if len(frames) != 1 {
		t.Fatalf("len = %d, want 1", len(frames))
	}
	if frames[0].Kind != KindComponent {
		t.Errorf("Kind = %v, want Component", frames[0].Kind)
	}
	if frames[0].Size != 1 {
		t.Errorf("Size = %d, want 1", frames[0].Size)
	}
}

func TestBuilderSubtreeSize(t *testing.T) {
	b := NewBuilder()
	b.OpenElement("div")
	b.AddAttribute("class", String("card"))
	b.AddText("Hello")
	b.OpenElement("span")
	b.AddAttribute("id", String("x"))
	b.AddText("inner")
	b.Close()
	b.Close()
	b.AddText("after")
	frames := b.Finish()

	want := []struct {
		kind Kind
		size int
	}{
		{KindElement, 6},
		{KindAttribute, 0},
		{KindText, 0},
		{KindElement, 3},
		{KindAttribute, 0},
		{KindText, 0},
		{KindText, 0},
	}
	if len(frames) != len(want) {
		t.Fatalf("len = %d, want %d\n%s", len(frames), len(want), frames.Dump())
	}
	for i, w := range want {
		if frames[i].Kind != w.kind {
			t.Errorf("frames[%d].Kind = %v, want %v", i, frames[i].Kind, w.kind)
		}
		if frames[i].Size != w.size {
			t.Errorf("frames[%d].Size = %d, want %d", i, frames[i].Size, w.size)
		}
	}
}

func TestBuilderSequenceIncreasing(t *testing.T) {
	b := NewBuilder()
	b.OpenComponent("A")
	b.AddAttribute("x", Number(1))
	b.AddAttribute("y", Bool(true))
	b.Close()
	b.AddText("t")
	b.OpenElement("p")
	b.Close()
	frames := b.Finish()

	for i := 1; i < len(frames); i++ {
		if frames[i].Seq <= frames[i-1].Seq {
			t.Errorf("Seq[%d] = %d not greater than Seq[%d] = %d", i, frames[i].Seq, i-1, frames[i-1].Seq)
		}
	}
}

func TestBuilderAddFramesResequences(t *testing.T) {
	inner := NewBuilder()
	inner.OpenElement("b")
	inner.AddText("bold")
	inner.Close()
	nested := inner.Finish()

	b := NewBuilder()
	b.OpenElement("p")
	b.AddText("x")
	b.AddFrames(nested)
	b.Close()
	frames := b.Finish()

	if len(frames) != 4 {
		t.Fatalf("len = %d, want 4", len(frames))
	}
	if frames[0].Size != 4 {
		t.Errorf("Size = %d, want 4", frames[0].Size)
	}
	if frames[2].Name != "b" || frames[2].Size != 2 {
		t.Errorf("spliced frame = %v, want Element(b, size=2)", frames[2])
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].Seq <= frames[i-1].Seq {
			t.Errorf("Seq not increasing at %d", i)
		}
	}
}

func TestBuilderViolations(t *testing.T) {
	t.Run("close without open", func(t *testing.T) {
		expectViolation(t, "Close", func() {
			NewBuilder().Close()
		})
	})

	t.Run("attribute without owner", func(t *testing.T) {
		expectViolation(t, "AddAttribute", func() {
			NewBuilder().AddAttribute("a", String("1"))
		})
	})

	t.Run("attribute after text", func(t *testing.T) {
		expectViolation(t, "AddAttribute", func() {
			b := NewBuilder()
			b.OpenElement("div")
			b.AddText("x")
			b.AddAttribute("a", String("1"))
		})
	})

	t.Run("attribute after closed sibling", func(t *testing.T) {
		expectViolation(t, "AddAttribute", func() {
			b := NewBuilder()
			b.OpenElement("div")
			b.OpenElement("span")
			b.AddAttribute("a", String("1"))
			b.Close()
			b.AddAttribute("b", String("2"))
		})
	})

	t.Run("finish with open owner", func(t *testing.T) {
		expectViolation(t, "Finish", func() {
			b := NewBuilder()
			b.OpenComponent("A")
			b.Finish()
		})
	})

	t.Run("use after finish", func(t *testing.T) {
		expectViolation(t, "AddText", func() {
			b := NewBuilder()
			b.Finish()
			b.AddText("late")
		})
	})
}

func TestBuilderAddFramesAttributes(t *testing.T) {
	attrs := Frames{
		{Kind: KindAttribute, Name: "class", Value: String("x")},
		{Kind: KindAttribute, Name: "id", Value: String("y")},
	}

	b := NewBuilder()
	b.OpenElement("div")
	b.AddAttribute("role", String("main"))
	b.AddFrames(attrs)
	b.AddText("body")
	b.Close()
	frames := b.Finish()
	if frames[0].Size != 5 {
		t.Errorf("Size = %d, want 5", frames[0].Size)
	}

	t.Run("leading attribute after text", func(t *testing.T) {
		expectViolation(t, "AddFrames", func() {
			b := NewBuilder()
			b.OpenElement("div")
			b.AddText("x")
			b.AddFrames(attrs)
		})
	})

	t.Run("leading attribute after closed child", func(t *testing.T) {
		expectViolation(t, "AddFrames", func() {
			b := NewBuilder()
			b.OpenElement("div")
			b.OpenElement("span")
			b.Close()
			b.AddFrames(attrs)
		})
	})

	t.Run("leading attribute without owner", func(t *testing.T) {
		expectViolation(t, "AddFrames", func() {
			NewBuilder().AddFrames(attrs)
		})
	})

	t.Run("inner attribute after text", func(t *testing.T) {
		expectViolation(t, "AddFrames", func() {
			b := NewBuilder()
			b.AddFrames(Frames{
				{Kind: KindElement, Name: "p", Size: 3},
				{Kind: KindText, Text: "x"},
				{Kind: KindAttribute, Name: "a", Value: String("1")},
			})
		})
	})
}

func TestAllocator(t *testing.T) {
	var a Allocator
	if a.Peek() != 0 {
		t.Errorf("Peek = %d, want 0", a.Peek())
	}
	prev := a.Next()
	for i := 0; i < 10; i++ {
		n := a.Next()
		if n <= prev {
			t.Fatalf("Next = %d, not greater than %d", n, prev)
		}
		prev = n
	}
}
