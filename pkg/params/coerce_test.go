package params

import (
	"errors"
	"math"
	"testing"

	"github.com/vango-dev/frametree/pkg/frame"
	"github.com/vango-dev/frametree/pkg/markup"
)

type point struct{ X, Y int }

type stringer struct{ v string }

func (s stringer) String() string { return "<" + s.v + ">" }

type coerceTarget struct {
	Flag     bool           `vango:"param"`
	Int      int            `vango:"param"`
	Small    int8           `vango:"param"`
	Unsigned uint16         `vango:"param"`
	Count    uint           `vango:"param"`
	Wide     int64          `vango:"param"`
	Ratio    float32        `vango:"param"`
	Label    string         `vango:"param"`
	Point    *point         `vango:"param"`
	Any      any            `vango:"param"`
	Content  frame.Fragment `vango:"param"`
}

func prop(t *testing.T, name string) *Property {
	t.Helper()
	table, err := Of(coerceTarget{})
	if err != nil {
		t.Fatalf("Of: %v", err)
	}
	p, res := table.Resolve(name)
	if res != Declared {
		t.Fatalf("Resolve(%q) = %v, want Declared", name, res)
	}
	return p
}

func lit(s string) markup.Source { return markup.Lit("", s).Source }
func val(v any) markup.Source    { return markup.Val("", v).Source }
func flag() markup.Source        { return markup.Flag("").Source }

func TestCoerceBool(t *testing.T) {
	p := prop(t, "Flag")
	tests := []struct {
		name    string
		src     markup.Source
		want    bool
		wantErr bool
	}{
		{"minimized", flag(), true, false},
		{"literal true", lit("true"), true, false},
		{"literal false", lit("false"), false, false},
		{"literal mixed case", lit("True"), true, false},
		{"expression", val(false), false, false},
		{"literal garbage", lit("yes"), false, true},
		{"expression string", val("true"), false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(p, tt.src, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if v.Kind() != frame.ValueBool || v.Bool() != tt.want {
				t.Errorf("value = %v, want Bool(%v)", v, tt.want)
			}
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		src     markup.Source
		want    any
		wantErr bool
	}{
		{"int literal", "Int", lit("123"), 123, false},
		{"negative int", "Int", lit("-7"), -7, false},
		{"int8 overflow", "Small", lit("300"), nil, true},
		{"uint16 literal", "Unsigned", lit("65535"), uint16(65535), false},
		{"uint16 negative", "Unsigned", lit("-1"), nil, true},
		{"float32 literal", "Ratio", lit("0.5"), float32(0.5), false},
		{"not a number", "Int", lit("12abc"), nil, true},
		{"expression int64", "Int", val(int64(9)), 9, false},
		{"expression lossy", "Small", val(1000), nil, true},
		{"expression fractional", "Int", val(1.5), nil, true},
		{"expression string", "Int", val("5"), nil, true},
		{"minimized", "Int", flag(), nil, true},
		{"expression uint", "Count", val(7), uint(7), false},
		{"expression negative into uint", "Count", val(-1), nil, true},
		{"expression negative int64 into uint", "Count", val(int64(-5)), nil, true},
		{"expression negative into uint16", "Unsigned", val(int16(-1)), nil, true},
		{"expression uint64 above int64", "Wide", val(uint64(1) << 63), nil, true},
		{"expression uint64 into int64", "Wide", val(uint64(42)), int64(42), false},
		{"literal negative into uint", "Count", lit("-1"), nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(prop(t, tt.param), tt.src, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrCoercion) {
					t.Errorf("err = %v, want ErrCoercion", err)
				}
				var ce *CoercionError
				if !errors.As(err, &ce) || ce.Param != tt.param {
					t.Errorf("CoercionError = %+v, want Param %q", ce, tt.param)
				}
				return
			}
			if v.Kind() != frame.ValueNumber {
				t.Fatalf("Kind = %v, want Number", v.Kind())
			}
			if v.Interface() != tt.want {
				t.Errorf("value = %#v, want %#v", v.Interface(), tt.want)
			}
		})
	}
}

func TestCoerceNaN(t *testing.T) {
	tests := []struct {
		name string
		src  markup.Source
	}{
		{"literal", lit("NaN")},
		{"expression float64", val(math.NaN())},
		{"expression float32", val(float32(math.NaN()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(prop(t, "Ratio"), tt.src, nil)
			if err != nil {
				t.Fatalf("err = %v, want nil", err)
			}
			f, ok := v.Interface().(float32)
			if !ok || !math.IsNaN(float64(f)) {
				t.Errorf("value = %#v, want float32 NaN", v.Interface())
			}
		})
	}

	if _, err := Coerce(prop(t, "Int"), val(math.NaN()), nil); !errors.Is(err, ErrCoercion) {
		t.Errorf("NaN into int: err = %v, want ErrCoercion", err)
	}
}

func TestCoerceString(t *testing.T) {
	p := prop(t, "Label")
	tests := []struct {
		name string
		src  markup.Source
		want string
	}{
		{"literal verbatim", lit("My string"), "My string"},
		{"expression string", val("x"), "x"},
		{"expression int", val(42), "42"},
		{"expression stringer", val(stringer{"a"}), "<a>"},
		{"expression nil", val(nil), ""},
		{"minimized", flag(), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(p, tt.src, nil)
			if err != nil {
				t.Fatalf("Coerce: %v", err)
			}
			if v.Str() != tt.want {
				t.Errorf("value = %q, want %q", v.Str(), tt.want)
			}
		})
	}
}

func TestCoerceObject(t *testing.T) {
	pt := &point{X: 1, Y: 2}

	v, err := Coerce(prop(t, "Point"), val(pt), nil)
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if got, ok := v.Interface().(*point); !ok || got != pt {
		t.Errorf("value = %#v, want the same *point", v.Interface())
	}

	if _, err := Coerce(prop(t, "Point"), val(point{}), nil); err == nil {
		t.Error("Coerce point into *point succeeded, want error")
	}
	if v, err := Coerce(prop(t, "Point"), val(nil), nil); err != nil || v.Interface() != nil {
		t.Errorf("Coerce nil = %v, %v", v, err)
	}

	v, err = Coerce(prop(t, "Any"), val(stringer{"z"}), nil)
	if err != nil {
		t.Fatalf("Coerce any: %v", err)
	}
	if _, ok := v.Interface().(stringer); !ok {
		t.Errorf("runtime type = %T, want stringer", v.Interface())
	}
	if v.Kind() != frame.ValueObject {
		t.Errorf("Kind = %v, want Object", v.Kind())
	}
}

func TestCoerceFragment(t *testing.T) {
	p := prop(t, "Content")
	f := frame.Fragment(func() (frame.Frames, error) { return nil, nil })

	v, err := Coerce(p, val(f), nil)
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	if v.Kind() != frame.ValueFragment {
		t.Errorf("Kind = %v, want Fragment", v.Kind())
	}
	if _, err := Coerce(p, lit("text"), nil); err == nil {
		t.Error("Coerce literal into fragment succeeded, want error")
	}
	if _, err := Coerce(p, markup.Markup("", markup.Text("x")).Source, nil); err == nil {
		t.Error("Coerce markup succeeded, want error")
	}
	if !p.AcceptsFragment() || !prop(t, "Any").AcceptsFragment() || prop(t, "Label").AcceptsFragment() {
		t.Error("AcceptsFragment mismatch")
	}
}

func TestPassthrough(t *testing.T) {
	pt := &point{}
	tests := []struct {
		name string
		src  markup.Source
		kind frame.ValueKind
	}{
		{"literal", lit("1"), frame.ValueString},
		{"minimized", flag(), frame.ValueBool},
		{"expression int", val(3), frame.ValueNumber},
		{"expression object", val(pt), frame.ValueObject},
		{"handler", markup.Lambda("", func() {}).Source, frame.ValueHandler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Passthrough(tt.src, nil)
			if err != nil {
				t.Fatalf("Passthrough: %v", err)
			}
			if v.Kind() != tt.kind {
				t.Errorf("Kind = %v, want %v", v.Kind(), tt.kind)
			}
		})
	}
	if v, _ := Passthrough(lit("1"), nil); v.Str() != "1" {
		t.Errorf("literal value = %q, want 1", v.Str())
	}
}
