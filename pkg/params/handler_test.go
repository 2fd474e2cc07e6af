package params

import (
	"reflect"
	"testing"

	"github.com/vango-dev/frametree/pkg/markup"
)

type clickEvent struct{ X int }

type clicker struct {
	calls []int
}

func (c *clicker) HandleClick(e clickEvent) {
	c.calls = append(c.calls, e.X)
}

func (c *clicker) Count() int {
	return len(c.calls)
}

type onClick = func(clickEvent)

func TestBindHandlerFormsEquivalent(t *testing.T) {
	target := reflect.TypeOf(onClick(nil))

	forms := []struct {
		name string
		src  func(c *clicker) markup.HandlerSource
	}{
		{"method reference", func(c *clicker) markup.HandlerSource {
			return markup.Method("", "HandleClick").Source.Handler
		}},
		{"forwarding lambda", func(c *clicker) markup.HandlerSource {
			return markup.Lambda("", func(e clickEvent) { c.HandleClick(e) }).Source.Handler
		}},
		{"block lambda", func(c *clicker) markup.HandlerSource {
			return markup.Block("", func(recv any, args []any) []any {
				recv.(*clicker).HandleClick(args[0].(clickEvent))
				return nil
			}).Source.Handler
		}},
	}

	for _, form := range forms {
		t.Run(form.name, func(t *testing.T) {
			c := &clicker{}
			fn, err := BindHandler(target, form.src(c), c)
			if err != nil {
				t.Fatalf("BindHandler: %v", err)
			}
			h, ok := fn.Interface().(onClick)
			if !ok {
				t.Fatalf("bound type = %s, want %s", fn.Type(), target)
			}
			h(clickEvent{X: 1})
			h(clickEvent{X: 2})
			if !reflect.DeepEqual(c.calls, []int{1, 2}) {
				t.Errorf("calls = %v, want [1 2]", c.calls)
			}
		})
	}
}

func TestBindHandlerAdaptsSignature(t *testing.T) {
	c := &clicker{}

	t.Run("fewer arguments", func(t *testing.T) {
		called := 0
		fn, err := BindHandler(reflect.TypeOf(onClick(nil)), markup.Lambda("", func() { called++ }).Source.Handler, c)
		if err != nil {
			t.Fatalf("BindHandler: %v", err)
		}
		fn.Interface().(onClick)(clickEvent{})
		if called != 1 {
			t.Errorf("called = %d, want 1", called)
		}
	})

	t.Run("results", func(t *testing.T) {
		type counter = func() int
		fn, err := BindHandler(reflect.TypeOf(counter(nil)), markup.Method("", "Count").Source.Handler, c)
		if err != nil {
			t.Fatalf("BindHandler: %v", err)
		}
		c.calls = []int{1, 2, 3}
		if got := fn.Interface().(counter)(); got != 3 {
			t.Errorf("Count = %d, want 3", got)
		}
	})

	t.Run("generic delegate", func(t *testing.T) {
		c := &clicker{}
		fn, err := BindHandler(GenericHandlerType, markup.Method("", "HandleClick").Source.Handler, c)
		if err != nil {
			t.Fatalf("BindHandler: %v", err)
		}
		fn.Interface().(GenericHandler)(clickEvent{X: 5})
		if !reflect.DeepEqual(c.calls, []int{5}) {
			t.Errorf("calls = %v, want [5]", c.calls)
		}
	})

	t.Run("block results", func(t *testing.T) {
		type check = func(string) bool
		fn, err := BindHandler(reflect.TypeOf(check(nil)), markup.Block("", func(recv any, args []any) []any {
			return []any{args[0] == "ok"}
		}).Source.Handler, c)
		if err != nil {
			t.Fatalf("BindHandler: %v", err)
		}
		if !fn.Interface().(check)("ok") {
			t.Error("block returned false, want true")
		}
	})
}

func TestBindHandlerErrors(t *testing.T) {
	target := reflect.TypeOf(onClick(nil))
	c := &clicker{}

	tests := []struct {
		name string
		typ  reflect.Type
		src  markup.HandlerSource
		recv any
	}{
		{"unknown method", target, markup.Method("", "Nope").Source.Handler, c},
		{"no receiver", target, markup.Method("", "HandleClick").Source.Handler, nil},
		{"incompatible argument", target, markup.Lambda("", func(s string) {}).Source.Handler, c},
		{"too many arguments", target, markup.Lambda("", func(e clickEvent, n int) {}).Source.Handler, c},
		{"lambda not a func", target, markup.HandlerSource{Form: markup.FormLambda, Func: 3}, c},
		{"nil block", target, markup.HandlerSource{Form: markup.FormBlock}, c},
		{"target not a func", reflect.TypeOf(0), markup.Method("", "HandleClick").Source.Handler, c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BindHandler(tt.typ, tt.src, tt.recv); err == nil {
				t.Error("BindHandler succeeded, want error")
			}
		})
	}
}
