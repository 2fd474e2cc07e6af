package params

import (
	"fmt"
	"reflect"

	"github.com/vango-dev/frametree/pkg/markup"
)

// GenericHandler is the delegate shape used for handlers bound to
// attributes that have no declared parameter type.
type GenericHandler = func(args ...any)

// GenericHandlerType is the reflect.Type of GenericHandler.
var GenericHandlerType = reflect.TypeOf(GenericHandler(nil))

// BindHandler binds a handler source to a func value of type t. Method
// references resolve against recv, the enclosing component instance. Every
// surface form yields a value of type t that forwards its arguments to the
// referenced code, so equivalent forms behave identically when invoked.
func BindHandler(t reflect.Type, h markup.HandlerSource, recv any) (reflect.Value, error) {
	if t.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("%s is not a func type", t)
	}
	switch h.Form {
	case markup.FormMethod:
		if recv == nil {
			return reflect.Value{}, fmt.Errorf("method %q has no receiver", h.Method)
		}
		m := reflect.ValueOf(recv).MethodByName(h.Method)
		if !m.IsValid() {
			return reflect.Value{}, fmt.Errorf("%T has no method %q", recv, h.Method)
		}
		return adaptFunc(m, t)
	case markup.FormLambda:
		fn := reflect.ValueOf(h.Func)
		if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
			return reflect.Value{}, fmt.Errorf("lambda is not a func value")
		}
		return adaptFunc(fn, t)
	case markup.FormBlock:
		if h.Block == nil {
			return reflect.Value{}, fmt.Errorf("block lambda is nil")
		}
		return bindBlock(t, h.Block, recv), nil
	}
	return reflect.Value{}, fmt.Errorf("unknown handler form %d", h.Form)
}

// adaptFunc returns fn as a value of type t. Identical and convertible
// signatures are converted directly; otherwise fn is wrapped so that it
// receives the leading arguments it declares and any missing results are
// zero.
func adaptFunc(fn reflect.Value, t reflect.Type) (reflect.Value, error) {
	ft := fn.Type()
	if ft.Kind() != reflect.Func {
		return reflect.Value{}, fmt.Errorf("%s is not a func", ft)
	}
	if ft.ConvertibleTo(t) {
		return fn.Convert(t), nil
	}
	if !t.IsVariadic() {
		if err := checkCompatible(ft, t); err != nil {
			return reflect.Value{}, err
		}
	}
	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		args := spread(t, in)
		call := make([]reflect.Value, 0, ft.NumIn())
		for i := 0; i < ft.NumIn(); i++ {
			if ft.IsVariadic() && i == ft.NumIn()-1 {
				elem := ft.In(i).Elem()
				for _, a := range args[min(i, len(args)):] {
					call = append(call, argValue(a, elem))
				}
				return results(t, fn.Call(call))
			}
			if i < len(args) {
				call = append(call, argValue(args[i], ft.In(i)))
			} else {
				call = append(call, reflect.Zero(ft.In(i)))
			}
		}
		return results(t, fn.Call(call))
	}), nil
}

// checkCompatible verifies statically that a call of type t can be
// forwarded to ft: ft takes a prefix of t's arguments and returns
// assignable results.
func checkCompatible(ft, t reflect.Type) error {
	if !ft.IsVariadic() && ft.NumIn() > t.NumIn() {
		return fmt.Errorf("%s needs more arguments than %s provides", ft, t)
	}
	for i := 0; i < ft.NumIn() && i < t.NumIn(); i++ {
		want := ft.In(i)
		if ft.IsVariadic() && i == ft.NumIn()-1 {
			want = want.Elem()
		}
		if !t.In(i).AssignableTo(want) {
			return fmt.Errorf("argument %d: %s is not assignable to %s", i, t.In(i), want)
		}
	}
	for i := 0; i < t.NumOut() && i < ft.NumOut(); i++ {
		if !ft.Out(i).AssignableTo(t.Out(i)) {
			return fmt.Errorf("result %d: %s is not assignable to %s", i, ft.Out(i), t.Out(i))
		}
	}
	return nil
}

// spread flattens a variadic trailing slice into individual arguments.
func spread(t reflect.Type, in []reflect.Value) []reflect.Value {
	if !t.IsVariadic() || len(in) == 0 {
		return in
	}
	last := in[len(in)-1]
	out := append([]reflect.Value(nil), in[:len(in)-1]...)
	for i := 0; i < last.Len(); i++ {
		out = append(out, last.Index(i))
	}
	return out
}

// argValue unwraps interface values and checks assignability at call time.
func argValue(v reflect.Value, want reflect.Type) reflect.Value {
	if v.Kind() == reflect.Interface && want.Kind() != reflect.Interface {
		if v.IsNil() {
			return reflect.Zero(want)
		}
		v = v.Elem()
	}
	if !v.Type().AssignableTo(want) {
		panic(fmt.Sprintf("params: handler argument %s is not assignable to %s", v.Type(), want))
	}
	return v
}

// results shapes fn's results to the outputs of t.
func results(t reflect.Type, out []reflect.Value) []reflect.Value {
	res := make([]reflect.Value, t.NumOut())
	for i := range res {
		want := t.Out(i)
		if i < len(out) && out[i].Type().AssignableTo(want) {
			res[i] = out[i]
			continue
		}
		if i < len(out) && want.Kind() == reflect.Interface && out[i].Kind() == reflect.Interface && !out[i].IsNil() && out[i].Elem().Type().AssignableTo(want) {
			res[i] = out[i].Elem()
			continue
		}
		res[i] = reflect.Zero(want)
	}
	return res
}

// bindBlock wraps a block lambda as a value of type t with recv captured.
func bindBlock(t reflect.Type, block markup.BlockFunc, recv any) reflect.Value {
	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		in = spread(t, in)
		args := make([]any, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}
		outs := block(recv, args)
		res := make([]reflect.Value, t.NumOut())
		for i := range res {
			want := t.Out(i)
			if i < len(outs) && outs[i] != nil && reflect.TypeOf(outs[i]).AssignableTo(want) {
				res[i] = reflect.ValueOf(outs[i])
			} else {
				res[i] = reflect.Zero(want)
			}
		}
		return res
	})
}
