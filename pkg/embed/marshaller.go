package loxy

import (
	"fmt"
	"math"
	"reflect"

	"github.com/funvibe/loxy/internal/evaluator"
)

var (
	objectType = reflect.TypeOf((*evaluator.Object)(nil)).Elem()
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

// Marshaller converts between Go values and interpreter values.
type Marshaller struct {
	vm *VM
}

func NewMarshaller(vm *VM) *Marshaller {
	return &Marshaller{vm: vm}
}

// ToValue converts a Go value to an interpreter Object. Every numeric kind
// becomes a Number; Go funcs become native functions.
func (m *Marshaller) ToValue(val interface{}) (evaluator.Object, error) {
	if val == nil {
		return evaluator.NIL, nil
	}
	if obj, ok := val.(evaluator.Object); ok {
		return obj, nil
	}
	if fn, ok := val.(*Func); ok {
		return fn.fn, nil
	}

	v := reflect.ValueOf(val)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &evaluator.Number{Value: float64(v.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &evaluator.Number{Value: float64(v.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &evaluator.Number{Value: v.Float()}, nil
	case reflect.Bool:
		if v.Bool() {
			return evaluator.TRUE, nil
		}
		return evaluator.FALSE, nil
	case reflect.String:
		return &evaluator.String{Value: v.String()}, nil
	case reflect.Func:
		return m.wrapFunc("<go>", v)
	case reflect.Ptr:
		if v.IsNil() {
			return evaluator.NIL, nil
		}
		return m.ToValue(v.Elem().Interface())
	}
	return nil, fmt.Errorf("unsupported Go type %T", val)
}

// FromValue converts an Object to a Go value. With a nil targetType numbers
// come back as float64 and functions as *Func.
func (m *Marshaller) FromValue(obj evaluator.Object, targetType reflect.Type) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	if targetType == objectType {
		return obj, nil
	}

	switch o := obj.(type) {
	case *evaluator.Number:
		return numberTo(o.Value, targetType)
	case *evaluator.Boolean:
		return o.Value, nil
	case *evaluator.String:
		return o.Value, nil
	case *evaluator.Nil:
		return nil, nil
	case *evaluator.Function, *evaluator.Builtin:
		return &Func{vm: m.vm, fn: obj}, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", evaluator.TypeName(obj))
}

func numberTo(f float64, targetType reflect.Type) (interface{}, error) {
	if targetType == nil {
		return f, nil
	}
	switch targetType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if err := checkInteger(f, targetType); err != nil {
			return nil, err
		}
		if f >= 1<<63 || reflect.Zero(targetType).OverflowInt(int64(f)) {
			return nil, fmt.Errorf("cannot use %s as %s: out of range", evaluator.FormatNumber(f), targetType)
		}
		return int64(f), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if err := checkInteger(f, targetType); err != nil {
			return nil, err
		}
		if f < 0 || f >= 1<<64 || reflect.Zero(targetType).OverflowUint(uint64(f)) {
			return nil, fmt.Errorf("cannot use %s as %s: out of range", evaluator.FormatNumber(f), targetType)
		}
		return uint64(f), nil
	}
	return f, nil
}

// checkInteger rejects fractions, infinities and values beyond int64/uint64.
func checkInteger(f float64, t reflect.Type) error {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return fmt.Errorf("cannot use %s as %s: not an integer", evaluator.FormatNumber(f), t)
	}
	if f < -(1<<63) || f >= 1<<64 {
		return fmt.Errorf("cannot use %s as %s: out of range", evaluator.FormatNumber(f), t)
	}
	return nil
}

// assignable converts a FromValue result to a reflect.Value of type t.
func assignable(val interface{}, t reflect.Type) (reflect.Value, error) {
	if val == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot use nil as %s", t)
	}
	rv := reflect.ValueOf(val)
	if rv.Type().AssignableTo(t) {
		return rv, nil
	}
	if rv.Type().ConvertibleTo(t) && rv.Kind() != reflect.String && t.Kind() != reflect.String {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", rv.Type(), t)
}

// wrapFunc exposes a Go func as a native function. Supported results are
// none, (T), (error) and (T, error).
func (m *Marshaller) wrapFunc(name string, fn reflect.Value) (*evaluator.Builtin, error) {
	ft := fn.Type()
	switch ft.NumOut() {
	case 0, 1:
	case 2:
		if ft.Out(1) != errorType {
			return nil, fmt.Errorf("%s: second result must be error, got %s", name, ft.Out(1))
		}
	default:
		return nil, fmt.Errorf("%s: functions may return at most a value and an error", name)
	}

	arity := ft.NumIn()
	if ft.IsVariadic() {
		arity = -1
	}

	return &evaluator.Builtin{
		Name:  name,
		Arity: arity,
		Fn: func(_ *evaluator.Evaluator, args ...evaluator.Object) evaluator.Object {
			result, err := m.callHost(name, fn, args)
			if err != nil {
				if rtErr, ok := err.(*evaluator.Error); ok {
					return rtErr
				}
				return evaluator.Errorf(evaluator.ErrHost, "%s: %v", name, err)
			}
			return result
		},
	}, nil
}

func (m *Marshaller) callHost(name string, fn reflect.Value, args []evaluator.Object) (evaluator.Object, error) {
	ft := fn.Type()
	numIn := ft.NumIn()
	if ft.IsVariadic() && len(args) < numIn-1 {
		return nil, evaluator.Errorf(evaluator.ErrArityMismatch, "%s expected at least %d arguments but got %d", name, numIn-1, len(args))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var target reflect.Type
		if ft.IsVariadic() && i >= numIn-1 {
			target = ft.In(numIn - 1).Elem()
		} else {
			target = ft.In(i)
		}

		val, err := m.FromValue(arg, target)
		if err == nil {
			in[i], err = assignable(val, target)
		}
		if err != nil {
			return nil, evaluator.Errorf(evaluator.ErrTypeMismatch, "%s argument %d: %v", name, i+1, err)
		}
	}

	out := fn.Call(in)
	if len(out) > 0 && ft.Out(len(out)-1) == errorType {
		if errVal := out[len(out)-1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return evaluator.NIL, nil
	}
	return m.ToValue(out[0].Interface())
}
