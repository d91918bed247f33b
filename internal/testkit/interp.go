package testkit

import (
	"errors"
	"fmt"
	"time"

	"github.com/dop251/goja"
)

// Value is a value crossing between Go and a running program: Undefined,
// Null, a bool, a float64, a string or an *Object.
type Value = any

type undefinedValue struct{}

type nullValue struct{}

var (
	Undefined Value = undefinedValue{}
	Null      Value = nullValue{}
)

// Object is an object of the running program.
type Object = goja.Object

// Interp runs CommonJS programs, such as the output of the commonjs pass,
// against modules registered by the test. Each module body runs inside the
// usual (exports, require, module) wrapper with exports as this.
type Interp struct {
	vm      *goja.Runtime
	require *goja.Object
	modules map[string]*module
	loaded  []string

	// Timeout bounds one Run; zero means the default.
	Timeout time.Duration
}

const defaultTimeout = 10 * time.Second

type module struct {
	name     string
	src      string
	obj      *goja.Object
	required bool
}

// Thrown is a JavaScript exception that escaped the program.
type Thrown struct {
	Value Value
	text  string
}

func (t *Thrown) Error() string {
	return "uncaught " + t.text
}

// Message returns the message of a thrown error object, or the thrown value
// converted to a string.
func (t *Thrown) Message() string {
	if o, ok := t.Value.(*Object); ok {
		if msg := o.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
	}
	return t.text
}

// NewInterp returns an interpreter with no modules.
func NewInterp() *Interp {
	in := &Interp{vm: goja.New(), modules: make(map[string]*module)}
	in.require = in.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		v, err := in.load(call.Argument(0).String())
		if err != nil {
			panic(in.throwable(err))
		}
		return v
	}).(*goja.Object)
	return in
}

// AddModule registers a module given by CommonJS source. It runs on its
// first require.
func (in *Interp) AddModule(specifier, src string) {
	in.modules[specifier] = &module{name: specifier, src: src}
}

// AddExports registers a module whose exports object is built by the test.
func (in *Interp) AddExports(specifier string, exports *Object) {
	obj := in.vm.NewObject()
	_ = obj.Set("exports", exports)
	in.modules[specifier] = &module{name: specifier, obj: obj}
}

// Loaded lists the specifiers required so far, in the order of their first
// require.
func (in *Interp) Loaded() []string {
	return append([]string(nil), in.loaded...)
}

// SetGlobal binds name in the global scope.
func (in *Interp) SetGlobal(name string, v Value) {
	_ = in.vm.Set(name, in.value(v))
}

// NewObject returns an empty ordinary object.
func (in *Interp) NewObject() *Object {
	return in.vm.NewObject()
}

// NewArray returns an array holding items.
func (in *Interp) NewArray(items ...Value) *Object {
	vals := make([]any, len(items))
	for i, it := range items {
		vals[i] = in.value(it)
	}
	return in.vm.NewArray(vals...)
}

// Func wraps a Go function as a function object. An error returned by f is
// thrown into the program.
func (in *Interp) Func(f func(this Value, args []Value) (Value, error)) *Object {
	return in.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		args := make([]Value, len(call.Arguments))
		for i, a := range call.Arguments {
			args[i] = in.export(a)
		}
		out, err := f(in.export(call.This), args)
		if err != nil {
			panic(in.throwable(err))
		}
		return in.value(out)
	}).(*goja.Object)
}

// Get reads key from v, running getters.
func (in *Interp) Get(v Value, key string) (out Value, err error) {
	err = in.guard(func() {
		obj := in.value(v).ToObject(in.vm)
		out = in.export(obj.Get(key))
	})
	return out, err
}

// Call calls fn with the given receiver.
func (in *Interp) Call(fn, this Value, args ...Value) (Value, error) {
	callable, ok := goja.AssertFunction(in.value(fn))
	if !ok {
		return nil, in.typeError(fmt.Sprintf("%v is not a function", fn))
	}
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = in.value(a)
	}
	res, err := callable(in.value(this), vals...)
	if err != nil {
		return nil, in.wrap(err)
	}
	return in.export(res), nil
}

// Run executes src as the entry module named name and returns the value of
// its module.exports.
func (in *Interp) Run(name, src string) (Value, error) {
	timeout := in.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	timer := time.AfterFunc(timeout, func() { in.vm.Interrupt("testkit: timeout") })
	defer func() {
		timer.Stop()
		in.vm.ClearInterrupt()
	}()
	v, err := in.run(&module{name: name, src: src})
	if err != nil {
		return nil, err
	}
	return in.export(v), nil
}

// Require loads a registered module the way require would.
func (in *Interp) Require(specifier string) (Value, error) {
	v, err := in.load(specifier)
	if err != nil {
		return nil, err
	}
	return in.export(v), nil
}

func (in *Interp) load(specifier string) (goja.Value, error) {
	m, ok := in.modules[specifier]
	if !ok {
		obj, err := in.vm.New(in.vm.Get("Error"), in.vm.ToValue(fmt.Sprintf("Cannot find module '%s'", specifier)))
		if err != nil {
			return nil, in.wrap(err)
		}
		return nil, in.thrown(obj)
	}
	if !m.required {
		m.required = true
		in.loaded = append(in.loaded, specifier)
	}
	if m.obj != nil {
		return m.obj.Get("exports"), nil
	}
	return in.run(m)
}

func (in *Interp) run(m *module) (goja.Value, error) {
	wrapper, err := in.vm.RunScript(m.name, "(function (exports, require, module) {"+m.src+"\n})")
	if err != nil {
		return nil, in.wrap(err)
	}
	fn, ok := goja.AssertFunction(wrapper)
	if !ok {
		return nil, fmt.Errorf("testkit: %s did not compile to a function", m.name)
	}
	exports := in.vm.NewObject()
	m.obj = in.vm.NewObject()
	_ = m.obj.Set("exports", exports)
	if _, err := fn(exports, exports, in.require, m.obj); err != nil {
		return nil, in.wrap(err)
	}
	return m.obj.Get("exports"), nil
}

// guard runs f, turning a JavaScript exception raised by a getter into an
// error.
func (in *Interp) guard(f func()) (err error) {
	defer func() {
		if x := recover(); x != nil {
			switch ex := x.(type) {
			case *goja.Exception:
				err = in.wrap(ex)
			case goja.Value:
				err = in.thrown(ex)
			default:
				panic(x)
			}
		}
	}()
	f()
	return nil
}

func (in *Interp) wrap(err error) error {
	var ex *goja.Exception
	if errors.As(err, &ex) {
		return in.thrown(ex.Value())
	}
	return err
}

func (in *Interp) thrown(v goja.Value) *Thrown {
	return &Thrown{Value: in.export(v), text: v.String()}
}

func (in *Interp) typeError(msg string) *Thrown {
	return in.thrown(in.vm.NewTypeError(msg))
}

// throwable converts err back into a value the program can catch.
func (in *Interp) throwable(err error) goja.Value {
	var t *Thrown
	if errors.As(err, &t) {
		return in.value(t.Value)
	}
	return in.vm.NewGoError(err)
}

func (in *Interp) value(v Value) goja.Value {
	switch x := v.(type) {
	case nil, undefinedValue:
		return goja.Undefined()
	case nullValue:
		return goja.Null()
	case goja.Value:
		return x
	default:
		return in.vm.ToValue(x)
	}
}

func (in *Interp) export(v goja.Value) Value {
	switch {
	case v == nil || goja.IsUndefined(v):
		return Undefined
	case goja.IsNull(v):
		return Null
	}
	if o, ok := v.(*goja.Object); ok {
		return o
	}
	switch x := v.Export().(type) {
	case int64:
		return float64(x)
	default:
		return x
	}
}
