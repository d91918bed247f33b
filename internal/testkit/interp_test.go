package testkit_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"lowerjs/internal/testkit"
)

func run(t *testing.T, in *testkit.Interp, src string) testkit.Value {
	t.Helper()
	exports, err := in.Run("main.js", src)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return exports
}

func get(t *testing.T, in *testkit.Interp, v testkit.Value, key string) testkit.Value {
	t.Helper()
	out, err := in.Get(v, key)
	if err != nil {
		t.Fatalf("Get %s: %v", key, err)
	}
	return out
}

func TestInterpValues(t *testing.T) {
	in := testkit.NewInterp()
	exports := run(t, in, `
		exports.n = 1 + 2 * 3;
		exports.f = 0.5;
		exports.s = "s";
		exports.b = true;
		exports.u = void 0;
		exports.z = null;
		exports.o = { k: 1 };
	`)
	tests := []struct {
		key  string
		want testkit.Value
	}{
		{"n", 7.0},
		{"f", 0.5},
		{"s", "s"},
		{"b", true},
		{"u", testkit.Undefined},
		{"z", testkit.Null},
		{"missing", testkit.Undefined},
	}
	for _, tt := range tests {
		if got := get(t, in, exports, tt.key); got != tt.want {
			t.Errorf("exports.%s = %v, want %v", tt.key, got, tt.want)
		}
	}
	if _, ok := get(t, in, exports, "o").(*testkit.Object); !ok {
		t.Errorf("exports.o is not an object")
	}
}

func TestInterpModuleWrapper(t *testing.T) {
	in := testkit.NewInterp()
	exports := run(t, in, `
		"use strict";
		exports.self = this === exports;
		exports.kinds = [typeof exports, typeof require, typeof module].join(",");
		module.exports = { replaced: true, self: exports.self, kinds: exports.kinds };
	`)
	if got := get(t, in, exports, "replaced"); got != true {
		t.Errorf("module.exports was not returned")
	}
	if got := get(t, in, exports, "self"); got != true {
		t.Errorf("this is not exports")
	}
	if got := get(t, in, exports, "kinds"); got != "object,function,object" {
		t.Errorf("kinds = %v", got)
	}
}

func TestInterpGetters(t *testing.T) {
	in := testkit.NewInterp()
	exports := run(t, in, `
		var backing = 1;
		Object.defineProperty(exports, "live", { enumerable: true, get: function () { return backing; } });
		Object.defineProperty(exports, "boom", { get: function () { throw new RangeError("no"); } });
		exports.set = function (v) { backing = v; };
	`)
	if _, err := in.Call(get(t, in, exports, "set"), testkit.Undefined, 9.0); err != nil {
		t.Fatal(err)
	}
	if got := get(t, in, exports, "live"); got != 9.0 {
		t.Errorf("live = %v, want 9", got)
	}
	_, err := in.Get(exports, "boom")
	var thrown *testkit.Thrown
	if !errors.As(err, &thrown) || thrown.Message() != "no" {
		t.Errorf("getter exception = %v", err)
	}
	if diff := cmp.Diff([]string{"live", "set"}, exports.(*testkit.Object).Keys()); diff != "" {
		t.Errorf("keys (-want +got):\n%s", diff)
	}
}

func TestInterpExceptions(t *testing.T) {
	_, err := testkit.NewInterp().Run("main.js", `throw new TypeError("bad");`)
	var thrown *testkit.Thrown
	if !errors.As(err, &thrown) || thrown.Message() != "bad" {
		t.Fatalf("expected thrown TypeError, got %v", err)
	}
	if err.Error() != "uncaught TypeError: bad" {
		t.Errorf("error text %q", err.Error())
	}

	_, err = testkit.NewInterp().Run("main.js", `throw "plain";`)
	if !errors.As(err, &thrown) || thrown.Message() != "plain" {
		t.Errorf("expected thrown string, got %v", err)
	}

	in := testkit.NewInterp()
	in.SetGlobal("fail", in.Func(func(testkit.Value, []testkit.Value) (testkit.Value, error) {
		return nil, errors.New("from go")
	}))
	exports := run(t, in, `try { fail(); } catch (e) { exports.caught = e instanceof Error; }`)
	if got := get(t, in, exports, "caught"); got != true {
		t.Errorf("Go error was not catchable")
	}
}

func TestInterpRequire(t *testing.T) {
	in := testkit.NewInterp()
	in.AddModule("./a", `exports.value = 1; exports.bump = function () { exports.value++; };`)
	stub := in.NewObject()
	if err := stub.Set("name", "stub"); err != nil {
		t.Fatal(err)
	}
	in.AddExports("stub", stub)
	exports := run(t, in, `
		var a = require("./a");
		var again = require("./a");
		a.bump();
		module.exports = { value: again.value, same: a === again, name: require("stub").name };
	`)
	if got := get(t, in, exports, "value"); got != 2.0 {
		t.Errorf("value = %v", got)
	}
	if got := get(t, in, exports, "same"); got != true {
		t.Errorf("modules are not cached")
	}
	if got := get(t, in, exports, "name"); got != "stub" {
		t.Errorf("name = %v", got)
	}
	if diff := cmp.Diff([]string{"./a", "stub"}, in.Loaded()); diff != "" {
		t.Errorf("load order (-want +got):\n%s", diff)
	}
	m, err := in.Require("./a")
	if err != nil {
		t.Fatal(err)
	}
	if got := get(t, in, m, "value"); got != 2.0 {
		t.Errorf("Require returned a fresh instance: value = %v", got)
	}

	_, err = in.Run("main.js", `require("nope");`)
	var thrown *testkit.Thrown
	if !errors.As(err, &thrown) || thrown.Message() != "Cannot find module 'nope'" {
		t.Errorf("expected missing module error, got %v", err)
	}
}

func TestInterpNativeFunctions(t *testing.T) {
	in := testkit.NewInterp()
	in.SetGlobal("pair", in.Func(func(_ testkit.Value, args []testkit.Value) (testkit.Value, error) {
		return in.NewArray(args...), nil
	}))
	exports := run(t, in, `exports.joined = pair(1, "b").join("-");`)
	if got := get(t, in, exports, "joined"); got != "1-b" {
		t.Errorf("joined = %v", got)
	}
}

func TestInterpTimeout(t *testing.T) {
	in := testkit.NewInterp()
	in.Timeout = 50 * time.Millisecond
	if _, err := in.Run("main.js", `while (true) {}`); err == nil {
		t.Fatal("infinite loop was not stopped")
	}
}
