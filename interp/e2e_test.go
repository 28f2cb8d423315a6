// Copyright (C) 2024 corevm contributors
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// e2e_test.go hand-assembles the end-to-end fixture programs of §8's
// worked scenarios: full bytecode streams run through Interp.Run rather
// than single-opcode unit tests.
package interp

import (
	"testing"

	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
	"github.com/nanovm/corevm/object/function"
)

// TestE2EPrintAdd covers "print(1+2)" -> "3\n".
func TestE2EPrintAdd(t *testing.T) {
	it := newTestInterp(t)
	var out []byte
	it.Stdout = func(b []byte) error { out = append(out, b...); return nil }

	names := []object.Object{container.NewString([]byte("print"), true)}
	consts := []object.Object{container.NewInt(1), container.NewInt(2)}

	bc := newAsm().
		opArg(OpLoadGlobal, 0).
		opArg(OpLoadConst, 0).
		opArg(OpLoadConst, 1).
		op(OpBinaryAdd).
		opArg(OpCallFunction, 1).
		op(OpReturnValue).
		bytes(t)

	fr, _ := newTestFrame(t, it, bc, names, consts, 0)
	if _, err := it.Run(fr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != "3\n" {
		t.Fatalf("output = %q, want \"3\\n\"", out)
	}
}

// TestE2EDictSetAndGet covers "d = {\"a\": 1}; d[\"a\"] = 2; print(d[\"a\"])"
// -> "2\n". The dict literal itself is pre-seeded in local slot 0 since
// there is no BUILD_MAP opcode; the subscript store/load is real
// bytecode.
func TestE2EDictSetAndGet(t *testing.T) {
	it := newTestInterp(t)
	var out []byte
	it.Stdout = func(b []byte) error { out = append(out, b...); return nil }

	keyA := container.NewString([]byte("a"), true)
	d := container.NewDict()
	d.SetItem(keyA, container.NewInt(1), it.Heap) // dict takes ownership of keyA

	names := []object.Object{container.NewString([]byte("print"), true)}
	// a distinct "a" string: dict keys are compared by value, so constant
	// lookups need not alias the dict's own key object.
	consts := []object.Object{container.NewString([]byte("a"), true), container.NewInt(2)}

	bc := newAsm().
		opArg(OpLoadConst, 1). // 2
		opArg(OpLoadFast, 0).  // d
		opArg(OpLoadConst, 0). // "a"
		opArg(OpStoreSubscr, 0).
		opArg(OpLoadGlobal, 0). // print
		opArg(OpLoadFast, 0).   // d
		opArg(OpLoadConst, 0).  // "a"
		opArg(OpLoadSubscr, 0).
		opArg(OpCallFunction, 1).
		op(OpReturnValue).
		bytes(t)

	fr, _ := newTestFrame(t, it, bc, names, consts, 1)
	fr.SetLocal(0, d, it.Heap)
	object.Release(d, it.Heap) // frame's SetLocal retained its own reference

	if _, err := it.Run(fr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != "2\n" {
		t.Fatalf("output = %q, want \"2\\n\"", out)
	}
}

// TestE2EStringSubscriptPrint covers "print(\"hello\"[1])" -> "e\n".
func TestE2EStringSubscriptPrint(t *testing.T) {
	it := newTestInterp(t)
	var out []byte
	it.Stdout = func(b []byte) error { out = append(out, b...); return nil }

	names := []object.Object{container.NewString([]byte("print"), true)}
	consts := []object.Object{container.NewString([]byte("hello"), true), container.NewInt(1)}

	bc := newAsm().
		opArg(OpLoadGlobal, 0).
		opArg(OpLoadConst, 0).
		opArg(OpLoadConst, 1).
		opArg(OpLoadSubscr, 0).
		opArg(OpCallFunction, 1).
		op(OpReturnValue).
		bytes(t)

	fr, _ := newTestFrame(t, it, bc, names, consts, 0)
	if _, err := it.Run(fr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != "e\n" {
		t.Fatalf("output = %q, want \"e\\n\"", out)
	}
}

// TestE2EForLoopOverRange covers "for i in range(3): print(i)" ->
// "0\n1\n2\n". FOR_ITER leaves the iterator under the yielded value each
// pass, so the loop body stashes i into a local before reloading it as
// print's argument.
func TestE2EForLoopOverRange(t *testing.T) {
	it := newTestInterp(t)
	var out []byte
	it.Stdout = func(b []byte) error { out = append(out, b...); return nil }

	names := []object.Object{
		container.NewString([]byte("range"), true),
		container.NewString([]byte("print"), true),
	}
	consts := []object.Object{container.NewInt(3), object.None}

	a := newAsm().
		opArg(OpLoadGlobal, 0). // range
		opArg(OpLoadConst, 0).  // 3
		opArg(OpCallFunction, 1).
		op(OpGetIter).
		mark("loopStart").
		opLabel(OpForIter, "loopExit").
		opArg(OpStoreFast, 0).
		opArg(OpLoadGlobal, 1). // print
		opArg(OpLoadFast, 0).
		opArg(OpCallFunction, 1).
		op(OpPopTop).
		opLabel(OpJumpAbsolute, "loopStart").
		mark("loopExit").
		opArg(OpLoadConst, 1). // None
		op(OpReturnValue)
	bc := a.bytes(t)

	fr, _ := newTestFrame(t, it, bc, names, consts, 1)
	if _, err := it.Run(fr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != "0\n1\n2\n" {
		t.Fatalf("output = %q, want \"0\\n1\\n2\\n\"", out)
	}
}

// TestE2EFunctionDefAndCall covers "def f(x): return x*x\nprint(f(5))" ->
// "25\n". There is no MAKE_FUNCTION opcode, so f's code object and
// function wrapper are built directly and bound into the outer frame's
// globals before running; the call itself (including the frame switch
// CALL_FUNCTION/RETURN_VALUE perform) is real bytecode.
func TestE2EFunctionDefAndCall(t *testing.T) {
	it := newTestInterp(t)
	var out []byte
	it.Stdout = func(b []byte) error { out = append(out, b...); return nil }

	inner := newAsm().
		opArg(OpLoadFast, 0).
		opArg(OpLoadFast, 0).
		op(OpBinaryMultiply).
		op(OpReturnValue).
		bytes(t)

	outer := newAsm().
		opArg(OpLoadGlobal, 0). // print
		opArg(OpLoadGlobal, 1). // f
		opArg(OpLoadConst, 0).  // 5
		opArg(OpCallFunction, 1).
		opArg(OpCallFunction, 1).
		op(OpReturnValue).
		bytes(t)

	combined := append(append([]byte{}, outer...), inner...)
	it.MS.Mount(memspace.RAM, combined)
	innerAddr := uint32(len(outer))

	outerNames := []object.Object{
		container.NewString([]byte("print"), true),
		container.NewString([]byte("f"), true),
	}
	outerConsts := []object.Object{container.NewInt(5)}
	outerNamesTuple := container.NewTuple(outerNames)
	outerConstsTuple := container.NewTuple(outerConsts)
	outerCode := code.NewCode(memspace.RAM, memspace.Cursor{Space: memspace.RAM, Addr: 0},
		memspace.Cursor{Space: memspace.RAM, Addr: 0}, outerNamesTuple, outerConstsTuple, 0, object.None)
	object.Release(outerNamesTuple, it.Heap)
	object.Release(outerConstsTuple, it.Heap)

	innerNamesTuple := container.NewTuple(nil)
	innerConstsTuple := container.NewTuple(nil)
	innerCode := code.NewCode(memspace.RAM, memspace.Cursor{Space: memspace.RAM, Addr: innerAddr},
		memspace.Cursor{Space: memspace.RAM, Addr: innerAddr}, innerNamesTuple, innerConstsTuple, 1, object.None)
	object.Release(innerNamesTuple, it.Heap)
	object.Release(innerConstsTuple, it.Heap)

	globals := container.NewDict()
	outerFn := function.NewFunction(outerCode, globals, container.NewTuple(nil))
	object.Release(outerCode, it.Heap)

	innerFn := function.NewFunction(innerCode, globals, container.NewTuple(nil))
	object.Release(innerCode, it.Heap)

	fName := container.NewString([]byte("f"), true)
	// Dict.SetItem takes over its caller's existing reference to key and
	// value rather than retaining a new one, so neither is released here.
	globals.SetItem(fName, innerFn, it.Heap)

	fr := frame.New(outerCode, outerFn, nil, 0, 32)
	object.Release(outerFn, it.Heap)

	if _, err := it.Run(fr); err != nil {
		t.Fatalf("run: %v", err)
	}
	if string(out) != "25\n" {
		t.Fatalf("output = %q, want \"25\\n\"", out)
	}
}
