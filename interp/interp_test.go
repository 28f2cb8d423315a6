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

// interp_test.go covers §8 property 2 (refcount soundness) at the
// whole-program level: these fixtures trace a complete Interp.Run and
// assert that every object the run allocated along the way -- not just
// the one it returns -- is released, including on the unwound-exception
// path.
package interp

import (
	"testing"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// TestArithRefcountFullyReleased runs "x = 7 + 8; return x" and checks
// that the whole object graph the run built -- the sum, the frame's
// locals, and the constants BINARY_ADD consumed -- unwinds to zero
// except for the one reference the caller receives back.
func TestArithRefcountFullyReleased(t *testing.T) {
	it := newTestInterp(t)

	c7 := container.NewInt(7)
	c8 := container.NewInt(8)

	code := newAsm().
		opArg(OpLoadConst, 0).
		opArg(OpLoadConst, 1).
		op(OpBinaryAdd).
		opArg(OpStoreFast, 0).
		opArg(OpLoadFast, 0).
		op(OpReturnValue).
		bytes(t)

	fr, _ := newTestFrame(t, it, code, nil, []object.Object{c7, c8}, 1)
	result, err := it.Run(fr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	sum, ok := result.(*container.Integer)
	if !ok || sum.Val != 15 {
		t.Fatalf("result = %v, want Integer(15)", result)
	}
	if sum.Desc().RefCount() != 1 {
		t.Fatalf("result refcount = %d, want 1 (owned solely by the caller)", sum.Desc().RefCount())
	}
	if err := object.Release(sum, it.Heap); err != nil {
		t.Fatalf("Release(result): %v", err)
	}

	// The frame that produced it is gone: RETURN_VALUE released the top
	// frame, which cascaded into its Code (names/consts tuples and their
	// elements) and Func. Nothing should be left owning c7 or c8.
	if c7.Desc().RefCount() != 0 {
		t.Fatalf("const 7 refcount after run = %d, want 0", c7.Desc().RefCount())
	}
	if c8.Desc().RefCount() != 0 {
		t.Fatalf("const 8 refcount after run = %d, want 0", c8.Desc().RefCount())
	}
}

// TestUncaughtExceptionReleasesFrame runs "x = 99; raise" with no
// SETUP_EXCEPT block in scope, and checks that unwind's fallback path
// (no handler found anywhere in the frame chain) still tears down the
// frame -- and everything it owned -- before reporting the escaped
// error, per §7's "if no frame remains, the interpreter terminates with
// the exception as the process-level outcome."
func TestUncaughtExceptionReleasesFrame(t *testing.T) {
	it := newTestInterp(t)

	c99 := container.NewInt(99)

	code := newAsm().
		opArg(OpLoadConst, 0).
		opArg(OpStoreFast, 0).
		opArg(OpRaiseVarargs, 0).
		bytes(t)

	fr, _ := newTestFrame(t, it, code, nil, []object.Object{c99}, 1)
	_, err := it.Run(fr)
	if excode.As(err) != excode.Ex {
		t.Fatalf("run error = %v, want EX", err)
	}
	if c99.Desc().RefCount() != 0 {
		t.Fatalf("local holding 99 refcount after unwind = %d, want 0", c99.Desc().RefCount())
	}
}
