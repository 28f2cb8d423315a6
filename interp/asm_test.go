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

package interp

import (
	"testing"

	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/heap"
	"github.com/nanovm/corevm/image"
	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
	"github.com/nanovm/corevm/object/function"
)

// labelRef is a forward reference recorded while assembling: the 2-byte
// operand at pos should be patched with the address label resolves to.
type labelRef struct {
	pos   int
	label string
}

// asm hand-assembles a bytecode stream for the fixture programs in this
// package's tests, since there is no compiler in scope: every test wires
// opcodes directly against §4.7's encoding (1-byte opcode, optional
// 2-byte little-endian operand).
type asm struct {
	buf    []byte
	labels map[string]int
	fixups []labelRef
}

func newAsm() *asm { return &asm{labels: map[string]int{}} }

func (a *asm) mark(label string) *asm {
	a.labels[label] = len(a.buf)
	return a
}

func (a *asm) op(op Op) *asm {
	a.buf = append(a.buf, byte(op))
	return a
}

func (a *asm) opArg(op Op, arg uint16) *asm {
	a.buf = append(a.buf, byte(op), byte(arg), byte(arg>>8))
	return a
}

func (a *asm) opLabel(op Op, label string) *asm {
	a.buf = append(a.buf, byte(op), 0, 0)
	a.fixups = append(a.fixups, labelRef{pos: len(a.buf) - 2, label: label})
	return a
}

func (a *asm) bytes(t *testing.T) []byte {
	t.Helper()
	for _, f := range a.fixups {
		target, ok := a.labels[f.label]
		if !ok {
			t.Fatalf("asm: undefined label %q", f.label)
		}
		a.buf[f.pos] = byte(target)
		a.buf[f.pos+1] = byte(target >> 8)
	}
	return a.buf
}

// newTestInterp builds an Interp with the standard builtins registered
// and a real mmap-backed heap, matching how pmvm.Context wires one.
func newTestInterp(t *testing.T) *Interp {
	t.Helper()
	h, err := heap.New(64 * 1024)
	if err != nil {
		t.Fatalf("heap.New: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	ms := memspace.NewReader()
	it := New(ms, image.NewDirectory(), h)
	it.RegisterBuiltins()
	return it
}

// newTestFrame mounts bytecode into it's RAM space and builds a root
// frame over it, with its own fresh globals dict.
func newTestFrame(t *testing.T, it *Interp, bytecode []byte, names, consts []object.Object, nlocals int) (*frame.Frame, *container.Dict) {
	t.Helper()
	it.MS.Mount(memspace.RAM, bytecode)

	namesTuple := container.NewTuple(names)
	constsTuple := container.NewTuple(consts)
	co := code.NewCode(memspace.RAM, memspace.Cursor{Space: memspace.RAM, Addr: 0},
		memspace.Cursor{Space: memspace.RAM, Addr: 0}, namesTuple, constsTuple, nlocals, object.None)
	object.Release(namesTuple, it.Heap)
	object.Release(constsTuple, it.Heap)

	// globals is returned to the caller still holding its own reference
	// (unlike pmvm.Context.Run, which releases it immediately) so tests
	// can pre-seed globals the way a MAKE_FUNCTION-less bytecode stream
	// cannot build for itself.
	globals := container.NewDict()
	fn := function.NewFunction(co, globals, container.NewTuple(nil))
	object.Release(co, it.Heap)

	fr := frame.New(co, fn, nil, nlocals, 32)
	object.Release(fn, it.Heap)
	for i := 0; i < nlocals; i++ {
		fr.SetLocal(i, object.None, it.Heap)
	}
	return fr, globals
}
