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

// Package frame implements the FRM variant (§3's object table) and the
// block stack described in §4's "A block records a handler target."
// Frame is itself an object.Object, registered into the central
// dispatch table like any other variant, per SPEC_FULL.md §4.6.
package frame

import (
	"io"

	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/code"
	"github.com/nanovm/corevm/object/container"
	"github.com/nanovm/corevm/object/function"
)

// BlockKind identifies what a Block unwinds to.
type BlockKind uint8

const (
	BlockLoop BlockKind = iota
	BlockExcept
	BlockFinally
	BlockWith
)

// Block records a handler target: its kind, the bytecode offset to jump
// to, and the evaluation-stack pointer snapshot taken at SETUP time, per
// §4's "A block records a handler target: kind..., handler IP, and the
// evaluation-stack pointer snapshot."
type Block struct {
	Kind      BlockKind
	HandlerIP int
	StackPtr  int
	Next      *Block
}

// Frame is the FRM variant: one activation record. Its evaluation stack
// is a single slice sized nlocals+stacksz, with locals occupying
// [0:NLocals) and the operand stack growing from NLocals upward, per
// §3.3's invariant.
type Frame struct {
	desc     object.Descriptor
	Code     *code.Code
	Func     object.Object // owning *function.Function, for globals/attrs lookup
	Back     *Frame        // caller, nil for a thread's root frame
	IsImport bool
	ImportName string

	NLocals int
	slots   []object.Object // [0:NLocals) locals, [NLocals:sp) operand stack
	sp      int

	Blocks *Block
	IP     int
}

func (f *Frame) Desc() *object.Descriptor { return &f.desc }

// New builds a Frame over co with nlocals local slots and room reserved
// for stackSize operand-stack entries; Push grows the stack past that
// reservation rather than failing.
func New(co *code.Code, fn object.Object, back *Frame, nlocals, stackSize int) *Frame {
	f := &Frame{
		Code:    co,
		Func:    fn,
		Back:    back,
		NLocals: nlocals,
		slots:   make([]object.Object, nlocals, nlocals+stackSize),
	}
	f.sp = nlocals
	f.desc.Init(object.TagFrame)
	object.Retain(co)
	object.Retain(fn)
	return f
}

func init() {
	object.Register(object.TagFrame, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			f := obj.(*Frame)
			for i := range f.slots {
				if err := object.Release(f.slots[i], heap); err != nil {
					return err
				}
			}
			if err := object.Release(f.Code, heap); err != nil {
				return err
			}
			return object.Release(f.Func, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			_, err := io.WriteString(w, "<frame>")
			return err
		},
	})
}

// GetLocal returns the value in local slot i.
func (f *Frame) GetLocal(i int) object.Object { return f.slots[i] }

// SetLocal stores v in local slot i, retaining it and releasing any
// prior occupant.
func (f *Frame) SetLocal(i int, v object.Object, heap object.Deallocator) error {
	old := f.slots[i]
	f.slots[i] = v
	object.Retain(v)
	return object.Release(old, heap)
}

// Push retains and pushes v onto the operand stack.
func (f *Frame) Push(v object.Object) {
	object.Retain(v)
	if f.sp < len(f.slots) {
		f.slots[f.sp] = v
	} else {
		f.slots = append(f.slots, v)
	}
	f.sp++
}

// Pop removes and returns the top of the operand stack. The caller owns
// the returned reference and must Release it (or transfer it onward).
func (f *Frame) Pop() object.Object {
	f.sp--
	v := f.slots[f.sp]
	f.slots[f.sp] = nil
	return v
}

// Top returns (without removing) the top of the operand stack.
func (f *Frame) Top() object.Object { return f.slots[f.sp-1] }

// NthFromTop returns the n-th item counting from the top, where n=1 is
// the top itself, without removing anything. Used by DUP_TOPX.
func (f *Frame) NthFromTop(n int) object.Object { return f.slots[f.sp-n] }

// StackDepth returns the number of items currently on the operand stack,
// excluding locals.
func (f *Frame) StackDepth() int { return f.sp - f.NLocals }

// TruncateStack pops (and releases) items down to depth sp, used when a
// block unwind restores a previously snapshotted stack pointer.
func (f *Frame) TruncateStack(sp int, heap object.Deallocator) error {
	for f.sp > sp {
		v := f.Pop()
		if err := object.Release(v, heap); err != nil {
			return err
		}
	}
	return nil
}

// PushBlock pushes a new Block of kind, targeting handlerIP, snapshotting
// the current stack pointer.
func (f *Frame) PushBlock(kind BlockKind, handlerIP int) {
	f.Blocks = &Block{Kind: kind, HandlerIP: handlerIP, StackPtr: f.sp, Next: f.Blocks}
}

// PopBlock removes and returns the innermost block, or nil if there is
// none.
func (f *Frame) PopBlock() *Block {
	b := f.Blocks
	if b != nil {
		f.Blocks = b.Next
	}
	return b
}

// Globals returns the frame's globals dict via its owning function, or
// nil if Func is neither a *function.Function nor a *function.Module.
func (f *Frame) Globals() *container.Dict {
	switch fn := f.Func.(type) {
	case *function.Function:
		return fn.Globals
	case *function.Module:
		return fn.Attrs
	}
	return nil
}

// Attrs returns the frame's owning function's attrs dict, used by
// LOAD_ATTR/LOAD_NAME lookups, or nil if Func is neither kind.
func (f *Frame) Attrs() *container.Dict {
	switch fn := f.Func.(type) {
	case *function.Function:
		return fn.Attrs
	case *function.Module:
		return fn.Attrs
	}
	return nil
}
