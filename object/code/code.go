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

// Package code implements the COB and NOB variants: the two ways a
// callable body can be represented on the heap, per §3's object table.
package code

import (
	"fmt"
	"io"

	"github.com/nanovm/corevm/memspace"
	"github.com/nanovm/corevm/object"
)

// Code is the COB variant: an immutable, image-loaded function body.
// co_codeaddr lies within the image range starting at co_codeimgaddr,
// per §3's invariant; Parent keeps the owning image's arena reachable
// for implementations that do not give each image its own arena (see
// DESIGN.md on the Design Note's co_parentobject discussion).
type Code struct {
	desc       object.Descriptor
	Space      memspace.Space
	ImageAddr  memspace.Cursor
	Names      object.Object // *container.Tuple of *container.String
	Consts     object.Object // *container.Tuple, may nest inner Code via NativeCode
	CodeAddr   memspace.Cursor
	ArgCount   int
	Parent     object.Object
}

func (c *Code) Desc() *object.Descriptor { return &c.desc }

// NewCode builds a Code object, retaining names, consts and parent.
func NewCode(space memspace.Space, imageAddr, codeAddr memspace.Cursor, names, consts object.Object, argCount int, parent object.Object) *Code {
	c := &Code{
		Space:     space,
		ImageAddr: imageAddr,
		Names:     names,
		Consts:    consts,
		CodeAddr:  codeAddr,
		ArgCount:  argCount,
		Parent:    parent,
	}
	c.desc.Init(object.TagCode)
	object.Retain(names)
	object.Retain(consts)
	object.Retain(parent)
	return c
}

func init() {
	object.Register(object.TagCode, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			c := obj.(*Code)
			if err := object.Release(c.Names, heap); err != nil {
				return err
			}
			if err := object.Release(c.Consts, heap); err != nil {
				return err
			}
			return object.Release(c.Parent, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			c := obj.(*Code)
			_, err := fmt.Fprintf(w, "<code at %s:%d>", c.Space, c.CodeAddr.Addr)
			return err
		},
	})
}

// Native is the NOB variant: a reference to a host-implemented builtin,
// identified by an index into the interpreter's native function table
// rather than by bytecode, per §3's "argcount, native function index".
type Native struct {
	desc     object.Descriptor
	ArgCount int
	Index    int
}

func (n *Native) Desc() *object.Descriptor { return &n.desc }

// NewNative builds a Native referencing the host function at index.
func NewNative(argCount, index int) *Native {
	n := &Native{ArgCount: argCount, Index: index}
	n.desc.Init(object.TagNative)
	return n
}

func init() {
	object.Register(object.TagNative, object.TypeOps{
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			n := obj.(*Native)
			_, err := fmt.Fprintf(w, "<native #%d>", n.Index)
			return err
		},
	})
}
