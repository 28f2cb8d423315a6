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

// Package thread implements the THR variant: a user-level thread with
// its own root frame, scheduled cooperatively round-robin at opcode
// boundaries by the sched package, per §5.
package thread

import (
	"io"

	"github.com/nanovm/corevm/frame"
	"github.com/nanovm/corevm/object"
)

// Status tracks a Thread's scheduling state.
type Status uint8

const (
	Runnable Status = iota
	Waiting
	Done
)

// Thread is the THR variant: a root frame plus the scheduler-visible
// status. The interpreter never runs two Threads' opcodes interleaved
// within a single opcode, per §5's "switches only between whole
// opcodes."
type Thread struct {
	desc   object.Descriptor
	Root   *frame.Frame
	Cur    *frame.Frame // currently executing frame (Root or a callee)
	Status Status
	ID     uint32
}

func (t *Thread) Desc() *object.Descriptor { return &t.desc }

// New builds a Thread rooted at root, retaining it.
func New(id uint32, root *frame.Frame) *Thread {
	t := &Thread{Root: root, Cur: root, ID: id, Status: Runnable}
	t.desc.Init(object.TagThread)
	if root != nil {
		object.Retain(root)
	}
	return t
}

func init() {
	object.Register(object.TagThread, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			th := obj.(*Thread)
			if th.Root == nil {
				return nil
			}
			return object.Release(th.Root, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			_, err := io.WriteString(w, "<thread>")
			return err
		},
	})
}
