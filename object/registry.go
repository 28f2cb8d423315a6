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

package object

import "io"

// CompareResult is the result of comparing two objects: it is never
// anything but Same or Differ, and comparison never raises, per §4.3.
type CompareResult int8

const (
	Same   CompareResult = 0
	Differ CompareResult = -1
)

// TypeOps is the per-tag operation table. Every field is optional; a nil
// entry falls back to the default behavior documented on the
// corresponding dispatch function below.
type TypeOps struct {
	// Destroy releases any resources owned by obj (contained element
	// references, segment-list nodes, ...) before its chunk is
	// returned to the heap. heap is passed through so a container can
	// Release its elements recursively; Destroy must not itself free
	// obj's own chunk, since the caller (Release) does that once
	// Destroy returns.
	Destroy func(obj Object, heap Deallocator) error

	// IsFalse reports whether obj is falsy. Types that omit this are
	// always truthy (matching §4.3's "every other value -> true").
	IsFalse func(obj Object) bool

	// Compare compares two objects already known to share this tag.
	Compare func(a, b Object) CompareResult

	// Contains reports whether item is "in" obj. ok=false with err=nil
	// means "not found"; err != nil surfaces a TYPE/VAL exception.
	Contains func(obj, item Object) (ok bool, err error)

	// Print writes obj's printable (marshal=false) or repr (marshal=true)
	// form to w.
	Print func(w io.Writer, obj Object, marshal bool) error
}

var registry [numTags]TypeOps

// Register installs the operation table for tag. Variant packages call
// this from an init() function, mirroring the teacher's
// opinfo[op].portable = fn registration for its opcode table.
func Register(tag Tag, ops TypeOps) {
	registry[tag] = ops
}

func ops(tag Tag) *TypeOps {
	if tag >= numTags {
		return &TypeOps{}
	}
	return &registry[tag]
}
