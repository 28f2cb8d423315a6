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

// Package object implements the tagged-object model described in §3: a
// common descriptor (type tag, refcount, size class) shared by every
// variant, plus the reference-counting lifecycle rules and the
// table-dispatched operations (destroy, compare, truthiness, containment,
// print) that §4.3 specifies.
//
// Concrete variants (int, string, tuple, ...) live in sibling packages
// (object/container, object/code, object/function, object/exception,
// object/seqiter, object/thread) and the frame package; each registers its
// per-tag operations from an init() function, the same
// table-registration idiom the teacher uses for its opcode table
// (opinfo[op].portable = fn in vm/interp.go). This package never imports
// any of them, so there is no cycle and no variant needs to be known
// ahead of time.
package object

// Descriptor is the common header embedded as the first field of every
// variant struct. A pointer to any object can be examined for its tag
// without knowing the variant, per §3.1.
type Descriptor struct {
	tag       Tag
	refcount  int32
	sizeClass uint8
	singleton bool
}

// Object is implemented by every heap-resident value.
type Object interface {
	Desc() *Descriptor
}

// Init sets the tag on a freshly constructed object's descriptor and
// gives it a refcount of 1, representing the one reference the
// constructor's caller receives.
func (d *Descriptor) Init(tag Tag) {
	d.tag = tag
	d.refcount = 1
}

// InitSingleton is like Init but marks the descriptor so Release never
// invokes its destructor, matching §3.3's rule that None and the -1/0/1
// integers are never deallocated regardless of refcount underflow
// attempts.
func (d *Descriptor) InitSingleton(tag Tag) {
	d.Init(tag)
	d.singleton = true
}

// Tag returns the object's variant tag.
func (d *Descriptor) Tag() Tag { return d.tag }

// RefCount returns the current reference count.
func (d *Descriptor) RefCount() int32 { return d.refcount }

// Singleton reports whether this object is an interned singleton.
func (d *Descriptor) Singleton() bool { return d.singleton }

// SizeClass returns the allocator's size-class/mark bits for this object.
func (d *Descriptor) SizeClass() uint8 { return d.sizeClass }

// SetSizeClass records the allocator's size class for this object.
func (d *Descriptor) SetSizeClass(c uint8) { d.sizeClass = c }
