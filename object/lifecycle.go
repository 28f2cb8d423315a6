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

import "fmt"

// Deallocator is implemented by a heap that can return a chunk obtained
// through it. It lets this package release an object's backing chunk
// without importing the heap package (which would create an import
// cycle, since heap-adjacent packages build on top of object).
type Deallocator interface {
	FreeChunk(buf []byte) error
}

// Retain increments obj's reference count. Every owning reference
// (a stack slot, a local, a container slot, an attrs dict entry) must be
// matched by exactly one Retain when it is created and one Release when
// it is discarded, per §3.4.
func Retain(obj Object) {
	if obj == nil {
		return
	}
	d := obj.Desc()
	d.refcount++
}

// Release decrements obj's reference count and, if it reaches zero,
// invokes the variant's destructor and, for a ChunkHolder, returns its
// chunk to heap. Nil is
// a no-op. Singletons (None, -1, 0, 1) are never deallocated even if
// their count reaches zero, per §3.3.
func Release(obj Object, heap Deallocator) error {
	if obj == nil {
		return nil
	}
	d := obj.Desc()
	d.refcount--
	if d.refcount > 0 {
		return nil
	}
	if d.singleton {
		// Clamp rather than let a buggy caller drive this negative;
		// singletons are refcounted for bookkeeping only.
		d.refcount = 1
		return nil
	}
	if d.refcount < 0 {
		return fmt.Errorf("object: refcount underflow on %s object", d.tag)
	}
	if destroy := ops(d.tag).Destroy; destroy != nil {
		if err := destroy(obj, heap); err != nil {
			return err
		}
	}
	if heap != nil {
		if buf, ok := obj.(ChunkHolder); ok {
			return heap.FreeChunk(buf.Chunk())
		}
	}
	return nil
}

// ChunkHolder is implemented by variants that know the raw heap chunk
// backing their own storage, so Release can hand it back to the heap
// after the destructor runs. Variants whose storage is borrowed (e.g. a
// string view over program memory) do not implement this.
type ChunkHolder interface {
	Chunk() []byte
}
