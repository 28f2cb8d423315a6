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

package container

import "github.com/nanovm/corevm/object"

// segmentCapacity is SEGLIST_CAPACITY: the number of slots in one
// segment node, per §4.4's "Segment list".
const segmentCapacity = 8

// segment is the SEG variant: a fixed-capacity node in a segment list,
// chained via next. It is internal to list and dict and is never handed
// out as a standalone object.Object value visible to the interpreter.
type segment struct {
	desc object.Descriptor
	n    int
	vals [segmentCapacity]object.Object
	next *segment
}

func (s *segment) Desc() *object.Descriptor { return &s.desc }

func newSegment() *segment {
	s := &segment{}
	s.desc.Init(object.TagSegment)
	return s
}

func init() {
	object.Register(object.TagSegment, object.TypeOps{})
}

// segList is a singly-linked chain of segments, used as the backing
// store for both List and the parallel key/value chains of Dict.
type segList struct {
	head *segment
	len  int
}

// at returns the value stored at the i-th position (0-based), walking
// segments from the head.
func (sl *segList) at(i int) object.Object {
	seg := sl.head
	for i >= seg.n {
		i -= seg.n
		seg = seg.next
	}
	return seg.vals[i]
}

// set overwrites the value at the i-th position.
func (sl *segList) set(i int, v object.Object) {
	seg := sl.head
	for i >= seg.n {
		i -= seg.n
		seg = seg.next
	}
	seg.vals[i] = v
}

// prepend inserts v at position 0, allocating a new head segment if the
// current head is full. This is the O(1) insertion path dict uses on a
// key miss, per §4.4.
func (sl *segList) prepend(v object.Object) {
	if sl.head == nil || sl.head.n == segmentCapacity {
		s := newSegment()
		s.next = sl.head
		sl.head = s
	}
	seg := sl.head
	for i := seg.n; i > 0; i-- {
		seg.vals[i] = seg.vals[i-1]
	}
	seg.vals[0] = v
	seg.n++
	sl.len++
}

// append inserts v after the last occupied slot, allocating a new
// terminal segment if the last one is full.
func (sl *segList) append(v object.Object) {
	if sl.head == nil {
		sl.head = newSegment()
	}
	seg := sl.head
	for seg.next != nil {
		seg = seg.next
	}
	if seg.n == segmentCapacity {
		seg.next = newSegment()
		seg = seg.next
	}
	seg.vals[seg.n] = v
	seg.n++
	sl.len++
}

// insert places v at position i, shifting everything from i onward
// right by one slot. i must satisfy 0 <= i <= sl.len.
func (sl *segList) insert(i int, v object.Object) {
	if i <= 0 {
		sl.prepend(v)
		return
	}
	if i >= sl.len {
		sl.append(v)
		return
	}
	tail := make([]object.Object, 0, sl.len-i)
	for j := i; j < sl.len; j++ {
		tail = append(tail, sl.at(j))
	}
	sl.truncate(i)
	sl.append(v)
	for _, t := range tail {
		sl.append(t)
	}
}

// removeAt deletes the value at position i and returns it.
func (sl *segList) removeAt(i int) object.Object {
	v := sl.at(i)
	for j := i; j < sl.len-1; j++ {
		sl.set(j, sl.at(j+1))
	}
	sl.truncate(sl.len - 1)
	return v
}

// truncate drops the list down to n elements, discarding trailing
// segment nodes entirely once they hold nothing kept.
func (sl *segList) truncate(n int) {
	if n <= 0 {
		sl.head = nil
		sl.len = 0
		return
	}
	seg := sl.head
	remaining := n
	for remaining > seg.n {
		remaining -= seg.n
		seg = seg.next
	}
	for i := remaining; i < seg.n; i++ {
		seg.vals[i] = nil
	}
	seg.n = remaining
	seg.next = nil
	sl.len = n
}

// each calls fn for every value in order.
func (sl *segList) each(fn func(object.Object)) {
	for seg := sl.head; seg != nil; seg = seg.next {
		for i := 0; i < seg.n; i++ {
			fn(seg.vals[i])
		}
	}
}
