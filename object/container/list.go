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

import (
	"io"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

// List is the LST variant: a mutable, indexed sequence backed by a
// segList, per §4.4.
type List struct {
	desc object.Descriptor
	segs segList
}

func (l *List) Desc() *object.Descriptor { return &l.desc }

// NewList builds a List seeded with vals; ownership of each element
// transfers to the list (no Retain), matching segList.append.
func NewList(vals []object.Object) *List {
	l := &List{}
	l.desc.Init(object.TagList)
	for _, v := range vals {
		l.segs.append(v)
	}
	return l
}

// Len returns the element count.
func (l *List) Len() int { return l.segs.len }

func init() {
	object.Register(object.TagList, object.TypeOps{
		IsFalse: func(obj object.Object) bool { return obj.(*List).Len() == 0 },
		Compare: func(a, b object.Object) object.CompareResult {
			la, lb := a.(*List), b.(*List)
			if la.Len() != lb.Len() {
				return object.Differ
			}
			for i := 0; i < la.Len(); i++ {
				if object.Compare(la.segs.at(i), lb.segs.at(i)) != object.Same {
					return object.Differ
				}
			}
			return object.Same
		},
		Contains: func(obj, item object.Object) (bool, error) {
			found := false
			obj.(*List).segs.each(func(v object.Object) {
				if !found && object.Compare(v, item) == object.Same {
					found = true
				}
			})
			return found, nil
		},
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			var firstErr error
			obj.(*List).segs.each(func(v object.Object) {
				if err := object.Release(v, heap); err != nil && firstErr == nil {
					firstErr = err
				}
			})
			return firstErr
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			l := obj.(*List)
			vals := make([]object.Object, 0, l.Len())
			l.segs.each(func(v object.Object) { vals = append(vals, v) })
			return printSeq(w, vals, '[', ']')
		},
	})
}

// normIndex normalizes a possibly-negative index against length n,
// raising INDX if the result is out of range.
func normIndex(i int32, n int, line int) (int, error) {
	idx := int(i)
	if idx < 0 {
		idx += n
	}
	if idx < 0 || idx >= n {
		return 0, excode.New(excode.ExIndex, "object/container", line)
	}
	return idx, nil
}

// GetItem returns the element at index i, per §4.4's negative-index
// normalization and out-of-range INDX rule.
func (l *List) GetItem(i int32) (object.Object, error) {
	idx, err := normIndex(i, l.Len(), 120)
	if err != nil {
		return nil, err
	}
	return l.segs.at(idx), nil
}

// SetItem overwrites the element at index i, releasing the value it
// replaces.
func (l *List) SetItem(i int32, v object.Object, heap object.Deallocator) error {
	idx, err := normIndex(i, l.Len(), 131)
	if err != nil {
		return err
	}
	old := l.segs.at(idx)
	l.segs.set(idx, v)
	return object.Release(old, heap)
}

// Append adds v to the end of the list.
func (l *List) Append(v object.Object) { l.segs.append(v) }

// Insert places v at index i (clamped into [0, Len()]).
func (l *List) Insert(i int32, v object.Object) {
	idx := int(i)
	if idx < 0 {
		idx = 0
	}
	if idx > l.Len() {
		idx = l.Len()
	}
	l.segs.insert(idx, v)
}

// Remove deletes and returns (without releasing) the element at index i.
func (l *List) Remove(i int32) (object.Object, error) {
	idx, err := normIndex(i, l.Len(), 157)
	if err != nil {
		return nil, err
	}
	return l.segs.removeAt(idx), nil
}

// ConcatLists returns a new List holding a's elements followed by b's,
// retaining every element since both lists keep their own references.
func ConcatLists(a, b *List) *List {
	out := &List{}
	out.desc.Init(object.TagList)
	a.segs.each(func(v object.Object) { object.Retain(v); out.segs.append(v) })
	b.segs.each(func(v object.Object) { object.Retain(v); out.segs.append(v) })
	return out
}

// Slice returns a new List holding elements [lo, hi), retaining each.
// lo and hi are clamped into [0, Len()].
func (l *List) Slice(lo, hi int32) *List {
	n := l.Len()
	start, end := clamp(lo, n), clamp(hi, n)
	out := &List{}
	out.desc.Init(object.TagList)
	for i := start; i < end; i++ {
		v := l.segs.at(i)
		object.Retain(v)
		out.segs.append(v)
	}
	return out
}

func clamp(i int32, n int) int {
	v := int(i)
	if v < 0 {
		v = 0
	}
	if v > n {
		v = n
	}
	return v
}
