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
	"testing"

	"github.com/nanovm/corevm/excode"
	"github.com/nanovm/corevm/object"
)

func TestListAppendSpansSegments(t *testing.T) {
	l := NewList(nil)
	for i := int32(0); i < 30; i++ {
		l.Append(NewInt(i))
	}
	if l.Len() != 30 {
		t.Fatalf("Len() = %d, want 30", l.Len())
	}
	for i := int32(0); i < 30; i++ {
		v, err := l.GetItem(i)
		if err != nil {
			t.Fatal(err)
		}
		if v.(*Integer).Val != i {
			t.Fatalf("GetItem(%d) = %d, want %d", i, v.(*Integer).Val, i)
		}
	}
}

func TestListNegativeIndex(t *testing.T) {
	l := NewList([]object.Object{NewInt(1), NewInt(2), NewInt(3)})
	v, err := l.GetItem(-1)
	if err != nil {
		t.Fatal(err)
	}
	if v.(*Integer).Val != 3 {
		t.Fatalf("GetItem(-1) = %d, want 3", v.(*Integer).Val)
	}
}

func TestListIndexOutOfRangeRaisesIndx(t *testing.T) {
	l := NewList(nil)
	l.Append(NewInt(1))
	if _, err := l.GetItem(5); excode.As(err) != excode.ExIndex {
		t.Fatalf("GetItem(5) = %v, want INDX", err)
	}
}

func TestListInsertAndRemove(t *testing.T) {
	l := NewList(nil)
	l.Append(NewInt(1))
	l.Append(NewInt(3))
	l.Insert(1, NewInt(2))
	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	v, _ := l.GetItem(1)
	if v.(*Integer).Val != 2 {
		t.Fatalf("GetItem(1) after insert = %d, want 2", v.(*Integer).Val)
	}
	removed, err := l.Remove(0)
	if err != nil {
		t.Fatal(err)
	}
	if removed.(*Integer).Val != 1 {
		t.Fatalf("Remove(0) = %d, want 1", removed.(*Integer).Val)
	}
	if l.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after Remove", l.Len())
	}
}

func TestConcatListsProducesNewList(t *testing.T) {
	a := NewList(nil)
	a.Append(NewInt(1))
	b := NewList(nil)
	b.Append(NewInt(2))
	c := ConcatLists(a, b)
	if c.Len() != 2 {
		t.Fatalf("ConcatLists len = %d, want 2", c.Len())
	}
	if c == a || c == b {
		t.Fatal("ConcatLists should allocate a new list")
	}
}

func TestListSlice(t *testing.T) {
	l := NewList([]object.Object{NewInt(0), NewInt(1), NewInt(2), NewInt(3), NewInt(4)})
	s := l.Slice(1, 4)
	if s.Len() != 3 {
		t.Fatalf("Slice(1,4) len = %d, want 3", s.Len())
	}
	first, _ := s.GetItem(0)
	if first.(*Integer).Val != 1 {
		t.Fatalf("Slice(1,4)[0] = %d, want 1", first.(*Integer).Val)
	}
}
