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
)

// TestStrSubscriptReturnsSingleByteString exercises the #9 regression
// noted in §4.4's Design Note: indexing a string always yields a fresh
// one-character String, never a bare integer code point.
func TestStrSubscriptReturnsSingleByteString(t *testing.T) {
	s := NewString([]byte("hello"), true)
	c, err := s.GetItem(1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Len() != 1 || c.Bytes()[0] != 'e' {
		t.Fatalf("GetItem(1) = %q, want single-byte \"e\"", c.Bytes())
	}
}

func TestStrNegativeIndex(t *testing.T) {
	s := NewString([]byte("hello"), true)
	c, err := s.GetItem(-1)
	if err != nil {
		t.Fatal(err)
	}
	if c.Bytes()[0] != 'o' {
		t.Fatalf("GetItem(-1) = %q, want \"o\"", c.Bytes())
	}
}

func TestStrIndexOutOfRange(t *testing.T) {
	s := NewString([]byte("hi"), true)
	if _, err := s.GetItem(5); excode.As(err) != excode.ExIndex {
		t.Fatalf("GetItem(5) = %v, want INDX", err)
	}
}

func TestStrConcat(t *testing.T) {
	a := NewString([]byte("foo"), true)
	b := NewString([]byte("bar"), true)
	c := Concat(a, b)
	if string(c.Bytes()) != "foobar" {
		t.Fatalf("Concat = %q, want \"foobar\"", c.Bytes())
	}
}

func TestStrBorrowedPayloadAliases(t *testing.T) {
	buf := []byte("program memory view")
	s := NewString(buf, false)
	if s.Owned {
		t.Fatal("NewString(buf, false) should not be marked Owned")
	}
	buf[0] = 'P'
	if s.Bytes()[0] != 'P' {
		t.Fatal("borrowed string payload should alias the backing slice")
	}
}
