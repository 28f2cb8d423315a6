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

// String is the STR variant: an immutable byte payload. The payload may
// be owned (copied into the object's own chunk) or borrowed (aliasing
// program memory read via memspace), per §3.4; Owned records which of
// the two it is. Release does not consult it.
type String struct {
	desc  object.Descriptor
	bytes []byte
	Owned bool
}

func (s *String) Desc() *object.Descriptor { return &s.desc }

// NewString wraps b as a String. If owned is false, b is kept by
// reference (a borrowed view, e.g. over program memory) rather than
// copied.
func NewString(b []byte, owned bool) *String {
	s := &String{bytes: b, Owned: owned}
	s.desc.Init(object.TagStr)
	return s
}

// Bytes returns the string's payload. Callers must not mutate it:
// strings are immutable after construction per §4.4.
func (s *String) Bytes() []byte { return s.bytes }

// Len returns the payload length.
func (s *String) Len() int { return len(s.bytes) }

func init() {
	object.Register(object.TagStr, object.TypeOps{
		IsFalse: func(obj object.Object) bool { return obj.(*String).Len() == 0 },
		Compare: func(a, b object.Object) object.CompareResult {
			sa, sb := a.(*String), b.(*String)
			if string(sa.bytes) == string(sb.bytes) {
				return object.Same
			}
			return object.Differ
		},
		// Contains requires the needle be empty or a single byte, per
		// §4.3; the original's obj.c in_op raises VAL for any longer
		// needle rather than doing a substring search.
		Contains: func(obj, item object.Object) (bool, error) {
			needle, ok := item.(*String)
			if !ok {
				return false, excode.New(excode.ExType, "object/container", 63)
			}
			if len(needle.bytes) == 0 {
				return true, nil
			}
			if len(needle.bytes) != 1 {
				return false, excode.New(excode.ExValue, "object/container", 66)
			}
			haystack := obj.(*String).bytes
			for i := range haystack {
				if haystack[i] == needle.bytes[0] {
					return true, nil
				}
			}
			return false, nil
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			s := obj.(*String)
			if marshal {
				if _, err := io.WriteString(w, "'"); err != nil {
					return err
				}
			}
			if _, err := w.Write(s.bytes); err != nil {
				return err
			}
			if marshal {
				_, err := io.WriteString(w, "'")
				return err
			}
			return nil
		},
	})
}

// GetItem returns the single-byte String at index i, normalizing a
// negative index by adding Len(). Out-of-range raises INDX. Subscripting
// a string always yields a fresh single-character string, per the Issue
// #9 regression noted in §4.4's Design Note.
func (s *String) GetItem(i int32) (*String, error) {
	n := int32(s.Len())
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, excode.New(excode.ExIndex, "object/container", 106)
	}
	return NewString([]byte{s.bytes[i]}, true), nil
}

// Concat returns a new owned String holding a's bytes followed by b's.
func Concat(a, b *String) *String {
	buf := make([]byte, 0, a.Len()+b.Len())
	buf = append(buf, a.bytes...)
	buf = append(buf, b.bytes...)
	return NewString(buf, true)
}
