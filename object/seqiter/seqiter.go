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

// Package seqiter implements the SQI variant: a simple sequence iterator
// over a tuple, list, dict or string, per §3's object table and §4.7's
// "GET_ITER wraps a sequence in a SQI; FOR_ITER advances it."
package seqiter

import (
	"io"

	"github.com/nanovm/corevm/object"
	"github.com/nanovm/corevm/object/container"
)

// SeqIter is the SQI variant: a source object plus the next index to
// yield.
type SeqIter struct {
	desc   object.Descriptor
	Source object.Object
	Index  int
}

func (s *SeqIter) Desc() *object.Descriptor { return &s.desc }

// New wraps src for iteration, retaining it.
func New(src object.Object) *SeqIter {
	s := &SeqIter{Source: src}
	s.desc.Init(object.TagSeqIter)
	object.Retain(src)
	return s
}

func init() {
	object.Register(object.TagSeqIter, object.TypeOps{
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			return object.Release(obj.(*SeqIter).Source, heap)
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			_, err := io.WriteString(w, "<sequence iterator>")
			return err
		},
	})
}

// Next returns the next element and true, or (nil, false) once the
// source is exhausted. A dict iterates over its keys, per §4.4's
// insertion-ordered Keys().
func (s *SeqIter) Next() (object.Object, bool) {
	switch src := s.Source.(type) {
	case *container.Tuple:
		if s.Index >= src.Len() {
			return nil, false
		}
		v, _ := src.GetItem(int32(s.Index))
		s.Index++
		return v, true
	case *container.List:
		if s.Index >= src.Len() {
			return nil, false
		}
		v, _ := src.GetItem(int32(s.Index))
		s.Index++
		return v, true
	case *container.Dict:
		keys := src.Keys()
		if s.Index >= len(keys) {
			return nil, false
		}
		v := keys[s.Index]
		s.Index++
		return v, true
	case *container.String:
		if s.Index >= src.Len() {
			return nil, false
		}
		v, _ := src.GetItem(int32(s.Index))
		s.Index++
		return v, true
	default:
		return nil, false
	}
}
