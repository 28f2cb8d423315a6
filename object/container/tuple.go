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

// Tuple is the TUP variant: an immutable inline payload of owned
// references, fixed at construction time, per §4.4.
type Tuple struct {
	desc object.Descriptor
	vals []object.Object
}

func (t *Tuple) Desc() *object.Descriptor { return &t.desc }

// NewTuple builds a Tuple from vals without retaining them: the Tuple
// takes over the caller's existing reference to each element, so callers
// that built vals specifically for this call should not separately
// Release them.
func NewTuple(vals []object.Object) *Tuple {
	t := &Tuple{vals: append([]object.Object(nil), vals...)}
	t.desc.Init(object.TagTuple)
	return t
}

// Len returns the element count.
func (t *Tuple) Len() int { return len(t.vals) }

func init() {
	object.Register(object.TagTuple, object.TypeOps{
		IsFalse: func(obj object.Object) bool { return obj.(*Tuple).Len() == 0 },
		Compare: func(a, b object.Object) object.CompareResult {
			ta, tb := a.(*Tuple), b.(*Tuple)
			if ta.Len() != tb.Len() {
				return object.Differ
			}
			for i := range ta.vals {
				if object.Compare(ta.vals[i], tb.vals[i]) != object.Same {
					return object.Differ
				}
			}
			return object.Same
		},
		Contains: func(obj, item object.Object) (bool, error) {
			for _, v := range obj.(*Tuple).vals {
				if object.Compare(v, item) == object.Same {
					return true, nil
				}
			}
			return false, nil
		},
		Destroy: func(obj object.Object, heap object.Deallocator) error {
			for _, v := range obj.(*Tuple).vals {
				if err := object.Release(v, heap); err != nil {
					return err
				}
			}
			return nil
		},
		Print: func(w io.Writer, obj object.Object, marshal bool) error {
			return printSeq(w, obj.(*Tuple).vals, '(', ')')
		},
	})
}

// GetItem returns the i-th element, normalizing negative indices and
// raising INDX out of range, per §4.4.
func (t *Tuple) GetItem(i int32) (object.Object, error) {
	n := int32(t.Len())
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, excode.New(excode.ExIndex, "object/container", 93)
	}
	return t.vals[i], nil
}

// ConcatTuples returns a new Tuple holding a's elements followed by b's,
// retaining every element since a, b and the result each keep their own
// references.
func ConcatTuples(a, b *Tuple) *Tuple {
	out := make([]object.Object, 0, a.Len()+b.Len())
	out = append(out, a.vals...)
	out = append(out, b.vals...)
	for _, v := range out {
		object.Retain(v)
	}
	return NewTuple(out)
}

// printSeq writes a comma-separated, bracket-delimited repr of vals.
func printSeq(w io.Writer, vals []object.Object, open, close byte) error {
	if _, err := w.Write([]byte{open}); err != nil {
		return err
	}
	for i, v := range vals {
		if i > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		if err := object.Fprint(w, v, true); err != nil {
			return err
		}
	}
	_, err := w.Write([]byte{close})
	return err
}
